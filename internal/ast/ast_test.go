package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/go-mlab/internal/lexer"
)

func ident(name string) *Identifier {
	return &Identifier{Token: lexer.Token{Type: lexer.IDENT, Literal: name}, Value: name}
}

func num(v float64) *NumberLiteral {
	return &NumberLiteral{Token: lexer.Token{Type: lexer.NUMBER}, Value: v}
}

func TestExpressionStrings(t *testing.T) {
	infix := &InfixExpression{Left: ident("a"), Operator: "+", Right: num(2)}
	assert.Equal(t, "(a + 2)", infix.String())

	post := &PostfixExpression{Operand: ident("A"), Operator: "'"}
	assert.Equal(t, "(A')", post.String())

	call := &CallExpression{Callee: ident("f"), Arguments: []Expression{ident("x"), num(3)}}
	assert.Equal(t, "f(x, 3)", call.String())

	r := &RangeExpression{Start: num(1), Stop: ident("n")}
	assert.Equal(t, "1:n", r.String())

	bare := &RangeExpression{}
	assert.True(t, bare.IsBareColon())
	assert.Equal(t, ":", bare.String())

	m := &MatrixLiteral{Rows: [][]Expression{{num(1), num(2)}, {num(3), num(4)}}}
	assert.Equal(t, "[1, 2; 3, 4]", m.String())

	anon := &AnonFunction{Params: []*Identifier{ident("x")}, Body: &InfixExpression{Left: ident("x"), Operator: "*", Right: num(2)}}
	assert.Equal(t, "@(x) (x * 2)", anon.String())
}

func TestStatementStrings(t *testing.T) {
	assign := &AssignStatement{Target: ident("x"), Value: num(5)}
	assert.Equal(t, "x = 5;", assign.String())
	assign.PrintResult = true
	assert.Equal(t, "x = 5", assign.String())

	multi := &MultiAssignStatement{
		Targets: []Expression{ident("q"), nil},
		Value:   &CallExpression{Callee: ident("qr"), Arguments: []Expression{ident("A")}},
	}
	assert.Equal(t, "[q, ~] = qr(A);", multi.String())

	fd := &FunctionDecl{
		Name:    "add",
		Params:  []*Identifier{ident("a"), ident("b")},
		Returns: []*Identifier{ident("s")},
		Body: []Statement{
			&AssignStatement{Target: ident("s"), Value: &InfixExpression{Left: ident("a"), Operator: "+", Right: ident("b")}},
		},
	}
	assert.Equal(t, "function s = add(a, b)\ns = (a + b);\nend", fd.String())
}

func TestStringLiteralEscaping(t *testing.T) {
	s := &StringLiteral{Value: "it's"}
	assert.Equal(t, "'it''s'", s.String())
}

func TestNumberLiteralPreservesLexeme(t *testing.T) {
	n := &NumberLiteral{Token: lexer.Token{Literal: "1.5e3"}, Value: 1500}
	assert.Equal(t, "1.5e3", n.String())
}
