package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/go-mlab/internal/lexer"
)

// PrefixExpression represents a unary prefix operation: -x, +x, ~x.
type PrefixExpression struct {
	Token    lexer.Token // The operator token
	Operator string
	Operand  Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Operand.String() + ")"
}
func (pe *PrefixExpression) Pos() lexer.Position { return pe.Token.Pos }

// PostfixExpression represents a unary postfix operation; the transposes
// ' and .' are the only postfix operators.
type PostfixExpression struct {
	Token    lexer.Token // The operator token
	Operator string
	Operand  Expression
}

func (pe *PostfixExpression) expressionNode()      {}
func (pe *PostfixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PostfixExpression) String() string {
	return "(" + pe.Operand.String() + pe.Operator + ")"
}
func (pe *PostfixExpression) Pos() lexer.Position { return pe.Token.Pos }

// InfixExpression represents a binary operation: a + b, a .* b, a == b, ...
type InfixExpression struct {
	Token    lexer.Token // The operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}
func (ie *InfixExpression) Pos() lexer.Position { return ie.Token.Pos }

// RangeExpression represents a colon range: start:stop or start:step:stop.
// A bare colon inside an argument list has all three slots nil and selects
// every element of the indexed dimension.
type RangeExpression struct {
	Token lexer.Token // The COLON token
	Start Expression  // may be nil
	Step  Expression  // may be nil
	Stop  Expression  // may be nil
}

// IsBareColon reports whether the range is a bare `:` selecting a whole
// dimension.
func (re *RangeExpression) IsBareColon() bool {
	return re.Start == nil && re.Step == nil && re.Stop == nil
}

func (re *RangeExpression) expressionNode()      {}
func (re *RangeExpression) TokenLiteral() string { return re.Token.Literal }
func (re *RangeExpression) String() string {
	if re.IsBareColon() {
		return ":"
	}
	var out bytes.Buffer
	out.WriteString(re.Start.String())
	out.WriteString(":")
	if re.Step != nil {
		out.WriteString(re.Step.String())
		out.WriteString(":")
	}
	out.WriteString(re.Stop.String())
	return out.String()
}
func (re *RangeExpression) Pos() lexer.Position { return re.Token.Pos }

// MatrixLiteral represents a bracketed matrix literal: [1 2; 3 4].
// Rows hold the element expressions of each row.
type MatrixLiteral struct {
	Token lexer.Token // The [ token
	Rows  [][]Expression
}

func (ml *MatrixLiteral) expressionNode()      {}
func (ml *MatrixLiteral) TokenLiteral() string { return ml.Token.Literal }
func (ml *MatrixLiteral) String() string {
	var rows []string
	for _, row := range ml.Rows {
		var elems []string
		for _, e := range row {
			elems = append(elems, e.String())
		}
		rows = append(rows, strings.Join(elems, ", "))
	}
	return "[" + strings.Join(rows, "; ") + "]"
}
func (ml *MatrixLiteral) Pos() lexer.Position { return ml.Token.Pos }

// CellLiteral represents a braced cell-array literal: {1, 'two'; [3 4], 5}.
type CellLiteral struct {
	Token lexer.Token // The { token
	Rows  [][]Expression
}

func (cl *CellLiteral) expressionNode()      {}
func (cl *CellLiteral) TokenLiteral() string { return cl.Token.Literal }
func (cl *CellLiteral) String() string {
	var rows []string
	for _, row := range cl.Rows {
		var elems []string
		for _, e := range row {
			elems = append(elems, e.String())
		}
		rows = append(rows, strings.Join(elems, ", "))
	}
	return "{" + strings.Join(rows, "; ") + "}"
}
func (cl *CellLiteral) Pos() lexer.Position { return cl.Token.Pos }

// CallExpression represents f(args). The same syntax indexes a matrix,
// cell array or struct array when the callee resolves to a value; the
// interpreter decides by the binding kind of the callee.
type CallExpression struct {
	Token     lexer.Token // The ( token
	Callee    Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	var args []string
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}
	return ce.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}
func (ce *CallExpression) Pos() lexer.Position { return ce.Token.Pos }

// CellIndexExpression represents brace indexing into a cell array: c{i, j}.
type CellIndexExpression struct {
	Token     lexer.Token // The { token
	Callee    Expression
	Arguments []Expression
}

func (ce *CellIndexExpression) expressionNode()      {}
func (ce *CellIndexExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CellIndexExpression) String() string {
	var args []string
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}
	return ce.Callee.String() + "{" + strings.Join(args, ", ") + "}"
}
func (ce *CellIndexExpression) Pos() lexer.Position { return ce.Token.Pos }

// FieldAccess represents struct field access: s.name.
type FieldAccess struct {
	Token  lexer.Token // The . token
	Object Expression
	Field  string
}

func (fa *FieldAccess) expressionNode()      {}
func (fa *FieldAccess) TokenLiteral() string { return fa.Token.Literal }
func (fa *FieldAccess) String() string {
	return fa.Object.String() + "." + fa.Field
}
func (fa *FieldAccess) Pos() lexer.Position { return fa.Token.Pos }

// AnonFunction represents an anonymous function: @(x, y) x + y.
// The body is a single expression; the lexical environment is captured
// when the literal is evaluated.
type AnonFunction struct {
	Token  lexer.Token // The @ token
	Params []*Identifier
	Body   Expression
}

func (af *AnonFunction) expressionNode()      {}
func (af *AnonFunction) TokenLiteral() string { return af.Token.Literal }
func (af *AnonFunction) String() string {
	var params []string
	for _, p := range af.Params {
		params = append(params, p.Value)
	}
	return "@(" + strings.Join(params, ", ") + ") " + af.Body.String()
}
func (af *AnonFunction) Pos() lexer.Position { return af.Token.Pos }

// FuncHandle represents a named function handle: @sin. The name resolves
// at call time, not at construction time.
type FuncHandle struct {
	Token lexer.Token // The @ token
	Name  string
}

func (fh *FuncHandle) expressionNode()      {}
func (fh *FuncHandle) TokenLiteral() string { return fh.Token.Literal }
func (fh *FuncHandle) String() string       { return "@" + fh.Name }
func (fh *FuncHandle) Pos() lexer.Position  { return fh.Token.Pos }
