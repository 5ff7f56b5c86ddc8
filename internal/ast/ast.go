// Package ast defines the Abstract Syntax Tree node types for MATLAB source.
package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/cwbudde/go-mlab/internal/lexer"
)

// Node is the base interface for all AST nodes.
// Every node must provide its token literal, a source representation,
// and position information.
type Node interface {
	// TokenLiteral returns the literal value of the token this node is associated with.
	TokenLiteral() string

	// String returns MATLAB source for the node. The output is re-parseable,
	// which the pretty-print round-trip tests rely on.
	String() string

	// Pos returns the position of the node in the source code for error reporting.
	Pos() lexer.Position
}

// Expression represents any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement represents a node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node of the AST.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, stmt := range p.Statements {
		out.WriteString(stmt.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (p *Program) Pos() lexer.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1, Offset: 0}
}

// Identifier represents a variable or function name.
type Identifier struct {
	Token lexer.Token // The IDENT token
	Value string      // The actual identifier name
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Pos() lexer.Position  { return i.Token.Pos }

// NumberLiteral represents a numeric literal. Imaginary literals carry
// their magnitude in Imag with Value zero.
type NumberLiteral struct {
	Token lexer.Token // The NUMBER token
	Value float64
	Imag  float64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) String() string {
	if n.Token.Literal != "" {
		return n.Token.Literal
	}
	if n.Imag != 0 {
		return strconv.FormatFloat(n.Imag, 'g', -1, 64) + "i"
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}
func (n *NumberLiteral) Pos() lexer.Position { return n.Token.Pos }

// StringLiteral represents a string literal.
type StringLiteral struct {
	Token lexer.Token // The STRING token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) String() string {
	return "'" + strings.ReplaceAll(s.Value, "'", "''") + "'"
}
func (s *StringLiteral) Pos() lexer.Position { return s.Token.Pos }

// BooleanLiteral represents true or false.
type BooleanLiteral struct {
	Token lexer.Token // The TRUE or FALSE token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (b *BooleanLiteral) Pos() lexer.Position { return b.Token.Pos }

// EndExpression represents the `end` sentinel inside an indexing context.
// It resolves to the size of the dimension being indexed.
type EndExpression struct {
	Token lexer.Token // The END token
}

func (e *EndExpression) expressionNode()      {}
func (e *EndExpression) TokenLiteral() string { return e.Token.Literal }
func (e *EndExpression) String() string       { return "end" }
func (e *EndExpression) Pos() lexer.Position  { return e.Token.Pos }
