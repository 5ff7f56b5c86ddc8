// Package symbolic implements the symbolic expression engine: a small
// expression tree with a parser, a rewrite-based simplifier, structural
// differentiation, pattern-directed integration, an equation solver and
// Taylor expansion.
package symbolic

import (
	"math"
	"strconv"
)

// Expr is a node of a symbolic expression tree.
type Expr interface {
	// String renders the expression in infix form. The output re-parses
	// to a structurally equivalent tree.
	String() string
	exprNode()
}

// Num is a numeric constant.
type Num struct {
	Value float64
}

func (n *Num) exprNode() {}

func (n *Num) String() string {
	if n.Value < 0 {
		return "(" + formatNum(n.Value) + ")"
	}
	return formatNum(n.Value)
}

func formatNum(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Var is a named variable.
type Var struct {
	Name string
}

func (v *Var) exprNode()      {}
func (v *Var) String() string { return v.Name }

// Add is a binary sum.
type Add struct {
	L, R Expr
}

func (a *Add) exprNode() {}

func (a *Add) String() string {
	if n, ok := a.R.(*Neg); ok {
		return a.L.String() + " - " + mulOperand(n.X)
	}
	return a.L.String() + " + " + a.R.String()
}

// Mul is a binary product.
type Mul struct {
	L, R Expr
}

func (m *Mul) exprNode() {}

func (m *Mul) String() string {
	return mulOperand(m.L) + "*" + mulOperand(m.R)
}

func mulOperand(e Expr) string {
	switch e.(type) {
	case *Add, *Neg:
		return "(" + e.String() + ")"
	}
	return e.String()
}

// Pow is an exponentiation.
type Pow struct {
	Base, Exp Expr
}

func (p *Pow) exprNode() {}

func (p *Pow) String() string {
	return powOperand(p.Base) + "^" + powOperand(p.Exp)
}

func powOperand(e Expr) string {
	switch e.(type) {
	case *Num, *Var:
		return e.String()
	case *Fun:
		return e.String()
	}
	return "(" + e.String() + ")"
}

// Neg is a unary negation.
type Neg struct {
	X Expr
}

func (n *Neg) exprNode() {}

func (n *Neg) String() string {
	switch n.X.(type) {
	case *Num, *Var, *Fun:
		return "-" + n.X.String()
	}
	return "-(" + n.X.String() + ")"
}

// Div is a quotient.
type Div struct {
	L, R Expr
}

func (d *Div) exprNode() {}

func (d *Div) String() string {
	return mulOperand(d.L) + "/" + divOperand(d.R)
}

func divOperand(e Expr) string {
	switch e.(type) {
	case *Num, *Var:
		return e.String()
	case *Fun:
		return e.String()
	}
	return "(" + e.String() + ")"
}

// Fun is a named unary function application.
type Fun struct {
	Name string
	Arg  Expr
}

func (f *Fun) exprNode() {}

func (f *Fun) String() string {
	return f.Name + "(" + f.Arg.String() + ")"
}

// unaryFuncs maps the supported function names to their numeric
// implementations.
var unaryFuncs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"ln":   math.Log,
	"log":  math.Log,
	"sqrt": math.Sqrt,
	"abs":  math.Abs,
	"asin": math.Asin,
	"acos": math.Acos,
	"atan": math.Atan,
	"sinh": math.Sinh,
	"cosh": math.Cosh,
	"tanh": math.Tanh,
}

// IsUnaryFunc reports whether name is a supported unary function.
func IsUnaryFunc(name string) bool {
	_, ok := unaryFuncs[name]
	return ok
}

// Equal reports structural equality of two expressions.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case *Num:
		y, ok := b.(*Num)
		return ok && x.Value == y.Value
	case *Var:
		y, ok := b.(*Var)
		return ok && x.Name == y.Name
	case *Add:
		y, ok := b.(*Add)
		return ok && Equal(x.L, y.L) && Equal(x.R, y.R)
	case *Mul:
		y, ok := b.(*Mul)
		return ok && Equal(x.L, y.L) && Equal(x.R, y.R)
	case *Pow:
		y, ok := b.(*Pow)
		return ok && Equal(x.Base, y.Base) && Equal(x.Exp, y.Exp)
	case *Neg:
		y, ok := b.(*Neg)
		return ok && Equal(x.X, y.X)
	case *Div:
		y, ok := b.(*Div)
		return ok && Equal(x.L, y.L) && Equal(x.R, y.R)
	case *Fun:
		y, ok := b.(*Fun)
		return ok && x.Name == y.Name && Equal(x.Arg, y.Arg)
	}
	return false
}

// ContainsVar reports whether the expression mentions the variable.
func ContainsVar(e Expr, name string) bool {
	switch x := e.(type) {
	case *Num:
		return false
	case *Var:
		return x.Name == name
	case *Add:
		return ContainsVar(x.L, name) || ContainsVar(x.R, name)
	case *Mul:
		return ContainsVar(x.L, name) || ContainsVar(x.R, name)
	case *Pow:
		return ContainsVar(x.Base, name) || ContainsVar(x.Exp, name)
	case *Neg:
		return ContainsVar(x.X, name)
	case *Div:
		return ContainsVar(x.L, name) || ContainsVar(x.R, name)
	case *Fun:
		return ContainsVar(x.Arg, name)
	}
	return false
}

// Subs substitutes replacement for every occurrence of the variable.
func Subs(e Expr, name string, replacement Expr) Expr {
	switch x := e.(type) {
	case *Num:
		return x
	case *Var:
		if x.Name == name {
			return replacement
		}
		return x
	case *Add:
		return &Add{L: Subs(x.L, name, replacement), R: Subs(x.R, name, replacement)}
	case *Mul:
		return &Mul{L: Subs(x.L, name, replacement), R: Subs(x.R, name, replacement)}
	case *Pow:
		return &Pow{Base: Subs(x.Base, name, replacement), Exp: Subs(x.Exp, name, replacement)}
	case *Neg:
		return &Neg{X: Subs(x.X, name, replacement)}
	case *Div:
		return &Div{L: Subs(x.L, name, replacement), R: Subs(x.R, name, replacement)}
	case *Fun:
		return &Fun{Name: x.Name, Arg: Subs(x.Arg, name, replacement)}
	}
	return e
}
