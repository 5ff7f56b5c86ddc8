package symbolic

import (
	"fmt"
	"math"
)

// Eval numerically evaluates an expression with the given variable
// bindings. Unbound variables are an error.
func Eval(e Expr, vars map[string]float64) (float64, error) {
	switch x := e.(type) {
	case *Num:
		return x.Value, nil
	case *Var:
		if v, ok := vars[x.Name]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("unbound symbolic variable '%s'", x.Name)
	case *Add:
		l, err := Eval(x.L, vars)
		if err != nil {
			return 0, err
		}
		r, err := Eval(x.R, vars)
		if err != nil {
			return 0, err
		}
		return l + r, nil
	case *Mul:
		l, err := Eval(x.L, vars)
		if err != nil {
			return 0, err
		}
		r, err := Eval(x.R, vars)
		if err != nil {
			return 0, err
		}
		return l * r, nil
	case *Pow:
		b, err := Eval(x.Base, vars)
		if err != nil {
			return 0, err
		}
		p, err := Eval(x.Exp, vars)
		if err != nil {
			return 0, err
		}
		return math.Pow(b, p), nil
	case *Neg:
		v, err := Eval(x.X, vars)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case *Div:
		l, err := Eval(x.L, vars)
		if err != nil {
			return 0, err
		}
		r, err := Eval(x.R, vars)
		if err != nil {
			return 0, err
		}
		return l / r, nil
	case *Fun:
		arg, err := Eval(x.Arg, vars)
		if err != nil {
			return 0, err
		}
		f, ok := unaryFuncs[x.Name]
		if !ok {
			return 0, fmt.Errorf("unknown function '%s'", x.Name)
		}
		return f(arg), nil
	}
	return 0, fmt.Errorf("cannot evaluate symbolic expression")
}
