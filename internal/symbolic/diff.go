package symbolic

import "fmt"

// Diff differentiates the expression with respect to the named variable
// and simplifies the result.
func Diff(e Expr, name string) (Expr, error) {
	d, err := diff(e, name)
	if err != nil {
		return nil, err
	}
	return Simplify(d), nil
}

func diff(e Expr, name string) (Expr, error) {
	switch x := e.(type) {
	case *Num:
		return &Num{Value: 0}, nil
	case *Var:
		if x.Name == name {
			return &Num{Value: 1}, nil
		}
		return &Num{Value: 0}, nil
	case *Add:
		dl, err := diff(x.L, name)
		if err != nil {
			return nil, err
		}
		dr, err := diff(x.R, name)
		if err != nil {
			return nil, err
		}
		return &Add{L: dl, R: dr}, nil
	case *Neg:
		dx, err := diff(x.X, name)
		if err != nil {
			return nil, err
		}
		return &Neg{X: dx}, nil
	case *Mul:
		// Product rule.
		dl, err := diff(x.L, name)
		if err != nil {
			return nil, err
		}
		dr, err := diff(x.R, name)
		if err != nil {
			return nil, err
		}
		return &Add{
			L: &Mul{L: dl, R: x.R},
			R: &Mul{L: x.L, R: dr},
		}, nil
	case *Div:
		// Quotient rule.
		dl, err := diff(x.L, name)
		if err != nil {
			return nil, err
		}
		dr, err := diff(x.R, name)
		if err != nil {
			return nil, err
		}
		num := &Add{
			L: &Mul{L: dl, R: x.R},
			R: &Neg{X: &Mul{L: x.L, R: dr}},
		}
		return &Div{L: num, R: &Pow{Base: x.R, Exp: &Num{Value: 2}}}, nil
	case *Pow:
		if !ContainsVar(x.Exp, name) {
			// Power rule with chain: d(u^c) = c*u^(c-1)*u'.
			du, err := diff(x.Base, name)
			if err != nil {
				return nil, err
			}
			return &Mul{
				L: &Mul{
					L: x.Exp,
					R: &Pow{Base: x.Base, Exp: &Add{L: x.Exp, R: &Num{Value: -1}}},
				},
				R: du,
			}, nil
		}
		if !ContainsVar(x.Base, name) {
			// Exponential rule: d(c^u) = c^u * ln(c) * u'.
			du, err := diff(x.Exp, name)
			if err != nil {
				return nil, err
			}
			return &Mul{
				L: &Mul{L: x, R: &Fun{Name: "ln", Arg: x.Base}},
				R: du,
			}, nil
		}
		// General case u^v via exp(v*ln(u)).
		rewritten := &Fun{Name: "exp", Arg: &Mul{L: x.Exp, R: &Fun{Name: "ln", Arg: x.Base}}}
		return diff(rewritten, name)
	case *Fun:
		outer, err := diffFun(x)
		if err != nil {
			return nil, err
		}
		inner, err := diff(x.Arg, name)
		if err != nil {
			return nil, err
		}
		return &Mul{L: outer, R: inner}, nil
	}
	return nil, fmt.Errorf("cannot differentiate expression")
}

// diffFun returns the derivative of a named unary function with respect
// to its argument.
func diffFun(f *Fun) (Expr, error) {
	u := f.Arg
	switch f.Name {
	case "sin":
		return &Fun{Name: "cos", Arg: u}, nil
	case "cos":
		return &Neg{X: &Fun{Name: "sin", Arg: u}}, nil
	case "tan":
		return &Div{L: &Num{Value: 1}, R: &Pow{Base: &Fun{Name: "cos", Arg: u}, Exp: &Num{Value: 2}}}, nil
	case "exp":
		return &Fun{Name: "exp", Arg: u}, nil
	case "ln", "log":
		return &Div{L: &Num{Value: 1}, R: u}, nil
	case "sqrt":
		return &Div{L: &Num{Value: 1}, R: &Mul{L: &Num{Value: 2}, R: &Fun{Name: "sqrt", Arg: u}}}, nil
	case "abs":
		// d|u|/du is u/|u|.
		return &Div{L: u, R: &Fun{Name: "abs", Arg: u}}, nil
	case "asin":
		return &Div{
			L: &Num{Value: 1},
			R: &Fun{Name: "sqrt", Arg: &Add{L: &Num{Value: 1}, R: &Neg{X: &Pow{Base: u, Exp: &Num{Value: 2}}}}},
		}, nil
	case "acos":
		return &Neg{X: &Div{
			L: &Num{Value: 1},
			R: &Fun{Name: "sqrt", Arg: &Add{L: &Num{Value: 1}, R: &Neg{X: &Pow{Base: u, Exp: &Num{Value: 2}}}}},
		}}, nil
	case "atan":
		return &Div{
			L: &Num{Value: 1},
			R: &Add{L: &Num{Value: 1}, R: &Pow{Base: u, Exp: &Num{Value: 2}}},
		}, nil
	case "sinh":
		return &Fun{Name: "cosh", Arg: u}, nil
	case "cosh":
		return &Fun{Name: "sinh", Arg: u}, nil
	case "tanh":
		return &Div{L: &Num{Value: 1}, R: &Pow{Base: &Fun{Name: "cosh", Arg: u}, Exp: &Num{Value: 2}}}, nil
	}
	return nil, fmt.Errorf("cannot differentiate function '%s'", f.Name)
}
