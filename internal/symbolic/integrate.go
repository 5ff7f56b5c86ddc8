package symbolic

import "fmt"

// Integrate computes an antiderivative with respect to the named
// variable. The integrator is pattern-directed: polynomial powers, 1/x,
// the standard unary functions, linear-argument substitution, constant
// factor extraction and sum additivity. Forms outside the pattern set
// fail with an error.
func Integrate(e Expr, name string) (Expr, error) {
	result, err := integrate(Simplify(e), name)
	if err != nil {
		return nil, err
	}
	return Simplify(result), nil
}

func integrate(e Expr, name string) (Expr, error) {
	v := &Var{Name: name}

	// Expressions free of the variable integrate to c*x.
	if !ContainsVar(e, name) {
		return &Mul{L: e, R: v}, nil
	}

	switch x := e.(type) {
	case *Var:
		// x integrates to x^2/2.
		return &Div{L: &Pow{Base: v, Exp: &Num{Value: 2}}, R: &Num{Value: 2}}, nil
	case *Add:
		l, err := integrate(x.L, name)
		if err != nil {
			return nil, err
		}
		r, err := integrate(x.R, name)
		if err != nil {
			return nil, err
		}
		return &Add{L: l, R: r}, nil
	case *Neg:
		inner, err := integrate(x.X, name)
		if err != nil {
			return nil, err
		}
		return &Neg{X: inner}, nil
	case *Mul:
		// Constant factor extraction.
		if !ContainsVar(x.L, name) {
			inner, err := integrate(x.R, name)
			if err != nil {
				return nil, err
			}
			return &Mul{L: x.L, R: inner}, nil
		}
		if !ContainsVar(x.R, name) {
			inner, err := integrate(x.L, name)
			if err != nil {
				return nil, err
			}
			return &Mul{L: x.R, R: inner}, nil
		}
	case *Div:
		// c/u for linear u integrates to (c/a)*ln(u).
		if !ContainsVar(x.L, name) && ContainsVar(x.R, name) {
			if a, _, ok := linearCoeffs(x.R, name); ok && a != 0 {
				return &Mul{
					L: &Div{L: x.L, R: &Num{Value: a}},
					R: &Fun{Name: "ln", Arg: x.R},
				}, nil
			}
		}
		// u/c is (1/c)*u.
		if !ContainsVar(x.R, name) {
			inner, err := integrate(x.L, name)
			if err != nil {
				return nil, err
			}
			return &Div{L: inner, R: x.R}, nil
		}
	case *Pow:
		if n, ok := x.Exp.(*Num); ok && ContainsVar(x.Base, name) && !ContainsVar(x.Exp, name) {
			if a, _, ok := linearCoeffs(x.Base, name); ok && a != 0 {
				if n.Value == -1 {
					// u^-1 integrates to ln(u)/a.
					return &Div{L: &Fun{Name: "ln", Arg: x.Base}, R: &Num{Value: a}}, nil
				}
				// Power rule with the linear substitution factor 1/a.
				return &Div{
					L: &Pow{Base: x.Base, Exp: &Num{Value: n.Value + 1}},
					R: &Num{Value: a * (n.Value + 1)},
				}, nil
			}
		}
	case *Fun:
		if a, _, ok := linearCoeffs(x.Arg, name); ok && a != 0 {
			anti, err := antiderivative(x.Name, x.Arg)
			if err != nil {
				return nil, err
			}
			return &Div{L: anti, R: &Num{Value: a}}, nil
		}
	}

	return nil, fmt.Errorf("cannot integrate '%s' with respect to %s", e.String(), name)
}

// antiderivative returns F(u) with dF/du = f(u) for the supported unary
// functions.
func antiderivative(fname string, u Expr) (Expr, error) {
	switch fname {
	case "sin":
		return &Neg{X: &Fun{Name: "cos", Arg: u}}, nil
	case "cos":
		return &Fun{Name: "sin", Arg: u}, nil
	case "tan":
		return &Neg{X: &Fun{Name: "ln", Arg: &Fun{Name: "cos", Arg: u}}}, nil
	case "exp":
		return &Fun{Name: "exp", Arg: u}, nil
	case "ln", "log":
		// x*ln(x) - x.
		return &Add{
			L: &Mul{L: u, R: &Fun{Name: "ln", Arg: u}},
			R: &Neg{X: u},
		}, nil
	case "sqrt":
		return &Div{
			L: &Mul{L: &Num{Value: 2}, R: &Pow{Base: u, Exp: &Div{L: &Num{Value: 3}, R: &Num{Value: 2}}}},
			R: &Num{Value: 3},
		}, nil
	case "sinh":
		return &Fun{Name: "cosh", Arg: u}, nil
	case "cosh":
		return &Fun{Name: "sinh", Arg: u}, nil
	}
	return nil, fmt.Errorf("cannot integrate function '%s'", fname)
}

// linearCoeffs extracts (a, b) such that e = a*v + b, using the
// derivative test: the derivative must simplify to a constant.
func linearCoeffs(e Expr, name string) (a, b float64, ok bool) {
	d, err := Diff(e, name)
	if err != nil {
		return 0, 0, false
	}
	dn, isNum := d.(*Num)
	if !isNum {
		return 0, 0, false
	}
	remainder := Simplify(&Add{
		L: e,
		R: &Neg{X: &Mul{L: dn, R: &Var{Name: name}}},
	})
	bn, isNum := remainder.(*Num)
	if !isNum {
		return 0, 0, false
	}
	return dn.Value, bn.Value, true
}
