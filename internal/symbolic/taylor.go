package symbolic

import "math"

// Taylor computes the truncated Taylor polynomial of order n around the
// given center: sum of f^(k)(center)/k! * (x - center)^k. Derivatives
// come from repeated differentiation; the result is simplified.
func Taylor(e Expr, name string, center float64, order int) (Expr, error) {
	x := &Var{Name: name}
	var shifted Expr = x
	if center != 0 {
		shifted = &Add{L: x, R: &Num{Value: -center}}
	}

	var result Expr = &Num{Value: 0}
	deriv := e
	factorial := 1.0
	for k := 0; k <= order; k++ {
		if k > 0 {
			var err error
			deriv, err = Diff(deriv, name)
			if err != nil {
				return nil, err
			}
			factorial *= float64(k)
		}
		coeff, err := Eval(deriv, map[string]float64{name: center})
		if err != nil {
			return nil, err
		}
		if math.IsNaN(coeff) || math.IsInf(coeff, 0) {
			return nil, &taylorError{}
		}
		term := &Mul{
			L: &Num{Value: coeff / factorial},
			R: &Pow{Base: shifted, Exp: &Num{Value: float64(k)}},
		}
		result = &Add{L: result, R: term}
	}
	return Simplify(result), nil
}

type taylorError struct{}

func (e *taylorError) Error() string {
	return "taylor expansion is undefined at the given center"
}
