package symbolic

import (
	"fmt"
	"math"
	"sort"
)

// Solve finds the roots of e = 0 in the named variable. Linear and
// quadratic forms are detected by sampling; everything else falls back
// to Newton's method from a grid of starting points on [-10, 10],
// collecting numerically distinct roots sorted ascending.
func Solve(e Expr, name string) ([]float64, error) {
	sample := func(x float64) (float64, error) {
		return Eval(e, map[string]float64{name: x})
	}

	f0, err0 := sample(0)
	f1, err1 := sample(1)
	f2, err2 := sample(2)
	if err0 != nil || err1 != nil || err2 != nil {
		return nil, fmt.Errorf("cannot solve: expression contains free variables besides %s", name)
	}

	// Linear test: second difference vanishes.
	if math.Abs(f2-2*f1+f0) < 1e-9 {
		a := f1 - f0
		b := f0
		if math.Abs(a) < 1e-12 {
			return nil, fmt.Errorf("cannot solve: expression is constant in %s", name)
		}
		return []float64{-b / a}, nil
	}

	// Quadratic test: fit through four samples and check the cubic term.
	fm1, err := sample(-1)
	if err == nil {
		// For a quadratic a*x^2 + b*x + c the third difference vanishes.
		third := f2 - 3*f1 + 3*f0 - fm1
		if math.Abs(third) < 1e-9 {
			a := (f1 - 2*f0 + fm1) / 2
			b := (f1 - fm1) / 2
			c := f0
			disc := b*b - 4*a*c
			if disc < 0 {
				return nil, nil
			}
			sq := math.Sqrt(disc)
			roots := []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)}
			sort.Float64s(roots)
			if math.Abs(roots[0]-roots[1]) < 1e-10 {
				return roots[:1], nil
			}
			return roots, nil
		}
	}

	return newtonGrid(e, name)
}

// newtonGrid runs Newton's method from starting guesses spaced 0.5 apart
// on [-10, 10], keeping converged, numerically distinct roots.
func newtonGrid(e Expr, name string) ([]float64, error) {
	d, err := Diff(e, name)
	if err != nil {
		return nil, err
	}

	var roots []float64
	for guess := -10.0; guess <= 10.0; guess += 0.5 {
		x := guess
		converged := false
		for iter := 0; iter < 60; iter++ {
			fx, err := Eval(e, map[string]float64{name: x})
			if err != nil {
				break
			}
			if math.Abs(fx) < 1e-10 {
				converged = true
				break
			}
			dfx, err := Eval(d, map[string]float64{name: x})
			if err != nil || dfx == 0 || math.IsNaN(dfx) {
				break
			}
			step := fx / dfx
			x -= step
			if math.IsNaN(x) || math.IsInf(x, 0) {
				break
			}
		}
		if !converged {
			continue
		}
		distinct := true
		for _, r := range roots {
			if math.Abs(r-x) < 1e-6 {
				distinct = false
				break
			}
		}
		if distinct {
			roots = append(roots, x)
		}
	}
	sort.Float64s(roots)
	return roots, nil
}
