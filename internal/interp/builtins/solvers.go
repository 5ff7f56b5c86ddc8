package builtins

import (
	"math"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

// callScalar evaluates a function handle at a scalar argument.
func callScalar(ctx Context, fn Value, x float64) (float64, error) {
	result, err := ctx.Call(fn, []Value{runtime.NewScalar(x)}, 1)
	if err != nil {
		return 0, err
	}
	return runtime.ToScalar(result)
}

const (
	simpsonTol      = 1e-10
	simpsonMaxDepth = 20
)

// builtinIntegral is adaptive Simpson quadrature: recursive subdivision
// with the parent-versus-children error estimate, depth cap 20 and
// tolerance 1e-10.
func builtinIntegral(ctx Context, args []Value, nargout int) (Value, error) {
	if err := wantArgs("integral", args, 3, 3); err != nil {
		return nil, err
	}
	fn := runtime.First(args[0])
	if _, ok := fn.(*runtime.FuncHandleValue); !ok {
		return nil, runtime.NewError("integral: first argument must be a function handle")
	}
	a, err := scalarArg("integral", args, 1)
	if err != nil {
		return nil, err
	}
	b, err := scalarArg("integral", args, 2)
	if err != nil {
		return nil, err
	}

	fa, err := callScalar(ctx, fn, a)
	if err != nil {
		return nil, err
	}
	fb, err := callScalar(ctx, fn, b)
	if err != nil {
		return nil, err
	}
	mid := (a + b) / 2
	fm, err := callScalar(ctx, fn, mid)
	if err != nil {
		return nil, err
	}
	whole := simpson(a, b, fa, fm, fb)
	result, err := adaptiveSimpson(ctx, fn, a, b, fa, fm, fb, whole, simpsonTol, simpsonMaxDepth)
	if err != nil {
		return nil, err
	}
	return runtime.NewScalar(result), nil
}

func simpson(a, b, fa, fm, fb float64) float64 {
	return (b - a) / 6 * (fa + 4*fm + fb)
}

func adaptiveSimpson(ctx Context, fn Value, a, b, fa, fm, fb, whole, tol float64, depth int) (float64, error) {
	mid := (a + b) / 2
	lm := (a + mid) / 2
	rm := (mid + b) / 2
	flm, err := callScalar(ctx, fn, lm)
	if err != nil {
		return 0, err
	}
	frm, err := callScalar(ctx, fn, rm)
	if err != nil {
		return 0, err
	}
	left := simpson(a, mid, fa, flm, fm)
	right := simpson(mid, b, fm, frm, fb)

	if depth <= 0 || math.Abs(left+right-whole) < 15*tol {
		return left + right + (left+right-whole)/15, nil
	}
	lv, err := adaptiveSimpson(ctx, fn, a, mid, fa, flm, fm, left, tol/2, depth-1)
	if err != nil {
		return 0, err
	}
	rv, err := adaptiveSimpson(ctx, fn, mid, b, fm, frm, fb, right, tol/2, depth-1)
	if err != nil {
		return 0, err
	}
	return lv + rv, nil
}

const (
	odeStepFloor = 1e-12
	odeMaxSteps  = 50000
)

// builtinODE45 integrates y' = f(t, y) over a time span with classical
// RK4 and step-doubling error control: each step is taken once at h and
// twice at h/2, the difference drives acceptance and the next step size.
func builtinODE45(ctx Context, args []Value, nargout int) (Value, error) {
	if err := wantArgs("ode45", args, 3, 3); err != nil {
		return nil, err
	}
	fn := runtime.First(args[0])
	if _, ok := fn.(*runtime.FuncHandleValue); !ok {
		return nil, runtime.NewError("ode45: first argument must be a function handle")
	}
	span, err := vectorArg("ode45", args, 1)
	if err != nil {
		return nil, err
	}
	if span.Numel() != 2 {
		return nil, runtime.NewError("ode45: time span must be [t0 tf]")
	}
	y0v, err := vectorArg("ode45", args, 2)
	if err != nil {
		return nil, err
	}

	t0 := span.LinearGet(0)
	tf := span.LinearGet(1)
	y := y0v.ToVector()
	dim := len(y)

	deriv := func(t float64, y []float64) ([]float64, error) {
		result, err := ctx.Call(fn, []Value{
			runtime.NewScalar(t),
			runtime.NewMatrix(matrix.ColVector(y)),
		}, 1)
		if err != nil {
			return nil, err
		}
		m, merr := runtime.ToMatrix(result)
		if merr != nil {
			return nil, runtime.NewError("ode45: derivative must be numeric: %v", merr)
		}
		if m.Numel() != dim {
			return nil, runtime.NewError("ode45: derivative has %d elements, state has %d", m.Numel(), dim)
		}
		return m.ToVector(), nil
	}

	times := []float64{t0}
	states := [][]float64{append([]float64(nil), y...)}

	t := t0
	h := (tf - t0) / 100
	if h == 0 {
		h = odeStepFloor
	}
	tol := 1e-6

	for steps := 0; t < tf && steps < odeMaxSteps; steps++ {
		if t+h > tf {
			h = tf - t
		}

		full, err := rk4Step(deriv, t, y, h)
		if err != nil {
			return nil, err
		}
		half, err := rk4Step(deriv, t, y, h/2)
		if err != nil {
			return nil, err
		}
		double, err := rk4Step(deriv, t+h/2, half, h/2)
		if err != nil {
			return nil, err
		}

		errEst := 0.0
		for i := range full {
			if e := math.Abs(full[i] - double[i]); e > errEst {
				errEst = e
			}
		}

		if errEst > tol && h/2 >= odeStepFloor {
			h /= 2
			continue
		}

		t += h
		y = double
		times = append(times, t)
		states = append(states, append([]float64(nil), y...))

		if errEst < tol/32 {
			h *= 2
		}
	}

	tOut := matrix.ColVector(times)
	yOut := matrix.New(len(states), dim)
	for i, row := range states {
		for j, v := range row {
			yOut.Set(i, j, v)
		}
	}
	if nargout >= 2 {
		return list(runtime.NewMatrix(tOut), runtime.NewMatrix(yOut)), nil
	}
	cell := runtime.NewCell(1, 2)
	cell.Set(0, 0, runtime.NewMatrix(tOut))
	cell.Set(0, 1, runtime.NewMatrix(yOut))
	return cell, nil
}

func rk4Step(deriv func(float64, []float64) ([]float64, error), t float64, y []float64, h float64) ([]float64, error) {
	k1, err := deriv(t, y)
	if err != nil {
		return nil, err
	}
	k2, err := deriv(t+h/2, axpy(y, k1, h/2))
	if err != nil {
		return nil, err
	}
	k3, err := deriv(t+h/2, axpy(y, k2, h/2))
	if err != nil {
		return nil, err
	}
	k4, err := deriv(t+h, axpy(y, k3, h))
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(y))
	for i := range y {
		out[i] = y[i] + h/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out, nil
}

func axpy(y, k []float64, a float64) []float64 {
	out := make([]float64, len(y))
	for i := range y {
		out[i] = y[i] + a*k[i]
	}
	return out
}

const (
	nmTol      = 1e-10
	nmMaxIters = 1000
)

// builtinFminsearch runs Nelder-Mead with the standard reflection,
// expansion, contraction and shrink coefficients, converging when the
// simplex function spread drops below 1e-10.
func builtinFminsearch(ctx Context, args []Value, nargout int) (Value, error) {
	if err := wantArgs("fminsearch", args, 2, 2); err != nil {
		return nil, err
	}
	fn := runtime.First(args[0])
	if _, ok := fn.(*runtime.FuncHandleValue); !ok {
		return nil, runtime.NewError("fminsearch: first argument must be a function handle")
	}
	x0v, err := vectorArg("fminsearch", args, 1)
	if err != nil {
		return nil, err
	}
	x0 := x0v.ToVector()
	n := len(x0)

	evalPoint := func(x []float64) (float64, error) {
		var arg Value
		if n == 1 {
			arg = runtime.NewScalar(x[0])
		} else if x0v.IsRowVector() {
			arg = runtime.NewMatrix(matrix.RowVector(x))
		} else {
			arg = runtime.NewMatrix(matrix.ColVector(x))
		}
		result, err := ctx.Call(fn, []Value{arg}, 1)
		if err != nil {
			return 0, err
		}
		return runtime.ToScalar(result)
	}

	// Initial simplex: x0 plus a perturbation along each axis.
	simplex := make([][]float64, n+1)
	fvals := make([]float64, n+1)
	simplex[0] = append([]float64(nil), x0...)
	for i := 1; i <= n; i++ {
		p := append([]float64(nil), x0...)
		if p[i-1] != 0 {
			p[i-1] *= 1.05
		} else {
			p[i-1] = 0.00025
		}
		simplex[i] = p
	}
	for i := range simplex {
		if fvals[i], err = evalPoint(simplex[i]); err != nil {
			return nil, err
		}
	}

	const (
		alpha = 1.0 // reflection
		gamma = 2.0 // expansion
		rho   = 0.5 // contraction
		sigma = 0.5 // shrink
	)

	for iter := 0; iter < nmMaxIters; iter++ {
		order(simplex, fvals)
		if fvals[n]-fvals[0] < nmTol {
			break
		}

		// Centroid of all but the worst.
		centroid := make([]float64, n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				centroid[j] += simplex[i][j] / float64(n)
			}
		}

		reflected := blend(centroid, simplex[n], 1+alpha, -alpha)
		fr, err := evalPoint(reflected)
		if err != nil {
			return nil, err
		}

		switch {
		case fr < fvals[0]:
			expanded := blend(centroid, simplex[n], 1+gamma, -gamma)
			fe, err := evalPoint(expanded)
			if err != nil {
				return nil, err
			}
			if fe < fr {
				simplex[n], fvals[n] = expanded, fe
			} else {
				simplex[n], fvals[n] = reflected, fr
			}
		case fr < fvals[n-1]:
			simplex[n], fvals[n] = reflected, fr
		default:
			contracted := blend(centroid, simplex[n], 1-rho, rho)
			fc, err := evalPoint(contracted)
			if err != nil {
				return nil, err
			}
			if fc < fvals[n] {
				simplex[n], fvals[n] = contracted, fc
			} else {
				for i := 1; i <= n; i++ {
					simplex[i] = blend(simplex[0], simplex[i], 1-sigma, sigma)
					if fvals[i], err = evalPoint(simplex[i]); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	order(simplex, fvals)

	var best Value
	if n == 1 {
		best = runtime.NewScalar(simplex[0][0])
	} else if x0v.IsRowVector() {
		best = runtime.NewMatrix(matrix.RowVector(simplex[0]))
	} else {
		best = runtime.NewMatrix(matrix.ColVector(simplex[0]))
	}
	if nargout >= 2 {
		return list(best, runtime.NewScalar(fvals[0])), nil
	}
	return best, nil
}

func order(simplex [][]float64, fvals []float64) {
	for i := 1; i < len(fvals); i++ {
		for j := i; j > 0 && fvals[j] < fvals[j-1]; j-- {
			fvals[j], fvals[j-1] = fvals[j-1], fvals[j]
			simplex[j], simplex[j-1] = simplex[j-1], simplex[j]
		}
	}
}

func blend(a, b []float64, ca, cb float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = ca*a[i] + cb*b[i]
	}
	return out
}

const (
	fzeroTol      = 1e-14
	fzeroMaxIters = 100
)

// builtinFzero brackets a sign change by linear expansion around the
// initial guess and bisects to 1e-14.
func builtinFzero(ctx Context, args []Value, nargout int) (Value, error) {
	if err := wantArgs("fzero", args, 2, 2); err != nil {
		return nil, err
	}
	fn := runtime.First(args[0])
	if _, ok := fn.(*runtime.FuncHandleValue); !ok {
		return nil, runtime.NewError("fzero: first argument must be a function handle")
	}
	x0, err := scalarArg("fzero", args, 1)
	if err != nil {
		return nil, err
	}

	f0, err := callScalar(ctx, fn, x0)
	if err != nil {
		return nil, err
	}
	if f0 == 0 {
		return runtime.NewScalar(x0), nil
	}

	// Expand a bracket around the guess.
	step := math.Max(math.Abs(x0)*0.1, 0.1)
	a, b := x0, x0
	fa, fb := f0, f0
	bracketed := false
	for i := 0; i < 60; i++ {
		a -= step
		b += step
		step *= 1.5
		if fa, err = callScalar(ctx, fn, a); err != nil {
			return nil, err
		}
		if fa == 0 {
			return runtime.NewScalar(a), nil
		}
		if fa*f0 < 0 {
			b, fb = x0, f0
			bracketed = true
			break
		}
		if fb, err = callScalar(ctx, fn, b); err != nil {
			return nil, err
		}
		if fb == 0 {
			return runtime.NewScalar(b), nil
		}
		if fb*f0 < 0 {
			a, fa = x0, f0
			bracketed = true
			break
		}
	}
	if !bracketed {
		return nil, runtime.NewError("fzero: no sign change found near the initial guess")
	}

	for i := 0; i < fzeroMaxIters && math.Abs(b-a) > fzeroTol; i++ {
		mid := (a + b) / 2
		fm, err := callScalar(ctx, fn, mid)
		if err != nil {
			return nil, err
		}
		if fm == 0 {
			return runtime.NewScalar(mid), nil
		}
		if fa*fm < 0 {
			b = mid
		} else {
			a, fa = mid, fm
		}
	}
	return runtime.NewScalar((a + b) / 2), nil
}
