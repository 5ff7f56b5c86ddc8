package builtins

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

func registerScientific(r *Registry) {
	r.register("fft", CategoryScientific, "Discrete Fourier transform", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("fft", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("fft", args, 0)
		if err != nil {
			return nil, err
		}
		x, cerr := toComplexSignal(m)
		if cerr != nil {
			return nil, runtime.NewError("fft: %v", cerr)
		}
		return runtime.NewMatrix(fromComplexSignal(dft(x, false))), nil
	})

	r.register("ifft", CategoryScientific, "Inverse discrete Fourier transform", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("ifft", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("ifft", args, 0)
		if err != nil {
			return nil, err
		}
		x, cerr := toComplexSignal(m)
		if cerr != nil {
			return nil, runtime.NewError("ifft: %v", cerr)
		}
		return runtime.NewMatrix(fromComplexSignal(dft(x, true))), nil
	})

	r.register("conv", CategoryScientific, "Convolution of vectors", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("conv", args, 2, 2); err != nil {
			return nil, err
		}
		a, err := vectorArg("conv", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := vectorArg("conv", args, 1)
		if err != nil {
			return nil, err
		}
		x := a.ToVector()
		y := b.ToVector()
		if len(x) == 0 || len(y) == 0 {
			return runtime.Empty(), nil
		}
		out := make([]float64, len(x)+len(y)-1)
		for i, xi := range x {
			for j, yj := range y {
				out[i+j] += xi * yj
			}
		}
		return runtime.NewMatrix(matrix.RowVector(out)), nil
	})

	r.register("filter", CategoryScientific, "Digital filter", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("filter", args, 3, 3); err != nil {
			return nil, err
		}
		bv, err := vectorArg("filter", args, 0)
		if err != nil {
			return nil, err
		}
		av, err := vectorArg("filter", args, 1)
		if err != nil {
			return nil, err
		}
		xv, err := vectorArg("filter", args, 2)
		if err != nil {
			return nil, err
		}
		b := bv.ToVector()
		a := av.ToVector()
		x := xv.ToVector()
		if len(a) == 0 || a[0] == 0 {
			return nil, runtime.NewError("filter: a(1) must be nonzero")
		}
		// Normalize by a(1) and run the direct-form difference equation.
		y := make([]float64, len(x))
		for n := range x {
			acc := 0.0
			for k := 0; k < len(b); k++ {
				if n-k >= 0 {
					acc += b[k] * x[n-k]
				}
			}
			for k := 1; k < len(a); k++ {
				if n-k >= 0 {
					acc -= a[k] * y[n-k]
				}
			}
			y[n] = acc / a[0]
		}
		if xv.IsRowVector() {
			return runtime.NewMatrix(matrix.RowVector(y)), nil
		}
		return runtime.NewMatrix(matrix.ColVector(y)), nil
	})

	r.register("polyval", CategoryScientific, "Evaluate a polynomial", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("polyval", args, 2, 2); err != nil {
			return nil, err
		}
		pv, err := vectorArg("polyval", args, 0)
		if err != nil {
			return nil, err
		}
		x, err := matArg("polyval", args, 1)
		if err != nil {
			return nil, err
		}
		p := pv.ToVector()
		return runtime.NewMatrix(x.Map(func(xi float64) float64 {
			return horner(p, xi)
		})), nil
	})

	r.register("polyfit", CategoryScientific, "Least-squares polynomial fit", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("polyfit", args, 3, 3); err != nil {
			return nil, err
		}
		xv, err := vectorArg("polyfit", args, 0)
		if err != nil {
			return nil, err
		}
		yv, err := vectorArg("polyfit", args, 1)
		if err != nil {
			return nil, err
		}
		degree, err := intArg("polyfit", args, 2)
		if err != nil {
			return nil, err
		}
		x := xv.ToVector()
		y := yv.ToVector()
		if len(x) != len(y) {
			return nil, runtime.NewError("polyfit: x and y must have the same length")
		}
		if degree < 0 || len(x) < degree+1 {
			return nil, runtime.NewError("polyfit: need at least degree+1 points")
		}

		// Vandermonde least squares through the normal equations.
		n := degree + 1
		vand := matrix.New(len(x), n)
		for i, xi := range x {
			pw := 1.0
			for j := n - 1; j >= 0; j-- {
				vand.Set(i, j, pw)
				pw *= xi
			}
		}
		vt := vand.Transpose()
		vtv, merr := matrix.MatMul(vt, vand)
		if merr != nil {
			return nil, runtime.NewError("polyfit: %v", merr)
		}
		vty, merr := matrix.MatMul(vt, matrix.ColVector(y))
		if merr != nil {
			return nil, runtime.NewError("polyfit: %v", merr)
		}
		coeffs, serr := matrix.Solve(vtv, vty)
		if serr != nil {
			return nil, runtime.NewError("polyfit: %v", serr)
		}
		return runtime.NewMatrix(coeffs.Transpose()), nil
	})

	r.register("roots", CategoryScientific, "Polynomial roots", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("roots", args, 1, 1); err != nil {
			return nil, err
		}
		pv, err := vectorArg("roots", args, 0)
		if err != nil {
			return nil, err
		}
		p := pv.ToVector()
		// Strip leading zeros.
		for len(p) > 0 && p[0] == 0 {
			p = p[1:]
		}
		if len(p) <= 1 {
			return runtime.Empty(), nil
		}
		n := len(p) - 1
		companion := matrix.New(n, n)
		for j := 0; j < n; j++ {
			companion.Set(0, j, -p[j+1]/p[0])
		}
		for i := 1; i < n; i++ {
			companion.Set(i, i-1, 1)
		}
		vals, eerr := matrix.EigValues(companion)
		if eerr != nil {
			return nil, runtime.NewError("roots: %v", eerr)
		}
		return runtime.NewMatrix(vals), nil
	})

	r.register("poly", CategoryScientific, "Polynomial from roots", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("poly", args, 1, 1); err != nil {
			return nil, err
		}
		rv, err := vectorArg("poly", args, 0)
		if err != nil {
			return nil, err
		}
		coeffs := []float64{1}
		for _, root := range rv.ToVector() {
			next := make([]float64, len(coeffs)+1)
			for i, c := range coeffs {
				next[i] += c
				next[i+1] -= c * root
			}
			coeffs = next
		}
		return runtime.NewMatrix(matrix.RowVector(coeffs)), nil
	})

	r.register("polyder", CategoryScientific, "Polynomial derivative", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("polyder", args, 1, 1); err != nil {
			return nil, err
		}
		pv, err := vectorArg("polyder", args, 0)
		if err != nil {
			return nil, err
		}
		p := pv.ToVector()
		n := len(p) - 1
		if n < 1 {
			return runtime.NewScalar(0), nil
		}
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = p[i] * float64(n-i)
		}
		return runtime.NewMatrix(matrix.RowVector(out)), nil
	})

	r.register("polyint", CategoryScientific, "Polynomial antiderivative", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("polyint", args, 1, 2); err != nil {
			return nil, err
		}
		pv, err := vectorArg("polyint", args, 0)
		if err != nil {
			return nil, err
		}
		k := 0.0
		if len(args) == 2 {
			if k, err = scalarArg("polyint", args, 1); err != nil {
				return nil, err
			}
		}
		p := pv.ToVector()
		n := len(p)
		out := make([]float64, n+1)
		for i := 0; i < n; i++ {
			out[i] = p[i] / float64(n-i)
		}
		out[n] = k
		return runtime.NewMatrix(matrix.RowVector(out)), nil
	})

	r.register("interp1", CategoryScientific, "1-D interpolation", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("interp1", args, 3, 4); err != nil {
			return nil, err
		}
		xv, err := vectorArg("interp1", args, 0)
		if err != nil {
			return nil, err
		}
		yv, err := vectorArg("interp1", args, 1)
		if err != nil {
			return nil, err
		}
		xi, err := matArg("interp1", args, 2)
		if err != nil {
			return nil, err
		}
		method := "linear"
		if len(args) == 4 {
			if method, err = strArg("interp1", args, 3); err != nil {
				return nil, err
			}
		}
		x := xv.ToVector()
		y := yv.ToVector()
		if len(x) != len(y) || len(x) < 2 {
			return nil, runtime.NewError("interp1: x and y must be vectors of equal length >= 2")
		}
		switch method {
		case "linear":
			return runtime.NewMatrix(xi.Map(func(q float64) float64 {
				return interpLinear(x, y, q)
			})), nil
		case "spline":
			coef := splineCoefficients(x, y)
			return runtime.NewMatrix(xi.Map(func(q float64) float64 {
				return splineEval(x, y, coef, q)
			})), nil
		case "nearest":
			return runtime.NewMatrix(xi.Map(func(q float64) float64 {
				return interpNearest(x, y, q)
			})), nil
		}
		return nil, runtime.NewError("interp1: unknown method '%s'", method)
	})

	r.register("spline", CategoryScientific, "Cubic spline interpolation", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("spline", args, 3, 3); err != nil {
			return nil, err
		}
		xv, err := vectorArg("spline", args, 0)
		if err != nil {
			return nil, err
		}
		yv, err := vectorArg("spline", args, 1)
		if err != nil {
			return nil, err
		}
		xi, err := matArg("spline", args, 2)
		if err != nil {
			return nil, err
		}
		x := xv.ToVector()
		y := yv.ToVector()
		if len(x) != len(y) || len(x) < 2 {
			return nil, runtime.NewError("spline: x and y must be vectors of equal length >= 2")
		}
		coef := splineCoefficients(x, y)
		return runtime.NewMatrix(xi.Map(func(q float64) float64 {
			return splineEval(x, y, coef, q)
		})), nil
	})

	r.register("diff", CategoryScientific, "First differences", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("diff", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("diff", args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(matrix.Diff(m)), nil
	})

	r.register("gradient", CategoryScientific, "Numerical gradient", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("gradient", args, 1, 2); err != nil {
			return nil, err
		}
		yv, err := vectorArg("gradient", args, 0)
		if err != nil {
			return nil, err
		}
		y := yv.ToVector()
		h := 1.0
		if len(args) == 2 {
			if h, err = scalarArg("gradient", args, 1); err != nil {
				return nil, err
			}
		}
		n := len(y)
		if n < 2 {
			return runtime.NewMatrix(matrix.New(yv.Rows(), yv.Cols())), nil
		}
		g := make([]float64, n)
		g[0] = (y[1] - y[0]) / h
		g[n-1] = (y[n-1] - y[n-2]) / h
		for i := 1; i < n-1; i++ {
			g[i] = (y[i+1] - y[i-1]) / (2 * h)
		}
		if yv.IsRowVector() {
			return runtime.NewMatrix(matrix.RowVector(g)), nil
		}
		return runtime.NewMatrix(matrix.ColVector(g)), nil
	})

	r.register("trapz", CategoryScientific, "Trapezoidal integration", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("trapz", args, 1, 2); err != nil {
			return nil, err
		}
		x, y, err := trapzArgs("trapz", args)
		if err != nil {
			return nil, err
		}
		total := 0.0
		for i := 1; i < len(y); i++ {
			total += (x[i] - x[i-1]) * (y[i] + y[i-1]) / 2
		}
		return runtime.NewScalar(total), nil
	})

	r.register("cumtrapz", CategoryScientific, "Cumulative trapezoidal integration", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("cumtrapz", args, 1, 2); err != nil {
			return nil, err
		}
		x, y, err := trapzArgs("cumtrapz", args)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(y))
		for i := 1; i < len(y); i++ {
			out[i] = out[i-1] + (x[i]-x[i-1])*(y[i]+y[i-1])/2
		}
		return runtime.NewMatrix(matrix.RowVector(out)), nil
	})

	r.register("integral", CategoryScientific, "Adaptive numerical integration", builtinIntegral)
	r.register("ode45", CategoryScientific, "Solve an ODE system", builtinODE45)
	r.register("fminsearch", CategoryScientific, "Nelder-Mead minimization", builtinFminsearch)
	r.register("fzero", CategoryScientific, "Root of a scalar function", builtinFzero)

	r.register("gamma", CategoryScientific, "Gamma function", elementwise("gamma", math.Gamma))
	r.register("erf", CategoryScientific, "Error function", elementwise("erf", math.Erf))
	r.register("erfc", CategoryScientific, "Complementary error function", elementwise("erfc", math.Erfc))

	r.register("beta", CategoryScientific, "Beta function", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("beta", args, 2, 2); err != nil {
			return nil, err
		}
		a, err := matArg("beta", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := matArg("beta", args, 1)
		if err != nil {
			return nil, err
		}
		out, berr := matrix.Broadcast(a, b, func(x, y float64) float64 {
			return math.Gamma(x) * math.Gamma(y) / math.Gamma(x+y)
		})
		if berr != nil {
			return nil, runtime.NewError("beta: %v", berr)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("besselj", CategoryScientific, "Bessel function of the first kind", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("besselj", args, 2, 2); err != nil {
			return nil, err
		}
		order, err := scalarArg("besselj", args, 0)
		if err != nil {
			return nil, err
		}
		x, err := matArg("besselj", args, 1)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(x.Map(func(xi float64) float64 {
			return besselJ(order, xi)
		})), nil
	})

	r.register("normpdf", CategoryScientific, "Normal probability density", func(ctx Context, args []Value, nargout int) (Value, error) {
		x, mu, sigma, err := normalArgs("normpdf", args)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(x.Map(func(xi float64) float64 {
			z := (xi - mu) / sigma
			return math.Exp(-z*z/2) / (sigma * math.Sqrt(2*math.Pi))
		})), nil
	})

	r.register("normcdf", CategoryScientific, "Normal cumulative distribution", func(ctx Context, args []Value, nargout int) (Value, error) {
		x, mu, sigma, err := normalArgs("normcdf", args)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(x.Map(func(xi float64) float64 {
			return 0.5 * math.Erfc(-(xi-mu)/(sigma*math.Sqrt2))
		})), nil
	})

	r.register("norminv", CategoryScientific, "Normal inverse cumulative distribution", func(ctx Context, args []Value, nargout int) (Value, error) {
		p, mu, sigma, err := normalArgs("norminv", args)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(p.Map(func(pi float64) float64 {
			if pi <= 0 || pi >= 1 {
				if pi == 0 {
					return math.Inf(-1)
				}
				if pi == 1 {
					return math.Inf(1)
				}
				return math.NaN()
			}
			return mu + sigma*math.Sqrt2*math.Erfinv(2*pi-1)
		})), nil
	})
}

func horner(p []float64, x float64) float64 {
	acc := 0.0
	for _, c := range p {
		acc = acc*x + c
	}
	return acc
}

func interpLinear(x, y []float64, q float64) float64 {
	if q < x[0] || q > x[len(x)-1] {
		return math.NaN()
	}
	for i := 1; i < len(x); i++ {
		if q <= x[i] {
			t := (q - x[i-1]) / (x[i] - x[i-1])
			return y[i-1] + t*(y[i]-y[i-1])
		}
	}
	return y[len(y)-1]
}

func interpNearest(x, y []float64, q float64) float64 {
	if q < x[0] || q > x[len(x)-1] {
		return math.NaN()
	}
	best := 0
	for i := range x {
		if math.Abs(x[i]-q) < math.Abs(x[best]-q) {
			best = i
		}
	}
	return y[best]
}

// splineCoefficients computes the second derivatives of a natural cubic
// spline through the points.
func splineCoefficients(x, y []float64) []float64 {
	n := len(x)
	m := make([]float64, n)
	if n < 3 {
		return m
	}
	a := make([]float64, n)
	b := make([]float64, n)
	c := make([]float64, n)
	d := make([]float64, n)
	b[0], b[n-1] = 1, 1
	for i := 1; i < n-1; i++ {
		a[i] = (x[i] - x[i-1]) / 6
		b[i] = (x[i+1] - x[i-1]) / 3
		c[i] = (x[i+1] - x[i]) / 6
		d[i] = (y[i+1]-y[i])/(x[i+1]-x[i]) - (y[i]-y[i-1])/(x[i]-x[i-1])
	}
	// Thomas algorithm.
	for i := 1; i < n; i++ {
		w := a[i] / b[i-1]
		b[i] -= w * c[i-1]
		d[i] -= w * d[i-1]
	}
	m[n-1] = d[n-1] / b[n-1]
	for i := n - 2; i >= 0; i-- {
		m[i] = (d[i] - c[i]*m[i+1]) / b[i]
	}
	return m
}

func splineEval(x, y, m []float64, q float64) float64 {
	n := len(x)
	if q < x[0] || q > x[n-1] {
		return math.NaN()
	}
	i := 1
	for i < n-1 && q > x[i] {
		i++
	}
	h := x[i] - x[i-1]
	t := x[i] - q
	u := q - x[i-1]
	return m[i-1]*t*t*t/(6*h) + m[i]*u*u*u/(6*h) +
		(y[i-1]/h-m[i-1]*h/6)*t + (y[i]/h-m[i]*h/6)*u
}

func trapzArgs(name string, args []Value) (x, y []float64, err error) {
	yv, err := vectorArg(name, args, 0)
	if err != nil {
		return nil, nil, err
	}
	if len(args) == 2 {
		xv := yv
		if yv, err = vectorArg(name, args, 1); err != nil {
			return nil, nil, err
		}
		x = xv.ToVector()
		y = yv.ToVector()
		if len(x) != len(y) {
			return nil, nil, runtime.NewError("%s: x and y must have the same length", name)
		}
		return x, y, nil
	}
	y = yv.ToVector()
	x = make([]float64, len(y))
	for i := range x {
		x[i] = float64(i + 1)
	}
	return x, y, nil
}

// toComplexSignal interprets a matrix as a complex vector: one row is a
// real signal, two rows carry the real and imaginary parts.
func toComplexSignal(m *matrix.Matrix) ([]complex128, error) {
	if m.IsEmpty() {
		return nil, nil
	}
	if m.IsVector() {
		v := m.ToVector()
		out := make([]complex128, len(v))
		for i, x := range v {
			out[i] = complex(x, 0)
		}
		return out, nil
	}
	if m.Rows() == 2 {
		out := make([]complex128, m.Cols())
		for j := 0; j < m.Cols(); j++ {
			out[j] = complex(m.At(0, j), m.At(1, j))
		}
		return out, nil
	}
	return nil, matrix.ErrDimensionMismatch
}

// fromComplexSignal renders a spectrum: when every imaginary part is
// negligible the result is a real row vector, otherwise a 2-row matrix
// of real and imaginary parts.
func fromComplexSignal(x []complex128) *matrix.Matrix {
	if len(x) == 0 {
		return matrix.Empty()
	}
	scale := 0.0
	for _, c := range x {
		if a := cmplx.Abs(c); a > scale {
			scale = a
		}
	}
	tol := 1e-12 * math.Max(scale, 1)
	realOnly := true
	for _, c := range x {
		if math.Abs(imag(c)) > tol {
			realOnly = false
			break
		}
	}
	if realOnly {
		out := make([]float64, len(x))
		for i, c := range x {
			out[i] = real(c)
		}
		return matrix.RowVector(out)
	}
	out := matrix.New(2, len(x))
	for j, c := range x {
		out.Set(0, j, real(c))
		out.Set(1, j, imag(c))
	}
	return out
}

// dft computes the (inverse) discrete Fourier transform, using radix-2
// FFT for power-of-two lengths and the direct sum otherwise.
func dft(x []complex128, inverse bool) []complex128 {
	n := len(x)
	if n == 0 {
		return nil
	}
	if n&(n-1) == 0 {
		out := make([]complex128, n)
		copy(out, x)
		fftRadix2(out, inverse)
		if inverse {
			for i := range out {
				out[i] /= complex(float64(n), 0)
			}
		}
		return out
	}

	sign := -1.0
	if inverse {
		sign = 1.0
	}
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		var sum complex128
		for t := 0; t < n; t++ {
			angle := sign * 2 * math.Pi * float64(k*t) / float64(n)
			sum += x[t] * cmplx.Exp(complex(0, angle))
		}
		if inverse {
			sum /= complex(float64(n), 0)
		}
		out[k] = sum
	}
	return out
}

func fftRadix2(x []complex128, inverse bool) {
	n := len(x)
	if n <= 1 {
		return
	}
	// Bit-reversal permutation.
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}
	sign := -1.0
	if inverse {
		sign = 1.0
	}
	for length := 2; length <= n; length <<= 1 {
		angle := sign * 2 * math.Pi / float64(length)
		wl := cmplx.Exp(complex(0, angle))
		for start := 0; start < n; start += length {
			w := complex(1, 0)
			for k := 0; k < length/2; k++ {
				u := x[start+k]
				v := x[start+k+length/2] * w
				x[start+k] = u + v
				x[start+k+length/2] = u - v
				w *= wl
			}
		}
	}
}

// besselJ evaluates J_nu(x) by the ascending series, adequate for the
// small orders and moderate arguments the language surface sees.
func besselJ(nu, x float64) float64 {
	if x < 0 && nu != math.Trunc(nu) {
		return math.NaN()
	}
	sum := 0.0
	for k := 0; k < 64; k++ {
		num := math.Pow(-1, float64(k)) * math.Pow(x/2, 2*float64(k)+nu)
		den := math.Gamma(float64(k)+1) * math.Gamma(float64(k)+nu+1)
		term := num / den
		sum += term
		if math.Abs(term) < 1e-16*math.Abs(sum) {
			break
		}
	}
	return sum
}

func normalArgs(name string, args []Value) (x *matrix.Matrix, mu, sigma float64, err error) {
	if err := wantArgs(name, args, 1, 3); err != nil {
		return nil, 0, 0, err
	}
	x, err = matArg(name, args, 0)
	if err != nil {
		return nil, 0, 0, err
	}
	mu, sigma = 0, 1
	if len(args) >= 2 {
		if mu, err = scalarArg(name, args, 1); err != nil {
			return nil, 0, 0, err
		}
	}
	if len(args) == 3 {
		if sigma, err = scalarArg(name, args, 2); err != nil {
			return nil, 0, 0, err
		}
	}
	return x, mu, sigma, nil
}
