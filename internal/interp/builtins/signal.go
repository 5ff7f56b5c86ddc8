package builtins

import (
	"math"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

// window wraps a sample-index window function as a builtin taking the
// window length.
func window(name string, f func(i, n int) float64) BuiltinFunc {
	return func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs(name, args, 1, 1); err != nil {
			return nil, err
		}
		n, err := intArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return runtime.Empty(), nil
		}
		if n == 1 {
			return runtime.NewScalar(1), nil
		}
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = f(i, n)
		}
		return runtime.NewMatrix(matrix.ColVector(vals)), nil
	}
}

func registerSignal(r *Registry) {
	r.register("hamming", CategorySignal, "Hamming window", window("hamming", func(i, n int) float64 {
		return 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}))
	r.register("hanning", CategorySignal, "Hann window", window("hanning", func(i, n int) float64 {
		return 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}))
	r.register("blackman", CategorySignal, "Blackman window", window("blackman", func(i, n int) float64 {
		x := 2 * math.Pi * float64(i) / float64(n-1)
		return 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
	}))
	r.register("bartlett", CategorySignal, "Bartlett window", window("bartlett", func(i, n int) float64 {
		half := float64(n-1) / 2
		return 1 - math.Abs((float64(i)-half)/half)
	}))

	r.register("kaiser", CategorySignal, "Kaiser window", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("kaiser", args, 1, 2); err != nil {
			return nil, err
		}
		n, err := intArg("kaiser", args, 0)
		if err != nil {
			return nil, err
		}
		beta := 0.5
		if len(args) == 2 {
			if beta, err = scalarArg("kaiser", args, 1); err != nil {
				return nil, err
			}
		}
		if n < 1 {
			return runtime.Empty(), nil
		}
		vals := make([]float64, n)
		denom := besselI0(beta)
		for i := range vals {
			x := 2*float64(i)/float64(n-1) - 1
			vals[i] = besselI0(beta*math.Sqrt(1-x*x)) / denom
		}
		return runtime.NewMatrix(matrix.ColVector(vals)), nil
	})

	r.register("xcorr", CategorySignal, "Cross-correlation", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("xcorr", args, 1, 2); err != nil {
			return nil, err
		}
		av, err := vectorArg("xcorr", args, 0)
		if err != nil {
			return nil, err
		}
		bv := av
		if len(args) == 2 {
			if bv, err = vectorArg("xcorr", args, 1); err != nil {
				return nil, err
			}
		}
		a := av.ToVector()
		b := bv.ToVector()
		n := len(a)
		m := len(b)
		if n == 0 || m == 0 {
			return runtime.Empty(), nil
		}
		out := make([]float64, n+m-1)
		for lag := -(m - 1); lag <= n-1; lag++ {
			sum := 0.0
			for i := 0; i < n; i++ {
				j := i - lag
				if j >= 0 && j < m {
					sum += a[i] * b[j]
				}
			}
			out[lag+m-1] = sum
		}
		return runtime.NewMatrix(matrix.RowVector(out)), nil
	})

	r.register("pwelch", CategorySignal, "Welch power spectral density", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("pwelch", args, 1, 2); err != nil {
			return nil, err
		}
		xv, err := vectorArg("pwelch", args, 0)
		if err != nil {
			return nil, err
		}
		x := xv.ToVector()
		if len(x) < 8 {
			return nil, runtime.NewError("pwelch: signal too short")
		}
		segLen := len(x) / 4
		if len(args) == 2 {
			if segLen, err = intArg("pwelch", args, 1); err != nil {
				return nil, err
			}
		}
		if segLen < 4 {
			segLen = 4
		}
		if segLen > len(x) {
			segLen = len(x)
		}
		step := segLen / 2
		half := segLen/2 + 1

		psd := make([]float64, half)
		segments := 0
		for start := 0; start+segLen <= len(x); start += step {
			seg := make([]complex128, segLen)
			windowPower := 0.0
			for i := 0; i < segLen; i++ {
				w := 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(segLen-1))
				seg[i] = complex(x[start+i]*w, 0)
				windowPower += w * w
			}
			spec := dft(seg, false)
			for k := 0; k < half; k++ {
				mag := real(spec[k])*real(spec[k]) + imag(spec[k])*imag(spec[k])
				psd[k] += mag / windowPower
			}
			segments++
		}
		for k := range psd {
			psd[k] /= float64(segments)
		}
		return runtime.NewMatrix(matrix.ColVector(psd)), nil
	})

	r.register("chirp", CategorySignal, "Swept-frequency cosine", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("chirp", args, 1, 4); err != nil {
			return nil, err
		}
		t, err := matArg("chirp", args, 0)
		if err != nil {
			return nil, err
		}
		f0, t1, f1 := 0.0, 1.0, 100.0
		if len(args) >= 2 {
			if f0, err = scalarArg("chirp", args, 1); err != nil {
				return nil, err
			}
		}
		if len(args) >= 3 {
			if t1, err = scalarArg("chirp", args, 2); err != nil {
				return nil, err
			}
		}
		if len(args) >= 4 {
			if f1, err = scalarArg("chirp", args, 3); err != nil {
				return nil, err
			}
		}
		if t1 == 0 {
			return nil, runtime.NewError("chirp: reference time must be nonzero")
		}
		k := (f1 - f0) / t1
		return runtime.NewMatrix(t.Map(func(ti float64) float64 {
			return math.Cos(2 * math.Pi * (f0*ti + k*ti*ti/2))
		})), nil
	})

	r.register("sawtooth", CategorySignal, "Sawtooth wave", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("sawtooth", args, 1, 1); err != nil {
			return nil, err
		}
		t, err := matArg("sawtooth", args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(t.Map(func(ti float64) float64 {
			phase := math.Mod(ti, 2*math.Pi)
			if phase < 0 {
				phase += 2 * math.Pi
			}
			return phase/math.Pi - 1
		})), nil
	})

	r.register("square", CategorySignal, "Square wave", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("square", args, 1, 2); err != nil {
			return nil, err
		}
		t, err := matArg("square", args, 0)
		if err != nil {
			return nil, err
		}
		duty := 50.0
		if len(args) == 2 {
			if duty, err = scalarArg("square", args, 1); err != nil {
				return nil, err
			}
		}
		threshold := 2 * math.Pi * duty / 100
		return runtime.NewMatrix(t.Map(func(ti float64) float64 {
			phase := math.Mod(ti, 2*math.Pi)
			if phase < 0 {
				phase += 2 * math.Pi
			}
			if phase < threshold {
				return 1
			}
			return -1
		})), nil
	})
}

// besselI0 is the modified Bessel function of order zero, by the
// ascending series.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	for k := 1; k < 50; k++ {
		term *= (x / 2) * (x / 2) / (float64(k) * float64(k))
		sum += term
		if term < 1e-16*sum {
			break
		}
	}
	return sum
}
