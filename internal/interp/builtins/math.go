package builtins

import (
	"math"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

// elementwise wraps a scalar function as a shape-preserving builtin.
func elementwise(name string, f func(float64) float64) BuiltinFunc {
	return func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs(name, args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(m.Map(f)), nil
	}
}

// constant wraps a fixed scalar as a zero-argument builtin, which bare
// identifier references call implicitly.
func constant(name string, v float64) BuiltinFunc {
	return func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs(name, args, 0, 0); err != nil {
			return nil, err
		}
		return runtime.NewScalar(v), nil
	}
}

func registerMath(r *Registry) {
	ew := func(name, desc string, f func(float64) float64) {
		r.register(name, CategoryMath, desc, elementwise(name, f))
	}

	ew("sin", "Sine", math.Sin)
	ew("cos", "Cosine", math.Cos)
	ew("tan", "Tangent", math.Tan)
	ew("asin", "Inverse sine", math.Asin)
	ew("acos", "Inverse cosine", math.Acos)
	ew("atan", "Inverse tangent", math.Atan)
	ew("sinh", "Hyperbolic sine", math.Sinh)
	ew("cosh", "Hyperbolic cosine", math.Cosh)
	ew("tanh", "Hyperbolic tangent", math.Tanh)
	ew("exp", "Exponential", math.Exp)
	ew("log", "Natural logarithm", math.Log)
	ew("log2", "Base-2 logarithm", math.Log2)
	ew("log10", "Base-10 logarithm", math.Log10)
	ew("sqrt", "Square root", math.Sqrt)
	ew("abs", "Absolute value", math.Abs)
	ew("floor", "Round toward negative infinity", math.Floor)
	ew("ceil", "Round toward positive infinity", math.Ceil)
	ew("round", "Round to nearest integer", math.Round)
	ew("fix", "Round toward zero", math.Trunc)
	ew("sign", "Signum", func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return x
	})

	r.register("atan2", CategoryMath, "Four-quadrant inverse tangent", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("atan2", args, 2, 2); err != nil {
			return nil, err
		}
		y, err := matArg("atan2", args, 0)
		if err != nil {
			return nil, err
		}
		x, err := matArg("atan2", args, 1)
		if err != nil {
			return nil, err
		}
		out, err := matrix.Broadcast(y, x, math.Atan2)
		if err != nil {
			return nil, runtime.NewError("atan2: %v", err)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("mod", CategoryMath, "Modulo with divisor sign", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("mod", args, 2, 2); err != nil {
			return nil, err
		}
		a, err := matArg("mod", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := matArg("mod", args, 1)
		if err != nil {
			return nil, err
		}
		out, err := matrix.Mod(a, b)
		if err != nil {
			return nil, runtime.NewError("mod: %v", err)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("rem", CategoryMath, "Remainder with dividend sign", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("rem", args, 2, 2); err != nil {
			return nil, err
		}
		a, err := matArg("rem", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := matArg("rem", args, 1)
		if err != nil {
			return nil, err
		}
		out, err := matrix.Rem(a, b)
		if err != nil {
			return nil, runtime.NewError("rem: %v", err)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("power", CategoryMath, "Element-wise power", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("power", args, 2, 2); err != nil {
			return nil, err
		}
		a, err := matArg("power", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := matArg("power", args, 1)
		if err != nil {
			return nil, err
		}
		out, err := matrix.ElemPow(a, b)
		if err != nil {
			return nil, runtime.NewError("power: %v", err)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("factorial", CategoryMath, "Factorial", elementwise("factorial", func(x float64) float64 {
		if x < 0 || x != math.Trunc(x) {
			return math.NaN()
		}
		return math.Gamma(x + 1)
	}))

	r.register("nchoosek", CategoryMath, "Binomial coefficient", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("nchoosek", args, 2, 2); err != nil {
			return nil, err
		}
		n, err := scalarArg("nchoosek", args, 0)
		if err != nil {
			return nil, err
		}
		k, err := scalarArg("nchoosek", args, 1)
		if err != nil {
			return nil, err
		}
		v := math.Round(math.Gamma(n+1) / (math.Gamma(k+1) * math.Gamma(n-k+1)))
		return runtime.NewScalar(v), nil
	})

	r.register("gcd", CategoryMath, "Greatest common divisor", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("gcd", args, 2, 2); err != nil {
			return nil, err
		}
		a, err := matArg("gcd", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := matArg("gcd", args, 1)
		if err != nil {
			return nil, err
		}
		out, err := matrix.Broadcast(a, b, gcdFloat)
		if err != nil {
			return nil, runtime.NewError("gcd: %v", err)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("lcm", CategoryMath, "Least common multiple", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("lcm", args, 2, 2); err != nil {
			return nil, err
		}
		a, err := matArg("lcm", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := matArg("lcm", args, 1)
		if err != nil {
			return nil, err
		}
		out, err := matrix.Broadcast(a, b, func(x, y float64) float64 {
			g := gcdFloat(x, y)
			if g == 0 {
				return 0
			}
			return math.Abs(x * y / g)
		})
		if err != nil {
			return nil, runtime.NewError("lcm: %v", err)
		}
		return runtime.NewMatrix(out), nil
	})

	// Constants; zero-argument builtins are auto-called on bare reference.
	r.register("pi", CategoryMath, "Ratio of circumference to diameter", constant("pi", math.Pi))
	r.register("eps", CategoryMath, "Floating-point relative accuracy", constant("eps", 2.220446049250313e-16))
	r.register("Inf", CategoryMath, "Positive infinity", constant("Inf", math.Inf(1)))
	r.register("inf", CategoryMath, "Positive infinity", constant("inf", math.Inf(1)))
	r.register("NaN", CategoryMath, "Not a number", constant("NaN", math.NaN()))
	r.register("nan", CategoryMath, "Not a number", constant("nan", math.NaN()))
	r.register("realmax", CategoryMath, "Largest finite float", constant("realmax", math.MaxFloat64))
	r.register("realmin", CategoryMath, "Smallest normalized float", constant("realmin", 2.2250738585072014e-308))
}

func gcdFloat(x, y float64) float64 {
	a := int64(math.Abs(x))
	b := int64(math.Abs(y))
	for b != 0 {
		a, b = b, a%b
	}
	return float64(a)
}
