package builtins

import (
	"math"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

// reduction wraps a dimension-wise kernel as a builtin taking an
// optional dimension argument.
func reduction(name string, f func(m *matrix.Matrix, dim int) *matrix.Matrix) BuiltinFunc {
	return func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs(name, args, 1, 2); err != nil {
			return nil, err
		}
		m, err := matArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		dim, err := dimArg(name, args, 1, m)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(f(m, dim)), nil
	}
}

// extremum implements min and max: one matrix argument reduces with an
// index output, two arguments compare element-wise, and the
// (m, [], dim) form reduces along an explicit dimension.
func extremum(name string, wantMax bool) BuiltinFunc {
	pick := func(x, y float64) float64 {
		if math.IsNaN(x) {
			return y
		}
		if math.IsNaN(y) {
			return x
		}
		if (wantMax && x > y) || (!wantMax && x < y) {
			return x
		}
		return y
	}

	return func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs(name, args, 1, 3); err != nil {
			return nil, err
		}
		m, err := matArg(name, args, 0)
		if err != nil {
			return nil, err
		}

		if len(args) >= 2 {
			second, err := matArg(name, args, 1)
			if err != nil {
				return nil, err
			}
			if !second.IsEmpty() {
				out, berr := matrix.Broadcast(m, second, pick)
				if berr != nil {
					return nil, runtime.NewError("%s: %v", name, berr)
				}
				return runtime.NewMatrix(out), nil
			}
		}

		dim := matrix.DefaultDim(m)
		if len(args) == 3 {
			if dim, err = intArg(name, args, 2); err != nil {
				return nil, err
			}
		}
		vals, idx := matrix.MinMax(m, dim, wantMax)
		if nargout >= 2 {
			return list(runtime.NewMatrix(vals), runtime.NewMatrix(idx)), nil
		}
		return runtime.NewMatrix(vals), nil
	}
}

func registerStats(r *Registry) {
	r.register("sum", CategoryStats, "Sum of elements", reduction("sum", matrix.Sum))
	r.register("prod", CategoryStats, "Product of elements", reduction("prod", matrix.Prod))
	r.register("mean", CategoryStats, "Arithmetic mean", reduction("mean", matrix.Mean))
	r.register("median", CategoryStats, "Median", reduction("median", matrix.Median))
	r.register("std", CategoryStats, "Standard deviation", reduction("std", matrix.Std))
	r.register("var", CategoryStats, "Variance", reduction("var", matrix.Var))
	r.register("cumsum", CategoryStats, "Cumulative sum", reduction("cumsum", matrix.CumSum))
	r.register("cumprod", CategoryStats, "Cumulative product", reduction("cumprod", matrix.CumProd))
	r.register("min", CategoryStats, "Minimum", extremum("min", false))
	r.register("max", CategoryStats, "Maximum", extremum("max", true))

	r.register("mode", CategoryStats, "Most frequent value", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("mode", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("mode", args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(matrix.Reduce(m, matrix.DefaultDim(m), func(s []float64) float64 {
			counts := map[float64]int{}
			best := math.NaN()
			bestCount := 0
			for _, v := range s {
				counts[v]++
				if counts[v] > bestCount || (counts[v] == bestCount && v < best) {
					best = v
					bestCount = counts[v]
				}
			}
			return best
		})), nil
	})
}
