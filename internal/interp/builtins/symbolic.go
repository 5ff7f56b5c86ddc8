package builtins

import (
	"strings"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
	"github.com/cwbudde/go-mlab/internal/plot"
	"github.com/cwbudde/go-mlab/internal/symbolic"
)

// symPrefix marks string values carrying symbolic expressions for the
// host's renderer.
const symPrefix = "__sym:"

// symArg parses a symbolic expression from a string argument, accepting
// both plain text and __sym:-prefixed values.
func symArg(name string, args []Value, i int) (symbolic.Expr, error) {
	s, err := strArg(name, args, i)
	if err != nil {
		return nil, err
	}
	e, perr := symbolic.Parse(strings.TrimPrefix(s, symPrefix))
	if perr != nil {
		return nil, runtime.NewError("%s: %v", name, perr)
	}
	return e, nil
}

func symValue(e symbolic.Expr) Value {
	return runtime.NewString(symPrefix + e.String())
}

func registerSymbolic(r *Registry) {
	r.register("sym", CategorySymbolic, "Construct a symbolic expression", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("sym", args, 1, 1); err != nil {
			return nil, err
		}
		if m, ok := runtime.First(args[0]).(*runtime.MatrixValue); ok && m.Mat.IsScalar() {
			return symValue(&symbolic.Num{Value: m.Mat.ScalarValue()}), nil
		}
		e, err := symArg("sym", args, 0)
		if err != nil {
			return nil, err
		}
		return symValue(e), nil
	})

	r.register("symdiff", CategorySymbolic, "Symbolic differentiation", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("symdiff", args, 2, 2); err != nil {
			return nil, err
		}
		e, err := symArg("symdiff", args, 0)
		if err != nil {
			return nil, err
		}
		name, err := strArg("symdiff", args, 1)
		if err != nil {
			return nil, err
		}
		d, derr := symbolic.Diff(e, name)
		if derr != nil {
			return nil, runtime.NewError("symdiff: %v", derr)
		}
		return symValue(d), nil
	})

	r.register("symint", CategorySymbolic, "Symbolic integration", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("symint", args, 2, 2); err != nil {
			return nil, err
		}
		e, err := symArg("symint", args, 0)
		if err != nil {
			return nil, err
		}
		name, err := strArg("symint", args, 1)
		if err != nil {
			return nil, err
		}
		anti, ierr := symbolic.Integrate(e, name)
		if ierr != nil {
			return nil, runtime.NewError("symint: %v", ierr)
		}
		return symValue(anti), nil
	})

	r.register("symsolve", CategorySymbolic, "Solve a symbolic equation", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("symsolve", args, 2, 2); err != nil {
			return nil, err
		}
		e, err := symArg("symsolve", args, 0)
		if err != nil {
			return nil, err
		}
		name, err := strArg("symsolve", args, 1)
		if err != nil {
			return nil, err
		}
		roots, serr := symbolic.Solve(e, name)
		if serr != nil {
			return nil, runtime.NewError("symsolve: %v", serr)
		}
		if len(roots) == 0 {
			return runtime.Empty(), nil
		}
		return runtime.NewMatrix(matrix.RowVector(roots)), nil
	})

	r.register("symsimplify", CategorySymbolic, "Simplify a symbolic expression", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("symsimplify", args, 1, 1); err != nil {
			return nil, err
		}
		e, err := symArg("symsimplify", args, 0)
		if err != nil {
			return nil, err
		}
		return symValue(symbolic.Simplify(e)), nil
	})

	r.register("symexpand", CategorySymbolic, "Expand products and powers", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("symexpand", args, 1, 1); err != nil {
			return nil, err
		}
		e, err := symArg("symexpand", args, 0)
		if err != nil {
			return nil, err
		}
		return symValue(symbolic.Simplify(expand(e))), nil
	})

	r.register("symsubs", CategorySymbolic, "Substitute into a symbolic expression", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("symsubs", args, 3, 3); err != nil {
			return nil, err
		}
		e, err := symArg("symsubs", args, 0)
		if err != nil {
			return nil, err
		}
		name, err := strArg("symsubs", args, 1)
		if err != nil {
			return nil, err
		}
		var replacement symbolic.Expr
		if v, serr := runtime.ToScalar(args[2]); serr == nil {
			replacement = &symbolic.Num{Value: v}
		} else if replacement, err = symArg("symsubs", args, 2); err != nil {
			return nil, err
		}
		return symValue(symbolic.Simplify(symbolic.Subs(e, name, replacement))), nil
	})

	r.register("symtaylor", CategorySymbolic, "Taylor expansion", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("symtaylor", args, 2, 4); err != nil {
			return nil, err
		}
		e, err := symArg("symtaylor", args, 0)
		if err != nil {
			return nil, err
		}
		name, err := strArg("symtaylor", args, 1)
		if err != nil {
			return nil, err
		}
		center := 0.0
		order := 5
		if len(args) >= 3 {
			if center, err = scalarArg("symtaylor", args, 2); err != nil {
				return nil, err
			}
		}
		if len(args) == 4 {
			if order, err = intArg("symtaylor", args, 3); err != nil {
				return nil, err
			}
		}
		p, terr := symbolic.Taylor(e, name, center, order)
		if terr != nil {
			return nil, runtime.NewError("symtaylor: %v", terr)
		}
		return symValue(p), nil
	})

	r.register("symeval", CategorySymbolic, "Evaluate a symbolic expression numerically", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("symeval", args, 1, -1); err != nil {
			return nil, err
		}
		if (len(args)-1)%2 != 0 {
			return nil, runtime.NewError("symeval: expected variable/value pairs after the expression")
		}
		e, err := symArg("symeval", args, 0)
		if err != nil {
			return nil, err
		}
		vars := map[string]float64{}
		for i := 1; i < len(args); i += 2 {
			name, err := strArg("symeval", args, i)
			if err != nil {
				return nil, err
			}
			v, err := scalarArg("symeval", args, i+1)
			if err != nil {
				return nil, err
			}
			vars[name] = v
		}
		v, eerr := symbolic.Eval(e, vars)
		if eerr != nil {
			return nil, runtime.NewError("symeval: %v", eerr)
		}
		return runtime.NewScalar(v), nil
	})

	r.register("symplot", CategorySymbolic, "Plot a symbolic expression", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("symplot", args, 1, 4); err != nil {
			return nil, err
		}
		e, err := symArg("symplot", args, 0)
		if err != nil {
			return nil, err
		}
		name := "x"
		lo, hi := -10.0, 10.0
		if len(args) >= 2 {
			if name, err = strArg("symplot", args, 1); err != nil {
				return nil, err
			}
		}
		if len(args) >= 3 {
			if lo, err = scalarArg("symplot", args, 2); err != nil {
				return nil, err
			}
		}
		if len(args) == 4 {
			if hi, err = scalarArg("symplot", args, 3); err != nil {
				return nil, err
			}
		}

		const samples = 200
		xs := make([]float64, samples)
		ys := make([]float64, samples)
		step := (hi - lo) / float64(samples-1)
		for i := range xs {
			xs[i] = lo + float64(i)*step
			v, eerr := symbolic.Eval(e, map[string]float64{name: xs[i]})
			if eerr != nil {
				return nil, runtime.NewError("symplot: %v", eerr)
			}
			ys[i] = v
		}
		fig := ctx.Figure()
		fig.AddSeries(plot.Series{
			Kind:      plot.KindLine,
			X:         xs,
			Y:         ys,
			LineWidth: 1.5,
			LineStyle: "-",
			Label:     e.String(),
		})
		ctx.EmitFigure()
		return nil, nil
	})
}

// expand distributes products over sums and unrolls small integer powers
// of sums, leaving everything else to the simplifier.
func expand(e symbolic.Expr) symbolic.Expr {
	switch x := e.(type) {
	case *symbolic.Add:
		return &symbolic.Add{L: expand(x.L), R: expand(x.R)}
	case *symbolic.Neg:
		return &symbolic.Neg{X: expand(x.X)}
	case *symbolic.Div:
		return &symbolic.Div{L: expand(x.L), R: expand(x.R)}
	case *symbolic.Mul:
		l := expand(x.L)
		rr := expand(x.R)
		if sum, ok := l.(*symbolic.Add); ok {
			return expand(&symbolic.Add{
				L: &symbolic.Mul{L: sum.L, R: rr},
				R: &symbolic.Mul{L: sum.R, R: rr},
			})
		}
		if sum, ok := rr.(*symbolic.Add); ok {
			return expand(&symbolic.Add{
				L: &symbolic.Mul{L: l, R: sum.L},
				R: &symbolic.Mul{L: l, R: sum.R},
			})
		}
		return &symbolic.Mul{L: l, R: rr}
	case *symbolic.Pow:
		base := expand(x.Base)
		if n, ok := x.Exp.(*symbolic.Num); ok {
			k := int(n.Value)
			if float64(k) == n.Value && k >= 2 && k <= 8 {
				if _, isSum := base.(*symbolic.Add); isSum {
					result := base
					for i := 1; i < k; i++ {
						result = expand(&symbolic.Mul{L: result, R: base})
					}
					return result
				}
			}
		}
		return &symbolic.Pow{Base: base, Exp: x.Exp}
	}
	return e
}
