package builtins

import (
	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

func registerHigher(r *Registry) {
	r.register("feval", CategoryHigher, "Call a function by handle or name", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("feval", args, 1, -1); err != nil {
			return nil, err
		}
		fn := runtime.First(args[0])
		if name, serr := runtime.ToString(fn); serr == nil {
			fn = &runtime.FuncHandleValue{Name: name}
		}
		if _, ok := fn.(*runtime.FuncHandleValue); !ok {
			return nil, runtime.NewError("feval: first argument must be a function handle or name")
		}
		return ctx.Call(fn, args[1:], nargout)
	})

	r.register("arrayfun", CategoryHigher, "Apply a function element-wise", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("arrayfun", args, 2, -1); err != nil {
			return nil, err
		}
		fn, err := handleArg("arrayfun", args, 0)
		if err != nil {
			return nil, err
		}
		mats := make([]*matrix.Matrix, len(args)-1)
		for i := 1; i < len(args); i++ {
			if mats[i-1], err = matArg("arrayfun", args, i); err != nil {
				return nil, err
			}
			if mats[i-1].Rows() != mats[0].Rows() || mats[i-1].Cols() != mats[0].Cols() {
				return nil, runtime.NewError("arrayfun: all arrays must have the same size")
			}
		}

		out := matrix.New(mats[0].Rows(), mats[0].Cols())
		for i := 0; i < mats[0].Numel(); i++ {
			callArgs := make([]Value, len(mats))
			for k, m := range mats {
				callArgs[k] = runtime.NewScalar(m.LinearGet(i))
			}
			result, cerr := ctx.Call(fn, callArgs, 1)
			if cerr != nil {
				return nil, cerr
			}
			v, serr := runtime.ToScalar(result)
			if serr != nil {
				return nil, runtime.NewError("arrayfun: function must return a scalar")
			}
			out.LinearSet(i, v)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("cellfun", CategoryHigher, "Apply a function cell-wise", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("cellfun", args, 2, 2); err != nil {
			return nil, err
		}
		fn, err := handleArg("cellfun", args, 0)
		if err != nil {
			return nil, err
		}
		c, err := cellArg("cellfun", args, 1)
		if err != nil {
			return nil, err
		}

		out := matrix.New(c.RowCount, c.ColCount)
		for i := 0; i < c.Numel(); i++ {
			result, cerr := ctx.Call(fn, []Value{c.LinearGet(i)}, 1)
			if cerr != nil {
				return nil, cerr
			}
			v, serr := runtime.ToScalar(result)
			if serr != nil {
				return nil, runtime.NewError("cellfun: function must return a scalar")
			}
			out.LinearSet(i, v)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("deal", CategoryHigher, "Distribute inputs to outputs", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("deal", args, 1, -1); err != nil {
			return nil, err
		}
		if len(args) == 1 && nargout > 1 {
			outs := make([]Value, nargout)
			for i := range outs {
				outs[i] = runtime.First(args[0])
			}
			return list(outs...), nil
		}
		outs := make([]Value, len(args))
		for i := range args {
			outs[i] = runtime.First(args[i])
		}
		return list(outs...), nil
	})
}
