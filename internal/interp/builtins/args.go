package builtins

import (
	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

// Argument helpers. Every helper embeds the function name in its error
// so arity and kind violations read like "sin: expected 1 argument".

func wantArgs(name string, args []Value, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		if min == max {
			return runtime.NewError("%s: expected %d argument(s), got %d", name, min, len(args))
		}
		if max < 0 {
			return runtime.NewError("%s: expected at least %d argument(s), got %d", name, min, len(args))
		}
		return runtime.NewError("%s: expected %d to %d arguments, got %d", name, min, max, len(args))
	}
	return nil
}

func matArg(name string, args []Value, i int) (*matrix.Matrix, error) {
	m, err := runtime.ToMatrix(args[i])
	if err != nil {
		return nil, runtime.NewError("%s: argument %d: %v", name, i+1, err)
	}
	return m, nil
}

func scalarArg(name string, args []Value, i int) (float64, error) {
	v, err := runtime.ToScalar(args[i])
	if err != nil {
		return 0, runtime.NewError("%s: argument %d: %v", name, i+1, err)
	}
	return v, nil
}

func intArg(name string, args []Value, i int) (int, error) {
	v, err := runtime.ToInt(args[i])
	if err != nil {
		return 0, runtime.NewError("%s: argument %d: %v", name, i+1, err)
	}
	return v, nil
}

func strArg(name string, args []Value, i int) (string, error) {
	s, err := runtime.ToString(args[i])
	if err != nil {
		return "", runtime.NewError("%s: argument %d: %v", name, i+1, err)
	}
	return s, nil
}

func handleArg(name string, args []Value, i int) (*runtime.FuncHandleValue, error) {
	if h, ok := runtime.First(args[i]).(*runtime.FuncHandleValue); ok {
		return h, nil
	}
	return nil, runtime.NewError("%s: argument %d must be a function handle", name, i+1)
}

func cellArg(name string, args []Value, i int) (*runtime.CellValue, error) {
	if c, ok := runtime.First(args[i]).(*runtime.CellValue); ok {
		return c, nil
	}
	return nil, runtime.NewError("%s: argument %d must be a cell array", name, i+1)
}

// vectorArg coerces an argument to a matrix and checks it is a vector or
// empty.
func vectorArg(name string, args []Value, i int) (*matrix.Matrix, error) {
	m, err := matArg(name, args, i)
	if err != nil {
		return nil, err
	}
	if !m.IsEmpty() && !m.IsVector() {
		return nil, runtime.NewError("%s: argument %d must be a vector", name, i+1)
	}
	return m, nil
}

// dimArg reads an optional trailing dimension argument, falling back to
// the reduction default for the matrix.
func dimArg(name string, args []Value, i int, m *matrix.Matrix) (int, error) {
	if len(args) <= i {
		return matrix.DefaultDim(m), nil
	}
	dim, err := intArg(name, args, i)
	if err != nil {
		return 0, err
	}
	if dim != 1 && dim != 2 {
		return 0, runtime.NewError("%s: dimension must be 1 or 2", name)
	}
	return dim, nil
}

// list wraps values in a ValueList for multi-return, collapsing a single
// value to itself.
func list(values ...Value) Value {
	if len(values) == 1 {
		return values[0]
	}
	return &runtime.ValueList{Values: values}
}
