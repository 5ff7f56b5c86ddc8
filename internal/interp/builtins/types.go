package builtins

import (
	"math"
	"strings"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

func registerTypes(r *Registry) {
	r.register("class", CategoryTypes, "Class name of a value", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("class", args, 1, 1); err != nil {
			return nil, err
		}
		return runtime.NewString(runtime.First(args[0]).Type()), nil
	})

	r.register("isa", CategoryTypes, "Class membership test", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("isa", args, 2, 2); err != nil {
			return nil, err
		}
		class, err := strArg("isa", args, 1)
		if err != nil {
			return nil, err
		}
		actual := runtime.First(args[0]).Type()
		if class == "numeric" || class == "float" {
			return runtime.NewBool(actual == "double"), nil
		}
		return runtime.NewBool(actual == class), nil
	})

	kindTest := func(name string, f func(v Value) bool) {
		r.register(name, CategoryTypes, "Type predicate", func(ctx Context, args []Value, nargout int) (Value, error) {
			if err := wantArgs(name, args, 1, 1); err != nil {
				return nil, err
			}
			return runtime.NewBool(f(runtime.First(args[0]))), nil
		})
	}

	kindTest("isnumeric", func(v Value) bool {
		_, ok := v.(*runtime.MatrixValue)
		return ok
	})
	kindTest("ischar", func(v Value) bool {
		_, ok := v.(*runtime.StringValue)
		return ok
	})
	kindTest("isstruct", func(v Value) bool {
		_, ok := v.(*runtime.StructValue)
		return ok
	})
	kindTest("iscell", func(v Value) bool {
		_, ok := v.(*runtime.CellValue)
		return ok
	})
	kindTest("islogical", func(v Value) bool {
		m, ok := v.(*runtime.MatrixValue)
		if !ok {
			return false
		}
		for _, x := range m.Mat.Data {
			if x != 0 && x != 1 {
				return false
			}
		}
		return true
	})
	kindTest("isvector", func(v Value) bool {
		m, ok := v.(*runtime.MatrixValue)
		return ok && m.Mat.IsVector()
	})
	kindTest("isscalar", func(v Value) bool {
		m, ok := v.(*runtime.MatrixValue)
		return ok && m.Mat.IsScalar()
	})
	kindTest("isrow", func(v Value) bool {
		m, ok := v.(*runtime.MatrixValue)
		return ok && m.Mat.IsRowVector()
	})
	kindTest("iscolumn", func(v Value) bool {
		m, ok := v.(*runtime.MatrixValue)
		return ok && !m.Mat.IsEmpty() && m.Mat.Cols() == 1
	})
	kindTest("ismatrix", func(v Value) bool {
		_, ok := v.(*runtime.MatrixValue)
		return ok
	})

	ewTest := func(name string, f func(float64) bool) {
		r.register(name, CategoryTypes, "Element-wise predicate", func(ctx Context, args []Value, nargout int) (Value, error) {
			if err := wantArgs(name, args, 1, 1); err != nil {
				return nil, err
			}
			m, err := matArg(name, args, 0)
			if err != nil {
				return nil, err
			}
			return runtime.NewMatrix(m.Map(func(x float64) float64 {
				if f(x) {
					return 1
				}
				return 0
			})), nil
		})
	}

	ewTest("isnan", math.IsNaN)
	ewTest("isinf", func(x float64) bool { return math.IsInf(x, 0) })
	ewTest("isfinite", func(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) })

	r.register("logical", CategoryTypes, "Convert to logical 0/1", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("logical", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("logical", args, 0)
		if err != nil {
			return nil, err
		}
		for _, v := range m.Data {
			if math.IsNaN(v) {
				return nil, runtime.NewError("logical: NaN cannot convert to logical")
			}
		}
		return runtime.NewMatrix(m.Map(func(x float64) float64 {
			if x != 0 {
				return 1
			}
			return 0
		})), nil
	})

	r.register("double", CategoryTypes, "Convert to double", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("double", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("double", args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(m.Clone()), nil
	})

	r.register("char", CategoryTypes, "Convert char codes to string", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("char", args, 1, 1); err != nil {
			return nil, err
		}
		if s, ok := runtime.First(args[0]).(*runtime.StringValue); ok {
			return runtime.NewString(s.Value), nil
		}
		m, err := matArg("char", args, 0)
		if err != nil {
			return nil, err
		}
		var sb strings.Builder
		for i := 0; i < m.Numel(); i++ {
			sb.WriteRune(rune(int(m.LinearGet(i))))
		}
		return runtime.NewString(sb.String()), nil
	})

	r.register("struct", CategoryTypes, "Construct a struct", func(ctx Context, args []Value, nargout int) (Value, error) {
		if len(args)%2 != 0 {
			return nil, runtime.NewError("struct: expected field/value pairs")
		}
		s := runtime.NewStruct()
		for i := 0; i < len(args); i += 2 {
			name, err := strArg("struct", args, i)
			if err != nil {
				return nil, err
			}
			s.SetField(name, runtime.First(args[i+1]))
		}
		return s, nil
	})

	r.register("fieldnames", CategoryTypes, "Struct field names", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("fieldnames", args, 1, 1); err != nil {
			return nil, err
		}
		s, ok := runtime.First(args[0]).(*runtime.StructValue)
		if !ok {
			return nil, runtime.NewError("fieldnames: argument must be a struct")
		}
		cell := runtime.NewCell(len(s.Names), 1)
		for i, name := range s.Names {
			cell.Set(i, 0, runtime.NewString(name))
		}
		return cell, nil
	})

	r.register("isfield", CategoryTypes, "Struct field test", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("isfield", args, 2, 2); err != nil {
			return nil, err
		}
		s, ok := runtime.First(args[0]).(*runtime.StructValue)
		if !ok {
			return runtime.NewBool(false), nil
		}
		name, err := strArg("isfield", args, 1)
		if err != nil {
			return nil, err
		}
		_, has := s.Get(name)
		return runtime.NewBool(has), nil
	})

	r.register("rmfield", CategoryTypes, "Remove a struct field", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("rmfield", args, 2, 2); err != nil {
			return nil, err
		}
		s, ok := runtime.First(args[0]).(*runtime.StructValue)
		if !ok {
			return nil, runtime.NewError("rmfield: argument must be a struct")
		}
		name, err := strArg("rmfield", args, 1)
		if err != nil {
			return nil, err
		}
		if _, has := s.Get(name); !has {
			return nil, runtime.NewError("rmfield: no field named '%s'", name)
		}
		out := runtime.NewStruct()
		for _, n := range s.Names {
			if n != name {
				out.SetField(n, s.Fields[n])
			}
		}
		return out, nil
	})

	r.register("cell", CategoryTypes, "Construct an empty cell array", func(ctx Context, args []Value, nargout int) (Value, error) {
		rows, cols, err := constructorDims("cell", args)
		if err != nil {
			return nil, err
		}
		return runtime.NewCell(rows, cols), nil
	})

	r.register("cell2mat", CategoryTypes, "Concatenate cell contents", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("cell2mat", args, 1, 1); err != nil {
			return nil, err
		}
		c, err := cellArg("cell2mat", args, 0)
		if err != nil {
			return nil, err
		}
		rows := make([]*matrix.Matrix, 0, c.RowCount)
		for i := 0; i < c.RowCount; i++ {
			cols := make([]*matrix.Matrix, 0, c.ColCount)
			for j := 0; j < c.ColCount; j++ {
				m, merr := runtime.ToMatrix(c.At(i, j))
				if merr != nil {
					return nil, runtime.NewError("cell2mat: %v", merr)
				}
				cols = append(cols, m)
			}
			row, herr := matrix.HorzCat(cols...)
			if herr != nil {
				return nil, runtime.NewError("cell2mat: %v", herr)
			}
			rows = append(rows, row)
		}
		out, verr := matrix.VertCat(rows...)
		if verr != nil {
			return nil, runtime.NewError("cell2mat: %v", verr)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("func2str", CategoryTypes, "Function handle to source text", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("func2str", args, 1, 1); err != nil {
			return nil, err
		}
		h, err := handleArg("func2str", args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.NewString(h.String()), nil
	})

	r.register("str2func", CategoryTypes, "Name to function handle", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("str2func", args, 1, 1); err != nil {
			return nil, err
		}
		name, err := strArg("str2func", args, 0)
		if err != nil {
			return nil, err
		}
		return &runtime.FuncHandleValue{Name: strings.TrimPrefix(name, "@")}, nil
	})
}
