package builtins

import (
	"math"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

// constructorDims reads the (n) or (rows, cols) shape arguments shared
// by the array constructors; one argument builds square.
func constructorDims(name string, args []Value) (rows, cols int, err error) {
	switch len(args) {
	case 0:
		return 1, 1, nil
	case 1:
		n, err := intArg(name, args, 0)
		if err != nil {
			return 0, 0, err
		}
		return n, n, nil
	case 2:
		rows, err := intArg(name, args, 0)
		if err != nil {
			return 0, 0, err
		}
		cols, err := intArg(name, args, 1)
		if err != nil {
			return 0, 0, err
		}
		return rows, cols, nil
	}
	return 0, 0, runtime.NewError("%s: expected at most 2 arguments, got %d", name, len(args))
}

func registerMatrix(r *Registry) {
	r.register("zeros", CategoryMatrix, "Matrix of zeros", func(ctx Context, args []Value, nargout int) (Value, error) {
		rows, cols, err := constructorDims("zeros", args)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(matrix.New(rows, cols)), nil
	})

	r.register("ones", CategoryMatrix, "Matrix of ones", func(ctx Context, args []Value, nargout int) (Value, error) {
		rows, cols, err := constructorDims("ones", args)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(matrix.Fill(rows, cols, 1)), nil
	})

	r.register("eye", CategoryMatrix, "Identity matrix", func(ctx Context, args []Value, nargout int) (Value, error) {
		rows, cols, err := constructorDims("eye", args)
		if err != nil {
			return nil, err
		}
		m := matrix.New(rows, cols)
		for i := 0; i < rows && i < cols; i++ {
			m.Set(i, i, 1)
		}
		return runtime.NewMatrix(m), nil
	})

	r.register("rand", CategoryMatrix, "Uniform random matrix", func(ctx Context, args []Value, nargout int) (Value, error) {
		rows, cols, err := constructorDims("rand", args)
		if err != nil {
			return nil, err
		}
		m := matrix.New(rows, cols)
		for i := range m.Data {
			m.Data[i] = ctx.Rand().Float64()
		}
		return runtime.NewMatrix(m), nil
	})

	r.register("randn", CategoryMatrix, "Normal random matrix", func(ctx Context, args []Value, nargout int) (Value, error) {
		rows, cols, err := constructorDims("randn", args)
		if err != nil {
			return nil, err
		}
		m := matrix.New(rows, cols)
		for i := range m.Data {
			m.Data[i] = ctx.Rand().NormFloat64()
		}
		return runtime.NewMatrix(m), nil
	})

	r.register("randi", CategoryMatrix, "Uniform random integers", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("randi", args, 1, 3); err != nil {
			return nil, err
		}
		upper, err := intArg("randi", args, 0)
		if err != nil {
			return nil, err
		}
		if upper < 1 {
			return nil, runtime.NewError("randi: upper bound must be positive")
		}
		rows, cols, err := constructorDims("randi", args[1:])
		if err != nil {
			return nil, err
		}
		m := matrix.New(rows, cols)
		for i := range m.Data {
			m.Data[i] = float64(ctx.Rand().Intn(upper) + 1)
		}
		return runtime.NewMatrix(m), nil
	})

	r.register("linspace", CategoryMatrix, "Linearly spaced vector", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("linspace", args, 2, 3); err != nil {
			return nil, err
		}
		a, err := scalarArg("linspace", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := scalarArg("linspace", args, 1)
		if err != nil {
			return nil, err
		}
		n := 100
		if len(args) == 3 {
			if n, err = intArg("linspace", args, 2); err != nil {
				return nil, err
			}
		}
		if n < 1 {
			return runtime.Empty(), nil
		}
		if n == 1 {
			return runtime.NewScalar(b), nil
		}
		vals := make([]float64, n)
		step := (b - a) / float64(n-1)
		for i := range vals {
			vals[i] = a + float64(i)*step
		}
		vals[n-1] = b
		return runtime.NewMatrix(matrix.RowVector(vals)), nil
	})

	r.register("logspace", CategoryMatrix, "Logarithmically spaced vector", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("logspace", args, 2, 3); err != nil {
			return nil, err
		}
		a, err := scalarArg("logspace", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := scalarArg("logspace", args, 1)
		if err != nil {
			return nil, err
		}
		n := 50
		if len(args) == 3 {
			if n, err = intArg("logspace", args, 2); err != nil {
				return nil, err
			}
		}
		if n < 1 {
			return runtime.Empty(), nil
		}
		vals := make([]float64, n)
		if n == 1 {
			vals[0] = math.Pow(10, b)
		} else {
			step := (b - a) / float64(n-1)
			for i := range vals {
				vals[i] = math.Pow(10, a+float64(i)*step)
			}
		}
		return runtime.NewMatrix(matrix.RowVector(vals)), nil
	})

	r.register("meshgrid", CategoryMatrix, "Rectangular grid from vectors", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("meshgrid", args, 1, 2); err != nil {
			return nil, err
		}
		xv, err := vectorArg("meshgrid", args, 0)
		if err != nil {
			return nil, err
		}
		yv := xv
		if len(args) == 2 {
			if yv, err = vectorArg("meshgrid", args, 1); err != nil {
				return nil, err
			}
		}
		xs := xv.ToVector()
		ys := yv.ToVector()
		x := matrix.New(len(ys), len(xs))
		y := matrix.New(len(ys), len(xs))
		for i := range ys {
			for j := range xs {
				x.Set(i, j, xs[j])
				y.Set(i, j, ys[i])
			}
		}
		return list(runtime.NewMatrix(x), runtime.NewMatrix(y)), nil
	})

	r.register("size", CategoryMatrix, "Matrix dimensions", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("size", args, 1, 2); err != nil {
			return nil, err
		}
		rows, cols, err := valueShape(args[0])
		if err != nil {
			return nil, runtime.NewError("size: %v", err)
		}
		if len(args) == 2 {
			dim, err := intArg("size", args, 1)
			if err != nil {
				return nil, err
			}
			switch dim {
			case 1:
				return runtime.NewScalar(float64(rows)), nil
			case 2:
				return runtime.NewScalar(float64(cols)), nil
			}
			return runtime.NewScalar(1), nil
		}
		if nargout >= 2 {
			return list(runtime.NewScalar(float64(rows)), runtime.NewScalar(float64(cols))), nil
		}
		return runtime.NewMatrix(matrix.RowVector([]float64{float64(rows), float64(cols)})), nil
	})

	r.register("length", CategoryMatrix, "Largest dimension", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("length", args, 1, 1); err != nil {
			return nil, err
		}
		rows, cols, err := valueShape(args[0])
		if err != nil {
			return nil, runtime.NewError("length: %v", err)
		}
		if rows == 0 || cols == 0 {
			return runtime.NewScalar(0), nil
		}
		if cols > rows {
			rows = cols
		}
		return runtime.NewScalar(float64(rows)), nil
	})

	r.register("numel", CategoryMatrix, "Number of elements", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("numel", args, 1, 1); err != nil {
			return nil, err
		}
		rows, cols, err := valueShape(args[0])
		if err != nil {
			return nil, runtime.NewError("numel: %v", err)
		}
		return runtime.NewScalar(float64(rows * cols)), nil
	})

	r.register("isempty", CategoryMatrix, "True for empty value", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("isempty", args, 1, 1); err != nil {
			return nil, err
		}
		rows, cols, err := valueShape(args[0])
		if err != nil {
			return nil, runtime.NewError("isempty: %v", err)
		}
		return runtime.NewBool(rows*cols == 0), nil
	})

	r.register("reshape", CategoryMatrix, "Reshape preserving column order", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("reshape", args, 3, 3); err != nil {
			return nil, err
		}
		m, err := matArg("reshape", args, 0)
		if err != nil {
			return nil, err
		}
		rows, err := intArg("reshape", args, 1)
		if err != nil {
			return nil, err
		}
		cols, err := intArg("reshape", args, 2)
		if err != nil {
			return nil, err
		}
		out, rerr := m.Reshape(rows, cols)
		if rerr != nil {
			return nil, runtime.NewError("reshape: %v", rerr)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("repmat", CategoryMatrix, "Tile a matrix", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("repmat", args, 2, 3); err != nil {
			return nil, err
		}
		m, err := matArg("repmat", args, 0)
		if err != nil {
			return nil, err
		}
		vert, err := intArg("repmat", args, 1)
		if err != nil {
			return nil, err
		}
		horz := vert
		if len(args) == 3 {
			if horz, err = intArg("repmat", args, 2); err != nil {
				return nil, err
			}
		}
		return runtime.NewMatrix(matrix.RepMat(m, vert, horz)), nil
	})

	r.register("transpose", CategoryMatrix, "Matrix transpose", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("transpose", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("transpose", args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(m.Transpose()), nil
	})

	r.register("diag", CategoryMatrix, "Diagonal extraction or construction", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("diag", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("diag", args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(matrix.Diag(m)), nil
	})

	r.register("cat", CategoryMatrix, "Concatenate along a dimension", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("cat", args, 2, -1); err != nil {
			return nil, err
		}
		dim, err := intArg("cat", args, 0)
		if err != nil {
			return nil, err
		}
		mats := make([]*matrix.Matrix, 0, len(args)-1)
		for i := 1; i < len(args); i++ {
			m, err := matArg("cat", args, i)
			if err != nil {
				return nil, err
			}
			mats = append(mats, m)
		}
		var out *matrix.Matrix
		var cerr error
		switch dim {
		case 1:
			out, cerr = matrix.VertCat(mats...)
		case 2:
			out, cerr = matrix.HorzCat(mats...)
		default:
			return nil, runtime.NewError("cat: dimension must be 1 or 2")
		}
		if cerr != nil {
			return nil, runtime.NewError("cat: %v", cerr)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("horzcat", CategoryMatrix, "Horizontal concatenation", func(ctx Context, args []Value, nargout int) (Value, error) {
		mats := make([]*matrix.Matrix, 0, len(args))
		for i := range args {
			m, err := matArg("horzcat", args, i)
			if err != nil {
				return nil, err
			}
			mats = append(mats, m)
		}
		out, err := matrix.HorzCat(mats...)
		if err != nil {
			return nil, runtime.NewError("horzcat: %v", err)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("vertcat", CategoryMatrix, "Vertical concatenation", func(ctx Context, args []Value, nargout int) (Value, error) {
		mats := make([]*matrix.Matrix, 0, len(args))
		for i := range args {
			m, err := matArg("vertcat", args, i)
			if err != nil {
				return nil, err
			}
			mats = append(mats, m)
		}
		out, err := matrix.VertCat(mats...)
		if err != nil {
			return nil, runtime.NewError("vertcat: %v", err)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("fliplr", CategoryMatrix, "Flip left-right", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("fliplr", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("fliplr", args, 0)
		if err != nil {
			return nil, err
		}
		out := m.Clone()
		for i := 0; i < m.Rows(); i++ {
			for j := 0; j < m.Cols(); j++ {
				out.Set(i, j, m.At(i, m.Cols()-1-j))
			}
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("flipud", CategoryMatrix, "Flip up-down", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("flipud", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("flipud", args, 0)
		if err != nil {
			return nil, err
		}
		out := m.Clone()
		for i := 0; i < m.Rows(); i++ {
			for j := 0; j < m.Cols(); j++ {
				out.Set(i, j, m.At(m.Rows()-1-i, j))
			}
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("sort", CategoryMatrix, "Sort elements", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("sort", args, 1, 2); err != nil {
			return nil, err
		}
		m, err := matArg("sort", args, 0)
		if err != nil {
			return nil, err
		}
		descending := false
		if len(args) == 2 {
			mode, err := strArg("sort", args, 1)
			if err != nil {
				return nil, err
			}
			switch mode {
			case "ascend":
			case "descend":
				descending = true
			default:
				return nil, runtime.NewError("sort: mode must be 'ascend' or 'descend'")
			}
		}
		sorted, idx := matrix.Sort(m, matrix.DefaultDim(m), descending)
		if nargout >= 2 {
			return list(runtime.NewMatrix(sorted), runtime.NewMatrix(idx)), nil
		}
		return runtime.NewMatrix(sorted), nil
	})

	r.register("unique", CategoryMatrix, "Distinct sorted elements", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("unique", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("unique", args, 0)
		if err != nil {
			return nil, err
		}
		flat, rerr := m.Reshape(m.Numel(), 1)
		if rerr != nil {
			return nil, runtime.NewError("unique: %v", rerr)
		}
		sorted, _ := matrix.Sort(flat, 1, false)
		var vals []float64
		for i := 0; i < sorted.Numel(); i++ {
			v := sorted.Data[i]
			if len(vals) == 0 || vals[len(vals)-1] != v {
				vals = append(vals, v)
			}
		}
		if m.IsRowVector() {
			return runtime.NewMatrix(matrix.RowVector(vals)), nil
		}
		return runtime.NewMatrix(matrix.ColVector(vals)), nil
	})

	r.register("find", CategoryMatrix, "Indices of nonzero elements", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("find", args, 1, 2); err != nil {
			return nil, err
		}
		m, err := matArg("find", args, 0)
		if err != nil {
			return nil, err
		}
		idx := matrix.Find(m)
		if len(args) == 2 {
			limit, err := intArg("find", args, 1)
			if err != nil {
				return nil, err
			}
			if limit < idx.Numel() {
				vals := idx.ToVector()[:limit]
				if idx.IsRowVector() {
					idx = matrix.RowVector(vals)
				} else {
					idx = matrix.ColVector(vals)
				}
			}
		}
		return runtime.NewMatrix(idx), nil
	})

	r.register("any", CategoryMatrix, "True if any element is nonzero", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("any", args, 1, 2); err != nil {
			return nil, err
		}
		m, err := matArg("any", args, 0)
		if err != nil {
			return nil, err
		}
		if m.IsEmpty() {
			return runtime.NewBool(false), nil
		}
		dim, err := dimArg("any", args, 1, m)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(matrix.Any(m, dim)), nil
	})

	r.register("all", CategoryMatrix, "True if all elements are nonzero", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("all", args, 1, 2); err != nil {
			return nil, err
		}
		m, err := matArg("all", args, 0)
		if err != nil {
			return nil, err
		}
		if m.IsEmpty() {
			return runtime.NewBool(true), nil
		}
		dim, err := dimArg("all", args, 1, m)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(matrix.All(m, dim)), nil
	})

	r.register("kron", CategoryMatrix, "Kronecker product", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("kron", args, 2, 2); err != nil {
			return nil, err
		}
		a, err := matArg("kron", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := matArg("kron", args, 1)
		if err != nil {
			return nil, err
		}
		out := matrix.New(a.Rows()*b.Rows(), a.Cols()*b.Cols())
		for i := 0; i < a.Rows(); i++ {
			for j := 0; j < a.Cols(); j++ {
				for k := 0; k < b.Rows(); k++ {
					for l := 0; l < b.Cols(); l++ {
						out.Set(i*b.Rows()+k, j*b.Cols()+l, a.At(i, j)*b.At(k, l))
					}
				}
			}
		}
		return runtime.NewMatrix(out), nil
	})
}

// valueShape returns the rows/cols of any value kind: matrices and
// strings report their element shape, cells their grid, scalars 1x1.
func valueShape(v Value) (rows, cols int, err error) {
	switch val := runtime.First(v).(type) {
	case *runtime.MatrixValue:
		return val.Mat.Rows(), val.Mat.Cols(), nil
	case *runtime.StringValue:
		if len(val.Value) == 0 {
			return 0, 0, nil
		}
		n := 0
		for range val.Value {
			n++
		}
		return 1, n, nil
	case *runtime.CellValue:
		return val.RowCount, val.ColCount, nil
	case *runtime.StructValue, *runtime.FuncHandleValue:
		return 1, 1, nil
	}
	return 0, 0, runtime.NewError("unsupported value kind %s", v.Type())
}
