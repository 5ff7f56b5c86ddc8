package builtins

import (
	"math"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

func registerLinalg(r *Registry) {
	r.register("det", CategoryLinalg, "Determinant", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("det", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("det", args, 0)
		if err != nil {
			return nil, err
		}
		d, derr := matrix.Det(m)
		if derr != nil {
			return nil, runtime.NewError("det: %v", derr)
		}
		return runtime.NewScalar(d), nil
	})

	r.register("inv", CategoryLinalg, "Matrix inverse", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("inv", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("inv", args, 0)
		if err != nil {
			return nil, err
		}
		out, ierr := matrix.Inv(m)
		if ierr != nil {
			return nil, runtime.NewError("inv: %v", ierr)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("trace", CategoryLinalg, "Sum of diagonal elements", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("trace", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("trace", args, 0)
		if err != nil {
			return nil, err
		}
		tr, terr := matrix.Trace(m)
		if terr != nil {
			return nil, runtime.NewError("trace: %v", terr)
		}
		return runtime.NewScalar(tr), nil
	})

	r.register("rank", CategoryLinalg, "Numerical rank", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("rank", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("rank", args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.NewScalar(float64(matrix.Rank(m))), nil
	})

	r.register("norm", CategoryLinalg, "Vector and matrix norms", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("norm", args, 1, 2); err != nil {
			return nil, err
		}
		m, err := matArg("norm", args, 0)
		if err != nil {
			return nil, err
		}
		if len(args) == 1 {
			return runtime.NewScalar(matrix.Norm2(m)), nil
		}
		if s, serr := runtime.ToString(args[1]); serr == nil {
			switch s {
			case "fro":
				return runtime.NewScalar(matrix.NormFro(m)), nil
			case "inf":
				return runtime.NewScalar(matrix.NormInf(m)), nil
			}
			return nil, runtime.NewError("norm: unknown norm '%s'", s)
		}
		p, err := scalarArg("norm", args, 1)
		if err != nil {
			return nil, err
		}
		switch {
		case math.IsInf(p, 1):
			return runtime.NewScalar(matrix.NormInf(m)), nil
		case p == 1:
			return runtime.NewScalar(matrix.Norm1(m)), nil
		case p == 2:
			return runtime.NewScalar(matrix.Norm2(m)), nil
		}
		if !m.IsVector() {
			return nil, runtime.NewError("norm: p-norms are defined for vectors only")
		}
		sum := 0.0
		for _, v := range m.Data {
			sum += math.Pow(math.Abs(v), p)
		}
		return runtime.NewScalar(math.Pow(sum, 1/p)), nil
	})

	r.register("dot", CategoryLinalg, "Dot product", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("dot", args, 2, 2); err != nil {
			return nil, err
		}
		a, err := matArg("dot", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := matArg("dot", args, 1)
		if err != nil {
			return nil, err
		}
		d, derr := matrix.Dot(a, b)
		if derr != nil {
			return nil, runtime.NewError("dot: %v", derr)
		}
		return runtime.NewScalar(d), nil
	})

	r.register("cross", CategoryLinalg, "Cross product", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("cross", args, 2, 2); err != nil {
			return nil, err
		}
		a, err := matArg("cross", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := matArg("cross", args, 1)
		if err != nil {
			return nil, err
		}
		out, cerr := matrix.Cross(a, b)
		if cerr != nil {
			return nil, runtime.NewError("cross: %v", cerr)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("eig", CategoryLinalg, "Eigenvalues and eigenvectors", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("eig", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("eig", args, 0)
		if err != nil {
			return nil, err
		}
		if nargout >= 2 {
			v, d, eerr := matrix.Eig(m)
			if eerr != nil {
				return nil, runtime.NewError("eig: %v", eerr)
			}
			return list(runtime.NewMatrix(v), runtime.NewMatrix(d)), nil
		}
		vals, eerr := matrix.EigValues(m)
		if eerr != nil {
			return nil, runtime.NewError("eig: %v", eerr)
		}
		return runtime.NewMatrix(vals), nil
	})

	r.register("svd", CategoryLinalg, "Singular value decomposition", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("svd", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("svd", args, 0)
		if err != nil {
			return nil, err
		}
		if nargout >= 2 {
			u, s, v, serr := matrix.SVD(m)
			if serr != nil {
				return nil, runtime.NewError("svd: %v", serr)
			}
			return list(runtime.NewMatrix(u), runtime.NewMatrix(s), runtime.NewMatrix(v)), nil
		}
		vals, serr := matrix.SVDValues(m)
		if serr != nil {
			return nil, runtime.NewError("svd: %v", serr)
		}
		return runtime.NewMatrix(vals), nil
	})

	r.register("lu", CategoryLinalg, "LU decomposition", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("lu", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("lu", args, 0)
		if err != nil {
			return nil, err
		}
		l, u, lerr := matrix.LU(m)
		if lerr != nil {
			return nil, runtime.NewError("lu: %v", lerr)
		}
		if nargout >= 2 {
			return list(runtime.NewMatrix(l), runtime.NewMatrix(u)), nil
		}
		cell := runtime.NewCell(1, 2)
		cell.Set(0, 0, runtime.NewMatrix(l))
		cell.Set(0, 1, runtime.NewMatrix(u))
		return cell, nil
	})

	r.register("qr", CategoryLinalg, "QR decomposition", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("qr", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("qr", args, 0)
		if err != nil {
			return nil, err
		}
		q, rr, qerr := matrix.QR(m)
		if qerr != nil {
			return nil, runtime.NewError("qr: %v", qerr)
		}
		if nargout >= 2 {
			return list(runtime.NewMatrix(q), runtime.NewMatrix(rr)), nil
		}
		cell := runtime.NewCell(1, 2)
		cell.Set(0, 0, runtime.NewMatrix(q))
		cell.Set(0, 1, runtime.NewMatrix(rr))
		return cell, nil
	})

	r.register("chol", CategoryLinalg, "Cholesky factorization", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("chol", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("chol", args, 0)
		if err != nil {
			return nil, err
		}
		out, cerr := matrix.Chol(m)
		if cerr != nil {
			return nil, runtime.NewError("%v", cerr)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("pinv", CategoryLinalg, "Moore-Penrose pseudoinverse", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("pinv", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("pinv", args, 0)
		if err != nil {
			return nil, err
		}
		out, perr := matrix.Pinv(m)
		if perr != nil {
			return nil, runtime.NewError("pinv: %v", perr)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("expm", CategoryLinalg, "Matrix exponential", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("expm", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("expm", args, 0)
		if err != nil {
			return nil, err
		}
		out, eerr := matrix.Expm(m)
		if eerr != nil {
			return nil, runtime.NewError("expm: %v", eerr)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("logm", CategoryLinalg, "Matrix logarithm", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("logm", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("logm", args, 0)
		if err != nil {
			return nil, err
		}
		out, lerr := matrix.Logm(m)
		if lerr != nil {
			return nil, runtime.NewError("logm: %v", lerr)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("sqrtm", CategoryLinalg, "Matrix square root", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("sqrtm", args, 1, 1); err != nil {
			return nil, err
		}
		m, err := matArg("sqrtm", args, 0)
		if err != nil {
			return nil, err
		}
		out, serr := matrix.Sqrtm(m)
		if serr != nil {
			return nil, runtime.NewError("sqrtm: %v", serr)
		}
		return runtime.NewMatrix(out), nil
	})

	r.register("linsolve", CategoryLinalg, "Solve a linear system", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("linsolve", args, 2, 2); err != nil {
			return nil, err
		}
		a, err := matArg("linsolve", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := matArg("linsolve", args, 1)
		if err != nil {
			return nil, err
		}
		x, serr := matrix.Solve(a, b)
		if serr != nil {
			return nil, runtime.NewError("linsolve: %v", serr)
		}
		return runtime.NewMatrix(x), nil
	})
}
