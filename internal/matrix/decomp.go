package matrix

import (
	"fmt"
	"math"
	"sort"
)

// LU computes the Doolittle LU decomposition without pivoting.
// Returns L with unit diagonal and U upper triangular such that A = L*U.
func LU(m *Matrix) (l, u *Matrix, err error) {
	if !m.IsSquare() {
		return nil, nil, fmt.Errorf("%w: LU requires a square matrix", ErrDimensionMismatch)
	}
	n := m.RowCount
	l = Eye(n)
	u = New(n, n)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sum := 0.0
			for k := 0; k < i; k++ {
				sum += l.At(i, k) * u.At(k, j)
			}
			u.Set(i, j, m.At(i, j)-sum)
		}
		for j := i + 1; j < n; j++ {
			sum := 0.0
			for k := 0; k < i; k++ {
				sum += l.At(j, k) * u.At(k, i)
			}
			if math.Abs(u.At(i, i)) < pivotTol {
				return nil, nil, fmt.Errorf("LU decomposition failed: zero pivot at %d", i+1)
			}
			l.Set(j, i, (m.At(j, i)-sum)/u.At(i, i))
		}
	}
	return l, u, nil
}

// QR computes the thin QR decomposition by modified Gram-Schmidt.
func QR(m *Matrix) (q, r *Matrix, err error) {
	if m.IsEmpty() {
		return Empty(), Empty(), nil
	}
	rows, cols := m.RowCount, m.ColCount
	q = New(rows, cols)
	r = New(cols, cols)

	// Work on columns of a copy; each step orthogonalizes the remaining
	// columns against the freshly normalized one.
	v := m.Clone()
	for j := 0; j < cols; j++ {
		norm := 0.0
		for i := 0; i < rows; i++ {
			norm += v.At(i, j) * v.At(i, j)
		}
		norm = math.Sqrt(norm)
		r.Set(j, j, norm)
		if norm < pivotTol {
			continue
		}
		for i := 0; i < rows; i++ {
			q.Set(i, j, v.At(i, j)/norm)
		}
		for k := j + 1; k < cols; k++ {
			dot := 0.0
			for i := 0; i < rows; i++ {
				dot += q.At(i, j) * v.At(i, k)
			}
			r.Set(j, k, dot)
			for i := 0; i < rows; i++ {
				v.Set(i, k, v.At(i, k)-dot*q.At(i, j))
			}
		}
	}
	return q, r, nil
}

// Chol computes the Cholesky factor R such that A = R'*R, assuming A is
// symmetric positive definite.
func Chol(m *Matrix) (*Matrix, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("%w: chol requires a square matrix", ErrDimensionMismatch)
	}
	n := m.RowCount
	r := New(n, n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sum := m.At(i, j)
			for k := 0; k < i; k++ {
				sum -= r.At(k, i) * r.At(k, j)
			}
			if i == j {
				if sum <= 0 {
					return nil, fmt.Errorf("chol: matrix must be positive definite")
				}
				r.Set(i, i, math.Sqrt(sum))
			} else {
				r.Set(i, j, sum/r.At(i, i))
			}
		}
	}
	return r, nil
}

const eigMaxIter = 200

// EigValues computes the eigenvalues of a square matrix by unshifted QR
// iteration, returned as a column vector sorted ascending. The iteration
// cap suffices for well-conditioned small matrices.
func EigValues(m *Matrix) (*Matrix, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("%w: eig requires a square matrix", ErrDimensionMismatch)
	}
	n := m.RowCount
	a := m.Clone()
	for iter := 0; iter < eigMaxIter; iter++ {
		q, r, err := QR(a)
		if err != nil {
			return nil, err
		}
		a, err = MatMul(r, q)
		if err != nil {
			return nil, err
		}
		if offDiagNorm(a) < 1e-12 {
			break
		}
	}
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = a.At(i, i)
	}
	sort.Float64s(vals)
	return ColVector(vals), nil
}

func offDiagNorm(m *Matrix) float64 {
	sum := 0.0
	for i := 0; i < m.RowCount; i++ {
		for j := 0; j < i; j++ {
			sum += m.At(i, j) * m.At(i, j)
		}
	}
	return math.Sqrt(sum)
}

// Eig computes the full eigendecomposition {V, D}: columns of V are
// eigenvectors obtained by inverse iteration and D carries the
// eigenvalues on its diagonal.
func Eig(m *Matrix) (v, d *Matrix, err error) {
	vals, err := EigValues(m)
	if err != nil {
		return nil, nil, err
	}
	n := m.RowCount
	v = New(n, n)
	d = New(n, n)
	for k := 0; k < n; k++ {
		lambda := vals.Data[k]
		d.Set(k, k, lambda)
		vec, err := inverseIteration(m, lambda)
		if err != nil {
			return nil, nil, err
		}
		for i := 0; i < n; i++ {
			v.Set(i, k, vec.Data[i])
		}
	}
	return v, d, nil
}

// inverseIteration refines an eigenvector for the given eigenvalue by
// solving shifted systems from a deterministic start vector.
func inverseIteration(m *Matrix, lambda float64) (*Matrix, error) {
	n := m.RowCount
	shift := lambda + 1e-8
	shifted := m.Clone()
	for i := 0; i < n; i++ {
		shifted.Set(i, i, shifted.At(i, i)-shift)
	}

	vec := New(n, 1)
	for i := range vec.Data {
		vec.Data[i] = 1 / float64(i+1)
	}
	for iter := 0; iter < 20; iter++ {
		next, err := Solve(shifted, vec)
		if err != nil {
			// The shifted matrix can be numerically singular exactly at
			// convergence; the current vector is the answer then.
			break
		}
		norm := NormFro(next)
		if norm == 0 {
			break
		}
		for i := range next.Data {
			next.Data[i] /= norm
		}
		vec = next
	}
	// Fix the sign so the largest-magnitude component is positive.
	maxIdx := 0
	for i, val := range vec.Data {
		if math.Abs(val) > math.Abs(vec.Data[maxIdx]) {
			maxIdx = i
		}
	}
	if vec.Data[maxIdx] < 0 {
		for i := range vec.Data {
			vec.Data[i] = -vec.Data[i]
		}
	}
	return vec, nil
}

// SVDValues computes the singular values as a column vector sorted
// descending, through the eigenvalues of A'*A.
func SVDValues(m *Matrix) (*Matrix, error) {
	ata, err := MatMul(m.Transpose(), m)
	if err != nil {
		return nil, err
	}
	vals, err := EigValues(ata)
	if err != nil {
		return nil, err
	}
	svals := make([]float64, vals.Numel())
	for i := 0; i < vals.Numel(); i++ {
		v := vals.Data[vals.Numel()-1-i]
		if v < 0 {
			v = 0
		}
		svals[i] = math.Sqrt(v)
	}
	return ColVector(svals), nil
}

// SVD computes A = U*S*V' through the eigendecomposition of A'*A.
// For matrices with more columns than rows the decomposition of the
// transpose is used and the factors are swapped.
func SVD(m *Matrix) (u, s, v *Matrix, err error) {
	if m.RowCount < m.ColCount {
		ut, st, vt, err := SVD(m.Transpose())
		if err != nil {
			return nil, nil, nil, err
		}
		return vt, st.Transpose(), ut, nil
	}

	ata, err := MatMul(m.Transpose(), m)
	if err != nil {
		return nil, nil, nil, err
	}
	vecs, d, err := Eig(ata)
	if err != nil {
		return nil, nil, nil, err
	}

	n := m.ColCount
	// Order by singular value descending.
	type pair struct {
		sigma float64
		col   int
	}
	pairs := make([]pair, n)
	for i := 0; i < n; i++ {
		ev := d.At(i, i)
		if ev < 0 {
			ev = 0
		}
		pairs[i] = pair{sigma: math.Sqrt(ev), col: i}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].sigma > pairs[j].sigma })

	v = New(n, n)
	s = New(n, n)
	u = New(m.RowCount, n)
	for k, p := range pairs {
		for i := 0; i < n; i++ {
			v.Set(i, k, vecs.At(i, p.col))
		}
		s.Set(k, k, p.sigma)
	}

	av, err := MatMul(m, v)
	if err != nil {
		return nil, nil, nil, err
	}
	for k := 0; k < n; k++ {
		sigma := s.At(k, k)
		if sigma > pivotTol {
			for i := 0; i < m.RowCount; i++ {
				u.Set(i, k, av.At(i, k)/sigma)
			}
		}
	}
	return u, s, v, nil
}
