package matrix

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingular is returned when a pivot falls below the singularity
// threshold during inversion or solving.
var ErrSingular = errors.New("Matrix is singular")

const pivotTol = 1e-15

// MatMul computes the matrix product a*b with the naive triple loop.
func MatMul(a, b *Matrix) (*Matrix, error) {
	if a.ColCount != b.RowCount {
		return nil, fmt.Errorf("%w: inner dimensions %dx%d and %dx%d", ErrDimensionMismatch, a.RowCount, a.ColCount, b.RowCount, b.ColCount)
	}
	out := New(a.RowCount, b.ColCount)
	for i := 0; i < a.RowCount; i++ {
		for k := 0; k < a.ColCount; k++ {
			aik := a.At(i, k)
			if aik == 0 {
				continue
			}
			for j := 0; j < b.ColCount; j++ {
				out.Data[i*out.ColCount+j] += aik * b.At(k, j)
			}
		}
	}
	return out, nil
}

// Det computes the determinant. Sizes up to 3x3 are special-cased; the
// general case uses Gaussian elimination with partial pivoting. A pivot
// magnitude below 1e-15 yields 0.
func Det(m *Matrix) (float64, error) {
	if !m.IsSquare() {
		return 0, fmt.Errorf("%w: determinant requires a square matrix", ErrDimensionMismatch)
	}
	n := m.RowCount
	switch n {
	case 1:
		return m.Data[0], nil
	case 2:
		return m.At(0, 0)*m.At(1, 1) - m.At(0, 1)*m.At(1, 0), nil
	case 3:
		return m.At(0, 0)*(m.At(1, 1)*m.At(2, 2)-m.At(1, 2)*m.At(2, 1)) -
			m.At(0, 1)*(m.At(1, 0)*m.At(2, 2)-m.At(1, 2)*m.At(2, 0)) +
			m.At(0, 2)*(m.At(1, 0)*m.At(2, 1)-m.At(1, 1)*m.At(2, 0)), nil
	}

	a := m.Clone()
	det := 1.0
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a.At(row, col)) > math.Abs(a.At(pivot, col)) {
				pivot = row
			}
		}
		if math.Abs(a.At(pivot, col)) < pivotTol {
			return 0, nil
		}
		if pivot != col {
			a.swapRows(pivot, col)
			det = -det
		}
		det *= a.At(col, col)
		for row := col + 1; row < n; row++ {
			factor := a.At(row, col) / a.At(col, col)
			for j := col; j < n; j++ {
				a.Set(row, j, a.At(row, j)-factor*a.At(col, j))
			}
		}
	}
	return det, nil
}

func (m *Matrix) swapRows(i, j int) {
	for k := 0; k < m.ColCount; k++ {
		m.Data[i*m.ColCount+k], m.Data[j*m.ColCount+k] = m.Data[j*m.ColCount+k], m.Data[i*m.ColCount+k]
	}
}

// Inv computes the inverse. 1x1 and 2x2 are closed-form; the general case
// runs Gauss-Jordan with partial pivoting on the augmented [A|I].
func Inv(m *Matrix) (*Matrix, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("%w: inverse requires a square matrix", ErrDimensionMismatch)
	}
	n := m.RowCount
	switch n {
	case 1:
		if math.Abs(m.Data[0]) < pivotTol {
			return nil, ErrSingular
		}
		return Scalar(1 / m.Data[0]), nil
	case 2:
		det := m.At(0, 0)*m.At(1, 1) - m.At(0, 1)*m.At(1, 0)
		if math.Abs(det) < pivotTol {
			return nil, ErrSingular
		}
		out := New(2, 2)
		out.Set(0, 0, m.At(1, 1)/det)
		out.Set(0, 1, -m.At(0, 1)/det)
		out.Set(1, 0, -m.At(1, 0)/det)
		out.Set(1, 1, m.At(0, 0)/det)
		return out, nil
	}

	// Augmented [A|I].
	aug := New(n, 2*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			aug.Set(i, j, m.At(i, j))
		}
		aug.Set(i, n+i, 1)
	}

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(aug.At(row, col)) > math.Abs(aug.At(pivot, col)) {
				pivot = row
			}
		}
		if math.Abs(aug.At(pivot, col)) < pivotTol {
			return nil, ErrSingular
		}
		if pivot != col {
			aug.swapRows(pivot, col)
		}
		pv := aug.At(col, col)
		for j := 0; j < 2*n; j++ {
			aug.Set(col, j, aug.At(col, j)/pv)
		}
		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := aug.At(row, col)
			if factor == 0 {
				continue
			}
			for j := 0; j < 2*n; j++ {
				aug.Set(row, j, aug.At(row, j)-factor*aug.At(col, j))
			}
		}
	}

	out := New(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, aug.At(i, n+j))
		}
	}
	return out, nil
}

// Rank computes the numerical rank by row reduction with tolerance
// max(rows, cols) * eps * norm(A, inf).
func Rank(m *Matrix) int {
	if m.IsEmpty() {
		return 0
	}
	a := m.Clone()
	rows, cols := a.RowCount, a.ColCount
	maxDim := rows
	if cols > maxDim {
		maxDim = cols
	}
	tol := float64(maxDim) * 2.220446049250313e-16 * NormInf(m)
	if tol == 0 {
		return 0
	}

	rank := 0
	pivotRow := 0
	for col := 0; col < cols && pivotRow < rows; col++ {
		pivot := pivotRow
		for row := pivotRow + 1; row < rows; row++ {
			if math.Abs(a.At(row, col)) > math.Abs(a.At(pivot, col)) {
				pivot = row
			}
		}
		if math.Abs(a.At(pivot, col)) <= tol {
			continue
		}
		if pivot != pivotRow {
			a.swapRows(pivot, pivotRow)
		}
		for row := pivotRow + 1; row < rows; row++ {
			factor := a.At(row, col) / a.At(pivotRow, col)
			for j := col; j < cols; j++ {
				a.Set(row, j, a.At(row, j)-factor*a.At(pivotRow, j))
			}
		}
		pivotRow++
		rank++
	}
	return rank
}

// Trace computes the sum of diagonal elements.
func Trace(m *Matrix) (float64, error) {
	if !m.IsSquare() {
		return 0, fmt.Errorf("%w: trace requires a square matrix", ErrDimensionMismatch)
	}
	sum := 0.0
	for i := 0; i < m.RowCount; i++ {
		sum += m.At(i, i)
	}
	return sum, nil
}

// NormFro computes the Frobenius norm; for vectors this is the Euclidean
// norm.
func NormFro(m *Matrix) float64 {
	sum := 0.0
	for _, v := range m.Data {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Norm1 computes the maximum absolute column sum; for vectors the sum of
// absolute values.
func Norm1(m *Matrix) float64 {
	if m.IsVector() {
		sum := 0.0
		for _, v := range m.Data {
			sum += math.Abs(v)
		}
		return sum
	}
	best := 0.0
	for j := 0; j < m.ColCount; j++ {
		sum := 0.0
		for i := 0; i < m.RowCount; i++ {
			sum += math.Abs(m.At(i, j))
		}
		if sum > best {
			best = sum
		}
	}
	return best
}

// NormInf computes the maximum absolute row sum; for vectors the maximum
// absolute value.
func NormInf(m *Matrix) float64 {
	if m.IsVector() {
		best := 0.0
		for _, v := range m.Data {
			if a := math.Abs(v); a > best {
				best = a
			}
		}
		return best
	}
	best := 0.0
	for i := 0; i < m.RowCount; i++ {
		sum := 0.0
		for j := 0; j < m.ColCount; j++ {
			sum += math.Abs(m.At(i, j))
		}
		if sum > best {
			best = sum
		}
	}
	return best
}

// Norm2 computes the spectral norm for matrices (largest singular value)
// and the Euclidean norm for vectors.
func Norm2(m *Matrix) float64 {
	if m.IsVector() || m.IsScalar() {
		return NormFro(m)
	}
	s, err := SVDValues(m)
	if err != nil || s.IsEmpty() {
		return NormFro(m)
	}
	best := 0.0
	for _, v := range s.Data {
		if v > best {
			best = v
		}
	}
	return best
}

// Dot computes the dot product of two vectors of equal length.
func Dot(a, b *Matrix) (float64, error) {
	if !a.IsVector() || !b.IsVector() || a.Numel() != b.Numel() {
		return 0, fmt.Errorf("%w: dot requires vectors of equal length", ErrDimensionMismatch)
	}
	sum := 0.0
	for i := 0; i < a.Numel(); i++ {
		sum += a.LinearGet(i) * b.LinearGet(i)
	}
	return sum, nil
}

// Cross computes the cross product of two 3-element vectors. The result
// shape follows the first operand.
func Cross(a, b *Matrix) (*Matrix, error) {
	if !a.IsVector() || !b.IsVector() || a.Numel() != 3 || b.Numel() != 3 {
		return nil, fmt.Errorf("%w: cross requires 3-element vectors", ErrDimensionMismatch)
	}
	x := []float64{
		a.LinearGet(1)*b.LinearGet(2) - a.LinearGet(2)*b.LinearGet(1),
		a.LinearGet(2)*b.LinearGet(0) - a.LinearGet(0)*b.LinearGet(2),
		a.LinearGet(0)*b.LinearGet(1) - a.LinearGet(1)*b.LinearGet(0),
	}
	if a.IsRowVector() {
		return RowVector(x), nil
	}
	return ColVector(x), nil
}

// Solve solves A*x = b by Gaussian elimination with partial pivoting.
// b may carry multiple right-hand-side columns.
func Solve(a, b *Matrix) (*Matrix, error) {
	if !a.IsSquare() || a.RowCount != b.RowCount {
		return nil, fmt.Errorf("%w: solve requires square A with matching b", ErrDimensionMismatch)
	}
	n := a.RowCount
	aug := New(n, n+b.ColCount)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			aug.Set(i, j, a.At(i, j))
		}
		for j := 0; j < b.ColCount; j++ {
			aug.Set(i, n+j, b.At(i, j))
		}
	}

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(aug.At(row, col)) > math.Abs(aug.At(pivot, col)) {
				pivot = row
			}
		}
		if math.Abs(aug.At(pivot, col)) < pivotTol {
			return nil, ErrSingular
		}
		if pivot != col {
			aug.swapRows(pivot, col)
		}
		for row := col + 1; row < n; row++ {
			factor := aug.At(row, col) / aug.At(col, col)
			for j := col; j < aug.ColCount; j++ {
				aug.Set(row, j, aug.At(row, j)-factor*aug.At(col, j))
			}
		}
	}

	x := New(n, b.ColCount)
	for j := 0; j < b.ColCount; j++ {
		for i := n - 1; i >= 0; i-- {
			sum := aug.At(i, n+j)
			for k := i + 1; k < n; k++ {
				sum -= aug.At(i, k) * x.At(k, j)
			}
			x.Set(i, j, sum/aug.At(i, i))
		}
	}
	return x, nil
}

// Pinv computes the Moore-Penrose pseudoinverse through the SVD.
func Pinv(m *Matrix) (*Matrix, error) {
	u, s, v, err := SVD(m)
	if err != nil {
		return nil, err
	}
	tol := float64(maxInt(m.RowCount, m.ColCount)) * 2.220446049250313e-16 * NormInf(s)
	sInv := New(s.ColCount, s.RowCount)
	for i := 0; i < minInt(s.RowCount, s.ColCount); i++ {
		if s.At(i, i) > tol {
			sInv.Set(i, i, 1/s.At(i, i))
		}
	}
	vs, err := MatMul(v, sInv)
	if err != nil {
		return nil, err
	}
	return MatMul(vs, u.Transpose())
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
