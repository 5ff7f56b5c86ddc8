package matrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFromRows(t *testing.T, rows [][]float64) *Matrix {
	t.Helper()
	m, err := FromRows(rows)
	require.NoError(t, err)
	return m
}

func assertMatrixNear(t *testing.T, expected [][]float64, got *Matrix, tol float64) {
	t.Helper()
	require.Equal(t, len(expected), got.RowCount, "row count")
	require.Equal(t, len(expected[0]), got.ColCount, "col count")
	for i := range expected {
		for j := range expected[i] {
			assert.InDelta(t, expected[i][j], got.At(i, j), tol, "element (%d,%d)", i+1, j+1)
		}
	}
}

func TestShapePredicates(t *testing.T) {
	assert.True(t, Empty().IsEmpty())
	assert.True(t, Scalar(5).IsScalar())
	assert.True(t, RowVector([]float64{1, 2, 3}).IsVector())
	assert.True(t, ColVector([]float64{1, 2}).IsVector())
	assert.False(t, Eye(2).IsVector())
}

func TestLinearIndexingIsColumnMajor(t *testing.T) {
	m := mustFromRows(t, [][]float64{{1, 2}, {3, 4}})
	// Column-major order: 1, 3, 2, 4.
	assert.Equal(t, 1.0, m.LinearGet(0))
	assert.Equal(t, 3.0, m.LinearGet(1))
	assert.Equal(t, 2.0, m.LinearGet(2))
	assert.Equal(t, 4.0, m.LinearGet(3))
}

func TestTransposeRoundTrip(t *testing.T) {
	m := mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	tt := m.Transpose()
	require.Equal(t, 3, tt.RowCount)
	require.Equal(t, 2, tt.ColCount)
	assertMatrixNear(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, tt.Transpose(), 0)
}

func TestReshapeRoundTrip(t *testing.T) {
	m := mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	flat, err := m.Reshape(6, 1)
	require.NoError(t, err)
	back, err := flat.Reshape(2, 3)
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, back, 0)
}

func TestBroadcasting(t *testing.T) {
	a := mustFromRows(t, [][]float64{{1, 2}, {3, 4}})
	scalar := Scalar(10)
	sum, err := Add(a, scalar)
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{11, 12}, {13, 14}}, sum, 0)

	row := RowVector([]float64{10, 20})
	sum, err = Add(a, row)
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{11, 22}, {13, 24}}, sum, 0)

	col := ColVector([]float64{10, 20})
	sum, err = Add(a, col)
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{11, 12}, {23, 24}}, sum, 0)

	_, err = Add(a, RowVector([]float64{1, 2, 3}))
	assert.Error(t, err)
}

func TestElementwisePreservesShape(t *testing.T) {
	a := mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	b := mustFromRows(t, [][]float64{{1, 1, 1}, {2, 2, 2}})
	got, err := ElemMul(a, b)
	require.NoError(t, err)
	assert.Equal(t, a.RowCount, got.RowCount)
	assert.Equal(t, a.ColCount, got.ColCount)
}

func TestDivisionByZeroIsIEEE(t *testing.T) {
	got, err := ElemDiv(Scalar(1), Scalar(0))
	require.NoError(t, err)
	assert.True(t, math.IsInf(got.ScalarValue(), 1))

	got, err = ElemDiv(Scalar(0), Scalar(0))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got.ScalarValue()))
}

func TestMatMul(t *testing.T) {
	a := mustFromRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustFromRows(t, [][]float64{{5, 6}, {7, 8}})
	got, err := MatMul(a, b)
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{19, 22}, {43, 50}}, got, 1e-12)

	_, err = MatMul(a, RowVector([]float64{1, 2, 3}))
	assert.Error(t, err)
}

func TestMatMulTransposeIdentity(t *testing.T) {
	a := mustFromRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustFromRows(t, [][]float64{{2, 0}, {1, 2}})

	ab, err := MatMul(a, b)
	require.NoError(t, err)
	left := ab.Transpose()

	right, err := MatMul(b.Transpose(), a.Transpose())
	require.NoError(t, err)

	for i := range left.Data {
		assert.InDelta(t, right.Data[i], left.Data[i], 1e-10)
	}
}

func TestDet(t *testing.T) {
	m := mustFromRows(t, [][]float64{{1, 2}, {3, 4}})
	det, err := Det(m)
	require.NoError(t, err)
	assert.InDelta(t, -2, det, 1e-12)

	// 4x4 exercises the elimination path.
	m4 := mustFromRows(t, [][]float64{
		{2, 0, 0, 0},
		{0, 3, 0, 0},
		{1, 0, 4, 0},
		{0, 0, 0, 5},
	})
	det, err = Det(m4)
	require.NoError(t, err)
	assert.InDelta(t, 120, det, 1e-9)

	singular := mustFromRows(t, [][]float64{{1, 2}, {2, 4}})
	det, err = Det(singular)
	require.NoError(t, err)
	assert.InDelta(t, 0, det, 1e-12)
}

func TestDetProduct(t *testing.T) {
	a := mustFromRows(t, [][]float64{{1, 2, 0}, {3, 4, 1}, {0, 1, 2}})
	b := mustFromRows(t, [][]float64{{2, 1, 0}, {0, 1, 0}, {1, 0, 3}})
	ab, err := MatMul(a, b)
	require.NoError(t, err)

	da, _ := Det(a)
	db, _ := Det(b)
	dab, _ := Det(ab)
	assert.InDelta(t, da*db, dab, 1e-10*math.Abs(da*db))
}

func TestInv(t *testing.T) {
	m := mustFromRows(t, [][]float64{{1, 2}, {3, 4}})
	inv, err := Inv(m)
	require.NoError(t, err)
	prod, err := MatMul(m, inv)
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{1, 0}, {0, 1}}, prod, 1e-10)

	m3 := mustFromRows(t, [][]float64{{2, 0, 1}, {1, 3, 0}, {0, 1, 4}})
	inv3, err := Inv(m3)
	require.NoError(t, err)
	prod3, err := MatMul(m3, inv3)
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, prod3, 1e-10)

	_, err = Inv(mustFromRows(t, [][]float64{{1, 2}, {2, 4}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "singular")
}

func TestRank(t *testing.T) {
	assert.Equal(t, 2, Rank(mustFromRows(t, [][]float64{{1, 2}, {3, 4}})))
	assert.Equal(t, 1, Rank(mustFromRows(t, [][]float64{{1, 2}, {2, 4}})))
	assert.Equal(t, 0, Rank(New(3, 3)))
	assert.Equal(t, 0, Rank(Empty()))
}

func TestSolve(t *testing.T) {
	a := mustFromRows(t, [][]float64{{2, 1}, {1, 3}})
	b := ColVector([]float64{5, 10})
	x, err := Solve(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1, x.Data[0], 1e-10)
	assert.InDelta(t, 3, x.Data[1], 1e-10)
}

func TestLU(t *testing.T) {
	m := mustFromRows(t, [][]float64{{4, 3}, {6, 3}})
	l, u, err := LU(m)
	require.NoError(t, err)
	prod, err := MatMul(l, u)
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{4, 3}, {6, 3}}, prod, 1e-10)
	// L has a unit diagonal.
	assert.InDelta(t, 1, l.At(0, 0), 1e-12)
	assert.InDelta(t, 1, l.At(1, 1), 1e-12)
	assert.InDelta(t, 0, l.At(0, 1), 1e-12)
}

func TestQR(t *testing.T) {
	m := mustFromRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	q, r, err := QR(m)
	require.NoError(t, err)

	prod, err := MatMul(q, r)
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, prod, 1e-10)

	// Q has orthonormal columns.
	qtq, err := MatMul(q.Transpose(), q)
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{1, 0}, {0, 1}}, qtq, 1e-10)
}

func TestChol(t *testing.T) {
	m := mustFromRows(t, [][]float64{{4, 2}, {2, 3}})
	r, err := Chol(m)
	require.NoError(t, err)
	prod, err := MatMul(r.Transpose(), r)
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{4, 2}, {2, 3}}, prod, 1e-10)

	_, err = Chol(mustFromRows(t, [][]float64{{1, 2}, {2, 1}}))
	assert.Error(t, err)
}

func TestEigValues(t *testing.T) {
	m := mustFromRows(t, [][]float64{{2, 1}, {1, 2}})
	vals, err := EigValues(m)
	require.NoError(t, err)
	require.Equal(t, 2, vals.Numel())
	assert.InDelta(t, 1, vals.Data[0], 1e-8)
	assert.InDelta(t, 3, vals.Data[1], 1e-8)
}

func TestEigVectors(t *testing.T) {
	m := mustFromRows(t, [][]float64{{2, 1}, {1, 2}})
	v, d, err := Eig(m)
	require.NoError(t, err)

	// A*v = lambda*v for each eigenpair.
	for k := 0; k < 2; k++ {
		av, err := MatMul(m, v.Col(k))
		require.NoError(t, err)
		for i := 0; i < 2; i++ {
			assert.InDelta(t, d.At(k, k)*v.At(i, k), av.Data[i], 1e-6)
		}
	}
}

func TestSVD(t *testing.T) {
	m := mustFromRows(t, [][]float64{{3, 0}, {0, 2}})
	u, s, v, err := SVD(m)
	require.NoError(t, err)
	assert.InDelta(t, 3, s.At(0, 0), 1e-8)
	assert.InDelta(t, 2, s.At(1, 1), 1e-8)

	us, err := MatMul(u, s)
	require.NoError(t, err)
	usv, err := MatMul(us, v.Transpose())
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{3, 0}, {0, 2}}, usv, 1e-8)
}

func TestExpm(t *testing.T) {
	// expm of a diagonal matrix exponentiates the diagonal.
	m := mustFromRows(t, [][]float64{{1, 0}, {0, 2}})
	e, err := Expm(m)
	require.NoError(t, err)
	assert.InDelta(t, math.E, e.At(0, 0), 1e-9)
	assert.InDelta(t, math.E*math.E, e.At(1, 1), 1e-9)
	assert.InDelta(t, 0, e.At(0, 1), 1e-9)

	// expm(0) is the identity.
	z, err := Expm(New(2, 2))
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{1, 0}, {0, 1}}, z, 1e-12)
}

func TestSqrtm(t *testing.T) {
	m := mustFromRows(t, [][]float64{{4, 0}, {0, 9}})
	r, err := Sqrtm(m)
	require.NoError(t, err)
	prod, err := MatMul(r, r)
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{4, 0}, {0, 9}}, prod, 1e-8)
}

func TestLogm(t *testing.T) {
	m := mustFromRows(t, [][]float64{{math.E, 0}, {0, 1}})
	lg, err := Logm(m)
	require.NoError(t, err)
	assert.InDelta(t, 1, lg.At(0, 0), 1e-6)
	assert.InDelta(t, 0, lg.At(1, 1), 1e-6)
}

func TestReductions(t *testing.T) {
	m := mustFromRows(t, [][]float64{{1, 2}, {3, 4}})

	colSums := Sum(m, 1)
	assertMatrixNear(t, [][]float64{{4, 6}}, colSums, 0)

	rowSums := Sum(m, 2)
	assertMatrixNear(t, [][]float64{{3}, {7}}, rowSums, 0)

	means := Mean(m, 1)
	assertMatrixNear(t, [][]float64{{2, 3}}, means, 0)
}

func TestMinMaxWithIndex(t *testing.T) {
	v := RowVector([]float64{3, 1, 2})
	vals, idx := MinMax(v, 2, false)
	assert.Equal(t, 1.0, vals.ScalarValue())
	assert.Equal(t, 2.0, idx.ScalarValue())

	vals, idx = MinMax(v, 2, true)
	assert.Equal(t, 3.0, vals.ScalarValue())
	assert.Equal(t, 1.0, idx.ScalarValue())
}

func TestSort(t *testing.T) {
	v := RowVector([]float64{3, 1, 2})
	sorted, idx := Sort(v, 2, false)
	assertMatrixNear(t, [][]float64{{1, 2, 3}}, sorted, 0)
	assertMatrixNear(t, [][]float64{{2, 3, 1}}, idx, 0)
}

func TestFind(t *testing.T) {
	m := mustFromRows(t, [][]float64{{1, 0}, {0, 2}})
	// Column-major: elements 1 and 4 are nonzero.
	idx := Find(m)
	require.Equal(t, 2, idx.Numel())
	assert.Equal(t, 1.0, idx.Data[0])
	assert.Equal(t, 4.0, idx.Data[1])
}

func TestConcat(t *testing.T) {
	a := mustFromRows(t, [][]float64{{1}, {2}})
	b := mustFromRows(t, [][]float64{{3}, {4}})

	h, err := HorzCat(a, b)
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{1, 3}, {2, 4}}, h, 0)

	v, err := VertCat(a.Transpose(), b.Transpose())
	require.NoError(t, err)
	assertMatrixNear(t, [][]float64{{1, 2}, {3, 4}}, v, 0)

	_, err = HorzCat(a, RowVector([]float64{1, 2}))
	assert.Error(t, err)
}

func TestEmptyMatrixBoundaries(t *testing.T) {
	e := Empty()
	assert.Equal(t, 0, e.Numel())
	assert.Equal(t, 0, e.Rows())
	assert.Equal(t, 0, e.Cols())
	assert.False(t, e.AllTrue())
}

func TestDiag(t *testing.T) {
	d := Diag(RowVector([]float64{1, 2, 3}))
	require.Equal(t, 3, d.RowCount)
	assert.Equal(t, 2.0, d.At(1, 1))

	back := Diag(d)
	require.Equal(t, 3, back.Numel())
	assert.Equal(t, 3.0, back.Data[2])
}

func TestDiff(t *testing.T) {
	d := Diff(RowVector([]float64{1, 4, 9, 16}))
	assertMatrixNear(t, [][]float64{{3, 5, 7}}, d, 0)
}
