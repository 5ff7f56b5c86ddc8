package matrix

import (
	"fmt"
	"math"
)

// Map applies f to every element, returning a new matrix.
func (m *Matrix) Map(f func(float64) float64) *Matrix {
	out := &Matrix{RowCount: m.RowCount, ColCount: m.ColCount, Data: make([]float64, len(m.Data))}
	for i, v := range m.Data {
		out.Data[i] = f(v)
	}
	return out
}

// broadcastShape computes the result shape of an element-wise binary
// operation. Each axis must match or be 1 on one side.
func broadcastShape(a, b *Matrix) (rows, cols int, ok bool) {
	rows, ok1 := broadcastAxis(a.RowCount, b.RowCount)
	cols, ok2 := broadcastAxis(a.ColCount, b.ColCount)
	return rows, cols, ok1 && ok2
}

func broadcastAxis(x, y int) (int, bool) {
	switch {
	case x == y:
		return x, true
	case x == 1:
		return y, true
	case y == 1:
		return x, true
	}
	return 0, false
}

// Broadcast applies f element-wise with singleton-axis broadcasting.
func Broadcast(a, b *Matrix, f func(x, y float64) float64) (*Matrix, error) {
	if a.IsEmpty() || b.IsEmpty() {
		if a.IsEmpty() && b.IsEmpty() {
			return Empty(), nil
		}
		if a.IsScalar() || b.IsScalar() {
			return Empty(), nil
		}
		return nil, fmt.Errorf("%w: operand is empty", ErrDimensionMismatch)
	}
	rows, cols, ok := broadcastShape(a, b)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%d and %dx%d", ErrDimensionMismatch, a.RowCount, a.ColCount, b.RowCount, b.ColCount)
	}
	out := New(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x := a.At(i%a.RowCount, j%a.ColCount)
			y := b.At(i%b.RowCount, j%b.ColCount)
			out.Set(i, j, f(x, y))
		}
	}
	return out, nil
}

// Add computes a + b element-wise.
func Add(a, b *Matrix) (*Matrix, error) {
	return Broadcast(a, b, func(x, y float64) float64 { return x + y })
}

// Sub computes a - b element-wise.
func Sub(a, b *Matrix) (*Matrix, error) {
	return Broadcast(a, b, func(x, y float64) float64 { return x - y })
}

// ElemMul computes a .* b.
func ElemMul(a, b *Matrix) (*Matrix, error) {
	return Broadcast(a, b, func(x, y float64) float64 { return x * y })
}

// ElemDiv computes a ./ b. Division by zero follows IEEE-754.
func ElemDiv(a, b *Matrix) (*Matrix, error) {
	return Broadcast(a, b, func(x, y float64) float64 { return x / y })
}

// ElemLeftDiv computes a .\ b, element-wise b ./ a.
func ElemLeftDiv(a, b *Matrix) (*Matrix, error) {
	return Broadcast(a, b, func(x, y float64) float64 { return y / x })
}

// ElemPow computes a .^ b.
func ElemPow(a, b *Matrix) (*Matrix, error) {
	return Broadcast(a, b, math.Pow)
}

// Mod computes mod(a, b) with the sign of the divisor, matching the
// language-level mod.
func Mod(a, b *Matrix) (*Matrix, error) {
	return Broadcast(a, b, func(x, y float64) float64 {
		if y == 0 {
			return x
		}
		r := math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return r
	})
}

// Rem computes rem(a, b) with the sign of the dividend.
func Rem(a, b *Matrix) (*Matrix, error) {
	return Broadcast(a, b, func(x, y float64) float64 {
		if y == 0 {
			return math.NaN()
		}
		return math.Mod(x, y)
	})
}

func boolTo(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// Compare applies a comparison element-wise, producing a logical matrix
// of 0s and 1s.
func Compare(a, b *Matrix, op string) (*Matrix, error) {
	var f func(x, y float64) float64
	switch op {
	case "==":
		f = func(x, y float64) float64 { return boolTo(x == y) }
	case "~=":
		f = func(x, y float64) float64 { return boolTo(x != y) }
	case "<":
		f = func(x, y float64) float64 { return boolTo(x < y) }
	case ">":
		f = func(x, y float64) float64 { return boolTo(x > y) }
	case "<=":
		f = func(x, y float64) float64 { return boolTo(x <= y) }
	case ">=":
		f = func(x, y float64) float64 { return boolTo(x >= y) }
	default:
		return nil, fmt.Errorf("unknown comparison operator %q", op)
	}
	return Broadcast(a, b, f)
}

// LogicalAnd computes a & b element-wise.
func LogicalAnd(a, b *Matrix) (*Matrix, error) {
	return Broadcast(a, b, func(x, y float64) float64 { return boolTo(x != 0 && y != 0) })
}

// LogicalOr computes a | b element-wise.
func LogicalOr(a, b *Matrix) (*Matrix, error) {
	return Broadcast(a, b, func(x, y float64) float64 { return boolTo(x != 0 || y != 0) })
}

// LogicalNot computes ~a element-wise.
func LogicalNot(a *Matrix) *Matrix {
	return a.Map(func(x float64) float64 { return boolTo(x == 0) })
}

// Negate computes -a.
func Negate(a *Matrix) *Matrix {
	return a.Map(func(x float64) float64 { return -x })
}

// AllTrue reports whether the matrix is nonempty and every element is
// nonzero. This is the truthiness used by if and while conditions, where
// [] counts as false.
func (m *Matrix) AllTrue() bool {
	for _, v := range m.Data {
		if v == 0 {
			return false
		}
	}
	return !m.IsEmpty()
}
