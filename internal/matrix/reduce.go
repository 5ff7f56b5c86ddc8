package matrix

import (
	"math"
	"sort"
)

// DefaultDim returns the dimension a reduction works along when none is
// given: the length of a vector, otherwise down the columns.
func DefaultDim(m *Matrix) int {
	if m.IsRowVector() {
		return 2
	}
	return 1
}

// slices yields the runs a dimension-wise reduction works over. For
// dim 1 each slice is a column; for dim 2 each slice is a row.
func slices(m *Matrix, dim int) [][]float64 {
	if dim == 2 {
		out := make([][]float64, m.RowCount)
		for i := 0; i < m.RowCount; i++ {
			row := make([]float64, m.ColCount)
			for j := 0; j < m.ColCount; j++ {
				row[j] = m.At(i, j)
			}
			out[i] = row
		}
		return out
	}
	out := make([][]float64, m.ColCount)
	for j := 0; j < m.ColCount; j++ {
		col := make([]float64, m.RowCount)
		for i := 0; i < m.RowCount; i++ {
			col[i] = m.At(i, j)
		}
		out[j] = col
	}
	return out
}

// fromSlices reassembles the result of a slice-wise map back into a
// matrix of the original shape.
func fromSlices(parts [][]float64, dim int) *Matrix {
	if len(parts) == 0 {
		return Empty()
	}
	if dim == 2 {
		rows := len(parts)
		cols := len(parts[0])
		out := New(rows, cols)
		for i, row := range parts {
			copy(out.Data[i*cols:], row)
		}
		return out
	}
	rows := len(parts[0])
	cols := len(parts)
	out := New(rows, cols)
	for j, col := range parts {
		for i, v := range col {
			out.Set(i, j, v)
		}
	}
	return out
}

// Reduce applies f along the given dimension (1 = down columns,
// 2 = across rows), producing a row or column vector respectively.
func Reduce(m *Matrix, dim int, f func([]float64) float64) *Matrix {
	if m.IsEmpty() {
		return Empty()
	}
	parts := slices(m, dim)
	vals := make([]float64, len(parts))
	for i, p := range parts {
		vals[i] = f(p)
	}
	if dim == 2 {
		return ColVector(vals)
	}
	return RowVector(vals)
}

func sumSlice(s []float64) float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}

// Sum sums along dim.
func Sum(m *Matrix, dim int) *Matrix {
	return Reduce(m, dim, sumSlice)
}

// Prod multiplies along dim.
func Prod(m *Matrix, dim int) *Matrix {
	return Reduce(m, dim, func(s []float64) float64 {
		total := 1.0
		for _, v := range s {
			total *= v
		}
		return total
	})
}

// Mean averages along dim.
func Mean(m *Matrix, dim int) *Matrix {
	return Reduce(m, dim, func(s []float64) float64 {
		return sumSlice(s) / float64(len(s))
	})
}

// Var computes the sample variance (N-1 normalization) along dim.
func Var(m *Matrix, dim int) *Matrix {
	return Reduce(m, dim, varSlice)
}

func varSlice(s []float64) float64 {
	if len(s) < 2 {
		return 0
	}
	mu := sumSlice(s) / float64(len(s))
	total := 0.0
	for _, v := range s {
		total += (v - mu) * (v - mu)
	}
	return total / float64(len(s)-1)
}

// Std computes the sample standard deviation along dim.
func Std(m *Matrix, dim int) *Matrix {
	return Reduce(m, dim, func(s []float64) float64 {
		return math.Sqrt(varSlice(s))
	})
}

// Median computes the median along dim.
func Median(m *Matrix, dim int) *Matrix {
	return Reduce(m, dim, func(s []float64) float64 {
		c := make([]float64, len(s))
		copy(c, s)
		sort.Float64s(c)
		n := len(c)
		if n%2 == 1 {
			return c[n/2]
		}
		return (c[n/2-1] + c[n/2]) / 2
	})
}

// MinMax computes the extremum along dim with its 1-based index. NaN
// elements are skipped unless every element is NaN.
func MinMax(m *Matrix, dim int, wantMax bool) (vals, idx *Matrix) {
	if m.IsEmpty() {
		return Empty(), Empty()
	}
	parts := slices(m, dim)
	vs := make([]float64, len(parts))
	is := make([]float64, len(parts))
	for k, p := range parts {
		best := math.NaN()
		bestIdx := 1
		for i, v := range p {
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(best) || (wantMax && v > best) || (!wantMax && v < best) {
				best = v
				bestIdx = i + 1
			}
		}
		vs[k] = best
		is[k] = float64(bestIdx)
	}
	if dim == 2 {
		return ColVector(vs), ColVector(is)
	}
	return RowVector(vs), RowVector(is)
}

// CumSum computes the running sum along dim.
func CumSum(m *Matrix, dim int) *Matrix {
	return scan(m, dim, func(acc, v float64) float64 { return acc + v }, 0)
}

// CumProd computes the running product along dim.
func CumProd(m *Matrix, dim int) *Matrix {
	return scan(m, dim, func(acc, v float64) float64 { return acc * v }, 1)
}

func scan(m *Matrix, dim int, f func(acc, v float64) float64, init float64) *Matrix {
	if m.IsEmpty() {
		return Empty()
	}
	parts := slices(m, dim)
	for _, p := range parts {
		acc := init
		for i, v := range p {
			acc = f(acc, v)
			p[i] = acc
		}
	}
	return fromSlices(parts, dim)
}

// Sort sorts along dim, ascending or descending, returning the sorted
// matrix and the 1-based source indices.
func Sort(m *Matrix, dim int, descending bool) (sorted, idx *Matrix) {
	if m.IsEmpty() {
		return Empty(), Empty()
	}
	parts := slices(m, dim)
	idxParts := make([][]float64, len(parts))
	for k, p := range parts {
		order := make([]int, len(p))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			if descending {
				return p[order[a]] > p[order[b]]
			}
			return p[order[a]] < p[order[b]]
		})
		sortedVals := make([]float64, len(p))
		indices := make([]float64, len(p))
		for i, o := range order {
			sortedVals[i] = p[o]
			indices[i] = float64(o + 1)
		}
		parts[k] = sortedVals
		idxParts[k] = indices
	}
	return fromSlices(parts, dim), fromSlices(idxParts, dim)
}

// Find returns the 1-based column-major linear indices of nonzero
// elements. The result is a column vector, except for row-vector input
// where it is a row vector.
func Find(m *Matrix) *Matrix {
	var idx []float64
	for i := 0; i < m.Numel(); i++ {
		if m.LinearGet(i) != 0 {
			idx = append(idx, float64(i+1))
		}
	}
	if m.IsRowVector() {
		return RowVector(idx)
	}
	return ColVector(idx)
}

// Any reports along dim whether any element is nonzero.
func Any(m *Matrix, dim int) *Matrix {
	return Reduce(m, dim, func(s []float64) float64 {
		for _, v := range s {
			if v != 0 {
				return 1
			}
		}
		return 0
	})
}

// All reports along dim whether every element is nonzero.
func All(m *Matrix, dim int) *Matrix {
	return Reduce(m, dim, func(s []float64) float64 {
		for _, v := range s {
			if v == 0 {
				return 0
			}
		}
		return 1
	})
}

// Diff computes first differences along the default dimension.
func Diff(m *Matrix) *Matrix {
	if m.IsEmpty() || m.Numel() == 1 {
		return Empty()
	}
	dim := DefaultDim(m)
	parts := slices(m, dim)
	out := make([][]float64, len(parts))
	for k, p := range parts {
		d := make([]float64, len(p)-1)
		for i := 1; i < len(p); i++ {
			d[i-1] = p[i] - p[i-1]
		}
		out[k] = d
	}
	return fromSlices(out, dim)
}
