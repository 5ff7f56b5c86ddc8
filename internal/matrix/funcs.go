package matrix

import (
	"fmt"
	"math"
)

// Expm computes the matrix exponential by scaling-and-squaring with a
// degree-6 Pade approximant.
func Expm(m *Matrix) (*Matrix, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("%w: expm requires a square matrix", ErrDimensionMismatch)
	}
	n := m.RowCount

	// Scale A down until its norm is comfortable for the approximant.
	norm := NormInf(m)
	squarings := 0
	a := m.Clone()
	if norm > 0.5 {
		squarings = int(math.Ceil(math.Log2(norm / 0.5)))
		scale := math.Pow(2, float64(-squarings))
		a = a.Map(func(x float64) float64 { return x * scale })
	}

	// Degree-6 Pade approximant: p(A) / q(A) with q(A) = p(-A).
	coeffs := []float64{1, 1.0 / 2, 5.0 / 44, 1.0 / 66, 1.0 / 792, 1.0 / 15840, 1.0 / 665280}
	p := Eye(n)
	q := Eye(n)
	power := Eye(n)
	sign := 1.0
	for k := 1; k < len(coeffs); k++ {
		var err error
		power, err = MatMul(power, a)
		if err != nil {
			return nil, err
		}
		sign = -sign
		for i := range p.Data {
			p.Data[i] += coeffs[k] * power.Data[i]
			q.Data[i] += coeffs[k] * sign * power.Data[i]
		}
	}

	r, err := Solve(q, p)
	if err != nil {
		return nil, fmt.Errorf("expm failed: %v", err)
	}

	for s := 0; s < squarings; s++ {
		r, err = MatMul(r, r)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Sqrtm computes the principal matrix square root by Denman-Beavers
// iteration.
func Sqrtm(m *Matrix) (*Matrix, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("%w: sqrtm requires a square matrix", ErrDimensionMismatch)
	}
	y := m.Clone()
	z := Eye(m.RowCount)

	for iter := 0; iter < 50; iter++ {
		yInv, err := Inv(y)
		if err != nil {
			return nil, fmt.Errorf("sqrtm failed: %v", err)
		}
		zInv, err := Inv(z)
		if err != nil {
			return nil, fmt.Errorf("sqrtm failed: %v", err)
		}
		yNext := New(y.RowCount, y.ColCount)
		zNext := New(y.RowCount, y.ColCount)
		for i := range yNext.Data {
			yNext.Data[i] = 0.5 * (y.Data[i] + zInv.Data[i])
			zNext.Data[i] = 0.5 * (z.Data[i] + yInv.Data[i])
		}

		diff := 0.0
		for i := range yNext.Data {
			diff += math.Abs(yNext.Data[i] - y.Data[i])
		}
		y, z = yNext, zNext
		if diff < 1e-14 {
			break
		}
	}
	return y, nil
}

// Logm computes the matrix logarithm by inverse scaling-and-squaring:
// repeated square roots bring A close to the identity, a truncated series
// evaluates log(I+X), and the result is scaled back up.
func Logm(m *Matrix) (*Matrix, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("%w: logm requires a square matrix", ErrDimensionMismatch)
	}
	n := m.RowCount
	a := m.Clone()

	roots := 0
	for roots < 40 {
		// Measure distance from the identity.
		dist := 0.0
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				d := a.At(i, j)
				if i == j {
					d -= 1
				}
				dist += d * d
			}
		}
		if math.Sqrt(dist) < 0.25 {
			break
		}
		var err error
		a, err = Sqrtm(a)
		if err != nil {
			return nil, err
		}
		roots++
	}

	// X = A - I; log(I+X) by alternating series.
	x := a.Clone()
	for i := 0; i < n; i++ {
		x.Set(i, i, x.At(i, i)-1)
	}
	result := New(n, n)
	term := Eye(n)
	for k := 1; k <= 30; k++ {
		var err error
		term, err = MatMul(term, x)
		if err != nil {
			return nil, err
		}
		coeff := 1.0 / float64(k)
		if k%2 == 0 {
			coeff = -coeff
		}
		for i := range result.Data {
			result.Data[i] += coeff * term.Data[i]
		}
	}

	scale := math.Pow(2, float64(roots))
	return result.Map(func(v float64) float64 { return v * scale }), nil
}
