package symbolic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalAt(t *testing.T, e Expr, name string, x float64) float64 {
	t.Helper()
	v, err := Eval(e, map[string]float64{name: x})
	require.NoError(t, err)
	return v
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		at    float64
		want  float64
	}{
		{"x^2 + 1", 3, 10},
		{"2*x - 4", 5, 6},
		{"-x", 2, -2},
		{"sin(x)", 0, 0},
		{"exp(2*x)", 0, 1},
		{"(x + 1)*(x - 1)", 3, 8},
		{"1/x", 4, 0.25},
		{"x^2^3", 2, 256}, // right-associative power
		{"2^-1", 0, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			e, err := Parse(tc.input)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, evalAt(t, e, "x", tc.at), 1e-12)
		})
	}
}

func TestParseConstants(t *testing.T) {
	e, err := Parse("sin(pi)")
	require.NoError(t, err)
	v, err := Eval(e, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0, v, 1e-12)
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", "x +", "(x", "foo(x)", "2..5"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.Error(t, err)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	inputs := []string{
		"x^2 + 2*x + 1",
		"sin(x)*cos(x)",
		"1/(x + 1)",
		"-x^3",
		"exp(-x^2)",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			e := MustParse(input)
			back, err := Parse(e.String())
			require.NoError(t, err)
			// Structural equivalence modulo simplifier normalisation.
			assert.Equal(t, Simplify(e).String(), Simplify(back).String())
		})
	}
}

func TestSimplifyNeutralElements(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x + 0", "x"},
		{"x*1", "x"},
		{"x*0", "0"},
		{"x^1", "x"},
		{"x^0", "1"},
		{"0/x", "0"},
		{"x/1", "x"},
		{"--x", "x"},
		{"2 + 3", "5"},
		{"2*3*x", "6*x"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, Simplify(MustParse(tc.input)).String())
		})
	}
}

func TestSimplifyLikeTerms(t *testing.T) {
	got := Simplify(MustParse("2*x + 3*x"))
	assert.Equal(t, "5*x", got.String())

	got = Simplify(MustParse("x + x"))
	assert.Equal(t, "2*x", got.String())

	got = Simplify(MustParse("x - x"))
	assert.Equal(t, "0", got.String())
}

func TestSimplifyPowerLaws(t *testing.T) {
	got := Simplify(MustParse("x^2 * x^3"))
	assert.Equal(t, "x^5", got.String())

	got = Simplify(MustParse("(x^2)^3"))
	assert.Equal(t, "x^6", got.String())
}

func TestSimplifyIdempotent(t *testing.T) {
	inputs := []string{
		"x^2 + 2*x + 1",
		"sin(x) + sin(x)",
		"x*x*x",
		"(x + 1)/(x + 1)",
		"2*x + 3*x + 4",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			once := Simplify(MustParse(input))
			twice := Simplify(once)
			assert.Equal(t, once.String(), twice.String())
		})
	}
}

func TestDiffPolynomial(t *testing.T) {
	// d/dx of a degree-n polynomial is degree n-1 with matching
	// coefficients: d(3x^4 - 2x^2 + 7x - 5) = 12x^3 - 4x + 7.
	d, err := Diff(MustParse("3*x^4 - 2*x^2 + 7*x - 5"), "x")
	require.NoError(t, err)
	for _, x := range []float64{-2, -1, 0, 1, 2, 3} {
		want := 12*x*x*x - 4*x + 7
		assert.InDelta(t, want, evalAt(t, d, "x", x), 1e-9, "at x=%g", x)
	}
}

func TestDiffSquare(t *testing.T) {
	d, err := Diff(MustParse("x^2"), "x")
	require.NoError(t, err)
	assert.InDelta(t, 6, evalAt(t, d, "x", 3), 1e-12)
}

func TestDiffRules(t *testing.T) {
	tests := []struct {
		input string
		at    float64
		want  float64
	}{
		{"sin(x)", 0, 1},                   // cos(0)
		{"cos(x)", math.Pi / 2, -1},        // -sin(pi/2)
		{"exp(x)", 1, math.E},              // exp(1)
		{"ln(x)", 2, 0.5},                  // 1/2
		{"x*sin(x)", 0, 0},                 // product rule
		{"sin(x)/x", math.Pi, -1 / math.Pi},// quotient rule
		{"sin(2*x)", 0, 2},                 // chain rule
		{"sqrt(x)", 4, 0.25},               // 1/(2*sqrt(4))
		{"2^x", 0, math.Ln2},               // exponential rule
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			d, err := Diff(MustParse(tc.input), "x")
			require.NoError(t, err)
			assert.InDelta(t, tc.want, evalAt(t, d, "x", tc.at), 1e-9)
		})
	}
}

func TestIntegratePolynomial(t *testing.T) {
	// Integral of x^2 is x^3/3; check by differentiating back.
	anti, err := Integrate(MustParse("x^2"), "x")
	require.NoError(t, err)
	back, err := Diff(anti, "x")
	require.NoError(t, err)
	for _, x := range []float64{-1, 0.5, 2} {
		assert.InDelta(t, x*x, evalAt(t, back, "x", x), 1e-9)
	}
}

func TestIntegrateForms(t *testing.T) {
	tests := []struct {
		input string
	}{
		{"sin(x)"},
		{"cos(x)"},
		{"exp(x)"},
		{"1/x"},
		{"sin(2*x + 1)"},
		{"5*cos(x)"},
		{"x^3 + x"},
		{"exp(3*x)"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			e := MustParse(tc.input)
			anti, err := Integrate(e, "x")
			require.NoError(t, err)
			back, err := Diff(anti, "x")
			require.NoError(t, err)
			for _, x := range []float64{0.5, 1.5, 2.5} {
				assert.InDelta(t, evalAt(t, e, "x", x), evalAt(t, back, "x", x), 1e-8, "at x=%g", x)
			}
		})
	}
}

func TestIntegrateUnmatchedFails(t *testing.T) {
	_, err := Integrate(MustParse("sin(x^2)"), "x")
	assert.Error(t, err)

	_, err = Integrate(MustParse("sin(x)*cos(x)"), "x")
	assert.Error(t, err)
}

func TestSolveLinear(t *testing.T) {
	roots, err := Solve(MustParse("2*x - 6"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.InDelta(t, 3, roots[0], 1e-9)
}

func TestSolveQuadratic(t *testing.T) {
	roots, err := Solve(MustParse("x^2 - 5*x + 6"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.InDelta(t, 2, roots[0], 1e-8)
	assert.InDelta(t, 3, roots[1], 1e-8)
}

func TestSolveNewtonFallback(t *testing.T) {
	// x^3 = 8 needs the Newton grid.
	roots, err := Solve(MustParse("x^3 - 8"), "x")
	require.NoError(t, err)
	require.NotEmpty(t, roots)
	found := false
	for _, r := range roots {
		if math.Abs(r-2) < 1e-6 {
			found = true
		}
	}
	assert.True(t, found, "expected a root near 2, got %v", roots)
}

func TestTaylorExp(t *testing.T) {
	// exp(x) around 0 to order 5 approximates well near 0.
	p, err := Taylor(MustParse("exp(x)"), "x", 0, 5)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(0.5), evalAt(t, p, "x", 0.5), 1e-3)
	assert.InDelta(t, 1, evalAt(t, p, "x", 0), 1e-12)
}

func TestTaylorSin(t *testing.T) {
	// sin(x) ~ x - x^3/6 + x^5/120.
	p, err := Taylor(MustParse("sin(x)"), "x", 0, 5)
	require.NoError(t, err)
	assert.InDelta(t, 0.1-math.Pow(0.1, 3)/6+math.Pow(0.1, 5)/120, evalAt(t, p, "x", 0.1), 1e-12)
}

func TestSubs(t *testing.T) {
	e := MustParse("x^2 + y")
	got := Subs(e, "x", &Num{Value: 3})
	v, err := Eval(got, map[string]float64{"y": 1})
	require.NoError(t, err)
	assert.InDelta(t, 10, v, 1e-12)
}
