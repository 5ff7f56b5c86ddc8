package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/lexer"
	"github.com/cwbudde/go-mlab/internal/parser"
	"github.com/cwbudde/go-mlab/internal/plot"
)

func run(t *testing.T, source string) Value {
	t.Helper()
	e := New()
	v, err := e.Execute(source)
	require.NoError(t, err, "source: %s", source)
	return v
}

func runScalar(t *testing.T, source string) float64 {
	t.Helper()
	v := run(t, source)
	require.NotNil(t, v, "source: %s", source)
	s, err := runtime.ToScalar(v)
	require.NoError(t, err, "source: %s", source)
	return s
}

func runMatrix(t *testing.T, source string) []float64 {
	t.Helper()
	v := run(t, source)
	require.NotNil(t, v)
	m, err := runtime.ToMatrix(v)
	require.NoError(t, err)
	return m.ToVector()
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		source string
		want   float64
	}{
		{"1 + 2", 3},
		{"2 * 3 + 4", 10},
		{"2 ^ 10", 1024},
		{"10 / 4", 2.5},
		{"4 \\ 10", 2.5},
		{"-2^2", -4},
		{"2^-1", 0.5},
		{"mod(10, 3)", 1},
		{"1 < 2", 1},
		{"1 == 2", 0},
		{"~0", 1},
		{"true + true", 2},
	}

	for _, tc := range tests {
		t.Run(tc.source, func(t *testing.T) {
			assert.InDelta(t, tc.want, runScalar(t, tc.source), 1e-12)
		})
	}
}

func TestVariablesAndAns(t *testing.T) {
	assert.InDelta(t, 12, runScalar(t, "x = 3; y = 4; x * y"), 1e-12)
	// ans holds the last unassigned result.
	assert.InDelta(t, 8, runScalar(t, "2 + 2; ans * 2"), 1e-12)
}

func TestMatrixBasics(t *testing.T) {
	got := runMatrix(t, "[1 2; 3 4] * [5 6; 7 8]")
	// Column-major flattening of [19 22; 43 50].
	assert.Equal(t, []float64{19, 43, 22, 50}, got)

	got = runMatrix(t, "[1 2; 3 4]'")
	assert.Equal(t, []float64{1, 2, 3, 4}, got)

	assert.InDelta(t, 10, runScalar(t, "sum([1 2 3 4])"), 1e-12)
}

func TestDetScenario(t *testing.T) {
	assert.InDelta(t, -2, runScalar(t, "det([1 2; 3 4])"), 1e-10)
}

func TestInvScenario(t *testing.T) {
	got := runMatrix(t, "inv([1 2; 3 4]) * [1 2; 3 4]")
	want := []float64{1, 0, 0, 1}
	require.Len(t, got, 4)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-10)
	}
}

func TestEigScenario(t *testing.T) {
	got := runMatrix(t, "sort(eig([2 1; 1 2]))")
	require.Len(t, got, 2)
	assert.InDelta(t, 1, got[0], 1e-8)
	assert.InDelta(t, 3, got[1], 1e-8)
}

func TestIntegralScenario(t *testing.T) {
	assert.InDelta(t, 2, runScalar(t, "integral(@(x) sin(x), 0, pi)"), 1e-6)
}

func TestFzeroScenario(t *testing.T) {
	assert.InDelta(t, math.Sqrt2, runScalar(t, "fzero(@(x) x.^2 - 2, 1)"), 1e-8)
}

func TestSymdiffScenario(t *testing.T) {
	assert.InDelta(t, 6, runScalar(t, "symeval(symdiff('x^2', 'x'), 'x', 3)"), 1e-10)
}

func TestSymsolveScenario(t *testing.T) {
	got := runMatrix(t, "symsolve('x^2 - 5*x + 6', 'x')")
	require.Len(t, got, 2)
	assert.InDelta(t, 2, got[0], 1e-8)
	assert.InDelta(t, 3, got[1], 1e-8)
}

func TestEndIndexingScenario(t *testing.T) {
	assert.InDelta(t, 5, runScalar(t, "x = 1:5; x(end)"), 1e-12)
	assert.InDelta(t, 4, runScalar(t, "x = 1:5; x(end-1)"), 1e-12)
}

func TestRowColIndexingScenario(t *testing.T) {
	got := runMatrix(t, "A = [1 2; 3 4]; A(2, :)")
	assert.Equal(t, []float64{3, 4}, got)

	got = runMatrix(t, "A = [1 2; 3 4]; A(:, 1)")
	assert.Equal(t, []float64{1, 3}, got)
}

func TestODE45Scenario(t *testing.T) {
	final := runScalar(t, "[t, y] = ode45(@(t, y) -y, [0 1], [1]); y(end)")
	assert.InDelta(t, 1/math.E, final, 0.03)
}

func TestFminsearch(t *testing.T) {
	// Minimum of (x-3)^2 + 1.
	assert.InDelta(t, 3, runScalar(t, "fminsearch(@(x) (x-3)^2 + 1, 0)"), 1e-4)
}

func TestControlFlow(t *testing.T) {
	source := `
s = 0;
for i = 1:10
  if mod(i, 2) == 0
    continue
  end
  s = s + i;
end
s`
	assert.InDelta(t, 25, runScalar(t, source), 1e-12)

	source = `
n = 0;
while true
  n = n + 1;
  if n >= 7
    break
  end
end
n`
	assert.InDelta(t, 7, runScalar(t, source), 1e-12)
}

func TestForOverMatrixColumns(t *testing.T) {
	// The loop variable is the full column for a matrix range.
	source := `
total = 0;
for col = [1 2; 3 4]
  total = total + sum(col);
end
total`
	assert.InDelta(t, 10, runScalar(t, source), 1e-12)
}

func TestSwitch(t *testing.T) {
	source := `
x = 2;
switch x
case 1
  y = 'one';
case {2, 3}
  y = 'few';
otherwise
  y = 'many';
end
y`
	v := run(t, source)
	s, err := runtime.ToString(v)
	require.NoError(t, err)
	assert.Equal(t, "few", s)
}

func TestTryCatch(t *testing.T) {
	source := `
try
  error('myid:sub', 'boom %d', 42)
catch err
  msg = err.message;
  id = err.identifier;
end
msg`
	v := run(t, source)
	s, _ := runtime.ToString(v)
	assert.Equal(t, "boom 42", s)
}

func TestTryCatchPassesFlowSignals(t *testing.T) {
	// break inside try must reach the loop, not the catch.
	source := `
hits = 0;
for i = 1:10
  try
    if i == 3
      break
    end
  catch
    hits = hits + 100;
  end
  hits = hits + 1;
end
hits`
	assert.InDelta(t, 2, runScalar(t, source), 1e-12)
}

func TestUserFunctions(t *testing.T) {
	source := `
function y = sq(x)
  y = x^2;
end
sq(7)`
	assert.InDelta(t, 49, runScalar(t, source), 1e-12)
}

func TestUserFunctionMultiReturn(t *testing.T) {
	source := `
function [s, p] = sumprod(a, b)
  s = a + b;
  p = a * b;
end
[s, p] = sumprod(3, 4);
s + p`
	assert.InDelta(t, 19, runScalar(t, source), 1e-12)
}

func TestNarginNargout(t *testing.T) {
	source := `
function n = count(a, b, c)
  n = nargin;
end
count(1, 2)`
	assert.InDelta(t, 2, runScalar(t, source), 1e-12)
}

func TestRecursion(t *testing.T) {
	source := `
function y = fact(n)
  if n <= 1
    y = 1;
  else
    y = n * fact(n - 1);
  end
end
fact(6)`
	assert.InDelta(t, 720, runScalar(t, source), 1e-12)
}

func TestGlobalVariables(t *testing.T) {
	source := `
global counter
counter = 0;
function bump()
  global counter
  counter = counter + 1;
end
bump();
bump();
counter`
	assert.InDelta(t, 2, runScalar(t, source), 1e-12)
}

func TestAnonymousFunctionCapture(t *testing.T) {
	source := `
a = 10;
f = @(x) x + a;
a = 99;
f(1)`
	// The capture snapshots the environment by reference at creation;
	// the base workspace is that environment, so the later write is
	// visible.
	assert.InDelta(t, 100, runScalar(t, source), 1e-12)
}

func TestFunctionHandleByName(t *testing.T) {
	assert.InDelta(t, 1, runScalar(t, "h = @sin; h(pi/2)"), 1e-12)
	assert.InDelta(t, 2, runScalar(t, "feval('max', 1, 2)"), 1e-12)
}

func TestArrayfun(t *testing.T) {
	got := runMatrix(t, "arrayfun(@(x) x^2, [1 2 3])")
	assert.Equal(t, []float64{1, 4, 9}, got)
}

func TestCellArrays(t *testing.T) {
	v := run(t, "c = {1, 'two'; [3 4], 5}; c{1, 2}")
	s, err := runtime.ToString(v)
	require.NoError(t, err)
	assert.Equal(t, "two", s)

	assert.InDelta(t, 4, runScalar(t, "c = {1, [3 4]}; x = c{2}; x(2)"), 1e-12)
}

func TestStructs(t *testing.T) {
	assert.InDelta(t, 5, runScalar(t, "s.a = 2; s.b = 3; s.a + s.b"), 1e-12)

	v := run(t, "s = struct('name', 'go', 'size', 42); s.name")
	str, _ := runtime.ToString(v)
	assert.Equal(t, "go", str)
}

func TestStringCharRoundTrip(t *testing.T) {
	v := run(t, "char(double('Hello'))")
	s, err := runtime.ToString(v)
	require.NoError(t, err)
	assert.Equal(t, "Hello", s)
}

func TestStringCharArithmetic(t *testing.T) {
	// '+' with a number performs char-code arithmetic.
	got := runMatrix(t, "'abc' + 1")
	assert.Equal(t, []float64{98, 99, 100}, got)
}

func TestGrowingAssignment(t *testing.T) {
	got := runMatrix(t, "x = [1 2]; x(5) = 9; x")
	assert.Equal(t, []float64{1, 2, 0, 0, 9}, got)

	got = runMatrix(t, "A = [1]; A(2, 3) = 7; A(:)")
	assert.Equal(t, []float64{1, 0, 0, 0, 0, 7}, got)
}

func TestLogicalIndexing(t *testing.T) {
	got := runMatrix(t, "x = [5 1 7 2]; x(x > 3)")
	assert.Equal(t, []float64{5, 7}, got)

	got = runMatrix(t, "x = [5 1 7 2]; x(x > 3) = 0; x")
	assert.Equal(t, []float64{0, 1, 0, 2}, got)
}

func TestEmptyMatrixBoundaries(t *testing.T) {
	got := runMatrix(t, "size([])")
	assert.Equal(t, []float64{0, 0}, got)
	assert.InDelta(t, 0, runScalar(t, "length([])"), 1e-12)
	assert.InDelta(t, 1, runScalar(t, "isempty([])"), 1e-12)
}

func TestDivisionByZero(t *testing.T) {
	assert.True(t, math.IsInf(runScalar(t, "1/0"), 1))
	assert.True(t, math.IsNaN(runScalar(t, "0/0")))
}

func TestComplexCollapsesToNaN(t *testing.T) {
	assert.True(t, math.IsNaN(runScalar(t, "3i")))
	assert.True(t, math.IsNaN(runScalar(t, "i")))
	// i remains assignable as a plain variable.
	assert.InDelta(t, 5, runScalar(t, "i = 5; i"), 1e-12)
}

func TestFFTRoundTrip(t *testing.T) {
	got := runMatrix(t, "fft(ifft([1 2 3 4]))")
	want := []float64{1, 2, 3, 4}
	require.Len(t, got, 4)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-10)
	}
}

func TestReshapeRoundTrip(t *testing.T) {
	got := runMatrix(t, "A = [1 2 3; 4 5 6]; reshape(reshape(A, 6, 1), 2, 3) - A")
	for _, v := range got {
		assert.Zero(t, v)
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	got := runMatrix(t, "A = [1 2; 3 4]; transpose(transpose(A)) - A")
	for _, v := range got {
		assert.Zero(t, v)
	}
}

func TestOutputCallback(t *testing.T) {
	e := New()
	var out strings.Builder
	e.SetOutputCallback(func(text string) { out.WriteString(text) })

	_, err := e.Execute("disp('hello'); fprintf('%d-%d\\n', 3, 4)")
	require.NoError(t, err)
	assert.Equal(t, "hello\n3-4\n", out.String())
}

func TestResultEcho(t *testing.T) {
	e := New()
	var out strings.Builder
	e.SetOutputCallback(func(text string) { out.WriteString(text) })

	_, err := e.Execute("x = 5")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "x = 5")

	out.Reset()
	_, err = e.Execute("y = 6;")
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestPlotCallback(t *testing.T) {
	e := New()
	var figures []*plot.Figure
	e.SetPlotCallback(func(fig *plot.Figure) { figures = append(figures, fig) })

	_, err := e.Execute("plot([1 2 3], [4 5 6]); title('demo');")
	require.NoError(t, err)
	require.NotEmpty(t, figures)
	last := figures[len(figures)-1]
	assert.Equal(t, "demo", last.Title)
	require.Len(t, last.Series, 1)
	assert.Equal(t, []float64{4, 5, 6}, last.Series[0].Y)
}

func TestHoldAppends(t *testing.T) {
	e := New()
	var last *plot.Figure
	e.SetPlotCallback(func(fig *plot.Figure) { last = fig })

	_, err := e.Execute("plot([1 2]); hold('on'); plot([3 4]);")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Len(t, last.Series, 2)
}

func TestAudioEmission(t *testing.T) {
	e := New()
	var out strings.Builder
	e.SetOutputCallback(func(text string) { out.WriteString(text) })

	_, err := e.Execute("t = 0:0.01:0.1; sound(sin(2*pi*440*t), 8192);")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "__audio:data:audio/wav;base64,"))
}

func TestPlot3DEmission(t *testing.T) {
	e := New()
	var out strings.Builder
	e.SetOutputCallback(func(text string) { out.WriteString(text) })

	_, err := e.Execute("[X, Y] = meshgrid(1:3, 1:3); surf(X, Y, X + Y);")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "__plot3d:"))
	assert.Contains(t, out.String(), "\"type\":\"surf\"")
}

func TestSymPrefix(t *testing.T) {
	v := run(t, "symsimplify('x + 0')")
	s, err := runtime.ToString(v)
	require.NoError(t, err)
	assert.Equal(t, "__sym:x", s)
}

func TestErrorKinds(t *testing.T) {
	e := New()

	_, err := e.Execute("x = 'unterminated")
	var lexErr *lexer.LexerError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 1, lexErr.Pos.Line)

	_, err = e.Execute("if x > 0\ny = 1;")
	var parseErr *parser.ParseError
	require.ErrorAs(t, err, &parseErr)

	_, err = e.Execute("undefined_thing_42")
	var rtErr *runtime.RuntimeError
	require.ErrorAs(t, err, &rtErr)
	assert.Contains(t, rtErr.Message, "undefined_thing_42")
}

func TestDimensionMismatchError(t *testing.T) {
	e := New()
	_, err := e.Execute("[1 2 3] + [1 2]")
	var rtErr *runtime.RuntimeError
	require.ErrorAs(t, err, &rtErr)
}

func TestStatePersistsAcrossExecutes(t *testing.T) {
	e := New()
	_, err := e.Execute("x = 21;")
	require.NoError(t, err)
	v, err := e.Execute("x * 2")
	require.NoError(t, err)
	s, _ := runtime.ToScalar(v)
	assert.InDelta(t, 42, s, 1e-12)
}

func TestClear(t *testing.T) {
	e := New()
	_, err := e.Execute("x = 1;")
	require.NoError(t, err)
	e.Clear()
	_, err = e.Execute("x")
	assert.Error(t, err)
}

func TestCurrentEnvInspection(t *testing.T) {
	e := New()
	_, err := e.Execute("alpha = 1; beta = 2;")
	require.NoError(t, err)
	names := e.CurrentEnv().Names()
	assert.Contains(t, names, "alpha")
	assert.Contains(t, names, "beta")
}

func TestPersistentVariables(t *testing.T) {
	source := `
function n = counter()
  persistent count
  if isempty(count)
    count = 0;
  end
  count = count + 1;
  n = count;
end
counter();
counter();
counter()`
	assert.InDelta(t, 3, runScalar(t, source), 1e-12)
}

func TestMatrixTransposeIdentity(t *testing.T) {
	// (A*B)' equals B'*A'.
	got := runMatrix(t, "A = [1 2; 3 4]; B = [5 6; 7 8]; (A*B)' - B'*A'")
	for _, v := range got {
		assert.InDelta(t, 0, v, 1e-10)
	}
}

func TestPolyfitPolyval(t *testing.T) {
	// Fitting a parabola through exact samples reproduces them.
	assert.InDelta(t, 9, runScalar(t, "p = polyfit([0 1 2 3], [0 1 4 9], 2); polyval(p, 3)"), 1e-6)
}

func TestInterp1(t *testing.T) {
	assert.InDelta(t, 2.5, runScalar(t, "interp1([1 2 3], [2 4 6], 1.25)"), 1e-10)
}
