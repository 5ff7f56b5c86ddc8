package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/lexer"
	"github.com/cwbudde/go-mlab/internal/parser"
)

func eval(t *testing.T, source string) (runtime.Value, *Interpreter) {
	t.Helper()
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	require.Empty(t, p.Errors(), "parse errors for %q", source)
	i := New()
	v, err := i.Run(program)
	require.NoError(t, err, "source: %s", source)
	return v, i
}

func evalScalar(t *testing.T, source string) float64 {
	t.Helper()
	v, _ := eval(t, source)
	require.NotNil(t, v)
	s, err := runtime.ToScalar(v)
	require.NoError(t, err)
	return s
}

func evalErr(t *testing.T, source string) error {
	t.Helper()
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())
	_, err := New().Run(program)
	require.Error(t, err, "expected error for %q", source)
	return err
}

func TestIdentifierResolutionOrder(t *testing.T) {
	// A variable shadows the builtin of the same name.
	assert.InDelta(t, 7, evalScalar(t, "sin = 7; sin"), 1e-12)

	// A user function shadows a builtin.
	source := `
function y = max(a)
  y = 123;
end
max(1)`
	assert.InDelta(t, 123, evalScalar(t, source), 1e-12)
}

func TestZeroArgBuiltinAutocall(t *testing.T) {
	assert.InDelta(t, 3.141592653589793, evalScalar(t, "pi"), 1e-15)
}

func TestCallVersusIndex(t *testing.T) {
	// The same syntax indexes when the name is bound to data.
	assert.InDelta(t, 30, evalScalar(t, "x = [10 20 30]; x(3)"), 1e-12)
	// sum is a call because sum is not a variable.
	assert.InDelta(t, 60, evalScalar(t, "x = [10 20 30]; sum(x)"), 1e-12)
}

func TestEndThroughArithmetic(t *testing.T) {
	assert.InDelta(t, 4, evalScalar(t, "x = 1:5; x(end-1)"), 1e-12)
	assert.InDelta(t, 3, evalScalar(t, "x = 1:5; x(end-2*1)"), 1e-12)
}

func TestEndInnermostAxis(t *testing.T) {
	// end in nested indexing refers to the innermost indexed value.
	assert.InDelta(t, 3, evalScalar(t, "x = 1:5; y = [1 3]; x(y(end))"), 1e-12)
	// end per dimension in a 2-D index.
	assert.InDelta(t, 4, evalScalar(t, "A = [1 2; 3 4]; A(end, end)"), 1e-12)
}

func TestEndOutsideIndexingFails(t *testing.T) {
	err := evalErr(t, "x = end")
	assert.Contains(t, err.Error(), "end")
}

func TestBareColonOutsideIndexingFails(t *testing.T) {
	evalErr(t, "sum(1, :)")
}

func TestRangeSemantics(t *testing.T) {
	v, _ := eval(t, "0:0.25:1")
	m, err := runtime.ToMatrix(v)
	require.NoError(t, err)
	assert.Equal(t, 5, m.Numel())

	v, _ = eval(t, "5:1")
	m, _ = runtime.ToMatrix(v)
	assert.True(t, m.IsEmpty())

	v, _ = eval(t, "5:-1:3")
	m, _ = runtime.ToMatrix(v)
	assert.Equal(t, []float64{5, 4, 3}, m.ToVector())
}

func TestMatrixLiteralBlocks(t *testing.T) {
	// Horizontal concatenation of parenthesised sub-matrices.
	v, _ := eval(t, "a = [1 2]; b = [3 4]; [(a) (b)]")
	m, err := runtime.ToMatrix(v)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Numel())

	v, _ = eval(t, "[[1 2; 3 4] [5; 6]]")
	m, _ = runtime.ToMatrix(v)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
}

func TestStringConcatInBrackets(t *testing.T) {
	v, _ := eval(t, "['ab' 'cd']")
	s, err := runtime.ToString(v)
	require.NoError(t, err)
	assert.Equal(t, "abcd", s)
}

func TestShortCircuitSkipsRight(t *testing.T) {
	// The right operand would error; short-circuit must skip it.
	assert.InDelta(t, 0, evalScalar(t, "false && undefined_name"), 1e-12)
	assert.InDelta(t, 1, evalScalar(t, "true || undefined_name"), 1e-12)
}

func TestMultiReturnBuiltins(t *testing.T) {
	assert.InDelta(t, 2, evalScalar(t, "[m, i] = max([3 9 1]); i"), 1e-12)
	assert.InDelta(t, 9, evalScalar(t, "[m, i] = max([3 9 1]); m"), 1e-12)

	assert.InDelta(t, 2, evalScalar(t, "[r, c] = size(ones(2, 5)); r"), 1e-12)
	assert.InDelta(t, 5, evalScalar(t, "[r, c] = size(ones(2, 5)); c"), 1e-12)
}

func TestDiscardSlot(t *testing.T) {
	assert.InDelta(t, 2, evalScalar(t, "[~, i] = max([3 9 1]); i"), 1e-12)
}

func TestQRMultiReturn(t *testing.T) {
	// [Q, R] = qr(A) reconstructs A.
	source := "A = [1 2; 3 4; 5 6]; [Q, R] = qr(A); norm(Q*R - A)"
	assert.InDelta(t, 0, evalScalar(t, source), 1e-9)
}

func TestLUCellWhenSingleOutput(t *testing.T) {
	v, _ := eval(t, "f = lu([4 3; 6 3]); class(f)")
	s, _ := runtime.ToString(v)
	assert.Equal(t, "cell", s)
}

func TestNestedAssignment(t *testing.T) {
	assert.InDelta(t, 9, evalScalar(t, "s.a = [1 2 3]; s.a(2) = 8; s.a(2) + 1"), 1e-12)
	assert.InDelta(t, 5, evalScalar(t, "c = {1, 2}; c{2} = 5; c{2}"), 1e-12)
	assert.InDelta(t, 3, evalScalar(t, "s.inner.deep = 3; s.inner.deep"), 1e-12)
}

func TestCellBraceExpansionInArgs(t *testing.T) {
	// c{:} spreads into the argument list.
	assert.InDelta(t, 6, evalScalar(t, "c = {1, 2, 3}; plus3(c{:})"+`
function y = plus3(a, b, c)
  y = a + b + c;
end`), 1e-12)
}

func TestSwitchNoFallthrough(t *testing.T) {
	source := `
hits = 0;
switch 1
case 1
  hits = hits + 1;
case 1
  hits = hits + 10;
end
hits`
	assert.InDelta(t, 1, evalScalar(t, source), 1e-12)
}

func TestWhosListsVariables(t *testing.T) {
	p := parser.New(lexer.New("xyz = ones(2, 3);\nwhos"))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	i := New()
	var out string
	i.SetOutputCallback(func(s string) { out += s })
	_, err := i.Run(program)
	require.NoError(t, err)
	assert.Contains(t, out, "xyz")
	assert.Contains(t, out, "2x3")
}

func TestFormatLong(t *testing.T) {
	p := parser.New(lexer.New("format long\npi"))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	i := New()
	var out string
	i.SetOutputCallback(func(s string) { out += s })
	_, err := i.Run(program)
	require.NoError(t, err)
	assert.Contains(t, out, "3.14159265358979")
}

func TestErrorInsideFunctionPropagates(t *testing.T) {
	source := `
function y = boom()
  error('nope');
end
boom()`
	err := evalErr(t, source)
	re, ok := err.(*runtime.RuntimeError)
	require.True(t, ok)
	assert.Equal(t, "nope", re.Message)
}

func TestReturnExitsFunctionOnly(t *testing.T) {
	source := `
function y = early(x)
  y = 1;
  if x > 0
    return
  end
  y = 2;
end
early(5)`
	assert.InDelta(t, 1, evalScalar(t, source), 1e-12)
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	evalErr(t, "break")
}

func TestFunctionScopeRootedAtGlobal(t *testing.T) {
	// A function scope is rooted at the global workspace, not at its caller.
	source := `
function y = peek()
  y = exist('hidden');
end
hidden = 42;
peek()`
	// The engine roots function scopes at the global workspace, so the
	// base variable is visible there.
	assert.InDelta(t, 1, evalScalar(t, source), 1e-12)
}
