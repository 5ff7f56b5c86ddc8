package parser

import (
	"testing"

	"github.com/cwbudde/go-mlab/internal/ast"
	"github.com/cwbudde/go-mlab/internal/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program := p.ParseProgram()
	require.Empty(t, p.Errors(), "unexpected parse errors for %q", input)
	return program
}

func parseStatementHelper(t *testing.T, input string) ast.Statement {
	t.Helper()
	program := parse(t, input)
	require.Len(t, program.Statements, 1)
	return program.Statements[0]
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"-x^2", "(-(x ^ 2))"},
		{"2^-3", "(2 ^ (-3))"},
		{"2^3^2", "(2 ^ (3 ^ 2))"},
		{"a + b .* c", "(a + (b .* c))"},
		{"a < b == c", "((a < b) == c)"},
		{"a & b | c", "((a & b) | c)"},
		{"a && b || c", "((a && b) || c)"},
		{"a | b && c", "((a | b) && c)"},
		{"~a == b", "((~a) == b)"},
		{"a \\ b", "(a \\ b)"},
		{"a ./ b .\\ c", "((a ./ b) .\\ c)"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			stmt := parseStatementHelper(t, tc.input)
			es, ok := stmt.(*ast.ExpressionStatement)
			require.True(t, ok)
			assert.Equal(t, tc.expected, es.Expression.String())
		})
	}
}

func TestTransposePostfix(t *testing.T) {
	stmt := parseStatementHelper(t, "A' * B")
	es := stmt.(*ast.ExpressionStatement)
	assert.Equal(t, "((A') * B)", es.Expression.String())

	stmt = parseStatementHelper(t, "A.'")
	es = stmt.(*ast.ExpressionStatement)
	post, ok := es.Expression.(*ast.PostfixExpression)
	require.True(t, ok)
	assert.Equal(t, ".'", post.Operator)
}

func TestRangeExpressions(t *testing.T) {
	stmt := parseStatementHelper(t, "1:10")
	es := stmt.(*ast.ExpressionStatement)
	r, ok := es.Expression.(*ast.RangeExpression)
	require.True(t, ok)
	assert.Nil(t, r.Step)

	stmt = parseStatementHelper(t, "0:0.1:1")
	es = stmt.(*ast.ExpressionStatement)
	r = es.Expression.(*ast.RangeExpression)
	require.NotNil(t, r.Step)

	// Range bounds bind arithmetic tighter than the colon.
	stmt = parseStatementHelper(t, "1:n-1")
	es = stmt.(*ast.ExpressionStatement)
	r = es.Expression.(*ast.RangeExpression)
	assert.Equal(t, "(n - 1)", r.Stop.String())
}

func TestMatrixLiterals(t *testing.T) {
	tests := []struct {
		input string
		rows  int
		cols  int
	}{
		{"[1 2; 3 4]", 2, 2},
		{"[1, 2, 3]", 1, 3},
		{"[1 2 3]", 1, 3},
		{"[]", 0, 0},
		{"[1; 2; 3]", 3, 1},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			stmt := parseStatementHelper(t, tc.input)
			es := stmt.(*ast.ExpressionStatement)
			ml, ok := es.Expression.(*ast.MatrixLiteral)
			require.True(t, ok)
			assert.Len(t, ml.Rows, tc.rows)
			if tc.rows > 0 {
				assert.Len(t, ml.Rows[0], tc.cols)
			}
		})
	}
}

func TestMatrixLiteralNewlineRows(t *testing.T) {
	stmt := parseStatementHelper(t, "[1 2\n3 4]")
	es := stmt.(*ast.ExpressionStatement)
	ml := es.Expression.(*ast.MatrixLiteral)
	require.Len(t, ml.Rows, 2)
}

func TestMatrixHorzcatOfParenthesised(t *testing.T) {
	stmt := parseStatementHelper(t, "[(a) (b)]")
	es := stmt.(*ast.ExpressionStatement)
	ml := es.Expression.(*ast.MatrixLiteral)
	require.Len(t, ml.Rows, 1)
	assert.Len(t, ml.Rows[0], 2)
}

func TestCellLiterals(t *testing.T) {
	stmt := parseStatementHelper(t, "{1, 'two'; [3 4], 5}")
	es := stmt.(*ast.ExpressionStatement)
	cl, ok := es.Expression.(*ast.CellLiteral)
	require.True(t, ok)
	require.Len(t, cl.Rows, 2)
	assert.Len(t, cl.Rows[0], 2)
}

func TestAssignment(t *testing.T) {
	stmt := parseStatementHelper(t, "x = 42;")
	as, ok := stmt.(*ast.AssignStatement)
	require.True(t, ok)
	assert.False(t, as.PrintResult)
	assert.Equal(t, "x", as.Target.String())

	stmt = parseStatementHelper(t, "x = 42")
	as = stmt.(*ast.AssignStatement)
	assert.True(t, as.PrintResult)
}

func TestIndexedAssignment(t *testing.T) {
	stmt := parseStatementHelper(t, "A(2, 3) = 7;")
	as, ok := stmt.(*ast.AssignStatement)
	require.True(t, ok)
	_, ok = as.Target.(*ast.CallExpression)
	assert.True(t, ok)

	stmt = parseStatementHelper(t, "s.field = 1;")
	as = stmt.(*ast.AssignStatement)
	_, ok = as.Target.(*ast.FieldAccess)
	assert.True(t, ok)

	stmt = parseStatementHelper(t, "c{2} = 'x';")
	as = stmt.(*ast.AssignStatement)
	_, ok = as.Target.(*ast.CellIndexExpression)
	assert.True(t, ok)
}

func TestMultiAssign(t *testing.T) {
	stmt := parseStatementHelper(t, "[q, r] = qr(A);")
	ms, ok := stmt.(*ast.MultiAssignStatement)
	require.True(t, ok)
	require.Len(t, ms.Targets, 2)
	assert.Equal(t, "q", ms.Targets[0].String())

	// ~ discards a return slot.
	stmt = parseStatementHelper(t, "[~, idx] = max(v);")
	ms = stmt.(*ast.MultiAssignStatement)
	require.Len(t, ms.Targets, 2)
	assert.Nil(t, ms.Targets[0])

	// Space-separated targets.
	stmt = parseStatementHelper(t, "[a b] = size(M);")
	ms = stmt.(*ast.MultiAssignStatement)
	require.Len(t, ms.Targets, 2)
}

func TestMultiAssignFallbackToMatrix(t *testing.T) {
	// A bracket that is not a multi-return header parses as a matrix
	// literal expression statement.
	stmt := parseStatementHelper(t, "[1 2; 3 4]")
	es, ok := stmt.(*ast.ExpressionStatement)
	require.True(t, ok)
	_, ok = es.Expression.(*ast.MatrixLiteral)
	assert.True(t, ok)

	stmt = parseStatementHelper(t, "[a, b]")
	es = stmt.(*ast.ExpressionStatement)
	_, ok = es.Expression.(*ast.MatrixLiteral)
	assert.True(t, ok)
}

func TestCallAndIndex(t *testing.T) {
	stmt := parseStatementHelper(t, "A(2, :)")
	es := stmt.(*ast.ExpressionStatement)
	call, ok := es.Expression.(*ast.CallExpression)
	require.True(t, ok)
	require.Len(t, call.Arguments, 2)
	r, ok := call.Arguments[1].(*ast.RangeExpression)
	require.True(t, ok)
	assert.True(t, r.IsBareColon())
}

func TestEndInIndex(t *testing.T) {
	stmt := parseStatementHelper(t, "x(end-1)")
	es := stmt.(*ast.ExpressionStatement)
	call := es.Expression.(*ast.CallExpression)
	require.Len(t, call.Arguments, 1)
	inf, ok := call.Arguments[0].(*ast.InfixExpression)
	require.True(t, ok)
	_, ok = inf.Left.(*ast.EndExpression)
	assert.True(t, ok)
}

func TestCellIndexing(t *testing.T) {
	stmt := parseStatementHelper(t, "c{1, 2}")
	es := stmt.(*ast.ExpressionStatement)
	_, ok := es.Expression.(*ast.CellIndexExpression)
	assert.True(t, ok)
}

func TestAnonFunction(t *testing.T) {
	stmt := parseStatementHelper(t, "f = @(x, y) x + y;")
	as := stmt.(*ast.AssignStatement)
	fn, ok := as.Value.(*ast.AnonFunction)
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "(x + y)", fn.Body.String())
}

func TestFunctionHandle(t *testing.T) {
	stmt := parseStatementHelper(t, "h = @sin;")
	as := stmt.(*ast.AssignStatement)
	fh, ok := as.Value.(*ast.FuncHandle)
	require.True(t, ok)
	assert.Equal(t, "sin", fh.Name)
}

func TestIfStatement(t *testing.T) {
	input := `
if x > 0
  y = 1;
elseif x < 0
  y = -1;
else
  y = 0;
end`
	stmt := parseStatementHelper(t, input)
	is, ok := stmt.(*ast.IfStatement)
	require.True(t, ok)
	require.Len(t, is.Clauses, 3)
	assert.NotNil(t, is.Clauses[0].Condition)
	assert.NotNil(t, is.Clauses[1].Condition)
	assert.Nil(t, is.Clauses[2].Condition)
}

func TestForStatement(t *testing.T) {
	stmt := parseStatementHelper(t, "for i = 1:10\n  s = s + i;\nend")
	fs, ok := stmt.(*ast.ForStatement)
	require.True(t, ok)
	assert.Equal(t, "i", fs.Var.Value)
	_, ok = fs.Range.(*ast.RangeExpression)
	assert.True(t, ok)
	assert.Len(t, fs.Body, 1)
}

func TestWhileStatement(t *testing.T) {
	stmt := parseStatementHelper(t, "while n > 1\n  n = n - 1;\nend")
	ws, ok := stmt.(*ast.WhileStatement)
	require.True(t, ok)
	assert.NotNil(t, ws.Condition)
	assert.Len(t, ws.Body, 1)
}

func TestSwitchStatement(t *testing.T) {
	input := `
switch x
case 1
  y = 'one';
case {2, 3}
  y = 'few';
otherwise
  y = 'many';
end`
	stmt := parseStatementHelper(t, input)
	ss, ok := stmt.(*ast.SwitchStatement)
	require.True(t, ok)
	require.Len(t, ss.Cases, 2)
	require.NotNil(t, ss.Otherwise)
	_, ok = ss.Cases[1].Value.(*ast.CellLiteral)
	assert.True(t, ok)
}

func TestTryCatch(t *testing.T) {
	stmt := parseStatementHelper(t, "try\n  x = f();\ncatch err\n  disp(err.message);\nend")
	ts, ok := stmt.(*ast.TryStatement)
	require.True(t, ok)
	require.NotNil(t, ts.CatchVar)
	assert.Equal(t, "err", ts.CatchVar.Value)

	stmt = parseStatementHelper(t, "try\n  x = 1;\ncatch\n  x = 0;\nend")
	ts = stmt.(*ast.TryStatement)
	assert.Nil(t, ts.CatchVar)
}

func TestFunctionDecl(t *testing.T) {
	tests := []struct {
		input   string
		name    string
		params  int
		returns int
	}{
		{"function f()\nx = 1;\nend", "f", 0, 0},
		{"function y = sq(x)\ny = x^2;\nend", "sq", 1, 1},
		{"function [q, r] = divmod(a, b)\nq = 0; r = 0;\nend", "divmod", 2, 2},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			stmt := parseStatementHelper(t, tc.input)
			fd, ok := stmt.(*ast.FunctionDecl)
			require.True(t, ok)
			assert.Equal(t, tc.name, fd.Name)
			assert.Len(t, fd.Params, tc.params)
			assert.Len(t, fd.Returns, tc.returns)
		})
	}
}

func TestFunctionDeclAtEOF(t *testing.T) {
	// Script-style function bodies may end at EOF without `end`.
	stmt := parseStatementHelper(t, "function y = f(x)\ny = x + 1;")
	fd, ok := stmt.(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Len(t, fd.Body, 1)
}

func TestGlobalStatement(t *testing.T) {
	stmt := parseStatementHelper(t, "global a b c")
	gs, ok := stmt.(*ast.GlobalStatement)
	require.True(t, ok)
	assert.Len(t, gs.Names, 3)
}

func TestCommandSyntax(t *testing.T) {
	stmt := parseStatementHelper(t, "format long")
	es, ok := stmt.(*ast.ExpressionStatement)
	require.True(t, ok)
	call, ok := es.Expression.(*ast.CallExpression)
	require.True(t, ok)
	assert.Equal(t, "format", call.Callee.String())
	require.Len(t, call.Arguments, 1)
	str, ok := call.Arguments[0].(*ast.StringLiteral)
	require.True(t, ok)
	assert.Equal(t, "long", str.Value)

	stmt = parseStatementHelper(t, "clear x y z")
	es = stmt.(*ast.ExpressionStatement)
	call = es.Expression.(*ast.CallExpression)
	assert.Len(t, call.Arguments, 3)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing end", "if x > 0\ny = 1;"},
		{"unmatched paren", "x = (1 + 2"},
		{"classdef", "classdef Foo\nend"},
		{"stray operator", "x = * 2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := New(lexer.New(tc.input))
			p.ParseProgram()
			assert.NotEmpty(t, p.Errors())
		})
	}
}

func TestErrorPosition(t *testing.T) {
	p := New(lexer.New("x = (1 + \ny = 2"))
	p.ParseProgram()
	require.NotEmpty(t, p.Errors())
	err := p.Errors()[0]
	assert.NotZero(t, err.Pos.Line)
}

func TestPrettyPrintRoundTrip(t *testing.T) {
	// Printing a parsed program and re-parsing it must produce the same
	// printed form.
	inputs := []string{
		"x = 1 + 2 * 3;",
		"A = [1 2; 3 4]; b = A(2, :);",
		"f = @(x) x.^2 - 1;",
		"for i = 1:10\ns = s + i;\nend",
		"if x > 0\ny = 1;\nelse\ny = -1;\nend",
		"[q, r] = deal(1, 2);",
		"while n > 1\nn = n / 2;\nend",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := parse(t, input).String()
			second := parse(t, first).String()
			assert.Equal(t, first, second)
		})
	}
}
