package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

func TestDefaultRegistryCoverage(t *testing.T) {
	r := Default()

	// Every function the language surface documents must be registered.
	expected := []string{
		// math
		"sin", "cos", "tan", "exp", "log", "sqrt", "abs", "atan2", "mod", "rem",
		"floor", "ceil", "round", "sign", "pi", "eps", "Inf", "NaN",
		// matrix
		"zeros", "ones", "eye", "rand", "randn", "linspace", "logspace",
		"size", "length", "numel", "reshape", "repmat", "transpose", "diag",
		"cat", "horzcat", "vertcat", "sort", "find", "any", "all", "isempty",
		"meshgrid",
		// stats
		"sum", "prod", "cumsum", "cumprod", "min", "max", "mean", "std",
		"var", "median",
		// linalg
		"det", "inv", "trace", "rank", "norm", "dot", "cross", "eig", "svd",
		"lu", "qr", "chol", "pinv", "expm", "logm", "sqrtm", "linsolve",
		// scientific
		"fft", "ifft", "conv", "filter", "polyval", "polyfit", "roots",
		"poly", "polyder", "polyint", "interp1", "spline", "diff",
		"gradient", "trapz", "cumtrapz", "integral", "ode45", "fminsearch",
		"fzero", "gamma", "beta", "erf", "erfc", "besselj", "normpdf",
		"normcdf", "norminv",
		// signal
		"hamming", "hanning", "blackman", "kaiser", "bartlett", "pwelch",
		"xcorr", "chirp", "sawtooth", "square",
		// strings
		"num2str", "str2num", "strcmp", "strcat", "strsplit", "sprintf",
		"upper", "lower", "strtrim", "contains", "startsWith", "endsWith",
		"replace", "regexp", "regexprep",
		// types
		"class", "isa", "isnumeric", "ischar", "islogical", "isstruct",
		"iscell", "isnan", "isinf", "isfinite", "logical", "double", "char",
		"struct", "fieldnames", "cell",
		// io
		"disp", "fprintf", "error", "warning", "tic", "toc", "exist",
		"whos", "clear", "format",
		// higher-order
		"feval", "arrayfun", "cellfun", "deal",
		// plotting
		"plot", "scatter", "bar", "stem", "stairs", "area", "hist", "surf",
		"mesh", "contour", "plot3", "imagesc", "title", "xlabel", "ylabel",
		"legend", "grid", "hold", "figure", "xlim", "ylim", "clf", "close",
		"text", "subplot",
		// audio
		"sound",
		// symbolic
		"sym", "symdiff", "symint", "symsolve", "symsimplify", "symexpand",
		"symsubs", "symtaylor", "symeval", "symplot",
	}

	for _, name := range expected {
		assert.True(t, r.Has(name), "missing builtin %q", name)
	}
}

func TestRegistryCategories(t *testing.T) {
	r := Default()
	assert.Contains(t, r.ByCategory(CategoryLinalg), "det")
	assert.Contains(t, r.ByCategory(CategorySymbolic), "symdiff")
	assert.NotEmpty(t, r.ByCategory(CategoryPlotting))
}

func TestArityErrorsNameTheFunction(t *testing.T) {
	r := Default()
	info, ok := r.Get("sin")
	require.True(t, ok)
	_, err := info.Function(nil, nil, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sin")
}

func TestSprintfFormat(t *testing.T) {
	tests := []struct {
		format string
		args   []Value
		want   string
	}{
		{"%d", []Value{runtime.NewScalar(42)}, "42"},
		{"%5d|", []Value{runtime.NewScalar(7)}, "    7|"},
		{"%.2f", []Value{runtime.NewScalar(3.14159)}, "3.14"},
		{"%e", []Value{runtime.NewScalar(12345.678)}, "1.234568e+04"},
		{"%g", []Value{runtime.NewScalar(0.5)}, "0.5"},
		{"%s!", []Value{runtime.NewString("hi")}, "hi!"},
		{"100%%", nil, "100%"},
		{"a\\tb\\n", nil, "a\tb\n"},
		{"\\\\", nil, "\\"},
	}

	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			got, err := sprintfFormat(tc.format, tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSprintfRecyclesFormat(t *testing.T) {
	// The format string repeats while arguments remain, and matrix
	// arguments feed elements in column-major order.
	m := runtime.NewMatrix(matrix.RowVector([]float64{1, 2, 3}))
	got, err := sprintfFormat("%d;", []Value{m})
	require.NoError(t, err)
	assert.Equal(t, "1;2;3;", got)
}

func TestSprintfUnsupportedVerb(t *testing.T) {
	_, err := sprintfFormat("%q", []Value{runtime.NewScalar(1)})
	assert.Error(t, err)
}
