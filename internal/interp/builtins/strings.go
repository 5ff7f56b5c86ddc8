package builtins

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

func registerStrings(r *Registry) {
	r.register("num2str", CategoryStrings, "Number to string", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("num2str", args, 1, 2); err != nil {
			return nil, err
		}
		m, err := matArg("num2str", args, 0)
		if err != nil {
			return nil, err
		}
		if len(args) == 2 {
			if format, serr := runtime.ToString(args[1]); serr == nil {
				text, ferr := sprintfFormat(format, args[:1])
				if ferr != nil {
					return nil, ferr
				}
				return runtime.NewString(text), nil
			}
			digits, err := intArg("num2str", args, 1)
			if err != nil {
				return nil, err
			}
			if m.IsScalar() {
				return runtime.NewString(strconv.FormatFloat(m.ScalarValue(), 'g', digits, 64)), nil
			}
		}
		if m.IsScalar() {
			return runtime.NewString(runtime.FormatNumber(m.ScalarValue())), nil
		}
		var rows []string
		for i := 0; i < m.Rows(); i++ {
			var elems []string
			for j := 0; j < m.Cols(); j++ {
				elems = append(elems, runtime.FormatNumber(m.At(i, j)))
			}
			rows = append(rows, strings.Join(elems, "  "))
		}
		return runtime.NewString(strings.Join(rows, "\n")), nil
	})

	r.register("str2num", CategoryStrings, "Evaluate a string as a matrix literal", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("str2num", args, 1, 1); err != nil {
			return nil, err
		}
		s, err := strArg("str2num", args, 0)
		if err != nil {
			return nil, err
		}
		v, eerr := ctx.EvalString(s)
		if eerr != nil {
			return runtime.Empty(), nil
		}
		if _, ok := runtime.First(v).(*runtime.MatrixValue); !ok {
			return runtime.Empty(), nil
		}
		return runtime.First(v), nil
	})

	r.register("str2double", CategoryStrings, "String to scalar", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("str2double", args, 1, 1); err != nil {
			return nil, err
		}
		s, err := strArg("str2double", args, 0)
		if err != nil {
			return nil, err
		}
		v, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if perr != nil {
			return runtime.NewScalar(math.NaN()), nil
		}
		return runtime.NewScalar(v), nil
	})

	r.register("strcmp", CategoryStrings, "String equality", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("strcmp", args, 2, 2); err != nil {
			return nil, err
		}
		a, aok := runtime.First(args[0]).(*runtime.StringValue)
		b, bok := runtime.First(args[1]).(*runtime.StringValue)
		if !aok || !bok {
			return runtime.NewBool(false), nil
		}
		return runtime.NewBool(a.Value == b.Value), nil
	})

	r.register("strcmpi", CategoryStrings, "Case-insensitive string equality", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("strcmpi", args, 2, 2); err != nil {
			return nil, err
		}
		a, aok := runtime.First(args[0]).(*runtime.StringValue)
		b, bok := runtime.First(args[1]).(*runtime.StringValue)
		if !aok || !bok {
			return runtime.NewBool(false), nil
		}
		return runtime.NewBool(strings.EqualFold(a.Value, b.Value)), nil
	})

	r.register("strcat", CategoryStrings, "Concatenate strings", func(ctx Context, args []Value, nargout int) (Value, error) {
		var sb strings.Builder
		for i := range args {
			s, err := strArg("strcat", args, i)
			if err != nil {
				return nil, err
			}
			sb.WriteString(s)
		}
		return runtime.NewString(sb.String()), nil
	})

	r.register("strsplit", CategoryStrings, "Split a string", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("strsplit", args, 1, 2); err != nil {
			return nil, err
		}
		s, err := strArg("strsplit", args, 0)
		if err != nil {
			return nil, err
		}
		var parts []string
		if len(args) == 2 {
			sep, err := strArg("strsplit", args, 1)
			if err != nil {
				return nil, err
			}
			parts = strings.Split(s, sep)
		} else {
			parts = strings.Fields(s)
		}
		cell := runtime.NewCell(1, len(parts))
		for i, p := range parts {
			cell.Set(0, i, runtime.NewString(p))
		}
		return cell, nil
	})

	r.register("strjoin", CategoryStrings, "Join cell of strings", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("strjoin", args, 1, 2); err != nil {
			return nil, err
		}
		cell, err := cellArg("strjoin", args, 0)
		if err != nil {
			return nil, err
		}
		sep := " "
		if len(args) == 2 {
			if sep, err = strArg("strjoin", args, 1); err != nil {
				return nil, err
			}
		}
		parts := make([]string, 0, cell.Numel())
		for i := 0; i < cell.Numel(); i++ {
			s, serr := runtime.ToString(cell.LinearGet(i))
			if serr != nil {
				return nil, runtime.NewError("strjoin: cell elements must be strings")
			}
			parts = append(parts, s)
		}
		return runtime.NewString(strings.Join(parts, sep)), nil
	})

	r.register("sprintf", CategoryStrings, "Formatted string", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("sprintf", args, 1, -1); err != nil {
			return nil, err
		}
		format, err := strArg("sprintf", args, 0)
		if err != nil {
			return nil, err
		}
		text, ferr := sprintfFormat(format, args[1:])
		if ferr != nil {
			return nil, runtime.NewError("sprintf: %v", ferr)
		}
		return runtime.NewString(text), nil
	})

	r.register("upper", CategoryStrings, "Uppercase", stringMap("upper", strings.ToUpper))
	r.register("lower", CategoryStrings, "Lowercase", stringMap("lower", strings.ToLower))
	r.register("strtrim", CategoryStrings, "Trim whitespace", stringMap("strtrim", strings.TrimSpace))

	r.register("contains", CategoryStrings, "Substring test", stringPredicate("contains", strings.Contains))
	r.register("startsWith", CategoryStrings, "Prefix test", stringPredicate("startsWith", strings.HasPrefix))
	r.register("endsWith", CategoryStrings, "Suffix test", stringPredicate("endsWith", strings.HasSuffix))

	r.register("replace", CategoryStrings, "Replace substrings", replaceBuiltin("replace"))
	r.register("strrep", CategoryStrings, "Replace substrings", replaceBuiltin("strrep"))

	r.register("regexp", CategoryStrings, "Regular expression match", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("regexp", args, 2, 3); err != nil {
			return nil, err
		}
		s, err := strArg("regexp", args, 0)
		if err != nil {
			return nil, err
		}
		pattern, err := strArg("regexp", args, 1)
		if err != nil {
			return nil, err
		}
		re, cerr := regexp.Compile(pattern)
		if cerr != nil {
			return nil, runtime.NewError("regexp: invalid pattern: %v", cerr)
		}

		mode := "start"
		if len(args) == 3 {
			if mode, err = strArg("regexp", args, 2); err != nil {
				return nil, err
			}
		}
		switch mode {
		case "match":
			matches := re.FindAllString(s, -1)
			cell := runtime.NewCell(1, len(matches))
			for i, m := range matches {
				cell.Set(0, i, runtime.NewString(m))
			}
			return cell, nil
		case "start":
			locs := re.FindAllStringIndex(s, -1)
			idx := make([]float64, len(locs))
			for i, loc := range locs {
				idx[i] = float64(loc[0] + 1)
			}
			return runtime.NewMatrix(matrix.RowVector(idx)), nil
		case "once":
			if m := re.FindString(s); m != "" {
				return runtime.NewString(m), nil
			}
			return runtime.NewString(""), nil
		}
		return nil, runtime.NewError("regexp: unknown option '%s'", mode)
	})

	r.register("regexprep", CategoryStrings, "Regular expression replace", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("regexprep", args, 3, 3); err != nil {
			return nil, err
		}
		s, err := strArg("regexprep", args, 0)
		if err != nil {
			return nil, err
		}
		pattern, err := strArg("regexprep", args, 1)
		if err != nil {
			return nil, err
		}
		replacement, err := strArg("regexprep", args, 2)
		if err != nil {
			return nil, err
		}
		re, cerr := regexp.Compile(pattern)
		if cerr != nil {
			return nil, runtime.NewError("regexprep: invalid pattern: %v", cerr)
		}
		// $1-style group references use the regexp package's syntax.
		return runtime.NewString(re.ReplaceAllString(s, replacement)), nil
	})

	r.register("blanks", CategoryStrings, "String of spaces", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("blanks", args, 1, 1); err != nil {
			return nil, err
		}
		n, err := intArg("blanks", args, 0)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			n = 0
		}
		return runtime.NewString(strings.Repeat(" ", n)), nil
	})
}

func stringMap(name string, f func(string) string) BuiltinFunc {
	return func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs(name, args, 1, 1); err != nil {
			return nil, err
		}
		s, err := strArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.NewString(f(s)), nil
	}
}

func stringPredicate(name string, f func(s, sub string) bool) BuiltinFunc {
	return func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs(name, args, 2, 2); err != nil {
			return nil, err
		}
		s, err := strArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		sub, err := strArg(name, args, 1)
		if err != nil {
			return nil, err
		}
		return runtime.NewBool(f(s, sub)), nil
	}
}

func replaceBuiltin(name string) BuiltinFunc {
	return func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs(name, args, 3, 3); err != nil {
			return nil, err
		}
		s, err := strArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		old, err := strArg(name, args, 1)
		if err != nil {
			return nil, err
		}
		new_, err := strArg(name, args, 2)
		if err != nil {
			return nil, err
		}
		return runtime.NewString(strings.ReplaceAll(s, old, new_)), nil
	}
}

