package builtins

import (
	"strings"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
)

func registerIO(r *Registry) {
	r.register("disp", CategoryIO, "Display a value", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("disp", args, 1, 1); err != nil {
			return nil, err
		}
		v := runtime.First(args[0])
		if s, ok := v.(*runtime.StringValue); ok {
			ctx.Output(s.Value + "\n")
			return nil, nil
		}
		ctx.Output(ctx.DisplayValue(v) + "\n")
		return nil, nil
	})

	r.register("fprintf", CategoryIO, "Formatted output", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("fprintf", args, 1, -1); err != nil {
			return nil, err
		}
		format, err := strArg("fprintf", args, 0)
		if err != nil {
			return nil, err
		}
		text, ferr := sprintfFormat(format, args[1:])
		if ferr != nil {
			return nil, runtime.NewError("fprintf: %v", ferr)
		}
		ctx.Output(text)
		return nil, nil
	})

	r.register("error", CategoryIO, "Raise an error", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("error", args, 1, -1); err != nil {
			return nil, err
		}
		first, err := strArg("error", args, 0)
		if err != nil {
			return nil, err
		}
		// An identifier-looking first argument ("pkg:id") with further
		// arguments supplies the identifier separately.
		identifier := ""
		format := first
		rest := args[1:]
		if len(args) > 1 && strings.Contains(first, ":") && !strings.ContainsAny(first, " %\t") {
			identifier = first
			if format, err = strArg("error", args, 1); err != nil {
				return nil, err
			}
			rest = args[2:]
		}
		message, ferr := sprintfFormat(format, rest)
		if ferr != nil {
			message = format
		}
		return nil, &runtime.RuntimeError{Message: message, Identifier: identifier}
	})

	r.register("warning", CategoryIO, "Emit a warning", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("warning", args, 1, -1); err != nil {
			return nil, err
		}
		format, err := strArg("warning", args, 0)
		if err != nil {
			return nil, err
		}
		message, ferr := sprintfFormat(format, args[1:])
		if ferr != nil {
			message = format
		}
		ctx.Output("Warning: " + message + "\n")
		return nil, nil
	})

	r.register("tic", CategoryIO, "Start the stopwatch", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("tic", args, 0, 0); err != nil {
			return nil, err
		}
		ctx.StartTimer()
		return nil, nil
	})

	r.register("toc", CategoryIO, "Read the stopwatch", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("toc", args, 0, 0); err != nil {
			return nil, err
		}
		elapsed, ok := ctx.ElapsedSeconds()
		if !ok {
			return nil, runtime.NewError("toc: tic has not been called")
		}
		if nargout == 0 {
			ctx.Output("Elapsed time is " + runtime.FormatNumber(elapsed) + " seconds.\n")
			return nil, nil
		}
		return runtime.NewScalar(elapsed), nil
	})

	r.register("exist", CategoryIO, "Classify a name", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("exist", args, 1, 1); err != nil {
			return nil, err
		}
		name, err := strArg("exist", args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.NewScalar(float64(ctx.Exists(name))), nil
	})

	r.register("who", CategoryIO, "List workspace variable names", func(ctx Context, args []Value, nargout int) (Value, error) {
		names := ctx.Env().Names()
		if len(names) > 0 {
			ctx.Output(strings.Join(names, "  ") + "\n")
		}
		return nil, nil
	})

	r.register("whos", CategoryIO, "List workspace variables with shapes", func(ctx Context, args []Value, nargout int) (Value, error) {
		env := ctx.Env()
		for _, name := range env.Names() {
			v, _ := env.GetLocal(name)
			rows, cols, err := valueShape(v)
			if err != nil {
				rows, cols = 1, 1
			}
			ctx.Output(name + "  " + runtime.FormatNumber(float64(rows)) + "x" + runtime.FormatNumber(float64(cols)) + "  " + v.Type() + "\n")
		}
		return nil, nil
	})

	r.register("clear", CategoryIO, "Clear workspace variables", func(ctx Context, args []Value, nargout int) (Value, error) {
		names := make([]string, 0, len(args))
		for i := range args {
			name, err := strArg("clear", args, i)
			if err != nil {
				return nil, err
			}
			names = append(names, name)
		}
		ctx.ClearWorkspace(names)
		return nil, nil
	})

	r.register("format", CategoryIO, "Switch numeric display format", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("format", args, 0, 1); err != nil {
			return nil, err
		}
		mode := "short"
		if len(args) == 1 {
			var err error
			if mode, err = strArg("format", args, 0); err != nil {
				return nil, err
			}
		}
		switch mode {
		case "short", "long":
			ctx.SetNumberFormat(mode)
		default:
			return nil, runtime.NewError("format: unknown format '%s'", mode)
		}
		return nil, nil
	})
}
