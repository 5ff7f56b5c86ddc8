package builtins

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
)

// formatItem is one value consumed by a printf conversion: a number or a
// string.
type formatItem struct {
	num   float64
	str   string
	isStr bool
}

// flattenFormatArgs turns the argument list into the item queue printf
// conversions consume: matrices contribute their elements in
// column-major order, strings a single item.
func flattenFormatArgs(args []Value) ([]formatItem, error) {
	var items []formatItem
	for _, arg := range args {
		switch v := runtime.First(arg).(type) {
		case *runtime.StringValue:
			items = append(items, formatItem{str: v.Value, isStr: true})
		case *runtime.MatrixValue:
			for i := 0; i < v.Mat.Numel(); i++ {
				items = append(items, formatItem{num: v.Mat.LinearGet(i)})
			}
		default:
			return nil, runtime.NewError("cannot format a %s argument", arg.Type())
		}
	}
	return items, nil
}

// sprintfFormat implements the printf-style formatting shared by
// sprintf, fprintf and num2str: %d %i %f %e %g %s %% with optional width
// and precision, plus the \n \t \\ escapes. The format string is
// recycled while unconsumed items remain, matching the language's
// formatting semantics.
func sprintfFormat(format string, args []Value) (string, error) {
	items, err := flattenFormatArgs(args)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	pos := 0
	for {
		consumed, err := formatOnce(&out, format, items, &pos)
		if err != nil {
			return "", err
		}
		// Stop once every item is used, or immediately when the format
		// consumes nothing (pure text needs no recycling).
		if pos >= len(items) || !consumed {
			break
		}
	}
	return out.String(), nil
}

// formatOnce runs one pass over the format string. It reports whether
// the pass consumed any items.
func formatOnce(out *strings.Builder, format string, items []formatItem, pos *int) (bool, error) {
	consumed := false
	i := 0
	for i < len(format) {
		ch := format[i]
		switch ch {
		case '\\':
			if i+1 < len(format) {
				switch format[i+1] {
				case 'n':
					out.WriteByte('\n')
					i += 2
					continue
				case 't':
					out.WriteByte('\t')
					i += 2
					continue
				case '\\':
					out.WriteByte('\\')
					i += 2
					continue
				}
			}
			out.WriteByte('\\')
			i++
		case '%':
			if i+1 < len(format) && format[i+1] == '%' {
				out.WriteByte('%')
				i += 2
				continue
			}
			spec, verb, next, err := parseVerb(format, i)
			if err != nil {
				return consumed, err
			}
			if *pos >= len(items) {
				// Out of items mid-format: stop emitting.
				return consumed, nil
			}
			item := items[*pos]
			*pos++
			consumed = true
			if err := writeConverted(out, spec, verb, item); err != nil {
				return consumed, err
			}
			i = next
		default:
			out.WriteByte(ch)
			i++
		}
	}
	return consumed, nil
}

// parseVerb reads a %[width][.precision]verb specification starting at
// the % character. It returns the flags/width/precision part, the verb,
// and the index just past the verb.
func parseVerb(format string, start int) (spec string, verb byte, next int, err error) {
	i := start + 1
	for i < len(format) {
		c := format[i]
		if c == '-' || c == '+' || c == ' ' || c == '0' || (c >= '1' && c <= '9') || c == '.' {
			i++
			continue
		}
		break
	}
	if i >= len(format) {
		return "", 0, 0, runtime.NewError("invalid format: unterminated %% specification")
	}
	verb = format[i]
	switch verb {
	case 'd', 'i', 'f', 'e', 'g', 's':
		return format[start+1 : i], verb, i + 1, nil
	}
	return "", 0, 0, runtime.NewError("invalid format: unsupported conversion %%%c", verb)
}

func writeConverted(out *strings.Builder, spec string, verb byte, item formatItem) error {
	switch verb {
	case 'd', 'i':
		if item.isStr {
			return runtime.NewError("format %%d expects a number")
		}
		if item.num == float64(int64(item.num)) {
			fmt.Fprintf(out, "%"+spec+"d", int64(item.num))
		} else {
			// A non-integer under %d degrades to general formatting.
			fmt.Fprintf(out, "%"+strings.TrimSuffix(spec, ".")+"g", item.num)
		}
	case 'f', 'e', 'g':
		if item.isStr {
			return runtime.NewError("format %%%c expects a number", verb)
		}
		fmt.Fprintf(out, "%"+spec+string(verb), item.num)
	case 's':
		if item.isStr {
			fmt.Fprintf(out, "%"+spec+"s", item.str)
		} else {
			fmt.Fprintf(out, "%"+spec+"s", strconv.FormatFloat(item.num, 'g', -1, 64))
		}
	}
	return nil
}
