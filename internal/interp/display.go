package interp

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

// formatBinding renders the `name = value` echo an unsuppressed
// statement produces.
func (i *Interpreter) formatBinding(name string, v runtime.Value) string {
	body := i.formatValue(runtime.First(v))
	if strings.Contains(body, "\n") {
		return name + " =\n" + body + "\n"
	}
	return name + " = " + body + "\n"
}

// formatValue renders a value for display. Scalars and strings are a
// single line; matrices print aligned rows.
func (i *Interpreter) formatValue(v runtime.Value) string {
	switch val := v.(type) {
	case *runtime.MatrixValue:
		return i.formatMatrix(val.Mat)
	case *runtime.StringValue:
		return val.Value
	case *runtime.CellValue:
		return val.String()
	case *runtime.StructValue:
		var sb strings.Builder
		for idx, name := range val.Names {
			if idx > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("    " + name + ": " + runtime.First(val.Fields[name]).String())
		}
		return sb.String()
	case *runtime.FuncHandleValue:
		return val.String()
	}
	return v.String()
}

func (i *Interpreter) formatMatrix(m *matrix.Matrix) string {
	if m.IsEmpty() {
		return "[]"
	}
	if m.IsScalar() {
		return i.formatNumber(m.ScalarValue())
	}

	// Column-aligned rows.
	cells := make([][]string, m.Rows())
	width := 0
	for r := 0; r < m.Rows(); r++ {
		cells[r] = make([]string, m.Cols())
		for c := 0; c < m.Cols(); c++ {
			s := i.formatNumber(m.At(r, c))
			cells[r][c] = s
			if len(s) > width {
				width = len(s)
			}
		}
	}

	var sb strings.Builder
	for r := 0; r < m.Rows(); r++ {
		sb.WriteString("   ")
		for c := 0; c < m.Cols(); c++ {
			s := cells[r][c]
			sb.WriteString(strings.Repeat(" ", width-len(s)))
			sb.WriteString(s)
			if c < m.Cols()-1 {
				sb.WriteString("   ")
			}
		}
		if r < m.Rows()-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// formatNumber honors the active format: short keeps five significant
// digits, long fifteen. Integers drop the decimal point.
func (i *Interpreter) formatNumber(v float64) string {
	if v == float64(int64(v)) && v > -1e15 && v < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	digits := 5
	if i.numberFormat == "long" {
		digits = 15
	}
	return strconv.FormatFloat(v, 'g', digits, 64)
}
