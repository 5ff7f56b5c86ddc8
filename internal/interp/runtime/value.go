// Package runtime defines the value model and environment shared by the
// interpreter and the built-in function registry.
package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/go-mlab/internal/ast"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

// Value represents a runtime value in the interpreter.
// All runtime values must implement this interface.
type Value interface {
	// Type returns the class name of the value as reported by class():
	// "double", "char", "cell", "struct", "function_handle".
	Type() string
	// String returns a compact single-line representation of the value.
	String() string
}

// MatrixValue wraps a dense matrix. Scalars are 1x1 matrices and logical
// results are matrices of 0s and 1s; storage does not distinguish them.
type MatrixValue struct {
	Mat *matrix.Matrix
}

// NewMatrix wraps a matrix in a value.
func NewMatrix(m *matrix.Matrix) *MatrixValue {
	return &MatrixValue{Mat: m}
}

// NewScalar creates a 1x1 matrix value.
func NewScalar(v float64) *MatrixValue {
	return &MatrixValue{Mat: matrix.Scalar(v)}
}

// NewBool creates a 1x1 logical matrix value holding 0 or 1.
func NewBool(b bool) *MatrixValue {
	if b {
		return NewScalar(1)
	}
	return NewScalar(0)
}

// Empty creates the empty matrix value [].
func Empty() *MatrixValue {
	return &MatrixValue{Mat: matrix.Empty()}
}

// Type returns "double".
func (m *MatrixValue) Type() string { return "double" }

// String renders the matrix in bracketed single-line form.
func (m *MatrixValue) String() string {
	if m.Mat.IsEmpty() {
		return "[]"
	}
	if m.Mat.IsScalar() {
		return FormatNumber(m.Mat.ScalarValue())
	}
	var rows []string
	for i := 0; i < m.Mat.Rows(); i++ {
		var elems []string
		for j := 0; j < m.Mat.Cols(); j++ {
			elems = append(elems, FormatNumber(m.Mat.At(i, j)))
		}
		rows = append(rows, strings.Join(elems, " "))
	}
	return "[" + strings.Join(rows, "; ") + "]"
}

// FormatNumber renders a float the way the short display format does:
// integers without a decimal point, everything else with five
// significant digits.
func FormatNumber(v float64) string {
	if v == float64(int64(v)) && v > -1e15 && v < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', 5, 64)
}

// StringValue represents a character vector.
type StringValue struct {
	Value string
}

// NewString wraps a string in a value.
func NewString(s string) *StringValue { return &StringValue{Value: s} }

// Type returns "char".
func (s *StringValue) Type() string { return "char" }

// String returns the text itself.
func (s *StringValue) String() string { return s.Value }

// CellValue represents a cell array. Elements are stored row-major;
// linear indexing converts to column-major at the access boundary, the
// same convention the matrix kernels use.
type CellValue struct {
	RowCount int
	ColCount int
	Elems    []Value
}

// NewCell creates a rows x cols cell array with empty-matrix elements.
func NewCell(rows, cols int) *CellValue {
	if rows <= 0 || cols <= 0 {
		return &CellValue{}
	}
	elems := make([]Value, rows*cols)
	for i := range elems {
		elems[i] = Empty()
	}
	return &CellValue{RowCount: rows, ColCount: cols, Elems: elems}
}

// Type returns "cell".
func (c *CellValue) Type() string { return "cell" }

// String renders the cell in braced single-line form.
func (c *CellValue) String() string {
	if len(c.Elems) == 0 {
		return "{}"
	}
	var rows []string
	for i := 0; i < c.RowCount; i++ {
		var elems []string
		for j := 0; j < c.ColCount; j++ {
			elems = append(elems, c.At(i, j).String())
		}
		rows = append(rows, strings.Join(elems, ", "))
	}
	return "{" + strings.Join(rows, "; ") + "}"
}

// Numel returns the number of cells.
func (c *CellValue) Numel() int { return c.RowCount * c.ColCount }

// At returns the element at (row, col), 0-based.
func (c *CellValue) At(row, col int) Value {
	return c.Elems[row*c.ColCount+col]
}

// Set stores v at (row, col), 0-based.
func (c *CellValue) Set(row, col int, v Value) {
	c.Elems[row*c.ColCount+col] = v
}

// LinearGet returns the element at the 0-based column-major linear index.
func (c *CellValue) LinearGet(idx int) Value {
	return c.At(idx%c.RowCount, idx/c.RowCount)
}

// LinearSet stores v at the 0-based column-major linear index.
func (c *CellValue) LinearSet(idx int, v Value) {
	c.Set(idx%c.RowCount, idx/c.RowCount, v)
}

// Clone returns a shallow copy of the cell structure with shared element
// values; element values are themselves immutable by the copy-on-assign
// convention.
func (c *CellValue) Clone() *CellValue {
	elems := make([]Value, len(c.Elems))
	copy(elems, c.Elems)
	return &CellValue{RowCount: c.RowCount, ColCount: c.ColCount, Elems: elems}
}

// StructValue represents a scalar struct with ordered fields.
type StructValue struct {
	Names  []string
	Fields map[string]Value
}

// NewStruct creates an empty struct.
func NewStruct() *StructValue {
	return &StructValue{Fields: make(map[string]Value)}
}

// Type returns "struct".
func (s *StructValue) Type() string { return "struct" }

// String renders the struct's field names.
func (s *StructValue) String() string {
	var parts []string
	for _, name := range s.Names {
		parts = append(parts, name+": "+s.Fields[name].String())
	}
	return "struct(" + strings.Join(parts, ", ") + ")"
}

// Get returns a field value.
func (s *StructValue) Get(name string) (Value, bool) {
	v, ok := s.Fields[name]
	return v, ok
}

// SetField stores a field value, preserving insertion order of names.
func (s *StructValue) SetField(name string, v Value) {
	if _, exists := s.Fields[name]; !exists {
		s.Names = append(s.Names, name)
	}
	s.Fields[name] = v
}

// Clone returns a copy of the struct with shared field values.
func (s *StructValue) Clone() *StructValue {
	out := NewStruct()
	for _, name := range s.Names {
		out.SetField(name, s.Fields[name])
	}
	return out
}

// FuncHandleValue represents a function handle: a reference to a named
// built-in or user function, or an anonymous function with its captured
// environment.
type FuncHandleValue struct {
	Name   string            // named handle (@sin); empty for anonymous
	Params []*ast.Identifier // anonymous function parameters
	Body   ast.Expression    // anonymous function body
	Env    *Environment      // captured environment of an anonymous function
}

// IsAnonymous reports whether the handle wraps an anonymous function.
func (f *FuncHandleValue) IsAnonymous() bool { return f.Name == "" }

// Type returns "function_handle".
func (f *FuncHandleValue) Type() string { return "function_handle" }

// String renders @name or the anonymous function source.
func (f *FuncHandleValue) String() string {
	if f.Name != "" {
		return "@" + f.Name
	}
	var params []string
	for _, p := range f.Params {
		params = append(params, p.Value)
	}
	return "@(" + strings.Join(params, ",") + ") " + f.Body.String()
}

// ValueList bundles the outputs of a multi-return call on its way to a
// multi-assign statement. It never escapes to user-visible state: any
// single-value context takes the first element.
type ValueList struct {
	Values []Value
}

// Type returns the type of the first element.
func (vl *ValueList) Type() string {
	if len(vl.Values) > 0 {
		return vl.Values[0].Type()
	}
	return "double"
}

// String renders the first element.
func (vl *ValueList) String() string {
	if len(vl.Values) > 0 {
		return vl.Values[0].String()
	}
	return "[]"
}

// First unwraps a ValueList to its first element; other values pass
// through unchanged.
func First(v Value) Value {
	if vl, ok := v.(*ValueList); ok {
		if len(vl.Values) == 0 {
			return Empty()
		}
		return vl.Values[0]
	}
	return v
}

// Truthy reports whether a value is true in a condition: a nonempty
// all-nonzero matrix, a nonempty string, or a nonempty container.
func Truthy(v Value) bool {
	switch val := First(v).(type) {
	case *MatrixValue:
		return val.Mat.AllTrue()
	case *StringValue:
		return len(val.Value) > 0
	case *CellValue:
		return val.Numel() > 0
	case *StructValue:
		return len(val.Names) > 0
	case *FuncHandleValue:
		return true
	}
	return false
}

// ToMatrix coerces a value to a matrix: matrices pass through and strings
// convert to their character codes. Other kinds fail.
func ToMatrix(v Value) (*matrix.Matrix, error) {
	switch val := First(v).(type) {
	case *MatrixValue:
		return val.Mat, nil
	case *StringValue:
		codes := make([]float64, 0, len(val.Value))
		for _, r := range val.Value {
			codes = append(codes, float64(r))
		}
		return matrix.RowVector(codes), nil
	}
	return nil, fmt.Errorf("expected a numeric value, got %s", v.Type())
}

// ToScalar coerces a value to a single float64.
func ToScalar(v Value) (float64, error) {
	m, err := ToMatrix(v)
	if err != nil {
		return 0, err
	}
	if m.Numel() != 1 {
		return 0, fmt.Errorf("expected a scalar, got %dx%d", m.Rows(), m.Cols())
	}
	return m.Data[0], nil
}

// ToInt coerces a value to an integer scalar.
func ToInt(v Value) (int, error) {
	f, err := ToScalar(v)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// ToString coerces a value to its text when it is a string.
func ToString(v Value) (string, error) {
	if s, ok := First(v).(*StringValue); ok {
		return s.Value, nil
	}
	return "", fmt.Errorf("expected a string, got %s", v.Type())
}
