package interp

import (
	"github.com/cwbudde/go-mlab/internal/ast"
	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

// indexSpec is one resolved subscript: either the whole dimension or an
// explicit list of 0-based indices shaped like the index expression.
type indexSpec struct {
	all   bool
	idx   []int
	rows  int // shape of the index expression, for result shaping
	cols  int
}

// evalIndexArg resolves one subscript expression against an axis of the
// given size. The axis size is pushed on the end stack so `end` inside
// the subscript resolves to it, including through arithmetic like
// end-1. An index vector containing a zero and only zeros and ones is
// treated as a logical mask.
func (i *Interpreter) evalIndexArg(expr ast.Expression, axisSize int) (indexSpec, error) {
	if r, ok := expr.(*ast.RangeExpression); ok && r.IsBareColon() {
		return indexSpec{all: true}, nil
	}

	i.pushEnd(axisSize)
	v, err := i.evalExpression(expr)
	i.popEnd()
	if err != nil {
		return indexSpec{}, err
	}

	m, merr := runtime.ToMatrix(v)
	if merr != nil {
		return indexSpec{}, runtime.NewError("index must be numeric: %v", merr)
	}

	if isLogicalMask(m) {
		// Logical masks address elements in column-major order.
		if m.Numel() > axisSize {
			return indexSpec{}, runtime.NewError("logical index has %d elements, dimension has %d", m.Numel(), axisSize)
		}
		var idx []int
		for k := 0; k < m.Numel(); k++ {
			if m.LinearGet(k) != 0 {
				idx = append(idx, k)
			}
		}
		return indexSpec{idx: idx, rows: len(idx), cols: 1}, nil
	}

	idx := make([]int, m.Numel())
	for k := 0; k < m.Numel(); k++ {
		raw := m.LinearGet(k)
		n := int(raw)
		if float64(n) != raw || n < 1 {
			return indexSpec{}, runtime.NewError("index must be a positive integer, got %v", raw)
		}
		idx[k] = n - 1
	}
	return indexSpec{idx: idx, rows: m.Rows(), cols: m.Cols()}, nil
}

// isLogicalMask applies the 0/1 heuristic: a vector qualifies as a mask
// when every element is 0 or 1 and at least one is 0, so plain index
// vectors like [1 1] keep numeric meaning.
func isLogicalMask(m *matrix.Matrix) bool {
	if m.IsEmpty() {
		return false
	}
	hasZero := false
	for _, v := range m.Data {
		if v == 0 {
			hasZero = true
		} else if v != 1 {
			return false
		}
	}
	return hasZero
}

func (spec indexSpec) resolve(axisSize int) []int {
	if spec.all {
		out := make([]int, axisSize)
		for k := range out {
			out[k] = k
		}
		return out
	}
	return spec.idx
}

// indexValue performs parenthesis indexing of a data value.
func (i *Interpreter) indexValue(v runtime.Value, argExprs []ast.Expression) (runtime.Value, error) {
	switch val := runtime.First(v).(type) {
	case *runtime.MatrixValue:
		return i.indexMatrix(val.Mat, argExprs)
	case *runtime.StringValue:
		codes, _ := runtime.ToMatrix(val)
		result, err := i.indexMatrix(codes, argExprs)
		if err != nil {
			return nil, err
		}
		rm, _ := runtime.ToMatrix(result)
		chars := make([]rune, rm.Numel())
		for k := range chars {
			chars[k] = rune(int(rm.LinearGet(k)))
		}
		return runtime.NewString(string(chars)), nil
	case *runtime.CellValue:
		return i.indexCellParen(val, argExprs)
	case *runtime.StructValue:
		// A scalar struct indexes as itself at (1).
		if len(argExprs) >= 1 {
			return val, nil
		}
		return val, nil
	}
	return nil, runtime.NewError("value of class %s cannot be indexed", v.Type())
}

func (i *Interpreter) indexMatrix(m *matrix.Matrix, argExprs []ast.Expression) (runtime.Value, error) {
	switch len(argExprs) {
	case 1:
		spec, err := i.evalIndexArg(argExprs[0], m.Numel())
		if err != nil {
			return nil, err
		}
		if spec.all {
			// A(:) is the column-major flattening.
			return runtime.NewMatrix(matrix.ColVector(m.ToVector())), nil
		}
		vals := make([]float64, len(spec.idx))
		for k, idx := range spec.idx {
			if idx >= m.Numel() {
				return nil, runtime.NewError("index %d out of bounds for %dx%d", idx+1, m.Rows(), m.Cols())
			}
			vals[k] = m.LinearGet(idx)
		}
		// The result takes the shape of the index expression, except
		// that indexing a row vector keeps the row orientation.
		if m.IsRowVector() || spec.rows == 1 {
			return runtime.NewMatrix(matrix.RowVector(vals)), nil
		}
		if spec.cols == 1 {
			return runtime.NewMatrix(matrix.ColVector(vals)), nil
		}
		out := matrix.New(spec.rows, spec.cols)
		for k, v := range vals {
			out.LinearSet(k, v)
		}
		return runtime.NewMatrix(out), nil

	case 2:
		rowSpec, err := i.evalIndexArg(argExprs[0], m.Rows())
		if err != nil {
			return nil, err
		}
		colSpec, err := i.evalIndexArg(argExprs[1], m.Cols())
		if err != nil {
			return nil, err
		}
		rows := rowSpec.resolve(m.Rows())
		cols := colSpec.resolve(m.Cols())
		out := matrix.New(len(rows), len(cols))
		for ri, r := range rows {
			if r >= m.Rows() {
				return nil, runtime.NewError("row index %d out of bounds for %dx%d", r+1, m.Rows(), m.Cols())
			}
			for ci, c := range cols {
				if c >= m.Cols() {
					return nil, runtime.NewError("column index %d out of bounds for %dx%d", c+1, m.Rows(), m.Cols())
				}
				out.Set(ri, ci, m.At(r, c))
			}
		}
		return runtime.NewMatrix(out), nil
	}
	return nil, runtime.NewError("matrices support one or two subscripts, got %d", len(argExprs))
}

// indexCellParen slices a cell array with (), producing a sub-cell.
func (i *Interpreter) indexCellParen(c *runtime.CellValue, argExprs []ast.Expression) (runtime.Value, error) {
	rows, cols, err := i.cellSubscripts(c, argExprs)
	if err != nil {
		return nil, err
	}
	if cols == nil {
		out := runtime.NewCell(1, len(rows))
		for k, idx := range rows {
			out.Set(0, k, c.LinearGet(idx))
		}
		return out, nil
	}
	out := runtime.NewCell(len(rows), len(cols))
	for ri, r := range rows {
		for ci, cc := range cols {
			out.Set(ri, ci, c.At(r, cc))
		}
	}
	return out, nil
}

// indexCellContents extracts cell contents with {}. Multiple selected
// cells yield a value list, which spreads in argument position.
func (i *Interpreter) indexCellContents(c *runtime.CellValue, argExprs []ast.Expression) (runtime.Value, error) {
	rows, cols, err := i.cellSubscripts(c, argExprs)
	if err != nil {
		return nil, err
	}
	var selected []runtime.Value
	if cols == nil {
		for _, idx := range rows {
			selected = append(selected, c.LinearGet(idx))
		}
	} else {
		for _, r := range rows {
			for _, cc := range cols {
				selected = append(selected, c.At(r, cc))
			}
		}
	}
	if len(selected) == 0 {
		return runtime.Empty(), nil
	}
	if len(selected) == 1 {
		return selected[0], nil
	}
	return &runtime.ValueList{Values: selected}, nil
}

// cellSubscripts resolves cell subscripts: a nil cols means linear
// indexing by rows.
func (i *Interpreter) cellSubscripts(c *runtime.CellValue, argExprs []ast.Expression) (rows, cols []int, err error) {
	switch len(argExprs) {
	case 1:
		spec, err := i.evalIndexArg(argExprs[0], c.Numel())
		if err != nil {
			return nil, nil, err
		}
		idx := spec.resolve(c.Numel())
		for _, k := range idx {
			if k >= c.Numel() {
				return nil, nil, runtime.NewError("cell index %d out of bounds", k+1)
			}
		}
		return idx, nil, nil
	case 2:
		rowSpec, err := i.evalIndexArg(argExprs[0], c.RowCount)
		if err != nil {
			return nil, nil, err
		}
		colSpec, err := i.evalIndexArg(argExprs[1], c.ColCount)
		if err != nil {
			return nil, nil, err
		}
		rows = rowSpec.resolve(c.RowCount)
		cols = colSpec.resolve(c.ColCount)
		for _, r := range rows {
			if r >= c.RowCount {
				return nil, nil, runtime.NewError("cell row index %d out of bounds", r+1)
			}
		}
		for _, cc := range cols {
			if cc >= c.ColCount {
				return nil, nil, runtime.NewError("cell column index %d out of bounds", cc+1)
			}
		}
		return rows, cols, nil
	}
	return nil, nil, runtime.NewError("cell arrays support one or two subscripts")
}

// assignTo stores a value through an assignment target. Nested targets
// (s.a(2), c{1}, A(3, :)) recurse: the container is read, updated and
// written back, which matches the language's value semantics.
func (i *Interpreter) assignTo(target ast.Expression, value runtime.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		i.env.Define(t.Value, value)
		return nil

	case *ast.CallExpression:
		base, err := i.targetBase(t.Callee, runtime.Empty())
		if err != nil {
			return err
		}
		updated, err := i.assignIndexed(base, t.Arguments, value)
		if err != nil {
			return err
		}
		return i.assignTo(t.Callee, updated)

	case *ast.CellIndexExpression:
		base, err := i.targetBase(t.Callee, runtime.NewCell(0, 0))
		if err != nil {
			return err
		}
		cell, ok := runtime.First(base).(*runtime.CellValue)
		if !ok {
			if m, isMat := runtime.First(base).(*runtime.MatrixValue); isMat && m.Mat.IsEmpty() {
				cell = runtime.NewCell(0, 0)
			} else {
				return runtime.NewError("brace assignment requires a cell array, got %s", base.Type())
			}
		}
		updated, err := i.assignCellContent(cell, t.Arguments, value)
		if err != nil {
			return err
		}
		return i.assignTo(t.Callee, updated)

	case *ast.FieldAccess:
		base, err := i.targetBase(t.Object, runtime.NewStruct())
		if err != nil {
			return err
		}
		s, ok := runtime.First(base).(*runtime.StructValue)
		if !ok {
			if m, isMat := runtime.First(base).(*runtime.MatrixValue); isMat && m.Mat.IsEmpty() {
				s = runtime.NewStruct()
			} else {
				return runtime.NewError("field assignment requires a struct, got %s", base.Type())
			}
		}
		out := s.Clone()
		out.SetField(t.Field, value)
		return i.assignTo(t.Object, out)
	}
	return runtime.NewError("invalid assignment target")
}

// targetBase reads the current value of an assignment target's
// container, or a fresh default when it does not exist yet. Field
// chains vivify intermediate structs, so s.inner.deep = 3 works with s
// unbound.
func (i *Interpreter) targetBase(expr ast.Expression, missing runtime.Value) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if v, bound := i.env.Get(e.Value); bound {
			return v, nil
		}
		return missing, nil
	case *ast.FieldAccess:
		parent, err := i.targetBase(e.Object, runtime.NewStruct())
		if err != nil {
			return nil, err
		}
		if s, ok := runtime.First(parent).(*runtime.StructValue); ok {
			if v, has := s.Get(e.Field); has {
				return v, nil
			}
		}
		return missing, nil
	}
	v, err := i.evalExpression(expr)
	if err != nil {
		return nil, err
	}
	return runtime.First(v), nil
}

// assignIndexed applies A(args) = value, growing the matrix with
// zero-fill when the target index exceeds the current bounds.
func (i *Interpreter) assignIndexed(base runtime.Value, argExprs []ast.Expression, value runtime.Value) (runtime.Value, error) {
	switch b := runtime.First(base).(type) {
	case *runtime.MatrixValue:
		out, err := i.assignMatrixIndexed(b.Mat, argExprs, value)
		if err != nil {
			return nil, err
		}
		return runtime.NewMatrix(out), nil
	case *runtime.CellValue:
		// c(idx) = {...} replaces cells wholesale.
		rhs, ok := runtime.First(value).(*runtime.CellValue)
		if !ok {
			return nil, runtime.NewError("paren assignment into a cell requires a cell right-hand side")
		}
		return i.assignCellSlice(b, argExprs, rhs)
	}
	return nil, runtime.NewError("value of class %s cannot be index-assigned", base.Type())
}

func (i *Interpreter) assignMatrixIndexed(m *matrix.Matrix, argExprs []ast.Expression, value runtime.Value) (*matrix.Matrix, error) {
	rhs, rerr := runtime.ToMatrix(value)
	if rerr != nil {
		return nil, runtime.NewError("assigned value must be numeric: %v", rerr)
	}

	switch len(argExprs) {
	case 1:
		spec, err := i.evalIndexArg(argExprs[0], m.Numel())
		if err != nil {
			return nil, err
		}
		idx := spec.resolve(m.Numel())

		maxIdx := -1
		for _, k := range idx {
			if k > maxIdx {
				maxIdx = k
			}
		}
		out := m.Clone()
		if maxIdx >= m.Numel() {
			grown, gerr := growLinear(m, maxIdx+1)
			if gerr != nil {
				return nil, gerr
			}
			out = grown
		}
		if rhs.IsScalar() {
			for _, k := range idx {
				out.LinearSet(k, rhs.ScalarValue())
			}
			return out, nil
		}
		if rhs.Numel() != len(idx) {
			return nil, runtime.NewError("assignment size mismatch: %d indices, %d values", len(idx), rhs.Numel())
		}
		for pos, k := range idx {
			out.LinearSet(k, rhs.LinearGet(pos))
		}
		return out, nil

	case 2:
		rowSpec, err := i.evalIndexArg(argExprs[0], m.Rows())
		if err != nil {
			return nil, err
		}
		colSpec, err := i.evalIndexArg(argExprs[1], m.Cols())
		if err != nil {
			return nil, err
		}
		rows := rowSpec.resolve(m.Rows())
		cols := colSpec.resolve(m.Cols())

		needRows, needCols := m.Rows(), m.Cols()
		for _, r := range rows {
			if r+1 > needRows {
				needRows = r + 1
			}
		}
		for _, c := range cols {
			if c+1 > needCols {
				needCols = c + 1
			}
		}
		out := growTo(m, needRows, needCols)

		if rhs.IsScalar() {
			for _, r := range rows {
				for _, c := range cols {
					out.Set(r, c, rhs.ScalarValue())
				}
			}
			return out, nil
		}
		if rhs.Numel() != len(rows)*len(cols) {
			return nil, runtime.NewError("assignment size mismatch: %dx%d target, %dx%d value", len(rows), len(cols), rhs.Rows(), rhs.Cols())
		}
		pos := 0
		// Fill column-major to match the right-hand side's linear order.
		for ci := range cols {
			for ri := range rows {
				out.Set(rows[ri], cols[ci], rhs.LinearGet(pos))
				pos++
			}
		}
		return out, nil
	}
	return nil, runtime.NewError("matrices support one or two subscripts in assignment")
}

// growLinear extends a vector (or empty) to the given element count,
// zero-filling. Linear growth of a true matrix is an error.
func growLinear(m *matrix.Matrix, count int) (*matrix.Matrix, error) {
	switch {
	case m.IsEmpty():
		return matrix.New(1, count), nil
	case m.Rows() == 1:
		out := matrix.New(1, count)
		copy(out.Data, m.Data)
		return out, nil
	case m.Cols() == 1:
		out := matrix.New(count, 1)
		copy(out.Data, m.Data)
		return out, nil
	}
	return nil, runtime.NewError("linear index %d exceeds matrix bounds", count)
}

// growTo zero-extends a matrix to at least the given shape.
func growTo(m *matrix.Matrix, rows, cols int) *matrix.Matrix {
	if rows == m.Rows() && cols == m.Cols() {
		return m.Clone()
	}
	out := matrix.New(rows, cols)
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			out.Set(r, c, m.At(r, c))
		}
	}
	return out
}

// assignCellContent applies c{args} = value, growing the cell grid as
// needed.
func (i *Interpreter) assignCellContent(c *runtime.CellValue, argExprs []ast.Expression, value runtime.Value) (*runtime.CellValue, error) {
	switch len(argExprs) {
	case 1:
		spec, err := i.evalIndexArg(argExprs[0], c.Numel())
		if err != nil {
			return nil, err
		}
		if spec.all || len(spec.idx) != 1 {
			return nil, runtime.NewError("brace assignment requires a single cell index")
		}
		idx := spec.idx[0]
		var out *runtime.CellValue
		switch {
		case idx < c.Numel():
			out = c.Clone()
		case c.Numel() == 0 || c.RowCount == 1:
			out = growCell(c, 1, idx+1)
		case c.ColCount == 1:
			out = growCell(c, idx+1, 1)
		default:
			return nil, runtime.NewError("linear cell index %d exceeds bounds", idx+1)
		}
		out.LinearSet(idx, runtime.First(value))
		return out, nil
	case 2:
		rowSpec, err := i.evalIndexArg(argExprs[0], c.RowCount)
		if err != nil {
			return nil, err
		}
		colSpec, err := i.evalIndexArg(argExprs[1], c.ColCount)
		if err != nil {
			return nil, err
		}
		if len(rowSpec.idx) != 1 || len(colSpec.idx) != 1 {
			return nil, runtime.NewError("brace assignment requires a single cell index")
		}
		r, cc := rowSpec.idx[0], colSpec.idx[0]
		out := growCell(c, r+1, cc+1)
		out.Set(r, cc, runtime.First(value))
		return out, nil
	}
	return nil, runtime.NewError("cell arrays support one or two subscripts")
}

// assignCellSlice applies c(args) = cellRHS.
func (i *Interpreter) assignCellSlice(c *runtime.CellValue, argExprs []ast.Expression, rhs *runtime.CellValue) (runtime.Value, error) {
	rows, cols, err := i.cellSubscripts(c, argExprs)
	if err != nil {
		return nil, err
	}
	out := c.Clone()
	if cols == nil {
		if rhs.Numel() != len(rows) && rhs.Numel() != 1 {
			return nil, runtime.NewError("cell assignment size mismatch")
		}
		for k, idx := range rows {
			src := 0
			if rhs.Numel() > 1 {
				src = k
			}
			out.LinearSet(idx, rhs.LinearGet(src))
		}
		return out, nil
	}
	pos := 0
	for _, r := range rows {
		for _, cc := range cols {
			if pos >= rhs.Numel() {
				return nil, runtime.NewError("cell assignment size mismatch")
			}
			out.Set(r, cc, rhs.LinearGet(pos))
			pos++
		}
	}
	return out, nil
}

// growCell extends a cell grid with empty-matrix cells to at least the
// given shape.
func growCell(c *runtime.CellValue, rows, cols int) *runtime.CellValue {
	needRows := c.RowCount
	needCols := c.ColCount
	if rows > needRows {
		needRows = rows
	}
	if cols > needCols {
		needCols = cols
	}
	if needRows == c.RowCount && needCols == c.ColCount {
		return c.Clone()
	}
	out := runtime.NewCell(needRows, needCols)
	for r := 0; r < c.RowCount; r++ {
		for cc := 0; cc < c.ColCount; cc++ {
			out.Set(r, cc, c.At(r, cc))
		}
	}
	return out
}
