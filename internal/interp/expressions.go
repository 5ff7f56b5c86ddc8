package interp

import (
	"math"

	"github.com/cwbudde/go-mlab/internal/ast"
	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
)

// evalExpression evaluates an expression expecting one result.
func (i *Interpreter) evalExpression(expr ast.Expression) (runtime.Value, error) {
	return i.evalExpressionN(expr, 1)
}

// evalExpressionN evaluates an expression propagating the number of
// outputs the caller expects, so multi-return calls can answer with a
// value list.
func (i *Interpreter) evalExpressionN(expr ast.Expression, nargout int) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		if e.Imag != 0 {
			// Complex literals collapse to NaN; the payload is parsed
			// but complex arithmetic is not supported.
			return runtime.NewScalar(math.NaN()), nil
		}
		return runtime.NewScalar(e.Value), nil
	case *ast.StringLiteral:
		return runtime.NewString(e.Value), nil
	case *ast.BooleanLiteral:
		return runtime.NewBool(e.Value), nil
	case *ast.Identifier:
		return i.evalIdentifier(e, nargout)
	case *ast.EndExpression:
		size, ok := i.currentEnd()
		if !ok {
			return nil, runtime.NewError("end is only valid inside an index expression")
		}
		return runtime.NewScalar(float64(size)), nil
	case *ast.PrefixExpression:
		return i.evalPrefix(e)
	case *ast.PostfixExpression:
		return i.evalPostfix(e)
	case *ast.InfixExpression:
		return i.evalInfix(e)
	case *ast.RangeExpression:
		return i.evalRange(e)
	case *ast.MatrixLiteral:
		return i.evalMatrixLiteral(e)
	case *ast.CellLiteral:
		return i.evalCellLiteral(e)
	case *ast.CallExpression:
		return i.evalCall(e, nargout)
	case *ast.CellIndexExpression:
		return i.evalCellIndex(e)
	case *ast.FieldAccess:
		return i.evalFieldAccess(e)
	case *ast.AnonFunction:
		return &runtime.FuncHandleValue{Params: e.Params, Body: e.Body, Env: i.env}, nil
	case *ast.FuncHandle:
		return &runtime.FuncHandleValue{Name: e.Name}, nil
	}
	return nil, runtime.NewError("unsupported expression")
}

// evalIdentifier resolves a bare name: variables shadow user functions,
// which shadow builtins. A name that resolves to a function is called
// with no arguments, which is how zero-argument builtins like pi yield
// their value on bare reference.
func (i *Interpreter) evalIdentifier(e *ast.Identifier, nargout int) (runtime.Value, error) {
	if v, ok := i.env.Get(e.Value); ok {
		return v, nil
	}
	if fd, ok := i.userFuncs[e.Value]; ok {
		return i.callUserFunction(fd, nil, nargout)
	}
	if info, ok := i.registry.Get(e.Value); ok {
		return info.Function(i, nil, nargout)
	}
	return nil, runtime.NewError("undefined variable or function '%s'", e.Value)
}

func (i *Interpreter) evalPrefix(e *ast.PrefixExpression) (runtime.Value, error) {
	operand, err := i.evalExpression(e.Operand)
	if err != nil {
		return nil, err
	}
	m, merr := runtime.ToMatrix(operand)
	if merr != nil {
		return nil, runtime.NewError("operator '%s': %v", e.Operator, merr)
	}
	switch e.Operator {
	case "-":
		return runtime.NewMatrix(matrix.Negate(m)), nil
	case "+":
		return runtime.NewMatrix(m), nil
	case "~":
		return runtime.NewMatrix(matrix.LogicalNot(m)), nil
	}
	return nil, runtime.NewError("unknown prefix operator '%s'", e.Operator)
}

// evalPostfix handles the transposes. Both ' and .' are plain
// transposition: values are real, so there is no conjugate distinction.
func (i *Interpreter) evalPostfix(e *ast.PostfixExpression) (runtime.Value, error) {
	operand, err := i.evalExpression(e.Operand)
	if err != nil {
		return nil, err
	}
	if s, ok := runtime.First(operand).(*runtime.StringValue); ok {
		return s, nil
	}
	m, merr := runtime.ToMatrix(operand)
	if merr != nil {
		return nil, runtime.NewError("transpose: %v", merr)
	}
	return runtime.NewMatrix(m.Transpose()), nil
}

func (i *Interpreter) evalInfix(e *ast.InfixExpression) (runtime.Value, error) {
	// Short-circuit forms evaluate the right operand only if needed.
	switch e.Operator {
	case "&&", "||":
		left, err := i.evalExpression(e.Left)
		if err != nil {
			return nil, err
		}
		lv := runtime.Truthy(left)
		if e.Operator == "&&" && !lv {
			return runtime.NewBool(false), nil
		}
		if e.Operator == "||" && lv {
			return runtime.NewBool(true), nil
		}
		right, err := i.evalExpression(e.Right)
		if err != nil {
			return nil, err
		}
		return runtime.NewBool(runtime.Truthy(right)), nil
	}

	left, err := i.evalExpression(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpression(e.Right)
	if err != nil {
		return nil, err
	}

	// String concatenation-free arithmetic: strings participate through
	// their character codes, except that adding strings keeps char
	// semantics only via explicit conversion builtins.
	lm, lerr := runtime.ToMatrix(left)
	if lerr != nil {
		return nil, runtime.NewError("operator '%s': %v", e.Operator, lerr)
	}
	rm, rerr := runtime.ToMatrix(right)
	if rerr != nil {
		return nil, runtime.NewError("operator '%s': %v", e.Operator, rerr)
	}

	var out *matrix.Matrix
	var oerr error
	switch e.Operator {
	case "+":
		out, oerr = matrix.Add(lm, rm)
	case "-":
		out, oerr = matrix.Sub(lm, rm)
	case ".*":
		out, oerr = matrix.ElemMul(lm, rm)
	case "./":
		out, oerr = matrix.ElemDiv(lm, rm)
	case ".\\":
		out, oerr = matrix.ElemLeftDiv(lm, rm)
	case ".^":
		out, oerr = matrix.ElemPow(lm, rm)
	case "*":
		out, oerr = i.matMulOrScale(lm, rm)
	case "/":
		out, oerr = i.matRightDiv(lm, rm)
	case "\\":
		out, oerr = i.matLeftDiv(lm, rm)
	case "^":
		out, oerr = i.matPow(lm, rm)
	case "==", "~=", "<", ">", "<=", ">=":
		out, oerr = matrix.Compare(lm, rm, e.Operator)
	case "&":
		out, oerr = matrix.LogicalAnd(lm, rm)
	case "|":
		out, oerr = matrix.LogicalOr(lm, rm)
	default:
		return nil, runtime.NewError("unknown operator '%s'", e.Operator)
	}
	if oerr != nil {
		return nil, runtime.NewError("operator '%s': %v", e.Operator, oerr)
	}
	return runtime.NewMatrix(out), nil
}

func (i *Interpreter) matMulOrScale(a, b *matrix.Matrix) (*matrix.Matrix, error) {
	if a.IsScalar() || b.IsScalar() {
		return matrix.ElemMul(a, b)
	}
	return matrix.MatMul(a, b)
}

// matRightDiv computes a/b: element-wise against a scalar divisor,
// otherwise the solution of x*b = a.
func (i *Interpreter) matRightDiv(a, b *matrix.Matrix) (*matrix.Matrix, error) {
	if b.IsScalar() {
		return matrix.ElemDiv(a, b)
	}
	if a.IsScalar() {
		inv, err := matrix.Inv(b)
		if err != nil {
			return nil, err
		}
		return matrix.ElemMul(a, inv)
	}
	xt, err := matrix.Solve(b.Transpose(), a.Transpose())
	if err != nil {
		return nil, err
	}
	return xt.Transpose(), nil
}

// matLeftDiv computes a\b: the solution of a*x = b, or element-wise
// division under a scalar.
func (i *Interpreter) matLeftDiv(a, b *matrix.Matrix) (*matrix.Matrix, error) {
	if a.IsScalar() {
		return matrix.ElemLeftDiv(a, b)
	}
	return matrix.Solve(a, b)
}

// matPow computes a^b for scalar exponents: scalar bases use the scalar
// power, square-matrix bases with integer exponents use repeated
// multiplication (negative exponents through the inverse).
func (i *Interpreter) matPow(a, b *matrix.Matrix) (*matrix.Matrix, error) {
	if !b.IsScalar() {
		return nil, runtime.NewError("exponent must be a scalar")
	}
	p := b.ScalarValue()
	if a.IsScalar() {
		return matrix.Scalar(math.Pow(a.ScalarValue(), p)), nil
	}
	if !a.IsSquare() {
		return nil, runtime.NewError("matrix power requires a square base")
	}
	if p != math.Trunc(p) {
		return nil, runtime.NewError("matrix power requires an integer exponent")
	}
	n := int(p)
	base := a
	if n < 0 {
		inv, err := matrix.Inv(a)
		if err != nil {
			return nil, err
		}
		base = inv
		n = -n
	}
	result := matrix.Eye(a.Rows())
	for k := 0; k < n; k++ {
		var err error
		result, err = matrix.MatMul(result, base)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// evalRange evaluates start:step:stop into a row vector. A bare colon
// reaching here is outside an indexing context.
func (i *Interpreter) evalRange(e *ast.RangeExpression) (runtime.Value, error) {
	if e.IsBareColon() {
		return nil, runtime.NewError("a bare colon is only valid inside an index expression")
	}
	start, err := i.evalScalarOperand(e.Start, "range start")
	if err != nil {
		return nil, err
	}
	stop, err := i.evalScalarOperand(e.Stop, "range stop")
	if err != nil {
		return nil, err
	}
	step := 1.0
	if e.Step != nil {
		if step, err = i.evalScalarOperand(e.Step, "range step"); err != nil {
			return nil, err
		}
	}
	if step == 0 {
		return runtime.Empty(), nil
	}

	count := int(math.Floor((stop-start)/step + 1e-10))
	if count < 0 {
		return runtime.Empty(), nil
	}
	vals := make([]float64, count+1)
	for k := range vals {
		vals[k] = start + float64(k)*step
	}
	return runtime.NewMatrix(matrix.RowVector(vals)), nil
}

func (i *Interpreter) evalScalarOperand(expr ast.Expression, what string) (float64, error) {
	v, err := i.evalExpression(expr)
	if err != nil {
		return 0, err
	}
	s, serr := runtime.ToScalar(v)
	if serr != nil {
		return 0, runtime.NewError("%s: %v", what, serr)
	}
	return s, nil
}

// evalMatrixLiteral builds a matrix by horizontal concatenation within
// rows and vertical concatenation across rows. Elements may themselves
// be matrices, so [A B; C D] block-composes. A literal whose elements
// are all strings in a single row concatenates to a string.
func (i *Interpreter) evalMatrixLiteral(e *ast.MatrixLiteral) (runtime.Value, error) {
	if len(e.Rows) == 0 {
		return runtime.Empty(), nil
	}

	allStrings := true
	var rowMats []*matrix.Matrix
	var stringParts []string
	for _, row := range e.Rows {
		var elems []*matrix.Matrix
		for _, elemExpr := range row {
			v, err := i.evalExpression(elemExpr)
			if err != nil {
				return nil, err
			}
			v = runtime.First(v)
			if s, ok := v.(*runtime.StringValue); ok {
				stringParts = append(stringParts, s.Value)
			} else {
				allStrings = false
			}
			m, merr := runtime.ToMatrix(v)
			if merr != nil {
				return nil, runtime.NewError("matrix literal: %v", merr)
			}
			elems = append(elems, m)
		}
		rowMat, herr := matrix.HorzCat(elems...)
		if herr != nil {
			return nil, runtime.NewError("matrix literal: %v", herr)
		}
		rowMats = append(rowMats, rowMat)
	}

	if allStrings && len(e.Rows) == 1 && len(stringParts) > 0 {
		joined := ""
		for _, p := range stringParts {
			joined += p
		}
		return runtime.NewString(joined), nil
	}

	out, verr := matrix.VertCat(rowMats...)
	if verr != nil {
		return nil, runtime.NewError("matrix literal: %v", verr)
	}
	return runtime.NewMatrix(out), nil
}

func (i *Interpreter) evalCellLiteral(e *ast.CellLiteral) (runtime.Value, error) {
	if len(e.Rows) == 0 {
		return runtime.NewCell(0, 0), nil
	}
	cols := len(e.Rows[0])
	for _, row := range e.Rows {
		if len(row) != cols {
			return nil, runtime.NewError("cell literal rows must have equal length")
		}
	}
	cell := runtime.NewCell(len(e.Rows), cols)
	for r, row := range e.Rows {
		for c, elemExpr := range row {
			v, err := i.evalExpression(elemExpr)
			if err != nil {
				return nil, err
			}
			cell.Set(r, c, runtime.First(v))
		}
	}
	return cell, nil
}

// evalCall resolves the call-versus-index ambiguity: a callee bound to a
// data value indexes it, a function handle invokes, and otherwise user
// functions shadow builtins.
func (i *Interpreter) evalCall(e *ast.CallExpression, nargout int) (runtime.Value, error) {
	if ident, ok := e.Callee.(*ast.Identifier); ok {
		if v, bound := i.env.Get(ident.Value); bound {
			if handle, isHandle := v.(*runtime.FuncHandleValue); isHandle {
				args, err := i.evalCallArgs(e.Arguments)
				if err != nil {
					return nil, err
				}
				return i.callHandle(handle, args, nargout)
			}
			return i.indexValue(v, e.Arguments)
		}
		if fd, isUser := i.userFuncs[ident.Value]; isUser {
			args, err := i.evalCallArgs(e.Arguments)
			if err != nil {
				return nil, err
			}
			return i.callUserFunction(fd, args, nargout)
		}
		if info, isBuiltin := i.registry.Get(ident.Value); isBuiltin {
			args, err := i.evalCallArgs(e.Arguments)
			if err != nil {
				return nil, err
			}
			return info.Function(i, args, nargout)
		}
		return nil, runtime.NewError("undefined variable or function '%s'", ident.Value)
	}

	// Non-identifier callee: evaluate and either invoke or index.
	callee, err := i.evalExpression(e.Callee)
	if err != nil {
		return nil, err
	}
	callee = runtime.First(callee)
	if handle, isHandle := callee.(*runtime.FuncHandleValue); isHandle {
		args, err := i.evalCallArgs(e.Arguments)
		if err != nil {
			return nil, err
		}
		return i.callHandle(handle, args, nargout)
	}
	return i.indexValue(callee, e.Arguments)
}

// evalCallArgs evaluates function-call arguments. A value list produced
// by a cell brace expansion spreads into multiple arguments.
func (i *Interpreter) evalCallArgs(argExprs []ast.Expression) ([]runtime.Value, error) {
	var args []runtime.Value
	for _, expr := range argExprs {
		if r, ok := expr.(*ast.RangeExpression); ok && r.IsBareColon() {
			return nil, runtime.NewError("a bare colon is only valid inside an index expression")
		}
		v, err := i.evalExpression(expr)
		if err != nil {
			return nil, err
		}
		if vl, isList := v.(*runtime.ValueList); isList {
			args = append(args, vl.Values...)
			continue
		}
		args = append(args, v)
	}
	return args, nil
}

// callHandle dispatches a function handle: named handles resolve at
// call time (user functions shadow builtins), anonymous handles run
// their body in a child of the captured environment.
func (i *Interpreter) callHandle(handle *runtime.FuncHandleValue, args []runtime.Value, nargout int) (runtime.Value, error) {
	if !handle.IsAnonymous() {
		if fd, ok := i.userFuncs[handle.Name]; ok {
			return i.callUserFunction(fd, args, nargout)
		}
		if info, ok := i.registry.Get(handle.Name); ok {
			return info.Function(i, args, nargout)
		}
		return nil, runtime.NewError("undefined function '%s'", handle.Name)
	}

	if len(args) > len(handle.Params) {
		return nil, runtime.NewError("too many input arguments for anonymous function")
	}
	if i.callDepth >= maxCallDepth {
		return nil, runtime.NewError("maximum recursion depth exceeded")
	}

	env := runtime.NewEnclosedEnvironment(handle.Env)
	for idx, param := range handle.Params {
		if idx < len(args) {
			env.Define(param.Value, runtime.First(args[idx]))
		}
	}

	savedEnv := i.env
	savedEnds := i.endSizes
	i.env = env
	i.endSizes = nil
	i.callDepth++
	defer func() {
		i.env = savedEnv
		i.endSizes = savedEnds
		i.callDepth--
	}()

	return i.evalExpressionN(handle.Body, nargout)
}

// callUserFunction pushes an environment rooted at the global scope,
// binds parameters positionally (missing trailing parameters stay
// unbound), binds nargin and nargout, executes the body, and collects
// the declared return variables.
func (i *Interpreter) callUserFunction(fd *ast.FunctionDecl, args []runtime.Value, nargout int) (runtime.Value, error) {
	if len(args) > len(fd.Params) {
		return nil, runtime.NewError("%s: too many input arguments", fd.Name)
	}
	if i.callDepth >= maxCallDepth {
		return nil, runtime.NewError("maximum recursion depth exceeded")
	}

	env := runtime.NewEnclosedEnvironment(i.globalEnv)
	for idx, param := range fd.Params {
		if param.Value == "~" {
			continue
		}
		if idx < len(args) {
			env.Define(param.Value, runtime.First(args[idx]))
		}
	}
	env.Define("nargin", runtime.NewScalar(float64(len(args))))
	env.Define("nargout", runtime.NewScalar(float64(nargout)))

	frame := &callFrame{funcName: fd.Name}
	savedEnv := i.env
	savedEnds := i.endSizes
	i.env = env
	i.endSizes = nil
	i.frames = append(i.frames, frame)
	i.callDepth++
	defer func() {
		i.env = savedEnv
		i.endSizes = savedEnds
		i.frames = i.frames[:len(i.frames)-1]
		i.callDepth--
	}()

	err := i.evalBlock(fd.Body)
	if err != nil && err != runtime.SignalReturn {
		return nil, err
	}

	// Persistent variables survive in the engine-wide store.
	if len(frame.persistents) > 0 {
		store := i.persistents[fd.Name]
		for _, name := range frame.persistents {
			if v, ok := env.GetLocal(name); ok {
				store[name] = v
			}
		}
	}

	if len(fd.Returns) == 0 {
		return nil, nil
	}
	outputs := make([]runtime.Value, 0, len(fd.Returns))
	for idx, ret := range fd.Returns {
		v, ok := env.GetLocal(ret.Value)
		if !ok {
			if idx < nargout {
				return nil, runtime.NewError("%s: output argument '%s' is not assigned", fd.Name, ret.Value)
			}
			break
		}
		outputs = append(outputs, v)
	}
	if len(outputs) == 0 {
		return nil, nil
	}
	if len(outputs) == 1 {
		return outputs[0], nil
	}
	return &runtime.ValueList{Values: outputs}, nil
}

func (i *Interpreter) evalCellIndex(e *ast.CellIndexExpression) (runtime.Value, error) {
	callee, err := i.evalExpression(e.Callee)
	if err != nil {
		return nil, err
	}
	cell, ok := runtime.First(callee).(*runtime.CellValue)
	if !ok {
		return nil, runtime.NewError("brace indexing requires a cell array, got %s", callee.Type())
	}
	return i.indexCellContents(cell, e.Arguments)
}

func (i *Interpreter) evalFieldAccess(e *ast.FieldAccess) (runtime.Value, error) {
	object, err := i.evalExpression(e.Object)
	if err != nil {
		return nil, err
	}
	s, ok := runtime.First(object).(*runtime.StructValue)
	if !ok {
		return nil, runtime.NewError("field access requires a struct, got %s", object.Type())
	}
	v, has := s.Get(e.Field)
	if !has {
		return nil, runtime.NewError("reference to non-existent field '%s'", e.Field)
	}
	return v, nil
}
