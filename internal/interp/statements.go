package interp

import (
	"github.com/cwbudde/go-mlab/internal/ast"
	"github.com/cwbudde/go-mlab/internal/interp/runtime"
)

// evalStatement executes one statement. The returned value is the
// statement's expression result when it has one (used for ans and for
// the embedder's final value); statements without results return nil.
func (i *Interpreter) evalStatement(stmt ast.Statement) (runtime.Value, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return i.evalExpressionStatement(s)
	case *ast.AssignStatement:
		return i.evalAssignStatement(s)
	case *ast.MultiAssignStatement:
		return i.evalMultiAssign(s)
	case *ast.IfStatement:
		return nil, i.evalIfStatement(s)
	case *ast.ForStatement:
		return nil, i.evalForStatement(s)
	case *ast.WhileStatement:
		return nil, i.evalWhileStatement(s)
	case *ast.SwitchStatement:
		return nil, i.evalSwitchStatement(s)
	case *ast.TryStatement:
		return nil, i.evalTryStatement(s)
	case *ast.BreakStatement:
		return nil, runtime.SignalBreak
	case *ast.ContinueStatement:
		return nil, runtime.SignalContinue
	case *ast.ReturnStatement:
		return nil, runtime.SignalReturn
	case *ast.GlobalStatement:
		for _, name := range s.Names {
			i.env.DeclareGlobal(name.Value)
		}
		return nil, nil
	case *ast.PersistentStatement:
		return nil, i.evalPersistentStatement(s)
	case *ast.FunctionDecl:
		i.userFuncs[s.Name] = s
		return nil, nil
	}
	return nil, runtime.NewError("unsupported statement")
}

func (i *Interpreter) evalBlock(body []ast.Statement) error {
	for _, stmt := range body {
		if _, err := i.evalStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evalExpressionStatement(s *ast.ExpressionStatement) (runtime.Value, error) {
	v, err := i.evalExpression(s.Expression)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	v = runtime.First(v)
	i.env.Define("ans", v)
	if s.PrintResult {
		i.Output(i.formatBinding("ans", v))
	}
	return v, nil
}

func (i *Interpreter) evalAssignStatement(s *ast.AssignStatement) (runtime.Value, error) {
	v, err := i.evalExpression(s.Value)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, runtime.NewError("right-hand side of assignment produced no value")
	}
	v = runtime.First(v)
	if err := i.assignTo(s.Target, v); err != nil {
		return nil, err
	}
	if s.PrintResult {
		if name, stored, ok := i.targetBinding(s.Target); ok {
			i.Output(i.formatBinding(name, stored))
		}
	}
	return nil, nil
}

// targetBinding resolves the root variable of an assignment target so
// echo can print the full updated value.
func (i *Interpreter) targetBinding(target ast.Expression) (string, runtime.Value, bool) {
	name := rootName(target)
	if name == "" {
		return "", nil, false
	}
	v, ok := i.env.Get(name)
	return name, v, ok
}

func rootName(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e.Value
	case *ast.CallExpression:
		return rootName(e.Callee)
	case *ast.CellIndexExpression:
		return rootName(e.Callee)
	case *ast.FieldAccess:
		return rootName(e.Object)
	}
	return ""
}

func (i *Interpreter) evalMultiAssign(s *ast.MultiAssignStatement) (runtime.Value, error) {
	v, err := i.evalExpressionN(s.Value, len(s.Targets))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, runtime.NewError("right-hand side of assignment produced no value")
	}

	var values []runtime.Value
	if vl, ok := v.(*runtime.ValueList); ok {
		values = vl.Values
	} else {
		values = []runtime.Value{v}
	}
	if len(values) < len(s.Targets) {
		return nil, runtime.NewError("too many output arguments: requested %d, got %d", len(s.Targets), len(values))
	}

	for idx, target := range s.Targets {
		if target == nil {
			continue // discarded with ~
		}
		if err := i.assignTo(target, runtime.First(values[idx])); err != nil {
			return nil, err
		}
		if s.PrintResult {
			if name, stored, ok := i.targetBinding(target); ok {
				i.Output(i.formatBinding(name, stored))
			}
		}
	}
	return nil, nil
}

func (i *Interpreter) evalIfStatement(s *ast.IfStatement) error {
	for _, clause := range s.Clauses {
		if clause.Condition == nil {
			return i.evalBlock(clause.Body)
		}
		cond, err := i.evalExpression(clause.Condition)
		if err != nil {
			return err
		}
		if runtime.Truthy(cond) {
			return i.evalBlock(clause.Body)
		}
	}
	return nil
}

// evalForStatement evaluates the range once to a matrix and iterates
// over its columns. For a row vector the loop variable is a scalar on
// each iteration; otherwise it is the full column.
func (i *Interpreter) evalForStatement(s *ast.ForStatement) error {
	rangeVal, err := i.evalExpression(s.Range)
	if err != nil {
		return err
	}
	m, merr := runtime.ToMatrix(rangeVal)
	if merr != nil {
		return runtime.NewError("for: range must be numeric: %v", merr)
	}

	for col := 0; col < m.Cols(); col++ {
		var loopVal runtime.Value
		if m.Rows() == 1 {
			loopVal = runtime.NewScalar(m.At(0, col))
		} else {
			loopVal = runtime.NewMatrix(m.Col(col))
		}
		i.env.Define(s.Var.Value, loopVal)

		if err := i.evalBlock(s.Body); err != nil {
			if err == runtime.SignalBreak {
				return nil
			}
			if err == runtime.SignalContinue {
				continue
			}
			return err
		}
	}
	return nil
}

func (i *Interpreter) evalWhileStatement(s *ast.WhileStatement) error {
	for {
		cond, err := i.evalExpression(s.Condition)
		if err != nil {
			return err
		}
		if !runtime.Truthy(cond) {
			return nil
		}
		if err := i.evalBlock(s.Body); err != nil {
			if err == runtime.SignalBreak {
				return nil
			}
			if err == runtime.SignalContinue {
				continue
			}
			return err
		}
	}
}

// evalSwitchStatement compares by scalar equality for numerics and
// textual equality for strings; a cell case value matches any element.
// There is no fall-through.
func (i *Interpreter) evalSwitchStatement(s *ast.SwitchStatement) error {
	subject, err := i.evalExpression(s.Subject)
	if err != nil {
		return err
	}
	subject = runtime.First(subject)

	for _, c := range s.Cases {
		caseVal, err := i.evalExpression(c.Value)
		if err != nil {
			return err
		}
		if switchMatches(subject, runtime.First(caseVal)) {
			return i.evalBlock(c.Body)
		}
	}
	if s.Otherwise != nil {
		return i.evalBlock(s.Otherwise)
	}
	return nil
}

func switchMatches(subject, caseVal runtime.Value) bool {
	if cell, ok := caseVal.(*runtime.CellValue); ok {
		for idx := 0; idx < cell.Numel(); idx++ {
			if switchMatches(subject, runtime.First(cell.LinearGet(idx))) {
				return true
			}
		}
		return false
	}
	switch subj := subject.(type) {
	case *runtime.StringValue:
		if cs, ok := caseVal.(*runtime.StringValue); ok {
			return subj.Value == cs.Value
		}
	case *runtime.MatrixValue:
		if cm, ok := caseVal.(*runtime.MatrixValue); ok {
			if subj.Mat.IsScalar() && cm.Mat.IsScalar() {
				return subj.Mat.ScalarValue() == cm.Mat.ScalarValue()
			}
		}
	}
	return false
}

// evalTryStatement transfers control to the catch body on any runtime
// error; break/continue/return signals bypass the catch.
func (i *Interpreter) evalTryStatement(s *ast.TryStatement) error {
	err := i.evalBlock(s.Body)
	if err == nil {
		return nil
	}
	if runtime.IsFlowSignal(err) {
		return err
	}

	if s.CatchVar != nil {
		errStruct := runtime.NewStruct()
		message := err.Error()
		identifier := ""
		if re, ok := err.(*runtime.RuntimeError); ok {
			message = re.Message
			identifier = re.Identifier
		}
		errStruct.SetField("message", runtime.NewString(message))
		errStruct.SetField("identifier", runtime.NewString(identifier))
		i.env.Define(s.CatchVar.Value, errStruct)
	}
	return i.evalBlock(s.Catch)
}

func (i *Interpreter) evalPersistentStatement(s *ast.PersistentStatement) error {
	if len(i.frames) == 0 {
		return runtime.NewError("persistent is only allowed inside a function")
	}
	frame := i.frames[len(i.frames)-1]
	store, ok := i.persistents[frame.funcName]
	if !ok {
		store = make(map[string]runtime.Value)
		i.persistents[frame.funcName] = store
	}
	for _, name := range s.Names {
		if stored, ok := store[name.Value]; ok {
			i.env.Define(name.Value, stored)
		} else {
			i.env.Define(name.Value, runtime.Empty())
		}
		frame.persistents = append(frame.persistents, name.Value)
	}
	return nil
}
