// Package interp implements the tree-walking evaluator for MATLAB
// programs: the value model, environment handling, control flow and the
// bridge to the built-in function registry.
package interp

import (
	"math"
	"math/rand"
	"time"

	"github.com/cwbudde/go-mlab/internal/ast"
	"github.com/cwbudde/go-mlab/internal/interp/builtins"
	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/lexer"
	"github.com/cwbudde/go-mlab/internal/parser"
	"github.com/cwbudde/go-mlab/internal/plot"
)

// Value and RuntimeError are re-exported from the runtime package for
// embedders.
type (
	Value        = runtime.Value
	Environment  = runtime.Environment
	RuntimeError = runtime.RuntimeError
)

// callFrame tracks one user-function activation, for persistent
// variable writeback.
type callFrame struct {
	funcName    string
	persistents []string
}

// Interpreter executes AST nodes and owns all engine-scoped state: the
// global environment, the user-function table, figures, the RNG, the
// tic timestamp and the ans slot.
type Interpreter struct {
	globalEnv *runtime.Environment
	env       *runtime.Environment
	registry  *builtins.Registry
	userFuncs map[string]*ast.FunctionDecl

	outputFn func(string)
	plotFn   func(*plot.Figure)

	figures    map[int]*plot.Figure
	currentFig int

	rand         *rand.Rand
	ticTime      time.Time
	ticSet       bool
	numberFormat string

	// persistents maps function name to its surviving variable store.
	persistents map[string]map[string]runtime.Value
	frames      []*callFrame

	// endSizes is the ambient axis-size stack `end` resolves against.
	endSizes []int

	callDepth int
}

const maxCallDepth = 500

// New creates an interpreter with a fresh global environment and the
// default builtin registry.
func New() *Interpreter {
	env := runtime.NewEnvironment()
	i := &Interpreter{
		globalEnv:    env,
		env:          env,
		registry:     builtins.Default(),
		userFuncs:    make(map[string]*ast.FunctionDecl),
		figures:      make(map[int]*plot.Figure),
		rand:         rand.New(rand.NewSource(42)),
		numberFormat: "short",
		persistents:  make(map[string]map[string]runtime.Value),
	}

	// i and j are pre-bound to NaN: complex arithmetic collapses, but
	// both names remain ordinary variables that assignment may shadow.
	env.Define("i", runtime.NewScalar(math.NaN()))
	env.Define("j", runtime.NewScalar(math.NaN()))
	return i
}

// SetOutputCallback installs the textual output sink.
func (i *Interpreter) SetOutputCallback(fn func(string)) {
	i.outputFn = fn
}

// SetPlotCallback installs the figure sink.
func (i *Interpreter) SetPlotCallback(fn func(*plot.Figure)) {
	i.plotFn = fn
}

// GlobalEnv returns the engine's root environment for inspection.
func (i *Interpreter) GlobalEnv() *runtime.Environment {
	return i.globalEnv
}

// Run executes a parsed program. Function definitions are hoisted into
// the engine-wide user-function table before any statement runs. The
// value of the last evaluated expression is returned.
func (i *Interpreter) Run(program *ast.Program) (runtime.Value, error) {
	for _, stmt := range program.Statements {
		if fd, ok := stmt.(*ast.FunctionDecl); ok {
			i.userFuncs[fd.Name] = fd
		}
	}

	var last runtime.Value
	for _, stmt := range program.Statements {
		if _, ok := stmt.(*ast.FunctionDecl); ok {
			continue
		}
		v, err := i.evalStatement(stmt)
		if err != nil {
			if runtime.IsFlowSignal(err) {
				return nil, runtime.NewError("%s", err.Error())
			}
			return nil, err
		}
		if v != nil {
			last = v
		}
	}
	return last, nil
}

// --- builtins.Context implementation ---

// Output emits text through the output callback.
func (i *Interpreter) Output(text string) {
	if i.outputFn != nil {
		i.outputFn(text)
	}
}

// Figure returns the current figure, creating figure 1 on demand.
func (i *Interpreter) Figure() *plot.Figure {
	if i.currentFig == 0 {
		i.currentFig = 1
	}
	fig, ok := i.figures[i.currentFig]
	if !ok {
		fig = plot.NewFigure(i.currentFig)
		i.figures[i.currentFig] = fig
	}
	return fig
}

// SwitchFigure makes the figure with the given id current.
func (i *Interpreter) SwitchFigure(id int) *plot.Figure {
	if id < 1 {
		id = 1
	}
	i.currentFig = id
	return i.Figure()
}

// ResetFigure clears the current figure in place.
func (i *Interpreter) ResetFigure() *plot.Figure {
	fig := plot.NewFigure(i.Figure().ID)
	i.figures[fig.ID] = fig
	return fig
}

// CloseFigure discards the current figure or all of them.
func (i *Interpreter) CloseFigure(all bool) {
	if all {
		i.figures = make(map[int]*plot.Figure)
		i.currentFig = 0
		return
	}
	delete(i.figures, i.currentFig)
	i.currentFig = 0
}

// EmitFigure pushes a snapshot of the current figure to the host.
func (i *Interpreter) EmitFigure() {
	if i.plotFn != nil {
		i.plotFn(i.Figure().Clone())
	}
}

// Call invokes a function handle value with the given arguments.
func (i *Interpreter) Call(fn runtime.Value, args []runtime.Value, nargout int) (runtime.Value, error) {
	handle, ok := runtime.First(fn).(*runtime.FuncHandleValue)
	if !ok {
		return nil, runtime.NewError("value of class %s is not callable", fn.Type())
	}
	return i.callHandle(handle, args, nargout)
}

// EvalString runs source text in an isolated workspace that shares this
// engine's function table and registry.
func (i *Interpreter) EvalString(source string) (runtime.Value, error) {
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if err := p.FirstError(); err != nil {
		return nil, err
	}

	savedEnv := i.env
	savedGlobal := i.globalEnv
	scratch := runtime.NewEnvironment()
	i.env = scratch
	i.globalEnv = scratch
	defer func() {
		i.env = savedEnv
		i.globalEnv = savedGlobal
	}()
	return i.Run(program)
}

// Rand returns the engine's random number generator.
func (i *Interpreter) Rand() *rand.Rand {
	return i.rand
}

// StartTimer records the tic timestamp; nested tic overwrites.
func (i *Interpreter) StartTimer() {
	i.ticTime = time.Now()
	i.ticSet = true
}

// ElapsedSeconds returns the time since tic.
func (i *Interpreter) ElapsedSeconds() (float64, bool) {
	if !i.ticSet {
		return 0, false
	}
	return time.Since(i.ticTime).Seconds(), true
}

// Env returns the current environment.
func (i *Interpreter) Env() *runtime.Environment {
	return i.env
}

// ClearWorkspace removes the named variables from the current scope, or
// everything when no names are given.
func (i *Interpreter) ClearWorkspace(names []string) {
	if len(names) == 0 {
		i.env.Clear()
		return
	}
	for _, name := range names {
		i.env.Remove(name)
	}
}

// Exists classifies a name the way the exist builtin reports it.
func (i *Interpreter) Exists(name string) int {
	if i.env.Has(name) {
		return 1
	}
	if _, ok := i.userFuncs[name]; ok {
		return 2
	}
	if i.registry.Has(name) {
		return 5
	}
	return 0
}

// NumberFormat returns the active display format.
func (i *Interpreter) NumberFormat() string {
	return i.numberFormat
}

// SetNumberFormat switches between short and long display.
func (i *Interpreter) SetNumberFormat(format string) {
	i.numberFormat = format
}

// DisplayValue renders a value the way result echo does.
func (i *Interpreter) DisplayValue(v runtime.Value) string {
	return i.formatValue(runtime.First(v))
}

// pushEnd/popEnd maintain the ambient axis-size stack for `end`.
func (i *Interpreter) pushEnd(size int) {
	i.endSizes = append(i.endSizes, size)
}

func (i *Interpreter) popEnd() {
	i.endSizes = i.endSizes[:len(i.endSizes)-1]
}

func (i *Interpreter) currentEnd() (int, bool) {
	if len(i.endSizes) == 0 {
		return 0, false
	}
	return i.endSizes[len(i.endSizes)-1], true
}
