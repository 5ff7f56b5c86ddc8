// Package engine is the embedder API of the interpreter: it wires the
// lexer, parser and evaluator behind a single Execute call and exposes
// the side-effect callbacks the host renders from.
package engine

import (
	"github.com/cwbudde/go-mlab/internal/interp"
	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/lexer"
	"github.com/cwbudde/go-mlab/internal/parser"
	"github.com/cwbudde/go-mlab/internal/plot"
)

// Value is the runtime value type results are returned as.
type Value = runtime.Value

// The three error kinds Execute returns, aliased so embedders can
// distinguish them without reaching into internal packages.
type (
	LexerError   = lexer.LexerError
	ParseError   = parser.ParseError
	RuntimeError = runtime.RuntimeError
)

// Position locates lexical and parse errors in the source.
type Position = lexer.Position

// Engine is one interpreter session. State (workspace variables, user
// functions, the current figure, the ans slot) persists across Execute
// calls. An Engine is not safe for concurrent use; embedders wanting
// parallel sessions instantiate independent engines.
type Engine struct {
	interp *interp.Interpreter
}

// New creates an engine with an empty workspace.
func New() *Engine {
	return &Engine{interp: interp.New()}
}

// SetOutputCallback installs the sink for console text. Out-of-band
// payloads arrive on the same channel under the __audio:, __plot3d: and
// __sym: prefixes.
func (e *Engine) SetOutputCallback(fn func(text string)) {
	e.interp.SetOutputCallback(fn)
}

// SetPlotCallback installs the sink for figure snapshots, invoked after
// every plotting call.
func (e *Engine) SetPlotCallback(fn func(fig *plot.Figure)) {
	e.interp.SetPlotCallback(fn)
}

// Execute lexes, parses and runs source, returning the value of the
// last expression. Errors are *lexer.LexerError, *parser.ParseError or
// *runtime.RuntimeError.
func (e *Engine) Execute(source string) (Value, error) {
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := l.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	if err := p.FirstError(); err != nil {
		return nil, err
	}
	return e.interp.Run(program)
}

// CurrentEnv returns the engine's global environment for read-only
// inspection of variable names and values.
func (e *Engine) CurrentEnv() *interp.Environment {
	return e.interp.GlobalEnv()
}

// Clear resets the workspace variables, leaving user functions and
// figures in place.
func (e *Engine) Clear() {
	e.interp.ClearWorkspace(nil)
}
