// Package builtins provides the built-in function registry for the
// interpreter.
//
// Built-in functions are implemented as plain functions taking a Context
// interface rather than methods on the interpreter. The Context exposes
// the narrow surface builtins need (output emission, figure state, the
// RNG, timer slot and a way to call function handles), which keeps this
// package free of a circular dependency on the interpreter package.
package builtins

import (
	"math/rand"
	"sort"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/plot"
)

// Value is aliased from the runtime package; all built-in functions work
// with Value.
type Value = runtime.Value

// Context provides the minimal interface built-in functions use to
// interact with the interpreter.
type Context interface {
	// Output emits text through the embedder's output callback.
	Output(text string)

	// Figure returns the current figure, creating figure 1 on demand.
	Figure() *plot.Figure

	// SwitchFigure makes the figure with the given id current, creating
	// it when missing.
	SwitchFigure(id int) *plot.Figure

	// ResetFigure clears the current figure's series and decorations.
	ResetFigure() *plot.Figure

	// CloseFigure discards the current figure, or every figure.
	CloseFigure(all bool)

	// EmitFigure pushes a snapshot of the current figure to the host.
	EmitFigure()

	// Call invokes a function handle with the given arguments. nargout
	// tells the callee how many outputs the caller wants.
	Call(fn Value, args []Value, nargout int) (Value, error)

	// EvalString evaluates source text in an isolated workspace sharing
	// this engine's function table; used by str2num.
	EvalString(source string) (Value, error)

	// Rand returns the engine's random number generator.
	Rand() *rand.Rand

	// StartTimer records the tic timestamp. Nested tic overwrites.
	StartTimer()

	// ElapsedSeconds returns the seconds since tic; false before any tic.
	ElapsedSeconds() (float64, bool)

	// Env returns the current environment for workspace inspection.
	Env() *runtime.Environment

	// ClearWorkspace removes the named variables, or all when empty.
	ClearWorkspace(names []string)

	// Exists classifies a name: 0 unknown, 1 variable, 2 user function,
	// 5 built-in.
	Exists(name string) int

	// NumberFormat returns the active display format ("short" or "long").
	NumberFormat() string

	// SetNumberFormat switches the display format.
	SetNumberFormat(format string)

	// DisplayValue renders a value the way result echo does, without the
	// name prefix.
	DisplayValue(v Value) string
}

// BuiltinFunc is the implementation of a built-in function. nargout is
// the number of outputs the call site expects; functions with multiple
// returns answer with a *runtime.ValueList.
type BuiltinFunc func(ctx Context, args []Value, nargout int) (Value, error)

// Category groups built-in functions for listing and documentation.
type Category string

// Function categories.
const (
	CategoryMath       Category = "math"
	CategoryMatrix     Category = "matrix"
	CategoryLinalg     Category = "linalg"
	CategoryStats      Category = "stats"
	CategoryStrings    Category = "strings"
	CategoryIO         Category = "io"
	CategoryTypes      Category = "types"
	CategorySignal     Category = "signal"
	CategoryScientific Category = "scientific"
	CategoryPlotting   Category = "plotting"
	CategoryAudio      Category = "audio"
	CategorySymbolic   Category = "symbolic"
	CategoryHigher     Category = "higher-order"
)

// FunctionInfo holds metadata about a built-in function.
type FunctionInfo struct {
	Name        string
	Function    BuiltinFunc
	Category    Category
	Description string
}

// Registry manages the built-in function table. Lookup is
// case-sensitive, matching the language's identifier semantics.
type Registry struct {
	functions  map[string]*FunctionInfo
	categories map[Category][]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		functions:  make(map[string]*FunctionInfo),
		categories: make(map[Category][]string),
	}
}

// Default creates a registry with every built-in registered.
func Default() *Registry {
	r := NewRegistry()
	registerMath(r)
	registerMatrix(r)
	registerLinalg(r)
	registerStats(r)
	registerStrings(r)
	registerTypes(r)
	registerIO(r)
	registerScientific(r)
	registerSignal(r)
	registerPlotting(r)
	registerAudio(r)
	registerSymbolic(r)
	registerHigher(r)
	return r
}

// Register adds a function to the registry, replacing any previous entry
// with the same name.
func (r *Registry) Register(info *FunctionInfo) {
	if _, exists := r.functions[info.Name]; !exists {
		r.categories[info.Category] = append(r.categories[info.Category], info.Name)
	}
	r.functions[info.Name] = info
}

func (r *Registry) register(name string, cat Category, desc string, fn BuiltinFunc) {
	r.Register(&FunctionInfo{Name: name, Function: fn, Category: cat, Description: desc})
}

// Get looks up a function by name.
func (r *Registry) Get(name string) (*FunctionInfo, bool) {
	info, ok := r.functions[name]
	return info, ok
}

// Has reports whether a function is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.functions[name]
	return ok
}

// Names returns all registered function names sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByCategory returns the sorted function names of one category.
func (r *Registry) ByCategory(cat Category) []string {
	names := append([]string(nil), r.categories[cat]...)
	sort.Strings(names)
	return names
}
