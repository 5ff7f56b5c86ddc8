package runtime

import "sort"

// Environment is a symbol table with an optional outer scope. Named user
// functions execute in environments rooted at the global scope, while
// anonymous functions root at their captured environment, so the chain
// depth stays shallow.
//
// Names declared global redirect reads and writes to the root
// environment of the chain.
type Environment struct {
	store   map[string]Value
	globals map[string]bool
	outer   *Environment
}

// NewEnvironment creates a new root-level environment with no outer scope.
func NewEnvironment() *Environment {
	return &Environment{
		store:   make(map[string]Value),
		globals: make(map[string]bool),
	}
}

// NewEnclosedEnvironment creates an environment enclosed by outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Root returns the root environment of the chain.
func (e *Environment) Root() *Environment {
	env := e
	for env.outer != nil {
		env = env.outer
	}
	return env
}

// DeclareGlobal marks a name as global in this scope. If the root has no
// binding for the name yet, it is initialized to the empty matrix.
func (e *Environment) DeclareGlobal(name string) {
	e.globals[name] = true
	root := e.Root()
	if _, ok := root.store[name]; !ok {
		root.store[name] = Empty()
	}
}

// Get retrieves a value by name, walking the scope chain. Names declared
// global in this scope read from the root.
func (e *Environment) Get(name string) (Value, bool) {
	if e.globals[name] {
		v, ok := e.Root().store[name]
		return v, ok
	}
	if v, ok := e.store[name]; ok {
		return v, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// GetLocal retrieves a value from this scope only.
func (e *Environment) GetLocal(name string) (Value, bool) {
	v, ok := e.store[name]
	return v, ok
}

// Define binds a name in this scope, or in the root for names declared
// global here.
func (e *Environment) Define(name string, v Value) {
	if e.globals[name] {
		e.Root().store[name] = v
		return
	}
	e.store[name] = v
}

// Remove deletes a binding from this scope.
func (e *Environment) Remove(name string) {
	delete(e.store, name)
}

// Has reports whether the name resolves anywhere in the chain.
func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Names returns the sorted names bound in this scope.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes every binding from this scope.
func (e *Environment) Clear() {
	e.store = make(map[string]Value)
	e.globals = make(map[string]bool)
}
