package env

import (
	"sort"

	"github.com/agenthands/mathlamp/pkg/core/value"
)

// Environment is the single global namespace of a MathLamp run.
// It is owned by one evaluator at a time and is not safe for concurrent use.
type Environment struct {
	values map[string]value.Value
}

// New creates an empty environment.
func New() *Environment {
	return &Environment{values: make(map[string]value.Value)}
}

// Set binds or rebinds name.
func (e *Environment) Set(name string, v value.Value) {
	e.values[name] = v
}

// Get retrieves a binding.
func (e *Environment) Get(name string) (value.Value, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Lookup is Get with an *UndefinedVariableError for unbound names.
func (e *Environment) Lookup(name string) (value.Value, error) {
	v, ok := e.values[name]
	if !ok {
		return value.Value{}, &UndefinedVariableError{Name: name}
	}
	return v, nil
}

// Len returns the number of bindings.
func (e *Environment) Len() int {
	return len(e.values)
}

// Keys returns the bound names in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the current bindings.
func (e *Environment) Snapshot() map[string]value.Value {
	out := make(map[string]value.Value, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}
