package env

import "fmt"

// UndefinedVariableError reports a reference to a name with no binding.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("variable '%s' not defined", e.Name)
}

// RuntimeError attaches the source position of the failing node to an
// evaluation error. Line is 0 when the position is unknown.
type RuntimeError struct {
	Line   int
	Column int
	Err    error
}

func (e *RuntimeError) Error() string {
	if e.Line == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }
