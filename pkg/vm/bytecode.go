package vm

import "github.com/agenthands/mathlamp/pkg/core/value"

// Position is the source location an instruction was emitted for.
type Position struct {
	Line   uint32
	Column uint32
}

// Bytecode represents the compiled output of a program.
type Bytecode struct {
	Instructions []uint32
	Constants    []value.Value
	Names        []string
	Positions    []Position // parallel to Instructions
}
