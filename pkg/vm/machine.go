package vm

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/agenthands/mathlamp/pkg/core/env"
	"github.com/agenthands/mathlamp/pkg/core/value"
)

var (
	ErrStackOverflow  = errors.New("vm: stack overflow")
	ErrStackUnderflow = errors.New("vm: stack underflow")
	ErrGasExhausted   = errors.New("vm: gas exhausted")
	ErrBadOperand     = errors.New("vm: operand out of range")
	ErrNoEnvironment  = errors.New("vm: no environment attached")
)

const StackDepth = 128

// Machine is a stack machine executing one program against a global
// Environment. It uses a fixed-size stack to keep a predictable footprint.
type Machine struct {
	Stack [StackDepth]value.Value
	SP    int // Stack Pointer

	IP   int      // Instruction Pointer
	Code []uint32 // Bytecode instructions

	Constants []value.Value // Constant pool
	Names     []string      // Global names referenced by LOAD_G/STORE_G
	Positions []Position

	Globals *env.Environment
	Out     io.Writer
}

// Load points the machine at compiled bytecode and rewinds it.
func (m *Machine) Load(bc *Bytecode) {
	m.Code = bc.Instructions
	m.Constants = bc.Constants
	m.Names = bc.Names
	m.Positions = bc.Positions
	m.IP = 0
	m.SP = 0
}

// Reset clears the machine state for reuse (sync.Pool compliant).
func (m *Machine) Reset() {
	m.SP = 0
	m.IP = 0
	m.Code = nil
	m.Constants = nil
	m.Names = nil
	m.Positions = nil
	m.Globals = nil
	m.Out = nil

	for i := range m.Stack {
		m.Stack[i] = value.Value{}
	}
}

// Push adds a value to the stack. Panics on overflow.
func (m *Machine) Push(v value.Value) {
	if m.SP >= StackDepth {
		panic(ErrStackOverflow)
	}
	m.Stack[m.SP] = v
	m.SP++
}

// Pop removes and returns the top value from the stack. Panics on underflow.
func (m *Machine) Pop() value.Value {
	if m.SP <= 0 {
		panic(ErrStackUnderflow)
	}
	m.SP--
	return m.Stack[m.SP]
}

// Run executes instructions until HALT, error, or gas exhaustion.
// Arithmetic and lookup failures come back as *env.RuntimeError carrying
// the position of the instruction that failed.
func (m *Machine) Run(gasLimit int) (err error) {
	// Convert internal stack panics to errors
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && (e == ErrStackOverflow || e == ErrStackUnderflow) {
				err = e
				return
			}
			if _, ok := r.(runtime.Error); ok {
				err = ErrStackUnderflow
				return
			}
			panic(r)
		}
	}()

	if m.Globals == nil {
		return ErrNoEnvironment
	}

	for i := 0; i < gasLimit; i++ {
		if m.IP >= len(m.Code) {
			return nil
		}
		op, arg := Decode(m.Code[m.IP])

		switch op {
		case OP_HALT:
			return nil

		case OP_NOOP:

		case OP_PUSH_C:
			if int(arg) >= len(m.Constants) {
				return ErrBadOperand
			}
			m.Push(m.Constants[arg])

		case OP_LOAD_G:
			if int(arg) >= len(m.Names) {
				return ErrBadOperand
			}
			v, lerr := m.Globals.Lookup(m.Names[arg])
			if lerr != nil {
				return m.fail(lerr)
			}
			m.Push(v)

		case OP_STORE_G:
			if int(arg) >= len(m.Names) {
				return ErrBadOperand
			}
			m.Globals.Set(m.Names[arg], m.Pop())

		case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD:
			b := m.Pop()
			a := m.Pop()
			res, aerr := arith(op, a, b)
			if aerr != nil {
				return m.fail(aerr)
			}
			m.Push(res)

		case OP_PRINT:
			v := m.Pop()
			if m.Out != nil {
				if _, werr := io.WriteString(m.Out, v.Format()+"\n"); werr != nil {
					return fmt.Errorf("vm: write output: %w", werr)
				}
			}

		case OP_DROP:
			m.Pop()

		default:
			return fmt.Errorf("vm: unknown opcode 0x%02x at %d", op, m.IP)
		}
		m.IP++
	}

	return ErrGasExhausted
}

func arith(op uint8, a, b value.Value) (value.Value, error) {
	switch op {
	case OP_ADD:
		return value.Add(a, b)
	case OP_SUB:
		return value.Sub(a, b)
	case OP_MUL:
		return value.Mul(a, b)
	case OP_DIV:
		return value.Div(a, b)
	default:
		return value.Mod(a, b)
	}
}

func (m *Machine) fail(err error) error {
	re := &env.RuntimeError{Err: err}
	if m.IP < len(m.Positions) {
		re.Line = int(m.Positions[m.IP].Line)
		re.Column = int(m.Positions[m.IP].Column)
	}
	return re
}
