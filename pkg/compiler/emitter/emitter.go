package emitter

import (
	"errors"
	"fmt"

	"github.com/agenthands/mathlamp/pkg/compiler/ast"
	"github.com/agenthands/mathlamp/pkg/compiler/lexer"
	"github.com/agenthands/mathlamp/pkg/core/value"
	"github.com/agenthands/mathlamp/pkg/vm"
)

var (
	ErrTooDeep      = errors.New("emitter: expression nesting exceeds the VM stack")
	ErrTooManyItems = errors.New("emitter: constant or name table overflow")
)

type Emitter struct {
	instructions []uint32
	positions    []vm.Position
	constants    []value.Value
	constIdx     map[value.Value]int
	names        []string
	nameIdx      map[string]int

	depth int // Virtual Stack Depth
}

func NewEmitter() *Emitter {
	return &Emitter{
		constIdx: make(map[value.Value]int),
		nameIdx:  make(map[string]int),
	}
}

// Emit lowers a program to bytecode terminated by HALT.
func (e *Emitter) Emit(prog *ast.Program) (*vm.Bytecode, error) {
	for _, stmt := range prog.Statements {
		if err := e.emitStatement(stmt); err != nil {
			return nil, err
		}
		if e.depth != 0 {
			return nil, fmt.Errorf("emitter: stack depth %d after %T", e.depth, stmt)
		}
	}

	e.emitOp(vm.OP_HALT, 0, lexer.Token{})

	return &vm.Bytecode{
		Instructions: e.instructions,
		Constants:    e.constants,
		Names:        e.names,
		Positions:    e.positions,
	}, nil
}

func (e *Emitter) emitStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.Assignment:
		if err := e.emitExpr(s.Value); err != nil {
			return err
		}
		idx, err := e.addName(s.Name)
		if err != nil {
			return err
		}
		e.emitOp(vm.OP_STORE_G, uint32(idx), s.Token)
		e.depth--

	case *ast.Print:
		if err := e.emitExpr(s.Value); err != nil {
			return err
		}
		e.emitOp(vm.OP_PRINT, 0, s.Token)
		e.depth--

	case *ast.ExpressionStatement:
		if err := e.emitExpr(s.Value); err != nil {
			return err
		}
		e.emitOp(vm.OP_DROP, 0, s.Pos())
		e.depth--

	default:
		return fmt.Errorf("emitter: unknown statement %T", stmt)
	}
	return nil
}

func (e *Emitter) emitExpr(expr ast.Expr) error {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		idx, err := e.addConstant(value.FromInt(n.Value))
		if err != nil {
			return err
		}
		e.emitOp(vm.OP_PUSH_C, uint32(idx), n.Token)
		return e.push()

	case *ast.VariableRef:
		idx, err := e.addName(n.Name)
		if err != nil {
			return err
		}
		e.emitOp(vm.OP_LOAD_G, uint32(idx), n.Token)
		return e.push()

	case *ast.BinaryOp:
		if err := e.emitExpr(n.Left); err != nil {
			return err
		}
		if err := e.emitExpr(n.Right); err != nil {
			return err
		}
		e.emitOp(binaryOpcodes[n.Op], 0, n.Token)
		e.depth--
		return nil

	default:
		return fmt.Errorf("emitter: unknown expression %T", expr)
	}
}

var binaryOpcodes = map[ast.Op]uint8{
	ast.OpAdd: vm.OP_ADD,
	ast.OpSub: vm.OP_SUB,
	ast.OpMul: vm.OP_MUL,
	ast.OpDiv: vm.OP_DIV,
	ast.OpMod: vm.OP_MOD,
}

func (e *Emitter) push() error {
	e.depth++
	if e.depth > vm.StackDepth {
		return ErrTooDeep
	}
	return nil
}

func (e *Emitter) emitOp(op uint8, arg uint32, at lexer.Token) {
	e.instructions = append(e.instructions, vm.Encode(op, arg))
	e.positions = append(e.positions, vm.Position{Line: at.Line, Column: at.Column})
}

func (e *Emitter) addConstant(v value.Value) (int, error) {
	if idx, ok := e.constIdx[v]; ok {
		return idx, nil
	}
	if len(e.constants) > vm.MaxArg {
		return 0, ErrTooManyItems
	}
	e.constants = append(e.constants, v)
	e.constIdx[v] = len(e.constants) - 1
	return len(e.constants) - 1, nil
}

func (e *Emitter) addName(name string) (int, error) {
	if idx, ok := e.nameIdx[name]; ok {
		return idx, nil
	}
	if len(e.names) > vm.MaxArg {
		return 0, ErrTooManyItems
	}
	e.names = append(e.names, name)
	e.nameIdx[name] = len(e.names) - 1
	return len(e.names) - 1, nil
}
