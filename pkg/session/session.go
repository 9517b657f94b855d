// Package session runs MathLamp source against one persisted Environment.
package session

import (
	"fmt"
	"io"

	"github.com/agenthands/mathlamp/pkg/compiler/ast"
	"github.com/agenthands/mathlamp/pkg/compiler/emitter"
	"github.com/agenthands/mathlamp/pkg/compiler/parser"
	"github.com/agenthands/mathlamp/pkg/compiler/python"
	"github.com/agenthands/mathlamp/pkg/core/env"
	"github.com/agenthands/mathlamp/pkg/interp"
	"github.com/agenthands/mathlamp/pkg/vm"
)

// Engine selects how a parsed program is executed.
type Engine string

const (
	EngineTree Engine = "tree"
	EngineVM   Engine = "vm"
)

// Frontend selects how source text is parsed.
type Frontend string

const (
	FrontendNative Frontend = "native"
	FrontendPython Frontend = "python"
)

const DefaultGasLimit = 1000000

// CompileError reports a parsed program the VM engine cannot compile, such
// as one nested deeper than the VM stack. Nothing has run when it is returned.
type CompileError struct {
	Err error
}

func (e *CompileError) Error() string { return e.Err.Error() }

func (e *CompileError) Unwrap() error { return e.Err }

type Options struct {
	Engine   Engine
	Frontend Frontend
	GasLimit int // VM only; <= 0 means DefaultGasLimit
}

// Session owns the Environment shared by every Run.
type Session struct {
	opts Options
	env  *env.Environment
	out  io.Writer
}

func New(out io.Writer, opts Options) (*Session, error) {
	if opts.Engine == "" {
		opts.Engine = EngineTree
	}
	if opts.Frontend == "" {
		opts.Frontend = FrontendNative
	}
	if opts.GasLimit <= 0 {
		opts.GasLimit = DefaultGasLimit
	}

	switch opts.Engine {
	case EngineTree, EngineVM:
	default:
		return nil, fmt.Errorf("session: unknown engine %q", opts.Engine)
	}
	switch opts.Frontend {
	case FrontendNative, FrontendPython:
	default:
		return nil, fmt.Errorf("session: unknown frontend %q", opts.Frontend)
	}

	return &Session{opts: opts, env: env.New(), out: out}, nil
}

func (s *Session) Env() *env.Environment { return s.env }

func (s *Session) Options() Options { return s.opts }

// Parse turns source into a program with the configured front-end.
func (s *Session) Parse(src []byte) (*ast.Program, error) {
	if s.opts.Frontend == FrontendPython {
		return python.NewFrontend().Parse(src)
	}
	return parser.Parse(src)
}

// Run parses the whole source and then executes it. A syntax error means
// nothing runs; a runtime error stops at the failing statement.
func (s *Session) Run(src []byte) error {
	prog, err := s.Parse(src)
	if err != nil {
		return err
	}
	return s.Exec(prog)
}

// Exec runs an already parsed program.
func (s *Session) Exec(prog *ast.Program) error {
	if s.opts.Engine == EngineVM {
		return s.execVM(prog)
	}
	return interp.New(s.out, s.env).Exec(prog)
}

func (s *Session) execVM(prog *ast.Program) error {
	bc, err := emitter.NewEmitter().Emit(prog)
	if err != nil {
		return &CompileError{Err: err}
	}

	m := vm.GetMachine()
	defer vm.PutMachine(m)

	m.Load(bc)
	m.Globals = s.env
	m.Out = s.out
	return m.Run(s.opts.GasLimit)
}
