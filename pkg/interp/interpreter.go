// Package interp evaluates MathLamp programs by walking the AST.
package interp

import (
	"fmt"
	"io"

	"github.com/agenthands/mathlamp/pkg/compiler/ast"
	"github.com/agenthands/mathlamp/pkg/core/env"
	"github.com/agenthands/mathlamp/pkg/core/value"
)

// Interpreter executes statements against an Environment and writes one
// line to Out for every print statement.
type Interpreter struct {
	env *env.Environment
	out io.Writer
}

// New returns an interpreter bound to e. A nil e gets a fresh environment,
// so the same e can be handed to several interpreters to persist state.
func New(out io.Writer, e *env.Environment) *Interpreter {
	if e == nil {
		e = env.New()
	}
	return &Interpreter{env: e, out: out}
}

// Env exposes the environment the interpreter mutates.
func (in *Interpreter) Env() *env.Environment {
	return in.env
}

// Exec runs the statements in order and stops at the first error.
func (in *Interpreter) Exec(prog *ast.Program) error {
	for _, stmt := range prog.Statements {
		if err := in.ExecStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ExecStatement runs a single statement.
func (in *Interpreter) ExecStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.Assignment:
		v, err := in.Eval(s.Value)
		if err != nil {
			return err
		}
		in.env.Set(s.Name, v)
		return nil

	case *ast.Print:
		v, err := in.Eval(s.Value)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(in.out, v.Format()+"\n"); err != nil {
			return fmt.Errorf("interp: write output: %w", err)
		}
		return nil

	case *ast.ExpressionStatement:
		_, err := in.Eval(s.Value)
		return err

	default:
		return fmt.Errorf("interp: unknown statement %T", stmt)
	}
}

// Eval evaluates an expression, left operand before right operand.
func (in *Interpreter) Eval(expr ast.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return value.FromInt(e.Value), nil

	case *ast.VariableRef:
		v, err := in.env.Lookup(e.Name)
		if err != nil {
			return value.Value{}, positioned(e, err)
		}
		return v, nil

	case *ast.BinaryOp:
		left, err := in.Eval(e.Left)
		if err != nil {
			return value.Value{}, err
		}
		right, err := in.Eval(e.Right)
		if err != nil {
			return value.Value{}, err
		}
		v, err := Apply(e.Op, left, right)
		if err != nil {
			return value.Value{}, positioned(e, err)
		}
		return v, nil

	default:
		return value.Value{}, fmt.Errorf("interp: unknown expression %T", expr)
	}
}

// Apply performs one arithmetic operator.
func Apply(op ast.Op, a, b value.Value) (value.Value, error) {
	switch op {
	case ast.OpAdd:
		return value.Add(a, b)
	case ast.OpSub:
		return value.Sub(a, b)
	case ast.OpMul:
		return value.Mul(a, b)
	case ast.OpDiv:
		return value.Div(a, b)
	case ast.OpMod:
		return value.Mod(a, b)
	}
	return value.Value{}, fmt.Errorf("interp: unknown operator %d", op)
}

func positioned(n ast.Node, err error) error {
	tok := n.Pos()
	return &env.RuntimeError{Line: int(tok.Line), Column: int(tok.Column), Err: err}
}
