package ast

import (
	"strconv"
	"strings"

	"github.com/agenthands/mathlamp/pkg/compiler/lexer"
)

// Node represents any node in the Abstract Syntax Tree.
type Node interface {
	Pos() lexer.Token
	String() string
}

// Expr represents an expression that yields a value.
type Expr interface {
	Node
	exprNode()
}

// Statement represents a standalone unit of execution.
type Statement interface {
	Node
	stmtNode()
}

// Program is the root node.
type Program struct {
	Statements []Statement
}

// String renders the program as canonical source, one statement per line.
func (p *Program) String() string {
	var b strings.Builder
	for i, s := range p.Statements {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Op is a binary arithmetic operator.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	}
	return "?"
}

// Assignment: NAME = EXPR ;
type Assignment struct {
	Token lexer.Token // the target identifier
	Name  string
	Value Expr
}

func (a *Assignment) Pos() lexer.Token { return a.Token }
func (a *Assignment) String() string   { return a.Name + " = " + a.Value.String() + ";" }
func (a *Assignment) stmtNode()        {}

// Print: print ( EXPR ) ;
type Print struct {
	Token lexer.Token
	Value Expr
}

func (p *Print) Pos() lexer.Token { return p.Token }
func (p *Print) String() string   { return "print(" + p.Value.String() + ");" }
func (p *Print) stmtNode()        {}

// ExpressionStatement: EXPR ;
type ExpressionStatement struct {
	Value Expr
}

func (e *ExpressionStatement) Pos() lexer.Token { return e.Value.Pos() }
func (e *ExpressionStatement) String() string   { return e.Value.String() + ";" }
func (e *ExpressionStatement) stmtNode()        {}

type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (n *IntegerLiteral) Pos() lexer.Token { return n.Token }
func (n *IntegerLiteral) String() string   { return strconv.FormatInt(n.Value, 10) }
func (n *IntegerLiteral) exprNode()        {}

type VariableRef struct {
	Token lexer.Token
	Name  string
}

func (v *VariableRef) Pos() lexer.Token { return v.Token }
func (v *VariableRef) String() string   { return v.Name }
func (v *VariableRef) exprNode()        {}

// BinaryOp is anchored at its operator token.
type BinaryOp struct {
	Token lexer.Token
	Op    Op
	Left  Expr
	Right Expr
}

func (b *BinaryOp) Pos() lexer.Token { return b.Token }
func (b *BinaryOp) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}
func (b *BinaryOp) exprNode() {}
