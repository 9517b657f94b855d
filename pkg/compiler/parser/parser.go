package parser

import (
	"fmt"
	"strconv"

	"github.com/agenthands/mathlamp/pkg/compiler/ast"
	"github.com/agenthands/mathlamp/pkg/compiler/lexer"
)

type Parser struct {
	scanner *lexer.Scanner
	curTok  lexer.Token
	peekTok lexer.Token
	src     []byte
}

func NewParser(s *lexer.Scanner, src []byte) *Parser {
	p := &Parser{
		scanner: s,
		src:     src,
	}
	// Read two tokens, so curTok and peekTok are both set
	p.nextToken()
	p.nextToken()
	return p
}

// Parse is a shorthand for NewParser(lexer.NewScanner(src), src).Parse().
func Parse(src []byte) (*ast.Program, error) {
	return NewParser(lexer.NewScanner(src), src).Parse()
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.scanner.Next()
}

// Parse consumes the whole source. Empty input yields an empty program.
func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{}

	for p.curTok.Kind != lexer.KindEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}

	return program, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch {
	case p.curTok.Kind == lexer.KindPrint:
		return p.parsePrint()
	case p.curTok.Kind == lexer.KindIdentifier && p.peekTok.Kind == lexer.KindAssign:
		return p.parseAssignment()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseAssignment() (ast.Statement, error) {
	target := p.curTok
	p.nextToken() // skip name
	p.nextToken() // skip =

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.KindSemicolon); err != nil {
		return nil, err
	}

	return &ast.Assignment{
		Token: target,
		Name:  target.Text(p.src),
		Value: value,
	}, nil
}

func (p *Parser) parsePrint() (ast.Statement, error) {
	tok := p.curTok
	p.nextToken() // skip print

	if err := p.expect(lexer.KindLParen); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.KindRParen); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.KindSemicolon); err != nil {
		return nil, err
	}

	return &ast.Print{Token: tok, Value: value}, nil
}

func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.KindSemicolon); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Value: value}, nil
}

// expression := term (("+" | "-") term)*
func (p *Parser) parseExpression() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.curTok.Kind == lexer.KindPlus || p.curTok.Kind == lexer.KindMinus {
		opTok := p.curTok
		p.nextToken()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Token: opTok, Op: binaryOps[opTok.Kind], Left: left, Right: right}
	}
	return left, nil
}

// term := factor (("*" | "/" | "%") factor)*
func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.curTok.Kind == lexer.KindStar || p.curTok.Kind == lexer.KindSlash || p.curTok.Kind == lexer.KindPercent {
		opTok := p.curTok
		p.nextToken()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Token: opTok, Op: binaryOps[opTok.Kind], Left: left, Right: right}
	}
	return left, nil
}

// factor := INTEGER | IDENT | "(" expression ")"
func (p *Parser) parseFactor() (ast.Expr, error) {
	tok := p.curTok
	switch tok.Kind {
	case lexer.KindNumber:
		n, err := strconv.ParseInt(tok.Text(p.src), 10, 64)
		if err != nil {
			return nil, p.errorAt(tok, "integer literal in int64 range", fmt.Sprintf("%q", tok.Text(p.src)))
		}
		p.nextToken()
		return &ast.IntegerLiteral{Token: tok, Value: n}, nil
	case lexer.KindIdentifier:
		p.nextToken()
		return &ast.VariableRef{Token: tok, Name: tok.Text(p.src)}, nil
	case lexer.KindLParen:
		p.nextToken()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.KindRParen); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.errorAt(tok, "expression", p.describe(tok))
	}
}

var binaryOps = map[lexer.Kind]ast.Op{
	lexer.KindPlus:    ast.OpAdd,
	lexer.KindMinus:   ast.OpSub,
	lexer.KindStar:    ast.OpMul,
	lexer.KindSlash:   ast.OpDiv,
	lexer.KindPercent: ast.OpMod,
}

func (p *Parser) expect(k lexer.Kind) error {
	if p.curTok.Kind != k {
		return p.errorAt(p.curTok, k.String(), p.describe(p.curTok))
	}
	p.nextToken()
	return nil
}

func (p *Parser) describe(tok lexer.Token) string {
	return Describe(tok, p.src)
}

func (p *Parser) errorAt(tok lexer.Token, expected, found string) *SyntaxError {
	return ErrorAt(tok, expected, found)
}
