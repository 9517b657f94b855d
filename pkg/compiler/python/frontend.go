// Package python parses MathLamp through gpython's Python grammar.
//
// Every MathLamp program is also a Python program once each statement sits
// on its own line. The source is first tokenized with the MathLamp scanner,
// which enforces the MathLamp lexical rules, and rendered one statement per
// line for gpython. The resulting Python AST is lowered back onto the
// original tokens, rejecting any Python construct that MathLamp does not have.
package python

import (
	"strconv"
	"strings"

	"github.com/go-python/gpython/ast"
	"github.com/go-python/gpython/parser"
	"github.com/go-python/gpython/py"

	lampast "github.com/agenthands/mathlamp/pkg/compiler/ast"
	"github.com/agenthands/mathlamp/pkg/compiler/lexer"
	lampparser "github.com/agenthands/mathlamp/pkg/compiler/parser"
)

// Frontend is stateless; the zero value is ready to use.
type Frontend struct{}

func NewFrontend() *Frontend {
	return &Frontend{}
}

// Parse parses src as Python in exec mode and lowers it.
// All failures are *parser.SyntaxError positioned in src.
func (f *Frontend) Parse(src []byte) (*lampast.Program, error) {
	r, err := render(src)
	if err != nil {
		return nil, err
	}

	mod, err := parser.Parse(strings.NewReader(r.text), "<mathlamp>", py.ExecMode)
	if err != nil {
		return nil, r.pythonError(err)
	}

	module, ok := mod.(*ast.Module)
	if !ok {
		return nil, r.errorAt(r.eof(), "module")
	}
	if len(module.Body) != len(r.lines) {
		return nil, r.errorAt(r.eof(), "one statement per ';'")
	}

	prog := &lampast.Program{}
	for i, stmt := range module.Body {
		l := &lowerer{rendering: r, line: r.lines[i]}
		s, err := l.lowerStmt(stmt)
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, s)
	}

	if r.unterminated {
		return nil, r.errorAt(r.eof(), lexer.KindSemicolon.String())
	}
	return prog, nil
}

// span is a half-open range of token indexes rendered on one Python line.
type span struct {
	start, end int
}

type pos struct {
	line, col int
}

// rendering maps MathLamp tokens to the Python text handed to gpython.
type rendering struct {
	src    []byte
	toks   []lexer.Token // EOF last
	values []int64       // parsed integer literals, by token index
	cols   []int         // rendered column, by token index
	widths []int         // rendered width, by token index
	at     map[pos]int   // rendered position to token index
	lines  []span
	text   string

	// The last statement has no ';'.
	unterminated bool
}

// render tokenizes src and lays each ';'-terminated statement out on its own
// line. Integer literals are rewritten in canonical decimal and identifiers
// that are Python keywords are renamed, so gpython accepts everything the
// MathLamp lexer does.
func render(src []byte) (*rendering, error) {
	r := &rendering{src: src, at: make(map[pos]int)}

	s := lexer.NewScanner(src)
	for {
		tok := s.Next()
		r.toks = append(r.toks, tok)
		if tok.Kind == lexer.KindEOF {
			break
		}
	}
	r.values = make([]int64, len(r.toks))
	r.cols = make([]int, len(r.toks))
	r.widths = make([]int, len(r.toks))

	var b strings.Builder
	start, col := 0, 0
	for i, tok := range r.toks {
		if tok.Kind == lexer.KindEOF {
			break
		}

		text := tok.Text(src)
		switch tok.Kind {
		case lexer.KindError:
			return nil, r.errorAt(i, "token")
		case lexer.KindNumber:
			n, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return nil, r.errorAt(i, "integer literal in int64 range")
			}
			r.values[i] = n
			text = strconv.FormatInt(n, 10)
		case lexer.KindIdentifier:
			if pythonKeywords[text] {
				text = "_" + text[1:]
			}
		}

		r.at[pos{len(r.lines) + 1, col}] = i
		r.cols[i] = col
		r.widths[i] = len(text)
		b.WriteString(text)
		// A trailing space keeps end of line distinguishable from the last token.
		b.WriteByte(' ')
		col += len(text) + 1

		if tok.Kind == lexer.KindSemicolon {
			b.WriteByte('\n')
			r.lines = append(r.lines, span{start, i + 1})
			start, col = i+1, 0
		}
	}

	if last := len(r.toks) - 1; start < last {
		b.WriteByte('\n')
		r.lines = append(r.lines, span{start, last})
		r.unterminated = true
	}

	r.text = b.String()
	if r.text == "" {
		r.text = "\n"
	}
	return r, nil
}

func (r *rendering) eof() int {
	return len(r.toks) - 1
}

func (r *rendering) errorAt(i int, expected string) *lampparser.SyntaxError {
	return lampparser.ErrorAt(r.toks[i], expected, lampparser.Describe(r.toks[i], r.src))
}

// pythonError positions a gpython failure on the token it was reading.
// gpython reports the cursor just past that token, or past the trailing
// space when it hit the end of the line.
func (r *rendering) pythonError(err error) error {
	line, col := 0, 0
	if exc, ok := err.(*py.Exception); ok {
		if n, ok := exc.Dict["lineno"].(py.Int); ok {
			line = int(n)
		}
		if n, ok := exc.Dict["offset"].(py.Int); ok {
			col = int(n)
		}
	}

	if line < 1 || line > len(r.lines) {
		return r.errorAt(r.eof(), "valid syntax")
	}
	l := r.lines[line-1]
	for i := l.start; i < l.end; i++ {
		if r.cols[i]+r.widths[i] >= col {
			return r.errorAt(i, "valid syntax")
		}
	}
	return r.errorAt(l.end, "valid syntax")
}

// after skips the closing parentheses that follow token i.
func (r *rendering) after(i int) int {
	i++
	for i < r.eof() && r.toks[i].Kind == lexer.KindRParen {
		i++
	}
	return i
}

// closing finds the ')' matching the '(' at open.
func (r *rendering) closing(open int) int {
	depth := 0
	for i := open; i < r.eof(); i++ {
		switch r.toks[i].Kind {
		case lexer.KindLParen:
			depth++
		case lexer.KindRParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return r.eof()
}

// index finds the token a gpython node starts at.
func (r *rendering) index(n ast.Ast) (int, bool) {
	i, ok := r.at[pos{n.GetLineno(), n.GetColOffset()}]
	return i, ok
}

type lowerer struct {
	*rendering
	line span
}

// node resolves n to its token, falling back to the start of the statement.
func (l *lowerer) node(n ast.Ast) int {
	if i, ok := l.index(n); ok {
		return i
	}
	return l.line.start
}

func (l *lowerer) lowerStmt(stmt ast.Stmt) (lampast.Statement, error) {
	switch s := stmt.(type) {
	case *ast.Assign:
		first := l.line.start
		if len(s.Targets) != 1 {
			return nil, l.errorAt(l.after(l.node(s.Targets[1])), lexer.KindSemicolon.String())
		}
		if l.toks[first].Kind == lexer.KindPrint {
			return nil, l.errorAt(first+1, lexer.KindLParen.String())
		}
		target, ok := s.Targets[0].(*ast.Name)
		if !ok || l.node(target) != first {
			// A parenthesized target is an expression statement to MathLamp.
			_, end, err := l.lowerExpr(s.Targets[0])
			if err != nil {
				return nil, err
			}
			return nil, l.errorAt(l.after(end), lexer.KindSemicolon.String())
		}
		name, _, err := l.lowerName(target)
		if err != nil {
			return nil, err
		}
		value, _, err := l.lowerExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &lampast.Assignment{Token: name.Token, Name: name.Name, Value: value}, nil

	case *ast.ExprStmt:
		if call, ok := s.Value.(*ast.Call); ok {
			return l.lowerPrint(call)
		}
		value, _, err := l.lowerExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &lampast.ExpressionStatement{Value: value}, nil

	default:
		return nil, l.errorAt(l.node(stmt), "statement")
	}
}

func (l *lowerer) lowerPrint(call *ast.Call) (lampast.Statement, error) {
	at := l.line.start
	fn, ok := call.Func.(*ast.Name)
	if !ok || l.node(fn) != at || l.toks[at].Kind != lexer.KindPrint {
		return nil, l.callError(call)
	}
	if len(call.Args) != 1 || len(call.Keywords) != 0 || call.Starargs != nil || call.Kwargs != nil {
		return nil, l.errorAt(at+2, "print with one argument")
	}
	value, _, err := l.lowerExpr(call.Args[0])
	if err != nil {
		return nil, err
	}
	return &lampast.Print{Token: l.toks[at], Value: value}, nil
}

// callError reports a call where MathLamp expects the statement to end.
// Only a bare print at the start of a statement may be called, once.
func (l *lowerer) callError(call *ast.Call) error {
	inner := call
	for {
		c, ok := inner.Func.(*ast.Call)
		if !ok {
			break
		}
		inner = c
	}

	start := l.line.start
	if fn, ok := inner.Func.(*ast.Name); ok && inner != call && l.node(fn) == start && l.toks[start].Kind == lexer.KindPrint {
		return l.errorAt(l.after(l.closing(start+1)), lexer.KindSemicolon.String())
	}

	_, end, err := l.lowerExpr(inner.Func)
	if err != nil {
		return err
	}
	return l.errorAt(l.after(end), lexer.KindSemicolon.String())
}

// lowerExpr also returns the index of the last token of the expression.
func (l *lowerer) lowerExpr(expr ast.Expr) (lampast.Expr, int, error) {
	switch e := expr.(type) {
	case *ast.Num:
		i := l.node(e)
		if l.toks[i].Kind != lexer.KindNumber {
			return nil, 0, l.errorAt(i, "integer literal")
		}
		return &lampast.IntegerLiteral{Token: l.toks[i], Value: l.values[i]}, i, nil

	case *ast.Name:
		ref, i, err := l.lowerName(e)
		if err != nil {
			return nil, 0, err
		}
		return ref, i, nil

	case *ast.BinOp:
		left, end, err := l.lowerExpr(e.Left)
		if err != nil {
			return nil, 0, err
		}
		opAt := l.after(end)
		op, ok := binaryOp(e)
		if !ok || l.toks[opAt].Kind != opKinds[op] {
			return nil, 0, l.errorAt(min(opAt+1, l.eof()), "expression")
		}
		right, end, err := l.lowerExpr(e.Right)
		if err != nil {
			return nil, 0, err
		}
		return &lampast.BinaryOp{Token: l.toks[opAt], Op: op, Left: left, Right: right}, end, nil

	case *ast.Call:
		return nil, 0, l.callError(e)

	default:
		return nil, 0, l.errorAt(l.node(expr), "expression")
	}
}

func (l *lowerer) lowerName(n *ast.Name) (*lampast.VariableRef, int, error) {
	i := l.node(n)
	if l.toks[i].Kind != lexer.KindIdentifier {
		return nil, 0, l.errorAt(i, "expression")
	}
	return &lampast.VariableRef{Token: l.toks[i], Name: l.toks[i].Text(l.src)}, i, nil
}

func binaryOp(e *ast.BinOp) (lampast.Op, bool) {
	switch e.Op {
	case ast.Add:
		return lampast.OpAdd, true
	case ast.Sub:
		return lampast.OpSub, true
	case ast.Mult:
		return lampast.OpMul, true
	case ast.Div:
		return lampast.OpDiv, true
	case ast.Modulo:
		return lampast.OpMod, true
	}
	return 0, false
}

var opKinds = map[lampast.Op]lexer.Kind{
	lampast.OpAdd: lexer.KindPlus,
	lampast.OpSub: lexer.KindMinus,
	lampast.OpMul: lexer.KindStar,
	lampast.OpDiv: lexer.KindSlash,
	lampast.OpMod: lexer.KindPercent,
}

// Python 3 reserved words; MathLamp allows them as variable names.
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "break": true, "class": true, "continue": true,
	"def": true, "del": true, "elif": true, "else": true, "except": true,
	"finally": true, "for": true, "from": true, "global": true, "if": true,
	"import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}
