package parser

import (
	"fmt"

	"github.com/agenthands/mathlamp/pkg/compiler/lexer"
)

// SyntaxError reports source text that does not match the grammar.
// Line and Column are 1-based; a zero Line means the position is unknown.
type SyntaxError struct {
	Line     int
	Column   int
	Expected string
	Found    string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("syntax error: expected %s, found %s", e.Expected, e.Found)
	}
	return fmt.Sprintf("syntax error at line %d, column %d: expected %s, found %s", e.Line, e.Column, e.Expected, e.Found)
}

// ErrorAt builds a SyntaxError positioned at tok.
func ErrorAt(tok lexer.Token, expected, found string) *SyntaxError {
	return &SyntaxError{
		Line:     int(tok.Line),
		Column:   int(tok.Column),
		Expected: expected,
		Found:    found,
	}
}

// Describe renders tok the way syntax errors quote it.
func Describe(tok lexer.Token, src []byte) string {
	switch tok.Kind {
	case lexer.KindEOF:
		return "end of input"
	case lexer.KindError:
		return fmt.Sprintf("invalid character %q", tok.Text(src))
	default:
		return fmt.Sprintf("%q", tok.Text(src))
	}
}
