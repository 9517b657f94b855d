package lexer

import "fmt"

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindEOF Kind = iota
	KindError
	KindIdentifier
	KindNumber
	KindPrint     // print
	KindPlus      // +
	KindMinus     // -
	KindStar      // *
	KindSlash     // /
	KindPercent   // %
	KindAssign    // =
	KindLParen    // (
	KindRParen    // )
	KindSemicolon // ;
)

var kindNames = [...]string{
	KindEOF:        "end of input",
	KindError:      "invalid character",
	KindIdentifier: "identifier",
	KindNumber:     "integer",
	KindPrint:      "'print'",
	KindPlus:       "'+'",
	KindMinus:      "'-'",
	KindStar:       "'*'",
	KindSlash:      "'/'",
	KindPercent:    "'%'",
	KindAssign:     "'='",
	KindLParen:     "'('",
	KindRParen:     "')'",
	KindSemicolon:  "';'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Token represents a lexical unit pointing back to the source.
type Token struct {
	Kind   Kind
	Offset uint32
	Length uint32
	Line   uint32
	Column uint32
}

// Text returns the source bytes the token covers.
func (t Token) Text(src []byte) string {
	end := t.Offset + t.Length
	if int(end) > len(src) {
		return ""
	}
	return string(src[t.Offset:end])
}
