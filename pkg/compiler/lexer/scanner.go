package lexer

import (
	"bytes"
)

var keywordPrint = []byte("print")

// Scanner performs lexical analysis on MathLamp source.
type Scanner struct {
	source    []byte
	cursor    int
	line      int
	lineStart int
}

// NewScanner creates a new scanner for the given source.
func NewScanner(source []byte) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
	}
}

// Reset re-initializes the scanner with new source for pool reuse.
func (s *Scanner) Reset(source []byte) {
	s.source = source
	s.cursor = 0
	s.line = 1
	s.lineStart = 0
}

// Next returns the next token from the source.
// Unknown bytes come back as a single-byte KindError token.
func (s *Scanner) Next() Token {
	s.skipWhitespace()

	if s.cursor >= len(s.source) {
		return s.token(KindEOF, s.cursor, s.cursor)
	}

	start := s.cursor
	ch := s.source[s.cursor]

	if isDigit(ch) {
		return s.scanNumber()
	}
	if isAlpha(ch) {
		return s.scanIdentifier()
	}

	s.cursor++
	kind := KindError
	switch ch {
	case '+':
		kind = KindPlus
	case '-':
		kind = KindMinus
	case '*':
		kind = KindStar
	case '/':
		kind = KindSlash
	case '%':
		kind = KindPercent
	case '=':
		kind = KindAssign
	case '(':
		kind = KindLParen
	case ')':
		kind = KindRParen
	case ';':
		kind = KindSemicolon
	}

	return s.token(kind, start, s.cursor)
}

func (s *Scanner) token(kind Kind, start, end int) Token {
	return Token{
		Kind:   kind,
		Offset: uint32(start),
		Length: uint32(end - start),
		Line:   uint32(s.line),
		Column: uint32(start - s.lineStart + 1),
	}
}

func (s *Scanner) skipWhitespace() {
	for s.cursor < len(s.source) {
		ch := s.source[s.cursor]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			s.cursor++
		} else if ch == '\n' {
			s.cursor++
			s.line++
			s.lineStart = s.cursor
		} else {
			break
		}
	}
}

func (s *Scanner) scanNumber() Token {
	start := s.cursor
	for s.cursor < len(s.source) && isDigit(s.source[s.cursor]) {
		s.cursor++
	}
	return s.token(KindNumber, start, s.cursor)
}

func (s *Scanner) scanIdentifier() Token {
	start := s.cursor
	for s.cursor < len(s.source) && (isAlpha(s.source[s.cursor]) || isDigit(s.source[s.cursor])) {
		s.cursor++
	}

	kind := KindIdentifier
	if bytes.Equal(s.source[start:s.cursor], keywordPrint) {
		kind = KindPrint
	}
	return s.token(kind, start, s.cursor)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
