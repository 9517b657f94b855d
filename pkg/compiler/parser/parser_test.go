package parser_test

import (
	"errors"
	"testing"

	"github.com/agenthands/mathlamp/pkg/compiler/ast"
	"github.com/agenthands/mathlamp/pkg/compiler/lexer"
	"github.com/agenthands/mathlamp/pkg/compiler/parser"
)

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"Empty", "", ""},
		{"Whitespace Only", " \t\r\n ", ""},
		{"Assignment", "a = 5;", "a = 5;"},
		{"Print", "print(a);", "print(a);"},
		{"Expression Statement", "a + 1;", "(a + 1);"},
		{"Precedence", "2 + 3 * 4;", "(2 + (3 * 4));"},
		{"Parentheses", "(2 + 3) * 4;", "((2 + 3) * 4);"},
		{"Left Assoc Sub", "10 - 3 - 2;", "((10 - 3) - 2);"},
		{"Left Assoc Mixed Term", "8 / 4 % 3 * 2;", "(((8 / 4) % 3) * 2);"},
		{"Redundant Parens", "((x));", "x;"},
		{"Multi Line", "a = 5;\nb = a + 2;\nprint(a * b);", "a = 5;\nb = (a + 2);\nprint((a * b));"},
		{"No Spaces", "x=1;x=x+1;print(x);", "x = 1;\nx = (x + 1);\nprint(x);"},
		{"Identifier Prefix Print", "printer = 1;", "printer = 1;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parser.Parse([]byte(tt.src))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := prog.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseNodeShapes(t *testing.T) {
	prog, err := parser.Parse([]byte("total = 7 % n;"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}

	assign, ok := prog.Statements[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", prog.Statements[0])
	}
	if assign.Name != "total" {
		t.Errorf("expected target total, got %q", assign.Name)
	}

	bin, ok := assign.Value.(*ast.BinaryOp)
	if !ok {
		t.Fatalf("expected *ast.BinaryOp, got %T", assign.Value)
	}
	if bin.Op != ast.OpMod {
		t.Errorf("expected OpMod, got %v", bin.Op)
	}
	if lit, ok := bin.Left.(*ast.IntegerLiteral); !ok || lit.Value != 7 {
		t.Errorf("expected literal 7, got %#v", bin.Left)
	}
	if ref, ok := bin.Right.(*ast.VariableRef); !ok || ref.Name != "n" {
		t.Errorf("expected variable n, got %#v", bin.Right)
	}
	if bin.Pos().Kind != lexer.KindPercent || bin.Pos().Column != 11 {
		t.Errorf("expected operator anchor at column 11, got %v at %d", bin.Pos().Kind, bin.Pos().Column)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		line     int
		column   int
		expected string
	}{
		{"Missing Semicolon", "a = 5", 1, 6, "';'"},
		{"Missing Semicolon Before Next", "a = 5\nb = 2;", 2, 1, "';'"},
		{"Unmatched Open Paren", "print((1 + 2);", 1, 14, "')'"},
		{"Unmatched Close Paren", "1 + 2);", 1, 6, "';'"},
		{"Dangling Operator", "x = 1 +;", 1, 8, "expression"},
		{"Print Without Parens", "print 1;", 1, 7, "'('"},
		{"Print Is Reserved", "print = 3;", 1, 7, "'('"},
		{"Print Missing Semicolon", "print(1)", 1, 9, "';'"},
		{"Lone Semicolon", ";", 1, 1, "expression"},
		{"Unary Minus", "x = -1;", 1, 5, "expression"},
		{"Invalid Character", "x = 2 ^ 3;", 1, 7, "';'"},
		{"Invalid Leading Character", "$x = 1;", 1, 1, "expression"},
		{"Assign To Literal", "1 = 2;", 1, 3, "';'"},
		{"Chained Assignment", "a = b = 1;", 1, 7, "';'"},
		{"Literal Out Of Range", "x = 99999999999999999999;", 1, 5, "integer literal in int64 range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse([]byte(tt.src))
			if err == nil {
				t.Fatalf("expected syntax error for %q", tt.src)
			}
			var se *parser.SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("expected *parser.SyntaxError, got %T: %v", err, err)
			}
			if se.Line != tt.line || se.Column != tt.column {
				t.Errorf("expected position %d:%d, got %d:%d (%v)", tt.line, tt.column, se.Line, se.Column, err)
			}
			if se.Expected != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, se.Expected)
			}
		})
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	_, err := parser.Parse([]byte("a = 5"))
	want := "syntax error at line 1, column 6: expected ';', found end of input"
	if err == nil || err.Error() != want {
		t.Errorf("expected %q, got %v", want, err)
	}

	_, err = parser.Parse([]byte("a = 5 @"))
	want = "syntax error at line 1, column 7: expected ';', found invalid character \"@\""
	if err == nil || err.Error() != want {
		t.Errorf("expected %q, got %v", want, err)
	}
}

func TestRoundTrip(t *testing.T) {
	srcs := []string{
		"a = 5; b = a + 2; print(a * b);",
		"x = 9223372036854775807; print(x % 10 - 3 / 2);",
		"print(((1 + 2) * (3 - 4)) / 5 % 6);",
		"y0 = 0; y0;",
	}

	for _, src := range srcs {
		first, err := parser.Parse([]byte(src))
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", src, err)
		}
		rendered := first.String()
		second, err := parser.Parse([]byte(rendered))
		if err != nil {
			t.Fatalf("re-parse of %q error = %v", rendered, err)
		}
		if second.String() != rendered {
			t.Errorf("round trip changed program: %q -> %q", rendered, second.String())
		}
	}
}
