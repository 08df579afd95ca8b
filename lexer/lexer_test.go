// Package lexer_test contains tests for the splice expression lexer.
//
// Tests are organised by category:
//   - TestLexer_Operators       — every operator including two-char ones
//   - TestLexer_Literals_Int    — decimal integer literals
//   - TestLexer_Literals_Float  — floating-point literals and edge cases
//   - TestLexer_Identifiers     — identifiers and attribute chains
//   - TestLexer_Position        — column tracking
//   - TestLexer_Splices         — expressions taken from real annotations
package lexer_test

import (
	"testing"

	"github.com/metaphox/shapepat/ast"
	"github.com/metaphox/shapepat/lexer"
)

// tokenCase is a single (type, literal) expectation used in table-driven tests.
type tokenCase struct {
	expectedType    ast.TokenType
	expectedLiteral string
}

// runCases calls NextToken for each case in want and fails the test on mismatch.
func runCases(t *testing.T, input string, want []tokenCase) {
	t.Helper()
	l := lexer.New(input)
	for i, tc := range want {
		tok := l.NextToken()
		if tok.Type != tc.expectedType {
			t.Errorf("case %d: type mismatch — got %v, want %v (literal %q)", i, tok.Type, tc.expectedType, tok.Literal)
		}
		if tok.Literal != tc.expectedLiteral {
			t.Errorf("case %d: literal mismatch — got %q, want %q", i, tok.Literal, tc.expectedLiteral)
		}
	}
}

// ── Operators ────────────────────────────────────────────────────────────────

func TestLexer_Operators(t *testing.T) {
	input := `+ - * ** / // % ( ) [ ] , : .`
	want := []tokenCase{
		{ast.PLUS, "+"},
		{ast.MINUS, "-"},
		{ast.ASTERISK, "*"},
		{ast.POWER, "**"},
		{ast.SLASH, "/"},
		{ast.FLOORDIV, "//"},
		{ast.PERCENT, "%"},
		{ast.LPAREN, "("},
		{ast.RPAREN, ")"},
		{ast.LBRACKET, "["},
		{ast.RBRACKET, "]"},
		{ast.COMMA, ","},
		{ast.COLON, ":"},
		{ast.DOT, "."},
		{ast.EOF, ""},
	}
	runCases(t, input, want)
}

// TestLexer_OperatorsAdjacent checks that two-character operators are split
// correctly when written without spaces.
func TestLexer_OperatorsAdjacent(t *testing.T) {
	runCases(t, `2**3*4//5/6`, []tokenCase{
		{ast.INT, "2"},
		{ast.POWER, "**"},
		{ast.INT, "3"},
		{ast.ASTERISK, "*"},
		{ast.INT, "4"},
		{ast.FLOORDIV, "//"},
		{ast.INT, "5"},
		{ast.SLASH, "/"},
		{ast.INT, "6"},
		{ast.EOF, ""},
	})
}

// ── Literals ─────────────────────────────────────────────────────────────────

func TestLexer_Literals_Int(t *testing.T) {
	runCases(t, `0 42 1000 99`, []tokenCase{
		{ast.INT, "0"},
		{ast.INT, "42"},
		{ast.INT, "1000"},
		{ast.INT, "99"},
		{ast.EOF, ""},
	})
}

func TestLexer_Literals_Float(t *testing.T) {
	runCases(t, `3.14 0.5 .5 7.`, []tokenCase{
		{ast.FLOAT, "3.14"},
		{ast.FLOAT, "0.5"},
		{ast.FLOAT, ".5"},
		{ast.INT, "7"},
		{ast.DOT, "."},
		{ast.EOF, ""},
	})
}

// ── Identifiers ──────────────────────────────────────────────────────────────

func TestLexer_Identifiers(t *testing.T) {
	runCases(t, `self.shape x_1 _hidden`, []tokenCase{
		{ast.IDENT, "self"},
		{ast.DOT, "."},
		{ast.IDENT, "shape"},
		{ast.IDENT, "x_1"},
		{ast.IDENT, "_hidden"},
		{ast.EOF, ""},
	})
}

func TestLexer_Illegal(t *testing.T) {
	runCases(t, `a $ b`, []tokenCase{
		{ast.IDENT, "a"},
		{ast.ILLEGAL, "$"},
		{ast.IDENT, "b"},
		{ast.EOF, ""},
	})
}

// TestLexer_EOFRepeats verifies that EOF is returned on every call after the
// input is exhausted.
func TestLexer_EOFRepeats(t *testing.T) {
	l := lexer.New("")
	for i := 0; i < 3; i++ {
		if tok := l.NextToken(); tok.Type != ast.EOF {
			t.Fatalf("call %d: got %v, want EOF", i, tok.Type)
		}
	}
}

// ── Position ─────────────────────────────────────────────────────────────────

func TestLexer_Position(t *testing.T) {
	l := lexer.New(`(1, self.shape)`)
	wantCols := []int{1, 2, 3, 5, 9, 10, 15, 16}
	for i, col := range wantCols {
		tok := l.NextToken()
		if tok.Col != col {
			t.Errorf("token %d (%q): col = %d, want %d", i, tok.Literal, tok.Col, col)
		}
	}
}

// ── Splices ──────────────────────────────────────────────────────────────────

// TestLexer_Splices tokenises expressions that appear in real annotations.
func TestLexer_Splices(t *testing.T) {
	runCases(t, `(1,2)+(3,)`, []tokenCase{
		{ast.LPAREN, "("},
		{ast.INT, "1"},
		{ast.COMMA, ","},
		{ast.INT, "2"},
		{ast.RPAREN, ")"},
		{ast.PLUS, "+"},
		{ast.LPAREN, "("},
		{ast.INT, "3"},
		{ast.COMMA, ","},
		{ast.RPAREN, ")"},
		{ast.EOF, ""},
	})

	runCases(t, `tuple(range(1,4))`, []tokenCase{
		{ast.IDENT, "tuple"},
		{ast.LPAREN, "("},
		{ast.IDENT, "range"},
		{ast.LPAREN, "("},
		{ast.INT, "1"},
		{ast.COMMA, ","},
		{ast.INT, "4"},
		{ast.RPAREN, ")"},
		{ast.RPAREN, ")"},
		{ast.EOF, ""},
	})

	runCases(t, `x.shape[:-1]`, []tokenCase{
		{ast.IDENT, "x"},
		{ast.DOT, "."},
		{ast.IDENT, "shape"},
		{ast.LBRACKET, "["},
		{ast.COLON, ":"},
		{ast.MINUS, "-"},
		{ast.INT, "1"},
		{ast.RBRACKET, "]"},
		{ast.EOF, ""},
	})
}
