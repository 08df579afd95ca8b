// Package ast defines the token types, the Token struct and the expression
// nodes used by the splice expression lexer, parser and evaluator.
//
// A splice term in a shape pattern (`*{self.shape}`, `*{(1,2)+(3,)}`) carries
// a small expression. Tokens are the smallest meaningful units of such an
// expression. Every token carries its type, the exact literal text it was
// scanned from, and its source position. Position is 1-based: the first
// character of an expression is Col 1.
package ast

// TokenType identifies the category of a scanned token.
type TokenType int

const (
	// ── Special ────────────────────────────────────────────────────────────────

	// ILLEGAL represents a character the lexer could not recognise.
	ILLEGAL TokenType = iota
	// EOF marks the end of the input stream. The parser stops when it sees EOF.
	EOF

	// ── Literals ───────────────────────────────────────────────────────────────

	// IDENT is an identifier: [a-zA-Z_][a-zA-Z0-9_]*
	IDENT
	// INT is a decimal integer literal, e.g. 0, 42, 1000.
	INT
	// FLOAT is a decimal floating-point literal, e.g. 3.14, 0.5.
	// Floats are legal in expressions but can never be axis sizes.
	FLOAT

	// ── Arithmetic operators ────────────────────────────────────────────────────

	// PLUS is addition on integers and concatenation on sequences: a + b
	PLUS
	// MINUS is subtraction or unary negation: a - b  /  -x
	MINUS
	// ASTERISK is multiplication, or repetition of a sequence: (1,) * n
	ASTERISK
	// POWER is exponentiation: 2 ** n
	POWER
	// SLASH is true division and always yields a float: a / b
	SLASH
	// FLOORDIV is floor division: a // b
	FLOORDIV
	// PERCENT is the floor-modulo operator: n % 2
	PERCENT

	// ── Delimiters ──────────────────────────────────────────────────────────────

	// LPAREN is the left parenthesis: (
	LPAREN
	// RPAREN is the right parenthesis: )
	RPAREN
	// LBRACKET is the left square bracket: [
	LBRACKET
	// RBRACKET is the right square bracket: ]
	RBRACKET
	// COMMA separates tuple items and call arguments: ,
	COMMA
	// COLON separates slice bounds: x[1:]
	COLON
	// DOT is the attribute access operator: self.shape
	DOT
)

var tokenNames = map[TokenType]string{
	ILLEGAL:  "ILLEGAL",
	EOF:      "EOF",
	IDENT:    "IDENT",
	INT:      "INT",
	FLOAT:    "FLOAT",
	PLUS:     "+",
	MINUS:    "-",
	ASTERISK: "*",
	POWER:    "**",
	SLASH:    "/",
	FLOORDIV: "//",
	PERCENT:  "%",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACKET: "[",
	RBRACKET: "]",
	COMMA:    ",",
	COLON:    ":",
	DOT:      ".",
}

// String returns the display name of the token type, used in parse errors.
func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token is a single lexical unit produced by the expression lexer.
//
// Fields:
//   - Type    — the category of this token (see TokenType constants)
//   - Literal — the exact source text that was scanned
//   - Col     — 1-based column of the first character of this token
type Token struct {
	Type    TokenType
	Literal string
	Col     int
}

// String returns the literal text of the token.
func (t Token) String() string {
	return t.Literal
}
