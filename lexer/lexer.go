// Package lexer implements the splice expression lexer.
//
// The lexer converts an expression string (the text between `*{` and `}` of a
// splice term) into a flat stream of [ast.Token] values. Call [New] to create
// a lexer and then call [Lexer.NextToken] repeatedly until you receive a token
// with Type == [ast.EOF].
//
// Design notes:
//   - Single-pass, character-by-character scanning using a read position cursor.
//   - No global state; every [Lexer] is independent.
//   - Columns are tracked for every token (1-based). Expressions are a single
//     line in practice, so newlines are plain whitespace.
//   - Two-character operators (**, //) need one character of look-ahead and
//     are handled by peekChar.
package lexer

import (
	"github.com/metaphox/shapepat/ast"
)

// Lexer holds all state required to tokenise a single expression string.
// Create one with [New]; never copy a Lexer after first use.
type Lexer struct {
	input   string // the full source text
	pos     int    // current read position (index of ch)
	readPos int    // next read position (pos + 1)
	ch      byte   // current character under examination
}

// New creates a [Lexer] that tokenises the given input string.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar() // prime: set l.ch = input[0]
	return l
}

// NextToken returns the next token from the input.
//
// Whitespace is skipped before each token. When the input is exhausted,
// NextToken returns a token with Type == [ast.EOF] on every subsequent call.
func (l *Lexer) NextToken() ast.Token {
	l.skipWhitespace()

	var tok ast.Token

	switch l.ch {
	// ── End of input ────────────────────────────────────────────────────────
	case 0:
		if l.pos < len(l.input) {
			// A literal NUL byte inside the input is not end of input.
			tok = l.makeToken(ast.ILLEGAL, "\x00")
		} else {
			tok = l.makeToken(ast.EOF, "")
		}

	// ── Single-character delimiters ─────────────────────────────────────────
	case '(':
		tok = l.makeToken(ast.LPAREN, "(")
	case ')':
		tok = l.makeToken(ast.RPAREN, ")")
	case '[':
		tok = l.makeToken(ast.LBRACKET, "[")
	case ']':
		tok = l.makeToken(ast.RBRACKET, "]")
	case ',':
		tok = l.makeToken(ast.COMMA, ",")
	case ':':
		tok = l.makeToken(ast.COLON, ":")
	case '%':
		tok = l.makeToken(ast.PERCENT, "%")
	case '+':
		tok = l.makeToken(ast.PLUS, "+")
	case '-':
		tok = l.makeToken(ast.MINUS, "-")

	// ── Operators that may be one or two characters ─────────────────────────
	case '*':
		if l.peekChar() == '*' {
			tok = l.makeToken(ast.POWER, "**")
			l.readChar()
		} else {
			tok = l.makeToken(ast.ASTERISK, "*")
		}
	case '/':
		if l.peekChar() == '/' {
			tok = l.makeToken(ast.FLOORDIV, "//")
			l.readChar()
		} else {
			tok = l.makeToken(ast.SLASH, "/")
		}

	// ── Dot: attribute access, or the start of a float like .5 ─────────────
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		tok = l.makeToken(ast.DOT, ".")

	// ── Identifiers and numbers ─────────────────────────────────────────────
	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		} else if isDigit(l.ch) {
			return l.readNumber()
		}
		tok = l.makeToken(ast.ILLEGAL, string(l.ch))
	}

	l.readChar() // advance past the last character of this token
	return tok
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// readChar advances the lexer by one character.
// When the input is exhausted l.ch is set to 0 (the null byte sentinel for EOF).
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without consuming it.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// makeToken constructs a token that starts at the current character.
// It does NOT advance the cursor.
func (l *Lexer) makeToken(tt ast.TokenType, literal string) ast.Token {
	return ast.Token{Type: tt, Literal: literal, Col: l.pos + 1}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}

// readIdentifier scans an identifier starting at the current position.
// Like readNumber, it returns with the cursor already on the first character
// after the identifier, so NextToken must not advance again.
func (l *Lexer) readIdentifier() ast.Token {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return ast.Token{Type: ast.IDENT, Literal: l.input[start:l.pos], Col: start + 1}
}

// readNumber scans an integer or floating-point literal. A '.' followed by a
// digit turns the token into a FLOAT; a '.' followed by a letter is left for
// the next call (attribute access on a literal is not meaningful, but the
// parser reports it rather than the lexer).
func (l *Lexer) readNumber() ast.Token {
	start := l.pos
	tt := ast.INT

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		tt = ast.FLOAT
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return ast.Token{Type: tt, Literal: l.input[start:l.pos], Col: start + 1}
}

// isLetter reports whether b may start or continue an identifier.
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		b == '_'
}

// isDigit reports whether b is an ASCII decimal digit (0–9).
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
