// Package parser implements the splice expression parser.
//
// The parser reads a token stream from a [lexer.Lexer] and builds a single
// [ast.Expression]. Expression parsing uses Pratt (top-down operator
// precedence) so that precedence rules are encoded in a small table rather
// than a tangle of grammar rules.
//
// Usage:
//
//	l := lexer.New(source)
//	p := parser.New(l)
//	expr := p.Parse()
//	if errs := p.Errors(); len(errs) != 0 { ... }
//
// Unlike a statement parser there is nothing to recover to: the first error
// usually makes the rest of the expression meaningless, so callers should
// report Errors()[0] and discard the tree.
package parser

import (
	"fmt"
	"strconv"

	"github.com/metaphox/shapepat/ast"
	"github.com/metaphox/shapepat/lexer"
)

// ── Operator precedence ───────────────────────────────────────────────────────

// Precedence levels, ordered from lowest to highest.
const (
	precLowest  = iota // 0 — starting point
	precSum            // 1 — + -
	precProduct        // 2 — * / // %
	precPrefix         // 3 — -x +x
	precPower          // 4 — **  (right-associative, binds tighter than a left unary minus)
	precPostfix        // 5 — f(...)  a[i]  a.b
)

// tokenPrecedence maps a TokenType to its infix precedence level.
// Tokens not in this map have precLowest.
var tokenPrecedence = map[ast.TokenType]int{
	ast.PLUS:     precSum,
	ast.MINUS:    precSum,
	ast.ASTERISK: precProduct,
	ast.SLASH:    precProduct,
	ast.FLOORDIV: precProduct,
	ast.PERCENT:  precProduct,
	ast.POWER:    precPower,
	ast.LPAREN:   precPostfix,
	ast.LBRACKET: precPostfix,
	ast.DOT:      precPostfix,
}

// ── Parser ────────────────────────────────────────────────────────────────────

// prefixParseFn parses a prefix (or standalone) expression starting with the
// current token.
type prefixParseFn func() ast.Expression

// infixParseFn parses an infix or postfix expression given the already-parsed
// left-hand side.
type infixParseFn func(left ast.Expression) ast.Expression

// Parser holds all state needed to parse one expression.
// Create one with [New] and call [Parser.Parse].
type Parser struct {
	l      *lexer.Lexer
	cur    ast.Token // current token (the one being examined)
	peek   ast.Token // next token
	errors []string  // accumulated parse errors

	prefixFns map[ast.TokenType]prefixParseFn
	infixFns  map[ast.TokenType]infixParseFn
}

// New creates a Parser that reads tokens from l.
// It primes the two-token lookahead and registers all parse functions.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:         l,
		prefixFns: make(map[ast.TokenType]prefixParseFn),
		infixFns:  make(map[ast.TokenType]infixParseFn),
	}

	// ── Prefix (nud) functions ────────────────────────────────────────────────
	p.registerPrefix(ast.IDENT, p.parseIdentifier)
	p.registerPrefix(ast.INT, p.parseIntLiteral)
	p.registerPrefix(ast.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(ast.MINUS, p.parsePrefixExpression)
	p.registerPrefix(ast.PLUS, p.parsePrefixExpression)
	p.registerPrefix(ast.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(ast.LBRACKET, p.parseListLiteral)

	// ── Infix (led) functions ─────────────────────────────────────────────────
	for _, tt := range []ast.TokenType{
		ast.PLUS, ast.MINUS, ast.ASTERISK, ast.SLASH,
		ast.FLOORDIV, ast.PERCENT, ast.POWER,
	} {
		p.registerInfix(tt, p.parseInfixExpression)
	}
	p.registerInfix(ast.LPAREN, p.parseCallExpression)
	p.registerInfix(ast.LBRACKET, p.parseIndexExpression)
	p.registerInfix(ast.DOT, p.parseFieldExpression)

	// Prime the lookahead: after two advances, cur = first token, peek = second.
	p.advance()
	p.advance()

	return p
}

// Errors returns all parse errors collected during Parse().
func (p *Parser) Errors() []string {
	return p.errors
}

// Parse parses the whole input as one expression. Trailing tokens after a
// complete expression are an error. The returned tree must be discarded when
// Errors() is non-empty.
func (p *Parser) Parse() ast.Expression {
	if p.curIs(ast.EOF) {
		p.errorf("empty expression")
		return nil
	}
	expr := p.parseExpression(precLowest)
	if expr != nil && !p.peekIs(ast.EOF) {
		p.errorf("unexpected %q at col %d", p.peek.Literal, p.peek.Col)
	}
	return expr
}

// ── Internal token management ─────────────────────────────────────────────────

// advance consumes one token from the lexer, shifting peek into cur.
func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

// expect checks that the peek token matches tt. If so it advances and returns
// true; otherwise it records an error and returns false (no advance).
func (p *Parser) expect(tt ast.TokenType) bool {
	if p.peek.Type == tt {
		p.advance()
		return true
	}
	if p.peek.Type == ast.EOF {
		p.errorf("expected %v, got end of expression", tt)
	} else {
		p.errorf("expected %v, got %q at col %d", tt, p.peek.Literal, p.peek.Col)
	}
	return false
}

func (p *Parser) curIs(tt ast.TokenType) bool  { return p.cur.Type == tt }
func (p *Parser) peekIs(tt ast.TokenType) bool { return p.peek.Type == tt }

// curPrec returns the precedence of the current token.
func (p *Parser) curPrec() int {
	if p, ok := tokenPrecedence[p.cur.Type]; ok {
		return p
	}
	return precLowest
}

// peekPrec returns the precedence of the peek token.
func (p *Parser) peekPrec() int {
	if p, ok := tokenPrecedence[p.peek.Type]; ok {
		return p
	}
	return precLowest
}

// errorf records a formatted parse error.
func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

// noPrefixFnError records an error for an unexpected token in prefix position.
func (p *Parser) noPrefixFnError() {
	if p.cur.Type == ast.EOF {
		p.errorf("unexpected end of expression")
		return
	}
	p.errorf("unexpected %q at col %d", p.cur.Literal, p.cur.Col)
}

func (p *Parser) registerPrefix(tt ast.TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *Parser) registerInfix(tt ast.TokenType, fn infixParseFn) {
	p.infixFns[tt] = fn
}

// ── Expression parsing (Pratt) ────────────────────────────────────────────────

// parseExpression is the Pratt parser entry point.
// prec is the minimum binding power of operators the caller will accept.
func (p *Parser) parseExpression(prec int) ast.Expression {
	prefix := p.prefixFns[p.cur.Type]
	if prefix == nil {
		p.noPrefixFnError()
		return nil
	}

	left := prefix()

	for left != nil && !p.peekIs(ast.EOF) && prec < p.peekPrec() {
		infix := p.infixFns[p.peek.Type]
		if infix == nil {
			return left
		}
		p.advance()
		left = infix(left)
	}

	return left
}

// parseExprList parses a comma-separated list closed by end. cur is the
// opening delimiter on entry and the closing one on return. A trailing comma
// is allowed; sawComma reports whether any comma was present, which is what
// separates the tuple (x,) from the grouping (x).
func (p *Parser) parseExprList(end ast.TokenType) (items []ast.Expression, sawComma, ok bool) {
	if p.peekIs(end) {
		p.advance()
		return nil, false, true
	}
	p.advance() // move to first item
	for {
		item := p.parseExpression(precLowest)
		if item == nil {
			return nil, false, false
		}
		items = append(items, item)
		if !p.peekIs(ast.COMMA) {
			break
		}
		sawComma = true
		p.advance() // consume ','
		if p.peekIs(end) {
			break
		}
		p.advance() // move to next item
	}
	if !p.expect(end) {
		return nil, false, false
	}
	return items, sawComma, true
}

// ── Prefix parse functions ────────────────────────────────────────────────────

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.cur, Name: p.cur.Literal}
}

func (p *Parser) parseIntLiteral() ast.Expression {
	tok := p.cur
	val, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.errorf("cannot parse %q as integer: %v", tok.Literal, err)
		return nil
	}
	return &ast.IntLiteral{Token: tok, Value: val}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.cur
	val, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errorf("cannot parse %q as float: %v", tok.Literal, err)
		return nil
	}
	return &ast.FloatLiteral{Token: tok, Value: val}
}

// parsePrefixExpression handles `-expr` and `+expr`.
func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.cur
	p.advance()
	right := p.parseExpression(precPrefix)
	if right == nil {
		return nil
	}
	return &ast.PrefixExpr{Token: tok, Operator: tok.Literal, Right: right}
}

// parseGroupedExpression handles `(expr)` and the tuple forms `()`, `(a,)`,
// `(a, b, ...)`.
func (p *Parser) parseGroupedExpression() ast.Expression {
	tok := p.cur // '('
	items, sawComma, ok := p.parseExprList(ast.RPAREN)
	if !ok {
		return nil
	}
	if len(items) == 1 && !sawComma {
		return items[0]
	}
	return &ast.TupleLiteral{Token: tok, Items: items}
}

// parseListLiteral handles `[a, b, ...]`.
func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.cur // '['
	items, _, ok := p.parseExprList(ast.RBRACKET)
	if !ok {
		return nil
	}
	return &ast.ListLiteral{Token: tok, Items: items}
}

// ── Infix parse functions ─────────────────────────────────────────────────────

// parseInfixExpression handles all binary operators. `**` is right-associative,
// so its right operand is parsed one level lower.
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.cur
	prec := p.curPrec()
	if tok.Type == ast.POWER {
		prec--
	}
	p.advance()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &ast.InfixExpr{Token: tok, Left: left, Operator: tok.Literal, Right: right}
}

// parseCallExpression handles `f(args...)`, triggered when '(' is seen in
// infix position.
func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	tok := p.cur // '('
	args, _, ok := p.parseExprList(ast.RPAREN)
	if !ok {
		return nil
	}
	return &ast.CallExpr{Token: tok, Function: fn, Args: args}
}

// parseIndexExpression handles `a[i]`, `a[lo:hi]`, `a[lo:]`, `a[:hi]` and
// `a[:]`. cur = '[' on entry, cur = ']' on return.
func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	tok := p.cur // '['

	var low ast.Expression
	if !p.peekIs(ast.COLON) {
		if p.peekIs(ast.RBRACKET) {
			p.errorf("empty index at col %d", p.peek.Col)
			return nil
		}
		p.advance()
		low = p.parseExpression(precLowest)
		if low == nil {
			return nil
		}
		if !p.peekIs(ast.COLON) {
			if !p.expect(ast.RBRACKET) {
				return nil
			}
			return &ast.IndexExpr{Token: tok, Left: left, Index: low}
		}
	}

	p.advance() // consume ':'
	var high ast.Expression
	if !p.peekIs(ast.RBRACKET) {
		p.advance()
		high = p.parseExpression(precLowest)
		if high == nil {
			return nil
		}
	}
	if !p.expect(ast.RBRACKET) {
		return nil
	}
	return &ast.SliceExpr{Token: tok, Left: left, Low: low, High: high}
}

// parseFieldExpression handles `expr.field`, triggered when '.' is seen in
// infix position.
func (p *Parser) parseFieldExpression(obj ast.Expression) ast.Expression {
	tok := p.cur // '.'
	if !p.expect(ast.IDENT) {
		return nil
	}
	return &ast.FieldExpr{Token: tok, Object: obj, Field: p.cur.Literal}
}
