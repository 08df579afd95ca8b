// Package parser_test contains tests for the splice expression parser.
//
// Each test parses a snippet, inspects the returned tree via type assertions
// or its parenthesised String() form, and fails with a descriptive message on
// mismatch.
//
// Test categories:
//   - Literals:    ints, floats, identifiers
//   - Sequences:   tuples (including (x,) and ()), lists
//   - Operators:   precedence, associativity, unary minus
//   - Postfix:     calls, attribute access, indexing, slicing
//   - Errors:      malformed input is reported, never silently accepted
package parser_test

import (
	"testing"

	"github.com/metaphox/shapepat/ast"
	"github.com/metaphox/shapepat/lexer"
	"github.com/metaphox/shapepat/parser"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

// parse runs the parser on input and fails the test if any errors were
// collected.
func parse(t *testing.T, input string) ast.Expression {
	t.Helper()
	p := parser.New(lexer.New(input))
	expr := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Errorf("parser produced %d error(s) for %q:", len(errs), input)
		for _, e := range errs {
			t.Errorf("  %s", e)
		}
		t.FailNow()
	}
	if expr == nil {
		t.Fatalf("parse(%q) returned nil without errors", input)
	}
	return expr
}

// parseErr runs the parser on input and fails the test unless at least one
// error was collected.
func parseErr(t *testing.T, input string) []string {
	t.Helper()
	p := parser.New(lexer.New(input))
	p.Parse()
	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatalf("parse(%q): expected an error, got none", input)
	}
	return errs
}

// assertString checks the parenthesised rendering of the parsed tree.
func assertString(t *testing.T, input, want string) {
	t.Helper()
	if got := parse(t, input).String(); got != want {
		t.Errorf("parse(%q).String() = %q, want %q", input, got, want)
	}
}

// assertIntLit checks that expr is an *ast.IntLiteral with the given value.
func assertIntLit(t *testing.T, expr ast.Expression, val int64) {
	t.Helper()
	lit, ok := expr.(*ast.IntLiteral)
	if !ok {
		t.Fatalf("expected *ast.IntLiteral, got %T (%s)", expr, expr.String())
	}
	if lit.Value != val {
		t.Fatalf("IntLiteral value: got %d, want %d", lit.Value, val)
	}
}

// ── Literals ─────────────────────────────────────────────────────────────────

func TestParse_IntLiteral(t *testing.T) {
	assertIntLit(t, parse(t, "42"), 42)
}

func TestParse_FloatLiteral(t *testing.T) {
	lit, ok := parse(t, "2.5").(*ast.FloatLiteral)
	if !ok || lit.Value != 2.5 {
		t.Fatalf("expected FloatLiteral 2.5, got %#v", lit)
	}
}

func TestParse_Identifier(t *testing.T) {
	id, ok := parse(t, "batch").(*ast.Identifier)
	if !ok || id.Name != "batch" {
		t.Fatalf("expected Identifier batch, got %#v", id)
	}
}

// ── Sequences ────────────────────────────────────────────────────────────────

func TestParse_Tuples(t *testing.T) {
	cases := []struct {
		input string
		items int
	}{
		{"()", 0},
		{"(3,)", 1},
		{"(1, 2)", 2},
		{"(1, 2,)", 2},
		{"((1,), 2, 3)", 3},
	}
	for _, tc := range cases {
		tup, ok := parse(t, tc.input).(*ast.TupleLiteral)
		if !ok {
			t.Errorf("%q: expected *ast.TupleLiteral", tc.input)
			continue
		}
		if len(tup.Items) != tc.items {
			t.Errorf("%q: got %d items, want %d", tc.input, len(tup.Items), tc.items)
		}
	}
}

// TestParse_GroupingIsNotTuple verifies that parentheses without a comma only
// group.
func TestParse_GroupingIsNotTuple(t *testing.T) {
	assertIntLit(t, parse(t, "(7)"), 7)
	assertString(t, "(1 + 2) * 3", "((1 + 2) * 3)")
}

func TestParse_List(t *testing.T) {
	list, ok := parse(t, "[1, 2, 3]").(*ast.ListLiteral)
	if !ok || len(list.Items) != 3 {
		t.Fatalf("expected 3-item ListLiteral, got %#v", list)
	}
	if l, ok := parse(t, "[]").(*ast.ListLiteral); !ok || len(l.Items) != 0 {
		t.Fatalf("expected empty ListLiteral")
	}
}

// ── Operators ────────────────────────────────────────────────────────────────

func TestParse_Precedence(t *testing.T) {
	cases := []struct{ input, want string }{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"a - b - c", "((a - b) - c)"},
		{"n // 2 % 3", "((n // 2) % 3)"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"-2 ** 2", "(-(2 ** 2))"},
		{"2 ** -1", "(2 ** (-1))"},
		{"-a.b", "(-a.b)"},
		{"(1,2)+(3,)", "((1, 2) + (3,))"},
		{"(1,) * n", "((1,) * n)"},
	}
	for _, tc := range cases {
		assertString(t, tc.input, tc.want)
	}
}

// ── Postfix ──────────────────────────────────────────────────────────────────

func TestParse_Call(t *testing.T) {
	call, ok := parse(t, "tuple(range(1,4))").(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr")
	}
	if call.Function.String() != "tuple" || len(call.Args) != 1 {
		t.Fatalf("unexpected call: %s", call.String())
	}
	inner, ok := call.Args[0].(*ast.CallExpr)
	if !ok || len(inner.Args) != 2 {
		t.Fatalf("expected inner range call with 2 args, got %s", call.Args[0].String())
	}
	assertIntLit(t, inner.Args[0], 1)
	assertIntLit(t, inner.Args[1], 4)

	if c, ok := parse(t, "f()").(*ast.CallExpr); !ok || len(c.Args) != 0 {
		t.Fatalf("expected zero-arg call")
	}
}

func TestParse_Field(t *testing.T) {
	f, ok := parse(t, "self.cfg.shape").(*ast.FieldExpr)
	if !ok || f.Field != "shape" {
		t.Fatalf("expected FieldExpr .shape, got %#v", f)
	}
	if inner, ok := f.Object.(*ast.FieldExpr); !ok || inner.Field != "cfg" {
		t.Fatalf("expected nested FieldExpr .cfg")
	}
}

func TestParse_IndexAndSlice(t *testing.T) {
	cases := []struct{ input, want string }{
		{"x[0]", "x[0]"},
		{"x.shape[-1]", "x.shape[(-1)]"},
		{"x[1:]", "x[1:]"},
		{"x[:-1]", "x[:(-1)]"},
		{"x[1:3]", "x[1:3]"},
		{"x[:]", "x[:]"},
	}
	for _, tc := range cases {
		assertString(t, tc.input, tc.want)
	}
	if _, ok := parse(t, "x[1:]").(*ast.SliceExpr); !ok {
		t.Errorf("x[1:] should parse as *ast.SliceExpr")
	}
	if _, ok := parse(t, "x[1]").(*ast.IndexExpr); !ok {
		t.Errorf("x[1] should parse as *ast.IndexExpr")
	}
}

// ── Errors ───────────────────────────────────────────────────────────────────

func TestParse_Errors(t *testing.T) {
	for _, input := range []string{
		"",
		"(1, 2",
		"1 +",
		"1 2",
		"x.",
		"x.1",
		"f(1,,2)",
		"x[]",
		"$",
		"(1))",
	} {
		parseErr(t, input)
	}
}
