// Package eval evaluates splice expressions against a read-only scope.
//
// A splice term `*{expr}` in a shape pattern is resolved at match time by
// evaluating expr here. The language is the small arithmetic subset that
// annotations use in practice: integer literals, tuples and lists, `+ - * /
// // % **`, attribute access on the receiver (`self.shape`), indexing and
// slicing, and a handful of builtins (range, tuple, len, ...).
//
// Usage:
//
//	res, err := eval.Evaluate("self.shape[1:] + (3,)", scope)
//	// res.Dims == []int{...}
//
// Evaluation never mutates the scope and never sees pattern bindings.
package eval

import (
	"github.com/pkg/errors"

	"github.com/metaphox/shapepat/ast"
	"github.com/metaphox/shapepat/lexer"
	"github.com/metaphox/shapepat/parser"
)

// maxSeqLen bounds every sequence an expression can build (range, repetition,
// concatenation). Axis lists are tiny; anything larger is a mistake.
const maxSeqLen = 1 << 16

// Result is the value of a splice expression converted to axis sizes.
// Scalar is true when the expression produced a single int, in which case
// Dims has exactly one element.
type Result struct {
	Dims   []int
	Scalar bool
}

// Program is a parsed splice expression, reusable across scopes.
type Program struct {
	src  string
	root ast.Expression
}

// Compile parses expr. Syntax errors are returned as *ExpressionError.
func Compile(expr string) (*Program, error) {
	p := parser.New(lexer.New(expr))
	root := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, &ExpressionError{Expr: expr, Err: errors.Errorf("syntax error: %s", errs[0])}
	}
	return &Program{src: expr, root: root}, nil
}

// Source returns the expression text the program was compiled from.
func (p *Program) Source() string { return p.src }

// String returns the parenthesised form of the parsed expression.
func (p *Program) String() string { return p.root.String() }

// Value evaluates the program and returns the raw value, which may be of any
// kind.
func (p *Program) Value(scope Scope) (Value, error) {
	if scope == nil {
		scope = EmptyScope
	}
	v, err := (&evaluator{scope: scope}).eval(p.root)
	if err != nil {
		return nil, &ExpressionError{Expr: p.src, Err: err}
	}
	return v, nil
}

// Eval evaluates the program and converts the value to axis sizes.
func (p *Program) Eval(scope Scope) (Result, error) {
	v, err := p.Value(scope)
	if err != nil {
		return Result{}, err
	}
	res, err := ToResult(v)
	if err != nil {
		return Result{}, &ExpressionError{Expr: p.src, Err: err}
	}
	return res, nil
}

// Evaluate compiles and evaluates expr in one step.
func Evaluate(expr string, scope Scope) (Result, error) {
	prog, err := Compile(expr)
	if err != nil {
		return Result{}, err
	}
	return prog.Eval(scope)
}

// ToResult accepts an Int or a flat Tuple of Ints.
func ToResult(v Value) (Result, error) {
	switch x := v.(type) {
	case Int:
		return Result{Dims: []int{int(x)}, Scalar: true}, nil
	case Tuple:
		dims := make([]int, len(x))
		for i, item := range x {
			n, ok := item.(Int)
			if !ok {
				return Result{}, errors.Errorf("must evaluate to an int or a sequence of ints, got a tuple whose item %d is %s", i, describe(item))
			}
			dims[i] = int(n)
		}
		return Result{Dims: dims}, nil
	}
	return Result{}, errors.Errorf("must evaluate to an int or a sequence of ints, got %s", describe(v))
}

// ── Tree walk ─────────────────────────────────────────────────────────────────

type evaluator struct {
	scope Scope
}

func (ev *evaluator) eval(node ast.Expression) (Value, error) {
	switch n := node.(type) {
	case *ast.IntLiteral:
		return fromInt64(n.Value)
	case *ast.FloatLiteral:
		return Float(n.Value), nil
	case *ast.Identifier:
		return ev.lookup(n)
	case *ast.TupleLiteral:
		return ev.evalList(n.Items)
	case *ast.ListLiteral:
		return ev.evalList(n.Items)
	case *ast.PrefixExpr:
		right, err := ev.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return unaryOp(n.Operator, right, n.Token.Col)
	case *ast.InfixExpr:
		left, err := ev.eval(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := ev.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return binaryOp(n.Operator, left, right, n.Token.Col)
	case *ast.FieldExpr:
		return ev.evalField(n)
	case *ast.IndexExpr:
		return ev.evalIndex(n)
	case *ast.SliceExpr:
		return ev.evalSlice(n)
	case *ast.CallExpr:
		return ev.evalCall(n)
	}
	return nil, errors.Errorf("unsupported expression %s", node.String())
}

func (ev *evaluator) lookup(n *ast.Identifier) (Value, error) {
	if v, ok := ev.scope.Lookup(n.Name); ok {
		if v == nil {
			return nil, errors.Errorf("col %d: name %q has no value", n.Token.Col, n.Name)
		}
		return v, nil
	}
	if b, ok := builtins[n.Name]; ok {
		return b, nil
	}
	return nil, errors.Errorf("col %d: name %q is not defined", n.Token.Col, n.Name)
}

func (ev *evaluator) evalList(items []ast.Expression) (Value, error) {
	t := make(Tuple, len(items))
	for i, item := range items {
		v, err := ev.eval(item)
		if err != nil {
			return nil, err
		}
		t[i] = v
	}
	return t, nil
}

func (ev *evaluator) evalField(n *ast.FieldExpr) (Value, error) {
	obj, err := ev.eval(n.Object)
	if err != nil {
		return nil, err
	}
	o, ok := obj.(*Object)
	if !ok {
		return nil, errors.Errorf("col %d: %s has no attribute %q", n.Token.Col, typeName(obj), n.Field)
	}
	v, ok := o.Attr(n.Field)
	if !ok || v == nil {
		return nil, errors.Errorf("col %d: %s has no attribute %q", n.Token.Col, n.Object.String(), n.Field)
	}
	return v, nil
}

func (ev *evaluator) evalIndex(n *ast.IndexExpr) (Value, error) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return nil, err
	}
	seq, ok := left.(Tuple)
	if !ok {
		return nil, errors.Errorf("col %d: %s is not subscriptable", n.Token.Col, typeName(left))
	}
	idx, err := ev.evalInt(n.Index, "index")
	if err != nil {
		return nil, err
	}
	i := idx
	if i < 0 {
		i += len(seq)
	}
	if i < 0 || i >= len(seq) {
		return nil, errors.Errorf("col %d: index %d out of range for length %d", n.Token.Col, idx, len(seq))
	}
	return seq[i], nil
}

func (ev *evaluator) evalSlice(n *ast.SliceExpr) (Value, error) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return nil, err
	}
	seq, ok := left.(Tuple)
	if !ok {
		return nil, errors.Errorf("col %d: %s is not subscriptable", n.Token.Col, typeName(left))
	}
	lo, hi := 0, len(seq)
	if n.Low != nil {
		if lo, err = ev.evalInt(n.Low, "slice bound"); err != nil {
			return nil, err
		}
		lo = clampIndex(lo, len(seq))
	}
	if n.High != nil {
		if hi, err = ev.evalInt(n.High, "slice bound"); err != nil {
			return nil, err
		}
		hi = clampIndex(hi, len(seq))
	}
	if hi < lo {
		hi = lo
	}
	out := make(Tuple, hi-lo)
	copy(out, seq[lo:hi])
	return out, nil
}

// clampIndex resolves a negative slice bound and clamps it into [0, n].
func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func (ev *evaluator) evalInt(node ast.Expression, what string) (int, error) {
	v, err := ev.eval(node)
	if err != nil {
		return 0, err
	}
	n, ok := v.(Int)
	if !ok {
		return 0, errors.Errorf("%s must be an int, got %s", what, describe(v))
	}
	return int(n), nil
}

func (ev *evaluator) evalCall(n *ast.CallExpr) (Value, error) {
	fn, err := ev.eval(n.Function)
	if err != nil {
		return nil, err
	}
	b, ok := fn.(*Builtin)
	if !ok {
		return nil, errors.Errorf("col %d: %s is not callable", n.Token.Col, typeName(fn))
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		if args[i], err = ev.eval(a); err != nil {
			return nil, err
		}
	}
	v, err := b.Fn(args)
	if err != nil {
		return nil, errors.WithMessagef(err, "col %d: %s()", n.Token.Col, b.Name)
	}
	return v, nil
}
