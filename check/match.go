// Package check matches concrete shapes against parsed patterns and keeps
// the per-episode binding table that makes names agree across parameters.
//
// The collaborator-facing surface is three calls:
//
//	p, err := pattern.Parse("batch *{self.shape} c")
//	ctx := check.NewContext()              // once per episode
//	err = check.Match(p, shape, scope, ctx) // per parameter and return value
//
// Checker and Episode wrap these for a call-interception layer.
package check

import (
	"github.com/pkg/errors"

	"github.com/metaphox/shapepat/eval"
	"github.com/metaphox/shapepat/pattern"
)

// slot is one single-axis position after splices are expanded.
type slot struct {
	term  pattern.Term
	size  int  // expected size when fixed
	fixed bool // Fixed term or splice element; otherwise a Named term
}

// Match checks shape against p, evaluating splice terms in scope and
// reading and writing bindings in ctx.
//
// Splices are evaluated first, left to right, once each. The terms before the
// variadic (if any) anchor to the start of shape, the terms after it to the
// end, and the variadic takes whatever lies between. Fixed sizes and
// bindings are then checked left to right and the first failure is returned:
// *eval.ExpressionError for a splice that cannot be resolved, otherwise
// *ShapeMismatchError. Bindings made before a failure stay in ctx.
//
// A nil scope resolves only builtins. A nil ctx checks p on its own.
func Match(p *pattern.Pattern, shape []int, scope eval.Scope, ctx *Context) error {
	if ctx == nil {
		ctx = NewContext()
	}
	src := p.Source()

	for i, d := range shape {
		if d < 0 {
			return &ShapeMismatchError{
				Pattern:  src,
				Axis:     i,
				Shape:    copyDims(shape),
				Reason:   ReasonInvalidShape,
				Observed: Axis(d),
			}
		}
	}

	// Expand splices into fixed slots around the variadic anchor.
	var (
		prefix, suffix []slot
		variadic       *pattern.Term
	)
	for i := 0; i < p.Len(); i++ {
		t := p.Term(i)
		var add []slot
		switch t.Kind {
		case pattern.Variadic:
			variadic = &t
			continue
		case pattern.Fixed:
			add = []slot{{term: t, size: t.Size, fixed: true}}
		case pattern.Named:
			add = []slot{{term: t}}
		case pattern.Splice:
			res, err := eval.Evaluate(t.Expr, scope)
			if err != nil {
				return spliceError(err, src, t)
			}
			add = make([]slot, len(res.Dims))
			for j, d := range res.Dims {
				add[j] = slot{term: t, size: d, fixed: true}
			}
		}
		if variadic == nil {
			prefix = append(prefix, add...)
		} else {
			suffix = append(suffix, add...)
		}
	}

	// Rank.
	n := len(shape)
	need := len(prefix) + len(suffix)
	if variadic == nil && n != need {
		return &ShapeMismatchError{
			Pattern: src, Axis: -1, Shape: copyDims(shape),
			Reason: ReasonRank, WantRank: need, GotRank: n,
		}
	}
	if variadic != nil && n < need {
		return &ShapeMismatchError{
			Pattern: src, Axis: -1, Shape: copyDims(shape),
			Reason: ReasonTooShort, WantRank: need, GotRank: n,
		}
	}

	// Anchored slots.
	for i, s := range prefix {
		if err := matchSlot(s, i, shape, src, ctx); err != nil {
			return err
		}
	}
	tail := n - len(suffix)
	for i, s := range suffix {
		if err := matchSlot(s, tail+i, shape, src, ctx); err != nil {
			return err
		}
	}

	// The variadic middle.
	if variadic != nil && !variadic.Anonymous() {
		if err := ctx.Bind(variadic.Name, Run(shape[len(prefix):tail])); err != nil {
			return locate(err, src, variadic.Text, -1, shape)
		}
	}
	return nil
}

func matchSlot(s slot, axis int, shape []int, src string, ctx *Context) error {
	got := shape[axis]
	if s.fixed {
		if got != s.size {
			return &ShapeMismatchError{
				Pattern:  src,
				Term:     s.term.Text,
				Axis:     axis,
				Shape:    copyDims(shape),
				Reason:   ReasonFixed,
				Expected: Axis(s.size),
				Observed: Axis(got),
			}
		}
		return nil
	}
	if err := ctx.Bind(s.term.Name, Axis(got)); err != nil {
		return locate(err, src, s.term.Text, axis, shape)
	}
	return nil
}

// locate annotates a Context.Bind failure with where it happened.
func locate(err error, src, term string, axis int, shape []int) error {
	var m *ShapeMismatchError
	if errors.As(err, &m) {
		return m.locate(src, term, axis, shape)
	}
	return err
}

// spliceError attaches the pattern and term to an evaluation failure.
func spliceError(err error, src string, t pattern.Term) error {
	var ee *eval.ExpressionError
	if errors.As(err, &ee) {
		return ee.InPattern(src, t.Text)
	}
	return &eval.ExpressionError{Expr: t.Expr, Pattern: src, Term: t.Text, Err: err}
}
