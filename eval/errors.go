package eval

import (
	"fmt"
	"strings"
)

// ExpressionError reports a splice expression that could not be parsed or
// evaluated, or whose result is neither an int nor a sequence of ints.
//
// Expr is always set. Pattern and Term are filled in by the shape matcher when
// the expression came from a pattern; they are empty for a direct Evaluate.
type ExpressionError struct {
	Expr    string
	Pattern string
	Term    string
	Err     error
}

func (e *ExpressionError) Error() string {
	var b strings.Builder
	if e.Pattern != "" {
		fmt.Fprintf(&b, "pattern %q: ", e.Pattern)
	}
	if e.Term != "" {
		fmt.Fprintf(&b, "term %s: ", e.Term)
	}
	fmt.Fprintf(&b, "expression %q: %v", e.Expr, e.Err)
	return b.String()
}

// Unwrap returns the underlying cause. There is no Cause method, so
// github.com/pkg/errors.Cause stops at the ExpressionError.
func (e *ExpressionError) Unwrap() error { return e.Err }

// InPattern returns a copy of e annotated with the pattern and term it came
// from.
func (e *ExpressionError) InPattern(pattern, term string) *ExpressionError {
	c := *e
	c.Pattern = pattern
	c.Term = term
	return &c
}
