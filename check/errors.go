package check

import (
	"fmt"
	"strings"
)

// Reason classifies a ShapeMismatchError.
type Reason int

const (
	// ReasonInvalidShape: the concrete shape has a negative axis size.
	ReasonInvalidShape Reason = iota
	// ReasonRank: no variadic term and the shape has the wrong number of axes.
	ReasonRank
	// ReasonTooShort: a variadic term is present but the shape has fewer
	// axes than the fixed, named and spliced terms need.
	ReasonTooShort
	// ReasonFixed: an axis differs from a fixed or spliced size.
	ReasonFixed
	// ReasonNamed: a named axis differs from its earlier binding.
	ReasonNamed
	// ReasonVariadic: a named variadic differs from its earlier binding.
	ReasonVariadic
	// ReasonKind: a name is used both as a single axis and as a variadic.
	ReasonKind
)

var reasonText = [...]string{
	ReasonInvalidShape: "invalid shape",
	ReasonRank:         "rank mismatch",
	ReasonTooShort:     "shape too short",
	ReasonFixed:        "fixed size mismatch",
	ReasonNamed:        "named axis mismatch",
	ReasonVariadic:     "variadic mismatch",
	ReasonKind:         "axis/variadic conflict",
}

func (r Reason) String() string {
	if int(r) >= 0 && int(r) < len(reasonText) {
		return reasonText[r]
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// ShapeMismatchError reports a shape that does not match its pattern.
//
// Pattern, Shape and Reason are always set. Term is the offending term text
// when the failure is localised to one term, and Axis the offending axis
// index (-1 when there is none). Name, Expected and Observed describe binding
// and fixed-size failures; WantRank and GotRank describe rank failures.
type ShapeMismatchError struct {
	Pattern string
	Term    string
	Axis    int
	Shape   []int
	Reason  Reason

	Name     string
	Expected Binding
	Observed Binding

	WantRank int
	GotRank  int
}

func (e *ShapeMismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "shape %s does not match pattern %q: %s", FormatShape(e.Shape), e.Pattern, e.Reason)
	if e.Term != "" {
		fmt.Fprintf(&b, " at term %q", e.Term)
	}
	if e.Axis >= 0 {
		fmt.Fprintf(&b, " (axis %d)", e.Axis)
	}
	b.WriteString(": ")
	b.WriteString(e.detail())
	return b.String()
}

func (e *ShapeMismatchError) detail() string {
	switch e.Reason {
	case ReasonInvalidShape:
		return fmt.Sprintf("axis size %d is negative", e.Observed.Dims[0])
	case ReasonRank:
		return fmt.Sprintf("expected %d axes, got %d", e.WantRank, e.GotRank)
	case ReasonTooShort:
		return fmt.Sprintf("expected at least %d axes, got %d", e.WantRank, e.GotRank)
	case ReasonFixed:
		return fmt.Sprintf("expected %s, got %s", e.Expected, e.Observed)
	case ReasonKind:
		return fmt.Sprintf("%s was bound to %s, now used for %s", e.Name, kindOf(e.Expected), kindOf(e.Observed))
	}
	return fmt.Sprintf("%s was bound to %s, got %s", e.Name, e.Expected, e.Observed)
}

func kindOf(b Binding) string {
	if b.Variadic {
		return "variadic " + b.String()
	}
	return "axis " + b.String()
}

// locate fills in where a context-level mismatch happened.
func (e *ShapeMismatchError) locate(pattern, term string, axis int, shape []int) *ShapeMismatchError {
	e.Pattern = pattern
	e.Term = term
	e.Axis = axis
	e.Shape = copyDims(shape)
	return e
}

func copyDims(dims []int) []int {
	c := make([]int, len(dims))
	copy(c, dims)
	return c
}
