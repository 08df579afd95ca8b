// Package pattern parses shape pattern strings into dimension terms.
//
// A pattern is a whitespace-separated list of terms, one per axis or run of
// axes:
//
//	32          fixed axis of size 32
//	batch       named axis, bound on first use and checked afterwards
//	...         anonymous variadic: zero or more axes, not recorded
//	*batch      named variadic: zero or more axes, bound as a sequence
//	*{expr}     splice: expr is evaluated at match time and expands to one
//	            or more fixed axes
//
// At most one variadic term (named or anonymous) may appear in a pattern.
// Parsing is a pure function of the string; a [Cache] memoises it.
package pattern

import (
	"strconv"
	"strings"
)

// Kind discriminates the variants of a Term.
type Kind int

const (
	Fixed Kind = iota
	Named
	Variadic
	Splice
)

func (k Kind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Named:
		return "named"
	case Variadic:
		return "variadic"
	case Splice:
		return "splice"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Term is one parsed dimension term.
type Term struct {
	Kind Kind
	Text string // source text of the term, e.g. "*{self.shape}"
	Col  int    // 1-based column of the term in the pattern

	Size int    // Fixed: the axis size
	Name string // Named, Variadic: the symbol; "" for the anonymous variadic
	Expr string // Splice: the expression between the braces, verbatim
}

// Anonymous reports whether t is the `...` variadic.
func (t Term) Anonymous() bool { return t.Kind == Variadic && t.Name == "" }

// Pattern is a parsed pattern string. It is immutable and safe to share
// between goroutines.
type Pattern struct {
	src      string
	terms    []Term
	variadic int // index of the variadic term, -1 if none
}

// Source returns the pattern string exactly as given to Parse.
func (p *Pattern) Source() string { return p.src }

// Len returns the number of terms.
func (p *Pattern) Len() int { return len(p.terms) }

// Term returns the i-th term.
func (p *Pattern) Term(i int) Term { return p.terms[i] }

// Terms returns a copy of the terms.
func (p *Pattern) Terms() []Term {
	out := make([]Term, len(p.terms))
	copy(out, p.terms)
	return out
}

// VariadicIndex returns the index of the variadic term, or -1.
func (p *Pattern) VariadicIndex() int { return p.variadic }

// String returns the terms joined by single spaces.
func (p *Pattern) String() string {
	parts := make([]string, len(p.terms))
	for i, t := range p.terms {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}
