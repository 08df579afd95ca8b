package pattern

import (
	"strconv"

	"github.com/pkg/errors"
)

// ErrMultipleVariadic is the cause of a PatternSyntaxError for a pattern
// with two or more variadic terms, in any combination of `...` and `*name`.
var ErrMultipleVariadic = errors.New("more than one variadic specifier in a single pattern")

// Parse parses src into a Pattern. Malformed input is reported as a
// *PatternSyntaxError.
func Parse(src string) (*Pattern, error) {
	raws, err := scan(src)
	if err != nil {
		return nil, err
	}

	p := &Pattern{src: src, terms: make([]Term, 0, len(raws)), variadic: -1}
	for _, raw := range raws {
		t, err := classify(raw)
		if err != nil {
			return nil, &PatternSyntaxError{Pattern: src, Term: raw.text, Col: raw.col, Err: err}
		}
		if t.Kind == Variadic {
			if p.variadic >= 0 {
				return nil, &PatternSyntaxError{Pattern: src, Term: raw.text, Col: raw.col, Err: ErrMultipleVariadic}
			}
			p.variadic = len(p.terms)
		}
		p.terms = append(p.terms, t)
	}
	return p, nil
}

// MustParse is like Parse but panics on error. It is meant for patterns
// written as literals in Go source.
func MustParse(src string) *Pattern {
	p, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return p
}

// rawTerm is one whitespace-delimited token from scan.
type rawTerm struct {
	text string
	col  int
}

// scan splits src on ASCII whitespace. A `*{` opens a splice that extends to
// its matching `}`; whitespace and nested braces inside it do not split.
func scan(src string) ([]rawTerm, error) {
	var out []rawTerm
	i := 0
	for i < len(src) {
		if isSpace(src[i]) {
			i++
			continue
		}
		start := i
		if src[i] == '*' && i+1 < len(src) && src[i+1] == '{' {
			depth := 0
			j := i + 1
			for ; j < len(src); j++ {
				if src[j] == '{' {
					depth++
				} else if src[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			if j == len(src) {
				return nil, &PatternSyntaxError{Pattern: src, Term: src[start:], Col: start + 1,
					Err: errors.New("unterminated splice, missing '}'")}
			}
			i = j + 1
			if i < len(src) && !isSpace(src[i]) {
				k := i
				for k < len(src) && !isSpace(src[k]) {
					k++
				}
				return nil, &PatternSyntaxError{Pattern: src, Term: src[start:k], Col: start + 1,
					Err: errors.Errorf("unexpected %q after splice", src[i])}
			}
		} else {
			for i < len(src) && !isSpace(src[i]) {
				i++
			}
		}
		out = append(out, rawTerm{text: src[start:i], col: start + 1})
	}
	return out, nil
}

func classify(raw rawTerm) (Term, error) {
	s := raw.text
	t := Term{Text: s, Col: raw.col}

	switch {
	case s == "...":
		t.Kind = Variadic
		return t, nil

	case len(s) >= 2 && s[0] == '*' && s[1] == '{':
		// scan guarantees the closing brace is the last byte.
		expr := s[2 : len(s)-1]
		if isBlank(expr) {
			return t, errors.New("empty splice expression")
		}
		t.Kind = Splice
		t.Expr = expr
		return t, nil

	case s[0] == '*':
		name := s[1:]
		if !isIdent(name) {
			return t, errors.Errorf("invalid variadic name %q", name)
		}
		t.Kind = Variadic
		t.Name = name
		return t, nil

	case isInteger(s):
		n, err := strconv.Atoi(s)
		if err != nil {
			return t, errors.Errorf("axis size %s out of range", s)
		}
		t.Kind = Fixed
		t.Size = n
		return t, nil

	case isIdent(s):
		t.Kind = Named
		t.Name = s
		return t, nil
	}
	return t, errors.Errorf("invalid term %q", s)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isSpace(s[i]) {
			return false
		}
	}
	return true
}

// isInteger matches -?[0-9]+.
func isInteger(s string) bool {
	if s != "" && s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isIdent matches [A-Za-z_][A-Za-z0-9_]*.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		letter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		if !letter && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
}
