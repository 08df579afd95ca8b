package pattern

import "fmt"

// PatternSyntaxError reports a malformed pattern string. It is returned by
// Parse before any value is inspected.
type PatternSyntaxError struct {
	Pattern string // the full pattern string
	Term    string // the offending term text
	Col     int    // 1-based column of the offending term
	Err     error  // what is wrong; ErrMultipleVariadic for a second variadic
}

func (e *PatternSyntaxError) Error() string {
	return fmt.Sprintf("invalid pattern %q: col %d: term %q: %v", e.Pattern, e.Col, e.Term, e.Err)
}

func (e *PatternSyntaxError) Unwrap() error { return e.Err }
