package check

import (
	"github.com/pkg/errors"

	"github.com/metaphox/shapepat/eval"
	"github.com/metaphox/shapepat/pattern"
)

// Argument is one value under check: its name, its declared pattern and its
// concrete shape.
type Argument struct {
	Name    string
	Pattern string
	Shape   []int
}

// Call is everything a call-interception layer extracts from one call: the
// scope snapshot for splice expressions, the arguments in declaration order,
// and optionally the return value.
type Call struct {
	Scope  eval.Scope
	Args   []Argument
	Return *Argument
}

// ReturnName is the argument name used for a return value with no name.
const ReturnName = "return"

// Checker checks calls. It owns a pattern cache, so the same pattern literal
// is parsed once across every call. A Checker is safe for concurrent use;
// each call gets its own Episode.
type Checker struct {
	patterns *pattern.Cache

	// Trace, if set, is called after every argument check with the
	// argument and its result. It must be safe for concurrent use if the
	// Checker is.
	Trace func(arg Argument, err error)
}

// NewChecker returns a Checker with a fresh pattern cache.
func NewChecker() *Checker {
	return &Checker{patterns: pattern.NewCache()}
}

// NewCheckerWithCache returns a Checker that shares an existing cache.
func NewCheckerWithCache(c *pattern.Cache) *Checker {
	return &Checker{patterns: c}
}

// Cache returns the pattern cache.
func (c *Checker) Cache() *pattern.Cache { return c.patterns }

// Begin starts an episode with scope as its splice namespace.
func (c *Checker) Begin(scope eval.Scope) *Episode {
	return &Episode{checker: c, scope: scope, ctx: NewContext()}
}

// CheckCall checks every argument, then the return value, in one episode.
// It stops at the first failure. The returned Context holds every binding
// made, including those made before a failure.
func (c *Checker) CheckCall(call Call) (*Context, error) {
	ep := c.Begin(call.Scope)
	for _, arg := range call.Args {
		if err := ep.Check(arg); err != nil {
			return ep.Context(), err
		}
	}
	if call.Return != nil {
		ret := *call.Return
		if ret.Name == "" {
			ret.Name = ReturnName
		}
		if err := ep.Check(ret); err != nil {
			return ep.Context(), err
		}
	}
	return ep.Context(), nil
}

// Episode is one call's worth of checks sharing a binding table. It must not
// be used from more than one goroutine.
type Episode struct {
	checker *Checker
	scope   eval.Scope
	ctx     *Context
}

// Check parses arg.Pattern (through the checker's cache) and matches
// arg.Shape against it. The error is a *pattern.PatternSyntaxError,
// *eval.ExpressionError or *ShapeMismatchError annotated with the argument
// name; use errors.As to inspect it.
func (e *Episode) Check(arg Argument) error {
	err := e.check(arg)
	if e.checker.Trace != nil {
		e.checker.Trace(arg, err)
	}
	return err
}

func (e *Episode) check(arg Argument) error {
	p, err := e.checker.patterns.Parse(arg.Pattern)
	if err != nil {
		return errors.WithMessagef(err, "argument %q", arg.Name)
	}
	if err := Match(p, arg.Shape, e.scope, e.ctx); err != nil {
		return errors.WithMessagef(err, "argument %q", arg.Name)
	}
	return nil
}

// Context returns the episode's binding table.
func (e *Episode) Context() *Context { return e.ctx }
