package eval

import (
	"github.com/pkg/errors"
)

// Scope is the read-only namespace a splice expression is evaluated in.
// The calling layer captures it once per episode: argument values by name,
// and the receiver as an Object (conventionally under "self").
//
// Pattern bindings are never part of a Scope.
type Scope interface {
	Lookup(name string) (Value, bool)
}

// MapScope is a Scope backed by a map. It must not be modified while an
// evaluation is using it.
type MapScope map[string]Value

// Lookup implements Scope.
func (s MapScope) Lookup(name string) (Value, bool) {
	v, ok := s[name]
	return v, ok
}

// EmptyScope has no names; only builtins resolve.
var EmptyScope Scope = MapScope(nil)

// NewScope converts plain Go values with FromGo and returns them as a
// MapScope.
func NewScope(vars map[string]any) (MapScope, error) {
	s := make(MapScope, len(vars))
	for name, x := range vars {
		v, err := FromGo(x)
		if err != nil {
			return nil, errors.WithMessagef(err, "scope name %q", name)
		}
		s[name] = v
	}
	return s, nil
}

// Layered looks names up in each scope in order and returns the first hit.
// Typical use is call arguments over a receiver's attributes.
type Layered []Scope

// Lookup implements Scope.
func (l Layered) Lookup(name string) (Value, bool) {
	for _, s := range l {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(name); ok {
			return v, true
		}
	}
	return nil, false
}
