package check

import (
	"sort"
	"strconv"
	"strings"
)

// Binding is the value recorded for a symbol: one axis size for a named
// term, or the run of sizes a named variadic consumed.
type Binding struct {
	Dims     []int
	Variadic bool
}

// Axis returns the binding of a single named axis.
func Axis(n int) Binding { return Binding{Dims: []int{n}} }

// Run returns the binding of a named variadic. dims is copied.
func Run(dims []int) Binding {
	c := make([]int, len(dims))
	copy(c, dims)
	return Binding{Dims: c, Variadic: true}
}

// Equal reports exact equality, element-wise and in kind.
func (b Binding) Equal(o Binding) bool {
	if b.Variadic != o.Variadic || len(b.Dims) != len(o.Dims) {
		return false
	}
	for i := range b.Dims {
		if b.Dims[i] != o.Dims[i] {
			return false
		}
	}
	return true
}

// String renders a single axis as its size and a run as a tuple: 5, (5, 6).
func (b Binding) String() string {
	if !b.Variadic && len(b.Dims) == 1 {
		return strconv.Itoa(b.Dims[0])
	}
	return FormatShape(b.Dims)
}

// FormatShape renders dims as a tuple: (), (5,), (2, 3).
func FormatShape(dims []int) string {
	if len(dims) == 1 {
		return "(" + strconv.Itoa(dims[0]) + ",)"
	}
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Context is the binding table of one check episode: every parameter and
// the return value of a single call. Named axes and named variadics share
// one namespace.
//
// A Context is created fresh per episode and must not be shared across
// episodes or used from more than one goroutine.
type Context struct {
	bindings map[string]Binding
}

// NewContext returns an empty binding table for a new episode.
func NewContext() *Context {
	return &Context{bindings: make(map[string]Binding)}
}

// Bind records name -> b if name is unbound. If name is already bound the
// stored value must equal b exactly; otherwise a *ShapeMismatchError carrying
// Name, Expected and Observed is returned and the table is left unchanged.
func (c *Context) Bind(name string, b Binding) error {
	prev, ok := c.bindings[name]
	if !ok {
		c.bindings[name] = b
		return nil
	}
	if prev.Equal(b) {
		return nil
	}
	reason := ReasonNamed
	switch {
	case prev.Variadic != b.Variadic:
		reason = ReasonKind
	case b.Variadic:
		reason = ReasonVariadic
	}
	return &ShapeMismatchError{
		Reason:   reason,
		Axis:     -1,
		Name:     name,
		Expected: prev,
		Observed: b,
	}
}

// Lookup returns the binding for name.
func (c *Context) Lookup(name string) (Binding, bool) {
	b, ok := c.bindings[name]
	return b, ok
}

// Len returns the number of bound names.
func (c *Context) Len() int { return len(c.bindings) }

// Names returns the bound names in sorted order.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.bindings))
	for name := range c.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the table as "a=3 batch=(2, 5)" in name order.
func (c *Context) String() string {
	names := c.Names()
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + c.bindings[name].String()
	}
	return strings.Join(parts, " ")
}
