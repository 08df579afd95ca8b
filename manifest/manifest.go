// Package manifest loads YAML documents describing check episodes and runs
// them through a check.Checker. A manifest stands in for a call-interception
// layer: each episode carries the scope snapshot and the argument shapes a
// real call would have produced.
//
//	episodes:
//	  - name: forward
//	    scope: {self: {shape: [3, 4]}, s1: [1, 2]}
//	    args:
//	      - {name: x, pattern: "... *{self.shape}", shape: [2, 3, 4]}
//	    return: {pattern: "...", shape: [2]}
//	    expect: pass
package manifest

import (
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/metaphox/shapepat/check"
	"github.com/metaphox/shapepat/eval"
	"github.com/metaphox/shapepat/pattern"
)

// Expect is the outcome an episode is expected to have.
type Expect string

const (
	ExpectPass Expect = "pass"
	ExpectFail Expect = "fail"
)

// Manifest is a decoded document.
type Manifest struct {
	Episodes []Episode `yaml:"episodes"`
}

// Episode is one call: its scope, its arguments in declaration order and an
// optional return value.
type Episode struct {
	Name   string         `yaml:"name,omitempty"`
	Scope  map[string]any `yaml:"scope,omitempty"`
	Args   []Arg          `yaml:"args,omitempty"`
	Return *Arg           `yaml:"return,omitempty"`
	Expect Expect         `yaml:"expect,omitempty"`
	// Reason, when set on a failing episode, must equal Classify of the
	// error: a check.Reason text, "syntax error" or "expression error".
	Reason string `yaml:"reason,omitempty"`

	scope eval.MapScope
}

// Arg is one argument or return value. An empty shape is a scalar.
type Arg struct {
	Name    string `yaml:"name,omitempty"`
	Pattern string `yaml:"pattern"`
	Shape   []int  `yaml:"shape"`
}

// Load decodes and validates a manifest. Unknown keys are rejected.
func Load(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return nil, errors.New("empty manifest")
		}
		return nil, errors.Wrap(err, "decoding manifest")
	}
	if len(m.Episodes) == 0 {
		return nil, errors.New("manifest has no episodes")
	}

	for i := range m.Episodes {
		ep := &m.Episodes[i]
		if ep.Name == "" {
			ep.Name = "episode " + strconv.Itoa(i+1)
		}
		switch ep.Expect {
		case "":
			ep.Expect = ExpectPass
		case ExpectPass, ExpectFail:
		default:
			return nil, errors.Errorf("episode %q: expect must be %q or %q, got %q", ep.Name, ExpectPass, ExpectFail, ep.Expect)
		}
		if ep.Reason != "" && ep.Expect != ExpectFail {
			return nil, errors.Errorf("episode %q: reason is only meaningful with expect: fail", ep.Name)
		}
		scope, err := eval.NewScope(ep.Scope)
		if err != nil {
			return nil, errors.WithMessagef(err, "episode %q", ep.Name)
		}
		ep.scope = scope
	}
	return &m, nil
}

// LoadFile reads and decodes the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return m, nil
}

// Call converts the episode to a check.Call.
func (ep *Episode) Call() check.Call {
	call := check.Call{Scope: ep.scope}
	for i, a := range ep.Args {
		name := a.Name
		if name == "" {
			name = "arg" + strconv.Itoa(i)
		}
		call.Args = append(call.Args, check.Argument{Name: name, Pattern: a.Pattern, Shape: a.Shape})
	}
	if ep.Return != nil {
		call.Return = &check.Argument{Name: ep.Return.Name, Pattern: ep.Return.Pattern, Shape: ep.Return.Shape}
	}
	return call
}

// Outcome is the result of running one episode.
type Outcome struct {
	Episode  string
	Expect   Expect
	Reason   string
	Err      error          // nil when every check passed
	Bindings *check.Context // bindings made, including those before a failure
}

// OK reports whether the outcome is the expected one.
func (o Outcome) OK() bool {
	if o.Expect == ExpectFail {
		return o.Err != nil && (o.Reason == "" || o.Reason == Classify(o.Err))
	}
	return o.Err == nil
}

// Run checks every episode with c, in document order.
func (m *Manifest) Run(c *check.Checker) []Outcome {
	out := make([]Outcome, len(m.Episodes))
	for i := range m.Episodes {
		ep := &m.Episodes[i]
		ctx, err := c.CheckCall(ep.Call())
		out[i] = Outcome{
			Episode:  ep.Name,
			Expect:   ep.Expect,
			Reason:   ep.Reason,
			Err:      err,
			Bindings: ctx,
		}
	}
	return out
}

// Classify names the kind of a check error.
func Classify(err error) string {
	var m *check.ShapeMismatchError
	if errors.As(err, &m) {
		return m.Reason.String()
	}
	var se *pattern.PatternSyntaxError
	if errors.As(err, &se) {
		return "syntax error"
	}
	var ee *eval.ExpressionError
	if errors.As(err, &ee) {
		return "expression error"
	}
	return "error"
}
