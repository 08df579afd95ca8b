package eval

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// builtins are resolved after the scope, so a scope name shadows them.
var builtins = map[string]*Builtin{}

func init() {
	for _, b := range []*Builtin{
		{Name: "tuple", Fn: builtinTuple},
		{Name: "list", Fn: builtinTuple},
		{Name: "range", Fn: builtinRange},
		{Name: "len", Fn: builtinLen},
		{Name: "sum", Fn: builtinSum},
		{Name: "min", Fn: func(args []Value) (Value, error) { return extremum(args, -1) }},
		{Name: "max", Fn: func(args []Value) (Value, error) { return extremum(args, 1) }},
		{Name: "abs", Fn: builtinAbs},
		{Name: "int", Fn: builtinInt},
	} {
		builtins[b.Name] = b
	}
}

// BuiltinNames lists the builtin functions available to every expression.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func wantArgs(args []Value, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return errors.Errorf("takes %d argument(s), got %d", lo, len(args))
		}
		return errors.Errorf("takes %d to %d arguments, got %d", lo, hi, len(args))
	}
	return nil
}

func asTuple(v Value) (Tuple, error) {
	t, ok := v.(Tuple)
	if !ok {
		return nil, errors.Errorf("%s is not iterable", typeName(v))
	}
	return t, nil
}

func asInt(v Value, what string) (int, error) {
	n, ok := v.(Int)
	if !ok {
		return 0, errors.Errorf("%s must be an int, got %s", what, describe(v))
	}
	return int(n), nil
}

func builtinTuple(args []Value) (Value, error) {
	if err := wantArgs(args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return Tuple{}, nil
	}
	t, err := asTuple(args[0])
	if err != nil {
		return nil, err
	}
	out := make(Tuple, len(t))
	copy(out, t)
	return out, nil
}

// builtinRange implements range(stop), range(start, stop) and
// range(start, stop, step).
func builtinRange(args []Value) (Value, error) {
	if err := wantArgs(args, 1, 3); err != nil {
		return nil, err
	}
	ints := make([]int, len(args))
	for i, a := range args {
		n, err := asInt(a, "argument")
		if err != nil {
			return nil, err
		}
		ints[i] = n
	}
	start, stop, step := 0, 0, 1
	switch len(ints) {
	case 1:
		stop = ints[0]
	case 2:
		start, stop = ints[0], ints[1]
	case 3:
		start, stop, step = ints[0], ints[1], ints[2]
	}
	if step == 0 {
		return nil, errors.New("step must not be zero")
	}

	var count int
	switch {
	case step > 0 && start < stop:
		count = int((int64(stop) - int64(start) + int64(step) - 1) / int64(step))
	case step < 0 && start > stop:
		count = int((int64(start) - int64(stop) - int64(step) - 1) / int64(-step))
	}
	if count < 0 || count > maxSeqLen {
		return nil, errors.Errorf("range longer than %d items", maxSeqLen)
	}
	out := make(Tuple, count)
	for i := range out {
		out[i] = Int(start + i*step)
	}
	return out, nil
}

func builtinLen(args []Value) (Value, error) {
	if err := wantArgs(args, 1, 1); err != nil {
		return nil, err
	}
	t, err := asTuple(args[0])
	if err != nil {
		return nil, err
	}
	return Int(len(t)), nil
}

// builtinSum implements sum(seq) and sum(seq, start).
func builtinSum(args []Value) (Value, error) {
	if err := wantArgs(args, 1, 2); err != nil {
		return nil, err
	}
	t, err := asTuple(args[0])
	if err != nil {
		return nil, err
	}
	var acc Value = Int(0)
	if len(args) == 2 {
		acc = args[1]
	}
	for _, item := range t {
		if acc, err = binaryOp("+", acc, item, 0); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// extremum implements min (sign -1) and max (sign 1), over either a single
// sequence argument or two or more numeric arguments.
func extremum(args []Value, sign int) (Value, error) {
	if len(args) == 0 {
		return nil, errors.New("expected at least 1 argument, got 0")
	}
	items := args
	if len(args) == 1 {
		t, err := asTuple(args[0])
		if err != nil {
			return nil, err
		}
		if len(t) == 0 {
			return nil, errors.New("arg is an empty sequence")
		}
		items = t
	}
	best := items[0]
	bestF, ok := numeric(best)
	if !ok {
		return nil, errors.Errorf("cannot compare %s", typeName(best))
	}
	for _, item := range items[1:] {
		f, ok := numeric(item)
		if !ok {
			return nil, errors.Errorf("cannot compare %s", typeName(item))
		}
		if (sign > 0 && f > bestF) || (sign < 0 && f < bestF) {
			best, bestF = item, f
		}
	}
	return best, nil
}

func numeric(v Value) (float64, bool) {
	switch x := v.(type) {
	case Int:
		return float64(x), true
	case Float:
		return float64(x), true
	}
	return 0, false
}

func builtinAbs(args []Value) (Value, error) {
	if err := wantArgs(args, 1, 1); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case Int:
		if x < 0 {
			return unaryOp("-", x, 0)
		}
		return x, nil
	case Float:
		return Float(math.Abs(float64(x))), nil
	}
	return nil, errors.Errorf("bad operand type: %s", typeName(args[0]))
}

// builtinInt truncates floats toward zero.
func builtinInt(args []Value) (Value, error) {
	if err := wantArgs(args, 1, 1); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case Int:
		return x, nil
	case Float:
		f := math.Trunc(float64(x))
		if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return nil, errors.Errorf("cannot convert %s to int", x.String())
		}
		return fromInt64(int64(f))
	}
	return nil, errors.Errorf("cannot convert %s to int", typeName(args[0]))
}
