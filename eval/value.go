package eval

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies the dynamic type of a Value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindTuple
	KindObject
	KindBuiltin
)

var kindNames = [...]string{
	KindInt:     "int",
	KindFloat:   "float",
	KindTuple:   "tuple",
	KindObject:  "object",
	KindBuiltin: "builtin",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is anything an expression can produce or a scope can hold.
// Values are immutable: operators always build new values.
type Value interface {
	Kind() Kind
	String() string
}

// Int is an integer value.
type Int int

func (Int) Kind() Kind       { return KindInt }
func (v Int) String() string { return strconv.Itoa(int(v)) }

// Float is a floating-point value. Floats can take part in arithmetic but are
// never accepted as axis sizes.
type Float float64

func (Float) Kind() Kind       { return KindFloat }
func (v Float) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

// Tuple is an ordered sequence of values. Both tuple and list literals
// evaluate to a Tuple.
type Tuple []Value

func (Tuple) Kind() Kind { return KindTuple }
func (v Tuple) String() string {
	if len(v) == 1 {
		return "(" + v[0].String() + ",)"
	}
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = x.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Ints builds a Tuple of Int values.
func Ints(dims ...int) Tuple {
	t := make(Tuple, len(dims))
	for i, d := range dims {
		t[i] = Int(d)
	}
	return t
}

// Object is a value with named attributes, the shape of a method receiver as
// seen by `self.shape`. Attrs must not be modified once the object is placed
// in a scope.
type Object struct {
	Attrs map[string]Value
}

func (*Object) Kind() Kind { return KindObject }
func (v *Object) String() string {
	names := make([]string, 0, len(v.Attrs))
	for name := range v.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + v.Attrs[name].String()
	}
	return "namespace(" + strings.Join(parts, ", ") + ")"
}

// Attr returns the attribute called name.
func (v *Object) Attr(name string) (Value, bool) {
	x, ok := v.Attrs[name]
	return x, ok
}

// Builtin is a callable provided by the evaluator (range, tuple, len, ...).
type Builtin struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (*Builtin) Kind() Kind       { return KindBuiltin }
func (v *Builtin) String() string { return "<built-in function " + v.Name + ">" }

// FromGo converts a plain Go value into a Value. It accepts every integer
// type, float32/float64, slices and arrays of convertible values, and
// map[string]T (which becomes an Object). This is the shape produced by
// decoding YAML or JSON into `any`, and the shape a call-interception layer
// naturally has at hand for receivers and arguments.
func FromGo(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case int:
		return Int(v), nil
	case int64:
		return fromInt64(v)
	case int32:
		return Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, errors.Errorf("integer %d out of range", v)
		}
		return fromInt64(int64(v))
	case float64:
		return Float(v), nil
	case float32:
		return Float(v), nil
	case []int:
		return Ints(v...), nil
	case []any:
		t := make(Tuple, len(v))
		for i, item := range v {
			iv, err := FromGo(item)
			if err != nil {
				return nil, errors.WithMessagef(err, "item %d", i)
			}
			t[i] = iv
		}
		return t, nil
	case map[string]any:
		obj := &Object{Attrs: make(map[string]Value, len(v))}
		for name, item := range v {
			iv, err := FromGo(item)
			if err != nil {
				return nil, errors.WithMessagef(err, "attribute %q", name)
			}
			obj.Attrs[name] = iv
		}
		return obj, nil
	case nil:
		return nil, errors.New("nil has no value")
	}
	return fromReflect(reflect.ValueOf(x))
}

func fromInt64(v int64) (Value, error) {
	if int64(int(v)) != v {
		return nil, errors.Errorf("integer %d out of range", v)
	}
	return Int(v), nil
}

// fromReflect handles the typed containers and the integer kinds not listed
// in FromGo's fast path.
func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fromInt64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, errors.Errorf("integer %d out of range", u)
		}
		return fromInt64(int64(u))
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		t := make(Tuple, rv.Len())
		for i := range t {
			iv, err := FromGo(rv.Index(i).Interface())
			if err != nil {
				return nil, errors.WithMessagef(err, "item %d", i)
			}
			t[i] = iv
		}
		return t, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		obj := &Object{Attrs: make(map[string]Value, rv.Len())}
		iter := rv.MapRange()
		for iter.Next() {
			name := iter.Key().String()
			iv, err := FromGo(iter.Value().Interface())
			if err != nil {
				return nil, errors.WithMessagef(err, "attribute %q", name)
			}
			obj.Attrs[name] = iv
		}
		return obj, nil
	}
	return nil, errors.Errorf("unsupported value of type %T", rv.Interface())
}

// typeName describes v for error messages.
func typeName(v Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Kind().String()
}

// describe is typeName plus the value itself, for "got ..." messages.
func describe(v Value) string {
	if v == nil {
		return "nothing"
	}
	return fmt.Sprintf("%s %s", typeName(v), v.String())
}
