package eval

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

func unaryOp(op string, v Value, col int) (Value, error) {
	switch x := v.(type) {
	case Int:
		if op == "-" {
			if x == math.MinInt {
				return nil, errors.Errorf("%sinteger overflow", at(col))
			}
			return -x, nil
		}
		return x, nil
	case Float:
		if op == "-" {
			return -x, nil
		}
		return x, nil
	}
	return nil, errors.Errorf("%sbad operand type for unary %s: %s", at(col), op, typeName(v))
}

func binaryOp(op string, left, right Value, col int) (Value, error) {
	switch l := left.(type) {
	case Int:
		switch r := right.(type) {
		case Int:
			return intOp(op, int(l), int(r), col)
		case Float:
			return floatOp(op, float64(l), float64(r), col)
		case Tuple:
			if op == "*" {
				return repeat(r, int(l), col)
			}
		}
	case Float:
		switch r := right.(type) {
		case Int:
			return floatOp(op, float64(l), float64(r), col)
		case Float:
			return floatOp(op, float64(l), float64(r), col)
		}
	case Tuple:
		switch r := right.(type) {
		case Tuple:
			if op == "+" {
				return concat(l, r, col)
			}
		case Int:
			if op == "*" {
				return repeat(l, int(r), col)
			}
		}
	}
	return nil, errors.Errorf("%sunsupported operand types for %s: %s and %s",
		at(col), op, typeName(left), typeName(right))
}

func intOp(op string, a, b, col int) (Value, error) {
	overflow := errors.Errorf("%sinteger overflow in %d %s %d", at(col), a, op, b)
	switch op {
	case "+":
		s := a + b
		if (s > a) != (b > 0) {
			return nil, overflow
		}
		return Int(s), nil
	case "-":
		d := a - b
		if (d < a) != (b > 0) {
			return nil, overflow
		}
		return Int(d), nil
	case "*":
		if a == 0 || b == 0 {
			return Int(0), nil
		}
		p := a * b
		if p/b != a || (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
			return nil, overflow
		}
		return Int(p), nil
	case "/":
		if b == 0 {
			return nil, errors.Errorf("%sdivision by zero", at(col))
		}
		return Float(float64(a) / float64(b)), nil
	case "//":
		if b == 0 {
			return nil, errors.Errorf("%sinteger division by zero", at(col))
		}
		if a == math.MinInt && b == -1 {
			return nil, overflow
		}
		return Int(floorDiv(a, b)), nil
	case "%":
		if b == 0 {
			return nil, errors.Errorf("%sinteger modulo by zero", at(col))
		}
		if b == -1 {
			return Int(0), nil
		}
		return Int(floorMod(a, b)), nil
	case "**":
		return power(a, b, col)
	}
	return nil, errors.Errorf("%sunsupported operator %s", at(col), op)
}

func floatOp(op string, a, b float64, col int) (Value, error) {
	switch op {
	case "+":
		return Float(a + b), nil
	case "-":
		return Float(a - b), nil
	case "*":
		return Float(a * b), nil
	case "/":
		if b == 0 {
			return nil, errors.Errorf("%sdivision by zero", at(col))
		}
		return Float(a / b), nil
	}
	return nil, errors.Errorf("%sunsupported operand types for %s: float", at(col), op)
}

// floorDiv rounds toward negative infinity, unlike Go's truncating division.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod takes the sign of the divisor.
func floorMod(a, b int) int {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func power(base, exp, col int) (Value, error) {
	if exp < 0 {
		return nil, errors.Errorf("%snegative exponent %d", at(col), exp)
	}
	if exp == 0 {
		return Int(1), nil
	}
	result := 1
	for i := 0; i < exp; i++ {
		if base == 0 || base == 1 {
			return Int(base), nil
		}
		if base == -1 {
			if exp%2 == 1 {
				return Int(-1), nil
			}
			return Int(1), nil
		}
		next := result * base
		if next/base != result {
			return nil, errors.Errorf("%sinteger overflow in %d ** %d", at(col), base, exp)
		}
		result = next
	}
	return Int(result), nil
}

func concat(a, b Tuple, col int) (Value, error) {
	if len(a)+len(b) > maxSeqLen {
		return nil, errors.Errorf("%ssequence longer than %d items", at(col), maxSeqLen)
	}
	out := make(Tuple, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...), nil
}

func repeat(t Tuple, n, col int) (Value, error) {
	if n <= 0 || len(t) == 0 {
		return Tuple{}, nil
	}
	if n > maxSeqLen/len(t) {
		return nil, errors.Errorf("%ssequence longer than %d items", at(col), maxSeqLen)
	}
	out := make(Tuple, 0, len(t)*n)
	for i := 0; i < n; i++ {
		out = append(out, t...)
	}
	return out, nil
}

// at renders a column prefix for error messages; builtins pass col 0, which
// has no position.
func at(col int) string {
	if col <= 0 {
		return ""
	}
	return fmt.Sprintf("col %d: ", col)
}
