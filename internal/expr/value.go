package expr

import (
	"fmt"
	"math"
	"math/big"
)

// Kind identifies the dynamic type of a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindRange
	kindSeq
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindRange:
		return "range"
	case kindSeq:
		return "generator"
	default:
		return "invalid"
	}
}

// Value is a dynamically typed evaluator value. Integers are arbitrary
// precision so factorial and combination arguments stay exact.
type Value struct {
	kind Kind
	i    *big.Int
	f    float64
	b    bool
	rng  rangeVal
	seq  sequence
}

type rangeVal struct {
	start, stop, step int64
}

// sequence streams values to yield until it returns an error.
type sequence func(yield func(Value) error) error

// Int returns an integer value.
func Int(v int64) Value {
	return Value{kind: KindInt, i: big.NewInt(v)}
}

// BigInt returns an integer value that takes ownership of v.
func BigInt(v *big.Int) Value {
	return Value{kind: KindInt, i: v}
}

// Float returns a floating point value.
func Float(v float64) Value {
	return Value{kind: KindFloat, f: v}
}

// Bool returns a boolean value.
func Bool(v bool) Value {
	return Value{kind: KindBool, b: v}
}

// Kind returns the dynamic type of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// String renders the value for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return v.i.String()
	case KindFloat:
		return fmt.Sprint(v.f)
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindRange:
		return fmt.Sprintf("range(%d, %d, %d)", v.rng.start, v.rng.stop, v.rng.step)
	default:
		return v.kind.String()
	}
}

func (v Value) isNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat || v.kind == KindBool
}

// integer returns the value as an integer when it is an int or a bool.
func (v Value) integer() (*big.Int, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindBool:
		if v.b {
			return big.NewInt(1), true
		}
		return big.NewInt(0), true
	}
	return nil, false
}

// Float64 converts a numeric value to float64. Integers too large for a
// float report ErrOverflow.
func (v Value) Float64() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInt, KindBool:
		i, _ := v.integer()
		return intToFloat(i)
	}
	return 0, errorf(ErrType, -1, "%s is not a number", v.kind)
}

func intToFloat(i *big.Int) (float64, error) {
	if i.IsInt64() {
		n := i.Int64()
		if n > -(1<<53) && n < 1<<53 {
			return float64(n), nil
		}
	}
	f, _ := new(big.Float).SetInt(i).Float64()
	if math.IsInf(f, 0) {
		return 0, errorf(ErrOverflow, -1, "int too large to convert to float")
	}
	return f, nil
}

func (v Value) truthy() bool {
	switch v.kind {
	case KindInt:
		return v.i.Sign() != 0
	case KindFloat:
		return v.f != 0
	case KindBool:
		return v.b
	case KindRange:
		return v.rng.length() > 0
	}
	return true
}

func (r rangeVal) length() int64 {
	if r.step > 0 && r.start < r.stop {
		return lengthOf(r.start, r.stop, r.step)
	}
	if r.step < 0 && r.start > r.stop {
		return lengthOf(r.stop, r.start, -r.step)
	}
	return 0
}

func lengthOf(lo, hi, step int64) int64 {
	span := new(big.Int).Sub(big.NewInt(hi), big.NewInt(lo))
	span.Sub(span, big.NewInt(1))
	span.Quo(span, big.NewInt(step))
	span.Add(span, big.NewInt(1))
	if !span.IsInt64() {
		return math.MaxInt64
	}
	return span.Int64()
}

// iterate turns an iterable value into a sequence.
func iterate(v Value) (sequence, error) {
	switch v.kind {
	case KindRange:
		r := v.rng
		return func(yield func(Value) error) error {
			n := r.length()
			cur := r.start
			for k := int64(0); k < n; k++ {
				if err := yield(Int(cur)); err != nil {
					return err
				}
				cur += r.step
			}
			return nil
		}, nil
	case kindSeq:
		return v.seq, nil
	}
	return nil, errorf(ErrType, -1, "%s object is not iterable", v.kind)
}
