package expr

import (
	"math"
	"math/big"
)

const (
	// maxIntExponent bounds integer powers so a short program cannot
	// allocate unbounded memory.
	maxIntExponent = 100_000
	maxIntBits     = 1_000_000
)

func unary(op string, x Value) (Value, error) {
	if op == "not" {
		return Bool(!x.truthy()), nil
	}
	if !x.isNumeric() {
		return Value{}, errorf(ErrType, -1, "bad operand type for unary %s: %s", op, x.kind)
	}
	if x.kind == KindFloat {
		if op == "-" {
			return Float(-x.f), nil
		}
		return x, nil
	}
	i, _ := x.integer()
	if op == "-" {
		return BigInt(new(big.Int).Neg(i)), nil
	}
	return BigInt(new(big.Int).Set(i)), nil
}

func binary(op string, x, y Value) (Value, error) {
	if !x.isNumeric() || !y.isNumeric() {
		return Value{}, errorf(ErrType, -1, "unsupported operand types for %s: %s and %s", op, x.kind, y.kind)
	}
	a, aInt := x.integer()
	b, bInt := y.integer()
	if aInt && bInt {
		return intBinary(op, a, b)
	}
	fa, err := x.Float64()
	if err != nil {
		return Value{}, err
	}
	fb, err := y.Float64()
	if err != nil {
		return Value{}, err
	}
	return floatBinary(op, fa, fb)
}

func intBinary(op string, a, b *big.Int) (Value, error) {
	switch op {
	case "+":
		return BigInt(new(big.Int).Add(a, b)), nil
	case "-":
		return BigInt(new(big.Int).Sub(a, b)), nil
	case "*":
		if a.BitLen()+b.BitLen() > maxIntBits {
			return Value{}, errorf(ErrLimit, -1, "integer product exceeds %d bits", maxIntBits)
		}
		return BigInt(new(big.Int).Mul(a, b)), nil
	case "/":
		if b.Sign() == 0 {
			return Value{}, errorf(ErrZeroDivision, -1, "division by zero")
		}
		f, _ := new(big.Rat).SetFrac(a, b).Float64()
		if math.IsInf(f, 0) {
			return Value{}, errorf(ErrOverflow, -1, "integer division result too large for a float")
		}
		return Float(f), nil
	case "//":
		if b.Sign() == 0 {
			return Value{}, errorf(ErrZeroDivision, -1, "integer division or modulo by zero")
		}
		q, m := new(big.Int).QuoRem(a, b, new(big.Int))
		if m.Sign() != 0 && (m.Sign() < 0) != (b.Sign() < 0) {
			q.Sub(q, big.NewInt(1))
		}
		return BigInt(q), nil
	case "%":
		if b.Sign() == 0 {
			return Value{}, errorf(ErrZeroDivision, -1, "integer division or modulo by zero")
		}
		_, m := new(big.Int).QuoRem(a, b, new(big.Int))
		if m.Sign() != 0 && (m.Sign() < 0) != (b.Sign() < 0) {
			m.Add(m, b)
		}
		return BigInt(m), nil
	case "**":
		return intPow(a, b)
	}
	return Value{}, errorf(ErrSyntax, -1, "unknown operator %q", op)
}

func intPow(a, b *big.Int) (Value, error) {
	if b.Sign() < 0 {
		if a.Sign() == 0 {
			return Value{}, errorf(ErrZeroDivision, -1, "0.0 cannot be raised to a negative power")
		}
		fa, err := intToFloat(a)
		if err != nil {
			return Value{}, err
		}
		fb, err := intToFloat(b)
		if err != nil {
			return Value{}, err
		}
		return floatPow(fa, fb)
	}
	abs := new(big.Int).Abs(a)
	if abs.Cmp(big.NewInt(1)) <= 0 {
		return BigInt(new(big.Int).Exp(a, b, nil)), nil
	}
	if !b.IsInt64() || b.Int64() > maxIntExponent {
		return Value{}, errorf(ErrLimit, -1, "integer exponent %s exceeds %d", b, maxIntExponent)
	}
	if int64(a.BitLen())*b.Int64() > maxIntBits {
		return Value{}, errorf(ErrLimit, -1, "integer power exceeds %d bits", maxIntBits)
	}
	return BigInt(new(big.Int).Exp(a, b, nil)), nil
}

func floatBinary(op string, a, b float64) (Value, error) {
	switch op {
	case "+":
		return Float(a + b), nil
	case "-":
		return Float(a - b), nil
	case "*":
		return Float(a * b), nil
	case "/":
		if b == 0 {
			return Value{}, errorf(ErrZeroDivision, -1, "float division by zero")
		}
		return Float(a / b), nil
	case "//":
		if b == 0 {
			return Value{}, errorf(ErrZeroDivision, -1, "float floor division by zero")
		}
		return Float(math.Floor(a / b)), nil
	case "%":
		if b == 0 {
			return Value{}, errorf(ErrZeroDivision, -1, "float modulo")
		}
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return Float(m), nil
	case "**":
		return floatPow(a, b)
	}
	return Value{}, errorf(ErrSyntax, -1, "unknown operator %q", op)
}

func floatPow(a, b float64) (Value, error) {
	if a == 0 && b < 0 {
		return Value{}, errorf(ErrZeroDivision, -1, "0.0 cannot be raised to a negative power")
	}
	if a < 0 && b != math.Trunc(b) {
		return Value{}, errorf(ErrDomain, -1, "negative number cannot be raised to a fractional power")
	}
	r := math.Pow(a, b)
	if math.IsInf(r, 0) && !math.IsInf(a, 0) && !math.IsInf(b, 0) {
		return Value{}, errorf(ErrOverflow, -1, "numerical result out of range")
	}
	return Float(r), nil
}

// compare evaluates a single comparison between numbers. Mixed int/float
// comparisons are exact.
func compare(op string, x, y Value) (bool, error) {
	if !x.isNumeric() || !y.isNumeric() {
		return false, errorf(ErrType, -1, "%q not supported between %s and %s", op, x.kind, y.kind)
	}
	if (x.kind == KindFloat && math.IsNaN(x.f)) || (y.kind == KindFloat && math.IsNaN(y.f)) {
		return op == "!=", nil
	}
	c := toBigFloat(x).Cmp(toBigFloat(y))
	switch op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	case ">=":
		return c >= 0, nil
	case "==":
		return c == 0, nil
	case "!=":
		return c != 0, nil
	}
	return false, errorf(ErrSyntax, -1, "unknown comparison %q", op)
}

func toBigFloat(v Value) *big.Float {
	if v.kind == KindFloat {
		return new(big.Float).SetFloat64(v.f)
	}
	i, _ := v.integer()
	return new(big.Float).SetInt(i)
}
