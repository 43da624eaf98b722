package expr

import (
	"math"
	"math/big"
	"sort"
)

// maxCombinatorialArg bounds factorial and comb arguments.
const maxCombinatorialArg = 100_000

// builtin is a whitelisted function. Arity bounds are inclusive; maxArgs < 0
// means variadic.
type builtin struct {
	minArgs int
	maxArgs int
	// iterable marks functions that accept a generator argument.
	iterable bool
	call     func(ev *evaluation, args []Value) (Value, error)
}

// Library is the fixed set of functions and constants a program may use.
// A Library is immutable once built and safe for concurrent use.
type Library struct {
	funcs  map[string]builtin
	consts map[string]Value
}

var defaultLibrary = newDefaultLibrary()

// DefaultLibrary returns the shared whitelisted library.
func DefaultLibrary() *Library {
	return defaultLibrary
}

func newDefaultLibrary() *Library {
	return &Library{
		funcs: map[string]builtin{
			"exp":       {minArgs: 1, maxArgs: 1, call: floatFunc("exp", expFn)},
			"log":       {minArgs: 1, maxArgs: 2, call: logFn},
			"sqrt":      {minArgs: 1, maxArgs: 1, call: floatFunc("sqrt", sqrtFn)},
			"factorial": {minArgs: 1, maxArgs: 1, call: factorialFn},
			"comb":      {minArgs: 2, maxArgs: 2, call: combFn},
			"binom":     {minArgs: 2, maxArgs: 2, call: combFn},
			"sin":       {minArgs: 1, maxArgs: 1, call: floatFunc("sin", trig(math.Sin))},
			"cos":       {minArgs: 1, maxArgs: 1, call: floatFunc("cos", trig(math.Cos))},
			"tan":       {minArgs: 1, maxArgs: 1, call: floatFunc("tan", trig(math.Tan))},
			"Phi":       {minArgs: 1, maxArgs: 1, call: floatFunc("Phi", phiFn)},
			"abs":       {minArgs: 1, maxArgs: 1, call: absFn},
			"sum":       {minArgs: 1, maxArgs: 2, iterable: true, call: sumFn},
			"min":       {minArgs: 1, maxArgs: -1, iterable: true, call: extremumFn("min", -1)},
			"max":       {minArgs: 1, maxArgs: -1, iterable: true, call: extremumFn("max", 1)},
			"range":     {minArgs: 1, maxArgs: 3, call: rangeFn},
		},
		consts: map[string]Value{
			"pi": Float(math.Pi),
			"e":  Float(math.E),
		},
	}
}

// Has reports whether name is a library function or constant.
func (l *Library) Has(name string) bool {
	if _, ok := l.funcs[name]; ok {
		return true
	}
	_, ok := l.consts[name]
	return ok
}

// Names returns the sorted function and constant names.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.funcs)+len(l.consts))
	for name := range l.funcs {
		names = append(names, name)
	}
	for name := range l.consts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func floatFunc(name string, fn func(float64) (float64, error)) func(*evaluation, []Value) (Value, error) {
	return func(_ *evaluation, args []Value) (Value, error) {
		x, err := args[0].Float64()
		if err != nil {
			return Value{}, errorf(ErrType, -1, "%s() argument must be a number, not %s", name, args[0].kind)
		}
		r, err := fn(x)
		if err != nil {
			return Value{}, err
		}
		return Float(r), nil
	}
}

func expFn(x float64) (float64, error) {
	r := math.Exp(x)
	if math.IsInf(r, 1) && !math.IsInf(x, 1) {
		return 0, errorf(ErrOverflow, -1, "math range error")
	}
	return r, nil
}

func sqrtFn(x float64) (float64, error) {
	if x < 0 {
		return 0, errorf(ErrDomain, -1, "sqrt of negative number %v", x)
	}
	return math.Sqrt(x), nil
}

func trig(fn func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) {
		if math.IsInf(x, 0) {
			return 0, errorf(ErrDomain, -1, "trigonometric function of infinity")
		}
		return fn(x), nil
	}
}

// phiFn is the standard normal cumulative distribution function.
func phiFn(z float64) (float64, error) {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2)), nil
}

func logFn(_ *evaluation, args []Value) (Value, error) {
	x, err := naturalLog(args[0])
	if err != nil {
		return Value{}, err
	}
	if len(args) == 1 {
		return Float(x), nil
	}
	base, err := naturalLog(args[1])
	if err != nil {
		return Value{}, err
	}
	if base == 0 {
		return Value{}, errorf(ErrZeroDivision, -1, "logarithm base 1")
	}
	return Float(x / base), nil
}

// naturalLog computes ln(v), handling integers too large for a float the
// way an exact integer logarithm would.
func naturalLog(v Value) (float64, error) {
	if i, ok := v.integer(); ok {
		if i.Sign() <= 0 {
			return 0, errorf(ErrDomain, -1, "log of non-positive number %s", i)
		}
		if i.BitLen() > 1000 {
			shift := uint(i.BitLen() - 64)
			top, _ := new(big.Float).SetInt(new(big.Int).Rsh(i, shift)).Float64()
			return math.Log(top) + float64(shift)*math.Ln2, nil
		}
	}
	x, err := v.Float64()
	if err != nil {
		return 0, errorf(ErrType, -1, "log() argument must be a number, not %s", v.kind)
	}
	if x <= 0 || math.IsNaN(x) {
		return 0, errorf(ErrDomain, -1, "log of non-positive number %v", x)
	}
	return math.Log(x), nil
}

// exactInt accepts ints, bools and integral floats.
func exactInt(name string, v Value) (*big.Int, error) {
	if i, ok := v.integer(); ok {
		return i, nil
	}
	if v.kind == KindFloat && !math.IsInf(v.f, 0) && v.f == math.Trunc(v.f) {
		i, _ := big.NewFloat(v.f).Int(nil)
		return i, nil
	}
	return nil, errorf(ErrType, -1, "%s() only accepts integral values, got %s", name, v)
}

func factorialFn(_ *evaluation, args []Value) (Value, error) {
	n, err := exactInt("factorial", args[0])
	if err != nil {
		return Value{}, err
	}
	if n.Sign() < 0 {
		return Value{}, errorf(ErrDomain, -1, "factorial() not defined for negative values")
	}
	if n.Cmp(big.NewInt(maxCombinatorialArg)) > 0 {
		return Value{}, errorf(ErrLimit, -1, "factorial() argument %s exceeds %d", n, maxCombinatorialArg)
	}
	return BigInt(new(big.Int).MulRange(1, n.Int64())), nil
}

func combFn(_ *evaluation, args []Value) (Value, error) {
	n, err := exactInt("comb", args[0])
	if err != nil {
		return Value{}, err
	}
	k, err := exactInt("comb", args[1])
	if err != nil {
		return Value{}, err
	}
	if n.Sign() < 0 || k.Sign() < 0 {
		return Value{}, errorf(ErrDomain, -1, "comb() arguments must be non-negative integers")
	}
	if k.Cmp(n) > 0 {
		return Int(0), nil
	}
	if n.Cmp(big.NewInt(maxCombinatorialArg)) > 0 {
		return Value{}, errorf(ErrLimit, -1, "comb() argument %s exceeds %d", n, maxCombinatorialArg)
	}
	return BigInt(new(big.Int).Binomial(n.Int64(), k.Int64())), nil
}

func absFn(_ *evaluation, args []Value) (Value, error) {
	v := args[0]
	switch v.kind {
	case KindFloat:
		return Float(math.Abs(v.f)), nil
	case KindInt, KindBool:
		i, _ := v.integer()
		return BigInt(new(big.Int).Abs(i)), nil
	}
	return Value{}, errorf(ErrType, -1, "bad operand type for abs(): %s", v.kind)
}

func sumFn(_ *evaluation, args []Value) (Value, error) {
	seq, err := iterate(args[0])
	if err != nil {
		return Value{}, err
	}
	total := Int(0)
	if len(args) == 2 {
		total = args[1]
	}
	err = seq(func(item Value) error {
		next, err := binary("+", total, item)
		if err != nil {
			return err
		}
		total = next
		return nil
	})
	if err != nil {
		return Value{}, err
	}
	return total, nil
}

// extremumFn builds min (sign -1) and max (sign 1). With one argument it
// consumes an iterable, otherwise it compares its arguments.
func extremumFn(name string, sign int) func(*evaluation, []Value) (Value, error) {
	return func(_ *evaluation, args []Value) (Value, error) {
		var best Value
		found := false
		consider := func(item Value) error {
			if !found {
				if !item.isNumeric() {
					return errorf(ErrType, -1, "%s() of non-numeric %s", name, item.kind)
				}
				best, found = item, true
				return nil
			}
			op := "<"
			if sign > 0 {
				op = ">"
			}
			better, err := compare(op, item, best)
			if err != nil {
				return err
			}
			if better {
				best = item
			}
			return nil
		}
		if len(args) == 1 {
			seq, err := iterate(args[0])
			if err != nil {
				return Value{}, err
			}
			if err := seq(consider); err != nil {
				return Value{}, err
			}
		} else {
			for _, arg := range args {
				if err := consider(arg); err != nil {
					return Value{}, err
				}
			}
		}
		if !found {
			return Value{}, errorf(ErrDomain, -1, "%s() arg is an empty sequence", name)
		}
		return best, nil
	}
}

func rangeFn(ev *evaluation, args []Value) (Value, error) {
	bounds := make([]int64, len(args))
	for idx, arg := range args {
		i, ok := arg.integer()
		if !ok {
			return Value{}, errorf(ErrType, -1, "range() arguments must be integers, got %s", arg.kind)
		}
		if !i.IsInt64() {
			return Value{}, errorf(ErrLimit, -1, "range() argument %s out of bounds", i)
		}
		bounds[idx] = i.Int64()
	}
	r := rangeVal{step: 1}
	switch len(bounds) {
	case 1:
		r.stop = bounds[0]
	case 2:
		r.start, r.stop = bounds[0], bounds[1]
	case 3:
		r.start, r.stop, r.step = bounds[0], bounds[1], bounds[2]
	}
	if r.step == 0 {
		return Value{}, errorf(ErrDomain, -1, "range() arg 3 must not be zero")
	}
	if n := r.length(); n > ev.maxRange {
		return Value{}, errorf(ErrLimit, -1, "range of %d elements exceeds limit %d", n, ev.maxRange)
	}
	if err := ev.spend(r.length()); err != nil {
		return Value{}, err
	}
	return Value{kind: KindRange, rng: r}, nil
}
