package problem

import (
	"math"
	"sort"

	"probgen/internal/expr"
	"probgen/internal/question"
)

// ParameterSet maps parameter names to the values of one problem instance.
// Core operations never modify a set they receive; they return a new one.
type ParameterSet map[string]float64

// Clone returns a copy of the set.
func (set ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(set))
	for name, value := range set {
		out[name] = value
	}
	return out
}

// Names returns the parameter names in sorted order.
func (set ParameterSet) Names() []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// bindings converts the set into evaluator values using the declared types:
// int parameters become exact integers rounded half away from zero, float
// parameters stay floats, and undeclared values are integers only when
// they are integral.
func bindings(set ParameterSet, params question.Params) map[string]expr.Value {
	types := make(map[string]question.ParamType, len(params))
	for _, param := range params {
		types[param.Name] = param.Type
	}
	out := make(map[string]expr.Value, len(set))
	for name, value := range set {
		switch types[name] {
		case question.TypeInt:
			out[name] = intValue(math.Round(value))
		case question.TypeFloat:
			out[name] = expr.Float(value)
		default:
			if value == math.Trunc(value) {
				out[name] = intValue(value)
			} else {
				out[name] = expr.Float(value)
			}
		}
	}
	return out
}

// intValue keeps huge or non-finite values as floats since they have no
// exact int64 form.
func intValue(value float64) expr.Value {
	if math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) >= 1<<62 {
		return expr.Float(value)
	}
	return expr.Int(int64(value))
}
