package problem

import (
	"fmt"
	"math"
	"math/rand/v2"

	"probgen/internal/question"
)

// maxExactInt is the largest magnitude where every integer is a float64.
const maxExactInt = 1 << 53

// GenerateParams samples one value per parameter in declaration order.
// A bound that references another parameter takes the value generated for
// it; references to parameters not generated yet are configuration errors.
// Int parameters are uniform over [ceil(min), floor(max)], float parameters
// over [min, max).
func GenerateParams(params question.Params, rng *rand.Rand) (ParameterSet, error) {
	set := make(ParameterSet, len(params))
	for _, param := range params {
		lower, err := resolveBound(param.Min, set)
		if err != nil {
			return nil, &ConfigurationError{Param: param.Name, Err: err}
		}
		upper, err := resolveBound(param.Max, set)
		if err != nil {
			return nil, &ConfigurationError{Param: param.Name, Err: err}
		}
		if lower > upper {
			return nil, &ConfigurationError{Param: param.Name, Err: fmt.Errorf("%w: min %v is greater than max %v", ErrEmptyRange, lower, upper)}
		}

		if param.Type == question.TypeInt {
			value, err := sampleInt(lower, upper, rng)
			if err != nil {
				return nil, &ConfigurationError{Param: param.Name, Err: err}
			}
			set[param.Name] = value
			continue
		}
		set[param.Name] = lower + (upper-lower)*rng.Float64()
	}
	return set, nil
}

func resolveBound(bound question.Bound, set ParameterSet) (float64, error) {
	if !bound.IsRef() {
		if math.IsNaN(bound.Value) || math.IsInf(bound.Value, 0) {
			return 0, fmt.Errorf("bound %v is not finite", bound.Value)
		}
		return bound.Value, nil
	}
	value, ok := set[bound.Ref]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrForwardReference, bound.Ref)
	}
	return value, nil
}

func sampleInt(lower, upper float64, rng *rand.Rand) (float64, error) {
	lo, hi := math.Ceil(lower), math.Floor(upper)
	if lo > hi {
		return 0, fmt.Errorf("%w: no integer in [%v, %v]", ErrEmptyRange, lower, upper)
	}
	if math.Abs(lo) > maxExactInt || math.Abs(hi) > maxExactInt {
		return 0, fmt.Errorf("integer range [%v, %v] exceeds %d", lower, upper, int64(maxExactInt))
	}
	span := int64(hi) - int64(lo) + 1
	return lo + float64(rng.Int64N(span)), nil
}

// NewRand returns a request-scoped generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
