package problem

import (
	"math"
	"sort"
	"strings"

	"probgen/internal/question"
)

// gridUnits is the number of 1e-5 steps in a probability of 1.
const gridUnits = 100_000

// maxFixRounds bounds how often a repair pass is repeated while it still
// changes something.
const maxFixRounds = 8

// Pair requires Lower <= Upper; the two values are swapped otherwise.
type Pair struct {
	Lower string `yaml:"lower" json:"lower"`
	Upper string `yaml:"upper" json:"upper"`
}

// Cap clamps every name in Names to at most the value of Bound.
type Cap struct {
	Names []string `yaml:"names" json:"names"`
	Bound string   `yaml:"bound" json:"bound"`
}

// Rules configure ParameterSet normalization. Each rule only applies to the
// names present in the set.
type Rules struct {
	// ProbabilityPrefixes form groups of a prefix followed by digits
	// (p_0, p_1 for "p_"; p1, p2 for "p") that are rescaled to sum to 1.
	ProbabilityPrefixes []string `yaml:"probability_prefixes" json:"probability_prefixes"`
	OrderedPairs        []Pair   `yaml:"ordered_pairs" json:"ordered_pairs"`
	NonNegative         []string `yaml:"non_negative" json:"non_negative"`
	Caps                []Cap    `yaml:"caps" json:"caps"`
}

// DefaultRules returns the rules the shipped catalog is written against.
func DefaultRules() Rules {
	return Rules{
		ProbabilityPrefixes: []string{"p_", "p"},
		OrderedPairs:        []Pair{{Lower: "t_min", Upper: "t_max"}},
		NonNegative:         []string{"alpha", "desviacion_horas", "tasa", "anos"},
		Caps: []Cap{
			{Names: []string{"k_excede", "k_menor"}, Bound: "n_muestra"},
			{Names: []string{"k_min"}, Bound: "n_partidos"},
		},
	}
}

// Normalize repairs cross-parameter invariants and applies declared types.
// It never fails and is idempotent: normalizing its output again returns
// an equal set. The steps are, in order: probability groups are rescaled
// to sum to 1, ordered pairs are swapped, non-negative names take their
// absolute value, capped names are clamped, int parameters are rounded half
// away from zero, and every value is rounded to 5 fractional digits.
//
// Groups whose sum is not positive are left as they are.
func (rules Rules) Normalize(set ParameterSet, params question.Params) ParameterSet {
	out := set.Clone()
	for round := 0; round < maxFixRounds; round++ {
		next := rules.normalizeOnce(out, params)
		if sameValues(next, out) {
			return next
		}
		out = next
	}
	return out
}

// normalizeOnce runs every step once. Rounding can break a cap whose bound
// has a different type, so Normalize repeats it until nothing changes.
func (rules Rules) normalizeOnce(set ParameterSet, params question.Params) ParameterSet {
	out := set.Clone()
	for _, prefix := range rules.ProbabilityPrefixes {
		rescaleGroup(out, prefix)
	}
	for round := 0; round < maxFixRounds; round++ {
		changed := rules.fixPairs(out)
		changed = rules.fixSigns(out) || changed
		changed = rules.fixCaps(out) || changed
		if !changed {
			break
		}
	}
	for _, param := range params {
		if value, ok := out[param.Name]; ok && param.Type == question.TypeInt {
			out[param.Name] = math.Round(value)
		}
	}
	for name, value := range out {
		out[name] = roundPrecision(value)
	}
	return out
}

func sameValues(a, b ParameterSet) bool {
	if len(a) != len(b) {
		return false
	}
	for name, value := range a {
		other, ok := b[name]
		if !ok || math.Float64bits(value) != math.Float64bits(other) {
			return false
		}
	}
	return true
}

// groupMembers returns the sorted names made of prefix plus one or more
// digits.
func groupMembers(set ParameterSet, prefix string) []string {
	var members []string
	for name := range set {
		suffix, ok := strings.CutPrefix(name, prefix)
		if !ok || suffix == "" {
			continue
		}
		if strings.Trim(suffix, "0123456789") != "" {
			continue
		}
		members = append(members, name)
	}
	sort.Strings(members)
	return members
}

// rescaleGroup divides a group by its sum and snaps the result onto the
// 1e-5 grid with largest-remainder apportionment, so the members sum to
// exactly 1 and survive the precision clamp unchanged.
func rescaleGroup(set ParameterSet, prefix string) bool {
	members := groupMembers(set, prefix)
	if len(members) < 2 {
		return false
	}
	sum := 0.0
	for _, name := range members {
		value := set[name]
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return false
		}
		sum += value
	}
	if !(sum > 0) || math.IsInf(sum, 0) {
		return false
	}
	if onGridSummingToOne(set, members) {
		return false
	}

	units := make([]int64, len(members))
	remainders := make([]float64, len(members))
	var assigned int64
	for i, name := range members {
		scaled := set[name] / sum * gridUnits
		if math.Abs(scaled) > maxExactInt {
			return false
		}
		floor := math.Floor(scaled)
		units[i] = int64(floor)
		remainders[i] = scaled - floor
		assigned += units[i]
	}
	order := make([]int, len(members))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})
	for k := 0; assigned < gridUnits; k++ {
		units[order[k%len(order)]]++
		assigned++
	}

	changed := false
	for i, name := range members {
		value := float64(units[i]) / gridUnits
		if set[name] != value {
			set[name] = value
			changed = true
		}
	}
	return changed
}

func onGridSummingToOne(set ParameterSet, members []string) bool {
	var total int64
	for _, name := range members {
		value := set[name]
		units := math.Round(value * gridUnits)
		if math.Abs(units) > maxExactInt || value != units/gridUnits {
			return false
		}
		total += int64(units)
	}
	return total == gridUnits
}

func (rules Rules) fixPairs(set ParameterSet) bool {
	changed := false
	for _, pair := range rules.OrderedPairs {
		lower, okLower := set[pair.Lower]
		upper, okUpper := set[pair.Upper]
		if okLower && okUpper && lower > upper {
			set[pair.Lower], set[pair.Upper] = upper, lower
			changed = true
		}
	}
	return changed
}

func (rules Rules) fixSigns(set ParameterSet) bool {
	changed := false
	for _, name := range rules.NonNegative {
		if value, ok := set[name]; ok && value < 0 {
			set[name] = math.Abs(value)
			changed = true
		}
	}
	return changed
}

func (rules Rules) fixCaps(set ParameterSet) bool {
	changed := false
	for _, limit := range rules.Caps {
		bound, ok := set[limit.Bound]
		if !ok {
			continue
		}
		for _, name := range limit.Names {
			if value, ok := set[name]; ok && value > bound {
				set[name] = bound
				changed = true
			}
		}
	}
	return changed
}

// roundPrecision rounds to 5 fractional digits. Beyond 1e10 the scaled
// value no longer fits exactly in a float64, so those are returned
// unchanged.
func roundPrecision(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) >= 1e10 {
		return value
	}
	rounded := math.Round(value*1e5) / 1e5
	if rounded == 0 {
		return 0
	}
	return rounded
}
