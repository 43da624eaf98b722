package problem

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"probgen/internal/question"
)

// TestNormalizeRescalesProbabilityGroups verifies each prefix group sums to 1.
func TestNormalizeRescalesProbabilityGroups(t *testing.T) {
	set := ParameterSet{"p1": 1, "p2": 1, "p3": 2, "p_0": 0.3, "p_1": 0.3, "p_2": 0.3, "p": 0.7}
	got := DefaultRules().Normalize(set, nil)

	want := ParameterSet{"p1": 0.25, "p2": 0.25, "p3": 0.5, "p": 0.7}
	for name, value := range want {
		if got[name] != value {
			t.Fatalf("%s: expected %v, got %v", name, value, got[name])
		}
	}
	sum := got["p_0"] + got["p_1"] + got["p_2"]
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("p_ group sums to %v", sum)
	}
	if got["p_0"] != 0.33334 || got["p_1"] != 0.33333 || got["p_2"] != 0.33333 {
		t.Fatalf("unexpected apportionment: %v %v %v", got["p_0"], got["p_1"], got["p_2"])
	}
}

// TestNormalizeLeavesNonPositiveGroups verifies a group summing to zero is
// not rescaled.
func TestNormalizeLeavesNonPositiveGroups(t *testing.T) {
	got := DefaultRules().Normalize(ParameterSet{"p1": 0, "p2": 0}, nil)
	if got["p1"] != 0 || got["p2"] != 0 {
		t.Fatalf("expected zeros, got %v", got)
	}
}

// TestNormalizeRepairsInvariants verifies pairs, signs, caps, int rounding
// and the precision clamp.
func TestNormalizeRepairsInvariants(t *testing.T) {
	params := question.Params{
		intParam("n_muestra", question.Literal(1), question.Literal(20)),
		intParam("k_excede", question.Literal(0), question.Literal(30)),
	}
	set := ParameterSet{
		"t_min":     50,
		"t_max":     40,
		"alpha":     -1.5,
		"n_muestra": 10.4,
		"k_excede":  12,
		"k_menor":   3,
		"mu":        0.123456789,
		"neg":       -0.000001,
	}
	got := DefaultRules().Normalize(set, params)
	want := ParameterSet{
		"t_min":     40,
		"t_max":     50,
		"alpha":     1.5,
		"n_muestra": 10,
		"k_excede":  10,
		"k_menor":   3,
		"mu":        0.12346,
		"neg":       0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalize mismatch (-want +got):\n%s", diff)
	}
	if math.Signbit(got["neg"]) {
		t.Fatalf("expected positive zero")
	}
}

// TestNormalizeRoundsIntHalfAwayFromZero verifies int coercion rounding.
func TestNormalizeRoundsIntHalfAwayFromZero(t *testing.T) {
	params := question.Params{
		intParam("a", question.Literal(-10), question.Literal(10)),
		intParam("b", question.Literal(-10), question.Literal(10)),
	}
	got := DefaultRules().Normalize(ParameterSet{"a": 2.5, "b": -2.5}, params)
	if got["a"] != 3 || got["b"] != -3 {
		t.Fatalf("expected 3 and -3, got %v and %v", got["a"], got["b"])
	}
}

// TestNormalizeDoesNotModifyInput verifies the input set is left untouched.
func TestNormalizeDoesNotModifyInput(t *testing.T) {
	set := ParameterSet{"p1": 1, "p2": 3, "alpha": -2}
	DefaultRules().Normalize(set, nil)
	if diff := cmp.Diff(ParameterSet{"p1": 1, "p2": 3, "alpha": -2}, set); diff != "" {
		t.Fatalf("input modified (-want +got):\n%s", diff)
	}
}

// TestNormalizeIsIdempotent verifies normalizing twice equals normalizing
// once, over generated and hand-picked sets.
func TestNormalizeIsIdempotent(t *testing.T) {
	params := question.Params{
		intParam("n_muestra", question.Literal(1), question.Literal(20)),
		intParam("k_excede", question.Literal(0), question.Literal(25)),
		floatParam("k_menor", question.Literal(0), question.Literal(25)),
		floatParam("p1", question.Literal(0), question.Literal(1)),
		floatParam("p2", question.Literal(0), question.Literal(1)),
		floatParam("p3", question.Literal(0), question.Literal(1)),
		floatParam("p_0", question.Literal(0), question.Literal(1)),
		floatParam("p_1", question.Literal(0), question.Literal(1)),
		floatParam("t_min", question.Literal(-5), question.Literal(5)),
		floatParam("t_max", question.Literal(-5), question.Literal(5)),
		floatParam("tasa", question.Literal(-1), question.Literal(1)),
	}
	rules := DefaultRules()
	rng := NewRand(2024)
	for i := 0; i < 300; i++ {
		set, err := GenerateParams(params, rng)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		once := rules.Normalize(set, params)
		twice := rules.Normalize(once, params)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("normalize is not idempotent for %v (-once +twice):\n%s", set, diff)
		}
		if sum := once["p1"] + once["p2"] + once["p3"]; math.Abs(sum-1) > 1e-9 {
			t.Fatalf("p group sums to %v", sum)
		}
		if once["t_min"] > once["t_max"] {
			t.Fatalf("t_min %v > t_max %v", once["t_min"], once["t_max"])
		}
		if once["k_excede"] > once["n_muestra"] || once["k_menor"] > once["n_muestra"] {
			t.Fatalf("caps violated: %v", once)
		}
		if once["tasa"] < 0 {
			t.Fatalf("tasa negative: %v", once["tasa"])
		}
	}
}

// TestNormalizeCustomRules verifies rules only touch the names they list.
func TestNormalizeCustomRules(t *testing.T) {
	rules := Rules{
		ProbabilityPrefixes: []string{"w"},
		OrderedPairs:        []Pair{{Lower: "lo", Upper: "hi"}},
	}
	got := rules.Normalize(ParameterSet{"w1": 3, "w2": 1, "lo": 9, "hi": 1, "alpha": -1}, nil)
	want := ParameterSet{"w1": 0.75, "w2": 0.25, "lo": 1, "hi": 9, "alpha": -1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("custom rules mismatch (-want +got):\n%s", diff)
	}
}
