package problem

import (
	"testing"

	"probgen/internal/question"
)

func intParam(name string, min, max question.Bound) question.ParamSpec {
	return question.ParamSpec{Name: name, Min: min, Max: max, Type: question.TypeInt}
}

func floatParam(name string, min, max question.Bound) question.ParamSpec {
	return question.ParamSpec{Name: name, Min: min, Max: max, Type: question.TypeFloat}
}

func decimals(n int) *int {
	return &n
}

// powerQuestion is the n-trials question used across the package tests:
// int n in [5, 10], float p in [0, 1], answer p**n at four decimals.
func powerQuestion(program string) question.Question {
	return question.Question{
		ID:       "potencia",
		Version:  1,
		Topic:    "Binomial",
		Template: "Each of {n} trials succeeds with probability {p}. Find $p^{n}$.",
		Params: question.Params{
			intParam("n", question.Literal(5), question.Literal(10)),
			floatParam("p", question.Literal(0), question.Literal(1)),
		},
		Math: question.Math{Results: []question.Result{{
			ID:                      "todos",
			Label:                   "P(all succeed)",
			GeneralFormulaLatex:     "p^n",
			ExpressionLatexTemplate: "{p}^{{n}}",
			ExpressionSymbolic:      program,
			NumericFormat:           question.NumericFormat{Type: "decimal", Decimals: decimals(4), Rounding: "half_up"},
		}}},
	}
}

func newTestCatalog(t *testing.T, questions ...question.Question) *question.Catalog {
	t.Helper()
	catalog, err := question.NewCatalog(questions)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return catalog
}

func newTestEngine(t *testing.T, questions ...question.Question) *Engine {
	t.Helper()
	engine, err := NewEngine(newTestCatalog(t, questions...), WithSeedSource(func() (uint64, error) { return 42, nil }))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
