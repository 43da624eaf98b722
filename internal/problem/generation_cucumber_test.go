//go:build cucumber

package problem

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"probgen/internal/question"
)

// TestProblemGenerationScenarios runs the problem generation feature scenarios.
func TestProblemGenerationScenarios(t *testing.T) {
	featurePath := filepath.Join("..", "..", "spec", "features", "problem-generation.feature")
	suite := godog.TestSuite{
		Name:                "problem-generation",
		ScenarioInitializer: InitializeGenerationScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{featurePath},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeGenerationScenario wires steps for problem generation scenarios.
func InitializeGenerationScenario(ctx *godog.ScenarioContext) {
	state := &generationState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a question with int parameter "(\w+)" in \[(-?\d+), (-?\d+)\] and float parameter "(\w+)" in \[(-?\d+(?:\.\d+)?), (-?\d+(?:\.\d+)?)\]$`, state.givenQuestion)
	ctx.Step(`^the statement template "([^"]*)"$`, state.givenTemplate)
	ctx.Step(`^the result program "([^"]*)" with (\d+) decimals rounding "(\w+)"$`, state.givenProgram)
	ctx.Step(`^I generate the problem with overrides "([^"]*)"$`, state.whenGenerateWithOverrides)
	ctx.Step(`^I generate the problem with seed (\d+)$`, state.whenGenerateWithSeed)
	ctx.Step(`^I normalize "([^"]*)"$`, state.whenNormalize)
	ctx.Step(`^the raw result is (-?\d+(?:\.\d+)?)$`, state.thenRawResult)
	ctx.Step(`^the formatted result is "([^"]*)"$`, state.thenFormattedResult)
	ctx.Step(`^the statement is "([^"]*)"$`, state.thenStatement)
	ctx.Step(`^generation fails with a "(\w+)" error$`, state.thenFailsWith)
	ctx.Step(`^parameter "(\w+)" is an integer between (-?\d+) and (-?\d+)$`, state.thenIntegerBetween)
	ctx.Step(`^parameter "(\w+)" is between (-?\d+(?:\.\d+)?) and (-?\d+(?:\.\d+)?)$`, state.thenBetween)
	ctx.Step(`^parameter "(\w+)" is (-?\d+(?:\.\d+)?)$`, state.thenParamEquals)
	ctx.Step(`^the parameters starting with "(\w+)" sum to 1$`, state.thenGroupSumsToOne)
}

type generationState struct {
	q        question.Question
	instance Instance
	params   ParameterSet
	err      error
}

// reset clears scenario state.
func (s *generationState) reset() {
	*s = generationState{}
}

func (s *generationState) givenQuestion(intName string, intMin, intMax int, floatName string, floatMin, floatMax float64) error {
	s.q = question.Question{
		ID:    "feature",
		Topic: "Feature",
		Params: question.Params{
			intParam(intName, question.Literal(float64(intMin)), question.Literal(float64(intMax))),
			floatParam(floatName, question.Literal(floatMin), question.Literal(floatMax)),
		},
	}
	return nil
}

func (s *generationState) givenTemplate(text string) error {
	s.q.Template = text
	return nil
}

func (s *generationState) givenProgram(program string, places int, rounding string) error {
	s.q.Math.Results = []question.Result{{
		ID:                 "result",
		ExpressionSymbolic: program,
		NumericFormat:      question.NumericFormat{Type: "decimal", Decimals: decimals(places), Rounding: rounding},
	}}
	return nil
}

func (s *generationState) generate(req Request) error {
	catalog, err := question.NewCatalog([]question.Question{s.q})
	if err != nil {
		return err
	}
	engine, err := NewEngine(catalog)
	if err != nil {
		return err
	}
	req.QuestionID = s.q.ID
	s.instance, s.err = engine.Generate(context.Background(), req)
	s.params = s.instance.Params
	return nil
}

func (s *generationState) whenGenerateWithOverrides(text string) error {
	overrides, err := parseAssignments(text)
	if err != nil {
		return err
	}
	return s.generate(Request{Overrides: overrides})
}

func (s *generationState) whenGenerateWithSeed(seed int) error {
	value := uint64(seed)
	return s.generate(Request{Seed: &value})
}

func (s *generationState) whenNormalize(text string) error {
	set, err := parseAssignments(text)
	if err != nil {
		return err
	}
	s.params = DefaultRules().Normalize(set, s.q.Params)
	return nil
}

func (s *generationState) result() (RenderedResult, error) {
	if s.err != nil {
		return RenderedResult{}, fmt.Errorf("generation failed: %w", s.err)
	}
	if len(s.instance.Results) == 0 {
		return RenderedResult{}, fmt.Errorf("no results rendered")
	}
	return s.instance.Results[0], nil
}

func (s *generationState) thenRawResult(want float64) error {
	result, err := s.result()
	if err != nil {
		return err
	}
	if math.Abs(result.Raw-want) > 1e-12 {
		return fmt.Errorf("expected raw %v, got %v", want, result.Raw)
	}
	return nil
}

func (s *generationState) thenFormattedResult(want string) error {
	result, err := s.result()
	if err != nil {
		return err
	}
	if result.Value != want {
		return fmt.Errorf("expected %q, got %q", want, result.Value)
	}
	return nil
}

func (s *generationState) thenStatement(want string) error {
	if s.instance.Statement != want {
		return fmt.Errorf("expected statement %q, got %q", want, s.instance.Statement)
	}
	return nil
}

func (s *generationState) thenFailsWith(kind string) error {
	if s.err == nil {
		return fmt.Errorf("expected a %s error", kind)
	}
	if got := Kind(s.err); got != kind {
		return fmt.Errorf("expected %s error, got %q (%v)", kind, got, s.err)
	}
	var evalErr *EvaluationError
	if kind == "evaluation" && !errors.As(s.err, &evalErr) {
		return fmt.Errorf("expected EvaluationError, got %T", s.err)
	}
	return nil
}

func (s *generationState) thenIntegerBetween(name string, lower, upper int) error {
	value, ok := s.params[name]
	if !ok {
		return fmt.Errorf("parameter %s missing", name)
	}
	if value != math.Trunc(value) || value < float64(lower) || value > float64(upper) {
		return fmt.Errorf("%s=%v is not an integer in [%d, %d]", name, value, lower, upper)
	}
	return nil
}

func (s *generationState) thenBetween(name string, lower, upper float64) error {
	value, ok := s.params[name]
	if !ok {
		return fmt.Errorf("parameter %s missing", name)
	}
	if value < lower || value > upper {
		return fmt.Errorf("%s=%v is not in [%v, %v]", name, value, lower, upper)
	}
	return nil
}

func (s *generationState) thenParamEquals(name string, want float64) error {
	if got := s.params[name]; got != want {
		return fmt.Errorf("expected %s=%v, got %v", name, want, got)
	}
	return nil
}

func (s *generationState) thenGroupSumsToOne(prefix string) error {
	sum := 0.0
	for _, name := range groupMembers(s.params, prefix) {
		sum += s.params[name]
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("group %s sums to %v", prefix, sum)
	}
	return nil
}

// parseAssignments reads "name=value, name=value" lists.
func parseAssignments(text string) (ParameterSet, error) {
	set := ParameterSet{}
	for _, part := range strings.Split(text, ",") {
		name, raw, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, fmt.Errorf("expected name=value, got %q", part)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		set[strings.TrimSpace(name)] = value
	}
	return set, nil
}
