package problem

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"probgen/internal/ctxlog"
	"probgen/internal/expr"
	"probgen/internal/question"
	"probgen/internal/quiz"
)

// DefaultTestSize is the number of items in a generated test when the
// caller does not choose one.
const DefaultTestSize = 5

// Engine generates problem instances from an immutable catalog. It is
// built once at startup and is safe for concurrent use; all per-request
// state, the random generator included, lives in the request.
type Engine struct {
	catalog  *question.Catalog
	rules    Rules
	eval     *expr.Evaluator
	programs map[resultKey]*expr.Program
	newSeed  func() (uint64, error)
}

type resultKey struct {
	question string
	result   string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces DefaultRules.
func WithRules(rules Rules) Option {
	return func(engine *Engine) {
		engine.rules = rules
	}
}

// WithEvaluator replaces the default expression evaluator.
func WithEvaluator(ev *expr.Evaluator) Option {
	return func(engine *Engine) {
		if ev != nil {
			engine.eval = ev
		}
	}
}

// WithSeedSource replaces NewSeed for requests without a seed.
func WithSeedSource(fn func() (uint64, error)) Option {
	return func(engine *Engine) {
		if fn != nil {
			engine.newSeed = fn
		}
	}
}

// NewEngine parses every result program of the catalog once. Results
// without a program are accepted here and reported when rendered.
func NewEngine(catalog *question.Catalog, opts ...Option) (*Engine, error) {
	if catalog == nil {
		return nil, errors.New("engine requires a catalog")
	}
	engine := &Engine{
		catalog:  catalog,
		rules:    DefaultRules(),
		eval:     expr.NewEvaluator(),
		programs: map[resultKey]*expr.Program{},
		newSeed:  NewSeed,
	}
	for _, opt := range opts {
		opt(engine)
	}
	for _, q := range catalog.List() {
		for _, result := range q.Math.Results {
			if result.ExpressionSymbolic == "" {
				continue
			}
			prog, err := expr.Parse(result.ExpressionSymbolic)
			if err != nil {
				return nil, &ConfigurationError{QuestionID: q.ID, ResultID: result.ID, Err: err}
			}
			engine.programs[resultKey{question: q.ID, result: result.ID}] = prog
		}
	}
	return engine, nil
}

// Catalog returns the engine's catalog.
func (engine *Engine) Catalog() *question.Catalog {
	return engine.catalog
}

// Rules returns the normalization rules.
func (engine *Engine) Rules() Rules {
	return engine.rules
}

// Request selects a question and, optionally, fixed parameters or a seed.
// Overrides bypass generation but are still normalized.
type Request struct {
	QuestionID string
	Overrides  ParameterSet
	Seed       *uint64
}

// Instance is one generated problem.
type Instance struct {
	InstanceID string           `json:"instance_id"`
	QuestionID string           `json:"id"`
	Topic      string           `json:"topic"`
	Statement  string           `json:"statement"`
	DocURL     string           `json:"doc_url,omitempty"`
	DocSummary string           `json:"doc_summary,omitempty"`
	Seed       uint64           `json:"seed"`
	Params     ParameterSet     `json:"params"`
	Results    []RenderedResult `json:"results"`
	Failures   []Failure        `json:"failures,omitempty"`
}

// Failure records a result that could not be rendered.
type Failure struct {
	ResultID string `json:"result_id"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

// Generate builds an instance of the requested question. A failing result
// does not stop the others: the instance holds every result that rendered,
// a Failure for each one that did not, and the returned error joins the
// failures.
func (engine *Engine) Generate(ctx context.Context, req Request) (Instance, error) {
	q, ok := engine.catalog.Get(req.QuestionID)
	if !ok {
		return Instance{}, fmt.Errorf("%w: %q", ErrQuestionNotFound, req.QuestionID)
	}
	seed, err := engine.seed(req.Seed)
	if err != nil {
		return Instance{}, err
	}
	rng := NewRand(seed)

	params := req.Overrides
	if len(params) == 0 {
		params, err = GenerateParams(q.Params, rng)
		if err != nil {
			return Instance{}, withQuestion(err, q.ID)
		}
	}
	params = engine.rules.Normalize(params, q.Params)

	statement, err := RenderTemplate(q.Template, params, q.Params)
	if err != nil {
		return Instance{}, withQuestion(err, q.ID)
	}

	instance := Instance{
		InstanceID: uuid.NewString(),
		QuestionID: q.ID,
		Topic:      q.Topic,
		Statement:  statement,
		DocURL:     q.DocURL,
		DocSummary: q.DocSummary,
		Seed:       seed,
		Params:     params,
		Results:    make([]RenderedResult, 0, len(q.Math.Results)),
	}
	var errs []error
	for _, result := range q.Math.Results {
		rendered, err := engine.render(q, result, params)
		if err != nil {
			errs = append(errs, err)
			instance.Failures = append(instance.Failures, Failure{ResultID: result.ID, Kind: Kind(err), Message: err.Error()})
			continue
		}
		instance.Results = append(instance.Results, rendered)
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("generated problem instance",
		"question", q.ID,
		"instance", instance.InstanceID,
		"seed", seed,
		"results", len(instance.Results),
		"failures", len(instance.Failures),
	)
	return instance, errors.Join(errs...)
}

func (engine *Engine) render(q question.Question, result question.Result, params ParameterSet) (RenderedResult, error) {
	prog := engine.programs[resultKey{question: q.ID, result: result.ID}]
	return renderResult(engine.eval, prog, q, result, params)
}

func (engine *Engine) seed(requested *uint64) (uint64, error) {
	if requested != nil {
		return *requested, nil
	}
	return engine.newSeed()
}

// TestRequest configures a multiple-choice test.
type TestRequest struct {
	Count int
	Seed  *uint64
}

// Test is a generated multiple-choice test.
type Test struct {
	TestID string     `json:"test_id"`
	Seed   uint64     `json:"seed"`
	Items  []TestItem `json:"questions"`
}

// TestItem is one multiple-choice question.
type TestItem struct {
	QuestionID string       `json:"id"`
	Topic      string       `json:"topic"`
	Statement  string       `json:"statement"`
	Params     ParameterSet `json:"params"`
	Options    []string     `json:"options"`
	Correct    string       `json:"correct"`
	Raw        float64      `json:"-"`
}

// GenerateTest picks Count distinct single-result questions at random and
// builds a multiple-choice item for each. Count defaults to
// DefaultTestSize.
func (engine *Engine) GenerateTest(ctx context.Context, req TestRequest) (Test, error) {
	count := req.Count
	if count == 0 {
		count = DefaultTestSize
	}
	if count < 0 {
		return Test{}, fmt.Errorf("test size must be positive, got %d", count)
	}
	pool := engine.catalog.SingleResult()
	if count > len(pool) {
		return Test{}, fmt.Errorf("%w: requested %d, catalog has %d", ErrNotEnoughQuestions, count, len(pool))
	}
	seed, err := engine.seed(req.Seed)
	if err != nil {
		return Test{}, err
	}
	rng := NewRand(seed)

	test := Test{TestID: uuid.NewString(), Seed: seed, Items: make([]TestItem, 0, count)}
	for _, index := range rng.Perm(len(pool))[:count] {
		item, err := engine.testItem(pool[index], rng)
		if err != nil {
			return Test{}, err
		}
		test.Items = append(test.Items, item)
	}
	ctxlog.FromContext(ctx).Debug("generated test", "test", test.TestID, "seed", seed, "questions", count)
	return test, nil
}

func (engine *Engine) testItem(q question.Question, rng *rand.Rand) (TestItem, error) {
	params, err := GenerateParams(q.Params, rng)
	if err != nil {
		return TestItem{}, withQuestion(err, q.ID)
	}
	params = engine.rules.Normalize(params, q.Params)
	statement, err := RenderTemplate(q.Template, params, q.Params)
	if err != nil {
		return TestItem{}, withQuestion(err, q.ID)
	}
	result, err := engine.render(q, q.Math.Results[0], params)
	if err != nil {
		return TestItem{}, err
	}
	return TestItem{
		QuestionID: q.ID,
		Topic:      q.Topic,
		Statement:  statement,
		Params:     params,
		Options:    quiz.Options(result.Value, result.Raw, rng),
		Correct:    result.Value,
		Raw:        result.Raw,
	}, nil
}
