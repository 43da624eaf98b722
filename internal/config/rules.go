package config

import (
	"time"

	"probgen/internal/expr"
	"probgen/internal/problem"
	"probgen/internal/question"
	"probgen/internal/ratelimit"
	"probgen/internal/spec"
)

// Rules returns the normalization rules of cfg, or problem.DefaultRules
// when the config has no normalize section.
func Rules(cfg spec.Config) problem.Rules {
	if cfg.Normalize == nil {
		return problem.DefaultRules()
	}
	rules := problem.Rules{
		ProbabilityPrefixes: append([]string(nil), cfg.Normalize.ProbabilityPrefixes...),
		NonNegative:         append([]string(nil), cfg.Normalize.NonNegative...),
	}
	for _, pair := range cfg.Normalize.OrderedPairs {
		rules.OrderedPairs = append(rules.OrderedPairs, problem.Pair{Lower: pair.Lower, Upper: pair.Upper})
	}
	for _, limit := range cfg.Normalize.Caps {
		rules.Caps = append(rules.Caps, problem.Cap{Names: append([]string(nil), limit.Names...), Bound: limit.Bound})
	}
	return rules
}

// Evaluator builds the expression evaluator described by cfg.
func Evaluator(cfg spec.Config) *expr.Evaluator {
	return expr.NewEvaluator(expr.WithMaxRange(cfg.Evaluator.MaxRange))
}

// BuildEngine loads the catalog named by cfg and builds an engine with the
// configured rules and evaluator.
func BuildEngine(cfg spec.Config) (*problem.Engine, error) {
	catalog, err := question.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	return problem.NewEngine(catalog, problem.WithRules(Rules(cfg)), problem.WithEvaluator(Evaluator(cfg)))
}

// Limiter builds the per-client request limiter, or nil when rate
// limiting is disabled.
func Limiter(cfg spec.Config) *ratelimit.Limiter {
	limit := cfg.Server.RateLimit
	return ratelimit.New(limit.Requests, time.Duration(limit.WindowSeconds)*time.Second)
}
