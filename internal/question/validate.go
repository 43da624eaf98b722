package question

import (
	"fmt"
	"math"
	"strings"

	"probgen/internal/expr"
	"probgen/internal/numfmt"
)

// Issue captures a validation problem in a question catalog.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports one or more validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("question catalog validation failed: %s", strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}

// NormalizeSpec trims whitespace, applies defaults and validates a catalog.
func NormalizeSpec(spec Spec) (Spec, error) {
	collector := &issueCollector{}
	if spec.Version == 0 {
		collector.add("version", "is required")
	} else if spec.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", spec.Version))
	}
	if len(spec.Questions) == 0 {
		collector.add("questions", "must include at least one entry")
	}

	seenIDs := map[string]struct{}{}
	questions := make([]Question, 0, len(spec.Questions))
	for i, question := range spec.Questions {
		prefix := fmt.Sprintf("questions[%d]", i)
		question.ID = strings.TrimSpace(question.ID)
		if question.ID == "" {
			collector.add(prefix+".id", "is required")
		} else if _, exists := seenIDs[question.ID]; exists {
			collector.add(prefix+".id", fmt.Sprintf("duplicate id %q", question.ID))
		} else {
			seenIDs[question.ID] = struct{}{}
		}
		if question.Version == 0 {
			question.Version = 1
		}
		question.Topic = strings.TrimSpace(question.Topic)
		if question.Topic == "" {
			collector.add(prefix+".topic", "is required")
		}
		question.DocURL = strings.TrimSpace(question.DocURL)
		question.Solver = strings.TrimSpace(question.Solver)
		if strings.TrimSpace(question.Template) == "" {
			collector.add(prefix+".template", "is required")
		}

		question.Params = normalizeParams(collector, prefix, question.Params)
		question.Math.Results = normalizeResults(collector, prefix, question.Math.Results)
		questions = append(questions, question)
	}
	spec.Questions = questions
	return spec, collector.result()
}

func normalizeParams(collector *issueCollector, prefix string, params Params) Params {
	out := make(Params, 0, len(params))
	seen := map[string]struct{}{}
	for i, param := range params {
		field := fmt.Sprintf("%s.params[%d]", prefix, i)
		param.Name = strings.TrimSpace(param.Name)
		if param.Name == "" {
			collector.add(field, "name is required")
		} else if _, exists := seen[param.Name]; exists {
			collector.add(field, fmt.Sprintf("duplicate parameter %q", param.Name))
		}

		param.Type = ParamType(strings.ToLower(strings.TrimSpace(string(param.Type))))
		switch param.Type {
		case "":
			param.Type = TypeFloat
		case TypeInt, TypeFloat:
		default:
			collector.add(field+".type", fmt.Sprintf("unsupported type %q (want int or float)", param.Type))
		}

		checkBound(collector, field+".min", param.Min, seen)
		checkBound(collector, field+".max", param.Max, seen)
		if !param.Min.IsRef() && !param.Max.IsRef() && param.Min.Value > param.Max.Value {
			collector.add(field, fmt.Sprintf("min %s is greater than max %s", param.Min, param.Max))
		}
		if param.Name != "" {
			seen[param.Name] = struct{}{}
		}
		out = append(out, param)
	}
	return out
}

// checkBound requires references to name a parameter declared earlier,
// since parameters are generated in declaration order.
func checkBound(collector *issueCollector, field string, bound Bound, earlier map[string]struct{}) {
	if bound.IsRef() {
		if _, ok := earlier[bound.Ref]; !ok {
			collector.add(field, fmt.Sprintf("references %q, which is not declared before this parameter", bound.Ref))
		}
		return
	}
	if math.IsNaN(bound.Value) || math.IsInf(bound.Value, 0) {
		collector.add(field, "must be finite")
	}
}

func normalizeResults(collector *issueCollector, prefix string, results []Result) []Result {
	if len(results) == 0 {
		collector.add(prefix+".math.results", "must include at least one entry")
	}
	out := make([]Result, 0, len(results))
	seen := map[string]struct{}{}
	for i, result := range results {
		field := fmt.Sprintf("%s.math.results[%d]", prefix, i)
		result.ID = strings.TrimSpace(result.ID)
		if result.ID == "" {
			collector.add(field+".id", "is required")
		} else if _, exists := seen[result.ID]; exists {
			collector.add(field+".id", fmt.Sprintf("duplicate result id %q", result.ID))
		} else {
			seen[result.ID] = struct{}{}
		}

		result.ExpressionSymbolic = strings.TrimSpace(result.ExpressionSymbolic)
		if result.ExpressionSymbolic == "" {
			collector.add(field+".expression_symbolic", "is required")
		} else if _, err := expr.Parse(result.ExpressionSymbolic); err != nil {
			collector.add(field+".expression_symbolic", err.Error())
		}

		result.NumericFormat = normalizeFormat(collector, field+".numeric_format", result.NumericFormat)
		out = append(out, result)
	}
	return out
}

func normalizeFormat(collector *issueCollector, field string, format NumericFormat) NumericFormat {
	format.Type = strings.ToLower(strings.TrimSpace(format.Type))
	if format.Type == "" {
		format.Type = "decimal"
	} else if format.Type != "decimal" {
		collector.add(field+".type", fmt.Sprintf("unsupported format type %q", format.Type))
	}
	if format.Decimals == nil {
		decimals := numfmt.DefaultDecimals
		format.Decimals = &decimals
	} else if *format.Decimals < 0 || *format.Decimals > numfmt.MaxDecimals {
		collector.add(field+".decimals", fmt.Sprintf("must be between 0 and %d", numfmt.MaxDecimals))
	}
	rounding, err := numfmt.ParseRounding(format.Rounding)
	if err != nil {
		collector.add(field+".rounding", err.Error())
	} else {
		format.Rounding = string(rounding)
	}
	return format
}
