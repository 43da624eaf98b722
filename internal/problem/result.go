package problem

import (
	"errors"
	"strings"

	"probgen/internal/expr"
	"probgen/internal/numfmt"
	"probgen/internal/question"
)

// RenderedResult is one computed answer of a problem instance.
type RenderedResult struct {
	ID             string  `json:"result_id"`
	Label          string  `json:"label"`
	GeneralFormula string  `json:"general_formula_latex"`
	Formula        string  `json:"instantiated_expression_latex"`
	Value          string  `json:"numeric_result_formatted"`
	Raw            float64 `json:"numeric_result"`
}

// RenderResult instantiates the display formula, evaluates the program and
// formats the value of one result against set.
func RenderResult(ev *expr.Evaluator, q question.Question, result question.Result, set ParameterSet) (RenderedResult, error) {
	return renderResult(ev, nil, q, result, set)
}

// renderResult uses prog when the caller has already parsed the result's
// program.
func renderResult(ev *expr.Evaluator, prog *expr.Program, q question.Question, result question.Result, set ParameterSet) (RenderedResult, error) {
	if prog == nil {
		src := strings.TrimSpace(result.ExpressionSymbolic)
		if src == "" {
			return RenderedResult{}, &ConfigurationError{QuestionID: q.ID, ResultID: result.ID, Err: ErrMissingProgram}
		}
		parsed, err := expr.Parse(src)
		if err != nil {
			return RenderedResult{}, &EvaluationError{QuestionID: q.ID, ResultID: result.ID, Err: err}
		}
		prog = parsed
	}

	formula, err := RenderTemplate(result.ExpressionLatexTemplate, set, q.Params)
	if err != nil {
		var tmplErr *TemplateError
		if errors.As(err, &tmplErr) {
			tmplErr.QuestionID, tmplErr.ResultID = q.ID, result.ID
		}
		return RenderedResult{}, err
	}

	raw, err := ev.Run(prog, bindings(set, q.Params))
	if err != nil {
		return RenderedResult{}, &EvaluationError{QuestionID: q.ID, ResultID: result.ID, Err: err}
	}
	value, err := numfmt.Format(raw, result.NumericFormat.Spec())
	if err != nil {
		if errors.Is(err, numfmt.ErrNonFinite) {
			return RenderedResult{}, &EvaluationError{QuestionID: q.ID, ResultID: result.ID, Err: err}
		}
		return RenderedResult{}, &ConfigurationError{QuestionID: q.ID, ResultID: result.ID, Err: err}
	}

	return RenderedResult{
		ID:             result.ID,
		Label:          result.Label,
		GeneralFormula: result.GeneralFormulaLatex,
		Formula:        formula,
		Value:          value,
		Raw:            raw,
	}, nil
}
