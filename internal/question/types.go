package question

import "probgen/internal/numfmt"

// Spec is the catalog file schema loaded from JSON, YAML or HCL.
type Spec struct {
	Version   int        `json:"version" yaml:"version"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question declares one problem template: how its parameters are sampled,
// how the statement is worded and which numeric results it asks for.
type Question struct {
	ID         string                  `json:"id" yaml:"id"`
	Version    int                     `json:"version" yaml:"version"`
	Topic      string                  `json:"topic" yaml:"topic"`
	DocURL     string                  `json:"doc_url,omitempty" yaml:"doc_url"`
	DocSummary string                  `json:"doc_summary,omitempty" yaml:"doc_summary"`
	Solver     string                  `json:"solver,omitempty" yaml:"solver"`
	Template   string                  `json:"template" yaml:"template"`
	Params     Params                  `json:"params" yaml:"params"`
	Variables  map[string]VariableMeta `json:"variables,omitempty" yaml:"variables"`
	Math       Math                    `json:"math" yaml:"math"`
}

// ParamType is the declared numeric type of a parameter.
type ParamType string

const (
	TypeInt   ParamType = "int"
	TypeFloat ParamType = "float"
)

// ParamSpec is the sampling range and type of one parameter.
type ParamSpec struct {
	Name string    `json:"-" yaml:"-"`
	Min  Bound     `json:"min" yaml:"min"`
	Max  Bound     `json:"max" yaml:"max"`
	Type ParamType `json:"type" yaml:"type"`
}

// VariableMeta is display metadata for a symbol used in the statement.
type VariableMeta struct {
	Latex       string `json:"latex" yaml:"latex"`
	Description string `json:"description" yaml:"description"`
}

// Math groups the computed results of a question.
type Math struct {
	Results []Result `json:"results" yaml:"results"`
}

// Result declares one computed answer.
type Result struct {
	ID                      string        `json:"id" yaml:"id"`
	Label                   string        `json:"label" yaml:"label"`
	GeneralFormulaLatex     string        `json:"general_formula_latex" yaml:"general_formula_latex"`
	ExpressionLatexTemplate string        `json:"expression_latex_template" yaml:"expression_latex_template"`
	ExpressionSymbolic      string        `json:"expression_symbolic" yaml:"expression_symbolic"`
	NumericFormat           NumericFormat `json:"numeric_format" yaml:"numeric_format"`
}

// NumericFormat is the display format of a result value.
type NumericFormat struct {
	Type     string `json:"type" yaml:"type"`
	Decimals *int   `json:"decimals,omitempty" yaml:"decimals"`
	Rounding string `json:"rounding" yaml:"rounding"`
}

// Spec converts the catalog format into a formatter spec. Missing fields
// take the formatter defaults; unknown rounding modes are caught by
// validation before this is used.
func (format NumericFormat) Spec() numfmt.Spec {
	spec := numfmt.DefaultSpec()
	if format.Decimals != nil {
		spec.Decimals = *format.Decimals
	}
	if rounding, err := numfmt.ParseRounding(format.Rounding); err == nil {
		spec.Rounding = rounding
	} else {
		spec.Rounding = numfmt.Rounding(format.Rounding)
	}
	return spec
}

// SingleResult reports whether the question has exactly one result and can
// therefore be used as a multiple-choice item.
func (q Question) SingleResult() bool {
	return len(q.Math.Results) == 1
}

// Param returns the spec of the named parameter.
func (q Question) Param(name string) (ParamSpec, bool) {
	return q.Params.Param(name)
}
