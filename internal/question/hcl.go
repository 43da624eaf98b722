package question

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclFile is the HCL catalog layout:
//
//	version = 1
//	question "binomial" {
//	  topic    = "Binomial"
//	  template = "..."
//	  param "n" {
//	    min  = 5
//	    max  = 10
//	    type = "int"
//	  }
//	  param "k" {
//	    min = 0
//	    max = n
//	  }
//	  result "prob" { ... }
//	}
type hclFile struct {
	Version   int           `hcl:"version,optional"`
	Questions []hclQuestion `hcl:"question,block"`
}

type hclQuestion struct {
	ID         string        `hcl:"id,label"`
	Version    int           `hcl:"version,optional"`
	Topic      string        `hcl:"topic,optional"`
	DocURL     string        `hcl:"doc_url,optional"`
	DocSummary string        `hcl:"doc_summary,optional"`
	Solver     string        `hcl:"solver,optional"`
	Template   string        `hcl:"template,optional"`
	Params     []hclParam    `hcl:"param,block"`
	Variables  []hclVariable `hcl:"variable,block"`
	Results    []hclResult   `hcl:"result,block"`
}

type hclParam struct {
	Name string         `hcl:"name,label"`
	Min  hcl.Expression `hcl:"min,attr"`
	Max  hcl.Expression `hcl:"max,attr"`
	Type string         `hcl:"type,optional"`
}

type hclVariable struct {
	Name        string `hcl:"name,label"`
	Latex       string `hcl:"latex,optional"`
	Description string `hcl:"description,optional"`
}

type hclResult struct {
	ID                      string     `hcl:"id,label"`
	Label                   string     `hcl:"label,optional"`
	GeneralFormulaLatex     string     `hcl:"general_formula_latex,optional"`
	ExpressionLatexTemplate string     `hcl:"expression_latex_template,optional"`
	ExpressionSymbolic      string     `hcl:"expression_symbolic,optional"`
	NumericFormat           *hclFormat `hcl:"numeric_format,block"`
}

type hclFormat struct {
	Type     string `hcl:"type,optional"`
	Decimals *int   `hcl:"decimals,optional"`
	Rounding string `hcl:"rounding,optional"`
}

func parseHCLSpec(data []byte, filename string) (Spec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return Spec{}, fmt.Errorf("parse hcl: %w", diags)
	}
	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return Spec{}, fmt.Errorf("parse hcl: %w", diags)
	}

	spec := Spec{Version: raw.Version, Questions: make([]Question, 0, len(raw.Questions))}
	for _, rawQuestion := range raw.Questions {
		question, err := rawQuestion.toQuestion()
		if err != nil {
			return Spec{}, fmt.Errorf("parse hcl: question %q: %w", rawQuestion.ID, err)
		}
		spec.Questions = append(spec.Questions, question)
	}
	return spec, nil
}

func (raw hclQuestion) toQuestion() (Question, error) {
	question := Question{
		ID:         raw.ID,
		Version:    raw.Version,
		Topic:      raw.Topic,
		DocURL:     raw.DocURL,
		DocSummary: raw.DocSummary,
		Solver:     raw.Solver,
		Template:   raw.Template,
	}
	for _, param := range raw.Params {
		lower, err := hclBound(param.Min)
		if err != nil {
			return Question{}, fmt.Errorf("param %q min: %w", param.Name, err)
		}
		upper, err := hclBound(param.Max)
		if err != nil {
			return Question{}, fmt.Errorf("param %q max: %w", param.Name, err)
		}
		question.Params = append(question.Params, ParamSpec{
			Name: param.Name,
			Min:  lower,
			Max:  upper,
			Type: ParamType(param.Type),
		})
	}
	if len(raw.Variables) > 0 {
		question.Variables = make(map[string]VariableMeta, len(raw.Variables))
		for _, variable := range raw.Variables {
			question.Variables[variable.Name] = VariableMeta{Latex: variable.Latex, Description: variable.Description}
		}
	}
	for _, result := range raw.Results {
		converted := Result{
			ID:                      result.ID,
			Label:                   result.Label,
			GeneralFormulaLatex:     result.GeneralFormulaLatex,
			ExpressionLatexTemplate: result.ExpressionLatexTemplate,
			ExpressionSymbolic:      result.ExpressionSymbolic,
		}
		if result.NumericFormat != nil {
			converted.NumericFormat = NumericFormat{
				Type:     result.NumericFormat.Type,
				Decimals: result.NumericFormat.Decimals,
				Rounding: result.NumericFormat.Rounding,
			}
		}
		question.Math.Results = append(question.Math.Results, converted)
	}
	return question, nil
}

// hclBound reads a bare name such as `max = n` as a reference and evaluates
// anything else as a constant number.
func hclBound(expr hcl.Expression) (Bound, error) {
	if name := hcl.ExprAsKeyword(expr); name != "" {
		return Ref(name), nil
	}
	value, diags := expr.Value(nil)
	if diags.HasErrors() {
		return Bound{}, diags
	}
	var number float64
	if err := gocty.FromCtyValue(value, &number); err != nil {
		return Bound{}, fmt.Errorf("bound must be a number or a parameter name: %w", err)
	}
	return Literal(number), nil
}
