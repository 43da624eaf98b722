package problem

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrQuestionNotFound is returned for unknown question ids.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNotEnoughQuestions is returned when a test asks for more
	// single-result questions than the catalog holds.
	ErrNotEnoughQuestions = errors.New("not enough single-result questions")

	ErrForwardReference      = errors.New("bound references a parameter that has not been generated")
	ErrEmptyRange            = errors.New("empty parameter range")
	ErrMissingProgram        = errors.New("result has no expression program")
	ErrUnresolvedPlaceholder = errors.New("unresolved placeholder")
)

// ConfigurationError reports malformed or incomplete question content.
type ConfigurationError struct {
	QuestionID string
	ResultID   string
	Param      string
	Err        error
}

func (err *ConfigurationError) Error() string {
	return "configuration error" + location(err.QuestionID, err.ResultID, err.Param) + ": " + err.Err.Error()
}

func (err *ConfigurationError) Unwrap() error {
	return err.Err
}

// EvaluationError reports a failure evaluating a result program or
// formatting its value.
type EvaluationError struct {
	QuestionID string
	ResultID   string
	Err        error
}

func (err *EvaluationError) Error() string {
	return "evaluation error" + location(err.QuestionID, err.ResultID, "") + ": " + err.Err.Error()
}

func (err *EvaluationError) Unwrap() error {
	return err.Err
}

// TemplateError reports a placeholder that could not be rendered.
type TemplateError struct {
	QuestionID  string
	ResultID    string
	Placeholder string
	Err         error
}

func (err *TemplateError) Error() string {
	msg := "template error" + location(err.QuestionID, err.ResultID, "") + ": " + err.Err.Error()
	if err.Placeholder != "" {
		msg += fmt.Sprintf(" {%s}", err.Placeholder)
	}
	return msg
}

func (err *TemplateError) Unwrap() error {
	return err.Err
}

func location(questionID, resultID, param string) string {
	var parts []string
	if questionID != "" {
		parts = append(parts, "question "+questionID)
	}
	if resultID != "" {
		parts = append(parts, "result "+resultID)
	}
	if param != "" {
		parts = append(parts, "param "+param)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// Kind classifies err for transport layers: "configuration", "evaluation",
// "template", "not_found", or "" when err is none of these.
func Kind(err error) string {
	var cfgErr *ConfigurationError
	var evalErr *EvaluationError
	var tmplErr *TemplateError
	switch {
	case errors.Is(err, ErrQuestionNotFound):
		return "not_found"
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.As(err, &evalErr):
		return "evaluation"
	case errors.As(err, &tmplErr):
		return "template"
	}
	return ""
}

// withQuestion stamps the question id onto typed errors that lack one.
func withQuestion(err error, questionID string) error {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) && cfgErr.QuestionID == "" {
		cfgErr.QuestionID = questionID
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) && evalErr.QuestionID == "" {
		evalErr.QuestionID = questionID
	}
	var tmplErr *TemplateError
	if errors.As(err, &tmplErr) && tmplErr.QuestionID == "" {
		tmplErr.QuestionID = questionID
	}
	return err
}
