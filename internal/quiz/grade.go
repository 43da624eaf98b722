package quiz

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// ErrNoAnswers is returned when there is nothing to grade.
var ErrNoAnswers = errors.New("no answers to grade")

// Answer is one submitted choice together with the expected value.
type Answer struct {
	ID       string  `json:"id"`
	Selected float64 `json:"selected"`
	Correct  float64 `json:"correct"`
}

// Detail is the graded form of an Answer.
type Detail struct {
	ID        string  `json:"id"`
	Selected  float64 `json:"selected"`
	Correct   float64 `json:"correct"`
	IsCorrect bool    `json:"is_correct"`
}

// Result is the graded test.
type Result struct {
	Score   float64  `json:"score"`
	Details []Detail `json:"details"`
}

// Grade marks every answer and computes the percentage of correct ones,
// rounded half to even at two decimals.
func Grade(answers []Answer) (Result, error) {
	if len(answers) == 0 {
		return Result{}, ErrNoAnswers
	}
	correct := 0
	details := make([]Detail, 0, len(answers))
	for _, answer := range answers {
		ok := IsCorrect(answer.Selected, answer.Correct)
		if ok {
			correct++
		}
		details = append(details, Detail{
			ID:        answer.ID,
			Selected:  answer.Selected,
			Correct:   answer.Correct,
			IsCorrect: ok,
		})
	}
	score := decimal.NewFromInt(int64(correct) * 100).
		Div(decimal.NewFromInt(int64(len(answers)))).
		RoundBank(2)
	value, _ := score.Float64()
	return Result{Score: value, Details: details}, nil
}

// IsCorrect reports whether selected matches correct within Tolerance.
func IsCorrect(selected, correct float64) bool {
	return math.Abs(selected-correct) < Tolerance
}
