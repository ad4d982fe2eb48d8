package grade

import (
	"math"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

// maxPercentage is the largest percentage a grade can store.
const maxPercentage = math.MaxInt32

// Letter grades
const (
	LetterAPlus  = "A+"
	LetterA      = "A"
	LetterAMinus = "A-"
	LetterBPlus  = "B+"
	LetterB      = "B"
	LetterBMinus = "B-"
	LetterCPlus  = "C+"
	LetterC      = "C"
	LetterCMinus = "C-"
	LetterD      = "D"
	LetterF      = "F"
)

var (
	// thresholds is evaluated high to low, the first match wins.
	thresholds = []struct {
		min    int
		letter string
	}{
		{97, LetterAPlus},
		{93, LetterA},
		{90, LetterAMinus},
		{87, LetterBPlus},
		{83, LetterB},
		{80, LetterBMinus},
		{77, LetterCPlus},
		{73, LetterC},
		{70, LetterCMinus},
		{65, LetterD},
	}

	// errors
	errNegativeScore   = errors.New("score cannot be negative")
	errInvalidMaxScore = errors.New("max score must be greater than 0")
	errInvalidScore    = errors.New("score must be a finite number")
	errScoreTooLarge   = errors.New("score is too large for the max score")
)

// Result holds the values derived from a score.
type Result struct {
	Percentage  int    `json:"percentage"`
	LetterGrade string `json:"letter_grade"`
}

// Derive computes the percentage (rounded half-up) and the letter grade of score over maxScore.
// Scores above maxScore are allowed and yield percentages above 100.
func Derive(score, maxScore float64) (Result, error) {
	if !(maxScore > 0) || math.IsInf(maxScore, 0) {
		return Result{}, core.NewValidationError(errInvalidMaxScore, core.FieldError{Field: "max_score", Error: errInvalidMaxScore.Error()})
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Result{}, core.NewValidationError(errInvalidScore, core.FieldError{Field: "score", Error: errInvalidScore.Error()})
	}
	if score < 0 {
		return Result{}, core.NewValidationError(errNegativeScore, core.FieldError{Field: "score", Error: errNegativeScore.Error()})
	}

	// multiply first so that halves stay exact: 37/40 -> 92.5 -> 93
	ratio := core.RoundHalfUp(score * 100 / maxScore)
	if math.IsInf(ratio, 0) || ratio > maxPercentage {
		return Result{}, core.NewValidationError(errScoreTooLarge, core.FieldError{Field: "score", Error: errScoreTooLarge.Error()})
	}
	pct := int(ratio)
	return Result{Percentage: pct, LetterGrade: LetterGrade(pct)}, nil
}

// LetterGrade maps a percentage to its letter grade.
func LetterGrade(percentage int) string {
	for _, th := range thresholds {
		if percentage >= th.min {
			return th.letter
		}
	}
	return LetterF
}

// Average returns the mean percentage of grades rounded to 2 decimals, 0 when there are no grades.
func Average(grades []Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	var sum int
	for _, g := range grades {
		sum += g.Percentage
	}
	return core.RoundTo(float64(sum)/float64(len(grades)), 2)
}
