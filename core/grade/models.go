package grade

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

var errAmbiguousPatch = errors.New("score and max score are both required to recompute the percentage")

// Grade is a recorded score. Percentage and LetterGrade always match Score/MaxScore as of the last write;
// they are set by Service only.
type Grade struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	StudentID    int       `json:"student_id"`
	ClassID      int       `json:"class_id"`
	AssignmentID int       `json:"assignment_id"`
	Score        float64   `json:"score"`
	MaxScore     float64   `json:"max_score"`
	Percentage   int       `json:"percentage"`
	LetterGrade  string    `json:"letter_grade"`
	DateRecorded core.Date `json:"date_recorded"`
}

// scored reports whether g holds a usable score/max score pair.
func (g Grade) scored() bool {
	return g.MaxScore > 0
}

func (g *Grade) setResult(res Result) {
	g.Percentage = res.Percentage
	g.LetterGrade = res.LetterGrade
}

// NewGrade contains information needed to record a new Grade.
type NewGrade struct {
	Name         string    `json:"name"`
	StudentID    int       `json:"student_id" validate:"required,gt=0"`
	ClassID      int       `json:"class_id" validate:"required,gt=0"`
	AssignmentID int       `json:"assignment_id" validate:"required,gt=0"`
	Score        *float64  `json:"score" validate:"required,gte=0"`
	MaxScore     *float64  `json:"max_score" validate:"required,gt=0"`
	DateRecorded core.Date `json:"date_recorded"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.Name = core.CleanString(ng.Name)
	return validate.Struct(ng)
}

// build creates the Grade, deriving its percentage and letter grade.
func (ng NewGrade) build() (Grade, error) {
	if ng.Score == nil || ng.MaxScore == nil {
		return Grade{}, core.NewValidationError(errAmbiguousPatch)
	}
	res, err := Derive(*ng.Score, *ng.MaxScore)
	if err != nil {
		return Grade{}, err
	}

	g := Grade{
		Name:         ng.Name,
		StudentID:    ng.StudentID,
		ClassID:      ng.ClassID,
		AssignmentID: ng.AssignmentID,
		Score:        *ng.Score,
		MaxScore:     *ng.MaxScore,
		DateRecorded: ng.DateRecorded,
	}
	g.setResult(res)
	if g.Name == "" {
		g.Name = fmt.Sprintf("Grade for Student %d", g.StudentID)
	}
	if g.DateRecorded.IsZero() {
		g.DateRecorded = core.Today()
	}
	return g, nil
}

// Patch defines what information may be provided to modify an existing Grade.
// nil fields are left untouched.
type Patch struct {
	Name         *string    `json:"name"`
	AssignmentID *int       `json:"assignment_id" validate:"omitempty,gt=0"`
	Score        *float64   `json:"score" validate:"omitempty,gte=0"`
	MaxScore     *float64   `json:"max_score" validate:"omitempty,gt=0"`
	DateRecorded *core.Date `json:"date_recorded"`
}

func (p *Patch) Validate(validate *validator.Validate) error {
	if p.Name != nil {
		name := core.CleanString(*p.Name)
		p.Name = &name
	}
	return validate.Struct(p)
}

// Apply returns existing updated with p.
// When p changes the score and/or the max score, the percentage and letter grade are recomputed from the
// resulting pair; a single value is rejected if existing has no counterpart to pair it with.
func Apply(existing Grade, p Patch) (Grade, error) {
	updated := existing
	if p.Name != nil && *p.Name != "" {
		updated.Name = *p.Name
	}
	if p.AssignmentID != nil {
		updated.AssignmentID = *p.AssignmentID
	}
	if p.DateRecorded != nil && !p.DateRecorded.IsZero() {
		updated.DateRecorded = *p.DateRecorded
	}

	if p.Score == nil && p.MaxScore == nil {
		return updated, nil
	}
	if (p.Score == nil || p.MaxScore == nil) && !existing.scored() {
		field := "max_score"
		if p.Score == nil {
			field = "score"
		}
		return Grade{}, core.NewValidationError(errAmbiguousPatch, core.FieldError{Field: field, Error: errAmbiguousPatch.Error()})
	}
	if p.Score != nil {
		updated.Score = *p.Score
	}
	if p.MaxScore != nil {
		updated.MaxScore = *p.MaxScore
	}

	res, err := Derive(updated.Score, updated.MaxScore)
	if err != nil {
		return Grade{}, err
	}
	updated.setResult(res)
	return updated, nil
}

type QueryFilter struct {
	StudentID    int `query:"student_id"`
	ClassID      int `query:"class_id"`
	AssignmentID int `query:"assignment_id"`
}

func (qf QueryFilter) IsEmpty() bool {
	return qf.StudentID == 0 && qf.ClassID == 0 && qf.AssignmentID == 0
}

// Match reports whether g satisfies every set field of qf.
func (qf QueryFilter) Match(g Grade) bool {
	return (qf.StudentID == 0 || g.StudentID == qf.StudentID) &&
		(qf.ClassID == 0 || g.ClassID == qf.ClassID) &&
		(qf.AssignmentID == 0 || g.AssignmentID == qf.AssignmentID)
}
