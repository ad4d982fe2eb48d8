package student

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

// All disables a roster filter.
const All = "all"

// RosterQuery holds the raw roster filters, as sent by clients.
type RosterQuery struct {
	Query      string `json:"q" query:"q"`
	Status     string `json:"status" query:"status" validate:"omitempty,roster_status"`
	GradeLevel string `json:"grade_level" query:"grade_level" validate:"omitempty,roster_grade_level"`
	Where      string `json:"where" query:"where"`
}

func (rq *RosterQuery) Validate(validate *validator.Validate) error {
	rq.Query = core.CleanString(rq.Query)
	rq.Status = core.CleanString(rq.Status, true /* lower */)
	rq.GradeLevel = core.CleanString(rq.GradeLevel, true /* lower */)
	rq.Where = core.CleanString(rq.Where)
	return validate.Struct(rq)
}

// Filter converts rq into a RosterFilter, compiling its where expression.
// rq is expected to be validated.
func (rq RosterQuery) Filter() (RosterFilter, error) {
	f := RosterFilter{Query: rq.Query}
	if rq.Status != All {
		f.Status = Status(rq.Status)
	}
	if rq.GradeLevel != "" && rq.GradeLevel != All {
		lvl, err := strconv.Atoi(rq.GradeLevel)
		if err != nil {
			return RosterFilter{}, core.NewValidationError(err, core.FieldError{Field: "grade_level", Error: gradeLevelText})
		}
		f.GradeLevel = lvl
	}
	if rq.Where != "" {
		where, err := CompileWhere(rq.Where)
		if err != nil {
			return RosterFilter{}, err
		}
		f.Where = where
	}
	return f, nil
}

// RosterFilter narrows a roster. All set criteria must match:
//   - Query: case-insensitive substring of the first name, last name or email ("" matches all)
//   - Status: exact match ("" matches all)
//   - GradeLevel: exact match (0 matches all)
//   - Where: expression evaluated against the student (nil matches all)
type RosterFilter struct {
	Query      string
	Status     Status
	GradeLevel int
	Where      *Where
}

func (f RosterFilter) match(s Student, query string) bool {
	if query != "" &&
		!strings.Contains(strings.ToLower(s.FirstName), query) &&
		!strings.Contains(strings.ToLower(s.LastName), query) &&
		!strings.Contains(strings.ToLower(s.Email), query) {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.GradeLevel != 0 && s.GradeLevel != f.GradeLevel {
		return false
	}
	return f.Where == nil || f.Where.Match(s)
}

// Filter returns the students matching f, in their original order.
// students is never modified; the result is never nil.
func Filter(students []Student, f RosterFilter) []Student {
	query := strings.ToLower(f.Query)
	filtered := make([]Student, 0, len(students))
	for _, s := range students {
		if f.match(s, query) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
