package student

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

// Where is a compiled boolean expression over a student, e.g.
//
//	grade_level >= 11 && status != "graduated" && enrolled_on < "2024-09-01"
//
// Dates are exposed as "YYYY-MM-DD" strings so that they compare chronologically.
type Where struct {
	source  string
	program *exprvm.Program
}

// whereEnv declares the variables available to expressions, with their types.
var whereEnv = map[string]any{
	"id":          0,
	"first_name":  "",
	"last_name":   "",
	"name":        "",
	"email":       "",
	"phone":       "",
	"grade_level": 0,
	"status":      "",
	"born_on":     "",
	"enrolled_on": "",
}

func environment(s Student) map[string]any {
	return map[string]any{
		"id":          s.ID,
		"first_name":  s.FirstName,
		"last_name":   s.LastName,
		"name":        s.Name,
		"email":       s.Email,
		"phone":       s.Phone,
		"grade_level": s.GradeLevel,
		"status":      string(s.Status),
		"born_on":     s.DateOfBirth.String(),
		"enrolled_on": s.EnrollmentDate.String(),
	}
}

// CompileWhere compiles source into a Where. Unknown variables and non-boolean expressions are rejected.
func CompileWhere(source string) (*Where, error) {
	program, err := exprlang.Compile(source, exprlang.Env(whereEnv), exprlang.AsBool())
	if err != nil {
		err = errors.Wrap(err, "invalid where expression")
		return nil, core.NewValidationError(err, core.FieldError{Field: "where", Error: err.Error()})
	}
	return &Where{source: source, program: program}, nil
}

// Match reports whether s satisfies w. Expressions failing at run time match nothing.
func (w *Where) Match(s Student) bool {
	out, err := exprlang.Run(w.program, environment(s))
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

func (w *Where) String() string {
	return w.source
}
