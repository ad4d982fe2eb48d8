package student

import (
	"fmt"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

var (
	statusTag  = "student_status"
	statusText = "must be one of active, inactive, graduated"

	rosterStatusTag  = "roster_status"
	rosterStatusText = "must be one of all, active, inactive, graduated"

	gradeLevelTag  = "roster_grade_level"
	gradeLevelText = fmt.Sprintf("must be all or a grade level between %d and %d", MinGradeLevel, MaxGradeLevel)
)

// RegisterValidators registers the student validation tags.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)

	_ = validate.RegisterValidation(rosterStatusTag, rosterStatusValidation)
	core.RegisterCustomTranslation(validate, translator, rosterStatusTag, rosterStatusText)

	_ = validate.RegisterValidation(gradeLevelTag, gradeLevelValidation)
	core.RegisterCustomTranslation(validate, translator, gradeLevelTag, gradeLevelText)
}

// Custom Validators

func statusValidation(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(Status); ok {
		return s.Valid()
	}
	return false
}

// rosterStatusValidation accepts a student status or "all".
func rosterStatusValidation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == All || Status(s).Valid()
}

// gradeLevelValidation accepts a grade level or "all".
func gradeLevelValidation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == All {
		return true
	}
	lvl, err := strconv.Atoi(s)
	return err == nil && lvl >= MinGradeLevel && lvl <= MaxGradeLevel
}
