package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

// Status is the enrollment status of a student.
type Status string

// Statuses
const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusGraduated Status = "graduated"
)

var AllStatuses = []Status{StatusActive, StatusInactive, StatusGraduated}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusGraduated:
		return true
	}
	return false
}

// Grade levels
const (
	MinGradeLevel = 9
	MaxGradeLevel = 12
)

type Student struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	GradeLevel     int       `json:"grade_level"`
	DateOfBirth    core.Date `json:"date_of_birth"`
	EnrollmentDate core.Date `json:"enrollment_date"`
	Status         Status    `json:"status"`
	Average        *float64  `json:"average,omitempty"` // computed on demand, never stored
}

func (s Student) FullName() string {
	return core.CleanString(s.FirstName + " " + s.LastName)
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	FirstName      string    `json:"first_name" validate:"required"`
	LastName       string    `json:"last_name" validate:"required"`
	Email          string    `json:"email" validate:"required,email"`
	Phone          string    `json:"phone"`
	GradeLevel     int       `json:"grade_level" validate:"required,min=9,max=12"`
	DateOfBirth    core.Date `json:"date_of_birth"`
	EnrollmentDate core.Date `json:"enrollment_date"`
	Status         Status    `json:"status" validate:"omitempty,student_status"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	return validate.Struct(ns)
}

// build creates the Student, applying defaults: active, enrolled today.
func (ns NewStudent) build() Student {
	s := Student{
		FirstName:      ns.FirstName,
		LastName:       ns.LastName,
		Email:          ns.Email,
		Phone:          ns.Phone,
		GradeLevel:     ns.GradeLevel,
		DateOfBirth:    ns.DateOfBirth,
		EnrollmentDate: ns.EnrollmentDate,
		Status:         ns.Status,
	}
	s.Name = s.FullName()
	if s.Status == "" {
		s.Status = StatusActive
	}
	if s.EnrollmentDate.IsZero() {
		s.EnrollmentDate = core.Today()
	}
	return s
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Blank fields keep their current value.
type UpdateStudent struct {
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email" validate:"omitempty,email"`
	Phone          *string   `json:"phone"`
	GradeLevel     int       `json:"grade_level" validate:"omitempty,min=9,max=12"`
	DateOfBirth    core.Date `json:"date_of_birth"`
	EnrollmentDate core.Date `json:"enrollment_date"`
	Status         Status    `json:"status" validate:"omitempty,student_status"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.FirstName = core.CleanString(us.FirstName)
	us.LastName = core.CleanString(us.LastName)
	us.Email = core.CleanString(us.Email, true /* lower */)
	if us.Phone != nil {
		phone := core.CleanString(*us.Phone)
		us.Phone = &phone
	}
	return validate.Struct(us)
}

// apply returns orig updated with us.
func (us UpdateStudent) apply(orig Student) Student {
	s := orig
	if us.FirstName != "" {
		s.FirstName = us.FirstName
	}
	if us.LastName != "" {
		s.LastName = us.LastName
	}
	if us.Email != "" {
		s.Email = us.Email
	}
	if us.Phone != nil {
		s.Phone = *us.Phone
	}
	if us.GradeLevel != 0 {
		s.GradeLevel = us.GradeLevel
	}
	if !us.DateOfBirth.IsZero() {
		s.DateOfBirth = us.DateOfBirth
	}
	if !us.EnrollmentDate.IsZero() {
		s.EnrollmentDate = us.EnrollmentDate
	}
	if us.Status != "" {
		s.Status = us.Status
	}
	s.Name = s.FullName()
	s.Average = nil
	return s
}

// QueryFilter is the server-side filter of the record store. Zero fields are ignored.
type QueryFilter struct {
	Status     Status
	GradeLevel int
	Email      string
}

func (qf QueryFilter) Match(s Student) bool {
	return (qf.Status == "" || s.Status == qf.Status) &&
		(qf.GradeLevel == 0 || s.GradeLevel == qf.GradeLevel) &&
		(qf.Email == "" || s.Email == qf.Email)
}
