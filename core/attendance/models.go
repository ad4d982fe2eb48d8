package attendance

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

// Status is the attendance status of a student for a class on a given day.
type Status string

// Statuses
const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

var AllStatuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// countable reports whether s counts towards the attendance rate.
func (s Status) countable() bool {
	return s == StatusPresent || s == StatusLate
}

// Record is the attendance of a student for a class on a given day.
// There is at most one Record per Key.
type Record struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	StudentID int       `json:"student_id"`
	ClassID   int       `json:"class_id"`
	Date      core.Date `json:"date"`
	Status    Status    `json:"status"`
	Notes     string    `json:"notes"`
}

func (r Record) Key() Key {
	return Key{StudentID: r.StudentID, ClassID: r.ClassID, Date: r.Date}
}

// Key identifies the attendance of a student for a class on a given day.
type Key struct {
	StudentID int
	ClassID   int
	Date      core.Date
}

func (k Key) Equal(o Key) bool {
	return k.StudentID == o.StudentID && k.ClassID == o.ClassID && k.Date.Equal(o.Date)
}

func (k Key) String() string {
	return fmt.Sprintf("attendance:%d:%d:%s", k.StudentID, k.ClassID, k.Date)
}

// MarkAttendance contains information needed to record (or correct) the attendance of a student.
type MarkAttendance struct {
	StudentID int       `json:"student_id" validate:"required,gt=0"`
	ClassID   int       `json:"class_id" validate:"required,gt=0"`
	Date      core.Date `json:"date"`
	Status    Status    `json:"status" validate:"required,attendance_status"`
	Notes     string    `json:"notes"`
}

func (ma *MarkAttendance) Validate(validate *validator.Validate) error {
	ma.Notes = core.CleanString(ma.Notes)
	return validate.Struct(ma)
}

// Key returns the key of the marked record; a zero Date means today.
func (ma MarkAttendance) Key() Key {
	date := ma.Date
	if date.IsZero() {
		date = core.Today()
	}
	return Key{StudentID: ma.StudentID, ClassID: ma.ClassID, Date: date}
}

func (ma MarkAttendance) record() Record {
	key := ma.Key()
	return Record{
		Name:      fmt.Sprintf("Attendance for Student %d", ma.StudentID),
		StudentID: key.StudentID,
		ClassID:   key.ClassID,
		Date:      key.Date,
		Status:    ma.Status,
		Notes:     ma.Notes,
	}
}

// UpdateRecord defines what information may be provided to modify an existing Record.
// The key of a record cannot be changed.
type UpdateRecord struct {
	Status Status  `json:"status" validate:"required,attendance_status"`
	Notes  *string `json:"notes"`
}

func (ur *UpdateRecord) Validate(validate *validator.Validate) error {
	if ur.Notes != nil {
		notes := core.CleanString(*ur.Notes)
		ur.Notes = &notes
	}
	return validate.Struct(ur)
}

type QueryFilter struct {
	StudentID int       `query:"student_id"`
	ClassID   int       `query:"class_id"`
	Date      core.Date `query:"date"`
	Status    Status    `query:"status"`
}

// KeyFilter returns the filter matching the record of k.
func KeyFilter(k Key) QueryFilter {
	return QueryFilter{StudentID: k.StudentID, ClassID: k.ClassID, Date: k.Date}
}

func (qf QueryFilter) Match(r Record) bool {
	return (qf.StudentID == 0 || r.StudentID == qf.StudentID) &&
		(qf.ClassID == 0 || r.ClassID == qf.ClassID) &&
		(qf.Date.IsZero() || r.Date.Equal(qf.Date)) &&
		(qf.Status == "" || r.Status == qf.Status)
}
