package sqlxrepos

import (
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/student"
)

func TestTable_queries(t *testing.T) {
	assert.Equal(t,
		"SELECT id, name, student_id, class_id, date, status, notes FROM attendance",
		attendanceTable.selectQuery(),
	)
	assert.Equal(t,
		"INSERT INTO attendance (name, student_id, class_id, date, status, notes) "+
			"VALUES (:name, :student_id, :class_id, :date, :status, :notes) "+
			"RETURNING id, name, student_id, class_id, date, status, notes",
		attendanceTable.insertQuery(),
	)
	assert.Equal(t,
		"UPDATE class SET name = :name, subject = :subject, period = :period, room = :room, year = :year, "+
			"semester = :semester WHERE id = :id RETURNING id, name, subject, period, room, year, semester",
		classTable.updateQuery(),
	)
}

func TestWhere(t *testing.T) {
	var w where
	assert.Equal(t, "", w.String())

	w.add("student_id = ?", 1)
	w.add("date = ?", "2024-01-05")
	assert.Equal(t, " WHERE student_id = ? AND date = ?", w.String())
	assert.Equal(t, []interface{}{1, "2024-01-05"}, w.args)
}

func TestRecordError(t *testing.T) {
	dup := &pq.Error{Code: "23505", Constraint: "attendance_key_idx"}
	err := recordError(dup)
	assert.True(t, errors.Is(err, core.ErrConflict))
	assert.Contains(t, err.Error(), "attendance_key_idx")

	check := &pq.Error{Code: "23514", Message: `new row violates check constraint "grade_max_score_check"`}
	assert.Equal(t, error(check), recordError(check))

	assert.Nil(t, recordError(&pq.Error{Code: "57P01"})) // admin shutdown
	assert.Nil(t, recordError(errors.New("connection refused")))
}

func TestRowMapping(t *testing.T) {
	rec := attendance.Record{
		ID:        3,
		Name:      "Attendance for Student 1",
		StudentID: 1,
		ClassID:   2,
		Date:      core.NewDate(2024, 1, 5),
		Status:    attendance.StatusLate,
		Notes:     "tardy",
	}
	assert.Equal(t, "tardy", attendanceTable.toRow(rec).Notes)
	assert.Equal(t, rec, attendanceTable.fromRow(attendanceTable.toRow(rec)))

	s := student.Student{ID: 1, FirstName: "Ada", Email: "ada@school.test", Phone: "555-0100", GradeLevel: 11, Status: student.StatusActive, EnrollmentDate: core.NewDate(2024, 9, 2)}
	row := studentTable.toRow(s)
	assert.False(t, row.DateOfBirth.Valid)
	assert.Equal(t, "555-0100", row.Phone)
	assert.Equal(t, time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC), row.EnrollmentDate)
	assert.Equal(t, s, studentTable.fromRow(row))
}
