// Package testutil wires the core services to an in-memory record store and creates test records.
package testutil

import (
	"context"
	"io"
	"log"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/assignment"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/class"
	"github.com/trezcool/academia/core/grade"
	"github.com/trezcool/academia/core/gradebook"
	"github.com/trezcool/academia/core/student"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/database/inmem"
)

type Services struct {
	Students    *student.Service
	Classes     *class.Service
	Assignments *assignment.Service
	Grades      *grade.Service
	Attendance  *attendance.Service
	Gradebooks  *gradebook.Service
}

// NewServices returns the services backed by db. Attendance is serialized with in-process locks.
func NewServices(db *inmemdb.DB) Services {
	grades := grade.NewService(inmemdb.NewGradeRepository(db))
	svc := Services{
		Students:    student.NewService(inmemdb.NewStudentRepository(db), grades),
		Classes:     class.NewService(inmemdb.NewClassRepository(db)),
		Assignments: assignment.NewService(inmemdb.NewAssignmentRepository(db)),
		Grades:      grades,
		Attendance:  attendance.NewService(inmemdb.NewAttendanceRepository(db), attendance.NewMutexLocker()),
	}
	svc.Gradebooks = gradebook.NewService(svc.Students, svc.Classes, svc.Assignments, svc.Grades, svc.Attendance)
	return svc
}

// NewValidator returns a validator with every custom tag registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.RegisterValidators(validate, translator)
	attendance.RegisterValidators(validate, translator)
	return validate, translator
}

// NewLogger returns a logger that discards everything.
func NewLogger() core.Logger {
	return logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), &core.Config{})
}

func CreateStudent(t *testing.T, svc *student.Service, first, last string, lvl int, status student.Status) student.Student {
	s, err := svc.Create(context.Background(), student.NewStudent{
		FirstName:  first,
		LastName:   last,
		Email:      core.CleanString(first+"."+last, true) + "@school.test",
		GradeLevel: lvl,
		Status:     status,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

func CreateClass(t *testing.T, svc *class.Service, subject string, year int) class.Section {
	sec, err := svc.Create(context.Background(), class.NewSection{Subject: subject, Year: year})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return sec
}

func CreateAssignment(t *testing.T, svc *assignment.Service, classID int, name string) assignment.Assignment {
	a, err := svc.Create(context.Background(), assignment.NewAssignment{
		Name:        name,
		ClassID:     classID,
		Category:    assignment.CategoryHomework,
		TotalPoints: 100,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return a
}

func CreateGrade(t *testing.T, svc *grade.Service, studentID, classID, assignmentID int, score, maxScore float64) grade.Grade {
	g, err := svc.Create(context.Background(), grade.NewGrade{
		StudentID:    studentID,
		ClassID:      classID,
		AssignmentID: assignmentID,
		Score:        &score,
		MaxScore:     &maxScore,
	})
	if err != nil {
		t.Fatalf("CreateGrade() failed: %v", err)
	}
	return g
}

func MarkAttendance(t *testing.T, svc *attendance.Service, studentID, classID int, date string, status attendance.Status) attendance.Record {
	rec, err := svc.Mark(context.Background(), attendance.MarkAttendance{
		StudentID: studentID,
		ClassID:   classID,
		Date:      core.MustParseDate(date),
		Status:    status,
	})
	if err != nil {
		t.Fatalf("MarkAttendance() failed: %v", err)
	}
	return rec
}
