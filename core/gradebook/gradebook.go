// Package gradebook assembles the grades and attendance of a class section, one row per student.
package gradebook

import (
	"context"
	"sort"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/assignment"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/class"
	"github.com/trezcool/academia/core/grade"
	"github.com/trezcool/academia/core/student"
)

type Gradebook struct {
	Class       class.Section           `json:"class"`
	Assignments []assignment.Assignment `json:"assignments"`
	Rows        []Row                   `json:"rows"`
}

// Row holds the results of a student in the class.
type Row struct {
	Student        student.Student `json:"student"`
	Grades         map[int]int     `json:"grades"` // assignment ID -> latest percentage
	Average        float64         `json:"average"`
	AttendanceRate float64         `json:"attendance_rate"`
}

type Service struct {
	students    *student.Service
	classes     *class.Service
	assignments *assignment.Service
	grades      *grade.Service
	attendance  *attendance.Service
}

func NewService(
	students *student.Service,
	classes *class.Service,
	assignments *assignment.Service,
	grades *grade.Service,
	attendance *attendance.Service,
) *Service {
	vala.BeginValidation().Validate(
		core.IsNotNil(students, "students"),
		core.IsNotNil(classes, "classes"),
		core.IsNotNil(assignments, "assignments"),
		core.IsNotNil(grades, "grades"),
		core.IsNotNil(attendance, "attendance"),
	).CheckAndPanic()
	return &Service{
		students:    students,
		classes:     classes,
		assignments: assignments,
		grades:      grades,
		attendance:  attendance,
	}
}

// Build returns the gradebook of a class. Students appear if they have a grade or an attendance record
// in the class, ordered by last name then first name.
func (svc *Service) Build(ctx context.Context, classID int) (Gradebook, error) {
	sec, err := svc.classes.GetByID(ctx, classID)
	if err != nil {
		return Gradebook{}, err
	}
	assignments, err := svc.assignments.QueryByClass(ctx, classID)
	if err != nil {
		return Gradebook{}, err
	}
	grades, err := svc.grades.Query(ctx, grade.QueryFilter{ClassID: classID})
	if err != nil {
		return Gradebook{}, err
	}
	records, err := svc.attendance.Query(ctx, attendance.QueryFilter{ClassID: classID})
	if err != nil {
		return Gradebook{}, err
	}

	gradesByStudent := make(map[int][]grade.Grade)
	for _, g := range grades {
		gradesByStudent[g.StudentID] = append(gradesByStudent[g.StudentID], g)
	}
	recordsByStudent := make(map[int][]attendance.Record)
	for _, r := range records {
		recordsByStudent[r.StudentID] = append(recordsByStudent[r.StudentID], r)
	}

	ids := make(map[int]struct{}, len(gradesByStudent))
	for id := range gradesByStudent {
		ids[id] = struct{}{}
	}
	for id := range recordsByStudent {
		ids[id] = struct{}{}
	}

	rows := make([]Row, 0, len(ids))
	for id := range ids {
		s, err := svc.students.GetByID(ctx, id)
		if err != nil {
			return Gradebook{}, errors.Wrapf(err, "building gradebook of class %d", classID)
		}
		rows = append(rows, newRow(s, gradesByStudent[id], recordsByStudent[id]))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Student, rows[j].Student
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.ID < b.ID
	})

	return Gradebook{Class: sec, Assignments: assignments, Rows: rows}, nil
}

func newRow(s student.Student, grades []grade.Grade, records []attendance.Record) Row {
	row := Row{
		Student:        s,
		Grades:         make(map[int]int, len(grades)),
		Average:        grade.Average(grades),
		AttendanceRate: attendance.Rate(records),
	}
	// grades are ordered by ID: the latest grade of an assignment wins
	for _, g := range grades {
		row.Grades[g.AssignmentID] = g.Percentage
	}
	return row
}
