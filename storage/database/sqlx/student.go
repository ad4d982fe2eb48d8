package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
)

type studentRow struct {
	ID             int       `db:"id"`
	Name           string    `db:"name"`
	FirstName      string    `db:"first_name"`
	LastName       string    `db:"last_name"`
	Email          string    `db:"email"`
	Phone          string    `db:"phone"`
	GradeLevel     int       `db:"grade_level"`
	DateOfBirth    null.Time `db:"date_of_birth"`
	EnrollmentDate time.Time `db:"enrollment_date"`
	Status         string    `db:"status"`
}

var studentTable = table[student.Student, studentRow]{
	name: student.Entity,
	columns: []string{
		"name", "first_name", "last_name", "email", "phone", "grade_level", "date_of_birth", "enrollment_date", "status",
	},
	toRow: func(s student.Student) studentRow {
		return studentRow{
			ID:             s.ID,
			Name:           s.Name,
			FirstName:      s.FirstName,
			LastName:       s.LastName,
			Email:          s.Email,
			Phone:          s.Phone,
			GradeLevel:     s.GradeLevel,
			DateOfBirth:    nullDate(s.DateOfBirth),
			EnrollmentDate: s.EnrollmentDate.Time(),
			Status:         string(s.Status),
		}
	},
	fromRow: func(r studentRow) student.Student {
		return student.Student{
			ID:             r.ID,
			Name:           r.Name,
			FirstName:      r.FirstName,
			LastName:       r.LastName,
			Email:          r.Email,
			Phone:          r.Phone,
			GradeLevel:     r.GradeLevel,
			DateOfBirth:    dateOf(r.DateOfBirth),
			EnrollmentDate: core.DateOf(r.EnrollmentDate),
			Status:         student.Status(r.Status),
		}
	},
	id: func(s student.Student) int { return s.ID },
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	var w where
	if filter.Status != "" {
		w.add("status = ?", string(filter.Status))
	}
	if filter.GradeLevel != 0 {
		w.add("grade_level = ?", filter.GradeLevel)
	}
	if filter.Email != "" {
		w.add("email = ?", filter.Email)
	}
	return studentTable.query(ctx, repo.db, w)
}

func (repo *studentRepository) GetStudent(ctx context.Context, id int) (student.Student, error) {
	return studentTable.get(ctx, repo.db, id)
}

func (repo *studentRepository) CreateStudents(ctx context.Context, students ...student.Student) ([]student.Student, core.BatchReport, error) {
	return studentTable.create(ctx, repo.db, students)
}

func (repo *studentRepository) UpdateStudents(ctx context.Context, students ...student.Student) ([]student.Student, core.BatchReport, error) {
	return studentTable.update(ctx, repo.db, students)
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...int) (core.BatchReport, error) {
	return studentTable.deleteByID(ctx, repo.db, ids)
}
