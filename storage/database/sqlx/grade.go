package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/grade"
)

type gradeRow struct {
	ID           int       `db:"id"`
	Name         string    `db:"name"`
	StudentID    int       `db:"student_id"`
	ClassID      int       `db:"class_id"`
	AssignmentID int       `db:"assignment_id"`
	Score        float64   `db:"score"`
	MaxScore     float64   `db:"max_score"`
	Percentage   int       `db:"percentage"`
	LetterGrade  string    `db:"letter_grade"`
	DateRecorded time.Time `db:"date_recorded"`
}

var gradeTable = table[grade.Grade, gradeRow]{
	name: grade.Entity,
	columns: []string{
		"name", "student_id", "class_id", "assignment_id", "score", "max_score", "percentage", "letter_grade",
		"date_recorded",
	},
	toRow: func(g grade.Grade) gradeRow {
		return gradeRow{
			ID:           g.ID,
			Name:         g.Name,
			StudentID:    g.StudentID,
			ClassID:      g.ClassID,
			AssignmentID: g.AssignmentID,
			Score:        g.Score,
			MaxScore:     g.MaxScore,
			Percentage:   g.Percentage,
			LetterGrade:  g.LetterGrade,
			DateRecorded: g.DateRecorded.Time(),
		}
	},
	fromRow: func(r gradeRow) grade.Grade {
		return grade.Grade{
			ID:           r.ID,
			Name:         r.Name,
			StudentID:    r.StudentID,
			ClassID:      r.ClassID,
			AssignmentID: r.AssignmentID,
			Score:        r.Score,
			MaxScore:     r.MaxScore,
			Percentage:   r.Percentage,
			LetterGrade:  r.LetterGrade,
			DateRecorded: core.DateOf(r.DateRecorded),
		}
	},
	id: func(g grade.Grade) int { return g.ID },
}

type gradeRepository struct {
	db *sqlx.DB
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *sqlx.DB) grade.Repository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) QueryGrades(ctx context.Context, filter grade.QueryFilter) ([]grade.Grade, error) {
	var w where
	if filter.StudentID != 0 {
		w.add("student_id = ?", filter.StudentID)
	}
	if filter.ClassID != 0 {
		w.add("class_id = ?", filter.ClassID)
	}
	if filter.AssignmentID != 0 {
		w.add("assignment_id = ?", filter.AssignmentID)
	}
	return gradeTable.query(ctx, repo.db, w)
}

func (repo *gradeRepository) GetGrade(ctx context.Context, id int) (grade.Grade, error) {
	return gradeTable.get(ctx, repo.db, id)
}

func (repo *gradeRepository) CreateGrades(ctx context.Context, grades ...grade.Grade) ([]grade.Grade, core.BatchReport, error) {
	return gradeTable.create(ctx, repo.db, grades)
}

func (repo *gradeRepository) UpdateGrades(ctx context.Context, grades ...grade.Grade) ([]grade.Grade, core.BatchReport, error) {
	return gradeTable.update(ctx, repo.db, grades)
}

func (repo *gradeRepository) DeleteGradesByID(ctx context.Context, ids ...int) (core.BatchReport, error) {
	return gradeTable.deleteByID(ctx, repo.db, ids)
}
