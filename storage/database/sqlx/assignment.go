package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/assignment"
)

type assignmentRow struct {
	ID          int       `db:"id"`
	Name        string    `db:"name"`
	ClassID     int       `db:"class_id"`
	Category    string    `db:"category"`
	Weight      int       `db:"weight"`
	DueDate     null.Time `db:"due_date"`
	TotalPoints int       `db:"total_points"`
}

var assignmentTable = table[assignment.Assignment, assignmentRow]{
	name:    assignment.Entity,
	columns: []string{"name", "class_id", "category", "weight", "due_date", "total_points"},
	toRow: func(a assignment.Assignment) assignmentRow {
		return assignmentRow{
			ID:          a.ID,
			Name:        a.Name,
			ClassID:     a.ClassID,
			Category:    a.Category,
			Weight:      a.Weight,
			DueDate:     nullDate(a.DueDate),
			TotalPoints: a.TotalPoints,
		}
	},
	fromRow: func(r assignmentRow) assignment.Assignment {
		return assignment.Assignment{
			ID:          r.ID,
			Name:        r.Name,
			ClassID:     r.ClassID,
			Category:    r.Category,
			Weight:      r.Weight,
			DueDate:     dateOf(r.DueDate),
			TotalPoints: r.TotalPoints,
		}
	},
	id: func(a assignment.Assignment) int { return a.ID },
}

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) QueryAssignments(ctx context.Context, filter assignment.QueryFilter) ([]assignment.Assignment, error) {
	var w where
	if filter.ClassID != 0 {
		w.add("class_id = ?", filter.ClassID)
	}
	return assignmentTable.query(ctx, repo.db, w)
}

func (repo *assignmentRepository) GetAssignment(ctx context.Context, id int) (assignment.Assignment, error) {
	return assignmentTable.get(ctx, repo.db, id)
}

func (repo *assignmentRepository) CreateAssignments(ctx context.Context, assignments ...assignment.Assignment) ([]assignment.Assignment, core.BatchReport, error) {
	return assignmentTable.create(ctx, repo.db, assignments)
}

func (repo *assignmentRepository) UpdateAssignments(ctx context.Context, assignments ...assignment.Assignment) ([]assignment.Assignment, core.BatchReport, error) {
	return assignmentTable.update(ctx, repo.db, assignments)
}

func (repo *assignmentRepository) DeleteAssignmentsByID(ctx context.Context, ids ...int) (core.BatchReport, error) {
	return assignmentTable.deleteByID(ctx, repo.db, ids)
}
