package inmemdb

import (
	"context"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/assignment"
)

type assignmentRepository struct {
	db *table[assignment.Assignment]
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db.assignment}
}

var assignmentAccess = rowAccess[assignment.Assignment]{
	id:    func(a assignment.Assignment) int { return a.ID },
	setID: func(a *assignment.Assignment, id int) { a.ID = id },
	check: func(a assignment.Assignment, _ []assignment.Assignment) error {
		if a.ClassID <= 0 {
			return required("class_id")
		}
		return nil
	},
}

func (repo *assignmentRepository) QueryAssignments(ctx context.Context, filter assignment.QueryFilter) ([]assignment.Assignment, error) {
	if err := checkCtx(ctx, "query assignments"); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.query(filter.Match), nil
}

func (repo *assignmentRepository) GetAssignment(ctx context.Context, id int) (assignment.Assignment, error) {
	if err := checkCtx(ctx, "get assignment"); err != nil {
		return assignment.Assignment{}, err
	}
	return repo.db.get(id)
}

func (repo *assignmentRepository) CreateAssignments(ctx context.Context, assignments ...assignment.Assignment) ([]assignment.Assignment, core.BatchReport, error) {
	if err := checkCtx(ctx, "create assignments"); err != nil {
		return nil, nil, err
	}
	created, report := repo.db.create(assignments, assignmentAccess)
	return created, report, nil
}

func (repo *assignmentRepository) UpdateAssignments(ctx context.Context, assignments ...assignment.Assignment) ([]assignment.Assignment, core.BatchReport, error) {
	if err := checkCtx(ctx, "update assignments"); err != nil {
		return nil, nil, err
	}
	updated, report := repo.db.update(assignments, assignmentAccess)
	return updated, report, nil
}

func (repo *assignmentRepository) DeleteAssignmentsByID(ctx context.Context, ids ...int) (core.BatchReport, error) {
	if err := checkCtx(ctx, "delete assignments"); err != nil {
		return nil, err
	}
	return repo.db.deleteByID(ids), nil
}
