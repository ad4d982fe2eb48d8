package inmemdb

import (
	"context"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/grade"
)

type gradeRepository struct {
	db *table[grade.Grade]
}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db.grade}
}

var gradeAccess = rowAccess[grade.Grade]{
	id:    func(g grade.Grade) int { return g.ID },
	setID: func(g *grade.Grade, id int) { g.ID = id },
	check: func(g grade.Grade, _ []grade.Grade) error {
		switch {
		case g.StudentID <= 0:
			return required("student_id")
		case g.ClassID <= 0:
			return required("class_id")
		case g.AssignmentID <= 0:
			return required("assignment_id")
		}
		return nil
	},
}

func (repo *gradeRepository) QueryGrades(ctx context.Context, filter grade.QueryFilter) ([]grade.Grade, error) {
	if err := checkCtx(ctx, "query grades"); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.query(filter.Match), nil
}

func (repo *gradeRepository) GetGrade(ctx context.Context, id int) (grade.Grade, error) {
	if err := checkCtx(ctx, "get grade"); err != nil {
		return grade.Grade{}, err
	}
	return repo.db.get(id)
}

func (repo *gradeRepository) CreateGrades(ctx context.Context, grades ...grade.Grade) ([]grade.Grade, core.BatchReport, error) {
	if err := checkCtx(ctx, "create grades"); err != nil {
		return nil, nil, err
	}
	created, report := repo.db.create(grades, gradeAccess)
	return created, report, nil
}

func (repo *gradeRepository) UpdateGrades(ctx context.Context, grades ...grade.Grade) ([]grade.Grade, core.BatchReport, error) {
	if err := checkCtx(ctx, "update grades"); err != nil {
		return nil, nil, err
	}
	updated, report := repo.db.update(grades, gradeAccess)
	return updated, report, nil
}

func (repo *gradeRepository) DeleteGradesByID(ctx context.Context, ids ...int) (core.BatchReport, error) {
	if err := checkCtx(ctx, "delete grades"); err != nil {
		return nil, err
	}
	return repo.db.deleteByID(ids), nil
}
