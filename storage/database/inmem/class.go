package inmemdb

import (
	"context"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/class"
)

type classRepository struct {
	db *table[class.Section]
}

var _ class.Repository = (*classRepository)(nil)

func NewClassRepository(db *DB) class.Repository {
	return &classRepository{db: db.class}
}

var classAccess = rowAccess[class.Section]{
	id:    func(s class.Section) int { return s.ID },
	setID: func(s *class.Section, id int) { s.ID = id },
}

func (repo *classRepository) QuerySections(ctx context.Context) ([]class.Section, error) {
	if err := checkCtx(ctx, "query classes"); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.query(nil), nil
}

func (repo *classRepository) GetSection(ctx context.Context, id int) (class.Section, error) {
	if err := checkCtx(ctx, "get class"); err != nil {
		return class.Section{}, err
	}
	return repo.db.get(id)
}

func (repo *classRepository) CreateSections(ctx context.Context, sections ...class.Section) ([]class.Section, core.BatchReport, error) {
	if err := checkCtx(ctx, "create classes"); err != nil {
		return nil, nil, err
	}
	created, report := repo.db.create(sections, classAccess)
	return created, report, nil
}

func (repo *classRepository) UpdateSections(ctx context.Context, sections ...class.Section) ([]class.Section, core.BatchReport, error) {
	if err := checkCtx(ctx, "update classes"); err != nil {
		return nil, nil, err
	}
	updated, report := repo.db.update(sections, classAccess)
	return updated, report, nil
}

func (repo *classRepository) DeleteSectionsByID(ctx context.Context, ids ...int) (core.BatchReport, error) {
	if err := checkCtx(ctx, "delete classes"); err != nil {
		return nil, err
	}
	return repo.db.deleteByID(ids), nil
}
