package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/class"
)

type classRow struct {
	ID       int    `db:"id"`
	Name     string `db:"name"`
	Subject  string `db:"subject"`
	Period   string `db:"period"`
	Room     string `db:"room"`
	Year     int    `db:"year"`
	Semester string `db:"semester"`
}

var classTable = table[class.Section, classRow]{
	name:    class.Entity,
	columns: []string{"name", "subject", "period", "room", "year", "semester"},
	toRow: func(s class.Section) classRow {
		return classRow(s)
	},
	fromRow: func(r classRow) class.Section {
		return class.Section(r)
	},
	id: func(s class.Section) int { return s.ID },
}

type classRepository struct {
	db *sqlx.DB
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *sqlx.DB) class.Repository {
	return &classRepository{db: db}
}

func (repo *classRepository) QuerySections(ctx context.Context) ([]class.Section, error) {
	return classTable.query(ctx, repo.db, where{})
}

func (repo *classRepository) GetSection(ctx context.Context, id int) (class.Section, error) {
	return classTable.get(ctx, repo.db, id)
}

func (repo *classRepository) CreateSections(ctx context.Context, sections ...class.Section) ([]class.Section, core.BatchReport, error) {
	return classTable.create(ctx, repo.db, sections)
}

func (repo *classRepository) UpdateSections(ctx context.Context, sections ...class.Section) ([]class.Section, core.BatchReport, error) {
	return classTable.update(ctx, repo.db, sections)
}

func (repo *classRepository) DeleteSectionsByID(ctx context.Context, ids ...int) (core.BatchReport, error) {
	return classTable.deleteByID(ctx, repo.db, ids)
}
