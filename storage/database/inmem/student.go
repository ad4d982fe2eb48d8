package inmemdb

import (
	"context"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
)

type studentRepository struct {
	db *table[student.Student]
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

var studentAccess = rowAccess[student.Student]{
	id: func(s student.Student) int { return s.ID },
	setID: func(s *student.Student, id int) {
		s.ID = id
		s.Average = nil
	},
	check: func(s student.Student, others []student.Student) error {
		if s.Email == "" {
			return required("email")
		}
		for _, other := range others {
			if other.Email == s.Email {
				return core.ErrConflict
			}
		}
		return nil
	},
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	if err := checkCtx(ctx, "query students"); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.query(filter.Match), nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id int) (student.Student, error) {
	if err := checkCtx(ctx, "get student"); err != nil {
		return student.Student{}, err
	}
	return repo.db.get(id)
}

func (repo *studentRepository) CreateStudents(ctx context.Context, students ...student.Student) ([]student.Student, core.BatchReport, error) {
	if err := checkCtx(ctx, "create students"); err != nil {
		return nil, nil, err
	}
	created, report := repo.db.create(students, studentAccess)
	return created, report, nil
}

func (repo *studentRepository) UpdateStudents(ctx context.Context, students ...student.Student) ([]student.Student, core.BatchReport, error) {
	if err := checkCtx(ctx, "update students"); err != nil {
		return nil, nil, err
	}
	updated, report := repo.db.update(students, studentAccess)
	return updated, report, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...int) (core.BatchReport, error) {
	if err := checkCtx(ctx, "delete students"); err != nil {
		return nil, err
	}
	return repo.db.deleteByID(ids), nil
}
