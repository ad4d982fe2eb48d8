package inmemdb

import (
	"context"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
)

type attendanceRepository struct {
	db *table[attendance.Record]
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

// attendanceAccess enforces the uniqueness of (student_id, class_id, date).
var attendanceAccess = rowAccess[attendance.Record]{
	id:    func(r attendance.Record) int { return r.ID },
	setID: func(r *attendance.Record, id int) { r.ID = id },
	check: func(r attendance.Record, others []attendance.Record) error {
		switch {
		case r.StudentID <= 0:
			return required("student_id")
		case r.ClassID <= 0:
			return required("class_id")
		case r.Date.IsZero():
			return required("date")
		}
		for _, other := range others {
			if other.Key().Equal(r.Key()) {
				return core.ErrConflict
			}
		}
		return nil
	},
}

func (repo *attendanceRepository) QueryAttendance(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	if err := checkCtx(ctx, "query attendance"); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.query(filter.Match), nil
}

func (repo *attendanceRepository) GetAttendance(ctx context.Context, id int) (attendance.Record, error) {
	if err := checkCtx(ctx, "get attendance"); err != nil {
		return attendance.Record{}, err
	}
	return repo.db.get(id)
}

func (repo *attendanceRepository) CreateAttendance(ctx context.Context, records ...attendance.Record) ([]attendance.Record, core.BatchReport, error) {
	if err := checkCtx(ctx, "create attendance"); err != nil {
		return nil, nil, err
	}
	created, report := repo.db.create(records, attendanceAccess)
	return created, report, nil
}

func (repo *attendanceRepository) UpdateAttendance(ctx context.Context, records ...attendance.Record) ([]attendance.Record, core.BatchReport, error) {
	if err := checkCtx(ctx, "update attendance"); err != nil {
		return nil, nil, err
	}
	updated, report := repo.db.update(records, attendanceAccess)
	return updated, report, nil
}

func (repo *attendanceRepository) DeleteAttendanceByID(ctx context.Context, ids ...int) (core.BatchReport, error) {
	if err := checkCtx(ctx, "delete attendance"); err != nil {
		return nil, err
	}
	return repo.db.deleteByID(ids), nil
}
