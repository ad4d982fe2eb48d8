package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
)

type attendanceRow struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	StudentID int       `db:"student_id"`
	ClassID   int       `db:"class_id"`
	Date      time.Time `db:"date"`
	Status    string    `db:"status"`
	Notes     string    `db:"notes"`
}

// attendanceTable is backed by the unique index attendance_key_idx on (student_id, class_id, date).
var attendanceTable = table[attendance.Record, attendanceRow]{
	name:    attendance.Entity,
	columns: []string{"name", "student_id", "class_id", "date", "status", "notes"},
	toRow: func(r attendance.Record) attendanceRow {
		return attendanceRow{
			ID:        r.ID,
			Name:      r.Name,
			StudentID: r.StudentID,
			ClassID:   r.ClassID,
			Date:      r.Date.Time(),
			Status:    string(r.Status),
			Notes:     r.Notes,
		}
	},
	fromRow: func(r attendanceRow) attendance.Record {
		return attendance.Record{
			ID:        r.ID,
			Name:      r.Name,
			StudentID: r.StudentID,
			ClassID:   r.ClassID,
			Date:      core.DateOf(r.Date),
			Status:    attendance.Status(r.Status),
			Notes:     r.Notes,
		}
	},
	id: func(r attendance.Record) int { return r.ID },
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) QueryAttendance(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	var w where
	if filter.StudentID != 0 {
		w.add("student_id = ?", filter.StudentID)
	}
	if filter.ClassID != 0 {
		w.add("class_id = ?", filter.ClassID)
	}
	if !filter.Date.IsZero() {
		w.add("date = ?", filter.Date.String())
	}
	if filter.Status != "" {
		w.add("status = ?", string(filter.Status))
	}
	return attendanceTable.query(ctx, repo.db, w)
}

func (repo *attendanceRepository) GetAttendance(ctx context.Context, id int) (attendance.Record, error) {
	return attendanceTable.get(ctx, repo.db, id)
}

func (repo *attendanceRepository) CreateAttendance(ctx context.Context, records ...attendance.Record) ([]attendance.Record, core.BatchReport, error) {
	return attendanceTable.create(ctx, repo.db, records)
}

func (repo *attendanceRepository) UpdateAttendance(ctx context.Context, records ...attendance.Record) ([]attendance.Record, core.BatchReport, error) {
	return attendanceTable.update(ctx, repo.db, records)
}

func (repo *attendanceRepository) DeleteAttendanceByID(ctx context.Context, ids ...int) (core.BatchReport, error) {
	return attendanceTable.deleteByID(ctx, repo.db, ids)
}
