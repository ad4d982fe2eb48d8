package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
)

const pqUniqueViolation = pq.ErrorCode("23505")

// table maps the rows R of a SQL table to the entities T of the core.
type table[T, R any] struct {
	name    string // also the entity name
	columns []string
	toRow   func(T) R
	fromRow func(R) T
	id      func(T) int
}

func (t table[T, R]) selectQuery() string {
	return "SELECT id, " + strings.Join(t.columns, ", ") + " FROM " + t.name
}

func (t table[T, R]) insertQuery() string {
	return "INSERT INTO " + t.name + " (" + strings.Join(t.columns, ", ") + ") VALUES (:" +
		strings.Join(t.columns, ", :") + ") RETURNING id, " + strings.Join(t.columns, ", ")
}

func (t table[T, R]) updateQuery() string {
	sets := make([]string, 0, len(t.columns))
	for _, col := range t.columns {
		sets = append(sets, col+" = :"+col)
	}
	return "UPDATE " + t.name + " SET " + strings.Join(sets, ", ") + " WHERE id = :id RETURNING id, " +
		strings.Join(t.columns, ", ")
}

// where holds the conditions of a query, ANDed.
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) add(cond string, arg interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, arg)
}

func (w where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func (t table[T, R]) query(ctx context.Context, db *sqlx.DB, w where) ([]T, error) {
	var rows []R
	q := db.Rebind(t.selectQuery() + w.String() + " ORDER BY id")
	if err := db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, core.NewStoreError("query "+t.name, err)
	}
	res := make([]T, 0, len(rows))
	for _, r := range rows {
		res = append(res, t.fromRow(r))
	}
	return res, nil
}

func (t table[T, R]) get(ctx context.Context, db *sqlx.DB, id int) (T, error) {
	var row R
	q := db.Rebind(t.selectQuery() + " WHERE id = ?")
	if err := db.GetContext(ctx, &row, q, id); err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, core.NewNotFoundError(t.name, id)
		}
		return zero, core.NewStoreError("get "+t.name, err)
	}
	return t.fromRow(row), nil
}

func (t table[T, R]) create(ctx context.Context, db *sqlx.DB, items []T) ([]T, core.BatchReport, error) {
	return t.write(ctx, db, "create "+t.name, t.insertQuery(), items, false)
}

func (t table[T, R]) update(ctx context.Context, db *sqlx.DB, items []T) ([]T, core.BatchReport, error) {
	return t.write(ctx, db, "update "+t.name, t.updateQuery(), items, true)
}

// write runs q once per item. Records rejected by a constraint fail alone; any other error fails the batch.
func (t table[T, R]) write(ctx context.Context, db *sqlx.DB, op, q string, items []T, update bool) ([]T, core.BatchReport, error) {
	written := make([]T, 0, len(items))
	report := make(core.BatchReport, 0, len(items))
	for i, item := range items {
		var id int
		if update {
			id = t.id(item)
		}

		row, err := namedGet[R](ctx, db, q, t.toRow(item))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				report = append(report, core.Fail(i, id, core.NewNotFoundError(t.name, id)))
				continue
			}
			if recErr := recordError(err); recErr != nil {
				report = append(report, core.Fail(i, id, recErr))
				continue
			}
			return nil, nil, core.NewStoreError(op, err)
		}

		item = t.fromRow(row)
		written = append(written, item)
		report = append(report, core.Succeed(i, t.id(item)))
	}
	return written, report, nil
}

func (t table[T, R]) deleteByID(ctx context.Context, db *sqlx.DB, ids []int) (core.BatchReport, error) {
	q := db.Rebind("DELETE FROM " + t.name + " WHERE id = ?")
	report := make(core.BatchReport, 0, len(ids))
	for i, id := range ids {
		res, err := db.ExecContext(ctx, q, id)
		if err != nil {
			if recErr := recordError(err); recErr != nil {
				report = append(report, core.Fail(i, id, recErr))
				continue
			}
			return nil, core.NewStoreError("delete "+t.name, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			report = append(report, core.Fail(i, id, core.NewNotFoundError(t.name, id)))
			continue
		}
		report = append(report, core.Succeed(i, id))
	}
	return report, nil
}

func namedGet[R any](ctx context.Context, db *sqlx.DB, q string, arg interface{}) (R, error) {
	var row R
	rows, err := db.NamedQueryContext(ctx, q, arg)
	if err != nil {
		return row, err
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return row, err
		}
		return row, sql.ErrNoRows
	}
	err = rows.StructScan(&row)
	return row, err
}

// recordError returns the error to report for the record written if err was caused by that record
// (integrity constraint or invalid data), nil otherwise. Duplicate keys are reported as core.ErrConflict.
func recordError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	if pqErr.Code == pqUniqueViolation {
		return errors.Wrap(core.ErrConflict, pqErr.Constraint)
	}
	switch pqErr.Code.Class() {
	case "22", "23": // data exception, integrity constraint violation
		return err
	}
	return nil
}

func nullDate(d core.Date) null.Time {
	return null.NewTime(d.Time(), !d.IsZero())
}

func dateOf(t null.Time) core.Date {
	if !t.Valid {
		return core.Date{}
	}
	return core.DateOf(t.Time)
}
