package inmemdb

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/assignment"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/class"
	"github.com/trezcool/academia/core/grade"
	"github.com/trezcool/academia/core/student"
)

var errRequired = errors.New("violates not-null constraint")

type (
	// DB is an in-memory record store, safe for concurrent use.
	DB struct {
		student    *table[student.Student]
		class      *table[class.Section]
		assignment *table[assignment.Assignment]
		grade      *table[grade.Grade]
		attendance *table[attendance.Record]
	}

	table[T any] struct {
		sync.RWMutex
		entity  string
		rows    map[int]T
		pkCount int
	}
)

func Open() *DB {
	return &DB{
		student:    newTable[student.Student](student.Entity),
		class:      newTable[class.Section](class.Entity),
		assignment: newTable[assignment.Assignment](assignment.Entity),
		grade:      newTable[grade.Grade](grade.Entity),
		attendance: newTable[attendance.Record](attendance.Entity),
	}
}

func newTable[T any](entity string) *table[T] {
	return &table[T]{entity: entity, rows: make(map[int]T)}
}

// query returns the rows matching match (all rows if nil), ordered by ID. Callers must hold the lock.
func (t *table[T]) query(match func(T) bool) []T {
	ids := make([]int, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	res := make([]T, 0, len(ids))
	for _, id := range ids {
		if row := t.rows[id]; match == nil || match(row) {
			res = append(res, row)
		}
	}
	return res
}

func (t *table[T]) get(id int) (T, error) {
	t.RLock()
	defer t.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return row, core.NewNotFoundError(t.entity, id)
	}
	return row, nil
}

// rowAccess describes how a table reads & writes the primary key of its rows,
// and which rows it accepts (check returns the reason a row is rejected).
type rowAccess[T any] struct {
	id    func(T) int
	setID func(*T, int)
	check func(row T, others []T) error
}

// create stores each accepted row under a new ID.
func (t *table[T]) create(rows []T, acc rowAccess[T]) ([]T, core.BatchReport) {
	t.Lock()
	defer t.Unlock()

	created := make([]T, 0, len(rows))
	report := make(core.BatchReport, 0, len(rows))
	for i, row := range rows {
		if acc.check != nil {
			if err := acc.check(row, t.query(nil)); err != nil {
				report = append(report, core.Fail(i, 0, err))
				continue
			}
		}
		t.pkCount++
		acc.setID(&row, t.pkCount)
		t.rows[t.pkCount] = row
		created = append(created, row)
		report = append(report, core.Succeed(i, t.pkCount))
	}
	return created, report
}

// update replaces each accepted row with the same ID.
func (t *table[T]) update(rows []T, acc rowAccess[T]) ([]T, core.BatchReport) {
	t.Lock()
	defer t.Unlock()

	updated := make([]T, 0, len(rows))
	report := make(core.BatchReport, 0, len(rows))
	for i, row := range rows {
		id := acc.id(row)
		if _, ok := t.rows[id]; !ok {
			report = append(report, core.Fail(i, id, core.NewNotFoundError(t.entity, id)))
			continue
		}
		if acc.check != nil {
			others := t.query(func(other T) bool { return acc.id(other) != id })
			if err := acc.check(row, others); err != nil {
				report = append(report, core.Fail(i, id, err))
				continue
			}
		}
		t.rows[id] = row
		updated = append(updated, row)
		report = append(report, core.Succeed(i, id))
	}
	return updated, report
}

func (t *table[T]) deleteByID(ids []int) core.BatchReport {
	t.Lock()
	defer t.Unlock()

	report := make(core.BatchReport, 0, len(ids))
	for i, id := range ids {
		if _, ok := t.rows[id]; !ok {
			report = append(report, core.Fail(i, id, core.NewNotFoundError(t.entity, id)))
			continue
		}
		delete(t.rows, id)
		report = append(report, core.Succeed(i, id))
	}
	return report
}

// checkCtx fails like a remote store would once ctx is done.
func checkCtx(ctx context.Context, op string) error {
	return core.NewStoreError(op, ctx.Err())
}

func required(field string) error {
	return errors.Wrap(errRequired, field)
}
