package attendance

import (
	"context"
	"sort"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

// Entity is the record store collection name of attendance records.
const Entity = "attendance"

var errInvalidStatus = errors.New("invalid attendance status")

type (
	// Repository is the record store contract for attendance records.
	// Stores enforcing the uniqueness of keys report a duplicate as a failed record whose Err is core.ErrConflict.
	Repository interface {
		QueryAttendance(ctx context.Context, filter QueryFilter) ([]Record, error)
		GetAttendance(ctx context.Context, id int) (Record, error)
		CreateAttendance(ctx context.Context, records ...Record) ([]Record, core.BatchReport, error)
		UpdateAttendance(ctx context.Context, records ...Record) ([]Record, core.BatchReport, error)
		DeleteAttendanceByID(ctx context.Context, ids ...int) (core.BatchReport, error)
	}

	Service struct {
		repo   Repository
		locker KeyLocker
	}
)

func NewService(repo Repository, locker KeyLocker) *Service {
	vala.BeginValidation().Validate(
		core.IsNotNil(repo, "repo"),
		core.IsNotNil(locker, "locker"),
	).CheckAndPanic()
	return &Service{repo: repo, locker: locker}
}

// Mark records the attendance of a student for a class on a day, or updates the status and notes of the
// existing record of that key. Marking twice leaves one record reflecting the latest call.
func (svc *Service) Mark(ctx context.Context, ma MarkAttendance) (Record, error) {
	if !ma.Status.Valid() {
		return Record{}, core.NewValidationError(errInvalidStatus, core.FieldError{Field: "status", Error: statusText})
	}
	key := ma.Key()

	unlock, err := svc.locker.Lock(ctx, key.String())
	if err != nil {
		return Record{}, errors.Wrapf(err, "locking %s", key)
	}
	defer unlock()

	existing, found, err := svc.lookup(ctx, key)
	if err != nil {
		return Record{}, err
	}
	if found {
		return svc.save(ctx, existing, ma.Status, ma.Notes)
	}

	created, report, err := svc.repo.CreateAttendance(ctx, ma.record())
	if err != nil {
		return Record{}, errors.Wrap(err, "creating attendance")
	}
	if len(report) > 0 && errors.Is(report[0].Err, core.ErrConflict) {
		// written concurrently by another process
		existing, found, err = svc.lookup(ctx, key)
		if err != nil {
			return Record{}, err
		}
		if found {
			return svc.save(ctx, existing, ma.Status, ma.Notes)
		}
	}
	if err = report.Err("create attendance"); err != nil {
		return Record{}, err
	}
	return created[0], nil
}

// lookup returns the record of key, if any.
func (svc *Service) lookup(ctx context.Context, key Key) (Record, bool, error) {
	records, err := svc.repo.QueryAttendance(ctx, KeyFilter(key))
	if err != nil {
		return Record{}, false, errors.Wrap(err, "looking up attendance")
	}
	if len(records) == 0 {
		return Record{}, false, nil
	}
	// duplicates predating the unique index: the oldest record wins
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records[0], true, nil
}

func (svc *Service) save(ctx context.Context, rec Record, status Status, notes string) (Record, error) {
	rec.Status = status
	rec.Notes = notes
	updated, report, err := svc.repo.UpdateAttendance(ctx, rec)
	if err != nil {
		return Record{}, errors.Wrap(err, "updating attendance")
	}
	if err = report.Err("update attendance"); err != nil {
		return Record{}, err
	}
	return updated[0], nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Record, error) {
	records, err := svc.repo.QueryAttendance(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	return records, nil
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID int) ([]Record, error) {
	return svc.Query(ctx, QueryFilter{StudentID: studentID})
}

func (svc *Service) GetByID(ctx context.Context, id int) (Record, error) {
	rec, err := svc.repo.GetAttendance(ctx, id)
	if err != nil {
		return Record{}, errors.Wrap(err, "finding attendance by ID")
	}
	return rec, nil
}

// Update changes the status (and optionally the notes) of an existing record.
func (svc *Service) Update(ctx context.Context, id int, ur UpdateRecord) (Record, error) {
	if !ur.Status.Valid() {
		return Record{}, core.NewValidationError(errInvalidStatus, core.FieldError{Field: "status", Error: statusText})
	}
	rec, err := svc.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	notes := rec.Notes
	if ur.Notes != nil {
		notes = *ur.Notes
	}
	return svc.save(ctx, rec, ur.Status, notes)
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	report, err := svc.repo.DeleteAttendanceByID(ctx, ids...)
	if err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return report.Err("delete attendance")
}

// StudentRate returns the attendance rate of a student, optionally restricted to a class.
func (svc *Service) StudentRate(ctx context.Context, studentID int, classID ...int) (float64, error) {
	records, err := svc.QueryByStudent(ctx, studentID)
	if err != nil {
		return 0, err
	}
	return Rate(records, classID...), nil
}
