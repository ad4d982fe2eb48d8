package attendance_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/storage/database/inmem"
)

var errStoreDown = errors.New("connection refused")

// failingRepo fails every query with errStoreDown.
type failingRepo struct {
	attendance.Repository
}

func (failingRepo) QueryAttendance(context.Context, attendance.QueryFilter) ([]attendance.Record, error) {
	return nil, core.NewStoreError("query attendance", errStoreDown)
}

// racingRepo hides existing records from the first query, as if they were created right after it.
type racingRepo struct {
	attendance.Repository
	hidden bool
}

func (repo *racingRepo) QueryAttendance(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	if !repo.hidden {
		repo.hidden = true
		return nil, nil
	}
	return repo.Repository.QueryAttendance(ctx, filter)
}

func setup() (*attendance.Service, attendance.Repository) {
	repo := inmemdb.NewAttendanceRepository(inmemdb.Open())
	return attendance.NewService(repo, attendance.NewMutexLocker()), repo
}

func mark(studentID, classID int, date string, status attendance.Status, notes string) attendance.MarkAttendance {
	return attendance.MarkAttendance{
		StudentID: studentID,
		ClassID:   classID,
		Date:      core.MustParseDate(date),
		Status:    status,
		Notes:     notes,
	}
}

func TestService_Mark(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup()

	first, err := svc.Mark(ctx, mark(1, 2, "2024-01-05", attendance.StatusPresent, ""))
	require.NoError(t, err)
	assert.Equal(t, "Attendance for Student 1", first.Name)

	second, err := svc.Mark(ctx, mark(1, 2, "2024-01-05", attendance.StatusLate, "tardy"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	records, err := repo.QueryAttendance(ctx, attendance.QueryFilter{})
	require.NoError(t, err)
	if assert.Len(t, records, 1) {
		assert.Equal(t, attendance.StatusLate, records[0].Status)
		assert.Equal(t, "tardy", records[0].Notes)
	}

	// another day is another record
	_, err = svc.Mark(ctx, mark(1, 2, "2024-01-06", attendance.StatusAbsent, ""))
	require.NoError(t, err)
	records, err = repo.QueryAttendance(ctx, attendance.QueryFilter{StudentID: 1})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestService_Mark_today(t *testing.T) {
	core.NowFunc = func() time.Time { return time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC) }
	defer func() { core.NowFunc = time.Now }()

	svc, _ := setup()
	rec, err := svc.Mark(context.Background(), attendance.MarkAttendance{StudentID: 1, ClassID: 1, Status: attendance.StatusPresent})
	require.NoError(t, err)
	assert.Equal(t, core.NewDate(2024, 2, 29), rec.Date)
}

func TestNewService(t *testing.T) {
	assert.NotPanics(t, func() { attendance.NewService(failingRepo{}, attendance.NewMutexLocker()) })
	assert.Panics(t, func() { attendance.NewService(failingRepo{}, nil) })
}

func TestService_Mark_errors(t *testing.T) {
	ctx := context.Background()

	svc := attendance.NewService(failingRepo{}, attendance.NewMutexLocker())
	_, err := svc.Mark(ctx, mark(1, 2, "2024-01-05", attendance.StatusPresent, ""))
	assert.True(t, core.IsStore(err))
	assert.Contains(t, err.Error(), "connection refused")

	svc, _ = setup()
	_, err = svc.Mark(ctx, mark(1, 2, "2024-01-05", "tardy", ""))
	assert.True(t, core.IsValidation(err))
}

func TestService_Mark_conflict(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewAttendanceRepository(inmemdb.Open())

	existing, _, err := repo.CreateAttendance(ctx, attendance.Record{
		StudentID: 1, ClassID: 2, Date: core.MustParseDate("2024-01-05"), Status: attendance.StatusPresent,
	})
	require.NoError(t, err)

	svc := attendance.NewService(&racingRepo{Repository: repo}, attendance.NewMutexLocker())
	rec, err := svc.Mark(ctx, mark(1, 2, "2024-01-05", attendance.StatusExcused, "doctor"))
	require.NoError(t, err)
	assert.Equal(t, existing[0].ID, rec.ID)
	assert.Equal(t, attendance.StatusExcused, rec.Status)

	records, err := repo.QueryAttendance(ctx, attendance.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestService_Mark_concurrent(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Mark(ctx, mark(3, 4, "2024-03-01", attendance.StatusPresent, ""))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records, err := repo.QueryAttendance(ctx, attendance.QueryFilter{StudentID: 3})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestService_StudentRate(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup()

	rate, err := svc.StudentRate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(100), rate)

	for _, m := range []attendance.MarkAttendance{
		mark(1, 1, "2024-01-01", attendance.StatusPresent, ""),
		mark(1, 1, "2024-01-02", attendance.StatusAbsent, ""),
		mark(1, 2, "2024-01-02", attendance.StatusLate, ""),
		mark(2, 1, "2024-01-02", attendance.StatusAbsent, ""),
	} {
		_, err = svc.Mark(ctx, m)
		require.NoError(t, err)
	}

	rate, err = svc.StudentRate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 66.67, rate)

	rate, err = svc.StudentRate(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(50), rate)

	_, err = attendance.NewService(failingRepo{}, attendance.NewMutexLocker()).StudentRate(ctx, 1)
	assert.True(t, core.IsStore(err))
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup()

	rec, err := svc.Mark(ctx, mark(1, 1, "2024-01-01", attendance.StatusAbsent, "sick"))
	require.NoError(t, err)

	rec, err = svc.Update(ctx, rec.ID, attendance.UpdateRecord{Status: attendance.StatusExcused})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusExcused, rec.Status)
	assert.Equal(t, "sick", rec.Notes)

	_, err = svc.Update(ctx, 999, attendance.UpdateRecord{Status: attendance.StatusExcused})
	assert.True(t, core.IsNotFound(err))
}

func TestMutexLocker(t *testing.T) {
	locker := attendance.NewMutexLocker()

	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// other keys are not blocked
	unlockOther, err := locker.Lock(context.Background(), "other")
	require.NoError(t, err)
	unlockOther()

	unlock()
	unlock() // no-op
	unlock, err = locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	unlock()
}
