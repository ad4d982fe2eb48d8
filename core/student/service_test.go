package student_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/storage/database/inmem"
)

type averagesMock map[int]float64

func (m averagesMock) StudentAverage(_ context.Context, studentID int) (float64, error) {
	if avg, ok := m[studentID]; ok {
		return avg, nil
	}
	return 0, core.NewStoreError("query grades", errors.New("connection refused"))
}

func setup(averages averagesMock) *student.Service {
	return student.NewService(inmemdb.NewStudentRepository(inmemdb.Open()), averages)
}

func newStudent(first, last string, lvl int, status student.Status) student.NewStudent {
	return student.NewStudent{
		FirstName:  first,
		LastName:   last,
		Email:      first + "@school.test",
		GradeLevel: lvl,
		Status:     status,
	}
}

func TestService_Create(t *testing.T) {
	core.NowFunc = func() time.Time { return time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC) }
	defer func() { core.NowFunc = time.Now }()

	svc := setup(averagesMock{})
	s, err := svc.Create(context.Background(), newStudent("ada", "Lovelace", 11, ""))
	require.NoError(t, err)
	assert.NotZero(t, s.ID)
	assert.Equal(t, "ada Lovelace", s.Name)
	assert.Equal(t, student.StatusActive, s.Status)
	assert.Equal(t, core.NewDate(2024, 9, 2), s.EnrollmentDate)
}

func TestService_CheckUniqueness(t *testing.T) {
	ctx := context.Background()
	svc := setup(averagesMock{})

	s, err := svc.Create(ctx, newStudent("ada", "Lovelace", 11, ""))
	require.NoError(t, err)

	assert.NoError(t, svc.CheckUniqueness(ctx, "grace@school.test"))
	assert.NoError(t, svc.CheckUniqueness(ctx, "ada@school.test", s.ID))
	assert.True(t, core.IsValidation(svc.CheckUniqueness(ctx, " ADA@school.test")))
}

func TestService_Roster(t *testing.T) {
	ctx := context.Background()
	svc := setup(averagesMock{})

	_, err := svc.CreateMany(ctx, []student.NewStudent{
		newStudent("ada", "Lovelace", 11, student.StatusActive),
		newStudent("grace", "Hopper", 12, student.StatusGraduated),
		newStudent("alan", "Turing", 11, student.StatusInactive),
		newStudent("edsger", "Dijkstra", 11, student.StatusActive),
	})
	require.NoError(t, err)

	all, err := svc.Roster(ctx, student.RosterFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	got, err := svc.Roster(ctx, student.RosterFilter{Query: "A", Status: student.StatusActive, GradeLevel: 11})
	require.NoError(t, err)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "ada", got[0].FirstName)
		assert.Equal(t, "edsger", got[1].FirstName)
	}
}

func TestService_GetWithAverage(t *testing.T) {
	ctx := context.Background()
	svc := setup(averagesMock{1: 82.5})

	s, err := svc.Create(ctx, newStudent("ada", "Lovelace", 11, ""))
	require.NoError(t, err)
	require.Equal(t, 1, s.ID)

	s, err = svc.GetWithAverage(ctx, s.ID)
	require.NoError(t, err)
	if assert.NotNil(t, s.Average) {
		assert.Equal(t, 82.5, *s.Average)
	}

	other, err := svc.Create(ctx, newStudent("grace", "Hopper", 12, ""))
	require.NoError(t, err)
	_, err = svc.GetWithAverage(ctx, other.ID)
	assert.True(t, core.IsStore(err))

	_, err = svc.GetWithAverage(ctx, 999)
	assert.True(t, core.IsNotFound(err))
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := setup(averagesMock{})

	s, err := svc.Create(ctx, newStudent("ada", "Lovelace", 11, ""))
	require.NoError(t, err)

	phone := "555-0100"
	s, err = svc.Update(ctx, s.ID, student.UpdateStudent{LastName: "King", Phone: &phone, Status: student.StatusGraduated})
	require.NoError(t, err)
	assert.Equal(t, "ada King", s.Name)
	assert.Equal(t, "ada@school.test", s.Email)
	assert.Equal(t, "555-0100", s.Phone)
	assert.Equal(t, 11, s.GradeLevel)
	assert.Equal(t, student.StatusGraduated, s.Status)

	require.NoError(t, svc.Delete(ctx, s.ID))
	_, err = svc.GetByID(ctx, s.ID)
	assert.True(t, core.IsNotFound(err))
}
