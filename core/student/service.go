package student

import (
	"context"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

// Entity is the record store collection name of students.
const Entity = "student"

var ErrEmailExists = errors.New("a student with this email already exists")

type (
	Repository interface {
		QueryStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		GetStudent(ctx context.Context, id int) (Student, error)
		CreateStudents(ctx context.Context, students ...Student) ([]Student, core.BatchReport, error)
		UpdateStudents(ctx context.Context, students ...Student) ([]Student, core.BatchReport, error)
		DeleteStudentsByID(ctx context.Context, ids ...int) (core.BatchReport, error)
	}

	// AverageSource computes the average grade percentage of a student.
	AverageSource interface {
		StudentAverage(ctx context.Context, studentID int) (float64, error)
	}

	Service struct {
		repo     Repository
		averages AverageSource
	}
)

func NewService(repo Repository, averages AverageSource) *Service {
	vala.BeginValidation().Validate(
		core.IsNotNil(repo, "repo"),
		core.IsNotNil(averages, "averages"),
	).CheckAndPanic()
	return &Service{repo: repo, averages: averages}
}

// CheckUniqueness fails with a *core.ValidationError if email is used by a student other than exclID.
func (svc *Service) CheckUniqueness(ctx context.Context, email string, exclID ...int) error {
	students, err := svc.repo.QueryStudents(ctx, QueryFilter{Email: core.CleanString(email, true /* lower */)})
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	for _, s := range students {
		if len(exclID) == 0 || s.ID != exclID[0] {
			return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	students, err := svc.CreateMany(ctx, []NewStudent{ns})
	if err != nil {
		return Student{}, err
	}
	return students[0], nil
}

// CreateMany enrolls several students at once; see core.AllowPartial for partially failed batches.
func (svc *Service) CreateMany(ctx context.Context, nss []NewStudent, opts ...core.BatchOption) ([]Student, error) {
	students := make([]Student, 0, len(nss))
	for _, ns := range nss {
		students = append(students, ns.build())
	}

	created, report, err := svc.repo.CreateStudents(ctx, students...)
	if err != nil {
		return nil, errors.Wrap(err, "creating students")
	}
	if err = report.Err("create student"); err != nil {
		if core.PartialAllowed(opts) {
			return created, err
		}
		return nil, err
	}
	return created, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Student, error) {
	students, err := svc.repo.QueryStudents(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.Query(ctx, QueryFilter{})
}

// Roster returns the students matching f. Status and grade level are filtered by the record store.
func (svc *Service) Roster(ctx context.Context, f RosterFilter) ([]Student, error) {
	students, err := svc.Query(ctx, QueryFilter{Status: f.Status, GradeLevel: f.GradeLevel})
	if err != nil {
		return nil, err
	}
	return Filter(students, f), nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Student, error) {
	s, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		return Student{}, errors.Wrap(err, "finding student by ID")
	}
	return s, nil
}

// GetWithAverage returns the student identified by id along with its average grade percentage.
func (svc *Service) GetWithAverage(ctx context.Context, id int) (Student, error) {
	s, err := svc.GetByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	avg, err := svc.averages.StudentAverage(ctx, id)
	if err != nil {
		return Student{}, errors.Wrap(err, "computing student average")
	}
	s.Average = &avg
	return s, nil
}

func (svc *Service) Update(ctx context.Context, id int, us UpdateStudent) (Student, error) {
	orig, err := svc.GetByID(ctx, id)
	if err != nil {
		return Student{}, err
	}

	updated, report, err := svc.repo.UpdateStudents(ctx, us.apply(orig))
	if err != nil {
		return Student{}, errors.Wrap(err, "updating student")
	}
	if err = report.Err("update student"); err != nil {
		return Student{}, err
	}
	return updated[0], nil
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	report, err := svc.repo.DeleteStudentsByID(ctx, ids...)
	if err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return report.Err("delete student")
}
