package grade

import (
	"context"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

// Entity is the record store collection name of grades.
const Entity = "grade"

type (
	// Repository is the record store contract for grades.
	// Query and Get failures are *core.StoreError (or *core.NotFoundError); batch writes report per record.
	Repository interface {
		QueryGrades(ctx context.Context, filter QueryFilter) ([]Grade, error)
		GetGrade(ctx context.Context, id int) (Grade, error)
		CreateGrades(ctx context.Context, grades ...Grade) ([]Grade, core.BatchReport, error)
		UpdateGrades(ctx context.Context, grades ...Grade) ([]Grade, core.BatchReport, error)
		DeleteGradesByID(ctx context.Context, ids ...int) (core.BatchReport, error)
	}

	// Service is the only write path to grades: it keeps derived fields in sync with scores.
	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	vala.BeginValidation().Validate(core.IsNotNil(repo, "repo")).CheckAndPanic()
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ng NewGrade) (Grade, error) {
	grades, err := svc.CreateMany(ctx, []NewGrade{ng})
	if err != nil {
		return Grade{}, err
	}
	return grades[0], nil
}

// CreateMany records several grades at once.
// A partially failed batch returns a *core.PartialFailure, along with the created grades if core.AllowPartial is set.
func (svc *Service) CreateMany(ctx context.Context, ngs []NewGrade, opts ...core.BatchOption) ([]Grade, error) {
	grades := make([]Grade, 0, len(ngs))
	for _, ng := range ngs {
		g, err := ng.build()
		if err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}

	created, report, err := svc.repo.CreateGrades(ctx, grades...)
	if err != nil {
		return nil, errors.Wrap(err, "creating grades")
	}
	return batchResult(created, report.Err("create grade"), opts)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Grade, error) {
	grades, err := svc.repo.QueryGrades(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	return grades, nil
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID int) ([]Grade, error) {
	return svc.Query(ctx, QueryFilter{StudentID: studentID})
}

func (svc *Service) GetByID(ctx context.Context, id int) (Grade, error) {
	g, err := svc.repo.GetGrade(ctx, id)
	if err != nil {
		return Grade{}, errors.Wrap(err, "finding grade by ID")
	}
	return g, nil
}

// Update applies p to the grade identified by id, recomputing derived fields when the score changes.
func (svc *Service) Update(ctx context.Context, id int, p Patch) (Grade, error) {
	existing, err := svc.GetByID(ctx, id)
	if err != nil {
		return Grade{}, err
	}
	g, err := Apply(existing, p)
	if err != nil {
		return Grade{}, err
	}

	updated, report, err := svc.repo.UpdateGrades(ctx, g)
	if err != nil {
		return Grade{}, errors.Wrap(err, "updating grade")
	}
	if err = report.Err("update grade"); err != nil {
		return Grade{}, err
	}
	return updated[0], nil
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	report, err := svc.repo.DeleteGradesByID(ctx, ids...)
	if err != nil {
		return errors.Wrap(err, "deleting grades")
	}
	return report.Err("delete grade")
}

// StudentAverage returns the average percentage of all grades of a student (0 when none).
func (svc *Service) StudentAverage(ctx context.Context, studentID int) (float64, error) {
	grades, err := svc.QueryByStudent(ctx, studentID)
	if err != nil {
		return 0, err
	}
	return Average(grades), nil
}

// Recompute re-derives the percentage and letter grade of the stored grades matching filter and saves those
// that drifted. It returns the number of grades updated.
func (svc *Service) Recompute(ctx context.Context, filter QueryFilter) (int, error) {
	grades, err := svc.Query(ctx, filter)
	if err != nil {
		return 0, err
	}

	stale := make([]Grade, 0)
	for _, g := range grades {
		res, err := Derive(g.Score, g.MaxScore)
		if err != nil {
			return 0, errors.Wrapf(err, "deriving grade %d", g.ID)
		}
		if res.Percentage != g.Percentage || res.LetterGrade != g.LetterGrade {
			g.setResult(res)
			stale = append(stale, g)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	updated, report, err := svc.repo.UpdateGrades(ctx, stale...)
	if err != nil {
		return 0, errors.Wrap(err, "updating grades")
	}
	return len(updated), report.Err("update grade")
}

func batchResult(grades []Grade, err error, opts []core.BatchOption) ([]Grade, error) {
	if err == nil {
		return grades, nil
	}
	if core.PartialAllowed(opts) {
		return grades, err
	}
	return nil, err
}
