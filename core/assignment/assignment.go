package assignment

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

// Entity is the record store collection name of assignments.
const Entity = "assignment"

// Categories
const (
	CategoryHomework = "homework"
	CategoryQuiz     = "quiz"
	CategoryTest     = "test"
	CategoryProject  = "project"
)

type Assignment struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	ClassID     int       `json:"class_id"`
	Category    string    `json:"category"`
	Weight      int       `json:"weight"`
	DueDate     core.Date `json:"due_date"`
	TotalPoints int       `json:"total_points"`
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Name        string    `json:"name" validate:"required"`
	ClassID     int       `json:"class_id" validate:"required,gt=0"`
	Category    string    `json:"category" validate:"omitempty,oneof=homework quiz test project"`
	Weight      int       `json:"weight" validate:"gte=0,lte=100"`
	DueDate     core.Date `json:"due_date"`
	TotalPoints int       `json:"total_points" validate:"required,gt=0"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Name = core.CleanString(na.Name)
	na.Category = core.CleanString(na.Category, true /* lower */)
	return validate.Struct(na)
}

// UpdateAssignment defines what information may be provided to modify an existing Assignment.
// Zero fields keep their current value; an assignment cannot be moved to another class.
type UpdateAssignment struct {
	Name        string    `json:"name"`
	Category    string    `json:"category" validate:"omitempty,oneof=homework quiz test project"`
	Weight      *int      `json:"weight" validate:"omitempty,gte=0,lte=100"`
	DueDate     core.Date `json:"due_date"`
	TotalPoints int       `json:"total_points" validate:"omitempty,gt=0"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	ua.Name = core.CleanString(ua.Name)
	ua.Category = core.CleanString(ua.Category, true /* lower */)
	return validate.Struct(ua)
}

func (ua UpdateAssignment) apply(orig Assignment) Assignment {
	a := orig
	if ua.Name != "" {
		a.Name = ua.Name
	}
	if ua.Category != "" {
		a.Category = ua.Category
	}
	if ua.Weight != nil {
		a.Weight = *ua.Weight
	}
	if !ua.DueDate.IsZero() {
		a.DueDate = ua.DueDate
	}
	if ua.TotalPoints != 0 {
		a.TotalPoints = ua.TotalPoints
	}
	return a
}

type QueryFilter struct {
	ClassID int `query:"class_id"`
}

func (qf QueryFilter) Match(a Assignment) bool {
	return qf.ClassID == 0 || a.ClassID == qf.ClassID
}

type (
	Repository interface {
		QueryAssignments(ctx context.Context, filter QueryFilter) ([]Assignment, error)
		GetAssignment(ctx context.Context, id int) (Assignment, error)
		CreateAssignments(ctx context.Context, assignments ...Assignment) ([]Assignment, core.BatchReport, error)
		UpdateAssignments(ctx context.Context, assignments ...Assignment) ([]Assignment, core.BatchReport, error)
		DeleteAssignmentsByID(ctx context.Context, ids ...int) (core.BatchReport, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	vala.BeginValidation().Validate(core.IsNotNil(repo, "repo")).CheckAndPanic()
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	a := Assignment{
		Name:        na.Name,
		ClassID:     na.ClassID,
		Category:    na.Category,
		Weight:      na.Weight,
		DueDate:     na.DueDate,
		TotalPoints: na.TotalPoints,
	}
	created, report, err := svc.repo.CreateAssignments(ctx, a)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}
	if err = report.Err("create assignment"); err != nil {
		return Assignment{}, err
	}
	return created[0], nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Assignment, error) {
	assignments, err := svc.repo.QueryAssignments(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	return assignments, nil
}

func (svc *Service) QueryByClass(ctx context.Context, classID int) ([]Assignment, error) {
	return svc.Query(ctx, QueryFilter{ClassID: classID})
}

func (svc *Service) GetByID(ctx context.Context, id int) (Assignment, error) {
	a, err := svc.repo.GetAssignment(ctx, id)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "finding assignment by ID")
	}
	return a, nil
}

func (svc *Service) Update(ctx context.Context, id int, ua UpdateAssignment) (Assignment, error) {
	orig, err := svc.GetByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	updated, report, err := svc.repo.UpdateAssignments(ctx, ua.apply(orig))
	if err != nil {
		return Assignment{}, errors.Wrap(err, "updating assignment")
	}
	if err = report.Err("update assignment"); err != nil {
		return Assignment{}, err
	}
	return updated[0], nil
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	report, err := svc.repo.DeleteAssignmentsByID(ctx, ids...)
	if err != nil {
		return errors.Wrap(err, "deleting assignments")
	}
	return report.Err("delete assignment")
}
