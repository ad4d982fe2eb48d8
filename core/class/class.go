package class

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

// Entity is the record store collection name of class sections.
const Entity = "class"

// Section is a class section: a subject taught during a period of a given semester.
type Section struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Period   string `json:"period"`
	Room     string `json:"room"`
	Year     int    `json:"year"`
	Semester string `json:"semester"`
}

// NewSection contains information needed to open a new class Section.
type NewSection struct {
	Name     string `json:"name"`
	Subject  string `json:"subject" validate:"required"`
	Period   string `json:"period"`
	Room     string `json:"room"`
	Year     int    `json:"year" validate:"required,gte=1900,lte=9999"`
	Semester string `json:"semester"`
}

func (ns *NewSection) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Subject = core.CleanString(ns.Subject)
	ns.Period = core.CleanString(ns.Period)
	ns.Room = core.CleanString(ns.Room)
	ns.Semester = core.CleanString(ns.Semester)
	return validate.Struct(ns)
}

func (ns NewSection) build() Section {
	sec := Section{
		Name:     ns.Name,
		Subject:  ns.Subject,
		Period:   ns.Period,
		Room:     ns.Room,
		Year:     ns.Year,
		Semester: ns.Semester,
	}
	if sec.Name == "" {
		sec.Name = fmt.Sprintf("%s %d", sec.Subject, sec.Year)
	}
	return sec
}

// UpdateSection defines what information may be provided to modify an existing Section.
// Blank fields keep their current value.
type UpdateSection struct {
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Period   string `json:"period"`
	Room     string `json:"room"`
	Year     int    `json:"year" validate:"omitempty,gte=1900,lte=9999"`
	Semester string `json:"semester"`
}

func (us *UpdateSection) Validate(validate *validator.Validate) error {
	us.Name = core.CleanString(us.Name)
	us.Subject = core.CleanString(us.Subject)
	us.Period = core.CleanString(us.Period)
	us.Room = core.CleanString(us.Room)
	us.Semester = core.CleanString(us.Semester)
	return validate.Struct(us)
}

func (us UpdateSection) apply(orig Section) Section {
	sec := orig
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&sec.Name, us.Name},
		{&sec.Subject, us.Subject},
		{&sec.Period, us.Period},
		{&sec.Room, us.Room},
		{&sec.Semester, us.Semester},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	if us.Year != 0 {
		sec.Year = us.Year
	}
	return sec
}

type (
	Repository interface {
		QuerySections(ctx context.Context) ([]Section, error)
		GetSection(ctx context.Context, id int) (Section, error)
		CreateSections(ctx context.Context, sections ...Section) ([]Section, core.BatchReport, error)
		UpdateSections(ctx context.Context, sections ...Section) ([]Section, core.BatchReport, error)
		DeleteSectionsByID(ctx context.Context, ids ...int) (core.BatchReport, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	vala.BeginValidation().Validate(core.IsNotNil(repo, "repo")).CheckAndPanic()
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewSection) (Section, error) {
	created, report, err := svc.repo.CreateSections(ctx, ns.build())
	if err != nil {
		return Section{}, errors.Wrap(err, "creating class")
	}
	if err = report.Err("create class"); err != nil {
		return Section{}, err
	}
	return created[0], nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Section, error) {
	sections, err := svc.repo.QuerySections(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return sections, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Section, error) {
	sec, err := svc.repo.GetSection(ctx, id)
	if err != nil {
		return Section{}, errors.Wrap(err, "finding class by ID")
	}
	return sec, nil
}

func (svc *Service) Update(ctx context.Context, id int, us UpdateSection) (Section, error) {
	orig, err := svc.GetByID(ctx, id)
	if err != nil {
		return Section{}, err
	}
	updated, report, err := svc.repo.UpdateSections(ctx, us.apply(orig))
	if err != nil {
		return Section{}, errors.Wrap(err, "updating class")
	}
	if err = report.Err("update class"); err != nil {
		return Section{}, err
	}
	return updated[0], nil
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	report, err := svc.repo.DeleteSectionsByID(ctx, ids...)
	if err != nil {
		return errors.Wrap(err, "deleting classes")
	}
	return report.Err("delete class")
}
