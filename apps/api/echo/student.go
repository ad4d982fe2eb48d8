package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/grade"
	"github.com/trezcool/academia/core/student"
)

type studentApi struct {
	svc        *student.Service
	grades     *grade.Service
	attendance *attendance.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerStudentAPI(g *echo.Group, deps *Deps) {
	api := studentApi{
		svc:        deps.StudentSvc,
		grades:     deps.GradeSvc,
		attendance: deps.AttendanceSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}
	load := objectMiddleware(api.svc.GetByID)

	sg := g.Group("/students")
	sg.GET("", api.roster)
	sg.POST("", api.create)
	sg.POST("/batch", api.createMany)

	// detail endpoints
	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, load)
	dg.DELETE("", api.destroy, load)
	dg.GET("/grades", api.queryGrades, load)
	dg.GET("/average", api.average, load)
	dg.GET("/attendance", api.queryAttendance, load)
	dg.GET("/attendance-rate", api.attendanceRate, load)
}

// Handlers

// roster lists the students matching ?q, ?status, ?grade_level and ?where.
func (api *studentApi) roster(ctx echo.Context) error {
	var query student.RosterQuery
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to RosterQuery")
	}
	if err := query.Validate(api.validate); err != nil {
		return err
	}
	filter, err := query.Filter()
	if err != nil {
		return err
	}

	students, err := api.svc.Roster(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()
	if err := api.svc.CheckUniqueness(reqCtx, data.Email); err != nil {
		return err
	}

	s, err := api.svc.Create(reqCtx, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) createMany(ctx echo.Context) error {
	opts, err := batchOptions(ctx)
	if err != nil {
		return err
	}
	var data []student.NewStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to []NewStudent")
	}
	if err = validateEach(data, api.validate, api.translator); err != nil {
		return err
	}

	students, err := api.svc.CreateMany(ctx.Request().Context(), data, opts...)
	return batchCreated(ctx, students, len(data), err, opts)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	s, err := api.svc.GetWithAverage(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	s, err := contextObject[student.Student](ctx)
	if err != nil {
		return err
	}
	var data student.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()
	if data.Email != "" {
		if err = api.svc.CheckUniqueness(reqCtx, data.Email, s.ID); err != nil {
			return err
		}
	}

	s, err = api.svc.Update(reqCtx, s.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	s, err := contextObject[student.Student](ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), s.ID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) queryGrades(ctx echo.Context) error {
	s, err := contextObject[student.Student](ctx)
	if err != nil {
		return err
	}
	grades, err := api.grades.QueryByStudent(ctx.Request().Context(), s.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *studentApi) average(ctx echo.Context) error {
	s, err := contextObject[student.Student](ctx)
	if err != nil {
		return err
	}
	avg, err := api.grades.StudentAverage(ctx.Request().Context(), s.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"student_id": s.ID, "average": avg})
}

func (api *studentApi) queryAttendance(ctx echo.Context) error {
	s, err := contextObject[student.Student](ctx)
	if err != nil {
		return err
	}
	records, err := api.attendance.QueryByStudent(ctx.Request().Context(), s.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, records)
}

// attendanceRate returns the attendance rate of the student, in the class of ?class_id if given.
func (api *studentApi) attendanceRate(ctx echo.Context) error {
	s, err := contextObject[student.Student](ctx)
	if err != nil {
		return err
	}
	var classID int
	if err = echo.QueryParamsBinder(ctx).Int("class_id", &classID).BindError(); err != nil {
		return err
	}

	rate, err := api.attendance.StudentRate(ctx.Request().Context(), s.ID, classID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"student_id": s.ID, "class_id": classID, "rate": rate})
}
