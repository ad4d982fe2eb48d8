package echoapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/assignment"
	"github.com/trezcool/academia/core/class"
	"github.com/trezcool/academia/core/gradebook"
	xlsxsvc "github.com/trezcool/academia/services/xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type classApi struct {
	svc         *class.Service
	assignments *assignment.Service
	gradebooks  *gradebook.Service
	validate    *validator.Validate
}

func registerClassAPI(g *echo.Group, deps *Deps) {
	api := classApi{
		svc:         deps.ClassSvc,
		assignments: deps.AssignmentSvc,
		gradebooks:  deps.GradebookSvc,
		validate:    deps.Validate,
	}
	load := objectMiddleware(api.svc.GetByID)

	cg := g.Group("/classes")
	cg.GET("", api.query)
	cg.POST("", api.create)

	// detail endpoints
	dg := cg.Group("/:id")
	dg.GET("", api.retrieve, load)
	dg.PUT("", api.update, load)
	dg.DELETE("", api.destroy, load)
	dg.GET("/assignments", api.queryAssignments, load)
	dg.GET("/gradebook", api.gradebook)
	dg.GET("/gradebook.xlsx", api.exportGradebook)
}

// Handlers

func (api *classApi) query(ctx echo.Context) error {
	sections, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sections)
}

func (api *classApi) create(ctx echo.Context) error {
	var data class.NewSection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSection")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sec, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sec)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	sec, err := contextObject[class.Section](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sec)
}

func (api *classApi) update(ctx echo.Context) error {
	sec, err := contextObject[class.Section](ctx)
	if err != nil {
		return err
	}
	var data class.UpdateSection
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSection")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	sec, err = api.svc.Update(ctx.Request().Context(), sec.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sec)
}

func (api *classApi) destroy(ctx echo.Context) error {
	sec, err := contextObject[class.Section](ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), sec.ID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *classApi) queryAssignments(ctx echo.Context) error {
	sec, err := contextObject[class.Section](ctx)
	if err != nil {
		return err
	}
	assignments, err := api.assignments.QueryByClass(ctx.Request().Context(), sec.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *classApi) gradebook(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	gb, err := api.gradebooks.Build(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, gb)
}

func (api *classApi) exportGradebook(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	gb, err := api.gradebooks.Build(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err = xlsxsvc.WriteGradebook(&buf, gb); err != nil {
		return errors.Wrap(err, "writing gradebook")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("gradebook-%d.xlsx", id)))
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
