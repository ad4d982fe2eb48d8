package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/assignment"
	"github.com/trezcool/academia/core/class"
)

type assignmentApi struct {
	svc      *assignment.Service
	classes  *class.Service
	validate *validator.Validate
}

func registerAssignmentAPI(g *echo.Group, deps *Deps) {
	api := assignmentApi{
		svc:      deps.AssignmentSvc,
		classes:  deps.ClassSvc,
		validate: deps.Validate,
	}
	load := objectMiddleware(api.svc.GetByID)

	ag := g.Group("/assignments")
	ag.GET("", api.query)
	ag.POST("", api.create)

	// detail endpoints
	dg := ag.Group("/:id")
	dg.GET("", api.retrieve, load)
	dg.PUT("", api.update, load)
	dg.DELETE("", api.destroy, load)
}

// Handlers

func (api *assignmentApi) query(ctx echo.Context) error {
	var filter assignment.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to assignment.QueryFilter")
	}
	assignments, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()
	if _, err := api.classes.GetByID(reqCtx, data.ClassID); err != nil {
		return err
	}

	a, err := api.svc.Create(reqCtx, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	a, err := contextObject[assignment.Assignment](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	a, err := contextObject[assignment.Assignment](ctx)
	if err != nil {
		return err
	}
	var data assignment.UpdateAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	a, err = api.svc.Update(ctx.Request().Context(), a.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	a, err := contextObject[assignment.Assignment](ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), a.ID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
