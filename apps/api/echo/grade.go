package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/grade"
)

type gradeApi struct {
	svc        *grade.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerGradeAPI(g *echo.Group, deps *Deps) {
	api := gradeApi{
		svc:        deps.GradeSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}
	load := objectMiddleware(api.svc.GetByID)

	gg := g.Group("/grades")
	gg.GET("", api.query)
	gg.POST("", api.create)
	gg.POST("/batch", api.createMany)

	// detail endpoints
	dg := gg.Group("/:id")
	dg.GET("", api.retrieve, load)
	dg.PATCH("", api.update, load)
	dg.DELETE("", api.destroy, load)
}

// Handlers

func (api *gradeApi) query(ctx echo.Context) error {
	var filter grade.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to grade.QueryFilter")
	}
	grades, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) create(ctx echo.Context) error {
	var data grade.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	g, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, g)
}

// createMany records a batch of grades. With ?partial=true, a partially failed batch responds 207 with the
// recorded grades.
func (api *gradeApi) createMany(ctx echo.Context) error {
	opts, err := batchOptions(ctx)
	if err != nil {
		return err
	}
	var data []grade.NewGrade
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to []NewGrade")
	}
	if err = validateEach(data, api.validate, api.translator); err != nil {
		return err
	}

	grades, err := api.svc.CreateMany(ctx.Request().Context(), data, opts...)
	return batchCreated(ctx, grades, len(data), err, opts)
}

func (api *gradeApi) retrieve(ctx echo.Context) error {
	g, err := contextObject[grade.Grade](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, g)
}

// update patches a grade; its percentage and letter grade are recomputed when the score changes.
func (api *gradeApi) update(ctx echo.Context) error {
	g, err := contextObject[grade.Grade](ctx)
	if err != nil {
		return err
	}
	var data grade.Patch
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to grade.Patch")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	g, err = api.svc.Update(ctx.Request().Context(), g.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) destroy(ctx echo.Context) error {
	g, err := contextObject[grade.Grade](ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), g.ID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
