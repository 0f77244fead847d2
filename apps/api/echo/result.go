package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core/result"
)

type createResultsResponse struct {
	Message      string `json:"message"`
	StudentID    int    `json:"student_id"`
	ExamType     string `json:"exam_type"`
	CreatedCount int    `json:"created_count"`
}

type resultApi struct {
	svc      *result.Service
	validate *validator.Validate
}

func registerResultAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *result.Service, validate *validator.Validate) {
	api := resultApi{svc: svc, validate: validate}

	rg := g.Group("/admin/results", jwt, adminMiddleware())
	rg.POST("", api.create)
	rg.GET("/student/:id", api.queryForStudent)
	rg.GET("/class/:class", api.queryForClass)

	// detail endpoints
	rg.GET("/:id", api.retrieve)
	rg.PUT("/:id", api.update)
	rg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *resultApi) create(ctx echo.Context) error {
	var data result.NewResults
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResults")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	count, err := api.svc.CreateResults(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating results")
	}
	return ctx.JSON(http.StatusCreated, createResultsResponse{
		Message:      "Results saved successfully",
		StudentID:    data.StudentID,
		ExamType:     data.ExamType,
		CreatedCount: count,
	})
}

func (api *resultApi) queryForStudent(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	results, err := api.svc.StudentResults(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying student results")
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *resultApi) queryForClass(ctx echo.Context) error {
	class, err := classParam(ctx)
	if err != nil {
		return err
	}
	results, err := api.svc.ClassResults(ctx.Request().Context(), class, ctx.QueryParam("exam_type"))
	if err != nil {
		return errors.Wrap(err, "querying class results")
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *resultApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	res, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding result by ID")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *resultApi) update(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var data result.UpdateResult
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateResult")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.Update(ctx.Request().Context(), id, *data.Marks)
	if err != nil {
		return errors.Wrap(err, "updating result")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *resultApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting result")
	}
	return ctx.NoContent(http.StatusNoContent)
}
