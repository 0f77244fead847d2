package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core/fee"
)

type feeApi struct {
	svc      *fee.Service
	validate *validator.Validate
}

func registerFeeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *fee.Service, validate *validator.Validate) {
	api := feeApi{svc: svc, validate: validate}

	fg := g.Group("/admin/fees", jwt, adminMiddleware())
	fg.POST("", api.create)
	fg.GET("/student/:identifier", api.queryForStudent)

	// detail endpoints
	fg.GET("/:id", api.retrieve)
	fg.PUT("/:id", api.update)
	fg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *feeApi) create(ctx echo.Context) error {
	var data fee.NewFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFee")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	f, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating fee")
	}
	return ctx.JSON(http.StatusCreated, f)
}

func (api *feeApi) queryForStudent(ctx echo.Context) error {
	fees, err := api.svc.ListForStudentRef(ctx.Request().Context(), ctx.Param("identifier"))
	if err != nil {
		return errors.Wrap(err, "querying student fees")
	}
	return ctx.JSON(http.StatusOK, fees)
}

func (api *feeApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	f, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding fee by ID")
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *feeApi) update(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var data fee.UpdateFee
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateFee")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	f, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating fee")
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *feeApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting fee")
	}
	return ctx.NoContent(http.StatusNoContent)
}
