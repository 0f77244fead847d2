package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/attendance"
)

type markResponse struct {
	Message string    `json:"message"`
	Date    core.Date `json:"date"`
	Class   int       `json:"class"`
	attendance.BulkResult
}

type attendanceApi struct {
	svc      *attendance.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service, validate *validator.Validate) {
	api := attendanceApi{svc: svc, validate: validate}

	ag := g.Group("/admin/attendance", jwt, adminMiddleware())
	ag.GET("/students/:class/:date", api.roster)
	ag.POST("/mark", api.mark)
	ag.GET("/student/:id", api.history)
}

// Handlers

func (api *attendanceApi) roster(ctx echo.Context) error {
	class, err := classParam(ctx)
	if err != nil {
		return err
	}
	if _, err = dateParam(ctx, "date"); err != nil {
		return err
	}

	entries, err := api.svc.Roster(ctx.Request().Context(), class)
	if err != nil {
		return errors.Wrap(err, "listing class roster")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.BulkMark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkMark")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.MarkBulk(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusCreated, markResponse{
		Message:    "Attendance marked successfully",
		Date:       data.Date,
		Class:      data.Class,
		BulkResult: res,
	})
}

func (api *attendanceApi) history(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	records, err := api.svc.History(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying attendance history")
	}
	return ctx.JSON(http.StatusOK, records)
}
