package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/vidyalaya/core"
)

// idParam reads a positive integer path parameter.
func idParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, errHttpInvalidID
	}
	return id, nil
}

// classParam reads a school class path parameter; out of range classes are validation errors.
func classParam(ctx echo.Context) (int, error) {
	class, err := strconv.Atoi(ctx.Param("class"))
	if err != nil {
		return 0, core.NewValidationError(core.ErrInvalidClass)
	}
	return class, core.CheckClass(class)
}

func dateParam(ctx echo.Context, name string) (core.Date, error) {
	d, err := core.ParseDate(ctx.Param(name))
	if err != nil {
		msg := "date must be formatted as YYYY-MM-DD"
		return core.Date{}, core.NewValidationError(err, core.FieldError{Field: name, Error: msg})
	}
	return d, nil
}
