package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core/dashboard"
)

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *dashboard.Service) {
	g.GET("/admin/dashboard/summary", func(ctx echo.Context) error {
		sum, err := svc.Summary(ctx.Request().Context())
		if err != nil {
			return errors.Wrap(err, "summarizing dashboard")
		}
		return ctx.JSON(http.StatusOK, sum)
	}, jwt, adminMiddleware())
}
