package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/document"
)

const apiVersion = "1.0.0"

type schoolInfo struct {
	SchoolName string   `json:"school_name"`
	Version    string   `json:"version"`
	APIBaseURL string   `json:"api_base_url"`
	Features   []string `json:"features"`
}

var schoolFeatures = []string{
	"Student Management",
	"Attendance Tracking",
	"Fee Management",
	"Result Management",
	"Document Sharing",
}

func registerPublicAPI(g *echo.Group, docs *document.Service, conf *core.Config) {
	info := schoolInfo{
		SchoolName: "School Management System",
		Version:    apiVersion,
		APIBaseURL: conf.Server.PublicURL,
		Features:   schoolFeatures,
	}

	pg := g.Group("/public")
	pg.GET("/school-info", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, info)
	})
	pg.GET("/pdfs", func(ctx echo.Context) error {
		list, err := docs.ListPublic(ctx.Request().Context(), ctx.QueryParam("category"))
		if err != nil {
			return errors.Wrap(err, "querying public documents")
		}
		return ctx.JSON(http.StatusOK, list)
	})
}

// registerProbeAPI mounts endpoints that only echo back the caller, to check role gating.
func registerProbeAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	tg := g.Group("/test", jwt)
	tg.GET("/admin-only", func(ctx echo.Context) error {
		admin, err := getContextAdmin(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, echo.Map{
			"message":  "This is an admin-only route",
			"user_id":  admin.Subject(),
			"username": admin.Username,
			"role":     admin.Role(),
		})
	}, adminMiddleware())
	tg.GET("/student-only", func(ctx echo.Context) error {
		sp, err := getContextStudent(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, echo.Map{
			"message":      "This is a student-only route",
			"user_id":      sp.Subject(),
			"student_code": sp.StudentCode,
			"role":         sp.Role(),
		})
	}, studentMiddleware())
}
