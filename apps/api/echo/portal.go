package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core/attendance"
	"github.com/trezcool/vidyalaya/core/document"
	"github.com/trezcool/vidyalaya/core/fee"
	"github.com/trezcool/vidyalaya/core/result"
	"github.com/trezcool/vidyalaya/core/student"
)

type portalServices struct {
	students   *student.Service
	attendance *attendance.Service
	fees       *fee.Service
	results    *result.Service
	documents  *document.Service
}

// portalApi serves a logged in student their own records.
type portalApi struct {
	svcs portalServices
}

func registerPortalAPI(g *echo.Group, jwt echo.MiddlewareFunc, svcs portalServices) {
	api := portalApi{svcs: svcs}

	pg := g.Group("/student", jwt, studentMiddleware())
	pg.GET("/me", api.profile)
	pg.GET("/attendance", api.attendance)
	pg.GET("/fees", api.fees)
	pg.GET("/results", api.results)
	pg.GET("/pdfs", api.documents)
}

// Handlers

func (api *portalApi) profile(ctx echo.Context) error {
	sp, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	stu, err := api.svcs.students.Get(ctx.Request().Context(), sp.ID)
	if err != nil {
		return errors.Wrap(err, "finding student profile")
	}
	return ctx.JSON(http.StatusOK, stu.Profile())
}

func (api *portalApi) attendance(ctx echo.Context) error {
	sp, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	records, err := api.svcs.attendance.History(ctx.Request().Context(), sp.ID)
	if err != nil {
		return errors.Wrap(err, "querying own attendance")
	}
	summaries := make([]attendance.Summary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, rec.Summary())
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *portalApi) fees(ctx echo.Context) error {
	sp, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	fees, err := api.svcs.fees.ListForStudent(ctx.Request().Context(), sp.ID)
	if err != nil {
		return errors.Wrap(err, "querying own fees")
	}
	return ctx.JSON(http.StatusOK, fees)
}

func (api *portalApi) results(ctx echo.Context) error {
	sp, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	results, err := api.svcs.results.StudentResults(ctx.Request().Context(), sp.ID)
	if err != nil {
		return errors.Wrap(err, "querying own results")
	}
	marks := make([]result.SubjectMarks, 0, len(results))
	for _, res := range results {
		marks = append(marks, res.SubjectMarks())
	}
	return ctx.JSON(http.StatusOK, marks)
}

func (api *portalApi) documents(ctx echo.Context) error {
	docs, err := api.svcs.documents.ListPublic(ctx.Request().Context(), ctx.QueryParam("category"))
	if err != nil {
		return errors.Wrap(err, "querying public documents")
	}
	return ctx.JSON(http.StatusOK, docs)
}
