package echoapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/document"
)

var errInvalidIsPublic = errors.New("is_public must be a boolean")

type documentApi struct {
	svc      *document.Service
	validate *validator.Validate
}

func registerDocumentAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	optionalJWT echo.MiddlewareFunc,
	svc *document.Service,
	validate *validator.Validate,
) {
	api := documentApi{svc: svc, validate: validate}

	dg := g.Group("/pdfs")

	// un-authed endpoints
	dg.GET("", api.queryPublic)
	dg.GET("/download/:filename", api.download)
	dg.GET("/:id", api.retrieve, optionalJWT)

	// admin endpoints
	dg.POST("/upload", api.upload, jwt, adminMiddleware())
	dg.GET("/admin/all", api.queryAll, jwt, adminMiddleware())
	dg.PUT("/:id", api.update, jwt, adminMiddleware())
	dg.DELETE("/:id", api.destroy, jwt, adminMiddleware())
}

// bindNewDocument reads the multipart form fields of an upload.
func bindNewDocument(ctx echo.Context) (document.NewDocument, error) {
	data := document.NewDocument{
		Title:    ctx.FormValue("title"),
		Category: ctx.FormValue("category"),
	}
	if raw := core.CleanString(ctx.FormValue("is_public")); raw != "" {
		public, err := strconv.ParseBool(raw)
		if err != nil {
			return data, core.NewValidationError(
				errInvalidIsPublic,
				core.FieldError{Field: "is_public", Error: errInvalidIsPublic.Error()},
			)
		}
		data.IsPublic = &public
	}
	return data, nil
}

// Handlers

func (api *documentApi) upload(ctx echo.Context) error {
	data, err := bindNewDocument(ctx)
	if err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return errHttpMissingUploadedFile
	}
	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer file.Close()

	doc, err := api.svc.Upload(ctx.Request().Context(), data, fh.Filename, file)
	if err != nil {
		return errors.Wrap(err, "uploading document")
	}
	return ctx.JSON(http.StatusCreated, doc)
}

func (api *documentApi) queryPublic(ctx echo.Context) error {
	docs, err := api.svc.ListPublic(ctx.Request().Context(), ctx.QueryParam("category"))
	if err != nil {
		return errors.Wrap(err, "querying public documents")
	}
	return ctx.JSON(http.StatusOK, docs)
}

func (api *documentApi) queryAll(ctx echo.Context) error {
	docs, err := api.svc.ListAll(ctx.Request().Context(), ctx.QueryParam("category"))
	if err != nil {
		return errors.Wrap(err, "querying documents")
	}
	return ctx.JSON(http.StatusOK, docs)
}

func (api *documentApi) download(ctx echo.Context) error {
	filename := ctx.Param("filename")
	rc, err := api.svc.OpenNotice(ctx.Request().Context(), filename)
	if err != nil {
		return errors.Wrap(err, "opening notice")
	}
	defer rc.Close()

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Stream(http.StatusOK, "application/pdf", rc)
}

func (api *documentApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	p, _ := getContextPrincipal(ctx)
	doc, err := api.svc.Get(ctx.Request().Context(), id, p)
	if err != nil {
		return errors.Wrap(err, "finding document by ID")
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) update(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var data document.UpdateDocument
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateDocument")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	doc, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating document")
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting document")
	}
	return ctx.NoContent(http.StatusNoContent)
}
