package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/auth"
)

const contextPrincipalKey = "principal"

// jwtMiddleware authenticates Bearer tokens and stores the caller's auth.Principal in the context.
// When optional is set, requests without an Authorization header pass through anonymously.
func jwtMiddleware(svc *auth.Service, optional bool) echo.MiddlewareFunc {
	conf := middleware.JWTConfig{
		ContextKey: contextPrincipalKey,
		ParseTokenFunc: func(raw string, _ echo.Context) (interface{}, error) {
			return svc.VerifyToken(raw)
		},
		ErrorHandlerWithContext: func(err error, _ echo.Context) error {
			if err == middleware.ErrJWTMissing {
				return errNotAuthenticated
			}
			return errInvalidCredentials
		},
	}
	if optional {
		conf.Skipper = func(ctx echo.Context) bool {
			return ctx.Request().Header.Get(echo.HeaderAuthorization) == ""
		}
	}
	return middleware.JWTWithConfig(conf)
}

func getContextPrincipal(ctx echo.Context) (auth.Principal, bool) {
	p, ok := ctx.Get(contextPrincipalKey).(auth.Principal)
	return p, ok
}

func getContextAdmin(ctx echo.Context) (auth.AdminPrincipal, error) {
	if p, ok := getContextPrincipal(ctx); ok {
		if ap, ok := p.(auth.AdminPrincipal); ok {
			return ap, nil
		}
	}
	return auth.AdminPrincipal{}, errAdminRequired
}

func getContextStudent(ctx echo.Context) (auth.StudentPrincipal, error) {
	if p, ok := getContextPrincipal(ctx); ok {
		if sp, ok := p.(auth.StudentPrincipal); ok {
			return sp, nil
		}
	}
	return auth.StudentPrincipal{}, errStudentRequired
}

// studentLoginRequest also accepts the legacy "student_id" key for the student code.
type studentLoginRequest struct {
	auth.StudentLogin
	LegacyCode string `json:"student_id"`
}

type authApi struct {
	svc      *auth.Service
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, svc *auth.Service, validate *validator.Validate) {
	api := authApi{svc: svc, validate: validate}

	ag := g.Group("/auth")
	ag.POST("/admin/login", api.adminLogin)
	ag.POST("/student/login", api.studentLogin)
}

func (api *authApi) adminLogin(ctx echo.Context) error {
	var data auth.AdminLogin
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AdminLogin")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	token, err := api.svc.AuthenticateAdmin(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == auth.ErrAuthenticationFailed {
			return errAdminLoginFailed
		}
		return errors.Wrap(err, "authenticating admin")
	}
	return ctx.JSON(http.StatusOK, token)
}

func (api *authApi) studentLogin(ctx echo.Context) error {
	var data studentLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentLogin")
	}
	login := data.StudentLogin
	if core.CleanString(login.StudentCode) == "" {
		login.StudentCode = data.LegacyCode
	}
	if err := login.Validate(api.validate); err != nil {
		return err
	}

	token, err := api.svc.AuthenticateStudent(ctx.Request().Context(), login)
	if err != nil {
		if errors.Cause(err) == auth.ErrAuthenticationFailed {
			return errStudentLoginFailed
		}
		return errors.Wrap(err, "authenticating student")
	}
	return ctx.JSON(http.StatusOK, token)
}
