package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/vidyalaya/core/auth"
)

func TestRoleMiddleware(t *testing.T) {
	admin := auth.AdminPrincipal{ID: 1, Username: "principal"}
	stu := auth.StudentPrincipal{ID: 2, StudentCode: "STU5002"}

	tests := []struct {
		name       string
		middleware echo.MiddlewareFunc
		principal  auth.Principal
		wantErr    error
	}{
		{name: "admin: anonymous", middleware: adminMiddleware(), wantErr: errAdminRequired},
		{name: "admin: student", middleware: adminMiddleware(), principal: stu, wantErr: errAdminRequired},
		{name: "admin: admin", middleware: adminMiddleware(), principal: admin},
		{name: "student: anonymous", middleware: studentMiddleware(), wantErr: errStudentRequired},
		{name: "student: admin", middleware: studentMiddleware(), principal: admin, wantErr: errStudentRequired},
		{name: "student: student", middleware: studentMiddleware(), principal: stu},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			if tt.principal != nil {
				ctx.Set(contextPrincipalKey, tt.principal)
			}

			var called bool
			err := tt.middleware(func(echo.Context) error {
				called = true
				return nil
			})(ctx)

			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.wantErr == nil, called)
		})
	}
}

func TestGetContextAdmin(t *testing.T) {
	ctx := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	ctx.Set(contextPrincipalKey, auth.AdminPrincipal{ID: 7, Username: "bursar"})

	admin, err := getContextAdmin(ctx)
	assert.NoError(t, err)
	assert.Equal(t, auth.AdminPrincipal{ID: 7, Username: "bursar"}, admin)
}
