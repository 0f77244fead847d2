package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/vidyalaya/core/auth"
	"github.com/trezcool/vidyalaya/tests"
)

func Test_authApi_adminLogin(t *testing.T) {
	e := setup(t)
	loginFailed := marchallObj(t, httpErr{Error: "invalid username or password"})

	e.run(t, []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/auth/admin/login", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username": "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name: "unknown admin", method: http.MethodPost, path: "/auth/admin/login",
			body:     []byte(`{"username": "nobody", "password": "` + adminPwd + `"}`),
			wantCode: http.StatusUnauthorized, wantData: loginFailed,
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/auth/admin/login",
			body:     []byte(`{"username": "principal", "password": "nope"}`),
			wantCode: http.StatusUnauthorized, wantData: loginFailed,
		},
	})

	t.Run("valid credentials", func(t *testing.T) {
		rec := e.do(http.MethodPost, "/auth/admin/login", "", []byte(`{"username": " principal ", "password": "`+adminPwd+`"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var token auth.Token
		unmarshal(t, rec, &token)
		assert.Equal(t, "bearer", token.TokenType)
		assert.Equal(t, auth.RoleAdmin, token.Role)

		p, err := e.app.AuthSvc.VerifyToken(token.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, e.admin.Principal(), p)
	})
}

func Test_authApi_studentLogin(t *testing.T) {
	e := setup(t)
	stu := testutil.CreateStudent(t, e.app, "Asha Rao", 5, testutil.Date(t, "2012-04-09"), "123456789012")
	loginFailed := marchallObj(t, httpErr{Error: "invalid student ID or date of birth"})

	e.run(t, []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/auth/student/login", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"student_code": "this field is required",
				"dob":          "this field is required",
			}),
		},
		{
			name: "malformed dob", method: http.MethodPost, path: "/auth/student/login",
			body: []byte(`{"student_code": "` + stu.Code + `", "dob": "09/04/2012"}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown code", method: http.MethodPost, path: "/auth/student/login",
			body:     []byte(`{"student_code": "STU9999", "dob": "2012-04-09"}`),
			wantCode: http.StatusUnauthorized, wantData: loginFailed,
		},
		{
			name: "wrong dob", method: http.MethodPost, path: "/auth/student/login",
			body:     []byte(`{"student_code": "` + stu.Code + `", "dob": "2012-04-10"}`),
			wantCode: http.StatusUnauthorized, wantData: loginFailed,
		},
	})

	for _, body := range []string{
		`{"student_code": "` + stu.Code + `", "dob": "2012-04-09"}`,
		`{"student_id": "` + stu.Code + `", "dob": "2012-04-09"}`,
	} {
		t.Run("valid credentials "+body, func(t *testing.T) {
			rec := e.do(http.MethodPost, "/auth/student/login", "", []byte(body))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var token auth.Token
			unmarshal(t, rec, &token)
			assert.Equal(t, auth.RoleStudent, token.Role)

			p, err := e.app.AuthSvc.VerifyToken(token.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, auth.StudentPrincipal{ID: stu.ID, StudentCode: stu.Code}, p)
		})
	}
}

func Test_roleProbes(t *testing.T) {
	e := setup(t)
	stu := testutil.CreateStudent(t, e.app, "Asha Rao", 5, testutil.Date(t, "2012-04-09"), "123456789012")
	stuToken := e.studentToken(t, stu.ID, stu.Code)

	e.run(t, []httpTest{
		{name: "admin-only: no token", path: "/test/admin-only", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin-only: garbage token", path: "/test/admin-only", token: "not.a.jwt",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errInvalidCredentials),
		},
		{
			name: "admin-only: student", path: "/test/admin-only", token: stuToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errAdminRequired),
		},
		{
			name: "admin-only: admin", path: "/test/admin-only", token: e.adminToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]string{
				"message":  "This is an admin-only route",
				"user_id":  e.admin.Principal().Subject(),
				"username": "principal",
				"role":     "admin",
			}),
		},
		{
			name: "student-only: admin", path: "/test/student-only", token: e.adminToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errStudentRequired),
		},
		{
			name: "student-only: student", path: "/test/student-only", token: stuToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]string{
				"message":      "This is a student-only route",
				"user_id":      auth.StudentPrincipal{ID: stu.ID}.Subject(),
				"student_code": stu.Code,
				"role":         "student",
			}),
		},
	})
}
