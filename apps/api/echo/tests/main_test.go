package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/vidyalaya/apps/api/echo"
	"github.com/trezcool/vidyalaya/core/auth"
	"github.com/trezcool/vidyalaya/tests"
)

const adminPwd = "Sup3r$ecret"

var (
	errMissingToken       = httpErr{Error: "not authenticated"}
	errInvalidCredentials = httpErr{Error: "could not validate credentials"}
	errAdminRequired      = httpErr{Error: "admin access required"}
	errStudentRequired    = httpErr{Error: "student access required"}
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

// env is a server over a fresh in-memory app, with an admin already registered.
type env struct {
	app        *testutil.App
	server     *Server
	admin      auth.Admin
	adminToken string
}

func setup(t *testing.T) *env {
	app := testutil.NewApp(t)
	server := NewServer(ServerDeps{
		Conf:           app.Conf,
		Logger:         app.Logger,
		Validate:       app.Validate,
		Translator:     app.Translator,
		AuthSvc:        app.AuthSvc,
		StudentSvc:     app.StudentSvc,
		AttendanceSvc:  app.AttendanceSvc,
		FeeSvc:         app.FeeSvc,
		ResultSvc:      app.ResultSvc,
		DocumentSvc:    app.DocumentSvc,
		DashboardSvc:   app.DashboardSvc,
		UploadRoot:     app.Blobs.Root(),
		DisableReqLogs: true,
	})
	admin := testutil.CreateAdmin(t, app, "principal", adminPwd)
	return &env{
		app:        app,
		server:     server,
		admin:      admin,
		adminToken: testutil.Token(t, app, admin.Principal()),
	}
}

func (e *env) studentToken(t *testing.T, id int, code string) string {
	return testutil.Token(t, e.app, auth.StudentPrincipal{ID: id, StudentCode: code})
}

// run serves every test case and checks its status code and JSON body.
func (e *env) run(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			e.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func (e *env) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	e.server.ServeHTTP(rec, req)
	return rec
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "code; body = %s", rec.Body.String())
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
