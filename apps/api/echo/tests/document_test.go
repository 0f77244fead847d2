package tests

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/vidyalaya/core/document"
	"github.com/trezcool/vidyalaya/tests"
)

var pdfContent = []byte("%PDF-1.4 test document")

// newUploadRequest builds a multipart upload; an empty filename leaves the file part out.
func newUploadRequest(t *testing.T, token string, fields map[string]string, filename string) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(pdfContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/pdfs/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func (e *env) upload(t *testing.T, title, category string, public bool) document.Document {
	t.Helper()
	req, rec := newUploadRequest(t, e.adminToken, map[string]string{
		"title":     title,
		"category":  category,
		"is_public": fmt.Sprint(public),
	}, "notice.pdf")
	e.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var doc document.Document
	unmarshal(t, rec, &doc)
	return doc
}

func Test_documentApi_upload(t *testing.T) {
	e := setup(t)

	tests := []struct {
		name     string
		token    string
		fields   map[string]string
		filename string
		wantCode int
		wantData []byte
	}{
		{
			name:     "auth required",
			fields:   map[string]string{"title": "Holiday", "category": "notice"},
			filename: "a.pdf",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "missing fields",
			token:    e.adminToken,
			filename: "a.pdf",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"title":    "this field is required",
				"category": "this field is required",
			}),
		},
		{
			name:     "unknown category",
			token:    e.adminToken,
			fields:   map[string]string{"title": "Holiday", "category": "memo"},
			filename: "a.pdf",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"category": "category must be one of: NOTICE, DATESHEET, CIRCULAR, EVENT"}),
		},
		{
			name:     "bad is_public",
			token:    e.adminToken,
			fields:   map[string]string{"title": "Holiday", "category": "notice", "is_public": "maybe"},
			filename: "a.pdf",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"is_public": "is_public must be a boolean"}),
		},
		{
			name:     "missing file",
			token:    e.adminToken,
			fields:   map[string]string{"title": "Holiday", "category": "notice"},
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "file is required"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newUploadRequest(t, tt.token, tt.fields, tt.filename)
			e.server.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{wantCode: tt.wantCode, wantData: tt.wantData}, rec)
		})
	}

	t.Run("stored under the category folder", func(t *testing.T) {
		req, rec := newUploadRequest(t, e.adminToken, map[string]string{
			"title":    " Exam Datesheet ",
			"category": "datesheet",
		}, "sheet.PDF")
		e.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var doc document.Document
		unmarshal(t, rec, &doc)
		assert.Equal(t, "Exam Datesheet", doc.Title)
		assert.Equal(t, document.CategoryDatesheet, doc.Category)
		assert.True(t, doc.IsPublic)
		assert.True(t, strings.HasPrefix(doc.FilePath, "uploads/datesheet/"), doc.FilePath)
		assert.Equal(t, ".PDF", path.Ext(doc.FilePath))

		rc, err := e.app.Blobs.Open(context.Background(), doc.FilePath)
		require.NoError(t, err)
		defer rc.Close()
		var got bytes.Buffer
		_, err = got.ReadFrom(rc)
		require.NoError(t, err)
		assert.Equal(t, pdfContent, got.Bytes())
	})
}

func Test_documentApi_visibility(t *testing.T) {
	e := setup(t)
	stu := testutil.CreateStudent(t, e.app, "Asha", 6, testutil.Date(t, "2014-01-02"), "111111111111")
	stuToken := e.studentToken(t, stu.ID, stu.Code)

	public := e.upload(t, "Sports Day", "event", true)
	private := e.upload(t, "Staff Circular", "circular", false)

	e.run(t, []httpTest{
		{name: "public list", path: "/pdfs", wantCode: http.StatusOK, wantData: marchallList(t, public)},
		{name: "public list by category", path: "/pdfs?category=notice", wantCode: http.StatusOK, wantData: marchallList(t)},
		{name: "admin list", path: "/pdfs/admin/all", token: e.adminToken, wantCode: http.StatusOK, wantData: marchallList(t, private, public)},
		{
			name: "admin list requires admin", path: "/pdfs/admin/all", token: stuToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errAdminRequired),
		},
		{name: "public document anonymously", path: fmt.Sprintf("/pdfs/%d", public.ID), wantCode: http.StatusOK, wantData: marchallObj(t, public)},
		{
			name: "private document anonymously", path: fmt.Sprintf("/pdfs/%d", private.ID),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "access denied"}),
		},
		{
			name: "private document as student", path: fmt.Sprintf("/pdfs/%d", private.ID), token: stuToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "access denied"}),
		},
		{
			name: "private document as admin", path: fmt.Sprintf("/pdfs/%d", private.ID), token: e.adminToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, private),
		},
		{
			name: "invalid token is rejected", path: fmt.Sprintf("/pdfs/%d", public.ID), token: "garbage",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errInvalidCredentials),
		},
		{
			name: "unknown document", path: "/pdfs/999",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "document not found"}),
		},
	})
}

func Test_documentApi_download(t *testing.T) {
	e := setup(t)
	notice := e.upload(t, "Holiday", "notice", true)
	event := e.upload(t, "Sports Day", "event", true)

	t.Run("notice file", func(t *testing.T) {
		filename := path.Base(notice.FilePath)
		rec := e.do(http.MethodGet, "/pdfs/download/"+filename, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, fmt.Sprintf("attachment; filename=%q", filename), rec.Header().Get("Content-Disposition"))
		assert.Equal(t, pdfContent, rec.Body.Bytes())
	})

	t.Run("static uploads", func(t *testing.T) {
		rec := e.do(http.MethodGet, "/"+event.FilePath, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, pdfContent, rec.Body.Bytes())
	})

	e.run(t, []httpTest{
		{
			name: "only the notice folder is served", path: "/pdfs/download/" + path.Base(event.FilePath),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "file not found"}),
		},
		{
			name: "unknown file", path: "/pdfs/download/missing.pdf",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "file not found"}),
		},
	})
}

func Test_documentApi_updateAndDelete(t *testing.T) {
	e := setup(t)
	doc := e.upload(t, "Holiday", "notice", true)
	docPath := fmt.Sprintf("/pdfs/%d", doc.ID)

	updated := doc
	updated.Title = "Diwali Holiday"
	updated.IsPublic = false

	e.run(t, []httpTest{
		{
			name: "admin required", method: http.MethodPut, path: docPath, body: []byte(`{"title": "x"}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "blank title", method: http.MethodPut, path: docPath, token: e.adminToken, body: []byte(`{"title": "  "}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"title": "title cannot be blank"}),
		},
		{
			name: "updated", method: http.MethodPut, path: docPath, token: e.adminToken,
			body:     []byte(`{"title": " Diwali Holiday ", "is_public": false}`),
			wantCode: http.StatusOK, wantData: marchallObj(t, updated),
		},
		{name: "hidden from the public list", path: "/pdfs", wantCode: http.StatusOK, wantData: marchallList(t)},
		{name: "delete", method: http.MethodDelete, path: docPath, token: e.adminToken, wantCode: http.StatusNoContent},
		{name: "deleted", path: docPath, token: e.adminToken, wantCode: http.StatusNotFound},
		{name: "delete again", method: http.MethodDelete, path: docPath, token: e.adminToken, wantCode: http.StatusNotFound},
	})

	_, err := e.app.Blobs.Open(context.Background(), doc.FilePath)
	assert.Equal(t, document.ErrBlobNotFound, err)
}
