package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/vidyalaya/tests"
)

func Test_feeApi_create(t *testing.T) {
	e := setup(t)
	stu := testutil.CreateStudent(t, e.app, "Asha", 6, testutil.Date(t, "2014-01-02"), "111111111111")

	e.run(t, []httpTest{
		{
			name: "invalid data", method: http.MethodPost, path: "/admin/fees", token: e.adminToken,
			body:     []byte(`{"amount": 0, "paid_amount": -1}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"student_id":  "this field is required",
				"amount":      "amount must be greater than 0",
				"paid_amount": "paid_amount must be 0 or greater",
			}),
		},
		{
			name: "unknown student", method: http.MethodPost, path: "/admin/fees", token: e.adminToken,
			body:     []byte(`{"student_id": 999, "amount": 1500}`),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "student not found"}),
		},
	})

	t.Run("due amount is derived", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"student_id": %d, "amount": 1500, "paid_amount": 400, "remark": " term 1 "}`, stu.ID))
		rec := e.do(http.MethodPost, "/admin/fees", e.adminToken, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var data map[string]interface{}
		unmarshal(t, rec, &data)
		assert.Equal(t, float64(stu.ID), data["student_id"])
		assert.Equal(t, float64(1500), data["amount"])
		assert.Equal(t, float64(400), data["paid_amount"])
		assert.Equal(t, float64(1100), data["due_amount"])
		assert.Equal(t, "term 1", data["remark"])
		assert.Nil(t, data["payment_date"])
	})

	t.Run("overpayment is accepted", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"student_id": %d, "amount": 100, "paid_amount": 150}`, stu.ID))
		rec := e.do(http.MethodPost, "/admin/fees", e.adminToken, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var data map[string]interface{}
		unmarshal(t, rec, &data)
		assert.Equal(t, float64(-50), data["due_amount"])
	})
}

func Test_feeApi_queryForStudent(t *testing.T) {
	e := setup(t)
	stu := testutil.CreateStudent(t, e.app, "Asha", 6, testutil.Date(t, "2014-01-02"), "111111111111")
	f1 := testutil.CreateFee(t, e.app, stu.ID, 1000, 0)
	f2 := testutil.CreateFee(t, e.app, stu.ID, 2000, 500)

	e.run(t, []httpTest{
		{
			name: "by id", path: fmt.Sprintf("/admin/fees/student/%d", stu.ID), token: e.adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, f2, f1),
		},
		{
			name: "by code", path: "/admin/fees/student/" + stu.Code, token: e.adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, f2, f1),
		},
		{
			name: "unknown code", path: "/admin/fees/student/STU9999", token: e.adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t),
		},
		{
			name: "admin required", path: "/admin/fees/student/" + stu.Code, token: e.studentToken(t, stu.ID, stu.Code),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errAdminRequired),
		},
	})
}

func Test_feeApi_updateAndDelete(t *testing.T) {
	e := setup(t)
	stu := testutil.CreateStudent(t, e.app, "Asha", 6, testutil.Date(t, "2014-01-02"), "111111111111")
	f := testutil.CreateFee(t, e.app, stu.ID, 1000, 0)
	path := fmt.Sprintf("/admin/fees/%d", f.ID)

	e.run(t, []httpTest{
		{
			name: "negative payment", method: http.MethodPut, path: path, token: e.adminToken,
			body:     []byte(`{"paid_amount": -5}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"paid_amount": "paid amount cannot be negative"}),
		},
		{
			name: "unknown fee", method: http.MethodPut, path: "/admin/fees/999", token: e.adminToken,
			body:     []byte(`{"paid_amount": 5}`),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "fee record not found"}),
		},
	})

	t.Run("payment stamps the payment date", func(t *testing.T) {
		rec := e.do(http.MethodPut, path, e.adminToken, []byte(`{"paid_amount": 600}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var data map[string]interface{}
		unmarshal(t, rec, &data)
		assert.Equal(t, float64(1000), data["amount"])
		assert.Equal(t, float64(600), data["paid_amount"])
		assert.Equal(t, float64(400), data["due_amount"])
		assert.NotNil(t, data["payment_date"])
	})

	t.Run("remark only keeps the payment", func(t *testing.T) {
		rec := e.do(http.MethodPut, path, e.adminToken, []byte(`{"remark": "late"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var data map[string]interface{}
		unmarshal(t, rec, &data)
		assert.Equal(t, float64(600), data["paid_amount"])
		assert.Equal(t, "late", data["remark"])
	})

	t.Run("delete", func(t *testing.T) {
		rec := e.do(http.MethodDelete, path, e.adminToken)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		rec = e.do(http.MethodGet, path, e.adminToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
