package fee

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFee_MarshalJSON(t *testing.T) {
	f := Fee{ID: 1, StudentID: 2, Amount: 1500, PaidAmount: 400, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 1,
		"student_id": 2,
		"amount": 1500,
		"paid_amount": 400,
		"due_amount": 1100,
		"payment_date": null,
		"remark": null,
		"created_at": "2024-03-01T00:00:00Z"
	}`, string(data))
}

func TestFee_record(t *testing.T) {
	at := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	f := Fee{Amount: 1000, PaidAmount: 100}
	f.record(1200, at)

	assert.Equal(t, float64(1200), f.PaidAmount)
	assert.Equal(t, float64(-200), f.Due())
	assert.True(t, f.PaymentDate.Valid)
	assert.Equal(t, at, f.PaymentDate.Time)
}
