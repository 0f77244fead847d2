package fee

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/vidyalaya/core"
)

type Fee struct {
	ID          int         `json:"id" db:"id"`
	StudentID   int         `json:"student_id" db:"student_id"`
	Amount      float64     `json:"amount" db:"amount"`
	PaidAmount  float64     `json:"paid_amount" db:"paid_amount"`
	PaymentDate null.Time   `json:"payment_date" db:"payment_date"`
	Remark      null.String `json:"remark" db:"remark"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"` // UTC
}

// Due is what remains to be paid. It is never stored independently of Amount and PaidAmount.
func (f Fee) Due() float64 {
	return f.Amount - f.PaidAmount
}

func (f Fee) MarshalJSON() ([]byte, error) {
	type alias Fee
	return json.Marshal(struct {
		alias
		DueAmount float64 `json:"due_amount"`
	}{alias(f), f.Due()})
}

// record sets the paid amount and stamps the payment date.
func (f *Fee) record(paid float64, at time.Time) {
	f.PaidAmount = paid
	f.PaymentDate = null.TimeFrom(at)
}

type NewFee struct {
	StudentID  int     `json:"student_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"gt=0"`
	PaidAmount float64 `json:"paid_amount" validate:"gte=0"`
	Remark     *string `json:"remark" validate:"omitempty,max=255"`
}

func (nf *NewFee) Validate(validate *validator.Validate) error {
	nf.Remark = core.CleanStringPtr(nf.Remark)
	return validate.Struct(nf)
}

// UpdateFee carries the fields that may change on a Fee; the amount itself is fixed at creation.
type UpdateFee struct {
	PaidAmount *float64 `json:"paid_amount" validate:"omitempty,gte=0"`
	Remark     *string  `json:"remark" validate:"omitempty,max=255"`
}

func (uf *UpdateFee) Validate(validate *validator.Validate) error {
	if uf.PaidAmount != nil && *uf.PaidAmount < 0 {
		return core.NewValidationError(
			errNegativePaid,
			core.FieldError{Field: "paid_amount", Error: errNegativePaid.Error()},
		)
	}
	uf.Remark = core.CleanStringPtr(uf.Remark)
	return validate.Struct(uf)
}
