package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/fee"
	"github.com/trezcool/vidyalaya/core/student"
)

// due_amount is written from Fee.Due() and never read back.
const feeColumns = "id, student_id, amount, paid_amount, payment_date, remark, created_at"

type feeRepository struct {
	repository
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(exec core.DBExecutor) *feeRepository {
	return &feeRepository{repository{exec: exec}}
}

func (repo feeRepository) CreateFee(ctx context.Context, f fee.Fee, exec ...core.DBExecutor) (fee.Fee, error) {
	q := `INSERT INTO fees (student_id, amount, paid_amount, due_amount, payment_date, remark, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + feeColumns
	var created fee.Fee
	err := repo.getExec(exec).GetContext(
		ctx, &created, q,
		f.StudentID, f.Amount, f.PaidAmount, f.Due(), f.PaymentDate, f.Remark, f.CreatedAt,
	)
	if err != nil {
		if _, ok := constraintViolation(err, foreignKeyViolation); ok {
			return fee.Fee{}, student.ErrNotFound
		}
		return fee.Fee{}, errors.Wrap(err, "inserting fee")
	}
	return created, nil
}

func (repo feeRepository) GetFee(ctx context.Context, id int, exec ...core.DBExecutor) (fee.Fee, error) {
	var f fee.Fee
	q := "SELECT " + feeColumns + " FROM fees WHERE id = $1"
	if err := repo.getExec(exec).GetContext(ctx, &f, q, id); err != nil {
		return fee.Fee{}, trapNoRowsErr(err, fee.ErrNotFound, "finding fee by ID")
	}
	return f, nil
}

func (repo feeRepository) UpdateFee(ctx context.Context, f fee.Fee, exec ...core.DBExecutor) (fee.Fee, error) {
	q := `UPDATE fees SET paid_amount = $2, due_amount = $3, payment_date = $4, remark = $5
		WHERE id = $1
		RETURNING ` + feeColumns
	var updated fee.Fee
	if err := repo.getExec(exec).GetContext(ctx, &updated, q, f.ID, f.PaidAmount, f.Due(), f.PaymentDate, f.Remark); err != nil {
		return fee.Fee{}, trapNoRowsErr(err, fee.ErrNotFound, "updating fee")
	}
	return updated, nil
}

func (repo feeRepository) DeleteFee(ctx context.Context, id int, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, "DELETE FROM fees WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting fee")
	}
	return checkAffected(res, fee.ErrNotFound, "deleting fee")
}

func (repo feeRepository) QueryStudentFees(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]fee.Fee, error) {
	q := "SELECT " + feeColumns + " FROM fees WHERE student_id = $1 ORDER BY created_at DESC, id DESC"
	fees := make([]fee.Fee, 0)
	if err := repo.getExec(exec).SelectContext(ctx, &fees, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student fees")
	}
	return fees, nil
}
