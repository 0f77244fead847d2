package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/auth"
)

const adminColumns = "id, username, password_hash, created_at"

type adminRepository struct {
	repository
}

var _ auth.Repository = (*adminRepository)(nil) // interface compliance check

func NewAdminRepository(exec core.DBExecutor) *adminRepository {
	return &adminRepository{repository{exec: exec}}
}

func (repo adminRepository) CreateAdmin(ctx context.Context, admin auth.Admin, exec ...core.DBExecutor) (auth.Admin, error) {
	q := "INSERT INTO admins (username, password_hash, created_at) VALUES ($1, $2, $3) RETURNING " + adminColumns
	var created auth.Admin
	if err := repo.getExec(exec).GetContext(ctx, &created, q, admin.Username, admin.PasswordHash, admin.CreatedAt); err != nil {
		if _, ok := constraintViolation(err, uniqueViolation); ok {
			return auth.Admin{}, auth.ErrAdminExists
		}
		return auth.Admin{}, errors.Wrap(err, "inserting admin")
	}
	return created, nil
}

func (repo adminRepository) GetAdminByUsername(ctx context.Context, username string, exec ...core.DBExecutor) (auth.Admin, error) {
	var admin auth.Admin
	q := "SELECT " + adminColumns + " FROM admins WHERE username = $1"
	if err := repo.getExec(exec).GetContext(ctx, &admin, q, username); err != nil {
		return auth.Admin{}, trapNoRowsErr(err, auth.ErrAdminNotFound, "finding admin by username")
	}
	return admin, nil
}

func (repo adminRepository) UpdateAdminPassword(ctx context.Context, admin auth.Admin, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, "UPDATE admins SET password_hash = $2 WHERE id = $1", admin.ID, admin.PasswordHash)
	if err != nil {
		return errors.Wrap(err, "updating admin password")
	}
	return checkAffected(res, auth.ErrAdminNotFound, "updating admin password")
}
