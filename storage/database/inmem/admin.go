package inmemdb

import (
	"context"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/auth"
)

type adminRepository struct {
	db *DB
}

var _ auth.Repository = (*adminRepository)(nil) // interface compliance check

func NewAdminRepository(db *DB) *adminRepository {
	return &adminRepository{db: db}
}

func (repo *adminRepository) CreateAdmin(_ context.Context, admin auth.Admin, _ ...core.DBExecutor) (auth.Admin, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, a := range repo.db.admins {
		if a.Username == admin.Username {
			return auth.Admin{}, auth.ErrAdminExists
		}
	}
	admin.ID = repo.db.nextID("admins")
	repo.db.admins[admin.ID] = admin
	return admin, nil
}

func (repo *adminRepository) GetAdminByUsername(_ context.Context, username string, _ ...core.DBExecutor) (auth.Admin, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, a := range repo.db.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return auth.Admin{}, auth.ErrAdminNotFound
}

func (repo *adminRepository) UpdateAdminPassword(_ context.Context, admin auth.Admin, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.admins[admin.ID]
	if !ok {
		return auth.ErrAdminNotFound
	}
	orig.PasswordHash = admin.PasswordHash
	repo.db.admins[admin.ID] = orig
	return nil
}
