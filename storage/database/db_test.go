package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/vidyalaya/core"
)

type fakeTx struct {
	core.DBExecutor
	committed, rolledBack bool
	commitErr, rbErr      error
}

func (tx *fakeTx) Commit() error {
	tx.committed = true
	return tx.commitErr
}

func (tx *fakeTx) Rollback() error {
	tx.rolledBack = true
	return tx.rbErr
}

func TestFinishTx(t *testing.T) {
	errFn := errors.New("fn failed")

	tests := []struct {
		name           string
		tx             *fakeTx
		fnErr          error
		wantErr        string
		wantCommit     bool
		wantRolledBack bool
	}{
		{name: "commit", tx: &fakeTx{}, wantCommit: true},
		{name: "commit failure", tx: &fakeTx{commitErr: errors.New("conn lost")}, wantErr: "committing transaction: conn lost", wantCommit: true},
		{name: "rollback", tx: &fakeTx{}, fnErr: errFn, wantErr: "fn failed", wantRolledBack: true},
		{
			name: "rollback failure", tx: &fakeTx{rbErr: errors.New("conn lost")}, fnErr: errFn,
			wantErr: "rolling back transaction: conn lost: fn failed", wantRolledBack: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := finishTx(tt.tx, func(exec core.DBExecutor) error {
				assert.Equal(t, tt.tx, exec)
				return tt.fnErr
			})
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCommit, tt.tx.committed)
			assert.Equal(t, tt.wantRolledBack, tt.tx.rolledBack)
		})
	}
}

func TestFinishTx_rollsBackOnPanic(t *testing.T) {
	tx := &fakeTx{}
	assert.Panics(t, func() {
		_ = finishTx(tx, func(core.DBExecutor) error { panic("boom") })
	})
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

type fakeDB struct {
	core.DBExecutor
	beginErr error
}

func (db fakeDB) BeginTxx(context.Context, *sql.TxOptions) (*sqlx.Tx, error) {
	return nil, db.beginErr
}

func TestWithTx_beginFailure(t *testing.T) {
	tests := []struct {
		name         string
		beginErr     error
		wantShutdown bool
	}{
		{name: "bad connection", beginErr: driver.ErrBadConn, wantShutdown: true},
		{name: "connection done", beginErr: sql.ErrConnDone, wantShutdown: true},
		{name: "other", beginErr: errors.New("too many clients")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			err := WithTx(context.Background(), fakeDB{beginErr: tt.beginErr}, func(core.DBExecutor) error {
				called = true
				return nil
			})
			assert.Error(t, err)
			assert.False(t, called)
			assert.Equal(t, tt.wantShutdown, core.IsShutdown(err))
		})
	}
}
