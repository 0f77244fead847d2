package inmemdb

import (
	"context"
	"sync"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/attendance"
	"github.com/trezcool/vidyalaya/core/auth"
	"github.com/trezcool/vidyalaya/core/document"
	"github.com/trezcool/vidyalaya/core/fee"
	"github.com/trezcool/vidyalaya/core/result"
	"github.com/trezcool/vidyalaya/core/student"
)

// DB is an in-memory stand-in for the postgres database, used by tests.
// Every table shares one lock so cascading deletes stay consistent.
type DB struct {
	sync.RWMutex
	txMutex sync.Mutex
	seq     map[string]int

	admins      map[int]auth.Admin
	students    map[int]student.Student
	attendances map[int]attendance.Record
	fees        map[int]fee.Fee
	results     map[int]result.Result
	documents   map[int]document.Document
}

func Open() *DB {
	return &DB{
		seq:         make(map[string]int),
		admins:      make(map[int]auth.Admin),
		students:    make(map[int]student.Student),
		attendances: make(map[int]attendance.Record),
		fees:        make(map[int]fee.Fee),
		results:     make(map[int]result.Result),
		documents:   make(map[int]document.Document),
	}
}

// nextID emulates a SERIAL column. The caller must hold the write lock.
func (db *DB) nextID(table string) int {
	db.seq[table]++
	return db.seq[table]
}

// Transactor serializes units of work. Repositories ignore the executor they are handed, and
// a failed unit of work is not rolled back.
type Transactor struct {
	db *DB
}

var _ core.Transactor = (*Transactor)(nil)

func NewTransactor(db *DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) WithTx(_ context.Context, fn func(exec core.DBExecutor) error) error {
	t.db.txMutex.Lock()
	defer t.db.txMutex.Unlock()
	return fn(nil)
}
