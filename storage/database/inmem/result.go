package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/result"
	"github.com/trezcool/vidyalaya/core/student"
)

type resultRepository struct {
	db *DB
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(db *DB) *resultRepository {
	return &resultRepository{db: db}
}

func (repo *resultRepository) exists(r result.Result) bool {
	for _, existing := range repo.db.results {
		if existing.StudentID == r.StudentID && existing.Class == r.Class &&
			existing.Subject == r.Subject && existing.ExamType == r.ExamType {
			return true
		}
	}
	return false
}

func (repo *resultRepository) CreateResults(_ context.Context, results []result.Result, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var created int
	for _, r := range results {
		if _, ok := repo.db.students[r.StudentID]; !ok {
			return 0, student.ErrNotFound
		}
		if repo.exists(r) {
			continue
		}
		r.ID = repo.db.nextID("results")
		repo.db.results[r.ID] = r
		created++
	}
	return created, nil
}

func (repo *resultRepository) GetResult(_ context.Context, id int, _ ...core.DBExecutor) (result.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.results[id]; ok {
		return r, nil
	}
	return result.Result{}, result.ErrNotFound
}

func (repo *resultRepository) UpdateResult(_ context.Context, r result.Result, _ ...core.DBExecutor) (result.Result, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.results[r.ID]
	if !ok {
		return result.Result{}, result.ErrNotFound
	}
	orig.Marks = r.Marks
	repo.db.results[r.ID] = orig
	return orig, nil
}

func (repo *resultRepository) DeleteResult(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.results[id]; !ok {
		return result.ErrNotFound
	}
	delete(repo.db.results, id)
	return nil
}

func (repo *resultRepository) QueryResults(_ context.Context, filter result.QueryFilter, _ ...core.DBExecutor) ([]result.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	results := make([]result.Result, 0)
	for _, r := range repo.db.results {
		if filter.StudentID != 0 && r.StudentID != filter.StudentID {
			continue
		}
		if filter.Class != 0 && r.Class != filter.Class {
			continue
		}
		if filter.ExamType != "" && r.ExamType != filter.ExamType {
			continue
		}
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return lessResults(results[i], results[j], filter.Orderings)
	})
	return results, nil
}

func lessResults(a, b result.Result, orderings []core.DBOrdering) bool {
	for _, ord := range orderings {
		var cmp int
		switch ord.Field {
		case "id":
			cmp = compareInts(a.ID, b.ID)
		case "student_id":
			cmp = compareInts(a.StudentID, b.StudentID)
		case "class":
			cmp = compareInts(a.Class, b.Class)
		case "subject":
			cmp = compareStrings(string(a.Subject), string(b.Subject))
		case "exam_type":
			cmp = compareStrings(a.ExamType, b.ExamType)
		}
		if cmp != 0 {
			return (cmp < 0) == ord.Ascending
		}
	}
	return a.ID < b.ID
}
