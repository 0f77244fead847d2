package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/document"
)

type documentRepository struct {
	db *DB
}

var _ document.Repository = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(db *DB) *documentRepository {
	return &documentRepository{db: db}
}

func (repo *documentRepository) CreateDocument(_ context.Context, doc document.Document, _ ...core.DBExecutor) (document.Document, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	doc.ID = repo.db.nextID("pdfs")
	repo.db.documents[doc.ID] = doc
	return doc, nil
}

func (repo *documentRepository) GetDocument(_ context.Context, id int, _ ...core.DBExecutor) (document.Document, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if doc, ok := repo.db.documents[id]; ok {
		return doc, nil
	}
	return document.Document{}, document.ErrNotFound
}

func (repo *documentRepository) QueryDocuments(_ context.Context, filter document.QueryFilter, _ ...core.DBExecutor) ([]document.Document, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	docs := make([]document.Document, 0)
	for _, doc := range repo.db.documents {
		if filter.PublicOnly && !doc.IsPublic {
			continue
		}
		if filter.Category != "" && doc.Category != filter.Category {
			continue
		}
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if cmp := compareTimes(docs[i].UploadDate, docs[j].UploadDate); cmp != 0 {
			return cmp > 0
		}
		return docs[i].ID > docs[j].ID
	})
	return docs, nil
}

func (repo *documentRepository) UpdateDocument(_ context.Context, doc document.Document, _ ...core.DBExecutor) (document.Document, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.documents[doc.ID]
	if !ok {
		return document.Document{}, document.ErrNotFound
	}
	orig.Title = doc.Title
	orig.FilePath = doc.FilePath
	orig.IsPublic = doc.IsPublic
	repo.db.documents[doc.ID] = orig
	return orig, nil
}

func (repo *documentRepository) DeleteDocument(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.documents[id]; !ok {
		return document.ErrNotFound
	}
	delete(repo.db.documents, id)
	return nil
}
