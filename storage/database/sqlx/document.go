package sqlxrepos

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/document"
)

const documentColumns = "id, title, category, file_path, upload_date, is_public"

type documentRepository struct {
	repository
}

var _ document.Repository = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(exec core.DBExecutor) *documentRepository {
	return &documentRepository{repository{exec: exec}}
}

func (repo documentRepository) CreateDocument(ctx context.Context, doc document.Document, exec ...core.DBExecutor) (document.Document, error) {
	q := `INSERT INTO pdfs (title, category, file_path, upload_date, is_public)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + documentColumns
	var created document.Document
	err := repo.getExec(exec).GetContext(ctx, &created, q, doc.Title, doc.Category, doc.FilePath, doc.UploadDate, doc.IsPublic)
	if err != nil {
		return document.Document{}, errors.Wrap(err, "inserting document")
	}
	return created, nil
}

func (repo documentRepository) GetDocument(ctx context.Context, id int, exec ...core.DBExecutor) (document.Document, error) {
	var doc document.Document
	q := "SELECT " + documentColumns + " FROM pdfs WHERE id = $1"
	if err := repo.getExec(exec).GetContext(ctx, &doc, q, id); err != nil {
		return document.Document{}, trapNoRowsErr(err, document.ErrNotFound, "finding document by ID")
	}
	return doc, nil
}

func (repo documentRepository) QueryDocuments(ctx context.Context, filter document.QueryFilter, exec ...core.DBExecutor) ([]document.Document, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.PublicOnly {
		conds = append(conds, "is_public = TRUE")
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}

	q := "SELECT " + documentColumns + " FROM pdfs"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY upload_date DESC, id DESC"

	docs := make([]document.Document, 0)
	if err := repo.getExec(exec).SelectContext(ctx, &docs, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying documents")
	}
	return docs, nil
}

func (repo documentRepository) UpdateDocument(ctx context.Context, doc document.Document, exec ...core.DBExecutor) (document.Document, error) {
	q := "UPDATE pdfs SET title = $2, file_path = $3, is_public = $4 WHERE id = $1 RETURNING " + documentColumns
	var updated document.Document
	if err := repo.getExec(exec).GetContext(ctx, &updated, q, doc.ID, doc.Title, doc.FilePath, doc.IsPublic); err != nil {
		return document.Document{}, trapNoRowsErr(err, document.ErrNotFound, "updating document")
	}
	return updated, nil
}

func (repo documentRepository) DeleteDocument(ctx context.Context, id int, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, "DELETE FROM pdfs WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting document")
	}
	return checkAffected(res, document.ErrNotFound, "deleting document")
}
