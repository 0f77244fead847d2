package document

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/auth"
)

const defaultExt = "pdf"

var (
	// errors
	ErrNotFound     = core.NewNotFoundError(errors.New("document not found"))
	ErrFileNotFound = core.NewNotFoundError(errors.New("file not found"))
	ErrForbidden    = core.NewForbiddenError(errors.New("access denied"))

	// ErrBlobNotFound is returned by blob stores for unknown keys.
	ErrBlobNotFound = errors.New("blob not found")
)

type (
	// BlobStore keeps document bytes keyed by their stored path (uploads/{category}/{file}).
	BlobStore interface {
		Put(ctx context.Context, key string, r io.Reader, contentType string) error
		Open(ctx context.Context, key string) (io.ReadCloser, error)
		Delete(ctx context.Context, key string) error
	}

	Repository interface {
		CreateDocument(ctx context.Context, doc Document, exec ...core.DBExecutor) (Document, error)
		GetDocument(ctx context.Context, id int, exec ...core.DBExecutor) (Document, error)
		// QueryDocuments returns matching documents, latest upload first.
		QueryDocuments(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Document, error)
		UpdateDocument(ctx context.Context, doc Document, exec ...core.DBExecutor) (Document, error)
		DeleteDocument(ctx context.Context, id int, exec ...core.DBExecutor) error
	}

	Service struct {
		tx      core.Transactor
		repo    Repository
		blobs   BlobStore
		logger  core.Logger
		nowFunc func() time.Time
	}
)

func NewService(tx core.Transactor, repo Repository, blobs BlobStore, logger core.Logger) *Service {
	return &Service{tx: tx, repo: repo, blobs: blobs, logger: logger, nowFunc: time.Now}
}

// storedName generates a fresh name for an uploaded file, keeping the original extension.
func storedName(original string) string {
	ext := defaultExt
	base := path.Base(strings.ReplaceAll(original, `\`, "/"))
	if i := strings.LastIndex(base, "."); i >= 0 && i < len(base)-1 {
		ext = base[i+1:]
	}
	return uuid.New().String() + "." + ext
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Upload stores the file under the category folder and records it. nd must have been validated.
func (svc *Service) Upload(ctx context.Context, nd NewDocument, filename string, r io.Reader) (Document, error) {
	key := path.Join(nd.category.Dir(), storedName(filename))
	if err := svc.blobs.Put(ctx, key, r, contentType(key)); err != nil {
		return Document{}, errors.Wrap(err, "storing uploaded file")
	}

	doc, err := svc.repo.CreateDocument(ctx, Document{
		Title:      nd.Title,
		Category:   nd.category,
		FilePath:   key,
		UploadDate: svc.nowFunc().UTC(),
		IsPublic:   nd.public(),
	})
	if err != nil {
		if dErr := svc.blobs.Delete(ctx, key); dErr != nil {
			svc.logger.Error("removing orphaned upload", dErr, map[string]interface{}{"key": key})
		}
		return Document{}, err
	}
	return doc, nil
}

func (svc *Service) list(ctx context.Context, category string, publicOnly bool) ([]Document, error) {
	filter := QueryFilter{PublicOnly: publicOnly}
	if category = core.CleanString(category); category != "" {
		filter.Category = Category(strings.ToUpper(category))
	}
	return svc.repo.QueryDocuments(ctx, filter)
}

func (svc *Service) ListPublic(ctx context.Context, category string) ([]Document, error) {
	return svc.list(ctx, category, true)
}

func (svc *Service) ListAll(ctx context.Context, category string) ([]Document, error) {
	return svc.list(ctx, category, false)
}

// Get returns a document to p; p is nil for anonymous callers. Private documents are only
// visible to admins.
func (svc *Service) Get(ctx context.Context, id int, p auth.Principal) (Document, error) {
	doc, err := svc.repo.GetDocument(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if !doc.IsPublic && !auth.IsAdmin(p) {
		return Document{}, ErrForbidden
	}
	return doc, nil
}

func (svc *Service) Update(ctx context.Context, id int, ud UpdateDocument) (Document, error) {
	var updated Document
	err := svc.tx.WithTx(ctx, func(exec core.DBExecutor) error {
		doc, err := svc.repo.GetDocument(ctx, id, exec)
		if err != nil {
			return err
		}
		if ud.Title != nil {
			doc.Title = *ud.Title
		}
		if ud.IsPublic != nil {
			doc.IsPublic = *ud.IsPublic
		}
		updated, err = svc.repo.UpdateDocument(ctx, doc, exec)
		return err
	})
	if err != nil {
		return Document{}, err
	}
	return updated, nil
}

// Delete removes the document and its file. A file already gone does not fail the deletion.
func (svc *Service) Delete(ctx context.Context, id int) error {
	doc, err := svc.repo.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.blobs.Delete(ctx, doc.FilePath); err != nil && errors.Cause(err) != ErrBlobNotFound {
		svc.logger.Warn("removing document file", err, map[string]interface{}{"key": doc.FilePath})
	}
	return svc.repo.DeleteDocument(ctx, id)
}

// OpenNotice opens a file of the notice folder by its stored name.
func (svc *Service) OpenNotice(ctx context.Context, filename string) (io.ReadCloser, error) {
	if filename == "" || filename != path.Base(filename) || strings.Contains(filename, `\`) || filename == ".." {
		return nil, ErrFileNotFound
	}
	rc, err := svc.blobs.Open(ctx, path.Join(CategoryNotice.Dir(), filename))
	if err != nil {
		if errors.Cause(err) == ErrBlobNotFound {
			return nil, ErrFileNotFound
		}
		return nil, errors.Wrap(err, "opening notice file")
	}
	return rc, nil
}

// NormalizeLegacyPaths rewrites every stored path to its normalized form and returns how many
// documents changed. Running it again changes nothing.
func (svc *Service) NormalizeLegacyPaths(ctx context.Context) (int, error) {
	var updated int
	err := svc.tx.WithTx(ctx, func(exec core.DBExecutor) error {
		docs, err := svc.repo.QueryDocuments(ctx, QueryFilter{}, exec)
		if err != nil {
			return errors.Wrap(err, "querying documents")
		}
		for _, doc := range docs {
			if doc.FilePath == "" {
				continue
			}
			normalized := NormalizePath(doc.FilePath)
			if normalized == doc.FilePath {
				continue
			}
			doc.FilePath = normalized
			if _, err = svc.repo.UpdateDocument(ctx, doc, exec); err != nil {
				return errors.Wrapf(err, "normalizing path of document %d", doc.ID)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
