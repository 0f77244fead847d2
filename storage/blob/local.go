package blob

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core/document"
)

var errInvalidKey = errors.New("invalid blob key")

// LocalStore keeps blobs as files below a root directory; a key maps to root/key.
type LocalStore struct {
	root string
}

var _ document.BlobStore = (*LocalStore)(nil) // interface compliance check

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating blob root")
	}
	return &LocalStore{root: root}, nil
}

// Root is the directory the store serves files from.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) path(key string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(key, `\`, "/"))
	if cleaned == "/" {
		return "", errInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

func (s *LocalStore) Put(_ context.Context, key string, r io.Reader, _ string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(err, "creating blob directory")
	}

	f, err := os.Create(p)
	if err != nil {
		return errors.Wrap(err, "creating blob file")
	}
	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return errors.Wrap(err, "writing blob file")
	}
	return errors.Wrap(f.Close(), "closing blob file")
}

func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, document.ErrBlobNotFound
		}
		return nil, errors.Wrap(err, "opening blob file")
	}
	return f, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err = os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return document.ErrBlobNotFound
		}
		return errors.Wrap(err, "removing blob file")
	}
	return nil
}
