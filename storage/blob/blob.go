// Package blob provides the document.BlobStore backends.
package blob

import (
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/document"
)

const (
	BackendLocal = "local"
	BackendOSS   = "oss"
)

// NewStore returns the backend selected by conf.Storage.Backend.
func NewStore(conf *core.Config) (document.BlobStore, error) {
	switch conf.Storage.Backend {
	case "", BackendLocal:
		return NewLocalStore(conf.Storage.UploadDir)
	case BackendOSS:
		return NewOSSStore(conf.Storage.OSS)
	default:
		return nil, errors.Errorf("unknown storage backend %q", conf.Storage.Backend)
	}
}
