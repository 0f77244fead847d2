package blob

import (
	"context"
	"io"
	"net/http"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/document"
)

// OSSStore keeps blobs in an Aliyun OSS bucket; a key is used as the object name.
type OSSStore struct {
	bucket *oss.Bucket
}

var _ document.BlobStore = (*OSSStore)(nil) // interface compliance check

func NewOSSStore(conf core.OSSConfig) (*OSSStore, error) {
	client, err := oss.New(conf.Endpoint, conf.AccessKey, conf.SecretKey)
	if err != nil {
		return nil, errors.Wrap(err, "creating OSS client")
	}
	bucket, err := client.Bucket(conf.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "opening OSS bucket")
	}
	return &OSSStore{bucket: bucket}, nil
}

func isNoSuchKey(err error) bool {
	se, ok := errors.Cause(err).(oss.ServiceError)
	return ok && (se.StatusCode == http.StatusNotFound || se.Code == "NoSuchKey")
}

func (s *OSSStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	err := s.bucket.PutObject(key, r, oss.WithContext(ctx), oss.ContentType(contentType))
	return errors.Wrap(err, "uploading object")
}

func (s *OSSStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	body, err := s.bucket.GetObject(key, oss.WithContext(ctx))
	if err != nil {
		if isNoSuchKey(err) {
			return nil, document.ErrBlobNotFound
		}
		return nil, errors.Wrap(err, "downloading object")
	}
	return body, nil
}

// Delete removes the object. OSS reports success for missing objects.
func (s *OSSStore) Delete(ctx context.Context, key string) error {
	return errors.Wrap(s.bucket.DeleteObject(key, oss.WithContext(ctx)), "deleting object")
}
