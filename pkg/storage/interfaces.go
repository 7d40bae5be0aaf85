package storage

import (
	"context"
	"io"
)

// BlobStorage receives raw bytes and returns an opaque public URI.
type BlobStorage interface {
	Upload(ctx context.Context, fileName string, src io.Reader, size int64) (string, error)
}
