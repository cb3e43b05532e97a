package objectstore

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("object not found")

// Store is the object store the API writes uploads to and the worker reads
// them back from. Implementations must be safe for concurrent use.
type Store interface {
	Put(ctx context.Context, bucket, name string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, bucket, name string) ([]byte, error)
	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, bucket, name string) error
}
