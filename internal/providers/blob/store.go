// Package blob stores document contents outside the relational database.
package blob

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob_not_found")

type Store interface {
	// Put writes the content and returns the generated storage key.
	Put(ctx context.Context, content io.Reader) (string, int64, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
