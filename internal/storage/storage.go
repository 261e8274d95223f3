package storage

import (
	"context"
	"io"
)

// BlobStore persists uploaded item images and returns the URL they will be
// served from.
type BlobStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}
