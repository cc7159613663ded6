package storage

import (
	"context"
	"io"
)

// ImageStore persists uploaded and enhanced image blobs and returns the URL
// the rest of the system stores as the opaque image reference.
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}
