package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving binary objects and
// resolving a durable, publicly addressable URL for them.
type ObjectStore interface {
	Save(ctx context.Context, userId string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	URL(storageKey string) string
}
