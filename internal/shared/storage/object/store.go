package object

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("object not found")

// ObjectStore saves and retrieves raw analysis payloads.
type ObjectStore interface {
	// Save stores r under the user's namespace and returns the storage key.
	Save(ctx context.Context, userID, name, contentType string, r io.Reader) (storageKey string, sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
