package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates no object exists at the requested key.
var ErrNotFound = errors.New("object not found")

// Store defines the contract for retrieving and saving binary documents.
// Objects are addressed by an opaque key (the agreement's s3_path).
type Store interface {
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}

// ReadAll fetches an object fully into memory.
func ReadAll(ctx context.Context, store Store, storageKey string) ([]byte, error) {
	body, err := store.Open(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}
