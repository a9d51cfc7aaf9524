package storage

import (
	"context"
	"io"
)

// Storage stores uploaded blobs (avatar images) and hands back a public URL.
type Storage interface {
	// Upload stores the blob under key and returns its public URL.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)

	// Delete removes the blob. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
