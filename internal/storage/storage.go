package storage

import (
	"context"
	"io"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations. In
// referenced certificate mode the workout service writes bytes here
// before committing the owning record, and releases them when the record
// (or its certificate) goes away.
type FileStorage interface {
	// Upload writes an object and blocks until the store has accepted it
	// durably. The record referencing objectKey must not be committed
	// before Upload returns.
	Upload(ctx context.Context, objectKey string, contentType string, body io.Reader) error

	// Download reads an object back in full.
	Download(ctx context.Context, objectKey string) ([]byte, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests for downloading an object directly from the provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}
