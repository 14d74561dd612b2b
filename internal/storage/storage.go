package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	cfg "github.com/notestack/notestack/internal/config"
)

// Zone is one of the two blob namespaces a submission can live in.
type Zone string

const (
	ZonePending  Zone = "pending"
	ZoneApproved Zone = "approved"
)

var (
	// ErrNotFound means no blob exists under the given zone and key.
	ErrNotFound = errors.New("blob not found")
)

// Storage holds submission bytes in two zones keyed by storage key.
// Keys are unique across both zones; the caller generates them (see NewKey).
type Storage interface {
	// Save stores the payload under key in the given zone.
	Save(ctx context.Context, zone Zone, key string, r io.Reader) error

	// Move relocates a blob between zones. The move is all-or-nothing: it
	// never leaves the blob visible in both zones or in neither.
	Move(ctx context.Context, key string, from, to Zone) error

	// Delete removes a blob. An already-absent blob is success, so retried
	// moderation actions stay idempotent.
	Delete(ctx context.Context, zone Zone, key string) error

	// Open returns the blob's bytes for viewing or download.
	Open(ctx context.Context, zone Zone, key string) (io.ReadCloser, error)
}

// New creates the storage backend selected by config.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "local":
		slog.Info("initializing local storage", "path", c.StoragePath)
		return NewLocalStorage(c.StoragePath)
	case "s3":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}
