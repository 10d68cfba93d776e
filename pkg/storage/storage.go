package storage

import (
	"context"

	"github.com/dmitrymomot/uploads/pkg/upload"
)

// Storage persists uploaded files.
type Storage interface {
	// Upload moves the file into the backend and returns where it now lives:
	// an absolute path for the filesystem, a public URL for object storage.
	Upload(ctx context.Context, f *upload.File) (string, error)
}

// Checker is implemented by backends that can report their readiness.
type Checker interface {
	Check(ctx context.Context) error
}
