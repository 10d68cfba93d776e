// Package storage moves validated uploads into a storage backend.
//
// Two backends implement Storage:
//   - FileSystem: renames the upload into a local directory as <name>.<extension>
//   - S3: puts the upload into an S3 (or S3-compatible) bucket and removes the temp file
//
// Both fail fast: FileSystem refuses a target directory that is missing or not
// writable at construction time, and both refuse to replace an existing file
// unless overwrite is enabled.
//
// # Usage
//
//	store, err := storage.NewFileSystem("/var/uploads", false)
//	if err != nil {
//		return err
//	}
//
//	dst, err := store.Upload(ctx, f)
//	switch {
//	case errors.Is(err, upload.ErrUploadConflict):
//		// name taken, pick another with f.SetName and retry
//	case errors.Is(err, upload.ErrStorageFailure):
//		// environmental failure: permissions, cross-device copy, S3 outage
//	}
//
// # Testing
//
// The default mover renames the temp file produced by the upload. Tests that
// have no genuine upload replace it:
//
//	store, _ := storage.NewFileSystem(dir, true, storage.WithMover(storage.MoverFunc(
//		func(ctx context.Context, src, dst string) error { return nil },
//	)))
//
// S3 accepts any S3Client through WithS3Client.
//
// # Concurrency
//
// The "destination exists" check and the move are two steps. Concurrent
// uploads of the same name can race; add external locking when that matters.
package storage
