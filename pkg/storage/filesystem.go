package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/uploads/pkg/logger"
	"github.com/dmitrymomot/uploads/pkg/upload"
)

// FileSystemConfig configures a FileSystem from the environment.
type FileSystemConfig struct {
	Dir string `env:"DIR" envDefault:"./uploads"`
}

// FileSystem stores uploads in a local directory as <name>.<extension>.
//
// The existence check and the move are not atomic: two concurrent uploads of
// the same name can both pass the check. Callers that need exclusivity must
// serialize uploads per destination themselves.
type FileSystem struct {
	dir       string // Absolute path
	overwrite bool
	mover     Mover
	logger    *slog.Logger
}

// FileSystemOption configures FileSystem.
type FileSystemOption func(*FileSystem)

// WithMover replaces the default RenameMover.
func WithMover(m Mover) FileSystemOption {
	return func(s *FileSystem) {
		if m != nil {
			s.mover = m
		}
	}
}

// WithFileSystemLogger sets the logger for storage events.
func WithFileSystemLogger(l *slog.Logger) FileSystemOption {
	return func(s *FileSystem) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileSystem creates filesystem storage rooted at dir.
// dir must already exist and be writable.
func NewFileSystem(dir string, overwrite bool, opts ...FileSystemOption) (*FileSystem, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: directory is empty", upload.ErrInvalidArgument)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot resolve directory %s: %v", upload.ErrInvalidArgument, dir, err)
	}

	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("%w: directory does not exist: %s", upload.ErrInvalidArgument, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: path is not a directory: %s", upload.ErrInvalidArgument, dir)
	}

	if err := probeWritable(absDir); err != nil {
		return nil, fmt.Errorf("%w: directory is not writable: %s", upload.ErrInvalidArgument, dir)
	}

	s := &FileSystem{
		dir:       absDir,
		overwrite: overwrite,
		mover:     RenameMover{},
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFileSystemFromConfig is NewFileSystem driven by FileSystemConfig.
func NewFileSystemFromConfig(cfg FileSystemConfig, overwrite bool, opts ...FileSystemOption) (*FileSystem, error) {
	return NewFileSystem(cfg.Dir, overwrite, opts...)
}

// Dir returns the absolute target directory.
func (s *FileSystem) Dir() string {
	return s.dir
}

// Check reports whether the target directory is still present and writable.
func (s *FileSystem) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", upload.ErrStorageFailure, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: not a directory: %s", upload.ErrStorageFailure, s.dir)
	}
	if err := probeWritable(s.dir); err != nil {
		return fmt.Errorf("%w: %v", upload.ErrStorageFailure, err)
	}
	return nil
}

// Upload moves f into the target directory and returns the destination path.
// With overwrite disabled an existing destination yields upload.ErrUploadConflict
// and nothing is moved.
func (s *FileSystem) Upload(ctx context.Context, f *upload.File) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if f == nil {
		return "", fmt.Errorf("%w: file is nil", upload.ErrInvalidArgument)
	}

	filename, err := f.Filename()
	if err != nil {
		return "", upload.WrapError(upload.ErrStorageFailure, f, err, "cannot resolve file name")
	}

	dst, err := s.resolvePath(filename)
	if err != nil {
		return "", upload.WrapError(upload.ErrInvalidArgument, f, err, "invalid destination")
	}

	if !s.overwrite {
		_, err := os.Lstat(dst)
		if err == nil {
			return "", upload.NewError(upload.ErrUploadConflict, f, "file already exists: %s", filename)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", upload.WrapError(upload.ErrStorageFailure, f, err, "cannot stat destination")
		}
	}

	if err := s.mover.Move(ctx, f.Path(), dst); err != nil {
		s.logger.ErrorContext(ctx, "failed to move upload",
			logger.Path(f.Path()),
			slog.String("destination", dst),
			logger.Error(err),
		)
		return "", upload.WrapError(upload.ErrStorageFailure, f, err, "cannot move %s", filename)
	}

	s.logger.InfoContext(ctx, "upload stored",
		slog.String("destination", dst),
		logger.Size(f.Size()),
	)
	return dst, nil
}

// resolvePath keeps the destination inside dir.
func (s *FileSystem) resolvePath(filename string) (string, error) {
	absPath := filepath.Join(s.dir, filepath.Clean(filename))
	root := strings.TrimSuffix(s.dir, string(filepath.Separator)) + string(filepath.Separator)
	if !strings.HasPrefix(absPath, root) {
		return "", fmt.Errorf("path escapes target directory: %s", filename)
	}
	return absPath, nil
}

func probeWritable(dir string) error {
	probe, err := os.CreateTemp(dir, ".write-probe-*")
	if err != nil {
		return err
	}
	_ = probe.Close()
	return os.Remove(probe.Name())
}
