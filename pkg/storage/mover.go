package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// Mover relocates an uploaded file's content from src to dst.
type Mover interface {
	Move(ctx context.Context, src, dst string) error
}

// MoverFunc adapts a function to Mover.
type MoverFunc func(ctx context.Context, src, dst string) error

func (f MoverFunc) Move(ctx context.Context, src, dst string) error {
	return f(ctx, src, dst)
}

// RenameMover renames src to dst, which is atomic on the same filesystem.
// Across devices it falls back to copy-then-remove.
type RenameMover struct{}

func (RenameMover) Move(ctx context.Context, src, dst string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("%w: %v", ErrFailedToMoveFile, err)
	}

	if err := copyFile(ctx, src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("%w: remove source: %v", ErrFailedToMoveFile, err)
	}
	return nil
}

// copyFile streams src into dst with context checks between chunks.
// A partially written dst is removed on failure.
func copyFile(ctx context.Context, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToMoveFile, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToMoveFile, err)
	}

	abort := func(err error) error {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}

	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return abort(ctx.Err())
		default:
		}

		n, readErr := in.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return abort(fmt.Errorf("%w: %v", ErrFailedToMoveFile, writeErr))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return abort(fmt.Errorf("%w: %v", ErrFailedToMoveFile, readErr))
		}
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("%w: %v", ErrFailedToMoveFile, err)
	}
	return nil
}
