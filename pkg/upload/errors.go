package upload

import (
	"errors"
	"fmt"
)

var (
	// Input and argument errors
	ErrInvalidInput    = errors.New("invalid upload input")
	ErrInvalidUpload   = errors.New("path is not a valid uploaded file") // Rejected by the upload checker
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUploadFailed    = errors.New("file upload error") // Non-zero error code in the upload record

	// Validation and storage errors
	ErrValidationFailed = errors.New("validation failed")
	ErrUploadConflict   = errors.New("file already exists")
	ErrStorageFailure   = errors.New("storage failure")

	// I/O operation errors - wrapped with context for debugging
	ErrFailedToOpenFile       = errors.New("failed to open file")
	ErrFailedToWriteFile      = errors.New("failed to write file")
	ErrFailedToStatPath       = errors.New("failed to stat path")
	ErrFailedToDetectMIMEType = errors.New("failed to detect MIME type")
	ErrFailedToParseForm      = errors.New("failed to parse multipart form")
)

// Error is a failure tied to a specific uploaded file.
// Kind is one of the package sentinels, so errors.Is works against it.
// Cause, when set, is the lower-level error that triggered the failure.
type Error struct {
	Kind    error
	Message string
	File    *File
	Cause   error
}

// NewError creates an Error of the given kind for f.
func NewError(kind error, f *File, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		File:    f,
	}
}

// WrapError is NewError with an underlying cause.
func WrapError(kind error, f *File, cause error, format string, args ...any) *Error {
	e := NewError(kind, f, format, args...)
	e.Cause = cause
	return e
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// FileFromError returns the file attached to err, if any.
func FileFromError(err error) (*File, bool) {
	var e *Error
	if errors.As(err, &e) && e.File != nil {
		return e.File, true
	}
	return nil, false
}
