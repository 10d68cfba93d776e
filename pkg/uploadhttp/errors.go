package uploadhttp

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/uploads/pkg/upload"
)

// HTTPError pairs an HTTP status code with a stable machine-readable key.
type HTTPError struct {
	Code int    // HTTP status code
	Key  string // Error code in the response body
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Key
}

var (
	ErrBadRequest       = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrTooLarge         = HTTPError{Code: http.StatusRequestEntityTooLarge, Key: "request_too_large"}
	ErrInvalidInput     = HTTPError{Code: http.StatusBadRequest, Key: "invalid_input"}
	ErrInvalidUpload    = HTTPError{Code: http.StatusBadRequest, Key: "invalid_upload"}
	ErrUploadFailed     = HTTPError{Code: http.StatusBadRequest, Key: "upload_failed"}
	ErrConflict         = HTTPError{Code: http.StatusConflict, Key: "upload_conflict"}
	ErrValidationFailed = HTTPError{Code: http.StatusUnprocessableEntity, Key: "validation_failed"}
	ErrStorageFailure   = HTTPError{Code: http.StatusInternalServerError, Key: "storage_failure"}
	ErrInternal         = HTTPError{Code: http.StatusInternalServerError, Key: "internal_error"}
)

// statusMapping is checked in order; the first matching sentinel wins.
var statusMapping = []struct {
	target  error
	httpErr HTTPError
}{
	{upload.ErrValidationFailed, ErrValidationFailed},
	{upload.ErrUploadConflict, ErrConflict},
	{upload.ErrStorageFailure, ErrStorageFailure},
	{upload.ErrUploadFailed, ErrUploadFailed},
	{upload.ErrInvalidUpload, ErrInvalidUpload},
	{upload.ErrInvalidInput, ErrInvalidInput},
	{upload.ErrInvalidArgument, ErrInvalidInput},
	{upload.ErrFailedToParseForm, ErrBadRequest},
}

// HTTPErrorFor maps an upload error to its HTTP representation.
// A body cut off by http.MaxBytesReader maps to ErrTooLarge.
// Unrecognized errors map to ErrInternal.
func HTTPErrorFor(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrTooLarge
	}
	for _, m := range statusMapping {
		if errors.Is(err, m.target) {
			return m.httpErr
		}
	}
	return ErrInternal
}
