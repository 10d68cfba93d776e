package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxMemory is the default maximum memory used for parsing multipart forms (10MB).
const DefaultMaxMemory = 10 << 20

// RequestOption configures FromRequest.
type RequestOption func(*requestOptions)

type requestOptions struct {
	maxMemory int64
	tempDir   string
	registry  *Registry
}

// WithMaxMemory sets the in-memory limit passed to ParseMultipartForm.
func WithMaxMemory(n int64) RequestOption {
	return func(o *requestOptions) {
		if n > 0 {
			o.maxMemory = n
		}
	}
}

// WithTempDir sets where uploaded parts are spooled. Defaults to os.TempDir().
func WithTempDir(dir string) RequestOption {
	return func(o *requestOptions) {
		o.tempDir = dir
	}
}

// WithRegistry sets the registry spooled files are recorded in.
// Defaults to DefaultRegistry().
func WithRegistry(r *Registry) RequestOption {
	return func(o *requestOptions) {
		if r != nil {
			o.registry = r
		}
	}
}

// FromRequest spools every uploaded part of a multipart request into a
// registered temporary file and returns the raw property-major table.
// Single-file fields carry scalar properties, multi-file fields carry slices.
// A part that cannot be spooled is reported with UploadErrCantWrite instead of
// failing the whole request.
func FromRequest(r *http.Request, opts ...RequestOption) (RawTable, error) {
	o := &requestOptions{
		maxMemory: DefaultMaxMemory,
		registry:  DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, fmt.Errorf("%w: request is not multipart/form-data", ErrInvalidInput)
	}

	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(o.maxMemory); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
		}
	}

	raw := make(RawTable, len(r.MultipartForm.File))
	for field, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}

		names := make([]string, len(headers))
		tmpNames := make([]string, len(headers))
		types := make([]string, len(headers))
		sizes := make([]int64, len(headers))
		codes := make([]ErrorCode, len(headers))

		for i, fh := range headers {
			names[i] = fh.Filename
			types[i] = fh.Header.Get("Content-Type")
			sizes[i] = fh.Size

			path, err := spool(fh, o.tempDir)
			if err != nil {
				codes[i] = UploadErrCantWrite
				continue
			}
			o.registry.Register(path)
			tmpNames[i] = path
		}

		if len(headers) == 1 {
			raw[field] = RawEntry{
				PropName:    names[0],
				PropTmpName: tmpNames[0],
				PropType:    types[0],
				PropSize:    sizes[0],
				PropError:   codes[0],
			}
			continue
		}
		raw[field] = RawEntry{
			PropName:    names,
			PropTmpName: tmpNames,
			PropType:    types,
			PropSize:    sizes,
			PropError:   codes,
		}
	}

	return raw, nil
}

// TempPaths returns every tmp_name in raw, for releasing after the request.
func TempPaths(raw RawTable) []string {
	var paths []string
	for _, records := range Normalize(raw) {
		for _, rec := range records {
			if rec.TmpName != "" {
				paths = append(paths, rec.TmpName)
			}
		}
	}
	return paths
}

// spool copies a multipart part to a new temp file and returns its path.
// The client extension is kept on the temp name so it can serve as a fallback.
func spool(fh *multipart.FileHeader, dir string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.CreateTemp(dir, "upload-*"+safeExt(fh.Filename))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	return dst.Name(), nil
}

// safeExt returns the client extension if it is short and plain alphanumeric.
func safeExt(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	ext := filepath.Ext(filepath.Base(filename))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return ""
		}
	}
	return strings.ToLower(ext)
}
