package upload

import (
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Detector sniffs a MIME type from file content.
type Detector interface {
	Detect(path string) (string, error)
}

// MagicDetector detects MIME types from magic bytes.
type MagicDetector struct{}

// Detect implements Detector. Parameters such as charset are dropped.
func (MagicDetector) Detect(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToDetectMIMEType, err)
	}
	mediaType, _, err := mime.ParseMediaType(mt.String())
	if err != nil {
		return mt.String(), nil
	}
	return mediaType, nil
}

// InfoProvider answers basic filesystem queries about a path.
type InfoProvider interface {
	Stat(path string) (fs.FileInfo, error)
}

// InfoFunc adapts a function to InfoProvider.
type InfoFunc func(path string) (fs.FileInfo, error)

func (f InfoFunc) Stat(path string) (fs.FileInfo, error) {
	return f(path)
}

// Option configures a File.
type Option func(*fileOptions)

type fileOptions struct {
	checker  Checker
	info     InfoProvider
	detector Detector
}

// WithChecker sets the capability that confirms a path is a genuine upload.
// Defaults to DefaultRegistry().
func WithChecker(c Checker) Option {
	return func(o *fileOptions) {
		if c != nil {
			o.checker = c
		}
	}
}

// WithInfoProvider replaces os.Stat for size and type lookups.
func WithInfoProvider(p InfoProvider) Option {
	return func(o *fileOptions) {
		if p != nil {
			o.info = p
		}
	}
}

// WithDetector replaces the magic-byte MIME detector.
func WithDetector(d Detector) Option {
	return func(o *fileOptions) {
		if d != nil {
			o.detector = d
		}
	}
}

// File is a single uploaded file awaiting validation and storage.
// Computed properties are memoized and stable once observed.
// A File is not safe for concurrent use.
type File struct {
	path         string
	originalName string
	size         int64
	detector     Detector

	mimeType     string
	mimeTypeDone bool
	extension    string
	extDone      bool
	name         string
	nameDone     bool
}

// New wraps the uploaded file at path.
// originalName is the client-supplied file name and may be empty.
func New(path, originalName string, opts ...Option) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: file path is empty", ErrInvalidArgument)
	}

	o := &fileOptions{
		checker:  DefaultRegistry(),
		info:     InfoFunc(os.Stat),
		detector: MagicDetector{},
	}
	for _, opt := range opts {
		opt(o)
	}

	if !o.checker.IsUploaded(path) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUpload, path)
	}

	info, err := o.info.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToStatPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidUpload, path)
	}

	return &File{
		path:         path,
		originalName: originalName,
		size:         info.Size(),
		detector:     o.detector,
	}, nil
}

// Path returns the local path of the uploaded content.
func (f *File) Path() string {
	return f.path
}

// OriginalName returns the client-supplied file name, or "" if none was given.
func (f *File) OriginalName() string {
	return f.originalName
}

// Size returns the file size in bytes.
func (f *File) Size() int64 {
	return f.size
}

// MIMEType returns the MIME type sniffed from the file content.
// The client-declared type is never consulted.
func (f *File) MIMEType() (string, error) {
	if !f.mimeTypeDone {
		mt, err := f.detector.Detect(f.path)
		if err != nil {
			return "", err
		}
		f.mimeType = mt
		f.mimeTypeDone = true
	}
	return f.mimeType, nil
}

// Extension returns the extension (without dot) for the sniffed MIME type,
// falling back to the literal extension of the path.
func (f *File) Extension() (string, error) {
	if !f.extDone {
		mt, err := f.MIMEType()
		if err != nil {
			return "", err
		}
		ext, ok := ExtensionForMIMEType(mt)
		if !ok {
			ext = strings.TrimPrefix(filepath.Ext(f.path), ".")
		}
		f.extension = ext
		f.extDone = true
	}
	return f.extension, nil
}

// Name returns the base name of the file without its resolved extension,
// or the name set with SetName.
func (f *File) Name() (string, error) {
	if !f.nameDone {
		ext, err := f.Extension()
		if err != nil {
			return "", err
		}
		base := filepath.Base(f.path)
		name := base
		if ext != "" {
			name = strings.TrimSuffix(base, "."+ext)
		}
		if name == "" {
			name = base
		}
		f.name = name
		f.nameDone = true
	}
	return f.name, nil
}

// SetName sets the stored name. Any trailing extension is dropped, so
// "report.pdf" becomes "report". Empty names, names containing path separators
// and names that are only an extension are rejected. A dotless name counts as an
// extension only when it equals the file's own extension ("txt" for a text file),
// so stems such as "doc" or "html" stay usable. If the extension cannot be
// resolved, any known extension is refused.
func (f *File) SetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: file name must not be empty", ErrInvalidArgument)
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: file name must not contain path separators: %q", ErrInvalidArgument, name)
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" || stem == "." || stem == ".." {
		return fmt.Errorf("%w: file name is invalid: %q", ErrInvalidArgument, name)
	}
	if stem == name && f.isOwnExtension(name) {
		return fmt.Errorf("%w: file name is only an extension: %q", ErrInvalidArgument, name)
	}

	f.name = stem
	f.nameDone = true
	return nil
}

func (f *File) isOwnExtension(name string) bool {
	ext, err := f.Extension()
	if err != nil {
		return IsKnownExtension(name)
	}
	return strings.EqualFold(name, ext)
}

// HumanSize returns the size scaled to base-1024 units, e.g. "1.50K".
// Pass unit "" or "B" to pick the unit automatically.
func (f *File) HumanSize(unit string, decimals int) string {
	return FormatSize(f.size, unit, decimals)
}

// Filename returns name.extension as it will be stored.
func (f *File) Filename() (string, error) {
	name, err := f.Name()
	if err != nil {
		return "", err
	}
	ext, err := f.Extension()
	if err != nil {
		return "", err
	}
	if ext == "" {
		return name, nil
	}
	return name + "." + ext, nil
}
