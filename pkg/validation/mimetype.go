package validation

import (
	"slices"
	"strings"

	"github.com/dmitrymomot/uploads/pkg/upload"
)

type mimetypeRule struct {
	allowed []string
}

// Mimetype allows files whose sniffed MIME type is one of allowed.
func Mimetype(allowed ...string) Rule {
	return mimetypeRule{allowed: slices.Clone(allowed)}
}

func (r mimetypeRule) Validate(f *upload.File) error {
	mt, err := f.MIMEType()
	if err != nil {
		return fail(f, "cannot determine mimetype: %v", err)
	}
	if slices.Contains(r.allowed, mt) {
		return nil
	}
	return fail(f, "invalid mimetype %q, must be one of: %s", mt, strings.Join(r.allowed, ", "))
}
