package validation

import (
	"slices"
	"strings"

	"github.com/dmitrymomot/uploads/pkg/upload"
)

type extensionRule struct {
	allowed []string
}

// Extension allows files whose resolved extension is one of allowed.
// Comparison is case-insensitive and leading dots are ignored.
func Extension(allowed ...string) Rule {
	normalized := make([]string, 0, len(allowed))
	for _, ext := range allowed {
		normalized = append(normalized, normalizeExt(ext))
	}
	return extensionRule{allowed: normalized}
}

func (r extensionRule) Validate(f *upload.File) error {
	ext, err := f.Extension()
	if err != nil {
		return fail(f, "cannot determine extension: %v", err)
	}
	if slices.Contains(r.allowed, normalizeExt(ext)) {
		return nil
	}
	return fail(f, "invalid file extension %q, must be one of: %s", ext, strings.Join(r.allowed, ", "))
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
