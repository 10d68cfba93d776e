package validation

import (
	"fmt"

	"github.com/dmitrymomot/uploads/pkg/upload"
)

type sizeRule struct {
	min int64
	max int64
}

// Size fails files larger than max bytes.
func Size(max int64) Rule {
	return sizeRule{max: max}
}

// SizeBetween fails files smaller than min or larger than max bytes.
func SizeBetween(min, max int64) Rule {
	return sizeRule{min: min, max: max}
}

// ParseSize is Size with a human-readable limit such as "500B" or "2M".
func ParseSize(max string) (Rule, error) {
	n, err := upload.ParseHumanSize(max)
	if err != nil {
		return nil, err
	}
	return Size(n), nil
}

// ParseSizeBetween is SizeBetween with human-readable limits.
func ParseSizeBetween(min, max string) (Rule, error) {
	lo, err := upload.ParseHumanSize(min)
	if err != nil {
		return nil, err
	}
	hi, err := upload.ParseHumanSize(max)
	if err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, fmt.Errorf("%w: minimum size %s exceeds maximum %s", upload.ErrInvalidArgument, min, max)
	}
	return SizeBetween(lo, hi), nil
}

func (r sizeRule) Validate(f *upload.File) error {
	size := f.Size()
	if size > r.max {
		return fail(f, "file size %s exceeds maximum %s", f.HumanSize("", 2), upload.FormatSize(r.max, "", 2))
	}
	if size < r.min {
		return fail(f, "file size %s is below minimum %s", f.HumanSize("", 2), upload.FormatSize(r.min, "", 2))
	}
	return nil
}
