package validation

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/uploads/pkg/upload"
)

// Rule checks a single property of an uploaded file.
type Rule interface {
	Validate(f *upload.File) error
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(f *upload.File) error

func (fn RuleFunc) Validate(f *upload.File) error {
	return fn(f)
}

// Validate runs rules in order and returns the first failure.
func Validate(f *upload.File, rules ...Rule) error {
	if f == nil {
		return fmt.Errorf("%w: file is nil", upload.ErrInvalidArgument)
	}
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if err := rule.Validate(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAll runs every rule and joins all failures.
func ValidateAll(f *upload.File, rules ...Rule) error {
	if f == nil {
		return fmt.Errorf("%w: file is nil", upload.ErrInvalidArgument)
	}
	var errs []error
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if err := rule.Validate(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Failures extracts the per-rule failures from an error returned by Validate
// or ValidateAll.
func Failures(err error) []*upload.Error {
	if err == nil {
		return nil
	}

	if ue, ok := err.(*upload.Error); ok {
		if errors.Is(ue.Kind, upload.ErrValidationFailed) {
			return []*upload.Error{ue}
		}
		return nil
	}

	var out []*upload.Error
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			out = append(out, Failures(e)...)
		}
	case interface{ Unwrap() error }:
		out = Failures(x.Unwrap())
	}
	return out
}

func fail(f *upload.File, format string, args ...any) error {
	return upload.NewError(upload.ErrValidationFailed, f, format, args...)
}
