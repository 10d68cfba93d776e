// Package validation provides composable rules for checking uploaded files.
//
// Each rule is an immutable value with a single Validate method. Rules never
// keep state between calls, so one rule set can be shared by every request.
// A failing rule returns an *upload.Error of kind upload.ErrValidationFailed
// that carries the offending file.
//
// # Usage
//
//	size, err := validation.ParseSize("2M")
//	if err != nil {
//		return err
//	}
//
//	rules := []validation.Rule{
//		validation.Extension("png", "jpg"),
//		validation.Mimetype("image/png", "image/jpeg"),
//		size,
//		validation.Dimensions(256, 256),
//	}
//
//	// Stop at the first failure
//	if err := validation.Validate(f, rules...); err != nil {
//		return err
//	}
//
//	// Or report every failure at once
//	if err := validation.ValidateAll(f, rules...); err != nil {
//		return err
//	}
package validation
