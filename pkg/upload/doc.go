// Package upload turns raw HTTP upload metadata into validated, storable files.
//
// The package covers the first half of an upload pipeline: it normalizes the
// raw per-request upload table, wraps each upload as a File, and exposes the
// content-derived properties that validation rules and storage backends rely on.
// Validation lives in package validation, persistence in package storage.
//
// # Architecture
//
// Data flows through three stages:
//   - RawTable: field -> property -> scalar or slice, the "transposed" shape an
//     HTTP layer reports for multi-file fields
//   - Normalize / DataSource: reshapes it into field -> []Record, one record per file
//   - File: one upload, with lazily sniffed MIME type, extension and name
//
// FromRequest builds a RawTable from a multipart request by spooling every part
// into a temporary file and recording that file in a Registry. The Registry is
// the default Checker: New refuses any path the checker does not confirm as a
// genuine upload, which keeps arbitrary local files out of storage.
//
// # Usage
//
//	raw, err := upload.FromRequest(r)
//	if err != nil {
//		return err
//	}
//	defer func() { _ = upload.DefaultRegistry().Release(upload.TempPaths(raw)...) }()
//
//	ds, err := upload.NewDataSource(raw)
//	if err != nil {
//		return err
//	}
//
//	f, err := upload.Open(ds, "avatar", 0)
//	if err != nil {
//		return err
//	}
//
//	ext, _ := f.Extension()     // "png", from content rather than the client name
//	_ = f.SetName("user-42")    // stored as user-42.png
//	size := f.HumanSize("", 2)  // "1.50K"
//
// # Testing
//
// The genuine-upload check depends on a real request. Tests substitute it:
//
//	f, err := upload.New(path, "foo.txt", upload.WithChecker(upload.CheckerFunc(func(string) bool {
//		return true
//	})))
//
// # Error Handling
//
// Failures are wrapped sentinels, so callers switch with errors.Is:
//
//	switch {
//	case errors.Is(err, upload.ErrInvalidInput):    // malformed raw table
//	case errors.Is(err, upload.ErrUploadFailed):    // non-zero upload error code
//	case errors.Is(err, upload.ErrInvalidUpload):   // path is not an upload
//	case errors.Is(err, upload.ErrInvalidArgument): // bad name or size string
//	}
//
// Errors about a specific file are *Error values carrying the File; use
// FileFromError to retrieve it.
package upload
