// Package uploadhttp exposes upload handling over HTTP using chi.
//
// A Handler accepts multipart/form-data posts at /{field}, spools every file
// of that field, validates it against the configured rules and hands it to a
// storage.Storage backend. Responses are JSON:
//
//	{"data":{"files":[{"field":"avatar","filename":"me.png",...}]}}
//	{"error":{"code":"validation_failed","message":"...","details":{...}}}
//
// Usage:
//
//	fs, err := storage.NewFileSystem("/var/uploads", false)
//	if err != nil {
//		return err
//	}
//	h := uploadhttp.New(fs,
//		uploadhttp.WithRules(validation.Extension("png", "jpg"), validation.Size(5<<20)),
//		uploadhttp.WithRandomNames(),
//	)
//	r := chi.NewRouter()
//	r.Mount("/uploads", h.Routes())
//
// Temporary files are released once the request completes, whether or not
// they were stored.
package uploadhttp
