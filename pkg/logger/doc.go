// Package logger builds *slog.Logger values with functional options and
// provides attribute helpers so upload-related keys are named consistently.
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment("production", "uploadd"),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//
//	log.InfoContext(ctx, "upload stored",
//		logger.Field("avatar"),
//		logger.Path(dst),
//		logger.Size(f.Size()),
//	)
//
// Library packages accept a *slog.Logger and default to Discard().
package logger
