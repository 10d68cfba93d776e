// Command uploadd serves multipart uploads over HTTP and stores them on the
// local filesystem or in S3.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/uploads/pkg/config"
	"github.com/dmitrymomot/uploads/pkg/httpserver"
	"github.com/dmitrymomot/uploads/pkg/logger"
	"github.com/dmitrymomot/uploads/pkg/randomname"
	"github.com/dmitrymomot/uploads/pkg/storage"
	"github.com/dmitrymomot/uploads/pkg/upload"
	"github.com/dmitrymomot/uploads/pkg/uploadhttp"
	"github.com/dmitrymomot/uploads/pkg/validation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg Config
	if err := config.Load(&cfg, config.WithPrefix("UPLOADS_")); err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, "uploadd"),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextValue("request_id", middleware.RequestIDKey),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStorage(ctx, cfg, log)
	if err != nil {
		return err
	}

	rules, err := newRules(cfg)
	if err != nil {
		return err
	}

	maxRequest, err := upload.ParseHumanSize(cfg.MaxRequestSize)
	if err != nil {
		return fmt.Errorf("invalid max request size: %w", err)
	}

	naming, err := namingOption(cfg.Naming)
	if err != nil {
		return err
	}

	handler := uploadhttp.New(store,
		uploadhttp.WithRules(rules...),
		uploadhttp.WithLogger(log.With(logger.Component("uploadhttp"))),
		naming,
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Get("/health/live", httpserver.HealthHandler(log))
	r.Get("/health/ready", httpserver.HealthHandler(log, store.Check))
	r.Route("/uploads", func(r chi.Router) {
		r.Use(middleware.RequestSize(maxRequest))
		r.Mount("/", handler.Routes())
	})

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

type checkedStorage interface {
	storage.Storage
	storage.Checker
}

func newStorage(ctx context.Context, cfg Config, log *slog.Logger) (checkedStorage, error) {
	log = log.With(logger.Component("storage"))

	switch cfg.Storage {
	case storageFileSystem:
		fs, err := storage.NewFileSystemFromConfig(cfg.FileSystem, cfg.Overwrite, storage.WithFileSystemLogger(log))
		if err != nil {
			return nil, err
		}
		log.InfoContext(ctx, "using filesystem storage", logger.Path(fs.Dir()))
		return fs, nil
	case storageS3:
		s, err := storage.NewS3(ctx, cfg.S3, cfg.Overwrite, storage.WithS3Logger(log))
		if err != nil {
			return nil, err
		}
		log.InfoContext(ctx, "using s3 storage", slog.String("bucket", cfg.S3.Bucket))
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage %q", storage.ErrInvalidConfig, cfg.Storage)
	}
}

func namingOption(naming string) (uploadhttp.Option, error) {
	switch naming {
	case namingOriginal, "":
		return uploadhttp.WithNameGenerator(nil), nil
	case namingUUID:
		return uploadhttp.WithRandomNames(), nil
	case namingWords:
		return uploadhttp.WithNameGenerator(randomname.Generate), nil
	default:
		return nil, fmt.Errorf("%w: unknown naming %q", storage.ErrInvalidConfig, naming)
	}
}

func newRules(cfg Config) ([]validation.Rule, error) {
	var rules []validation.Rule

	if cfg.MaxFileSize != "" {
		rule, err := validation.ParseSize(cfg.MaxFileSize)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if len(cfg.AllowedExtensions) > 0 {
		rules = append(rules, validation.Extension(cfg.AllowedExtensions...))
	}
	if len(cfg.AllowedMimetypes) > 0 {
		rules = append(rules, validation.Mimetype(cfg.AllowedMimetypes...))
	}
	if cfg.ImageWidth > 0 && cfg.ImageHeight > 0 {
		rules = append(rules, validation.Dimensions(cfg.ImageWidth, cfg.ImageHeight))
	}
	return rules, nil
}
