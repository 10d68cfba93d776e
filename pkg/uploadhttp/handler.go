package uploadhttp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/uploads/pkg/logger"
	"github.com/dmitrymomot/uploads/pkg/sanitizer"
	"github.com/dmitrymomot/uploads/pkg/storage"
	"github.com/dmitrymomot/uploads/pkg/upload"
	"github.com/dmitrymomot/uploads/pkg/validation"
)

// Handler receives multipart uploads and stores them.
type Handler struct {
	store     storage.Storage
	rules     []validation.Rule
	maxMemory int64
	nameFunc  func() string
	registry  *upload.Registry
	logger    *slog.Logger
}

// Option configures Handler.
type Option func(*Handler)

// WithRules sets the rules every file must pass before it is stored.
// All rules are evaluated so the response lists every failure.
func WithRules(rules ...validation.Rule) Option {
	return func(h *Handler) {
		h.rules = append(h.rules, rules...)
	}
}

// WithMaxMemory sets the multipart parser's in-memory limit.
func WithMaxMemory(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxMemory = n
		}
	}
}

// WithRandomNames stores files under a random UUID name instead of the
// client-supplied one. The detected extension is kept.
func WithRandomNames() Option {
	return WithNameGenerator(upload.RandomName)
}

// WithNameGenerator names every stored file with fn, e.g. randomname.Generate.
// The detected extension is kept.
func WithNameGenerator(fn func() string) Option {
	return func(h *Handler) {
		h.nameFunc = fn
	}
}

// WithLogger sets the logger for request events.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithRegistry sets the registry that tracks spooled temp files.
// Defaults to upload.DefaultRegistry().
func WithRegistry(r *upload.Registry) Option {
	return func(h *Handler) {
		if r != nil {
			h.registry = r
		}
	}
}

// New creates a Handler storing into store.
func New(store storage.Storage, opts ...Option) *Handler {
	h := &Handler{
		store:     store,
		maxMemory: upload.DefaultMaxMemory,
		registry:  upload.DefaultRegistry(),
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns a router serving POST /{field}.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{field}", h.ServeUpload)
	return r
}

// ServeUpload stores every file posted under the {field} URL parameter.
// Files are processed in order and the first failure aborts the request;
// files stored before it are kept.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	field := chi.URLParam(r, "field")
	log := h.logger.With(logger.Field(field))

	raw, err := upload.FromRequest(r,
		upload.WithMaxMemory(h.maxMemory),
		upload.WithRegistry(h.registry),
	)
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if err != nil {
		h.respondError(w, r, log, err)
		return
	}
	defer func() {
		if err := h.registry.Release(upload.TempPaths(raw)...); err != nil {
			log.WarnContext(ctx, "failed to release temp files", logger.Error(err))
		}
	}()

	ds, err := upload.NewDataSource(raw)
	if err != nil {
		h.respondError(w, r, log, err)
		return
	}

	records, ok := ds.Get(field)
	if !ok {
		h.respondError(w, r, log, upload.NewError(upload.ErrInvalidInput, nil, "no files in field %q", field))
		return
	}

	result := UploadResult{Files: make([]StoredFile, 0, len(records))}
	for i := range records {
		stored, err := h.storeFile(r, ds, field, i)
		if err != nil {
			h.respondError(w, r, log, err)
			return
		}
		result.Files = append(result.Files, stored)
	}

	log.InfoContext(ctx, "upload complete", slog.Int("files", len(result.Files)))
	if err := writeJSON(w, http.StatusCreated, Response{Data: result}); err != nil {
		log.ErrorContext(ctx, "failed to write response", logger.Error(err))
	}
}

func (h *Handler) storeFile(r *http.Request, ds *upload.DataSource, field string, index int) (StoredFile, error) {
	f, err := upload.Open(ds, field, index, upload.WithChecker(h.registry))
	if err != nil {
		return StoredFile{}, err
	}

	if h.nameFunc != nil {
		if err := f.SetName(h.nameFunc()); err != nil {
			return StoredFile{}, err
		}
	} else if name := sanitizer.Filename(f.OriginalName()); name != "" {
		// Unusable client names keep the spooled temp name
		_ = f.SetName(name)
	}

	if err := validation.ValidateAll(f, h.rules...); err != nil {
		return StoredFile{}, err
	}

	filename, err := f.Filename()
	if err != nil {
		return StoredFile{}, upload.WrapError(upload.ErrInvalidUpload, f, err, "cannot resolve file name")
	}
	mimeType, _ := f.MIMEType()

	location, err := h.store.Upload(r.Context(), f)
	if err != nil {
		return StoredFile{}, err
	}

	return StoredFile{
		Field:        field,
		OriginalName: f.OriginalName(),
		Filename:     filename,
		Location:     location,
		MIMEType:     mimeType,
		Size:         f.Size(),
		HumanSize:    f.HumanSize("", 2),
	}, nil
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	httpErr := HTTPErrorFor(err)

	detail := &ErrorDetail{
		Code:    httpErr.Key,
		Message: err.Error(),
	}
	if httpErr.Code >= http.StatusInternalServerError {
		detail.Message = http.StatusText(httpErr.Code)
		log.ErrorContext(r.Context(), "upload failed", logger.Error(err))
	} else {
		log.WarnContext(r.Context(), "upload rejected", logger.Error(err))
	}

	if errors.Is(err, upload.ErrValidationFailed) {
		detail.Details = failureDetails(err)
	}

	if werr := writeJSON(w, httpErr.Code, Response{Error: detail}); werr != nil {
		log.ErrorContext(r.Context(), "failed to write response", logger.Error(werr))
	}
}

// failureDetails groups validation messages by the client file name.
func failureDetails(err error) map[string][]string {
	failures := validation.Failures(err)
	if len(failures) == 0 {
		return nil
	}
	details := make(map[string][]string, len(failures))
	for _, fe := range failures {
		key := ""
		if fe.File != nil {
			key = fe.File.OriginalName()
		}
		details[key] = append(details[key], fe.Message)
	}
	return details
}
