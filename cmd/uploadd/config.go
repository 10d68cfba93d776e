package main

import (
	"github.com/dmitrymomot/uploads/pkg/httpserver"
	"github.com/dmitrymomot/uploads/pkg/storage"
)

const (
	storageFileSystem = "filesystem"
	storageS3         = "s3"

	namingOriginal = "original"
	namingUUID     = "uuid"
	namingWords    = "words"
)

// Config is loaded from UPLOADS_* environment variables.
type Config struct {
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"` // Overrides the environment default

	Storage   string `env:"STORAGE" envDefault:"filesystem"` // filesystem or s3
	Overwrite bool   `env:"OVERWRITE"`
	Naming    string `env:"NAMING" envDefault:"original"` // original, uuid or words

	AllowedExtensions []string `env:"ALLOWED_EXTENSIONS" envSeparator:","`
	AllowedMimetypes  []string `env:"ALLOWED_MIMETYPES" envSeparator:","`
	MaxFileSize       string   `env:"MAX_FILE_SIZE" envDefault:"10M"`
	MaxRequestSize    string   `env:"MAX_REQUEST_SIZE" envDefault:"64M"`
	ImageWidth        int      `env:"IMAGE_WIDTH"` // Exact dimensions required when both are set
	ImageHeight       int      `env:"IMAGE_HEIGHT"`

	HTTP       httpserver.Config        `envPrefix:"HTTP_"`
	FileSystem storage.FileSystemConfig `envPrefix:"FS_"`
	S3         storage.S3Config         `envPrefix:"S3_"`
}
