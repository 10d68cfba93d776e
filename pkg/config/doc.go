// Package config loads typed configuration from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct-tag parsing and
// github.com/joho/godotenv for optional .env files. Nested structs can carry
// their own prefix through the envPrefix tag, which is how the uploadd daemon
// composes storage and validation settings:
//
//	type Config struct {
//		Addr    string                   `env:"ADDR" envDefault:":8080"`
//		Storage storage.FileSystemConfig `envPrefix:"STORAGE_"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg, config.WithPrefix("UPLOADS_"))
//
// Errors are wrapped with ErrParsingConfig or ErrLoadingEnvFile and can be
// checked with errors.Is.
package config
