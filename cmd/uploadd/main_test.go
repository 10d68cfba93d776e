package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploads/pkg/config"
	"github.com/dmitrymomot/uploads/pkg/logger"
	"github.com/dmitrymomot/uploads/pkg/storage"
	"github.com/dmitrymomot/uploads/pkg/upload"
)

func TestConfigDefaults(t *testing.T) {
	t.Parallel()
	var cfg Config
	require.NoError(t, config.Load(&cfg, config.WithPrefix("UPLOADS_"), config.WithEnvironment(map[string]string{
		"UPLOADS_ALLOWED_EXTENSIONS": "png,jpg",
		"UPLOADS_S3_BUCKET":          "media",
		"UPLOADS_HTTP_ADDR":          ":9000",
	})))

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, storageFileSystem, cfg.Storage)
	assert.Equal(t, []string{"png", "jpg"}, cfg.AllowedExtensions)
	assert.Equal(t, "10M", cfg.MaxFileSize)
	assert.Equal(t, "./uploads", cfg.FileSystem.Dir)
	assert.Equal(t, "media", cfg.S3.Bucket)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
}

func TestNewRules(t *testing.T) {
	t.Parallel()

	t.Run("all rules", func(t *testing.T) {
		t.Parallel()
		rules, err := newRules(Config{
			MaxFileSize:       "1K",
			AllowedExtensions: []string{"png"},
			AllowedMimetypes:  []string{"image/png"},
			ImageWidth:        10,
			ImageHeight:       10,
		})
		require.NoError(t, err)
		assert.Len(t, rules, 4)
	})

	t.Run("dimensions need both sides", func(t *testing.T) {
		t.Parallel()
		rules, err := newRules(Config{ImageWidth: 10})
		require.NoError(t, err)
		assert.Empty(t, rules)
	})

	t.Run("invalid size", func(t *testing.T) {
		t.Parallel()
		_, err := newRules(Config{MaxFileSize: "lots"})
		assert.Error(t, err)
	})
}

func TestNewStorage(t *testing.T) {
	t.Parallel()

	t.Run("filesystem", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store, err := newStorage(context.Background(), Config{
			Storage:    storageFileSystem,
			FileSystem: storage.FileSystemConfig{Dir: dir},
		}, logger.Discard())
		require.NoError(t, err)
		assert.NoError(t, store.Check(context.Background()))
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		_, err := newStorage(context.Background(), Config{
			Storage:    storageFileSystem,
			FileSystem: storage.FileSystemConfig{Dir: "/does/not/exist"},
		}, logger.Discard())
		assert.ErrorIs(t, err, upload.ErrInvalidArgument)
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Parallel()
		_, err := newStorage(context.Background(), Config{Storage: "ftp"}, logger.Discard())
		assert.ErrorIs(t, err, storage.ErrInvalidConfig)
	})
}

func TestNamingOption(t *testing.T) {
	t.Parallel()

	for _, naming := range []string{"", namingOriginal, namingUUID, namingWords} {
		opt, err := namingOption(naming)
		require.NoError(t, err, naming)
		assert.NotNil(t, opt, naming)
	}

	_, err := namingOption("sequential")
	assert.ErrorIs(t, err, storage.ErrInvalidConfig)
}
