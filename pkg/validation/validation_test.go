package validation_test

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploads/pkg/upload"
	"github.com/dmitrymomot/uploads/pkg/validation"
)

var binaryContent = []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x00, 0x13, 0x37, 0x00, 0xFF}

func newFile(t *testing.T, name string, content []byte) *upload.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	f, err := upload.New(path, name, upload.WithChecker(upload.CheckerFunc(func(string) bool { return true })))
	require.NoError(t, err)
	return f
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func requireFailure(t *testing.T, err error, f *upload.File) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, upload.ErrValidationFailed)
	got, ok := upload.FileFromError(err)
	require.True(t, ok)
	assert.Same(t, f, got)
}

func TestExtension(t *testing.T) {
	t.Parallel()

	t.Run("valid extension", func(t *testing.T) {
		t.Parallel()
		f := newFile(t, "foo.txt", []byte("hello world"))
		assert.NoError(t, validation.Extension("txt").Validate(f))
	})

	t.Run("case and dot insensitive", func(t *testing.T) {
		t.Parallel()
		f := newFile(t, "foo.txt", []byte("hello world"))
		assert.NoError(t, validation.Extension(".TXT", "md").Validate(f))
	})

	t.Run("file without extension", func(t *testing.T) {
		t.Parallel()
		f := newFile(t, "foo_wo_ext", binaryContent)
		err := validation.Extension("txt").Validate(f)
		requireFailure(t, err, f)
		assert.Contains(t, err.Error(), "invalid file extension")
	})

	t.Run("content decides over client name", func(t *testing.T) {
		t.Parallel()
		f := newFile(t, "photo.txt", pngBytes(t, 1, 1))
		requireFailure(t, validation.Extension("txt").Validate(f), f)
		assert.NoError(t, validation.Extension("png").Validate(f))
	})
}

func TestMimetype(t *testing.T) {
	t.Parallel()

	t.Run("valid mimetype", func(t *testing.T) {
		t.Parallel()
		f := newFile(t, "foo.txt", []byte("hello world"))
		assert.NoError(t, validation.Mimetype("text/plain").Validate(f))
	})

	t.Run("invalid mimetype", func(t *testing.T) {
		t.Parallel()
		f := newFile(t, "foo.txt", []byte("hello world"))
		err := validation.Mimetype("image/png").Validate(f)
		requireFailure(t, err, f)
		assert.Contains(t, err.Error(), "text/plain")
	})

	t.Run("no allowed types rejects everything", func(t *testing.T) {
		t.Parallel()
		f := newFile(t, "foo.txt", []byte("hello world"))
		requireFailure(t, validation.Mimetype().Validate(f), f)
	})
}

func TestSize(t *testing.T) {
	t.Parallel()

	intRule := validation.Size(500)
	strRule, err := validation.ParseSize("500B")
	require.NoError(t, err)

	for name, rule := range map[string]validation.Rule{"integer": intRule, "human": strRule} {
		t.Run(name+" limit passes at boundary", func(t *testing.T) {
			t.Parallel()
			f := newFile(t, "ok.bin", bytes.Repeat([]byte("a"), 500))
			assert.NoError(t, rule.Validate(f))
		})

		t.Run(name+" limit fails above boundary", func(t *testing.T) {
			t.Parallel()
			f := newFile(t, "big.bin", bytes.Repeat([]byte("a"), 501))
			requireFailure(t, rule.Validate(f), f)
		})
	}

	t.Run("smaller limit", func(t *testing.T) {
		t.Parallel()
		rule, err := validation.ParseSize("400B")
		require.NoError(t, err)
		f := newFile(t, "foo.bin", bytes.Repeat([]byte("a"), 450))
		requireFailure(t, rule.Validate(f), f)
	})

	t.Run("human units", func(t *testing.T) {
		t.Parallel()
		rule, err := validation.ParseSize("1K")
		require.NoError(t, err)
		assert.NoError(t, rule.Validate(newFile(t, "a.bin", bytes.Repeat([]byte("a"), 1024))))
		f := newFile(t, "b.bin", bytes.Repeat([]byte("a"), 1025))
		requireFailure(t, rule.Validate(f), f)
	})

	t.Run("integer and human limits agree at the top of the range", func(t *testing.T) {
		t.Parallel()
		f := newFile(t, "one.bin", []byte("a"))

		for lim, want := range map[string]int64{
			"9223372036854775807": math.MaxInt64,
			"8191P":               8191 << 50,
		} {
			human, err := validation.ParseSize(lim)
			require.NoError(t, err)
			assert.NoError(t, human.Validate(f), lim)
			assert.NoError(t, validation.Size(want).Validate(f), lim)
		}

		_, err := validation.ParseSize("8192P")
		assert.ErrorIs(t, err, upload.ErrInvalidArgument)
	})

	t.Run("invalid human size", func(t *testing.T) {
		t.Parallel()
		rule, err := validation.ParseSize("lots")
		assert.ErrorIs(t, err, upload.ErrInvalidArgument)
		assert.Nil(t, rule)
	})

	t.Run("minimum size", func(t *testing.T) {
		t.Parallel()
		rule, err := validation.ParseSizeBetween("10B", "1K")
		require.NoError(t, err)

		small := newFile(t, "small.bin", []byte("tiny"))
		err = rule.Validate(small)
		requireFailure(t, err, small)
		assert.Contains(t, err.Error(), "below minimum")

		assert.NoError(t, rule.Validate(newFile(t, "fine.bin", bytes.Repeat([]byte("a"), 100))))
	})

	t.Run("inverted range", func(t *testing.T) {
		t.Parallel()
		_, err := validation.ParseSizeBetween("2K", "1K")
		assert.ErrorIs(t, err, upload.ErrInvalidArgument)
	})
}

func TestDimensions(t *testing.T) {
	t.Parallel()

	t.Run("width and height match", func(t *testing.T) {
		t.Parallel()
		f := newFile(t, "foo.png", pngBytes(t, 100, 100))
		assert.NoError(t, validation.Dimensions(100, 100).Validate(f))
	})

	t.Run("jpeg", func(t *testing.T) {
		t.Parallel()
		f := newFile(t, "foo.jpg", jpegBytes(t, 64, 32))
		assert.NoError(t, validation.Dimensions(64, 32).Validate(f))
	})

	t.Run("width does not match", func(t *testing.T) {
		t.Parallel()
		f := newFile(t, "foo.png", pngBytes(t, 100, 100))
		err := validation.Dimensions(200, 100).Validate(f)
		requireFailure(t, err, f)
		assert.Contains(t, err.Error(), "width")
	})

	t.Run("height does not match", func(t *testing.T) {
		t.Parallel()
		f := newFile(t, "foo.png", pngBytes(t, 100, 100))
		err := validation.Dimensions(100, 200).Validate(f)
		requireFailure(t, err, f)
		assert.Contains(t, err.Error(), "height")
	})

	t.Run("not an image", func(t *testing.T) {
		t.Parallel()
		f := newFile(t, "foo.txt", []byte("hello world"))
		requireFailure(t, validation.Dimensions(1, 1).Validate(f), f)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	var calls int
	counting := validation.RuleFunc(func(*upload.File) error {
		calls++
		return nil
	})

	f := newFile(t, "foo.txt", []byte("hello world"))

	t.Run("all pass", func(t *testing.T) {
		assert.NoError(t, validation.Validate(f, validation.Extension("txt"), validation.Mimetype("text/plain"), nil, counting))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops at first failure", func(t *testing.T) {
		calls = 0
		err := validation.Validate(f, validation.Extension("png"), counting, validation.Mimetype("image/png"))
		requireFailure(t, err, f)
		assert.Contains(t, err.Error(), "extension")
		assert.Zero(t, calls)
		assert.Len(t, validation.Failures(err), 1)
	})

	t.Run("nil file", func(t *testing.T) {
		assert.ErrorIs(t, validation.Validate(nil), upload.ErrInvalidArgument)
		assert.ErrorIs(t, validation.ValidateAll(nil), upload.ErrInvalidArgument)
	})
}

func TestValidateAll(t *testing.T) {
	t.Parallel()
	f := newFile(t, "foo.txt", []byte("hello world"))

	err := validation.ValidateAll(f,
		validation.Extension("png"),
		validation.Mimetype("text/plain"),
		validation.Size(1),
		validation.Dimensions(1, 1),
	)
	requireFailure(t, err, f)

	failures := validation.Failures(err)
	require.Len(t, failures, 3)
	for _, failure := range failures {
		assert.Same(t, f, failure.File)
	}

	assert.NoError(t, validation.ValidateAll(f, validation.Extension("txt")))
	assert.Nil(t, validation.Failures(nil))
}
