package storage_test

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploads/pkg/storage"
	"github.com/dmitrymomot/uploads/pkg/upload"
)

type mockS3Client struct {
	mock.Mock
}

func (m *mockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *mockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (m *mockS3Client) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadBucketOutput), args.Error(1)
}

func testS3Config() storage.S3Config {
	return storage.S3Config{
		Bucket: "test-bucket",
		Region: "us-east-1",
		Prefix: "uploads/",
	}
}

func TestNewS3(t *testing.T) {
	t.Parallel()

	t.Run("valid config with custom client", func(t *testing.T) {
		t.Parallel()
		s, err := storage.NewS3(context.Background(), testS3Config(), false, storage.WithS3Client(&mockS3Client{}))
		require.NoError(t, err)
		assert.Equal(t, "https://test-bucket.s3.us-east-1.amazonaws.com/uploads/foo.txt", s.URL("uploads/foo.txt"))
	})

	t.Run("missing bucket", func(t *testing.T) {
		t.Parallel()
		cfg := testS3Config()
		cfg.Bucket = ""
		_, err := storage.NewS3(context.Background(), cfg, false, storage.WithS3Client(&mockS3Client{}))
		assert.ErrorIs(t, err, storage.ErrInvalidConfig)
	})

	t.Run("custom endpoint", func(t *testing.T) {
		t.Parallel()
		cfg := testS3Config()
		cfg.Endpoint = "http://localhost:9000/"
		s, err := storage.NewS3(context.Background(), cfg, false, storage.WithS3Client(&mockS3Client{}))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/test-bucket/a.png", s.URL("a.png"))
	})

	t.Run("custom base URL", func(t *testing.T) {
		t.Parallel()
		cfg := testS3Config()
		cfg.BaseURL = "https://cdn.example.com"
		s, err := storage.NewS3(context.Background(), cfg, false, storage.WithS3Client(&mockS3Client{}))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/a.png", s.URL("/a.png"))
	})
}

func TestS3_Upload(t *testing.T) {
	t.Parallel()

	notFound := &types.NotFound{}

	t.Run("stores new object", func(t *testing.T) {
		t.Parallel()
		client := &mockS3Client{}
		client.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
			return *in.Bucket == "test-bucket" && *in.Key == "uploads/foo.txt"
		}), mock.Anything).Return(nil, notFound)
		client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			body, err := io.ReadAll(in.Body)
			return err == nil &&
				*in.Key == "uploads/foo.txt" &&
				*in.ContentType == "text/plain" &&
				*in.ContentLength == 11 &&
				string(body) == "hello world"
		}), mock.Anything).Return(&s3.PutObjectOutput{}, nil)

		s, err := storage.NewS3(context.Background(), testS3Config(), false, storage.WithS3Client(client))
		require.NoError(t, err)

		f := newFile(t, "foo.txt", []byte("hello world"))
		url, err := s.Upload(context.Background(), f)
		require.NoError(t, err)
		assert.Equal(t, "https://test-bucket.s3.us-east-1.amazonaws.com/uploads/foo.txt", url)

		_, err = os.Stat(f.Path())
		assert.True(t, os.IsNotExist(err), "temp file must be removed after put")
		client.AssertExpectations(t)
	})

	t.Run("existing object is a conflict", func(t *testing.T) {
		t.Parallel()
		client := &mockS3Client{}
		client.On("HeadObject", mock.Anything, mock.Anything, mock.Anything).Return(&s3.HeadObjectOutput{}, nil)

		s, err := storage.NewS3(context.Background(), testS3Config(), false, storage.WithS3Client(client))
		require.NoError(t, err)

		f := newFile(t, "foo.txt", []byte("hello world"))
		_, err = s.Upload(context.Background(), f)
		assert.ErrorIs(t, err, upload.ErrUploadConflict)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything)

		_, err = os.Stat(f.Path())
		assert.NoError(t, err)
	})

	t.Run("overwrite skips existence check", func(t *testing.T) {
		t.Parallel()
		client := &mockS3Client{}
		client.On("PutObject", mock.Anything, mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil)

		s, err := storage.NewS3(context.Background(), testS3Config(), true, storage.WithS3Client(client))
		require.NoError(t, err)

		_, err = s.Upload(context.Background(), newFile(t, "foo.txt", []byte("hello world")))
		require.NoError(t, err)
		client.AssertNotCalled(t, "HeadObject", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("access denied on put", func(t *testing.T) {
		t.Parallel()
		client := &mockS3Client{}
		client.On("PutObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"})

		s, err := storage.NewS3(context.Background(), testS3Config(), true, storage.WithS3Client(client))
		require.NoError(t, err)

		f := newFile(t, "foo.txt", []byte("hello world"))
		_, err = s.Upload(context.Background(), f)
		assert.ErrorIs(t, err, upload.ErrStorageFailure)
		assert.ErrorIs(t, err, storage.ErrAccessDenied)

		_, err = os.Stat(f.Path())
		assert.NoError(t, err, "temp file is kept when put fails")
	})

	t.Run("head failure other than not found", func(t *testing.T) {
		t.Parallel()
		client := &mockS3Client{}
		client.On("HeadObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &types.NoSuchBucket{})

		s, err := storage.NewS3(context.Background(), testS3Config(), false, storage.WithS3Client(client))
		require.NoError(t, err)

		_, err = s.Upload(context.Background(), newFile(t, "foo.txt", []byte("hello world")))
		assert.ErrorIs(t, err, upload.ErrStorageFailure)
		assert.ErrorIs(t, err, storage.ErrBucketNotFound)
	})

	t.Run("timeout is classified", func(t *testing.T) {
		t.Parallel()
		client := &mockS3Client{}
		client.On("PutObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, context.DeadlineExceeded)

		s, err := storage.NewS3(context.Background(), testS3Config(), true,
			storage.WithS3Client(client),
			storage.WithS3UploadTimeout(time.Second),
		)
		require.NoError(t, err)

		_, err = s.Upload(context.Background(), newFile(t, "foo.txt", []byte("hello world")))
		assert.ErrorIs(t, err, storage.ErrOperationTimeout)
	})

	t.Run("nil file", func(t *testing.T) {
		t.Parallel()
		s, err := storage.NewS3(context.Background(), testS3Config(), true, storage.WithS3Client(&mockS3Client{}))
		require.NoError(t, err)

		_, err = s.Upload(context.Background(), nil)
		assert.True(t, errors.Is(err, upload.ErrInvalidArgument))
	})
}

func TestS3_Check(t *testing.T) {
	t.Parallel()

	t.Run("bucket reachable", func(t *testing.T) {
		t.Parallel()
		client := &mockS3Client{}
		client.On("HeadBucket", mock.Anything, mock.MatchedBy(func(in *s3.HeadBucketInput) bool {
			return *in.Bucket == "test-bucket"
		}), mock.Anything).Return(&s3.HeadBucketOutput{}, nil)

		s, err := storage.NewS3(context.Background(), testS3Config(), false, storage.WithS3Client(client))
		require.NoError(t, err)
		assert.NoError(t, s.Check(context.Background()))
		client.AssertExpectations(t)
	})

	t.Run("access denied", func(t *testing.T) {
		t.Parallel()
		client := &mockS3Client{}
		client.On("HeadBucket", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "AccessDenied"})

		s, err := storage.NewS3(context.Background(), testS3Config(), false, storage.WithS3Client(client))
		require.NoError(t, err)

		err = s.Check(context.Background())
		assert.ErrorIs(t, err, upload.ErrStorageFailure)
		assert.ErrorIs(t, err, storage.ErrAccessDenied)
	})
}

func TestS3_ImplementsStorage(t *testing.T) {
	t.Parallel()
	var _ storage.Storage = (*storage.S3)(nil)
	var _ storage.Storage = (*storage.FileSystem)(nil)
	var _ storage.Checker = (*storage.S3)(nil)
	var _ storage.Checker = (*storage.FileSystem)(nil)
}
