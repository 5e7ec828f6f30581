package seed

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves objects from memory.
type fakeS3 struct {
	objects map[string][]byte
	calls   []string
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)
	f.calls = append(f.calls, key)

	data, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("not found")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

// mockLoader is a mock implementation of the Loader interface for testing.
type mockLoader struct {
	loadFunc func(ctx context.Context, path string) (*Batch, error)
}

func (m *mockLoader) Load(ctx context.Context, path string) (*Batch, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, path)
	}
	return nil, errors.New("not implemented")
}

func TestS3Loader_Load(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{
		"catalog/seed/products.gz": gzipLines(t, boltLine, wireLine),
	}}
	loader := newS3Loader(client, "catalog", zerolog.Nop())

	batch, err := loader.Load(context.Background(), "seed/products.gz")

	require.NoError(t, err)
	assert.Len(t, batch.Products, 2)
	assert.Equal(t, "s3://catalog/seed/products.gz", batch.Source)
	assert.Equal(t, []string{"catalog/seed/products.gz"}, client.calls)
}

func TestS3Loader_MissingObject(t *testing.T) {
	loader := newS3Loader(&fakeS3{}, "catalog", zerolog.Nop())

	batch, err := loader.Load(context.Background(), "seed/absent.gz")

	require.Error(t, err)
	assert.Nil(t, batch)
	var noSuchKey *types.NoSuchKey
	assert.ErrorAs(t, err, &noSuchKey)
	assert.Contains(t, err.Error(), "bucket=catalog")
}

func TestFallbackLoader_S3Success(t *testing.T) {
	s3Batch := &Batch{Source: "s3"}
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Batch, error) {
			assert.Equal(t, "seed/products.gz", path, "S3 key should have prefix")
			return s3Batch, nil
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Batch, error) {
			t.Error("file loader should not be called when S3 succeeds")
			return nil, errors.New("should not be called")
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "seed/", zerolog.Nop())
	batch, err := fallback.Load(context.Background(), "products.gz")

	require.NoError(t, err)
	assert.Same(t, s3Batch, batch)
}

func TestFallbackLoader_S3FailsFallsBackToLocal(t *testing.T) {
	localBatch := &Batch{Source: "local"}
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Batch, error) {
			return nil, errors.New("S3 connection failed")
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Batch, error) {
			assert.Equal(t, "products.gz", path, "local file path should not have prefix")
			return localBatch, nil
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "seed/", zerolog.Nop())
	batch, err := fallback.Load(context.Background(), "products.gz")

	require.NoError(t, err)
	assert.Same(t, localBatch, batch)
}

func TestFallbackLoader_BothFail(t *testing.T) {
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Batch, error) {
			return nil, errors.New("S3 connection failed")
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Batch, error) {
			return nil, errors.New("file not found")
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "seed/", zerolog.Nop())
	_, err := fallback.Load(context.Background(), "products.gz")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestFallbackLoader_NoS3(t *testing.T) {
	called := false
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Batch, error) {
			called = true
			return &Batch{Source: path}, nil
		},
	}

	fallback := NewFallbackLoader(nil, fileLoader, "seed/", zerolog.Nop())
	_, err := fallback.Load(context.Background(), "products.gz")

	require.NoError(t, err)
	assert.True(t, called)
}

func TestFallbackLoader_CancelledContextSkipsFallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Batch, error) {
			cancel()
			return nil, ctx.Err()
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Batch, error) {
			t.Error("file loader should not run after cancellation")
			return nil, nil
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "seed/", zerolog.Nop())
	_, err := fallback.Load(ctx, "products.gz")

	assert.ErrorIs(t, err, context.Canceled)
}
