package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gcs "cloud.google.com/go/storage"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailtrack/apiserver/config"
)

func TestMapMinioError(t *testing.T) {
	notFound := minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
	assert.ErrorIs(t, mapMinioError(notFound), ErrObjectNotFound)

	denied := minio.ErrorResponse{Code: "AccessDenied"}
	assert.Equal(t, denied, mapMinioError(denied))
}

func TestMapGCSError(t *testing.T) {
	assert.ErrorIs(t, mapGCSError(fmt.Errorf("read: %w", gcs.ErrObjectNotExist)), ErrObjectNotFound)
	assert.NoError(t, mapGCSError(nil))

	other := errors.New("quota")
	assert.Equal(t, other, mapGCSError(other))
}

func TestNewMinioClient_Validation(t *testing.T) {
	_, err := NewMinioClient(config.MinioConfig{})
	assert.EqualError(t, err, "minio endpoint is required")

	_, err = NewMinioClient(config.MinioConfig{Endpoint: "localhost:9000"})
	assert.EqualError(t, err, "minio access key and secret key are required")

	_, err = NewMinioClient(config.MinioConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.EqualError(t, err, "minio bucket is required")

	client, err := NewMinioClient(config.MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "trailtrack",
	})
	require.NoError(t, err)
	assert.Equal(t, "trailtrack", NewStorage(client).Bucket())
}

func TestOpen_UnsupportedBackend(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Backend: "s3"})
	assert.EqualError(t, err, `unsupported storage backend "s3"`)
}
