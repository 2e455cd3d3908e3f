package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/woozymasta/neairports/internal/config"
)

const versionCap = 64

// Source is a readable dataset location with a cheap change check.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Version returns an opaque value that changes whenever the content does.
	Version(ctx context.Context) (string, error)
	Open(ctx context.Context) (io.ReadCloser, error)
}

// NewSource picks the S3 source when configured and the local file otherwise.
func NewSource(cfg config.Dataset) (Source, error) {
	if cfg.S3 != nil {
		return NewS3Source(*cfg.S3)
	}
	return FileSource{Path: cfg.Path}, nil
}

// FileSource reads the dataset from the local filesystem.
type FileSource struct {
	Path string
}

// Name returns the file path.
func (f FileSource) Name() string { return f.Path }

// Version derives a version from file size and modification time.
func (f FileSource) Version(_ context.Context) (string, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", f.Path)
	}

	buf := make([]byte, 0, versionCap)
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	return string(buf), nil
}

// Open opens the file for reading.
func (f FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// S3Source reads the dataset from an object in an S3-compatible store.
type S3Source struct {
	client *minio.Client
	bucket string
	key    string
}

// NewS3Source creates a MinIO client for the configured endpoint.
func NewS3Source(cfg config.S3) (*S3Source, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3 dataset source requires endpoint, bucket and key")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &S3Source{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

// Name returns the object URL.
func (s *S3Source) Name() string {
	return "s3://" + s.bucket + "/" + s.key
}

// Version returns the object ETag.
func (s *S3Source) Version(ctx context.Context) (string, error) {
	info, err := s.client.StatObject(ctx, s.bucket, s.key, minio.StatObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("stat object: %w", err)
	}
	return info.ETag, nil
}

// Open streams the object.
func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	// GetObject is lazy; Stat surfaces a missing object before parsing starts
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("get object: %w", err)
	}
	return obj, nil
}
