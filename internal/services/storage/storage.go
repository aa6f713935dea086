package storage

import (
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage persists rendered attestation documents and resolves their
// public URLs.
type Storage interface {
	Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error)
	PublicURL(objectName string) string
}

// Service is the minio-backed implementation.
type Service struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// New creates the storage service. An empty endpoint falls back to the
// in-memory implementation (dev mode).
func New(endpoint, accessKey, secretKey, bucket string, useSSL bool, publicURL string) (Storage, error) {
	if endpoint == "" {
		return NewMemory(), nil
	}
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	if publicURL == "" {
		scheme := "http://"
		if useSSL {
			scheme = "https://"
		}
		publicURL = scheme + endpoint + "/" + bucket
	}
	return &Service{client: cli, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Upload stores an object in the bucket.
func (s *Service) Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return objectName, nil
}

// PublicURL returns the publicly resolvable URL for an uploaded object.
// The bucket is expected to have a public-read policy.
func (s *Service) PublicURL(objectName string) string {
	return s.publicURL + "/" + objectName
}

var _ Storage = (*Service)(nil)
