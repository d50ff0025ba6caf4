package services

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService stores property images in object storage and hands back
// their public URLs.
type StorageService interface {
	UploadImage(ctx context.Context, objectName, contentType string, reader io.Reader, objectSize int64) (string, error)
	DeleteImage(ctx context.Context, objectName string) error
	EnsureBucketExists(ctx context.Context) error
}

type minioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool) (StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return &minioStorage{
		client:    client,
		bucket:    bucket,
		publicURL: fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket),
	}, nil
}

func (m *minioStorage) UploadImage(ctx context.Context, objectName, contentType string, reader io.Reader, objectSize int64) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", m.publicURL, objectName), nil
}

func (m *minioStorage) DeleteImage(ctx context.Context, objectName string) error {
	return m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
}

func (m *minioStorage) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}
