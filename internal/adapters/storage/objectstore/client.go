package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Object    string
	Secure    bool
}

// NewClient crea el cliente S3/minio y verifica que el bucket exista.
func NewClient(ctx context.Context, cfg Config) (*minio.Client, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, errors.New("objectstore: endpoint, access key, secret key and bucket are required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore: new client: %w", err)
	}

	found, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("objectstore: check bucket: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("objectstore: bucket '%s' doesn't exist", cfg.Bucket)
	}
	return mc, nil
}

// minioBlob lee/escribe un único objeto.
type minioBlob struct {
	client *minio.Client
	bucket string
	object string
}

func (b *minioBlob) Get(ctx context.Context) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, b.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapNotFound(err)
	}
	defer obj.Close()

	// GetObject es lazy: el 404 aparece recién al leer
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return data, nil
}

func (b *minioBlob) Put(ctx context.Context, data []byte) error {
	_, err := b.client.PutObject(ctx, b.bucket, b.object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

func (b *minioBlob) String() string {
	return b.bucket + "/" + strings.TrimPrefix(b.object, "/")
}

func mapNotFound(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return errBlobNotFound
	}
	return err
}
