// Package storage keeps customer file bytes in an S3 compatible bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/config"
	"insurance-tracker/internal/logging"
)

// MinIO stores objects in a single bucket.
type MinIO struct {
	client *minio.Client
	bucket string
	logger logrus.FieldLogger
}

// NewMinIO connects and creates the bucket when it does not exist yet.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig, logger logrus.FieldLogger) (*MinIO, error) {
	logger = logging.OrDiscard(logger)
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		logger.WithField("bucket", cfg.Bucket).Info("bucket created")
	}

	return &MinIO{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

func (m *MinIO) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	m.logger.WithFields(logrus.Fields{"key": key, "size": size}).Debug("object stored")
	return nil
}

// Remove deletes the object. Removing a missing key succeeds.
func (m *MinIO) Remove(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	m.logger.WithField("key", key).Debug("object removed")
	return nil
}

// PresignedURL returns a time-limited download link that names the file
// with its original name.
func (m *MinIO) PresignedURL(ctx context.Context, key, fileName string, ttl time.Duration) (string, error) {
	params := url.Values{}
	if fileName != "" {
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	}
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, ttl, params)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}

// ObjectKey builds a collision-free key under the customer's prefix,
// keeping the original extension.
func ObjectKey(customerID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return path.Join("customers", url.PathEscape(customerID), uuid.NewString()+ext)
}

// sniffLimit is how much of the body mimetype inspects.
const sniffLimit = 3072

// DetectContentType keeps a specific declared type. Otherwise it sniffs the
// head of body, falling back to the file extension when the bytes are not
// recognised. The returned reader yields the whole body.
func DetectContentType(body io.Reader, fileName, declared string) (string, io.Reader, error) {
	if declared != "" && declared != "application/octet-stream" {
		return declared, body, nil
	}
	head := make([]byte, sniffLimit)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, fmt.Errorf("read file head: %w", err)
	}
	head = head[:n]
	full := io.MultiReader(bytes.NewReader(head), body)

	detected := mimetype.Detect(head)
	if detected.Is("application/octet-stream") {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); byExt != "" {
			return byExt, full, nil
		}
	}
	return detected.String(), full, nil
}
