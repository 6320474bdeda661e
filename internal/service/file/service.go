package file

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/logging"
	"insurance-tracker/internal/storage"
)

// MaxSize is the largest accepted upload.
const MaxSize = 20 << 20

// URLTTL is how long a download link stays valid.
const URLTTL = time.Hour

// ErrStorageDisabled is returned when no object store is configured.
var ErrStorageDisabled = errors.New("file storage is not configured")

// ObjectStore holds the file bytes.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key, fileName string, ttl time.Duration) (string, error)
}

type repo interface {
	Create(ctx context.Context, f domain.CustomerFile) (*domain.CustomerFile, error)
	Get(ctx context.Context, id int64) (*domain.CustomerFile, error)
	Delete(ctx context.Context, id int64) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.CustomerFile, error)
}

// Service keeps file rows and stored objects in step.
type Service struct {
	repo   repo
	store  ObjectStore
	logger logrus.FieldLogger
}

// New builds a Service. A nil store disables upload, download and delete;
// listing still works.
func New(r repo, store ObjectStore, logger logrus.FieldLogger) *Service {
	return &Service{repo: r, store: store, logger: logging.OrDiscard(logger)}
}

type UploadInput struct {
	CustomerID  string
	FileName    string
	Description string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload stores the bytes, then records the row. If the row cannot be
// written the object is removed again.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*domain.CustomerFile, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	name := filepath.Base(strings.TrimSpace(in.FileName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, domain.Invalid("file", "required")
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, domain.Invalid("customerId", "required")
	}
	if in.Size <= 0 {
		return nil, domain.Invalid("file", "is empty")
	}
	if in.Size > MaxSize {
		return nil, domain.Invalid("file", "is larger than 20 MB")
	}

	key := storage.ObjectKey(in.CustomerID, name)
	contentType, body, err := storage.DetectContentType(in.Body, name, in.ContentType)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, key, body, in.Size, contentType); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, domain.CustomerFile{
		CustomerID:  in.CustomerID,
		ObjectKey:   key,
		FileName:    name,
		Description: strings.TrimSpace(in.Description),
		ContentType: contentType,
		Size:        in.Size,
	})
	if err != nil {
		if rmErr := s.store.Remove(context.WithoutCancel(ctx), key); rmErr != nil {
			s.logger.WithError(rmErr).WithField("key", key).Error("orphaned object after failed insert")
		}
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"file": created.ID, "customer": created.CustomerID}).Info("file uploaded")
	return created, nil
}

// Delete removes the stored object and then the row. When the object store
// fails the row stays so the delete can be retried.
func (s *Service) Delete(ctx context.Context, id int64) (*domain.CustomerFile, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Remove(ctx, f.ObjectKey); err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"file": id, "customer": f.CustomerID}).Info("file deleted")
	return f, nil
}

// URL returns a short-lived download link.
func (s *Service) URL(ctx context.Context, id int64) (string, error) {
	if s.store == nil {
		return "", ErrStorageDisabled
	}
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.store.PresignedURL(ctx, f.ObjectKey, f.FileName, URLTTL)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]domain.CustomerFile, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
