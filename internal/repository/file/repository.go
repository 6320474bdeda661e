package file

import (
	"context"

	"insurance-tracker/internal/domain"
)

// Repository persists metadata of uploaded customer files. The bytes live
// in object storage under ObjectKey.
type Repository interface {
	Create(ctx context.Context, f domain.CustomerFile) (*domain.CustomerFile, error)
	Get(ctx context.Context, id int64) (*domain.CustomerFile, error)
	Delete(ctx context.Context, id int64) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.CustomerFile, error)
}
