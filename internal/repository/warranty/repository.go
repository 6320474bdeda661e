package warranty

import (
	"context"

	"insurance-tracker/internal/domain"
)

// Repository persists product warranties.
type Repository interface {
	Create(ctx context.Context, w domain.Warranty) (*domain.Warranty, error)
	Get(ctx context.Context, id int64) (*domain.Warranty, error)
	Update(ctx context.Context, w domain.Warranty) (*domain.Warranty, error)
	Delete(ctx context.Context, id int64) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Warranty, error)
	CountEnding(ctx context.Context, w domain.Window) (int, error)
	ListEnding(ctx context.Context, w domain.Window) ([]domain.ExpiringItem, error)
}
