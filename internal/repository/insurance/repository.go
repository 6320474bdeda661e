package insurance

import (
	"context"

	"insurance-tracker/internal/domain"
)

// Repository persists insurance policies.
type Repository interface {
	Create(ctx context.Context, in domain.Insurance) (*domain.Insurance, error)
	Get(ctx context.Context, policyNo string) (*domain.Insurance, error)
	Update(ctx context.Context, in domain.Insurance) (*domain.Insurance, error)
	// Upsert creates the policy or overwrites the one with the same number.
	Upsert(ctx context.Context, in domain.Insurance) (*domain.Insurance, error)
	Delete(ctx context.Context, policyNo string) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Insurance, error)
	// CountEnding counts policies whose end period falls in w.
	CountEnding(ctx context.Context, w domain.Window) (int, error)
	// ListEnding returns policies whose end period falls in w, earliest first.
	ListEnding(ctx context.Context, w domain.Window) ([]domain.ExpiringItem, error)
}
