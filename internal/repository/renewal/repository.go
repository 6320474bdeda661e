package renewal

import (
	"context"
	"time"

	"insurance-tracker/internal/domain"
	engine "insurance-tracker/internal/renewal"
)

// Repository stores renewal notices and serves the reconciler.
type Repository interface {
	engine.Store
	Get(ctx context.Context, id int64) (*domain.RenewalNotice, error)
	// ListPending returns undismissed notices due on or before today,
	// earliest due date first.
	ListPending(ctx context.Context, today time.Time) ([]domain.PendingRenewal, error)
	// Dismiss marks the notice dismissed. Dismissing twice is not an error.
	Dismiss(ctx context.Context, id int64) (*domain.RenewalNotice, error)
}
