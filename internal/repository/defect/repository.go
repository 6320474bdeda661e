package defect

import (
	"context"
	"time"

	"insurance-tracker/internal/domain"
)

// Incident is a reported accident joined with its customer's name.
type Incident struct {
	domain.Defect
	CustomerName string `json:"customerName"`
}

// Repository persists defect records of both kinds.
type Repository interface {
	Create(ctx context.Context, d domain.Defect) (*domain.Defect, error)
	Get(ctx context.Context, id int64) (*domain.Defect, error)
	Update(ctx context.Context, d domain.Defect) (*domain.Defect, error)
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status domain.DefectStatus) (*domain.Defect, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Defect, error)
	// ListIncidents returns incidents, pending first, newest accident first.
	ListIncidents(ctx context.Context) ([]Incident, error)
	// LatestDeadlines maps each customer to the latest resolution deadline
	// among its liability periods.
	LatestDeadlines(ctx context.Context) (map[string]time.Time, error)
	// CountEnding and ListEnding only consider liability periods.
	CountEnding(ctx context.Context, w domain.Window) (int, error)
	ListEnding(ctx context.Context, w domain.Window) ([]domain.ExpiringItem, error)
}
