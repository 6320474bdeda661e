package warranty

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/logging"
)

type repo interface {
	Create(ctx context.Context, w domain.Warranty) (*domain.Warranty, error)
	Get(ctx context.Context, id int64) (*domain.Warranty, error)
	Update(ctx context.Context, w domain.Warranty) (*domain.Warranty, error)
	Delete(ctx context.Context, id int64) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Warranty, error)
}

type Service struct {
	repo   repo
	logger logrus.FieldLogger
}

func New(r repo, logger logrus.FieldLogger) *Service {
	return &Service{repo: r, logger: logging.OrDiscard(logger)}
}

// Input is a warranty as submitted. Product is a preset name or "Other", in
// which case ProductOther carries the name.
type Input struct {
	CustomerID   string `json:"customerId"`
	Product      string `json:"product"`
	ProductOther string `json:"productOther"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Details      string `json:"details"`
}

func (in Input) Parse() (domain.Warranty, error) {
	w := domain.Warranty{
		CustomerID: strings.TrimSpace(in.CustomerID),
		Details:    strings.TrimSpace(in.Details),
	}
	var err error
	if w.Product, err = domain.WarrantyProducts.Resolve(in.Product, in.ProductOther); err != nil {
		return w, err
	}
	if w.StartDate, err = domain.ParseDate("startDate", in.StartDate); err != nil {
		return w, err
	}
	if w.EndDate, err = domain.ParseDate("endDate", in.EndDate); err != nil {
		return w, err
	}
	return w, w.Validate()
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Warranty, error) {
	w, err := in.Parse()
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, w)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Warranty, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*domain.Warranty, error) {
	w, err := in.Parse()
	if err != nil {
		return nil, err
	}
	w.ID = id
	return s.repo.Update(ctx, w)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("warranty", id).Info("warranty deleted")
	return nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]domain.Warranty, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
