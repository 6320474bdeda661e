package insurance

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/logging"
)

type repo interface {
	Create(ctx context.Context, in domain.Insurance) (*domain.Insurance, error)
	Get(ctx context.Context, policyNo string) (*domain.Insurance, error)
	Update(ctx context.Context, in domain.Insurance) (*domain.Insurance, error)
	Delete(ctx context.Context, policyNo string) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Insurance, error)
}

// Service validates and stores insurance policies.
type Service struct {
	repo   repo
	logger logrus.FieldLogger
}

func New(r repo, logger logrus.FieldLogger) *Service {
	return &Service{repo: r, logger: logging.OrDiscard(logger)}
}

// Input is a policy as submitted by a form or JSON body.
type Input struct {
	PolicyNo       string `json:"policyNo"`
	CustomerID     string `json:"customerId"`
	Insurer        string `json:"insurer"`
	SumAmount      string `json:"sumAmount"`
	TotalPayable   string `json:"totalPayable"`
	StartingPeriod string `json:"startingPeriod"`
	EndPeriod      string `json:"endPeriod"`
	Status         string `json:"status"`
}

// Parse converts the raw input into a validated policy.
func (in Input) Parse() (domain.Insurance, error) {
	p := domain.Insurance{
		PolicyNo:   strings.TrimSpace(in.PolicyNo),
		CustomerID: strings.TrimSpace(in.CustomerID),
		Insurer:    strings.TrimSpace(in.Insurer),
		Status:     strings.TrimSpace(in.Status),
	}
	var err error
	if p.SumAmountCents, err = domain.ParseAmount("sumAmount", in.SumAmount); err != nil {
		return p, err
	}
	if p.TotalPayableCents, err = domain.ParseAmount("totalPayable", in.TotalPayable); err != nil {
		return p, err
	}
	if p.StartingPeriod, err = domain.ParseDate("startingPeriod", in.StartingPeriod); err != nil {
		return p, err
	}
	if p.EndPeriod, err = domain.ParseDate("endPeriod", in.EndPeriod); err != nil {
		return p, err
	}
	return p, p.Validate()
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Insurance, error) {
	p, err := in.Parse()
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, policyNo string) (*domain.Insurance, error) {
	return s.repo.Get(ctx, policyNo)
}

// Update replaces every field but the policy number, which comes from the path.
func (s *Service) Update(ctx context.Context, policyNo string, in Input) (*domain.Insurance, error) {
	in.PolicyNo = policyNo
	p, err := in.Parse()
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, policyNo string) error {
	if err := s.repo.Delete(ctx, policyNo); err != nil {
		return err
	}
	s.logger.WithField("policy", policyNo).Info("insurance deleted")
	return nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]domain.Insurance, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
