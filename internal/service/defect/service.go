package defect

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/logging"
	defectrepo "insurance-tracker/internal/repository/defect"
)

type repo interface {
	Create(ctx context.Context, d domain.Defect) (*domain.Defect, error)
	Get(ctx context.Context, id int64) (*domain.Defect, error)
	Update(ctx context.Context, d domain.Defect) (*domain.Defect, error)
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status domain.DefectStatus) (*domain.Defect, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Defect, error)
	ListIncidents(ctx context.Context) ([]defectrepo.Incident, error)
	LatestDeadlines(ctx context.Context) (map[string]time.Time, error)
}

// Service manages liability periods and incidents.
type Service struct {
	repo   repo
	logger logrus.FieldLogger
}

func New(r repo, logger logrus.FieldLogger) *Service {
	return &Service{repo: r, logger: logging.OrDiscard(logger)}
}

// Input is a defect record as submitted. Leaving AccidentDate blank records
// a liability period; setting it records an incident.
type Input struct {
	CustomerID         string `json:"customerId"`
	ReportDate         string `json:"reportDate"`
	AccidentDate       string `json:"accidentDate"`
	ResolutionDeadline string `json:"resolutionDeadline"`
	Type               string `json:"type"`
	TypeOther          string `json:"typeOther"`
	Status             string `json:"status"`
}

// Parse fills a blank report date with today and a blank status with Pending.
func (in Input) Parse(today time.Time) (domain.Defect, error) {
	d := domain.Defect{
		CustomerID: strings.TrimSpace(in.CustomerID),
		Status:     domain.DefectStatus(strings.TrimSpace(in.Status)),
	}
	if d.Status == "" {
		d.Status = domain.DefectPending
	}
	var err error
	if strings.TrimSpace(in.ReportDate) == "" {
		d.ReportDate = domain.DateOf(today)
	} else if d.ReportDate, err = domain.ParseDate("reportDate", in.ReportDate); err != nil {
		return d, err
	}
	if d.AccidentDate, err = domain.ParseOptionalDate("accidentDate", in.AccidentDate); err != nil {
		return d, err
	}
	if d.ResolutionDeadline, err = domain.ParseDate("resolutionDeadline", in.ResolutionDeadline); err != nil {
		return d, err
	}
	typeSel := in.Type
	if strings.TrimSpace(typeSel) == "" {
		typeSel = domain.OtherOption
	}
	if d.Type, err = domain.DefectTypes.Resolve(typeSel, in.TypeOther); err != nil {
		return d, err
	}
	return d, d.Validate()
}

func (s *Service) Create(ctx context.Context, in Input, today time.Time) (*domain.Defect, error) {
	d, err := in.Parse(today)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Defect, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, in Input, today time.Time) (*domain.Defect, error) {
	d, err := in.Parse(today)
	if err != nil {
		return nil, err
	}
	d.ID = id
	return s.repo.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]domain.Defect, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// Incidents is the incident worklist, pending first.
func (s *Service) Incidents(ctx context.Context) ([]defectrepo.Incident, error) {
	return s.repo.ListIncidents(ctx)
}

// Solve marks a defect as solved. Solving twice is harmless.
func (s *Service) Solve(ctx context.Context, id int64) (*domain.Defect, error) {
	d, err := s.repo.SetStatus(ctx, id, domain.DefectSolved)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"defect": id, "customer": d.CustomerID}).Info("defect solved")
	return d, nil
}

// LatestDeadlines maps customers to their latest liability deadline.
func (s *Service) LatestDeadlines(ctx context.Context) (map[string]time.Time, error) {
	return s.repo.LatestDeadlines(ctx)
}
