package customer

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/logging"
	custrepo "insurance-tracker/internal/repository/customer"
)

type insuranceLister interface {
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Insurance, error)
}

type warrantyLister interface {
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Warranty, error)
}

type defectLister interface {
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Defect, error)
}

type fileLister interface {
	ListByCustomer(ctx context.Context, customerID string) ([]domain.CustomerFile, error)
}

// Service manages customers and renders their status summaries.
type Service struct {
	repo        custrepo.Repository
	insurances  insuranceLister
	warranties  warrantyLister
	defects     defectLister
	files       fileLister
	horizonDays int
	logger      logrus.FieldLogger
}

// Deps groups what Service reads besides the customer table.
type Deps struct {
	Insurances  insuranceLister
	Warranties  warrantyLister
	Defects     defectLister
	Files       fileLister
	HorizonDays int
	Logger      logrus.FieldLogger
}

func New(repo custrepo.Repository, d Deps) *Service {
	return &Service{
		repo:        repo,
		insurances:  d.Insurances,
		warranties:  d.Warranties,
		defects:     d.Defects,
		files:       d.Files,
		horizonDays: d.HorizonDays,
		logger:      logging.OrDiscard(d.Logger),
	}
}

// Input is a customer as submitted. Choice fields take a preset name or
// "Other" plus the companion text; Engineers takes ticked names plus a comma
// separated list of extras.
type Input struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	InCharge       string   `json:"inCharge"`
	InChargeOther  string   `json:"inChargeOther"`
	ProposalBy     string   `json:"proposalBy"`
	ProposalOther  string   `json:"proposalOther"`
	Engineers      []string `json:"engineers"`
	EngineersOther string   `json:"engineersOther"`
	Installer      string   `json:"installer"`
	InstalledOn    string   `json:"installedOn"`
}

// Parse resolves the choice fields and validates the result.
func (in Input) Parse() (domain.Customer, error) {
	c := domain.Customer{
		ID:        strings.TrimSpace(in.ID),
		Name:      strings.TrimSpace(in.Name),
		Address:   strings.TrimSpace(in.Address),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Installer: strings.TrimSpace(in.Installer),
		Engineers: domain.MergeEngineers(in.Engineers, in.EngineersOther),
	}
	var err error
	if c.InCharge, err = domain.InChargeChoices.Resolve(in.InCharge, in.InChargeOther); err != nil {
		return c, err
	}
	if c.ProposalBy, err = domain.ProposalByChoices.Resolve(in.ProposalBy, in.ProposalOther); err != nil {
		return c, err
	}
	if c.InstalledOn, err = domain.ParseOptionalDate("installedOn", in.InstalledOn); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Customer, error) {
	c, err := in.Parse()
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces every field but the key, which comes from the path.
func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Customer, error) {
	in.ID = id
	c, err := in.Parse()
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, c)
}

// Delete removes the customer together with everything it owns.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("customer_id", id).Info("customer deleted")
	return nil
}
