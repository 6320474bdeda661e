package customer

import (
	"context"
	"fmt"
	"time"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/expiry"
)

// Colored pairs a record with its status color.
type Colored[T any] struct {
	Item  T            `json:"item"`
	Color expiry.Color `json:"color"`
}

// Overview is everything the customer detail page shows.
type Overview struct {
	Customer    domain.Customer                    `json:"customer"`
	Insurances  []Colored[domain.Insurance]        `json:"insurances"`
	Warranties  []Colored[domain.Warranty]         `json:"warranties"`
	Liabilities []Colored[domain.Defect]           `json:"liabilities"`
	Incidents   []domain.Defect                    `json:"incidents"`
	Files       []domain.CustomerFile              `json:"files"`
	Summaries   map[domain.ItemKind]expiry.Summary `json:"summaries"`
	// Badge aggregates every dated item of the customer at once.
	Badge      expiry.Summary `json:"badge"`
	StatusText string         `json:"statusText"`
}

func (s *Service) Overview(ctx context.Context, id string, today time.Time) (*Overview, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g, err := s.groups(ctx, id)
	if err != nil {
		return nil, err
	}
	files, err := s.files.ListByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	o := &Overview{
		Customer:    *c,
		Insurances:  make([]Colored[domain.Insurance], 0, len(g.insurances)),
		Warranties:  make([]Colored[domain.Warranty], 0, len(g.warranties)),
		Liabilities: make([]Colored[domain.Defect], 0, len(g.liabilities)),
		Incidents:   append(make([]domain.Defect, 0, len(g.incidents)), g.incidents...),
		Files:       append(make([]domain.CustomerFile, 0, len(files)), files...),
	}
	for _, p := range g.insurances {
		o.Insurances = append(o.Insurances, Colored[domain.Insurance]{Item: p, Color: s.classify(p.EndPeriod, today)})
	}
	for _, w := range g.warranties {
		o.Warranties = append(o.Warranties, Colored[domain.Warranty]{Item: w, Color: s.classify(w.EndDate, today)})
	}
	for _, d := range g.liabilities {
		o.Liabilities = append(o.Liabilities, Colored[domain.Defect]{Item: d, Color: s.classify(d.ResolutionDeadline, today)})
	}

	o.Summaries = map[domain.ItemKind]expiry.Summary{
		domain.KindInsurance: s.aggregate(g.insuranceDates(), today),
		domain.KindWarranty:  s.aggregate(g.warrantyDates(), today),
		domain.KindLiability: s.aggregate(g.liabilityDates(), today),
	}
	var all []time.Time
	all = append(all, g.insuranceDates()...)
	all = append(all, g.warrantyDates()...)
	all = append(all, g.liabilityDates()...)
	o.Badge = s.aggregate(all, today)
	o.StatusText = o.Badge.Label()
	return o, nil
}

// groups holds one customer's records split the way statuses use them.
// Incidents carry no expiry and stay out of every summary.
type groups struct {
	insurances  []domain.Insurance
	warranties  []domain.Warranty
	liabilities []domain.Defect
	incidents   []domain.Defect
}

func (s *Service) groups(ctx context.Context, customerID string) (groups, error) {
	var g groups
	var err error
	if g.insurances, err = s.insurances.ListByCustomer(ctx, customerID); err != nil {
		return g, fmt.Errorf("list insurances: %w", err)
	}
	if g.warranties, err = s.warranties.ListByCustomer(ctx, customerID); err != nil {
		return g, fmt.Errorf("list warranties: %w", err)
	}
	defects, err := s.defects.ListByCustomer(ctx, customerID)
	if err != nil {
		return g, fmt.Errorf("list defects: %w", err)
	}
	for _, d := range defects {
		if d.IsIncident() {
			g.incidents = append(g.incidents, d)
		} else {
			g.liabilities = append(g.liabilities, d)
		}
	}
	return g, nil
}

func (g groups) insuranceDates() []time.Time {
	out := make([]time.Time, 0, len(g.insurances))
	for _, p := range g.insurances {
		out = append(out, p.EndPeriod)
	}
	return out
}

func (g groups) warrantyDates() []time.Time {
	out := make([]time.Time, 0, len(g.warranties))
	for _, w := range g.warranties {
		out = append(out, w.EndDate)
	}
	return out
}

func (g groups) liabilityDates() []time.Time {
	out := make([]time.Time, 0, len(g.liabilities))
	for _, d := range g.liabilities {
		out = append(out, d.ResolutionDeadline)
	}
	return out
}

func (s *Service) horizon() int {
	if s.horizonDays <= 0 {
		return expiry.DefaultHorizonDays
	}
	return s.horizonDays
}

func (s *Service) classify(end, today time.Time) expiry.Color {
	return expiry.ClassifyWithin(end, today, s.horizon())
}

func (s *Service) aggregate(dates []time.Time, today time.Time) expiry.Summary {
	return expiry.AggregateWithin(dates, expiry.Dates, today, s.horizon())
}
