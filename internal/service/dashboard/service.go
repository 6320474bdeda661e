// Package dashboard computes the expiry counters shown on the home page and
// in the navigation bar, and the list behind the notifications page.
//
// The home page and the navigation bar count "expiring" differently: the
// home page only counts items ending within [today, today+horizon], while
// the navigation counter counts everything ending on or before
// today+horizon, already expired items included. Both are kept.
package dashboard

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/expiry"
	"insurance-tracker/internal/logging"
	custrepo "insurance-tracker/internal/repository/customer"
)

// ItemSource is one tracked record type.
type ItemSource interface {
	CountEnding(ctx context.Context, w domain.Window) (int, error)
	ListEnding(ctx context.Context, w domain.Window) ([]domain.ExpiringItem, error)
}

type customerCounter interface {
	Count(ctx context.Context, f custrepo.Filter) (int, error)
}

type renewalCounter interface {
	PendingCount(ctx context.Context, today time.Time) (int, error)
}

type Service struct {
	insurances  ItemSource
	warranties  ItemSource
	liabilities ItemSource
	customers   customerCounter
	renewals    renewalCounter
	horizonDays int
	logger      logrus.FieldLogger
}

// Deps groups the collaborators of Service.
type Deps struct {
	Insurances  ItemSource
	Warranties  ItemSource
	Liabilities ItemSource
	Customers   customerCounter
	Renewals    renewalCounter
	HorizonDays int
	Logger      logrus.FieldLogger
}

func New(d Deps) *Service {
	horizon := d.HorizonDays
	if horizon <= 0 {
		horizon = expiry.DefaultHorizonDays
	}
	return &Service{
		insurances:  d.Insurances,
		warranties:  d.Warranties,
		liabilities: d.Liabilities,
		customers:   d.Customers,
		renewals:    d.Renewals,
		horizonDays: horizon,
		logger:      logging.OrDiscard(d.Logger),
	}
}

// TypeCounts splits a count by record type.
type TypeCounts struct {
	Insurances  int `json:"insurances"`
	Warranties  int `json:"warranties"`
	Liabilities int `json:"liabilities"`
}

func (c TypeCounts) Total() int { return c.Insurances + c.Warranties + c.Liabilities }

// MainPage is the home page summary.
type MainPage struct {
	Expired        TypeCounts `json:"expired"`
	ExpiredTotal   int        `json:"expiredTotal"`
	Expiring       TypeCounts `json:"expiring"`
	ExpiringTotal  int        `json:"expiringTotal"`
	TotalCustomers int        `json:"totalCustomers"`
	ActivePolicies int        `json:"activePolicies"`
}

// Counters feed the navigation badges.
type Counters struct {
	ExpiringItems   int `json:"expiringItems"`
	PendingRenewals int `json:"pendingRenewals"`
}

// MainPage counts expired items (ending before today) and items expiring
// soon, bounded on both sides.
func (s *Service) MainPage(ctx context.Context, today time.Time) (MainPage, error) {
	today = domain.DateOf(today)
	var out MainPage
	var err error

	if out.Expired, err = s.countByType(ctx, domain.Before(today)); err != nil {
		return MainPage{}, fmt.Errorf("count expired: %w", err)
	}
	if out.Expiring, err = s.countByType(ctx, domain.Between(today, s.horizonEnd(today))); err != nil {
		return MainPage{}, fmt.Errorf("count expiring: %w", err)
	}
	out.ExpiredTotal = out.Expired.Total()
	out.ExpiringTotal = out.Expiring.Total()

	if out.TotalCustomers, err = s.customers.Count(ctx, custrepo.Filter{}); err != nil {
		return MainPage{}, fmt.Errorf("count customers: %w", err)
	}
	if out.ActivePolicies, err = s.insurances.CountEnding(ctx, domain.Window{From: &today}); err != nil {
		return MainPage{}, fmt.Errorf("count active policies: %w", err)
	}
	return out, nil
}

// Counters counts every item ending on or before today+horizon, expired
// ones included. The pending renewal count is only computed, and renewals
// only reconciled, when the caller may manage renewals.
func (s *Service) Counters(ctx context.Context, today time.Time, canManageRenewals bool) (Counters, error) {
	today = domain.DateOf(today)
	counts, err := s.countByType(ctx, domain.Until(s.horizonEnd(today)))
	if err != nil {
		return Counters{}, fmt.Errorf("count expiring: %w", err)
	}
	out := Counters{ExpiringItems: counts.Total()}
	if !canManageRenewals {
		return out, nil
	}
	pending, err := s.renewals.PendingCount(ctx, today)
	if err != nil {
		s.logger.WithError(err).Warn("pending renewal count unavailable")
		return out, nil
	}
	out.PendingRenewals = pending
	return out, nil
}

// Item is an expiring record with its status color.
type Item struct {
	domain.ExpiringItem
	Color expiry.Color `json:"color"`
}

// ExpiringItems lists the records the navigation counter counts, ordered by
// date. Records sharing a date keep the order insurance, warranty,
// liability.
func (s *Service) ExpiringItems(ctx context.Context, today time.Time) ([]Item, error) {
	today = domain.DateOf(today)
	w := domain.Until(s.horizonEnd(today))

	var all []domain.ExpiringItem
	for _, src := range []ItemSource{s.insurances, s.warranties, s.liabilities} {
		items, err := src.ListEnding(ctx, w)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
	slices.SortStableFunc(all, func(a, b domain.ExpiringItem) int {
		return a.Date.Compare(b.Date)
	})

	out := make([]Item, 0, len(all))
	for _, it := range all {
		out = append(out, Item{ExpiringItem: it, Color: expiry.ClassifyWithin(it.Date, today, s.horizonDays)})
	}
	return out, nil
}

func (s *Service) horizonEnd(today time.Time) time.Time {
	return domain.AddDays(today, s.horizonDays)
}

func (s *Service) countByType(ctx context.Context, w domain.Window) (TypeCounts, error) {
	var c TypeCounts
	var err error
	if c.Insurances, err = s.insurances.CountEnding(ctx, w); err != nil {
		return c, err
	}
	if c.Warranties, err = s.warranties.CountEnding(ctx, w); err != nil {
		return c, err
	}
	if c.Liabilities, err = s.liabilities.CountEnding(ctx, w); err != nil {
		return c, err
	}
	return c, nil
}
