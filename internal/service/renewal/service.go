package renewal

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/logging"
	engine "insurance-tracker/internal/renewal"
)

type reconciler interface {
	Reconcile(ctx context.Context, today time.Time) (engine.Result, error)
}

type repo interface {
	ListPending(ctx context.Context, today time.Time) ([]domain.PendingRenewal, error)
	Dismiss(ctx context.Context, id int64) (*domain.RenewalNotice, error)
}

// Service exposes renewal notices to callers. Every read reconciles first
// so the notice table reflects today.
type Service struct {
	reconciler reconciler
	repo       repo
	logger     logrus.FieldLogger
}

func New(rec reconciler, r repo, logger logrus.FieldLogger) *Service {
	return &Service{reconciler: rec, repo: r, logger: logging.OrDiscard(logger)}
}

func (s *Service) Reconcile(ctx context.Context, today time.Time) (engine.Result, error) {
	res, err := s.reconciler.Reconcile(ctx, today)
	if err != nil {
		return res, err
	}
	s.logger.WithFields(logrus.Fields{
		"today":   today.Format(domain.DateLayout),
		"scanned": res.Scanned,
		"created": res.Created,
		"pending": res.Pending,
		"failed":  res.Failed,
	}).Debug("renewals reconciled")
	return res, nil
}

// PendingCount reconciles and returns how many due checkpoints of active
// policies are still undismissed.
func (s *Service) PendingCount(ctx context.Context, today time.Time) (int, error) {
	res, err := s.Reconcile(ctx, today)
	if err != nil {
		return 0, err
	}
	return res.Pending, nil
}

// ListPending reconciles and lists undismissed notices due by today. A failed
// reconcile is logged; the list reflects whatever is already stored.
func (s *Service) ListPending(ctx context.Context, today time.Time) ([]domain.PendingRenewal, error) {
	if _, err := s.Reconcile(ctx, today); err != nil {
		s.logger.WithError(err).Warn("renewal reconcile failed, listing stored notices")
	}
	return s.repo.ListPending(ctx, today)
}

// Dismiss acknowledges a notice and returns a confirmation message.
func (s *Service) Dismiss(ctx context.Context, id int64) (*domain.RenewalNotice, string, error) {
	n, err := s.repo.Dismiss(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return n, fmt.Sprintf("Renewal for %s (Year %d) has been marked as complete.", n.PolicyNo, n.RenewalYear), nil
}
