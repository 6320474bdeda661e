// Package scheduler runs the renewal reconcile on a cron schedule, so
// notices exist before anyone opens the renewals page.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/logging"
	engine "insurance-tracker/internal/renewal"
)

// DefaultTimeout bounds one reconcile run.
const DefaultTimeout = 5 * time.Minute

type reconciler interface {
	Reconcile(ctx context.Context, today time.Time) (engine.Result, error)
}

type Scheduler struct {
	cron    *cron.Cron
	spec    string
	rec     reconciler
	loc     *time.Location
	now     func() time.Time
	timeout time.Duration
	logger  logrus.FieldLogger
}

// New builds a scheduler that fires spec in loc. Overlapping runs are
// skipped and a panicking run is recovered.
func New(spec string, loc *time.Location, rec reconciler, logger logrus.FieldLogger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	logger = logging.OrDiscard(logger).WithField("component", "scheduler")
	cronLog := cron.PrintfLogger(logger)
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		spec:    spec,
		rec:     rec,
		loc:     loc,
		now:     time.Now,
		timeout: DefaultTimeout,
		logger:  logger,
	}
}

// Start registers the job and starts the cron engine.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		return fmt.Errorf("schedule renewal reconcile %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.WithField("spec", s.spec).Info("renewal scheduler started")
	return nil
}

// RunOnce reconciles for the current calendar day in the configured zone.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	today := domain.Today(s.now(), s.loc)
	res, err := s.rec.Reconcile(ctx, today)
	log := s.logger.WithField("today", today.Format(domain.DateLayout))
	if err != nil {
		log.WithError(err).Error("scheduled renewal reconcile failed")
		return
	}
	log.WithFields(logrus.Fields{
		"scanned": res.Scanned,
		"created": res.Created,
		"pending": res.Pending,
		"failed":  res.Failed,
	}).Info("scheduled renewal reconcile finished")
}

// Stop stops scheduling and waits for a running job, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("renewal scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("renewal scheduler stop timed out")
	}
}
