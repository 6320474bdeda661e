package renewal

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/logging"
)

// Store is what the reconciler needs from persistence.
type Store interface {
	// ListActive returns policies whose end period is after today.
	ListActive(ctx context.Context, today time.Time) ([]domain.Insurance, error)
	// EnsureNotice returns the notice for (policyNo, cp.Year), creating it
	// when absent. A concurrent insert of the same key must be reported as
	// the existing row, not as an error.
	EnsureNotice(ctx context.Context, policyNo string, cp Checkpoint) (domain.RenewalNotice, bool, error)
}

// Result describes one reconcile pass.
type Result struct {
	Scanned int `json:"scanned"`
	Due     int `json:"due"`
	Created int `json:"created"`
	// Pending counts due checkpoints whose notice is not dismissed.
	Pending int `json:"pending"`
	Failed  int `json:"failed"`
}

// Reconciler brings the notice table in line with the active policies.
// Passes are idempotent and safe to run concurrently.
type Reconciler struct {
	store  Store
	logger logrus.FieldLogger
}

func NewReconciler(store Store, logger logrus.FieldLogger) *Reconciler {
	return &Reconciler{store: store, logger: logging.OrDiscard(logger)}
}

// Reconcile scans every active policy as of today. A failure on one policy
// is logged and counted; the scan moves on.
func (r *Reconciler) Reconcile(ctx context.Context, today time.Time) (Result, error) {
	today = domain.DateOf(today)
	policies, err := r.store.ListActive(ctx, today)
	if err != nil {
		return Result{}, fmt.Errorf("list active policies: %w", err)
	}

	var res Result
	for _, p := range policies {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Scanned++
		for _, cp := range Due(p.StartingPeriod, p.EndPeriod, today) {
			res.Due++
			notice, created, err := r.store.EnsureNotice(ctx, p.PolicyNo, cp)
			if err != nil {
				res.Failed++
				r.logger.WithError(err).WithFields(logrus.Fields{
					"policy": p.PolicyNo,
					"year":   cp.Year,
				}).Warn("renewal notice not recorded")
				continue
			}
			if created {
				res.Created++
				r.logger.WithFields(logrus.Fields{
					"policy": p.PolicyNo,
					"year":   cp.Year,
					"due":    cp.DueDate.Format(domain.DateLayout),
				}).Info("renewal notice created")
			}
			if !notice.Dismissed {
				res.Pending++
			}
		}
	}
	return res, nil
}
