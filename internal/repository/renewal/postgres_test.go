package renewal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"insurance-tracker/internal/domain"
	engine "insurance-tracker/internal/renewal"
	"insurance-tracker/internal/repository"
	"insurance-tracker/internal/repository/repotest"
)

func date(s string) time.Time {
	t, _ := time.Parse(domain.DateLayout, s)
	return t
}

func TestPostgres_ReconcileIdempotentAndDismiss(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	repotest.InsertCustomer(t, pool, "C-1", "Alpha")
	if _, err := pool.Exec(ctx, `
INSERT INTO insurances (policy_no, customer_id, starting_period, end_period) VALUES
('P-1', 'C-1', '2022-03-01', '2025-03-01'),
('P-OLD', 'C-1', '2020-01-01', '2022-01-01')`); err != nil {
		t.Fatalf("insert policies: %v", err)
	}

	repo := NewPostgres(pool, nil)
	rec := engine.NewReconciler(repo, nil)
	today := date("2024-03-15")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := rec.Reconcile(ctx, today); err != nil {
				t.Errorf("Reconcile: %v", err)
			}
		}()
	}
	wg.Wait()

	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM renewal_notices`).Scan(&count); err != nil || count != 2 {
		t.Fatalf("expected 2 notices, got %d (%v)", count, err)
	}

	pending, err := repo.ListPending(ctx, today)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 2 || pending[0].RenewalYear != 2023 || pending[1].RenewalYear != 2024 {
		t.Fatalf("unexpected pending %+v", pending)
	}
	if pending[1].CustomerName != "Alpha" || !pending[1].DueDate.Equal(date("2024-03-01")) {
		t.Fatalf("unexpected join %+v", pending[1])
	}

	dismissed, err := repo.Dismiss(ctx, pending[0].ID)
	if err != nil || !dismissed.Dismissed {
		t.Fatalf("Dismiss: %+v (%v)", dismissed, err)
	}
	if _, err := repo.Dismiss(ctx, 424242); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	res, err := rec.Reconcile(ctx, today)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.Created != 0 || res.Pending != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	again, err := repo.Get(ctx, pending[0].ID)
	if err != nil || !again.Dismissed {
		t.Fatalf("dismissal must stick: %+v (%v)", again, err)
	}
}

func TestPostgres_EnsureNoticeForRemovedPolicy(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	repo := NewPostgres(pool, nil)

	_, _, err := repo.EnsureNotice(ctx, "P-GONE", engine.Checkpoint{Year: 2024, DueDate: date("2024-03-01")})
	if !errors.Is(err, repository.ErrMissingReference) {
		t.Fatalf("expected ErrMissingReference, got %v", err)
	}
	if errors.Is(err, domain.ErrUnknownCustomer) {
		t.Fatalf("missing policy reported as missing customer: %v", err)
	}
}
