package renewal

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/logging"
	engine "insurance-tracker/internal/renewal"
	"insurance-tracker/internal/repository"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger logrus.FieldLogger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger logrus.FieldLogger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger)}
}

const columns = `id, policy_no, renewal_year, due_date, is_dismissed, created_at`

func (r *postgresRepo) ListActive(ctx context.Context, today time.Time) ([]domain.Insurance, error) {
	rows, err := r.pool.Query(ctx, `
SELECT policy_no, customer_id, starting_period, end_period
FROM insurances
WHERE end_period > $1
ORDER BY policy_no`, domain.DateOf(today))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Insurance
	for rows.Next() {
		var p domain.Insurance
		if err := rows.Scan(&p.PolicyNo, &p.CustomerID, &p.StartingPeriod, &p.EndPeriod); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// EnsureNotice inserts the notice unless one exists for the same policy and
// year. The unique key settles concurrent callers: the loser reads the
// winner's row.
func (r *postgresRepo) EnsureNotice(ctx context.Context, policyNo string, cp engine.Checkpoint) (domain.RenewalNotice, bool, error) {
	n, err := scanNotice(r.pool.QueryRow(ctx, `
INSERT INTO renewal_notices (policy_no, renewal_year, due_date)
VALUES ($1, $2, $3)
ON CONFLICT (policy_no, renewal_year) DO NOTHING
RETURNING `+columns, policyNo, cp.Year, domain.DateOf(cp.DueDate)))
	if err == nil {
		return *n, true, nil
	}
	if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrAlreadyExists) {
		return domain.RenewalNotice{}, false, err
	}

	n, err = scanNotice(r.pool.QueryRow(ctx, `
SELECT `+columns+`
FROM renewal_notices
WHERE policy_no = $1 AND renewal_year = $2`, policyNo, cp.Year))
	if err != nil {
		return domain.RenewalNotice{}, false, err
	}
	return *n, false, nil
}

func (r *postgresRepo) Get(ctx context.Context, id int64) (*domain.RenewalNotice, error) {
	return scanNotice(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM renewal_notices WHERE id = $1`, id))
}

func (r *postgresRepo) ListPending(ctx context.Context, today time.Time) ([]domain.PendingRenewal, error) {
	rows, err := r.pool.Query(ctx, `
SELECT n.id, n.policy_no, n.renewal_year, n.due_date, n.is_dismissed, n.created_at,
       i.customer_id, c.name, i.insurer, i.end_period
FROM renewal_notices n
JOIN insurances i ON i.policy_no = n.policy_no
JOIN customers c ON c.id = i.customer_id
WHERE NOT n.is_dismissed AND n.due_date <= $1
ORDER BY n.due_date, n.id`, domain.DateOf(today))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PendingRenewal
	for rows.Next() {
		var p domain.PendingRenewal
		if err := rows.Scan(
			&p.ID, &p.PolicyNo, &p.RenewalYear, &p.DueDate, &p.Dismissed, &p.CreatedAt,
			&p.CustomerID, &p.CustomerName, &p.Insurer, &p.EndPeriod,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Dismiss(ctx context.Context, id int64) (*domain.RenewalNotice, error) {
	n, err := scanNotice(r.pool.QueryRow(ctx, `
UPDATE renewal_notices
SET is_dismissed = TRUE
WHERE id = $1
RETURNING `+columns, id))
	if err != nil {
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"notice": n.ID, "policy": n.PolicyNo, "year": n.RenewalYear}).Info("renewal notice dismissed")
	return n, nil
}

func scanNotice(row pgx.Row) (*domain.RenewalNotice, error) {
	var n domain.RenewalNotice
	if err := row.Scan(&n.ID, &n.PolicyNo, &n.RenewalYear, &n.DueDate, &n.Dismissed, &n.CreatedAt); err != nil {
		return nil, repository.MapError(err)
	}
	return &n, nil
}
