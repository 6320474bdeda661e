package insurance

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/logging"
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

const columns = `policy_no, customer_id, insurer, sum_amount_cents, total_payable_cents, starting_period, end_period, status`

func (r *postgresRepo) Create(ctx context.Context, in domain.Insurance) (*domain.Insurance, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := repository.LockCustomer(ctx, tx, in.CustomerID); err != nil {
		return nil, err
	}
	created, err := scanInsurance(tx.QueryRow(ctx, `
INSERT INTO insurances (policy_no, customer_id, insurer, sum_amount_cents, total_payable_cents, starting_period, end_period, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+columns,
		in.PolicyNo, in.CustomerID, in.Insurer, in.SumAmountCents, in.TotalPayableCents,
		domain.DateOf(in.StartingPeriod), domain.DateOf(in.EndPeriod), in.Status,
	))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"policy": created.PolicyNo, "customer": created.CustomerID}).Debug("insurance created")
	return created, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, in domain.Insurance) (*domain.Insurance, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := repository.LockCustomer(ctx, tx, in.CustomerID); err != nil {
		return nil, err
	}
	saved, err := scanInsurance(tx.QueryRow(ctx, `
INSERT INTO insurances (policy_no, customer_id, insurer, sum_amount_cents, total_payable_cents, starting_period, end_period, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (policy_no) DO UPDATE
SET customer_id = EXCLUDED.customer_id,
    insurer = EXCLUDED.insurer,
    sum_amount_cents = EXCLUDED.sum_amount_cents,
    total_payable_cents = EXCLUDED.total_payable_cents,
    starting_period = EXCLUDED.starting_period,
    end_period = EXCLUDED.end_period,
    status = EXCLUDED.status
RETURNING `+columns,
		in.PolicyNo, in.CustomerID, in.Insurer, in.SumAmountCents, in.TotalPayableCents,
		domain.DateOf(in.StartingPeriod), domain.DateOf(in.EndPeriod), in.Status,
	))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *postgresRepo) Get(ctx context.Context, policyNo string) (*domain.Insurance, error) {
	return scanInsurance(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM insurances WHERE policy_no = $1`, policyNo))
}

func (r *postgresRepo) Update(ctx context.Context, in domain.Insurance) (*domain.Insurance, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := repository.LockCustomer(ctx, tx, in.CustomerID); err != nil {
		return nil, err
	}
	updated, err := scanInsurance(tx.QueryRow(ctx, `
UPDATE insurances
SET customer_id = $2, insurer = $3, sum_amount_cents = $4, total_payable_cents = $5,
    starting_period = $6, end_period = $7, status = $8
WHERE policy_no = $1
RETURNING `+columns,
		in.PolicyNo, in.CustomerID, in.Insurer, in.SumAmountCents, in.TotalPayableCents,
		domain.DateOf(in.StartingPeriod), domain.DateOf(in.EndPeriod), in.Status,
	))
	if err != nil {
		return nil, err
	}
	return updated, tx.Commit(ctx)
}

func (r *postgresRepo) Delete(ctx context.Context, policyNo string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM insurances WHERE policy_no = $1`, policyNo)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Insurance, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM insurances WHERE customer_id = $1 ORDER BY end_period, policy_no`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Insurance
	for rows.Next() {
		p, err := scanInsurance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) CountEnding(ctx context.Context, w domain.Window) (int, error) {
	var args []any
	where := repository.WindowClause("end_period", w, &args)
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM insurances WHERE `+where, args...).Scan(&n)
	return n, err
}

func (r *postgresRepo) ListEnding(ctx context.Context, w domain.Window) ([]domain.ExpiringItem, error) {
	var args []any
	where := repository.WindowClause("i.end_period", w, &args)
	q := fmt.Sprintf(`
SELECT i.policy_no, i.customer_id, c.name, i.insurer, i.end_period
FROM insurances i
JOIN customers c ON c.id = i.customer_id
WHERE %s
ORDER BY i.end_period, i.policy_no`, where)
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ExpiringItem
	for rows.Next() {
		it := domain.ExpiringItem{Kind: domain.KindInsurance}
		if err := rows.Scan(&it.Ref, &it.CustomerID, &it.CustomerName, &it.Label, &it.Date); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanInsurance(row pgx.Row) (*domain.Insurance, error) {
	var p domain.Insurance
	err := row.Scan(
		&p.PolicyNo,
		&p.CustomerID,
		&p.Insurer,
		&p.SumAmountCents,
		&p.TotalPayableCents,
		&p.StartingPeriod,
		&p.EndPeriod,
		&p.Status,
	)
	if err != nil {
		return nil, repository.MapError(err)
	}
	return &p, nil
}
