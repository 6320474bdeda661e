package warranty

import (
	"context"
	"fmt"
	"strconv"

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

const columns = `id, customer_id, product, start_date, end_date, details`

func (r *postgresRepo) Create(ctx context.Context, w domain.Warranty) (*domain.Warranty, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := repository.LockCustomer(ctx, tx, w.CustomerID); err != nil {
		return nil, err
	}
	created, err := scanWarranty(tx.QueryRow(ctx, `
INSERT INTO warranties (customer_id, product, start_date, end_date, details)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+columns,
		w.CustomerID, w.Product.Value, domain.DateOf(w.StartDate), domain.DateOf(w.EndDate), w.Details,
	))
	if err != nil {
		return nil, err
	}
	return created, tx.Commit(ctx)
}

func (r *postgresRepo) Get(ctx context.Context, id int64) (*domain.Warranty, error) {
	return scanWarranty(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM warranties WHERE id = $1`, id))
}

func (r *postgresRepo) Update(ctx context.Context, w domain.Warranty) (*domain.Warranty, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := repository.LockCustomer(ctx, tx, w.CustomerID); err != nil {
		return nil, err
	}
	updated, err := scanWarranty(tx.QueryRow(ctx, `
UPDATE warranties
SET customer_id = $2, product = $3, start_date = $4, end_date = $5, details = $6
WHERE id = $1
RETURNING `+columns,
		w.ID, w.CustomerID, w.Product.Value, domain.DateOf(w.StartDate), domain.DateOf(w.EndDate), w.Details,
	))
	if err != nil {
		return nil, err
	}
	return updated, tx.Commit(ctx)
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM warranties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Warranty, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM warranties WHERE customer_id = $1 ORDER BY end_date, id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Warranty
	for rows.Next() {
		w, err := scanWarranty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func (r *postgresRepo) CountEnding(ctx context.Context, w domain.Window) (int, error) {
	var args []any
	where := repository.WindowClause("end_date", w, &args)
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM warranties WHERE `+where, args...).Scan(&n)
	return n, err
}

func (r *postgresRepo) ListEnding(ctx context.Context, win domain.Window) ([]domain.ExpiringItem, error) {
	var args []any
	where := repository.WindowClause("w.end_date", win, &args)
	q := fmt.Sprintf(`
SELECT w.id, w.customer_id, c.name, w.product, w.end_date
FROM warranties w
JOIN customers c ON c.id = w.customer_id
WHERE %s
ORDER BY w.end_date, w.id`, where)
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ExpiringItem
	for rows.Next() {
		var id int64
		it := domain.ExpiringItem{Kind: domain.KindWarranty}
		if err := rows.Scan(&id, &it.CustomerID, &it.CustomerName, &it.Label, &it.Date); err != nil {
			return nil, err
		}
		it.Ref = strconv.FormatInt(id, 10)
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanWarranty(row pgx.Row) (*domain.Warranty, error) {
	var w domain.Warranty
	var product string
	if err := row.Scan(&w.ID, &w.CustomerID, &product, &w.StartDate, &w.EndDate, &w.Details); err != nil {
		return nil, repository.MapError(err)
	}
	w.Product = domain.WarrantyProducts.FromStored(product)
	return &w, nil
}
