package defect

import (
	"context"
	"fmt"
	"strconv"
	"time"

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

const columns = `id, customer_id, report_date, accident_date, resolution_deadline, defect_type, status`

func (r *postgresRepo) Create(ctx context.Context, d domain.Defect) (*domain.Defect, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := repository.LockCustomer(ctx, tx, d.CustomerID); err != nil {
		return nil, err
	}
	created, err := scanDefect(tx.QueryRow(ctx, `
INSERT INTO defects (customer_id, report_date, accident_date, resolution_deadline, defect_type, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+columns,
		d.CustomerID, domain.DateOf(d.ReportDate), d.AccidentDate, domain.DateOf(d.ResolutionDeadline), d.Type.Value, string(d.Status),
	))
	if err != nil {
		return nil, err
	}
	return created, tx.Commit(ctx)
}

func (r *postgresRepo) Get(ctx context.Context, id int64) (*domain.Defect, error) {
	return scanDefect(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM defects WHERE id = $1`, id))
}

func (r *postgresRepo) Update(ctx context.Context, d domain.Defect) (*domain.Defect, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := repository.LockCustomer(ctx, tx, d.CustomerID); err != nil {
		return nil, err
	}
	updated, err := scanDefect(tx.QueryRow(ctx, `
UPDATE defects
SET customer_id = $2, report_date = $3, accident_date = $4, resolution_deadline = $5, defect_type = $6, status = $7
WHERE id = $1
RETURNING `+columns,
		d.ID, d.CustomerID, domain.DateOf(d.ReportDate), d.AccidentDate, domain.DateOf(d.ResolutionDeadline), d.Type.Value, string(d.Status),
	))
	if err != nil {
		return nil, err
	}
	return updated, tx.Commit(ctx)
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM defects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetStatus(ctx context.Context, id int64, status domain.DefectStatus) (*domain.Defect, error) {
	return scanDefect(r.pool.QueryRow(ctx, `UPDATE defects SET status = $2 WHERE id = $1 RETURNING `+columns, id, string(status)))
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Defect, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM defects WHERE customer_id = $1 ORDER BY resolution_deadline, id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Defect
	for rows.Next() {
		d, err := scanDefect(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *postgresRepo) ListIncidents(ctx context.Context) ([]Incident, error) {
	rows, err := r.pool.Query(ctx, `
SELECT d.id, d.customer_id, d.report_date, d.accident_date, d.resolution_deadline, d.defect_type, d.status, c.name
FROM defects d
JOIN customers c ON c.id = d.customer_id
WHERE d.accident_date IS NOT NULL
ORDER BY d.status, d.accident_date DESC, d.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Incident
	for rows.Next() {
		var in Incident
		var kind, status string
		if err := rows.Scan(&in.ID, &in.CustomerID, &in.ReportDate, &in.AccidentDate, &in.ResolutionDeadline, &kind, &status, &in.CustomerName); err != nil {
			return nil, err
		}
		in.Type = domain.DefectTypes.FromStored(kind)
		in.Status = domain.DefectStatus(status)
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *postgresRepo) LatestDeadlines(ctx context.Context) (map[string]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
SELECT customer_id, max(resolution_deadline)
FROM defects
WHERE accident_date IS NULL
GROUP BY customer_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]time.Time{}
	for rows.Next() {
		var id string
		var deadline time.Time
		if err := rows.Scan(&id, &deadline); err != nil {
			return nil, err
		}
		out[id] = deadline
	}
	return out, rows.Err()
}

func (r *postgresRepo) CountEnding(ctx context.Context, w domain.Window) (int, error) {
	var args []any
	where := repository.WindowClause("resolution_deadline", w, &args)
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM defects WHERE accident_date IS NULL AND `+where, args...).Scan(&n)
	return n, err
}

func (r *postgresRepo) ListEnding(ctx context.Context, w domain.Window) ([]domain.ExpiringItem, error) {
	var args []any
	where := repository.WindowClause("d.resolution_deadline", w, &args)
	q := fmt.Sprintf(`
SELECT d.id, d.customer_id, c.name, d.defect_type, d.resolution_deadline
FROM defects d
JOIN customers c ON c.id = d.customer_id
WHERE d.accident_date IS NULL AND %s
ORDER BY d.resolution_deadline, d.id`, where)
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ExpiringItem
	for rows.Next() {
		var id int64
		it := domain.ExpiringItem{Kind: domain.KindLiability}
		if err := rows.Scan(&id, &it.CustomerID, &it.CustomerName, &it.Label, &it.Date); err != nil {
			return nil, err
		}
		it.Ref = strconv.FormatInt(id, 10)
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanDefect(row pgx.Row) (*domain.Defect, error) {
	var d domain.Defect
	var kind, status string
	if err := row.Scan(&d.ID, &d.CustomerID, &d.ReportDate, &d.AccidentDate, &d.ResolutionDeadline, &kind, &status); err != nil {
		return nil, repository.MapError(err)
	}
	d.Type = domain.DefectTypes.FromStored(kind)
	d.Status = domain.DefectStatus(status)
	return &d, nil
}
