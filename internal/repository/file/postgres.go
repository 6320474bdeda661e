package file

import (
	"context"

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

const columns = `id, customer_id, object_key, file_name, description, content_type, size_bytes, uploaded_at`

func (r *postgresRepo) Create(ctx context.Context, f domain.CustomerFile) (*domain.CustomerFile, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := repository.LockCustomer(ctx, tx, f.CustomerID); err != nil {
		return nil, err
	}
	created, err := scanFile(tx.QueryRow(ctx, `
INSERT INTO customer_files (customer_id, object_key, file_name, description, content_type, size_bytes)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+columns,
		f.CustomerID, f.ObjectKey, f.FileName, f.Description, f.ContentType, f.Size,
	))
	if err != nil {
		return nil, err
	}
	return created, tx.Commit(ctx)
}

func (r *postgresRepo) Get(ctx context.Context, id int64) (*domain.CustomerFile, error) {
	return scanFile(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM customer_files WHERE id = $1`, id))
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customer_files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.CustomerFile, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM customer_files WHERE customer_id = $1 ORDER BY uploaded_at DESC, id DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CustomerFile
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func scanFile(row pgx.Row) (*domain.CustomerFile, error) {
	var f domain.CustomerFile
	err := row.Scan(&f.ID, &f.CustomerID, &f.ObjectKey, &f.FileName, &f.Description, &f.ContentType, &f.Size, &f.UploadedAt)
	if err != nil {
		return nil, repository.MapError(err)
	}
	return &f, nil
}
