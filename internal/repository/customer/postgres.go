package customer

import (
	"context"
	"fmt"
	"strings"

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

const columns = `id, name, address, email, phone, in_charge, proposal_by, engineers, installer, installed_on, created_at`

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	q := `
INSERT INTO customers (id, name, address, email, phone, in_charge, proposal_by, engineers, installer, installed_on)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + columns
	return r.scanCustomer(r.pool.QueryRow(ctx, q,
		strings.TrimSpace(c.ID),
		c.Name,
		c.Address,
		strings.ToLower(c.Email),
		c.Phone,
		c.InCharge.Value,
		c.ProposalBy.Value,
		domain.JoinEngineers(c.Engineers),
		c.Installer,
		c.InstalledOn,
	))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	q := `SELECT ` + columns + ` FROM customers WHERE id = $1`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	q := `
UPDATE customers
SET name = $2, address = $3, email = $4, phone = $5, in_charge = $6, proposal_by = $7,
    engineers = $8, installer = $9, installed_on = $10
WHERE id = $1
RETURNING ` + columns
	return r.scanCustomer(r.pool.QueryRow(ctx, q,
		c.ID,
		c.Name,
		c.Address,
		strings.ToLower(c.Email),
		c.Phone,
		c.InCharge.Value,
		c.ProposalBy.Value,
		domain.JoinEngineers(c.Engineers),
		c.Installer,
		c.InstalledOn,
	))
}

// Delete removes the customer; owned rows go with it through ON DELETE CASCADE.
func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Count(ctx context.Context, f Filter) (int, error) {
	var args []any
	where := filterClause(f, &args)
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM customers WHERE `+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresRepo) List(ctx context.Context, lq ListQuery) ([]domain.Customer, error) {
	var args []any
	where := filterClause(lq.Filter, &args)

	column, ok := SortKeys[lq.SortKey]
	if !ok {
		column = SortKeys[DefaultSortKey]
	}
	dir := "ASC"
	if lq.Desc {
		dir = "DESC"
	}
	q := fmt.Sprintf(`SELECT %s FROM customers WHERE %s ORDER BY %s %s, id ASC`, columns, where, column, dir)
	if lq.Limit > 0 {
		args = append(args, lq.Limit, lq.Offset)
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func filterClause(f Filter, args *[]any) string {
	search := strings.TrimSpace(f.Search)
	if search == "" {
		return "TRUE"
	}
	cols, ok := SearchFields[f.Field]
	if !ok {
		cols = SearchFields["all"]
	}
	*args = append(*args, repository.ContainsPattern(search))
	n := len(*args)
	parts := make([]string, 0, len(cols))
	for _, col := range cols {
		parts = append(parts, fmt.Sprintf("%s ILIKE $%d", col, n))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	var inCharge, proposalBy, engineers string
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Address,
		&c.Email,
		&c.Phone,
		&inCharge,
		&proposalBy,
		&engineers,
		&c.Installer,
		&c.InstalledOn,
		&c.CreatedAt,
	)
	if err != nil {
		mapped := repository.MapError(err)
		if mapped == err {
			r.logger.WithError(err).Error("customer repo: scan")
		}
		return nil, mapped
	}
	c.InCharge = domain.InChargeChoices.FromStored(inCharge)
	c.ProposalBy = domain.ProposalByChoices.FromStored(proposalBy)
	c.Engineers = domain.SplitEngineers(engineers)
	return &c, nil
}
