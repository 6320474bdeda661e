// Package repository holds helpers shared by the Postgres repositories in
// its subpackages.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"insurance-tracker/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// ErrMissingReference is a foreign key violation on a reference other than
// the owning customer, such as a notice whose policy was deleted.
var ErrMissingReference = errors.New("referenced record does not exist")

// customerFKSuffix ends the default name of every customer_id foreign key.
const customerFKSuffix = "_customer_id_fkey"

// MapError translates driver errors into domain errors.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return domain.ErrAlreadyExists
		case codeForeignKeyViolation:
			if strings.HasSuffix(pgErr.ConstraintName, customerFKSuffix) {
				return domain.ErrUnknownCustomer
			}
			return fmt.Errorf("%w: %s", ErrMissingReference, pgErr.ConstraintName)
		}
	}
	return err
}

// LockCustomer holds a share lock on the owning customer for the rest of tx
// so it cannot be deleted underneath a child insert.
func LockCustomer(ctx context.Context, tx pgx.Tx, customerID string) error {
	var one int
	err := tx.QueryRow(ctx, `SELECT 1 FROM customers WHERE id = $1 FOR SHARE`, customerID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUnknownCustomer
	}
	return err
}

// WindowClause renders w as a predicate on column, appending its bounds to
// args. An unbounded window renders as TRUE.
func WindowClause(column string, w domain.Window, args *[]any) string {
	var parts []string
	if w.From != nil {
		*args = append(*args, domain.DateOf(*w.From))
		parts = append(parts, fmt.Sprintf("%s >= $%d", column, len(*args)))
	}
	if w.To != nil {
		*args = append(*args, domain.DateOf(*w.To))
		parts = append(parts, fmt.Sprintf("%s <= $%d", column, len(*args)))
	}
	if len(parts) == 0 {
		return "TRUE"
	}
	return strings.Join(parts, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds an ILIKE pattern matching s anywhere.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
