// Package postgres implements the store interfaces over PostgreSQL
// using pgx. Driver errors are translated to the store package's
// sentinel errors so callers never depend on postgres error codes.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/CareFleet/care-fleet-backend/store"
)

// DB is the subset of pgxpool.Pool the stores use. pgxmock satisfies it
// in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// translateError maps driver-level failures onto store sentinels:
// unique-constraint violations become ErrDuplicate, and a missing
// relation (an unapplied migration) becomes ErrRelationUnavailable so
// callers can tell "broken deployment" apart from "denied".
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", store.ErrDuplicate, pgErr.ConstraintName)
		case pgerrcode.UndefinedTable:
			return fmt.Errorf("%w: %s", store.ErrRelationUnavailable, pgErr.Message)
		}
	}
	return err
}
