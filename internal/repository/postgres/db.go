package postgres

import (
	"errors"

	xerrors "fleetflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// errNoRows is handed to translateErr when an Exec touched nothing.
var errNoRows = pgx.ErrNoRows

// translateErr maps low-level pgx errors onto the application sentinels:
// missing rows become ErrNotFound, unique and foreign-key violations become
// ErrConflict.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return xerrors.Wrap(xerrors.ErrConflict, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return xerrors.Wrap(xerrors.ErrConflict, pgErr.ConstraintName)
		}
	}
	return err
}
