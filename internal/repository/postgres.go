package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

var (
	// ErrDuplicate is returned when an insert or update hits a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
	// ErrForeignKey is returned when a child row references a missing parent.
	ErrForeignKey = errors.New("foreign key violation")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type PostgresRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPostgresRepository(db *sql.DB, logger zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, nil)
}

// withTx runs fn in a transaction, committing on nil and rolling back otherwise.
func (r *PostgresRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// translateError maps constraint violations to ErrDuplicate/ErrForeignKey.
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrForeignKey, pqErr.Constraint)
		}
	}
	return err
}

// lockExists reports whether a row with key exists, locking it for the rest
// of the transaction.
func lockExists(ctx context.Context, tx *sql.Tx, table, keyColumn string, key interface{}, lock string) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1 %s`, table, keyColumn, lock)

	var one int
	err := tx.QueryRowContext(ctx, query, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

const (
	lockForUpdate   = "FOR UPDATE"
	lockForKeyShare = "FOR KEY SHARE"
)

// deleteByKey deletes one row of a childless table and reports whether it existed.
func deleteByKey(ctx context.Context, db *sql.DB, spec ListSpec, key interface{}) (bool, error) {
	result, err := db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, spec.Table, spec.KeyColumn), key)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
