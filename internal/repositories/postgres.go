package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateUniqueViolation      = "23505"
)

// isUUID reports whether id can be compared against a uuid column.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// validUUIDs drops ids that Postgres would reject as uuid input.
func validUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if isUUID(id) {
			out = append(out, id)
		}
	}
	return out
}

// retryable reports whether a serializable toggle lost a race to a
// concurrent one and can be run again.
func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlStateSerializationFailure || pgErr.Code == sqlStateUniqueViolation
}

// serializable runs fn in a serializable transaction, retrying once when
// it collides with a concurrent transaction on the same rows.
func serializable(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}
	err := db.WithContext(ctx).Transaction(fn, opts)
	if retryable(err) {
		err = db.WithContext(ctx).Transaction(fn, opts)
	}
	return err
}
