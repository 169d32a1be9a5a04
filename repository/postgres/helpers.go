package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// isUUID guards uuid columns so malformed ids read as missing rows
// instead of failing the query.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func nullString(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func nullTimePtr(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC()
}

func limitArg(limit int) interface{} {
	if limit <= 0 {
		return nil
	}
	if limit > 500 {
		return 500
	}
	return limit
}
