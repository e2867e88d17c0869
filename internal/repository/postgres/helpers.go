package postgres

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for unique constraint
// violations. Uniqueness constraints are the sole concurrency-correctness
// mechanism: concurrent duplicate writes race and the loser surfaces here.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// nullString maps "" to SQL NULL on write.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// itoa shortens positional-placeholder building in dynamic WHERE clauses.
func itoa(n int) string { return strconv.Itoa(n) }
