package sql

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE class 23 codes for constraint violations.
const (
	pgIntegrityViolation  = "23000"
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// MySQL error numbers for constraint violations.
var mysqlConstraintNumbers = map[uint16]struct{}{
	1062: {}, // ER_DUP_ENTRY
	1216: {}, // ER_NO_REFERENCED_ROW
	1217: {}, // ER_ROW_IS_REFERENCED
	1451: {}, // ER_ROW_IS_REFERENCED_2
	1452: {}, // ER_NO_REFERENCED_ROW_2
	3819: {}, // ER_CHECK_CONSTRAINT_VIOLATED
}

// sqlite constraint errors surface with this marker in their message;
// modernc.org/sqlite renders the extended result code the same way the
// C library does.
const sqliteConstraintMarker = "constraint failed"

// IsConstraintViolation reports whether the error resulted from a
// database constraint violation: a duplicate key, a violated foreign
// key reference, a failed check, or a NULL in a NOT NULL column.
// A constraint violation surfaces to callers as a StatementError; this
// helper classifies its cause across the supported drivers.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		switch code {
		case pgIntegrityViolation, pgNotNullViolation, pgForeignKeyViolation,
			pgUniqueViolation, pgCheckViolation:
			return true
		}
		return strings.HasPrefix(code, "23")
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		_, ok := mysqlConstraintNumbers[myErr.Number]
		return ok
	}
	return strings.Contains(strings.ToLower(err.Error()), sqliteConstraintMarker)
}

// IsUniqueViolation reports whether the error resulted from a unique
// constraint violation specifically.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed")
}
