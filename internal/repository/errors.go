// Package repository defines error types that are reused across the data
// access layer. These values allow higher layers such as handlers to
// distinguish between validation, lookup and storage failures and map each
// one to its own HTTP status.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// ErrPlantNotFound is returned when no plant exists with the requested id.
// Handlers should translate this into an HTTP 404 response.
var ErrPlantNotFound = errors.New("plant not found")

// ErrMissingFields is returned by Create when name, image or price is
// absent. Handlers should translate this into an HTTP 400 response.
var ErrMissingFields = errors.New("missing required fields")

// StorageError wraps a failure reported by the database while reading or
// committing. The enclosing transaction has already been rolled back when
// a StorageError reaches the caller.
type StorageError struct {
	Op         string // list, get, create, update or delete
	Constraint bool   // true when the engine rejected the write on a constraint
	Err        error
}

func (e *StorageError) Error() string { return e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Constraint: isConstraintViolation(err), Err: err}
}

// isConstraintViolation recognizes integrity errors from every supported
// dialect. gorm translates unique violations itself when TranslateError is
// set; the driver-specific checks cover NOT NULL and foreign keys.
func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1048, 1062, 1452: // null column, duplicate entry, foreign key
			return true
		}
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23") // integrity_constraint_violation class
	}
	return false
}
