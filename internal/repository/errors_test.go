package repository

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

func TestIsConstraintViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: true},
		{name: "sqlite not null", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, want: true},
		{name: "sqlite busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: false},
		{name: "mysql duplicate entry", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, want: true},
		{name: "mysql null column", err: &mysql.MySQLError{Number: 1048}, want: true},
		{name: "mysql lock wait", err: &mysql.MySQLError{Number: 1205}, want: false},
		{name: "postgres unique", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "postgres serialization", err: &pgconn.PgError{Code: "40001"}, want: false},
		{name: "wrapped", err: fmt.Errorf("commit: %w", &pgconn.PgError{Code: "23502"}), want: true},
		{name: "plain", err: errors.New("disk I/O error"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(isConstraintViolation(tt.err), qt.Equals, tt.want)
		})
	}
}

func TestStorageError(t *testing.T) {
	c := qt.New(t)

	cause := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x'"}
	err := storageErr("create", cause)

	var se *StorageError
	c.Assert(errors.As(err, &se), qt.IsTrue)
	c.Assert(se.Op, qt.Equals, "create")
	c.Assert(se.Constraint, qt.IsTrue)
	c.Assert(err.Error(), qt.Equals, cause.Error())
	c.Assert(errors.Is(err, cause), qt.IsTrue)
}
