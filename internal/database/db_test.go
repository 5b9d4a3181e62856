package database

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/plant-catalog/internal/config"
	"github.com/iliyamo/plant-catalog/internal/model"
)

func TestOpenUnsupportedDriver(t *testing.T) {
	c := qt.New(t)
	_, err := Open(config.DBConfig{Driver: "oracle"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.Assert(err, qt.ErrorMatches, `unsupported database driver "oracle"`)
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	c := qt.New(t)
	db, err := Open(config.DBConfig{Driver: "sqlite", Path: filepath.Join(c.TempDir(), "plants.db")}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.Assert(err, qt.IsNil)
	defer Close(db)

	c.Assert(Migrate(context.Background(), db), qt.IsNil)
	c.Assert(Migrate(context.Background(), db), qt.IsNil) // idempotent
	c.Assert(db.Migrator().HasTable(&model.Plant{}), qt.IsTrue)
	for _, col := range []string{"id", "name", "image", "price", "is_in_stock"} {
		c.Assert(db.Migrator().HasColumn(&model.Plant{}, col), qt.IsTrue, qt.Commentf("column %s", col))
	}
}

func TestMySQLDSN(t *testing.T) {
	c := qt.New(t)
	dsn := mysqlDSN(config.DBConfig{User: "plants", Pass: "p@ss:word", Host: "db", Name: "catalog"})

	mc, err := mysql.ParseDSN(dsn)
	c.Assert(err, qt.IsNil)
	c.Assert(mc.User, qt.Equals, "plants")
	c.Assert(mc.Passwd, qt.Equals, "p@ss:word")
	c.Assert(mc.Addr, qt.Equals, "db:3306")
	c.Assert(mc.DBName, qt.Equals, "catalog")
	c.Assert(mc.ParseTime, qt.IsTrue)
	c.Assert(mc.Loc, qt.Equals, time.UTC)
}

func TestPostgresDSN(t *testing.T) {
	c := qt.New(t)
	dsn := postgresDSN(config.DBConfig{User: "plants", Pass: "s3cret/", Host: "pg", Port: "6543", Name: "catalog", SSLMode: "require"})

	u, err := url.Parse(dsn)
	c.Assert(err, qt.IsNil)
	c.Assert(u.Scheme, qt.Equals, "postgres")
	c.Assert(u.Host, qt.Equals, "pg:6543")
	c.Assert(u.Path, qt.Equals, "/catalog")
	c.Assert(u.Query().Get("sslmode"), qt.Equals, "require")
	pass, _ := u.User.Password()
	c.Assert(pass, qt.Equals, "s3cret/")

	_, err = dialectorFor(config.DBConfig{Driver: "postgres", User: "plants", Host: "pg", Name: "catalog", SSLMode: "disable"})
	c.Assert(err, qt.IsNil)
}
