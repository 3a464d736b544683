// Package store issues the measurement queries against the metering database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var ErrUnsupportedDriver = errors.New("store: unsupported driver")

// Driver names accepted by Open.
const (
	DriverMySQL  = "mysql"
	DriverPgx    = "pgx"
	DriverSQLite = "sqlite"
)

type Store struct {
	db     *sql.DB
	driver string
	schema string
}

// Open connects to the database and verifies the connection. Failure here is fatal for a run.
func Open(ctx context.Context, driver, dsn, schema string) (*Store, error) {
	switch driver {
	case DriverMySQL, DriverPgx, DriverSQLite:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening %s store: %w", driver, err)
	}
	// queries are issued one at a time on a single connection
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to %s store: %w", driver, err)
	}
	return &Store{db: db, driver: driver, schema: schema}, nil
}

// New wraps an already open database.
func New(db *sql.DB, driver, schema string) *Store {
	return &Store{db: db, driver: driver, schema: schema}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) table(name string) string {
	if s.schema == "" {
		return name
	}
	return s.schema + "." + name
}

// rebind rewrites ? placeholders to $n for the postgres driver.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPgx {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
