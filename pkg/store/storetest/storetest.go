// Package storetest builds small sqlite metering databases for tests.
package storetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

const Schema = `
CREATE TABLE devices (DEVICE_ID INTEGER PRIMARY KEY, DEVICE_NAME TEXT);
CREATE TABLE adapters (ID_ADAPTER INTEGER PRIMARY KEY, ID_DEVICE INTEGER, ADAPTER_NAME TEXT);
CREATE TABLE adapter_parameters (ID_PARAMETER INTEGER PRIMARY KEY, ID_ADAPTER INTEGER, PARAMETER_NAME TEXT);
CREATE TABLE records (ID_RECORD INTEGER PRIMARY KEY, ID_ADAPTER INTEGER, RECORD_TIME TEXT);
CREATE TABLE data (ID_RECORD INTEGER, ID_PARAMETER INTEGER, MEASURE_VALUE REAL);
`

const (
	StartOfDay = "Энергия на начало суток"
	Archive    = "Суточный архив"
	Energy     = "A+ (активная суммарная)"
)

// Fixture seeds:
//   - device 42 "КОТ-1": start-of-day A+ = 123.4 today (99.9 yesterday),
//     archive Feed_Water = 5.5 today, archive Make_Up without data
//   - device 43 "КОТ-2": start-of-day adapter without any record
//   - device 44 "Насос-1": start-of-day A+ = 1.0 today, not a boiler
func Fixture(today, yesterday string) []string {
	return []string{
		`INSERT INTO devices VALUES (42, 'КОТ-1'), (43, 'КОТ-2'), (44, 'Насос-1')`,
		`INSERT INTO adapters VALUES (1, 42, '` + StartOfDay + `'), (2, 42, '` + Archive + `'), (3, 43, '` + StartOfDay + `'), (4, 44, '` + StartOfDay + `')`,
		`INSERT INTO adapter_parameters VALUES (10, 1, '` + Energy + `'), (20, 2, 'Feed_Water'), (21, 2, 'Make_Up'), (30, 3, '` + Energy + `'), (40, 4, '` + Energy + `')`,
		`INSERT INTO records VALUES (100, 1, '` + today + `'), (101, 1, '` + yesterday + `'), (200, 2, '` + today + `'), (400, 4, '` + today + `')`,
		`INSERT INTO data VALUES (100, 10, 123.4), (101, 10, 99.9), (200, 20, 5.5), (400, 40, 1.0)`,
	}
}

// New creates a sqlite database file in a temp dir, applies Schema and stmts, and returns its path.
func New(t testing.TB, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "powerdb.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for _, stmt := range append([]string{Schema}, stmts...) {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seeding %q: %s", stmt, err)
		}
	}
	return path
}
