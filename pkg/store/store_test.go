package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/nergy-se/boilerreport/pkg/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 3, 5, 6, 0, 0, 0, time.Local)

func openFixture(t *testing.T) *Store {
	t.Helper()
	path := storetest.New(t, storetest.Fixture("2024-03-05", "2024-03-04")...)
	s, err := Open(context.Background(), DriverSQLite, path, "")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMeasurementsStartOfDay(t *testing.T) {
	s := openFixture(t)
	rows, err := s.Measurements(context.Background(), Filter{
		Date:             today,
		DeviceID:         "42",
		Adapter:          storetest.StartOfDay,
		DeviceNameMarker: "КОТ",
		Parameter:        storetest.Energy,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "42", rows[0].DeviceID)
	assert.Equal(t, "КОТ-1", *rows[0].DeviceName)
	assert.Equal(t, storetest.Energy, *rows[0].ParameterName)
	assert.Equal(t, 123.4, *rows[0].MeasureValue)
}

func TestMeasurementsWithoutRecordToday(t *testing.T) {
	s := openFixture(t)
	rows, err := s.Measurements(context.Background(), Filter{
		Date:             today,
		DeviceID:         "43",
		Adapter:          storetest.StartOfDay,
		DeviceNameMarker: "КОТ",
		Parameter:        storetest.Energy,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "43", rows[0].DeviceID)
	assert.Nil(t, rows[0].MeasureValue)
	assert.True(t, rows[0].Empty())
}

func TestMeasurementsArchive(t *testing.T) {
	s := openFixture(t)
	var tests = []struct {
		name      string
		parameter string
		expected  *float64
	}{
		{name: "with data", parameter: "Feed_Water", expected: ptr(5.5)},
		{name: "without data", parameter: "Make_Up", expected: nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rows, err := s.Measurements(context.Background(), Filter{
				Date:             today,
				DeviceID:         "42",
				Adapter:          storetest.Archive,
				DeviceNameMarker: "КОТ",
				Parameter:        tt.parameter,
			})
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, tt.parameter, *rows[0].ParameterName)
			assert.Equal(t, tt.expected, rows[0].MeasureValue)
		})
	}
}

func TestMeasurementsDeviceNameMarker(t *testing.T) {
	s := openFixture(t)
	rows, err := s.Measurements(context.Background(), Filter{
		Date:             today,
		DeviceID:         "44",
		Adapter:          storetest.StartOfDay,
		DeviceNameMarker: "КОТ",
		Parameter:        storetest.Energy,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMeasurementsOtherDay(t *testing.T) {
	s := openFixture(t)
	rows, err := s.Measurements(context.Background(), Filter{
		Date:             today.AddDate(0, 0, -1),
		DeviceID:         "42",
		Adapter:          storetest.StartOfDay,
		DeviceNameMarker: "КОТ",
		Parameter:        storetest.Energy,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 99.9, *rows[0].MeasureValue)
}

func TestOpen(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x", "")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)

	_, err = Open(context.Background(), DriverSQLite, "file:/nonexistent/dir/db.sqlite?mode=ro", "")
	assert.Error(t, err)
}

func TestNewWithSchema(t *testing.T) {
	path := storetest.New(t, storetest.Fixture("2024-03-05", "2024-03-04")...)
	db, err := sql.Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	// attached databases live on one connection
	db.SetMaxOpenConns(1)
	_, err = db.Exec("ATTACH DATABASE ? AS powerdb", path)
	require.NoError(t, err)

	s := New(db, DriverSQLite, "powerdb")
	rows, err := s.Measurements(context.Background(), Filter{
		Date:             today,
		DeviceID:         "42",
		Adapter:          storetest.StartOfDay,
		DeviceNameMarker: "КОТ",
		Parameter:        storetest.Energy,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 123.4, *rows[0].MeasureValue)
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPgx}
	assert.Equal(t, "a = $1 AND b IN ($2, $3)", pg.rebind("a = ? AND b IN (?, ?)"))

	my := &Store{driver: DriverMySQL}
	assert.Equal(t, "a = ?", my.rebind("a = ?"))
}

func TestTable(t *testing.T) {
	assert.Equal(t, "devices", (&Store{}).table("devices"))
	assert.Equal(t, "powerdb.devices", (&Store{schema: "powerdb"}).table("devices"))
}

func ptr[K any](val K) *K {
	return &val
}
