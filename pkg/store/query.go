package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nergy-se/boilerreport/pkg/api/v1/meter"
)

const measurementQuery = `
SELECT dev.DEVICE_ID, dev.DEVICE_NAME, ap.PARAMETER_NAME, d.MEASURE_VALUE
FROM %[1]s dev
LEFT JOIN %[2]s a ON dev.DEVICE_ID = a.ID_DEVICE
LEFT JOIN %[3]s ap ON a.ID_ADAPTER = ap.ID_ADAPTER
LEFT OUTER JOIN %[4]s r ON a.ID_ADAPTER = r.ID_ADAPTER
LEFT OUTER JOIN %[5]s d ON ap.ID_PARAMETER = d.ID_PARAMETER AND r.ID_RECORD = d.ID_RECORD
WHERE (r.RECORD_TIME = ? OR r.RECORD_TIME IS NULL)
AND a.ID_ADAPTER IN (SELECT ID_ADAPTER FROM %[2]s WHERE ID_DEVICE = ? AND ADAPTER_NAME = ?)
AND dev.DEVICE_NAME LIKE ?
AND ap.PARAMETER_NAME = ?
ORDER BY dev.DEVICE_NAME`

// Filter selects one device, adapter and parameter for a given day.
type Filter struct {
	Date             time.Time
	DeviceID         string
	Adapter          string
	DeviceNameMarker string
	Parameter        string
}

func (s *Store) measurementQuery() string {
	return s.rebind(fmt.Sprintf(measurementQuery,
		s.table("devices"),
		s.table("adapters"),
		s.table("adapter_parameters"),
		s.table("records"),
		s.table("data"),
	))
}

// Measurements returns the rows matching f. Rows without a record for the day are included with a nil value.
func (s *Store) Measurements(ctx context.Context, f Filter) ([]meter.Row, error) {
	rows, err := s.db.QueryContext(ctx, s.measurementQuery(),
		f.Date.Format("2006-01-02"),
		f.DeviceID,
		f.Adapter,
		"%"+f.DeviceNameMarker+"%",
		f.Parameter,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []meter.Row
	for rows.Next() {
		var (
			deviceID   string
			deviceName sql.NullString
			parameter  sql.NullString
			value      sql.NullFloat64
		)
		if err := rows.Scan(&deviceID, &deviceName, &parameter, &value); err != nil {
			return nil, err
		}
		row := meter.Row{DeviceID: deviceID}
		if deviceName.Valid {
			row.DeviceName = &deviceName.String
		}
		if parameter.Valid {
			row.ParameterName = &parameter.String
		}
		if value.Valid {
			row.MeasureValue = &value.Float64
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
