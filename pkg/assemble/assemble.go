// Package assemble merges extracted records and measurement rows into a report.
package assemble

import (
	"time"

	"github.com/nergy-se/boilerreport/pkg/api/v1/meter"
	"github.com/nergy-se/boilerreport/pkg/api/v1/types"
	"github.com/sirupsen/logrus"
)

// Null marks a missing cell in the tabular report.
const Null = "NULL"

var TableHeader = []string{
	"device_id",
	"parameter_name",
	"file",
	"measured_device_id",
	"device_name",
	"measured_parameter_name",
	"measure_value",
}

// Report builds the report for date. Empty rows are never part of the result.
func Report(date time.Time, records []meter.Record, startOfDay, archive *meter.Rows, align types.Alignment) *meter.Report {
	if startOfDay == nil {
		startOfDay = meter.NewRows()
	}
	if archive == nil {
		archive = meter.NewRows()
	}
	extracted := append([]meter.Record{}, records...)
	return &meter.Report{
		Date:       date,
		Extracted:  extracted,
		StartOfDay: startOfDay.Map(),
		Archive:    archive.Map(),
		Table:      Table(extracted, archive.Flatten(), align),
	}
}

// Table merges records with the archive rows.
//
// With AlignPosition row i of records is paired with row i of rows, as the spreadsheet
// report always did. This is only correct while both lists line up one to one, which
// breaks as soon as an archive query fails or returns no value. A warning is logged
// when the lengths differ. AlignDevice pairs each record with the rows of the same
// device and parameter instead.
func Table(records []meter.Record, rows []meter.Row, align types.Alignment) meter.Table {
	var cells [][]any
	switch align {
	case types.AlignDevice:
		cells = byDevice(records, rows)
	default:
		if len(records) != len(rows) {
			logrus.Warnf("positional alignment of %d records with %d measurement rows, rows may be mismatched", len(records), len(rows))
		}
		cells = byPosition(records, rows)
	}
	return meter.Table{Header: append([]string(nil), TableHeader...), Cells: cells}
}

func byPosition(records []meter.Record, rows []meter.Row) [][]any {
	n := max(len(records), len(rows))
	cells := make([][]any, 0, n)
	for i := 0; i < n; i++ {
		var rec *meter.Record
		var row *meter.Row
		if i < len(records) {
			rec = &records[i]
		}
		if i < len(rows) {
			row = &rows[i]
		}
		cells = append(cells, cellsOf(rec, row))
	}
	return cells
}

func byDevice(records []meter.Record, rows []meter.Row) [][]any {
	type key struct{ device, parameter string }
	index := make(map[key][]int)
	for i, row := range rows {
		k := key{device: row.DeviceID}
		if row.ParameterName != nil {
			k.parameter = *row.ParameterName
		}
		index[k] = append(index[k], i)
	}

	used := make([]bool, len(rows))
	var cells [][]any
	for i := range records {
		rec := &records[i]
		matches := index[key{device: rec.DeviceID, parameter: rec.ParameterName}]
		if len(matches) == 0 {
			cells = append(cells, cellsOf(rec, nil))
			continue
		}
		for _, j := range matches {
			used[j] = true
			cells = append(cells, cellsOf(rec, &rows[j]))
		}
	}
	for j := range rows {
		if !used[j] {
			cells = append(cells, cellsOf(nil, &rows[j]))
		}
	}
	return cells
}

func cellsOf(rec *meter.Record, row *meter.Row) []any {
	c := []any{Null, Null, Null, Null, Null, Null, Null}
	if rec != nil {
		c[0] = orNull(rec.DeviceID)
		c[1] = orNull(rec.ParameterName)
		c[2] = orNull(rec.File)
	}
	if row != nil {
		c[3] = orNull(row.DeviceID)
		if row.DeviceName != nil {
			c[4] = *row.DeviceName
		}
		if row.ParameterName != nil {
			c[5] = *row.ParameterName
		}
		if row.MeasureValue != nil {
			c[6] = *row.MeasureValue
		}
	}
	return c
}

func orNull(s string) string {
	if s == "" {
		return Null
	}
	return s
}
