package meter

import "time"

// Record is one parameter of interest found in a boiler text file.
type Record struct {
	DeviceID      string `json:"device_id" yaml:"device_id"`
	ParameterName string `json:"parameter_name" yaml:"parameter_name"`
	File          string `json:"file,omitempty" yaml:"file,omitempty"`
}

// Row is one measurement returned by the store. Nil fields were NULL.
type Row struct {
	DeviceID      string   `json:"device_id" yaml:"device_id"`
	DeviceName    *string  `json:"device_name" yaml:"device_name"`
	ParameterName *string  `json:"parameter_name" yaml:"parameter_name"`
	MeasureValue  *float64 `json:"measure_value" yaml:"measure_value"`
}

// Empty reports whether every measurement field of the row is NULL.
func (r Row) Empty() bool {
	return r.MeasureValue == nil
}

// Rows groups measurement rows by device id and remembers the order devices were first seen.
type Rows struct {
	order []string
	rows  map[string][]Row
}

func NewRows() *Rows {
	return &Rows{rows: make(map[string][]Row)}
}

// Add appends rows under deviceID. Empty rows are dropped.
func (r *Rows) Add(deviceID string, rows ...Row) {
	if _, ok := r.rows[deviceID]; !ok {
		r.order = append(r.order, deviceID)
		r.rows[deviceID] = []Row{}
	}
	for _, row := range rows {
		if row.Empty() {
			continue
		}
		r.rows[deviceID] = append(r.rows[deviceID], row)
	}
}

func (r *Rows) Devices() []string {
	return append([]string(nil), r.order...)
}

func (r *Rows) Get(deviceID string) []Row {
	return r.rows[deviceID]
}

// Flatten returns every row in device first-seen order.
func (r *Rows) Flatten() []Row {
	var out []Row
	for _, id := range r.order {
		out = append(out, r.rows[id]...)
	}
	return out
}

// Map returns the grouped rows keyed by device id.
func (r *Rows) Map() map[string][]Row {
	m := make(map[string][]Row, len(r.rows))
	for k, v := range r.rows {
		m[k] = append(make([]Row, 0, len(v)), v...)
	}
	return m
}

func (r *Rows) Len() int {
	n := 0
	for _, v := range r.rows {
		n += len(v)
	}
	return n
}

// Report is the assembled output of one run.
type Report struct {
	Date       time.Time        `json:"-" yaml:"-"`
	Extracted  []Record         `json:"extracted" yaml:"extracted"`
	StartOfDay map[string][]Row `json:"start_of_day" yaml:"start_of_day"`
	Archive    map[string][]Row `json:"archive" yaml:"archive"`

	// Table is the merged tabular form used by spreadsheet output.
	Table Table `json:"-" yaml:"-"`
}

type Table struct {
	Header []string
	// Cells hold strings, the measure value column holds a float64 when present.
	Cells [][]any
}
