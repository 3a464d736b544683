package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nergy-se/boilerreport/pkg/api/v1/meter"
	"github.com/nergy-se/boilerreport/pkg/api/v1/types"
	"github.com/nergy-se/boilerreport/pkg/assemble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func ptr[K any](val K) *K {
	return &val
}

var runDate = time.Date(2024, 3, 5, 6, 0, 0, 0, time.Local)

func testReport() *meter.Report {
	sod := meter.NewRows()
	sod.Add("42", meter.Row{DeviceID: "42", DeviceName: ptr("КОТ-1"), ParameterName: ptr("A+"), MeasureValue: ptr(123.4)})
	archive := meter.NewRows()
	archive.Add("42", meter.Row{DeviceID: "42", DeviceName: ptr("КОТ-1"), ParameterName: ptr("Feed_Water"), MeasureValue: ptr(5.5)})
	return assemble.Report(runDate, []meter.Record{
		{DeviceID: "42", ParameterName: "Feed_Water", File: "КОТ1.txt"},
		{DeviceID: "43", ParameterName: "Make_Up", File: "КОТ2.txt"},
	}, sod, archive, types.AlignPosition)
}

func TestNew(t *testing.T) {
	var tests = []struct {
		format   types.OutputFormat
		filename string
	}{
		{format: types.OutputFormatJSON, filename: "20240305_all_data.json"},
		{format: types.OutputFormatYAML, filename: "20240305_all_data.yaml"},
		{format: types.OutputFormatXLSX, filename: "20240305_отчет.xlsx"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.format), func(t *testing.T) {
			r, err := New(tt.format, "отчет")
			require.NoError(t, err)
			assert.Equal(t, tt.filename, r.Filename(runDate))
		})
	}

	_, err := New("pdf", "x")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, JSON{}.Render(buf, testReport()))

	assert.Contains(t, buf.String(), "КОТ-1")

	doc := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Len(t, doc, 3)
	assert.Contains(t, doc, "extracted")
	assert.Contains(t, doc, "start_of_day")
	assert.Contains(t, doc, "archive")

	var archive map[string][]meter.Row
	require.NoError(t, json.Unmarshal(doc["archive"], &archive))
	assert.Equal(t, 5.5, *archive["42"][0].MeasureValue)
}

func TestYAML(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, YAML{}.Render(buf, testReport()))

	doc := map[string]interface{}{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Len(t, doc, 3)
	assert.Contains(t, doc, "start_of_day")
}

func TestXLSX(t *testing.T) {
	dir := t.TempDir()
	x := XLSX{Name: "отчет_подпитка"}
	path, err := WriteFile(dir, x, testReport())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20240305_отчет_подпитка.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("отчет_подпитка")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, assemble.TableHeader, rows[0])
	assert.Equal(t, []string{"42", "Feed_Water", "КОТ1.txt", "42", "КОТ-1", "Feed_Water", "5.5"}, rows[1])
	assert.Equal(t, []string{"43", "Make_Up", "КОТ2.txt", "NULL", "NULL", "NULL", "NULL"}, rows[2])

	// text cells are ignored by SUM, so this only adds up if values are numeric
	require.NoError(t, f.SetCellFormula("отчет_подпитка", "H1", "SUM(G2:G3)"))
	sum, err := f.CalcCellValue("отчет_подпитка", "H1")
	require.NoError(t, err)
	assert.Equal(t, "5.5", sum)
}

func TestXLSXSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", XLSX{}.sheet())
	long := XLSX{Name: "ежедневный_отчет_по_подпитке_котельных"}
	assert.Len(t, []rune(long.sheet()), maxSheetName)
}

func TestWriteFileLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteFile(dir, JSON{}, testReport())
	require.NoError(t, err)
	assert.Equal(t, "20240305_all_data.json", filepath.Base(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileMissingDir(t *testing.T) {
	_, err := WriteFile(filepath.Join(t.TempDir(), "missing"), JSON{}, testReport())
	assert.Error(t, err)
}
