package render

import (
	"io"
	"time"

	"github.com/nergy-se/boilerreport/pkg/api/v1/meter"
	"github.com/xuri/excelize/v2"
)

// sheet names are limited to 31 characters
const maxSheetName = 31

type XLSX struct {
	Name string
}

func (x XLSX) Filename(date time.Time) string {
	return datePrefix(date) + "_" + x.Name + ".xlsx"
}

func (x XLSX) sheet() string {
	name := []rune(x.Name)
	if len(name) == 0 {
		return "Sheet1"
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return string(name)
}

func (x XLSX) Render(w io.Writer, r *meter.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := x.sheet()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	header := make([]interface{}, len(r.Table.Header))
	for i, h := range r.Table.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, cells := range r.Table.Cells {
		row := append([]interface{}(nil), cells...)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
