package render

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nergy-se/boilerreport/pkg/api/v1/meter"
)

type JSON struct{}

func (JSON) Filename(date time.Time) string {
	return datePrefix(date) + "_all_data.json"
}

func (JSON) Render(w io.Writer, r *meter.Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(r)
}
