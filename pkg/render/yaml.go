package render

import (
	"io"
	"time"

	"github.com/nergy-se/boilerreport/pkg/api/v1/meter"
	"gopkg.in/yaml.v3"
)

type YAML struct{}

func (YAML) Filename(date time.Time) string {
	return datePrefix(date) + "_all_data.yaml"
}

func (YAML) Render(w io.Writer, r *meter.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
