// Package render writes an assembled report to its dated output file.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nergy-se/boilerreport/pkg/api/v1/meter"
	"github.com/nergy-se/boilerreport/pkg/api/v1/types"
)

var ErrUnknownFormat = errors.New("render: unknown format")

type Renderer interface {
	// Filename of the artifact for a run on date.
	Filename(date time.Time) string
	Render(w io.Writer, r *meter.Report) error
}

func New(format types.OutputFormat, reportName string) (Renderer, error) {
	switch format {
	case types.OutputFormatJSON:
		return JSON{}, nil
	case types.OutputFormatYAML:
		return YAML{}, nil
	case types.OutputFormatXLSX:
		return XLSX{Name: reportName}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func datePrefix(date time.Time) string {
	return date.Format("20060102")
}

// WriteFile renders r into dir and returns the written path. The file appears only when complete.
func WriteFile(dir string, renderer Renderer, r *meter.Report) (string, error) {
	path := filepath.Join(dir, renderer.Filename(r.Date))
	tmp, err := os.CreateTemp(dir, ".boilerreport-*")
	if err != nil {
		return "", fmt.Errorf("error creating output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := renderer.Render(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("error rendering %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("error writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("error moving output into place: %w", err)
	}
	return path, nil
}
