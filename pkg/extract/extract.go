// Package extract finds make-up water parameters in boiler configuration files.
package extract

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nergy-se/boilerreport/pkg/api/v1/meter"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var ErrNoDirectory = errors.New("extract: directory not found")

const maxLineLength = 1024 * 1024

type Extractor struct {
	markers  Markers
	encoding encoding.Encoding
}

// New returns an Extractor decoding files with the named encoding, e.g. "utf-8" or "windows-1251".
func New(markers Markers, encodingName string) (*Extractor, error) {
	if encodingName == "" {
		encodingName = "utf-8"
	}
	enc, err := htmlindex.Get(encodingName)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", encodingName, err)
	}
	return &Extractor{markers: markers, encoding: enc}, nil
}

// Result is the output of one directory scan.
type Result struct {
	Records []meter.Record `json:"records" yaml:"records"`
	// Skipped lists files that could not be read.
	Skipped []string `json:"skipped" yaml:"skipped"`
	// SkippedLines counts malformed lines and make-up lines seen before any DevID.
	SkippedLines int `json:"skipped_lines" yaml:"skipped_lines"`
}

// Dir scans dir for boiler files. Files are visited in name order.
func (e *Extractor) Dir(dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoDirectory, dir)
		}
		return nil, fmt.Errorf("error listing %s: %w", dir, err)
	}

	result := &Result{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), e.markers.File) {
			continue
		}
		p, err := e.file(filepath.Join(dir, entry.Name()))
		if err != nil {
			logrus.WithField("file", entry.Name()).Warnf("skipping unreadable file: %s", err)
			result.Skipped = append(result.Skipped, entry.Name())
			continue
		}
		result.SkippedLines += p.skipped
		for _, c := range p.records {
			result.Records = append(result.Records, meter.Record{
				DeviceID:      c.deviceID,
				ParameterName: c.parameter,
				File:          entry.Name(),
			})
		}
	}
	logrus.Infof("extracted %d records from %s", len(result.Records), dir)
	return result, nil
}

func (e *Extractor) file(path string) (*fileParser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return e.parse(filepath.Base(path), f)
}

func (e *Extractor) parse(name string, r io.Reader) (*fileParser, error) {
	decoder := unicode.BOMOverride(e.encoding.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(r, decoder))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	p := newFileParser(name)
	for scanner.Scan() {
		p.step(e.markers.classify(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}
	return p, nil
}
