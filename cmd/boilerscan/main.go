package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nergy-se/boilerreport/pkg/extract"
	"gopkg.in/yaml.v3"
)

// boilerscan prints what the report job would extract from a directory without touching the store.
func main() {
	dir := flag.String("dir", ".", "directory with boiler files")
	encoding := flag.String("encoding", "utf-8", "text encoding of the boiler files")
	format := flag.String("format", "yaml", "output format, yaml or json")
	fileMarker := flag.String("file-marker", extract.DefaultMarkers.File, "substring selecting boiler files by name")
	deviceMarker := flag.String("device-marker", extract.DefaultMarkers.Device, "key of device id lines")
	makeupMarker := flag.String("makeup-marker", extract.DefaultMarkers.Makeup, "substring of makeup water lines")
	unitMarker := flag.String("unit-marker", extract.DefaultMarkers.Unit, "unit substring of makeup water lines")
	flag.Parse()

	ex, err := extract.New(extract.Markers{
		File:   *fileMarker,
		Device: *deviceMarker,
		Makeup: *makeupMarker,
		Unit:   *unitMarker,
	}, *encoding)
	if err != nil {
		log.Fatal(err)
	}

	res, err := ex.Dir(*dir)
	if err != nil {
		log.Fatal(err)
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		err = enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		err = enc.Encode(res)
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	default:
		err = fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("%d records, %d skipped files, %d skipped lines", len(res.Records), len(res.Skipped), res.SkippedLines)
}
