package mqtt

import (
	"time"

	"github.com/nergy-se/boilerreport/pkg/version"
)

// Summary describes one finished run.
type Summary struct {
	RunID          string       `json:"run_id"`
	Date           string       `json:"date"`
	Started        time.Time    `json:"started"`
	Duration       float64      `json:"duration_seconds"`
	Output         string       `json:"output,omitempty"`
	Error          string       `json:"error,omitempty"`
	Records        int          `json:"records"`
	StartOfDayRows int          `json:"start_of_day_rows"`
	ArchiveRows    int          `json:"archive_rows"`
	QueryFailures  int          `json:"query_failures"`
	Issues         []string     `json:"issues,omitempty"`
	Version        version.Info `json:"version"`
}
