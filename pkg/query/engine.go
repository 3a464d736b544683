// Package query drives the start-of-day and daily-archive lookups for extracted records.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/nergy-se/boilerreport/pkg/api/v1/meter"
	"github.com/nergy-se/boilerreport/pkg/store"
	"github.com/sirupsen/logrus"
)

type Querier interface {
	Measurements(ctx context.Context, f store.Filter) ([]meter.Row, error)
}

type Options struct {
	StartOfDayAdapter string
	ArchiveAdapter    string
	EnergyParameter   string
	DeviceNameMarker  string
	Timeout           time.Duration
}

type Engine struct {
	q    Querier
	opts Options
	log  logrus.FieldLogger
}

func New(q Querier, opts Options, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{q: q, opts: opts, log: log}
}

// Failure is a query that was skipped because it returned an error.
type Failure struct {
	Index     int
	Kind      string
	DeviceID  string
	Parameter string
	Err       error
}

type Result struct {
	StartOfDay *meter.Rows
	Archive    *meter.Rows
	Issued     int
	Failures   []Failure
}

const (
	KindStartOfDay = "start_of_day"
	KindArchive    = "archive"
)

// Run issues both queries for every record, sequentially. A failing query is recorded and treated as
// no rows. Cancelling ctx aborts the run and returns ctx's error with the partial result.
func (e *Engine) Run(ctx context.Context, date time.Time, records []meter.Record) (*Result, error) {
	res := &Result{
		StartOfDay: meter.NewRows(),
		Archive:    meter.NewRows(),
	}
	for _, rec := range records {
		rows, err := e.issue(ctx, res, KindStartOfDay, store.Filter{
			Date:             date,
			DeviceID:         rec.DeviceID,
			Adapter:          e.opts.StartOfDayAdapter,
			DeviceNameMarker: e.opts.DeviceNameMarker,
			Parameter:        e.opts.EnergyParameter,
		})
		if err != nil {
			return res, err
		}
		res.StartOfDay.Add(rec.DeviceID, rows...)

		rows, err = e.issue(ctx, res, KindArchive, store.Filter{
			Date:             date,
			DeviceID:         rec.DeviceID,
			Adapter:          e.opts.ArchiveAdapter,
			DeviceNameMarker: e.opts.DeviceNameMarker,
			Parameter:        rec.ParameterName,
		})
		if err != nil {
			return res, err
		}
		res.Archive.Add(rec.DeviceID, rows...)
	}
	e.log.Infof("issued %d queries, %d failed, kept %d start of day rows and %d archive rows",
		res.Issued, len(res.Failures), res.StartOfDay.Len(), res.Archive.Len())
	return res, nil
}

func (e *Engine) issue(ctx context.Context, res *Result, kind string, f store.Filter) ([]meter.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run aborted after %d queries: %w", res.Issued, err)
	}
	res.Issued++
	index := res.Issued

	qctx := ctx
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	rows, err := e.q.Measurements(qctx, f)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("run aborted in query %d: %w", index, ctx.Err())
		}
		e.log.WithFields(logrus.Fields{
			"query":     index,
			"kind":      kind,
			"device":    f.DeviceID,
			"parameter": f.Parameter,
		}).Warnf("query failed, treating as no rows: %s", err)
		res.Failures = append(res.Failures, Failure{
			Index:     index,
			Kind:      kind,
			DeviceID:  f.DeviceID,
			Parameter: f.Parameter,
			Err:       err,
		})
		return nil, nil
	}
	return rows, nil
}
