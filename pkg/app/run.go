package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nergy-se/boilerreport/pkg/api/v1/meter"
	"github.com/nergy-se/boilerreport/pkg/api/v1/types"
	"github.com/nergy-se/boilerreport/pkg/assemble"
	"github.com/nergy-se/boilerreport/pkg/extract"
	"github.com/nergy-se/boilerreport/pkg/issue"
	"github.com/nergy-se/boilerreport/pkg/query"
	"github.com/nergy-se/boilerreport/pkg/render"
	"github.com/nergy-se/boilerreport/pkg/store"
	"github.com/sirupsen/logrus"
)

// Run is the scope of one report run. Nothing in it outlives the run.
type Run struct {
	ID   string
	Date time.Time
	Dir  string

	Store  *store.Store
	Issues *issue.List

	log *logrus.Entry
}

// Result is what a successful run produced.
type Result struct {
	Path    string
	Report  *meter.Report
	Extract *extract.Result
	Query   *query.Result
}

// execute runs extract, query, assemble and render in that order.
// Store connection and output errors abort the run, everything else is logged and skipped.
func (a *App) execute(ctx context.Context, run *Run) (*Result, error) {
	cfg := a.config
	res := &Result{}

	ex, err := extract.New(extract.Markers{
		File:   cfg.FileMarker,
		Device: cfg.DeviceMarker,
		Makeup: cfg.MakeupMarker,
		Unit:   cfg.UnitMarker,
	}, cfg.Encoding)
	if err != nil {
		return nil, err
	}
	res.Extract, err = ex.Dir(run.Dir)
	if err != nil {
		return nil, err
	}
	for _, f := range res.Extract.Skipped {
		run.Issues.Add(fmt.Sprintf("unreadable file %s", f))
	}
	if res.Extract.SkippedLines > 0 {
		run.log.Debugf("skipped %d lines", res.Extract.SkippedLines)
	}

	run.Store, err = store.Open(ctx, cfg.Driver, cfg.Secret(), cfg.Schema)
	if err != nil {
		return nil, err
	}
	defer run.Store.Close()

	engine := query.New(run.Store, query.Options{
		StartOfDayAdapter: cfg.StartOfDayAdapter,
		ArchiveAdapter:    cfg.ArchiveAdapter,
		EnergyParameter:   cfg.EnergyParameter,
		DeviceNameMarker:  cfg.DeviceNameMarker,
		Timeout:           cfg.QueryTimeoutDuration(),
	}, run.log)
	res.Query, err = engine.Run(ctx, run.Date, res.Extract.Records)
	if err != nil {
		return nil, err
	}
	for _, f := range res.Query.Failures {
		run.Issues.Add(fmt.Sprintf("query %d (%s device %s parameter %s) failed: %s", f.Index, f.Kind, f.DeviceID, f.Parameter, f.Err))
	}

	res.Report = assemble.Report(run.Date, res.Extract.Records, res.Query.StartOfDay, res.Query.Archive, types.Alignment(cfg.Align))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run aborted before writing report: %w", err)
	}
	renderer, err := render.New(types.OutputFormat(cfg.Format), cfg.ReportName)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating output dir: %w", err)
	}
	res.Path, err = render.WriteFile(cfg.OutputDir, renderer, res.Report)
	if err != nil {
		return nil, err
	}
	run.log.Infof("report written to %s", res.Path)
	return res, nil
}
