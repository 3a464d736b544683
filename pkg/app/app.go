package app

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nergy-se/boilerreport/pkg/api/v1/config"
	"github.com/nergy-se/boilerreport/pkg/issue"
	"github.com/nergy-se/boilerreport/pkg/metrics"
	"github.com/nergy-se/boilerreport/pkg/mqtt"
	"github.com/nergy-se/boilerreport/pkg/version"
	"github.com/sirupsen/logrus"
)

type App struct {
	wg      *sync.WaitGroup
	config  *config.CliConfig
	metrics *metrics.Metrics
	broker  *mqtt.Broker

	// held for the duration of a run
	running sync.Mutex
	now     func() time.Time
}

func New(config *config.CliConfig) *App {
	return &App{
		wg:      &sync.WaitGroup{},
		config:  config,
		metrics: metrics.New(),
		now:     time.Now,
	}
}

// Start runs once and returns when config.Once is set. Otherwise it schedules a run every day at config.DailyAt
// until ctx is done.
func (a *App) Start(ctx context.Context) error {
	if a.config.Once {
		if a.config.MQTTAddress != "" {
			logrus.Warn("MQTTAddress is ignored together with Once")
		}
		_, err := a.RunOnce(ctx)
		return err
	}

	hour, minute, err := a.config.DailyTime()
	if err != nil {
		return err
	}

	if a.config.MQTTAddress != "" {
		a.broker, err = mqtt.Start(ctx, a.wg, a.config.MQTTAddress, a.config.MQTTTopic)
		if err != nil {
			return fmt.Errorf("error starting mqtt broker: %w", err)
		}
	}

	a.wg.Add(1)
	go a.scheduleLoop(ctx, hour, minute)
	return nil
}

func (a *App) Wait() {
	a.wg.Wait()
}

func (a *App) scheduleLoop(ctx context.Context, hour, minute int) {
	defer a.wg.Done()
	delay := nextDelay(a.now(), hour, minute)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	logrus.Infof("scheduling first run in %s", delay)
	for {
		select {
		case <-timer.C:
			_, err := a.RunOnce(ctx)
			if err != nil {
				logrus.Errorf("report run failed: %s", err)
			}
			delay = nextDelay(a.now(), hour, minute)
			timer.Reset(delay)
			logrus.Debugf("next run in %s", delay)
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs one report run dated today. It fails with ErrRunInProgress if another run holds the guard.
func (a *App) RunOnce(ctx context.Context) (*Result, error) {
	if !a.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer a.running.Unlock()

	start := a.now()
	run := &Run{
		ID:     uuid.NewString(),
		Date:   start,
		Dir:    a.config.Dir,
		Issues: &issue.List{},
	}
	run.log = logrus.WithField("run", run.ID)

	release, err := acquireLock(a.config.LockFile, lockInfo{RunID: run.ID, PID: os.Getpid(), Started: start})
	if err != nil {
		return nil, err
	}
	defer release()

	run.log.Infof("starting report run for %s", run.Date.Format("2006-01-02"))
	res, err := a.execute(ctx, run)
	a.finish(run, start, res, err)
	return res, err
}

func (a *App) finish(run *Run, start time.Time, res *Result, err error) {
	for _, i := range run.Issues.All() {
		run.log.Warn(i)
	}

	summary := mqtt.Summary{
		RunID:    run.ID,
		Date:     run.Date.Format("2006-01-02"),
		Started:  start,
		Duration: time.Since(start).Seconds(),
		Issues:   run.Issues.All(),
		Version:  version.Version,
	}
	a.metrics.Finish(start, err)
	if err != nil {
		summary.Error = err.Error()
		run.log.Errorf("report run failed after %s: %s", time.Since(start), err)
	}
	if res != nil {
		summary.Output = res.Path
		a.metrics.FilesSkipped.Set(float64(len(res.Extract.Skipped)))
		a.metrics.RecordsExtracted.Set(float64(len(res.Extract.Records)))
		a.metrics.QueriesIssued.Set(float64(res.Query.Issued))
		a.metrics.QueryFailures.Set(float64(len(res.Query.Failures)))
		a.metrics.RowsKept.WithLabelValues("start_of_day").Set(float64(res.Query.StartOfDay.Len()))
		a.metrics.RowsKept.WithLabelValues("archive").Set(float64(res.Query.Archive.Len()))
		summary.Records = len(res.Extract.Records)
		summary.StartOfDayRows = res.Query.StartOfDay.Len()
		summary.ArchiveRows = res.Query.Archive.Len()
		summary.QueryFailures = len(res.Query.Failures)
	}

	if a.config.PushgatewayURL != "" {
		host, _ := os.Hostname()
		if perr := a.metrics.Push(a.config.PushgatewayURL, host); perr != nil {
			run.log.Errorf("error pushing metrics: %s", perr)
		}
	}
	if a.broker != nil {
		if perr := a.broker.Publish(summary); perr != nil {
			run.log.Errorf("error publishing summary: %s", perr)
		}
	}
}
