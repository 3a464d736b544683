// Package metrics holds the per-run metrics of the report job, pushed to a Prometheus Pushgateway.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	metricPrefix = "boilerreport_"
	jobName      = "boilerreport"

	ResultSuccess = "success"
	ResultError   = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Gauge
	LastSuccess      prometheus.Gauge
	FilesSkipped     prometheus.Gauge
	RecordsExtracted prometheus.Gauge
	QueriesIssued    prometheus.Gauge
	QueryFailures    prometheus.Gauge
	RowsKept         *prometheus.GaugeVec
}

// New constructs the metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "runs_total",
			Help: "Total report runs by result",
		}, []string{"result"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "run_duration_seconds",
			Help: "Duration of the last run in seconds",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
		FilesSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "files_skipped",
			Help: "Unreadable boiler files in the last run",
		}),
		RecordsExtracted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "records_extracted",
			Help: "Device parameters extracted in the last run",
		}),
		QueriesIssued: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "queries_issued",
			Help: "Store queries issued in the last run",
		}),
		QueryFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "query_failures",
			Help: "Store queries that failed in the last run",
		}),
		RowsKept: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: metricPrefix + "rows_kept",
			Help: "Measurement rows kept in the last run by query kind",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.LastSuccess,
		m.FilesSkipped,
		m.RecordsExtracted,
		m.QueriesIssued,
		m.QueryFailures,
		m.RowsKept,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Finish records the outcome of a run started at start.
func (m *Metrics) Finish(start time.Time, err error) {
	m.RunDuration.Set(time.Since(start).Seconds())
	if err != nil {
		m.RunsTotal.WithLabelValues(ResultError).Inc()
		return
	}
	m.RunsTotal.WithLabelValues(ResultSuccess).Inc()
	m.LastSuccess.SetToCurrentTime()
}

// Push replaces the job's metrics on the Pushgateway at url.
func (m *Metrics) Push(url, instance string) error {
	p := push.New(url, jobName).Gatherer(m.registry)
	if instance != "" {
		p = p.Grouping("instance", instance)
	}
	return p.Push()
}
