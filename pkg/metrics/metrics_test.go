package metrics

import (
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/fortnoxab/gohtmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinish(t *testing.T) {
	m := New()
	m.Finish(time.Now(), nil)
	m.Finish(time.Now(), errors.New("boom"))
	m.Finish(time.Now(), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(ResultError)))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccess), 0.0)
}

func TestRegistryGathersRunMetrics(t *testing.T) {
	m := New()
	m.RecordsExtracted.Set(3)
	m.RowsKept.WithLabelValues("archive").Set(1)

	count, err := testutil.GatherAndCount(m.Registry(), "boilerreport_records_extracted", "boilerreport_rows_kept")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPush(t *testing.T) {
	mock := gohtmock.New()
	m := New()
	m.RecordsExtracted.Set(3)

	mock.Mock("/metrics/job/boilerreport/instance/plant1", "", func(r *http.Request) int {
		b, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Contains(t, string(b), "boilerreport_records_extracted")
		return 200
	}).SetMethod("PUT")

	require.NoError(t, m.Push(mock.URL(), "plant1"))

	mock.AssertCallCount(t, "PUT", "/metrics/job/boilerreport/instance/plant1", 1)
	mock.AssertMocksCalled(t)
}

func TestPushError(t *testing.T) {
	mock := gohtmock.New()
	mock.Mock("/metrics/job/boilerreport/instance/plant1", "", func(r *http.Request) int {
		return 500
	}).SetMethod("PUT")

	assert.Error(t, New().Push(mock.URL(), "plant1"))
	mock.AssertCallCount(t, "PUT", "/metrics/job/boilerreport/instance/plant1", 1)
}
