package metric

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()

	assert.NotNil(t, registry.PrometheusRegistry())
	assert.NotNil(t, registry.Metrics())
}

func TestRegistry_IsolatedInstances(t *testing.T) {
	first := NewRegistry()
	second := NewRegistry()

	first.Metrics().RecordRequest()

	assert.Equal(t, 1.0, testutil.ToFloat64(first.Metrics().RequestCount))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.Metrics().RequestCount))
}

func TestMetrics_RecordHelpers(t *testing.T) {
	registry := NewRegistry()
	metrics := registry.Metrics()

	metrics.RecordRequest()
	metrics.RecordRequest()
	metrics.RecordPrediction()
	metrics.RecordFailedPrediction()
	metrics.RecordAuditWriteFailure()
	metrics.SetModelLoaded(true)
	metrics.ObserveLatency(25 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RequestCount))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PredictionsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FailedPredictions))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AuditWriteFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ModelLoaded))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.RequestLatency))

	metrics.SetModelLoaded(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ModelLoaded))
}

func TestMetrics_ConcurrentIncrements(t *testing.T) {
	registry := NewRegistry()
	metrics := registry.Metrics()

	const goroutines = 50
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metrics.RecordRequest()
			metrics.ObserveLatency(time.Millisecond)
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(goroutines), testutil.ToFloat64(metrics.RequestCount))
}

func TestHandler_ExpositionIsParseable(t *testing.T) {
	registry := NewRegistry()
	registry.Metrics().RecordRequest()
	registry.Metrics().RecordPrediction()

	recorder := httptest.NewRecorder()
	Handler(registry).ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, recorder.Code)

	parser := expfmt.NewTextParser(model.UTF8Validation)
	families, err := parser.TextToMetricFamilies(strings.NewReader(recorder.Body.String()))
	require.NoError(t, err)

	for _, name := range []string{
		"request_count",
		"request_latency_seconds",
		"predictions_total",
		"failed_predictions_total",
		"audit_write_failures_total",
		"model_loaded",
	} {
		require.Contains(t, families, name)
	}

	assert.Equal(t, 1.0, families["request_count"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 1.0, families["predictions_total"].GetMetric()[0].GetCounter().GetValue())
}
