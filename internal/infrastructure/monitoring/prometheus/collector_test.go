package prometheus

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "skiptrace", Subsystem: "test"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrape(t *testing.T, c MetricsCollector) string {
	t.Helper()
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

// family returns the gathered metric family with the given full name.
func family(t *testing.T, c MetricsCollector, name string) *dto.MetricFamily {
	t.Helper()
	mfs, err := c.Gatherer().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %q not gathered", name)
	return nil
}

func TestNewMetricsCollector(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, nil)
	assert.Error(t, err)

	c, err := NewMetricsCollector(CollectorConfig{Namespace: "skiptrace", EnableGoMetrics: true}, nil)
	require.NoError(t, err)
	assert.Contains(t, scrape(t, c), "go_goroutines")
}

func TestRegisterCounter(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("widgets_total", "widgets", "kind")
	vec.WithLabelValues("a").Inc()
	vec.WithLabelValues("a").Add(2)

	mf := family(t, c, "skiptrace_test_widgets_total")
	require.Len(t, mf.GetMetric(), 1)
	assert.Equal(t, 3.0, mf.GetMetric()[0].GetCounter().GetValue())
}

func TestRegisterCounter_Idempotent(t *testing.T) {
	c := newTestCollector(t)
	first := c.RegisterCounter("dupes_total", "dupes")
	second := c.RegisterCounter("dupes_total", "dupes")
	first.WithLabelValues().Inc()
	second.WithLabelValues().Inc()

	mf := family(t, c, "skiptrace_test_dupes_total")
	assert.Equal(t, 2.0, mf.GetMetric()[0].GetCounter().GetValue())
}

func TestRegister_TypeMismatchIsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("shared", "counter first")
	g := c.RegisterGauge("shared", "gauge second")
	assert.NotPanics(t, func() { g.WithLabelValues().Set(5) })
	_, isNoop := g.(noopGaugeVec)
	assert.True(t, isNoop)
}

func TestRegisterGauge(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("in_flight", "in flight", "source")
	g.WithLabelValues("http").Inc()
	g.WithLabelValues("http").Inc()
	g.WithLabelValues("http").Dec()

	mf := family(t, c, "skiptrace_test_in_flight")
	assert.Equal(t, 1.0, mf.GetMetric()[0].GetGauge().GetValue())
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("latency_seconds", "latency", nil)
	h.WithLabelValues().Observe(0.02)

	mf := family(t, c, "skiptrace_test_latency_seconds")
	hist := mf.GetMetric()[0].GetHistogram()
	assert.EqualValues(t, 1, hist.GetSampleCount())
	assert.Len(t, hist.GetBucket(), len(defaultBuckets))
}

func TestConcurrentRegistration(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("racy_total", "racy").WithLabelValues().Inc()
		}()
	}
	wg.Wait()
	mf := family(t, c, "skiptrace_test_racy_total")
	assert.Equal(t, 20.0, mf.GetMetric()[0].GetCounter().GetValue())
}

func TestTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("timed_seconds", "timed", nil)
	timer := NewTimer(h.WithLabelValues())
	time.Sleep(time.Millisecond)
	assert.Greater(t, timer.ObserveDuration(), time.Duration(0))

	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

//Personal.AI order the ending
