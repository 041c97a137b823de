package metrics

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
)

func TestMetricsHandlerPreCollect(t *testing.T) {
	gauge := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slotscope_test_precollect_gauge",
		Help: "gauge refreshed by a pre-collect function",
	})

	var calls atomic.Int32
	AddPreCollectFn(func() {
		calls.Add(1)
		gauge.Set(42)
	})

	handler := GetMetricsHandler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "slotscope_test_precollect_gauge 42")

	// collected at most once per second
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, int32(1), calls.Load())
}
