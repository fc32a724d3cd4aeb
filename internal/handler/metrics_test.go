package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/formdrop/formdrop/internal/metrics"
)

func TestMetricsHandler_Exposition(t *testing.T) {
	rec := metrics.NewInMemory()
	rec.IncSubmission(metrics.OutcomeSuccess)
	rec.IncSubmission(metrics.OutcomeDuplicate)
	rec.ObserveInsertDuration(1500 * time.Millisecond)

	h := NewMetricsHandler(rec)

	res := httptest.NewRecorder()
	h.Metrics(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	for _, line := range []string{
		`formdrop_submissions_total{outcome="success"} 1`,
		`formdrop_submissions_total{outcome="duplicate"} 1`,
		`formdrop_submissions_total{outcome="invalid"} 0`,
		`formdrop_insert_duration_seconds_count 1`,
		`formdrop_insert_duration_seconds_sum 1.500000`,
	} {
		assert.Contains(t, body, line)
	}
}

func TestMetricsHandler_NoSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)

	res := httptest.NewRecorder()
	h.Metrics(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}
