package handler

import (
	"fmt"
	"net/http"

	"github.com/formdrop/formdrop/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "formdrop_submissions_total{outcome=\"success\"} %d\n", snap.SubmissionsSuccess)
	writeMetric(w, "formdrop_submissions_total{outcome=\"invalid\"} %d\n", snap.SubmissionsInvalid)
	writeMetric(w, "formdrop_submissions_total{outcome=\"duplicate\"} %d\n", snap.SubmissionsDuplicate)
	writeMetric(w, "formdrop_submissions_total{outcome=\"error\"} %d\n", snap.SubmissionsError)

	writeMetric(w, "formdrop_insert_duration_seconds_count %d\n", snap.InsertDurationCount)
	writeMetric(w, "formdrop_insert_duration_seconds_sum %.6f\n", float64(snap.InsertDurationTotalNs)/1e9)

	writeMetric(w, "formdrop_user_listings_total %d\n", snap.UsersListed)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
