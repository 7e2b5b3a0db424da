package handler

import (
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/plexo/gateway/internal/metrics"
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
//
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "# HELP plexo_gateway_requests_total Dispatched requests by operation and outcome.\n")
	writeMetric(w, "# TYPE plexo_gateway_requests_total counter\n")
	for _, op := range snap.Operations {
		writeMetric(w, "plexo_gateway_requests_total{%s} %d\n", operationLabels(op), op.Count)
	}

	writeMetric(w, "# HELP plexo_gateway_request_duration_seconds Time spent serving dispatched requests.\n")
	writeMetric(w, "# TYPE plexo_gateway_request_duration_seconds summary\n")
	for _, op := range snap.Operations {
		labels := operationLabels(op)
		writeMetric(w, "plexo_gateway_request_duration_seconds_sum{%s} %.6f\n", labels, float64(op.TotalNs)/1e9)
		writeMetric(w, "plexo_gateway_request_duration_seconds_count{%s} %d\n", labels, op.Count)
	}

	reasons := make([]string, 0, len(snap.AuthFailures))
	for reason := range snap.AuthFailures {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	writeMetric(w, "# HELP plexo_gateway_auth_failures_total Rejected credentials by reason.\n")
	writeMetric(w, "# TYPE plexo_gateway_auth_failures_total counter\n")
	for _, reason := range reasons {
		writeMetric(w, "plexo_gateway_auth_failures_total{reason=%q} %d\n", reason, snap.AuthFailures[reason])
	}

	writeMetric(w, "# HELP plexo_gateway_rate_limited_total Requests rejected by the rate limiter.\n")
	writeMetric(w, "# TYPE plexo_gateway_rate_limited_total counter\n")
	writeMetric(w, "plexo_gateway_rate_limited_total %d\n", snap.RateLimited)
}

func operationLabels(op metrics.OperationStat) string {
	return fmt.Sprintf("kind=%q,operation=%q,outcome=%q", op.Kind, op.OperationID, op.Outcome)
}

func writeMetric(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
