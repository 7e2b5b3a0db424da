// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Outcome labels for ObserveOperation.
const (
	OutcomeSuccess       = "success"
	OutcomeEngineFailure = "engine_failure"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeRejected      = "rejected"
)

// Recorder captures metric events for the gateway.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// ObserveOperation records one dispatched request.
	// operationID is the endpoint id, e.g. "create_task".
	ObserveOperation(kind, operationID, outcome string, duration time.Duration)

	// IncAuthFailure counts rejected credentials by reason.
	IncAuthFailure(reason string)

	// IncRateLimited counts requests rejected by the rate limiter.
	IncRateLimited()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
