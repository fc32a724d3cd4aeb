// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Submission outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Submission metrics
	IncSubmission(outcome string)
	ObserveInsertDuration(duration time.Duration)

	// Listing metrics
	IncUsersListed()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
