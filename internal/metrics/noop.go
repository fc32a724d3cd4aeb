package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSubmission is a no-op.
func (n *NoopRecorder) IncSubmission(outcome string) {}

// ObserveInsertDuration is a no-op.
func (n *NoopRecorder) ObserveInsertDuration(duration time.Duration) {}

// IncUsersListed is a no-op.
func (n *NoopRecorder) IncUsersListed() {}
