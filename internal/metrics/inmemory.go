package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	SubmissionsSuccess    uint64
	SubmissionsInvalid    uint64
	SubmissionsDuplicate  uint64
	SubmissionsError      uint64
	InsertDurationCount   uint64
	InsertDurationTotalNs int64
	UsersListed           uint64
}

// InMemoryRecorder keeps counters in process memory.
type InMemoryRecorder struct {
	submissionsSuccess    atomic.Uint64
	submissionsInvalid    atomic.Uint64
	submissionsDuplicate  atomic.Uint64
	submissionsError      atomic.Uint64
	insertDurationCount   atomic.Uint64
	insertDurationTotalNs atomic.Int64
	usersListed           atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		SubmissionsSuccess:    m.submissionsSuccess.Load(),
		SubmissionsInvalid:    m.submissionsInvalid.Load(),
		SubmissionsDuplicate:  m.submissionsDuplicate.Load(),
		SubmissionsError:      m.submissionsError.Load(),
		InsertDurationCount:   m.insertDurationCount.Load(),
		InsertDurationTotalNs: m.insertDurationTotalNs.Load(),
		UsersListed:           m.usersListed.Load(),
	}
}

// IncSubmission increments the counter for outcome.
// Unknown outcomes are counted as errors.
func (m *InMemoryRecorder) IncSubmission(outcome string) {
	switch outcome {
	case OutcomeSuccess:
		m.submissionsSuccess.Add(1)
	case OutcomeInvalid:
		m.submissionsInvalid.Add(1)
	case OutcomeDuplicate:
		m.submissionsDuplicate.Add(1)
	default:
		m.submissionsError.Add(1)
	}
}

// ObserveInsertDuration records how long an insert attempt took.
func (m *InMemoryRecorder) ObserveInsertDuration(duration time.Duration) {
	m.insertDurationCount.Add(1)
	m.insertDurationTotalNs.Add(duration.Nanoseconds())
}

// IncUsersListed increments the listing counter.
func (m *InMemoryRecorder) IncUsersListed() {
	m.usersListed.Add(1)
}
