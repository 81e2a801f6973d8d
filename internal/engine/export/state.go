package export

import "time"

// Status is the lifecycle phase of an export job.
type Status string

// Job statuses.
const (
	StatusIdle       Status = "idle"
	StatusLoading    Status = "loading"
	StatusResolving  Status = "resolving"
	StatusStreaming  Status = "streaming"
	StatusFinalizing Status = "finalizing"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
	StatusError      Status = "error"
)

// Terminal reports whether no further transitions follow s.
func (s Status) Terminal() bool {
	switch s {
	case StatusDone, StatusCancelled, StatusError:
		return true
	default:
		return false
	}
}

// Active reports whether a job in status s is still running.
func (s Status) Active() bool {
	return s != StatusIdle && !s.Terminal()
}

// State is a snapshot of the exporter as seen by observers.
type State struct {
	JobID         string
	Status        Status
	Progress      float64 // 0..100
	RowsTotal     int
	RowsProcessed int
	Filename      string
	Err           error
	Message       string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Loading reports whether a job is in flight.
func (s State) Loading() bool {
	return s.Status.Active()
}

// Duration is the wall time of a finished job, or zero.
func (s State) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
