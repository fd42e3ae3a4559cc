package status

import "time"

// Phase represents the last known availability of a source
type Phase string

const (
	// PhaseUnknown means the source has not been checked yet
	PhaseUnknown Phase = "Unknown"

	// PhaseAvailable means the last check succeeded
	PhaseAvailable Phase = "Available"

	// PhaseUnavailable means the last check failed
	PhaseUnavailable Phase = "Unavailable"
)

// SourceStatus represents the availability state of a federated source
type SourceStatus struct {
	// Phase is the availability reported by the last check
	Phase Phase `json:"phase"`

	// Message carries the error of the last failed check
	Message string `json:"message,omitempty"`

	// LastChecked is the timestamp of the last availability check
	LastChecked *time.Time `json:"lastChecked,omitempty"`

	// LastAvailable is the timestamp of the last successful check
	LastAvailable *time.Time `json:"lastAvailable,omitempty"`

	// ConsecutiveFailures counts failed checks since the last success
	ConsecutiveFailures int `json:"consecutiveFailures,omitempty"`

	// Type is the source type, e.g. http or git
	Type string `json:"type,omitempty"`

	// Title and Version are copied from the source descriptor
	Title   string `json:"title,omitempty"`
	Version string `json:"version,omitempty"`
}

// IsAvailable reports whether the last check succeeded
func (s *SourceStatus) IsAvailable() bool {
	return s != nil && s.Phase == PhaseAvailable
}

// RecordCheck updates the status with the outcome of a check performed at now
func (s *SourceStatus) RecordCheck(now time.Time, checkErr error) {
	s.LastChecked = &now
	if checkErr == nil {
		s.Phase = PhaseAvailable
		s.Message = ""
		s.LastAvailable = &now
		s.ConsecutiveFailures = 0
		return
	}
	s.Phase = PhaseUnavailable
	s.Message = checkErr.Error()
	s.ConsecutiveFailures++
}
