package model

import "fmt"

// Status is the canonical per-service state shown on the dashboard.
type Status string

const (
	StatusLive          Status = "live"
	StatusBuilding      Status = "building"
	StatusError         Status = "error"
	StatusUnknown       Status = "unknown"
	StatusNotApplicable Status = "not-applicable"
)

// Valid reports whether s is one of the five canonical values.
func (s Status) Valid() bool {
	switch s {
	case StatusLive, StatusBuilding, StatusError, StatusUnknown, StatusNotApplicable:
		return true
	}
	return false
}

// MarshalText refuses to encode anything outside the closed set.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %q", string(s))
	}
	return []byte(s), nil
}

// UnmarshalText accepts only canonical values.
func (s *Status) UnmarshalText(b []byte) error {
	v := Status(b)
	if !v.Valid() {
		return fmt.Errorf("invalid status %q", string(b))
	}
	*s = v
	return nil
}

// Hosting platform deployment states.
const (
	DeploymentReady        = "READY"
	DeploymentBuilding     = "BUILDING"
	DeploymentQueued       = "QUEUED"
	DeploymentInitializing = "INITIALIZING"
	DeploymentError        = "ERROR"
	DeploymentCanceled     = "CANCELED"
)

// NormalizeHosting maps a hosting deployment state onto a Status.
// Matching is case-sensitive on the platform's own vocabulary.
func NormalizeHosting(state string) Status {
	switch state {
	case DeploymentReady:
		return StatusLive
	case DeploymentBuilding, DeploymentQueued, DeploymentInitializing:
		return StatusBuilding
	case DeploymentError, DeploymentCanceled:
		return StatusError
	default:
		return StatusUnknown
	}
}

// CI workflow run status and conclusion values.
const (
	RunStatusInProgress = "in_progress"
	RunStatusQueued     = "queued"
	RunStatusCompleted  = "completed"

	RunConclusionSuccess   = "success"
	RunConclusionFailure   = "failure"
	RunConclusionCancelled = "cancelled"
)

// NormalizeCI maps a workflow run's status and conclusion onto a Status.
// An in-flight run is building regardless of any conclusion value.
func NormalizeCI(status, conclusion string) Status {
	switch status {
	case RunStatusInProgress, RunStatusQueued:
		return StatusBuilding
	}
	switch conclusion {
	case RunConclusionSuccess:
		return StatusLive
	case RunConclusionFailure, RunConclusionCancelled:
		return StatusError
	default:
		return StatusUnknown
	}
}

// HealthStatus is the outcome of a single HTTP probe.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// NormalizeProbe treats any 2xx or 3xx response as healthy. Transport
// errors, including timeouts, are unhealthy.
func NormalizeProbe(statusCode int, err error) HealthStatus {
	if err != nil {
		return HealthUnhealthy
	}
	if statusCode >= 200 && statusCode < 400 {
		return HealthHealthy
	}
	return HealthUnhealthy
}

// ProjectStatus holds the per-service statuses of one project.
type ProjectStatus struct {
	Hosting  Status `json:"hosting"`
	CI       Status `json:"ci"`
	Database Status `json:"database"`
}
