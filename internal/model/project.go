package model

import "time"

// Project is a dashboard project discovered from the hosting platform.
type Project struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	HostingProjectID string `json:"vercelProjectId"`
	CIRepo           string `json:"githubRepo,omitempty"`
	URL              string `json:"url,omitempty"`
	HealthCheckURL   string `json:"healthCheckUrl,omitempty"`
}

// HasCI reports whether the project is linked to a CI repository.
func (p Project) HasCI() bool {
	return p.CIRepo != ""
}

// ProjectList is the response shape of the project listing.
type ProjectList struct {
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
	Excluded int       `json:"excluded"`
}

// HealthCheckResult is the outcome of probing one target URL.
type HealthCheckResult struct {
	URL          string       `json:"url"`
	Name         string       `json:"name,omitempty"`
	Status       HealthStatus `json:"status"`
	ResponseTime int64        `json:"responseTime"`
	LastChecked  time.Time    `json:"lastChecked"`
}

// HealthTarget is a URL to probe and an optional display name.
type HealthTarget struct {
	URL  string `json:"url" yaml:"url"`
	Name string `json:"name,omitempty" yaml:"name"`
}

// LogEntry is one item of the merged error feed.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Service   string    `json:"service"`
}

const (
	LogServiceHosting = "vercel"
	LogServiceCI      = "github"
	LogLevelError     = "error"
)

// Workflow is an active CI workflow of a repository.
type Workflow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	State string `json:"state"`
}

const WorkflowStateActive = "active"
