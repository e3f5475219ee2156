package model

import (
	"encoding/json"
	"time"
)

// Maintenance is a persisted per-project maintenance flag.
type Maintenance struct {
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	Enabled     bool      `json:"enabled"`
	Message     string    `json:"message"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MaintenanceStatus is the public view of a maintenance flag.
type MaintenanceStatus struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

// Notification types used in the history feed.
const (
	NotificationTypePush           = "push"
	NotificationTypeGitHubAction   = "github_action"
	NotificationCategoryGeneral    = "general"
	WorkflowTriggerStatusTriggered = "triggered"
)

// Notification is an audit row of a sent push notification.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	URL       *string   `json:"url"`
	Category  string    `json:"category"`
	ProjectID *string   `json:"project_id"`
	MessageID *string   `json:"message_id"`
	SentAt    time.Time `json:"sent_at"`
}

// WorkflowTrigger is an audit row of a dispatched CI workflow.
type WorkflowTrigger struct {
	ID          string    `json:"id"`
	Repo        string    `json:"repo"`
	Workflow    string    `json:"workflow"`
	Ref         string    `json:"ref"`
	Status      string    `json:"status"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// HistoryItem is one entry of the merged notification history.
// Exactly one of Push or Action is set.
type HistoryItem struct {
	Type   string
	Push   *Notification
	Action *WorkflowTrigger
}

// MarshalJSON flattens the wrapped record and tags it with its type.
func (h HistoryItem) MarshalJSON() ([]byte, error) {
	var rec any
	switch {
	case h.Push != nil:
		rec = h.Push
	case h.Action != nil:
		rec = h.Action
	default:
		return json.Marshal(map[string]string{"type": h.Type})
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["type"] = h.Type
	return json.Marshal(fields)
}

// Time returns the timestamp used to order history items.
func (h HistoryItem) Time() time.Time {
	if h.Push != nil {
		return h.Push.SentAt
	}
	if h.Action != nil {
		return h.Action.TriggeredAt
	}
	return time.Time{}
}

// UserStats are aggregate user counts from the store.
type UserStats struct {
	TotalUsers   int `json:"totalUsers"`
	TodaySignups int `json:"todaySignups"`
	ActiveUsers  int `json:"activeUsers"`
}

// RecentUser is a recently created user profile.
type RecentUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is one poll of every read aggregate, pushed over the live feed.
type Snapshot struct {
	Statuses    map[string]ProjectStatus     `json:"statuses"`
	Health      []HealthCheckResult          `json:"health"`
	Logs        []LogEntry                   `json:"logs"`
	Maintenance map[string]MaintenanceStatus `json:"maintenance"`
	PolledAt    time.Time                    `json:"polledAt"`
}
