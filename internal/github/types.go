package github

import "time"

// WorkflowRun is one run of a GitHub Actions workflow.
type WorkflowRun struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`     // "queued", "in_progress", "completed"
	Conclusion string    `json:"conclusion"` // "success", "failure", "cancelled", ""
	HeadBranch string    `json:"head_branch"`
	HTMLURL    string    `json:"html_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type workflowRunList struct {
	TotalCount   int           `json:"total_count"`
	WorkflowRuns []WorkflowRun `json:"workflow_runs"`
}

// Workflow is a workflow definition of a repository.
type Workflow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	State string `json:"state"`
}

type workflowList struct {
	TotalCount int        `json:"total_count"`
	Workflows  []Workflow `json:"workflows"`
}

// DispatchWorkflowRequest is the body of a workflow_dispatch event.
type DispatchWorkflowRequest struct {
	// Ref is the branch, tag or SHA to run the workflow on.
	Ref string `json:"ref"`

	// Inputs must match the workflow's workflow_dispatch input definitions.
	Inputs map[string]any `json:"inputs"`
}
