package core

import (
	"context"
	"time"

	"github.com/edvin/opsdash/internal/fcm"
	"github.com/edvin/opsdash/internal/github"
	"github.com/edvin/opsdash/internal/model"
	"github.com/edvin/opsdash/internal/vercel"
)

// HostingClient is the deployment platform API.
type HostingClient interface {
	Configured() bool
	ListProjects(ctx context.Context) ([]vercel.Project, error)
	LatestDeployment(ctx context.Context, projectID string) (*vercel.Deployment, error)
	CreateDeployment(ctx context.Context, req vercel.CreateDeploymentRequest) (*vercel.Deployment, error)
	DeploymentStatus(ctx context.Context, projectID string) model.Status
	FailedDeployments(ctx context.Context, limit int) []vercel.Deployment
}

// CIClient is the CI platform API.
type CIClient interface {
	Configured() bool
	RunStatus(ctx context.Context, repo string) model.Status
	FailedRuns(ctx context.Context, repo string, limit int) []github.WorkflowRun
	ListWorkflows(ctx context.Context, repo string) ([]github.Workflow, error)
	DispatchWorkflow(ctx context.Context, repo, workflow string, req github.DispatchWorkflowRequest) error
}

// Pusher is the push notification gateway.
type Pusher interface {
	Configured() bool
	Send(ctx context.Context, msg fcm.Message) (string, error)
	Subscribe(ctx context.Context, token, topic string) error
}

// Prober checks one health target. It never fails.
type Prober interface {
	Probe(ctx context.Context, target model.HealthTarget) model.HealthCheckResult
}

// JSONCache stores JSON documents with a TTL.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}
