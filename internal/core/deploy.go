package core

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/vercel"
)

const defaultDeployTarget = "production"

// DeployResult identifies the deployment started by a redeploy.
type DeployResult struct {
	DeploymentID string `json:"deploymentId"`
	URL          string `json:"url"`
}

// DeployService redeploys a project from its latest deployment.
type DeployService struct {
	hosting HostingClient
}

func NewDeployService(hosting HostingClient) *DeployService {
	return &DeployService{hosting: hosting}
}

// Ready reports the error Redeploy would return for a missing token.
func (s *DeployService) Ready() error {
	if !s.hosting.Configured() {
		return internal("Vercel token not configured", nil)
	}
	return nil
}

// Redeploy fetches the latest deployment of projectID and creates a new
// one from the same source. There is no guard against concurrent calls;
// each produces an independent deployment.
func (s *DeployService) Redeploy(ctx context.Context, projectID string) (*DeployResult, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}
	if projectID == "" {
		return nil, badRequest("Project ID is required")
	}

	last, err := s.hosting.LatestDeployment(ctx, projectID)
	if err != nil {
		return nil, hostingError(err, "Failed to fetch deployments")
	}
	if last == nil {
		return nil, notFound("No previous deployments found")
	}

	target := defaultDeployTarget
	if last.Target != nil && *last.Target != "" {
		target = *last.Target
	}

	created, err := s.hosting.CreateDeployment(ctx, vercel.CreateDeploymentRequest{
		Name:      last.Name,
		Project:   projectID,
		Target:    target,
		GitSource: last.GitSource,
	})
	if err != nil {
		return nil, hostingError(err, "Failed to trigger deployment")
	}

	zerolog.Ctx(ctx).Info().
		Str("project", projectID).
		Str("deployment", created.Identifier()).
		Msg("redeploy triggered")

	return &DeployResult{DeploymentID: created.Identifier(), URL: created.URL}, nil
}

// hostingError passes an upstream status code and message through.
func hostingError(err error, fallback string) *Error {
	var apiErr *vercel.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return newError(apiErr.StatusCode, msg, err)
	}
	return newError(http.StatusInternalServerError, fallback, err)
}
