package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/metrics"
	"github.com/edvin/opsdash/internal/model"
)

type Client struct {
	baseURL    string
	token      string
	teamID     string
	httpClient *http.Client
}

// NewClient creates a Vercel REST client. Requests carry no timeout of
// their own; they end with the caller's context.
func NewClient(baseURL, token, teamID string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		teamID:     teamID,
		httpClient: &http.Client{},
	}
}

// Configured reports whether a token is set.
func (c *Client) Configured() bool {
	return c != nil && c.token != ""
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	if query == nil {
		query = url.Values{}
	}
	if c.teamID != "" {
		query.Set("teamId", c.teamID)
	}
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(metrics.UpstreamVercel, metrics.OutcomeError)
		return fmt.Errorf("vercel API request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveUpstream(metrics.UpstreamVercel, metrics.OutcomeError)
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ObserveUpstream(metrics.UpstreamVercel, metrics.OutcomeError)
		return parseAPIError(resp.StatusCode, respBody)
	}
	metrics.ObserveUpstream(metrics.UpstreamVercel, metrics.OutcomeOK)

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// ListProjects returns up to 100 projects of the account or team.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var resp projectList
	if err := c.do(ctx, http.MethodGet, "/v9/projects", url.Values{"limit": {"100"}}, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

// ListDeployments returns deployments matching q, newest first.
func (c *Client) ListDeployments(ctx context.Context, q DeploymentQuery) ([]Deployment, error) {
	query := url.Values{}
	if q.ProjectID != "" {
		query.Set("projectId", q.ProjectID)
	}
	if q.State != "" {
		query.Set("state", q.State)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var resp deploymentList
	if err := c.do(ctx, http.MethodGet, "/v6/deployments", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Deployments, nil
}

// LatestDeployment returns the most recent deployment of a project, or
// nil when the project has never been deployed.
func (c *Client) LatestDeployment(ctx context.Context, projectID string) (*Deployment, error) {
	deployments, err := c.ListDeployments(ctx, DeploymentQuery{ProjectID: projectID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(deployments) == 0 {
		return nil, nil
	}
	return &deployments[0], nil
}

// CreateDeployment starts a new deployment.
func (c *Client) CreateDeployment(ctx context.Context, req CreateDeploymentRequest) (*Deployment, error) {
	var d Deployment
	if err := c.do(ctx, http.MethodPost, "/v13/deployments", nil, req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DeploymentStatus returns the normalized state of a project's latest
// deployment. Every failure degrades to unknown.
func (c *Client) DeploymentStatus(ctx context.Context, projectID string) model.Status {
	if !c.Configured() {
		return model.StatusUnknown
	}
	d, err := c.LatestDeployment(ctx, projectID)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("project", projectID).Msg("vercel deployment status unavailable")
		return model.StatusUnknown
	}
	if d == nil {
		return model.StatusUnknown
	}
	return model.NormalizeHosting(d.CurrentState())
}

// FailedDeployments returns up to limit deployments in the ERROR state.
// Every failure degrades to an empty list.
func (c *Client) FailedDeployments(ctx context.Context, limit int) []Deployment {
	if !c.Configured() {
		return nil
	}
	deployments, err := c.ListDeployments(ctx, DeploymentQuery{State: model.DeploymentError, Limit: limit})
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("vercel failed deployments unavailable")
		return nil
	}
	return deployments
}
