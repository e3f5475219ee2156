package github

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

const acceptHeader = "application/vnd.github.v3+json"

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a GitHub REST client authenticated with a personal
// access token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Configured reports whether a token is set.
func (c *Client) Configured() bool {
	return c != nil && c.token != ""
}

// do issues a request and returns the response body. Any status other
// than want is returned as an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body any, want int) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", acceptHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(metrics.UpstreamGitHub, metrics.OutcomeError)
		return nil, fmt.Errorf("github API request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveUpstream(metrics.UpstreamGitHub, metrics.OutcomeError)
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != want {
		metrics.ObserveUpstream(metrics.UpstreamGitHub, metrics.OutcomeError)
		return nil, parseAPIError(resp.StatusCode, respBody)
	}
	metrics.ObserveUpstream(metrics.UpstreamGitHub, metrics.OutcomeOK)
	return respBody, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ListRuns returns workflow runs of repo ("owner/name"), newest first.
// An empty status returns runs in every state.
func (c *Client) ListRuns(ctx context.Context, repo, status string, perPage int) ([]WorkflowRun, error) {
	query := url.Values{"per_page": {strconv.Itoa(perPage)}}
	if status != "" {
		query.Set("status", status)
	}

	var resp workflowRunList
	path := fmt.Sprintf("/repos/%s/actions/runs?%s", repo, query.Encode())
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("listing runs of %s: %w", repo, err)
	}
	return resp.WorkflowRuns, nil
}

// ListWorkflows returns every workflow defined in repo.
func (c *Client) ListWorkflows(ctx context.Context, repo string) ([]Workflow, error) {
	var resp workflowList
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/actions/workflows", repo), &resp); err != nil {
		return nil, fmt.Errorf("listing workflows of %s: %w", repo, err)
	}
	return resp.Workflows, nil
}

// DispatchWorkflow fires a workflow_dispatch event. The workflow may be
// a file name such as "ci.yml" or a numeric id. Only 204 No Content
// counts as success.
func (c *Client) DispatchWorkflow(ctx context.Context, repo, workflow string, req DispatchWorkflowRequest) error {
	if req.Inputs == nil {
		req.Inputs = map[string]any{}
	}
	path := fmt.Sprintf("/repos/%s/actions/workflows/%s/dispatches", repo, url.PathEscape(workflow))
	if _, err := c.do(ctx, http.MethodPost, path, req, http.StatusNoContent); err != nil {
		return fmt.Errorf("dispatching workflow %s in %s: %w", workflow, repo, err)
	}
	return nil
}

// RunStatus returns the normalized state of the latest run in repo.
// Every failure degrades to unknown.
func (c *Client) RunStatus(ctx context.Context, repo string) model.Status {
	if !c.Configured() {
		return model.StatusUnknown
	}
	runs, err := c.ListRuns(ctx, repo, "", 1)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("repo", repo).Msg("github run status unavailable")
		return model.StatusUnknown
	}
	if len(runs) == 0 {
		return model.StatusUnknown
	}
	return model.NormalizeCI(runs[0].Status, runs[0].Conclusion)
}

// FailedRuns returns up to limit failed runs of repo. Every failure
// degrades to an empty list.
func (c *Client) FailedRuns(ctx context.Context, repo string, limit int) []WorkflowRun {
	if !c.Configured() {
		return nil
	}
	runs, err := c.ListRuns(ctx, repo, model.RunConclusionFailure, limit)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("repo", repo).Msg("github failed runs unavailable")
		return nil
	}
	return runs
}
