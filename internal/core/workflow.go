package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/fcm"
	"github.com/edvin/opsdash/internal/github"
	"github.com/edvin/opsdash/internal/model"
)

const defaultRef = "main"

// TriggerRequest describes a workflow dispatch. An empty Workflow is
// resolved to the first active workflow of the repository.
type TriggerRequest struct {
	Repo     string
	Workflow string
	Ref      string
	Inputs   map[string]any
	SendPush *bool
}

// TriggerResult is the outcome of a successful dispatch. PushSent
// reports whether the follow-up notification reached the gateway.
type TriggerResult struct {
	Workflow string
	Message  string
	PushSent bool
	Audit    AuditResult
}

// WorkflowService lists and dispatches CI workflows.
type WorkflowService struct {
	ci   CIClient
	db   DB
	push *PushService
	now  func() time.Time
}

// NewWorkflowService creates a WorkflowService. db and push may be nil.
func NewWorkflowService(ci CIClient, db DB, push *PushService) *WorkflowService {
	return &WorkflowService{ci: ci, db: db, push: push, now: time.Now}
}

// Ready reports the error Workflows and Trigger return for a missing token.
func (s *WorkflowService) Ready() error {
	if !s.ci.Configured() {
		return internal("GitHub token not configured", nil)
	}
	return nil
}

// Workflows returns the active workflows of repo. A repository the CI
// platform does not know yields an empty list.
func (s *WorkflowService) Workflows(ctx context.Context, repo string) ([]model.Workflow, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}
	if repo == "" {
		return nil, badRequest("Repository is required")
	}

	all, err := s.ci.ListWorkflows(ctx, repo)
	if err != nil {
		if github.IsNotFound(err) {
			return []model.Workflow{}, nil
		}
		var apiErr *github.APIError
		if errors.As(err, &apiErr) {
			return nil, newError(apiErr.StatusCode, "Failed to fetch workflows", err)
		}
		return nil, internal("Failed to fetch workflows", err)
	}

	active := make([]model.Workflow, 0, len(all))
	for _, w := range all {
		if w.State == model.WorkflowStateActive {
			active = append(active, model.Workflow{ID: w.ID, Name: w.Name, Path: w.Path, State: w.State})
		}
	}
	return active, nil
}

// Trigger dispatches a workflow. After a successful dispatch the audit
// row and push notification are attempted independently; neither can
// fail the call.
func (s *WorkflowService) Trigger(ctx context.Context, req TriggerRequest) (*TriggerResult, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}
	if req.Repo == "" {
		return nil, badRequest("Repository is required")
	}
	if req.Ref == "" {
		req.Ref = defaultRef
	}
	if req.Inputs == nil {
		req.Inputs = map[string]any{}
	}
	sendPush := req.SendPush == nil || *req.SendPush

	workflow := req.Workflow
	if workflow == "" {
		workflow = s.resolveWorkflow(ctx, req.Repo)
		if workflow == "" {
			return nil, notFound("No active workflows found in repository")
		}
	}

	err := s.ci.DispatchWorkflow(ctx, req.Repo, workflow, github.DispatchWorkflowRequest{Ref: req.Ref, Inputs: req.Inputs})
	if err != nil {
		if github.IsNotFound(err) {
			return nil, notFound("Workflow not found or not configured for workflow_dispatch")
		}
		var apiErr *github.APIError
		if errors.As(err, &apiErr) {
			msg := apiErr.Message
			if msg == "" {
				msg = "Failed to trigger workflow"
			}
			return nil, newError(apiErr.StatusCode, msg, err)
		}
		return nil, newError(http.StatusInternalServerError, "Failed to trigger workflow", err)
	}

	logger := zerolog.Ctx(ctx)
	logger.Info().Str("repo", req.Repo).Str("workflow", workflow).Str("ref", req.Ref).Msg("workflow dispatched")

	result := &TriggerResult{
		Workflow: workflow,
		Message:  fmt.Sprintf("Workflow %s triggered on %s", workflow, req.Repo),
		Audit:    s.recordTrigger(ctx, req.Repo, workflow, req.Ref),
	}
	if sendPush {
		result.PushSent = s.notify(ctx, req.Repo, workflow)
	}
	return result, nil
}

// resolveWorkflow returns the file name of the first active workflow,
// or "" when none is found or the listing fails.
func (s *WorkflowService) resolveWorkflow(ctx context.Context, repo string) string {
	workflows, err := s.ci.ListWorkflows(ctx, repo)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("repo", repo).Msg("workflow listing failed")
		return ""
	}
	for _, w := range workflows {
		if w.State == model.WorkflowStateActive {
			return path.Base(w.Path)
		}
	}
	return ""
}

func (s *WorkflowService) recordTrigger(ctx context.Context, repo, workflow, ref string) AuditResult {
	return recordAudit(ctx, s.db, "github_actions",
		`INSERT INTO github_actions (id, repo, workflow, ref, status, triggered_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), repo, workflow, ref, model.WorkflowTriggerStatusTriggered, s.now().UTC(),
	)
}

func (s *WorkflowService) notify(ctx context.Context, repo, workflow string) bool {
	if s.push == nil || !s.push.Configured() {
		zerolog.Ctx(ctx).Info().Msg("push notification skipped: gateway not configured")
		return false
	}

	name := repo
	if parts := strings.Split(repo, "/"); len(parts) > 1 && parts[1] != "" {
		name = parts[1]
	}
	link := "https://github.com/" + repo + "/actions"

	_, err := s.push.Broadcast(ctx, fcm.Message{
		Title:     "🚀 " + name,
		Body:      `Workflow "` + workflow + `" triggered`,
		URL:       link,
		Type:      model.NotificationTypeGitHubAction,
		ProjectID: repo,
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("repo", repo).Msg("workflow push notification failed")
		return false
	}
	return true
}
