package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/api/request"
	"github.com/edvin/opsdash/internal/api/response"
	"github.com/edvin/opsdash/internal/core"
)

type Workflow struct {
	svc *core.WorkflowService
}

func NewWorkflow(svc *core.WorkflowService) *Workflow {
	return &Workflow{svc: svc}
}

// List returns the active workflows of the repository in ?repo=.
func (h *Workflow) List(w http.ResponseWriter, r *http.Request) {
	workflows, err := h.svc.Workflows(r.Context(), r.URL.Query().Get("repo"))
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{"workflows": workflows})
}

func (h *Workflow) Trigger(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ready(); err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	var req request.TriggerWorkflow
	if !decodeBody(w, r, &req, "Repository is required") {
		return
	}

	res, err := h.svc.Trigger(r.Context(), core.TriggerRequest{
		Repo:     req.Repo,
		Workflow: req.Workflow,
		Ref:      req.Ref,
		Inputs:   req.Inputs,
		SendPush: req.SendPush,
	})
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	if res.Audit.Warning != nil {
		zerolog.Ctx(r.Context()).Debug().Err(res.Audit.Warning).Msg("workflow trigger not recorded")
	}

	response.WriteSuccess(w, map[string]any{
		"message":  res.Message,
		"pushSent": res.PushSent,
	})
}
