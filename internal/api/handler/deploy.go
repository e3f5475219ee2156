package handler

import (
	"net/http"

	"github.com/edvin/opsdash/internal/api/request"
	"github.com/edvin/opsdash/internal/api/response"
	"github.com/edvin/opsdash/internal/core"
)

type Deploy struct {
	svc *core.DeployService
}

func NewDeploy(svc *core.DeployService) *Deploy {
	return &Deploy{svc: svc}
}

// Redeploy starts a new deployment from the project's latest one. A
// missing token is reported before the body is read.
func (h *Deploy) Redeploy(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ready(); err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	var req request.Redeploy
	if !decodeBody(w, r, &req, "Project ID is required") {
		return
	}

	res, err := h.svc.Redeploy(r.Context(), req.ProjectID)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteSuccess(w, map[string]any{
		"deploymentId": res.DeploymentID,
		"url":          res.URL,
	})
}
