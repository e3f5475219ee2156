package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/opsdash/internal/api/request"
	"github.com/edvin/opsdash/internal/api/response"
	"github.com/edvin/opsdash/internal/core"
)

type Maintenance struct {
	svc *core.MaintenanceService
}

func NewMaintenance(svc *core.MaintenanceService) *Maintenance {
	return &Maintenance{svc: svc}
}

// Get returns the public maintenance flag of one project.
func (h *Maintenance) Get(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.svc.Get(r.Context(), chi.URLParam(r, "projectID")))
}

func (h *Maintenance) List(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.svc.List(r.Context()))
}

func (h *Maintenance) Set(w http.ResponseWriter, r *http.Request) {
	var req request.SetMaintenance
	if !decodeBody(w, r, &req, "projectId and projectName required") {
		return
	}

	m, err := h.svc.Set(r.Context(), core.SetMaintenanceRequest{
		ProjectID:   req.ProjectID,
		ProjectName: req.ProjectName,
		Enabled:     req.Enabled,
		Message:     req.Message,
	})
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteSuccess(w, map[string]any{"enabled": m.Enabled})
}
