package handler

import (
	"net/http"

	"github.com/edvin/opsdash/internal/api/response"
	"github.com/edvin/opsdash/internal/core"
)

type Project struct {
	projects *core.ProjectService
	status   *core.StatusService
}

func NewProject(projects *core.ProjectService, status *core.StatusService) *Project {
	return &Project{projects: projects, status: status}
}

func (h *Project) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.projects.List(r.Context())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, list)
}

// Status returns the hosting, CI and database status of every project.
func (h *Project) Status(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.status.Statuses(r.Context()))
}
