package handler

import (
	"net/http"

	"github.com/edvin/opsdash/internal/api/response"
	"github.com/edvin/opsdash/internal/core"
)

type Health struct {
	svc *core.HealthService
}

func NewHealth(svc *core.HealthService) *Health {
	return &Health{svc: svc}
}

func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.svc.Check(r.Context()))
}
