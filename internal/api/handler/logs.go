package handler

import (
	"net/http"

	"github.com/edvin/opsdash/internal/api/response"
	"github.com/edvin/opsdash/internal/core"
)

type Logs struct {
	svc *core.LogService
}

func NewLogs(svc *core.LogService) *Logs {
	return &Logs{svc: svc}
}

func (h *Logs) Recent(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.svc.Recent(r.Context()))
}
