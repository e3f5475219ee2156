package handler

import (
	"net/http"

	"github.com/edvin/opsdash/internal/api/response"
	"github.com/edvin/opsdash/internal/core"
)

type Stats struct {
	svc *core.StatsService
}

func NewStats(svc *core.StatsService) *Stats {
	return &Stats{svc: svc}
}

func (h *Stats) Users(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.svc.UserStats(r.Context()))
}

func (h *Stats) RecentUsers(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.svc.RecentUsers(r.Context()))
}
