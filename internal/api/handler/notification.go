package handler

import (
	"net/http"

	"github.com/edvin/opsdash/internal/api/request"
	"github.com/edvin/opsdash/internal/api/response"
	"github.com/edvin/opsdash/internal/core"
)

type Notification struct {
	svc *core.NotificationService
}

func NewNotification(svc *core.NotificationService) *Notification {
	return &Notification{svc: svc}
}

// History lists sent notifications and workflow triggers, newest first.
// It answers 200 even when the store is unavailable.
func (h *Notification) History(w http.ResponseWriter, r *http.Request) {
	hist := h.svc.History(r.Context(), core.HistoryQuery{
		Limit: request.ParseLimit(r, core.DefaultHistoryLimit, core.MaxHistoryLimit),
		Type:  r.URL.Query().Get("type"),
	})

	body := map[string]any{
		"data":  hist.Data,
		"total": hist.Total,
	}
	if hist.Message != "" {
		body["message"] = hist.Message
	}
	response.WriteSuccess(w, body)
}
