package handler

import (
	"net/http"

	"github.com/edvin/opsdash/internal/api/request"
	"github.com/edvin/opsdash/internal/api/response"
	"github.com/edvin/opsdash/internal/core"
)

type Push struct {
	svc *core.PushService
}

func NewPush(svc *core.PushService) *Push {
	return &Push{svc: svc}
}

func (h *Push) Send(w http.ResponseWriter, r *http.Request) {
	var req request.SendPush
	if !decodeBody(w, r, &req, "Title and body are required") {
		return
	}

	res, err := h.svc.Send(r.Context(), core.SendRequest{
		Title:     req.Title,
		Body:      req.Body,
		URL:       req.URL,
		Type:      req.Type,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteSuccess(w, map[string]any{"messageId": res.MessageID})
}

// Register subscribes a browser's FCM token to the dashboard topic.
func (h *Push) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterToken
	if !decodeBody(w, r, &req, "FCM token is required") {
		return
	}

	topic, err := h.svc.Register(r.Context(), req.Token)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteSuccess(w, map[string]any{"topic": topic})
}
