package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/fcm"
	"github.com/edvin/opsdash/internal/model"
)

const defaultPushURL = "/"

// SendRequest is a push notification composed by the operator.
type SendRequest struct {
	Title     string
	Body      string
	URL       string
	Type      string
	ProjectID string
}

// SendResult carries the gateway message id and the audit outcome.
type SendResult struct {
	MessageID string
	Audit     AuditResult
}

// PushService broadcasts notifications to the dashboard topic and keeps
// an audit log of them.
type PushService struct {
	pusher Pusher
	db     DB
	topic  string
	now    func() time.Time
}

// NewPushService creates a PushService. db may be nil.
func NewPushService(pusher Pusher, db DB, topic string) *PushService {
	return &PushService{pusher: pusher, db: db, topic: topic, now: time.Now}
}

// Configured reports whether the push gateway has credentials.
func (s *PushService) Configured() bool {
	return s.pusher != nil && s.pusher.Configured()
}

// Topic returns the topic every notification is sent to.
func (s *PushService) Topic() string {
	return s.topic
}

// Send broadcasts an operator notification and records it.
func (s *PushService) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if req.Title == "" || req.Body == "" {
		return nil, badRequest("Title and body are required")
	}
	if !s.Configured() {
		return nil, internal("Firebase Admin not configured", nil)
	}
	if req.Type == "" {
		req.Type = model.NotificationCategoryGeneral
	}

	link := req.URL
	if link == "" {
		link = defaultPushURL
	}
	id, err := s.Broadcast(ctx, fcm.Message{
		Title:     req.Title,
		Body:      req.Body,
		URL:       link,
		Type:      req.Type,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		return nil, internal("Failed to send push notification", err)
	}

	audit := recordAudit(ctx, s.db, "notifications",
		`INSERT INTO notifications (id, title, body, url, type, project_id, message_id, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.NewString(), req.Title, req.Body, nullable(req.URL), req.Type, nullable(req.ProjectID), nullable(id), s.now().UTC(),
	)
	return &SendResult{MessageID: id, Audit: audit}, nil
}

// Broadcast sends msg to the configured topic without recording it.
func (s *PushService) Broadcast(ctx context.Context, msg fcm.Message) (string, error) {
	if !s.Configured() {
		return "", fcm.ErrNotConfigured
	}
	msg.Topic = s.topic
	id, err := s.pusher.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	zerolog.Ctx(ctx).Info().Str("topic", s.topic).Str("message_id", id).Msg("push notification sent")
	return id, nil
}

// Register subscribes a device token to the topic.
func (s *PushService) Register(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", badRequest("FCM token is required")
	}
	if !s.Configured() {
		return "", internal("Firebase Admin not configured", nil)
	}
	if err := s.pusher.Subscribe(ctx, token, s.topic); err != nil {
		return "", internal("Failed to register FCM token", err)
	}
	return s.topic, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
