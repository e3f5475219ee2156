package core

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/opsdash/internal/model"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// HistoryQuery filters the notification history. An empty Type returns
// both kinds.
type HistoryQuery struct {
	Limit int
	Type  string
}

// History is the merged audit history.
type History struct {
	Data    []model.HistoryItem
	Total   int
	Message string
}

// NotificationService reads back the push and workflow audit logs.
type NotificationService struct {
	db DB
}

// NewNotificationService creates a NotificationService. db may be nil.
func NewNotificationService(db DB) *NotificationService {
	return &NotificationService{db: db}
}

// History merges both audit tables newest first. A table that cannot be
// read contributes nothing; the call never fails.
func (s *NotificationService) History(ctx context.Context, q HistoryQuery) *History {
	if q.Limit <= 0 {
		q.Limit = DefaultHistoryLimit
	}
	if q.Limit > MaxHistoryLimit {
		q.Limit = MaxHistoryLimit
	}
	if s.db == nil {
		return &History{Data: []model.HistoryItem{}, Message: ErrStoreNotConfigured.Error()}
	}

	var (
		actions, pushes []model.HistoryItem
		g               errgroup.Group
	)
	g.Go(func() error {
		actions = s.workflowTriggers(ctx, q.Limit)
		return nil
	})
	g.Go(func() error {
		pushes = s.notifications(ctx, q.Limit)
		return nil
	})
	g.Wait()

	var items []model.HistoryItem
	switch q.Type {
	case model.NotificationTypePush:
		items = pushes
	case model.NotificationTypeGitHubAction:
		items = actions
	default:
		items = append(actions, pushes...)
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Time().After(items[j].Time())
		})
	}

	total := len(items)
	if len(items) > q.Limit {
		items = items[:q.Limit]
	}
	if items == nil {
		items = []model.HistoryItem{}
	}
	return &History{Data: items, Total: total}
}

func (s *NotificationService) workflowTriggers(ctx context.Context, limit int) []model.HistoryItem {
	rows, err := s.db.Query(ctx,
		`SELECT id, repo, workflow, ref, status, triggered_at
		 FROM github_actions ORDER BY triggered_at DESC LIMIT $1`, limit)
	if err != nil {
		logHistoryError(ctx, "github_actions", err)
		return nil
	}
	defer rows.Close()

	var items []model.HistoryItem
	for rows.Next() {
		var t model.WorkflowTrigger
		if err := rows.Scan(&t.ID, &t.Repo, &t.Workflow, &t.Ref, &t.Status, &t.TriggeredAt); err != nil {
			logHistoryError(ctx, "github_actions", err)
			return nil
		}
		items = append(items, model.HistoryItem{Type: model.NotificationTypeGitHubAction, Action: &t})
	}
	if err := rows.Err(); err != nil {
		logHistoryError(ctx, "github_actions", err)
		return nil
	}
	return items
}

func (s *NotificationService) notifications(ctx context.Context, limit int) []model.HistoryItem {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, body, url, type, project_id, message_id, sent_at
		 FROM notifications ORDER BY sent_at DESC LIMIT $1`, limit)
	if err != nil {
		logHistoryError(ctx, "notifications", err)
		return nil
	}
	defer rows.Close()

	var items []model.HistoryItem
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.URL, &n.Category, &n.ProjectID, &n.MessageID, &n.SentAt); err != nil {
			logHistoryError(ctx, "notifications", err)
			return nil
		}
		items = append(items, model.HistoryItem{Type: model.NotificationTypePush, Push: &n})
	}
	if err := rows.Err(); err != nil {
		logHistoryError(ctx, "notifications", err)
		return nil
	}
	return items
}

var historyTableWarned sync.Map

func logHistoryError(ctx context.Context, table string, err error) {
	if isUndefinedTable(err) {
		if _, seen := historyTableWarned.LoadOrStore(table, true); !seen {
			zerolog.Ctx(ctx).Warn().Str("table", table).Msg("history table not found")
		}
		return
	}
	zerolog.Ctx(ctx).Warn().Err(err).Str("table", table).Msg("reading history failed")
}
