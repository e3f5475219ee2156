package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/model"
)

const (
	DefaultMaintenanceMessage  = "Service is under maintenance. Please try again shortly."
	fallbackMaintenanceMessage = "Service is under maintenance."
)

// SetMaintenanceRequest toggles the flag of one project. Nil fields take
// their defaults: disabled with the default message.
type SetMaintenanceRequest struct {
	ProjectID   string
	ProjectName string
	Enabled     *bool
	Message     *string
}

// MaintenanceService stores per-project maintenance flags.
type MaintenanceService struct {
	db  DB
	now func() time.Time
}

// NewMaintenanceService creates a MaintenanceService. db may be nil, in
// which case reads return defaults and writes fail.
func NewMaintenanceService(db DB) *MaintenanceService {
	return &MaintenanceService{db: db, now: time.Now}
}

// Get returns the flag of projectID. A missing record or any store
// failure reads as not in maintenance.
func (s *MaintenanceService) Get(ctx context.Context, projectID string) model.MaintenanceStatus {
	if s.db == nil {
		return model.MaintenanceStatus{}
	}

	var (
		enabled *bool
		message *string
	)
	err := s.db.QueryRow(ctx,
		`SELECT enabled, message FROM project_maintenance WHERE project_id = $1`, projectID,
	).Scan(&enabled, &message)
	if err != nil {
		return model.MaintenanceStatus{}
	}

	st := model.MaintenanceStatus{Message: fallbackMaintenanceMessage}
	if enabled != nil {
		st.Enabled = *enabled
	}
	if message != nil {
		st.Message = *message
	}
	return st
}

// List returns every stored flag keyed by project id. Store failures
// yield an empty map.
func (s *MaintenanceService) List(ctx context.Context) map[string]model.MaintenanceStatus {
	out := map[string]model.MaintenanceStatus{}
	if s.db == nil {
		return out
	}

	rows, err := s.db.Query(ctx, `SELECT project_id, enabled, message FROM project_maintenance`)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("listing maintenance flags failed")
		return out
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id      string
			st      model.MaintenanceStatus
			message *string
		)
		if err := rows.Scan(&id, &st.Enabled, &message); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("scan maintenance flag failed")
			return map[string]model.MaintenanceStatus{}
		}
		if message != nil {
			st.Message = *message
		}
		out[id] = st
	}
	if err := rows.Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("listing maintenance flags failed")
		return map[string]model.MaintenanceStatus{}
	}
	return out
}

// Set upserts the flag of a project and returns the stored state.
func (s *MaintenanceService) Set(ctx context.Context, req SetMaintenanceRequest) (*model.Maintenance, error) {
	if req.ProjectID == "" || req.ProjectName == "" {
		return nil, badRequest("projectId and projectName required")
	}
	if s.db == nil {
		return nil, internal("Failed to update", ErrStoreNotConfigured)
	}

	m := &model.Maintenance{
		ProjectID:   req.ProjectID,
		ProjectName: req.ProjectName,
		Message:     DefaultMaintenanceMessage,
		UpdatedAt:   s.now().UTC(),
	}
	if req.Enabled != nil {
		m.Enabled = *req.Enabled
	}
	if req.Message != nil {
		m.Message = *req.Message
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO project_maintenance (project_id, project_name, enabled, message, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (project_id) DO UPDATE
		 SET project_name = EXCLUDED.project_name, enabled = EXCLUDED.enabled,
		     message = EXCLUDED.message, updated_at = EXCLUDED.updated_at`,
		m.ProjectID, m.ProjectName, m.Enabled, m.Message, m.UpdatedAt,
	)
	if err != nil {
		return nil, internal("Failed to update", err)
	}

	zerolog.Ctx(ctx).Info().Str("project", m.ProjectID).Bool("enabled", m.Enabled).Msg("maintenance flag updated")
	return m, nil
}
