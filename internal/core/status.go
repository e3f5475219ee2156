package core

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/opsdash/internal/model"
)

// StatusService computes the per-project service statuses.
type StatusService struct {
	projects *ProjectService
	hosting  HostingClient
	ci       CIClient
	store    Pinger
}

// NewStatusService creates a StatusService. store may be nil when no
// database is configured.
func NewStatusService(projects *ProjectService, hosting HostingClient, ci CIClient, store Pinger) *StatusService {
	return &StatusService{projects: projects, hosting: hosting, ci: ci, store: store}
}

// Statuses returns the statuses keyed by project id. Every branch
// degrades on its own; the result is never an error.
func (s *StatusService) Statuses(ctx context.Context) map[string]model.ProjectStatus {
	var (
		projects []model.Project
		dbStatus model.Status
	)

	// Branches never return errors, so none cancels another.
	var g errgroup.Group
	g.Go(func() error {
		projects = s.projects.Discover(ctx)
		return nil
	})
	g.Go(func() error {
		dbStatus = s.databaseStatus(ctx)
		return nil
	})
	g.Wait()

	out := make(map[string]model.ProjectStatus, len(projects))
	var (
		mu  sync.Mutex
		fan errgroup.Group
	)
	for _, p := range projects {
		fan.Go(func() error {
			st := s.projectStatus(ctx, p)
			st.Database = dbStatus
			mu.Lock()
			out[p.ID] = st
			mu.Unlock()
			return nil
		})
	}
	fan.Wait()
	return out
}

func (s *StatusService) projectStatus(ctx context.Context, p model.Project) model.ProjectStatus {
	st := model.ProjectStatus{Hosting: model.StatusUnknown, CI: model.StatusNotApplicable}

	var g errgroup.Group
	g.Go(func() error {
		if p.HostingProjectID != "" {
			st.Hosting = s.hosting.DeploymentStatus(ctx, p.HostingProjectID)
		}
		return nil
	})
	if p.HasCI() {
		g.Go(func() error {
			st.CI = s.ci.RunStatus(ctx, p.CIRepo)
			return nil
		})
	}
	g.Wait()
	return st
}

func (s *StatusService) databaseStatus(ctx context.Context) model.Status {
	if s.store == nil {
		return model.StatusUnknown
	}
	if err := s.store.Ping(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("database ping failed")
		return model.StatusError
	}
	return model.StatusLive
}
