package core

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/model"
	"github.com/edvin/opsdash/internal/vercel"
)

const projectCacheKey = "opsdash:projects"

// ProjectService discovers dashboard projects from the hosting platform.
type ProjectService struct {
	hosting  HostingClient
	excluded []string
	cache    JSONCache
	cacheTTL time.Duration
}

// NewProjectService creates a ProjectService. Projects whose name
// matches an excluded name (case-insensitive) are dropped. cache may be
// nil.
func NewProjectService(hosting HostingClient, excluded []string, cache JSONCache, cacheTTL time.Duration) *ProjectService {
	names := make([]string, 0, len(excluded))
	for _, name := range excluded {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			names = append(names, name)
		}
	}
	return &ProjectService{hosting: hosting, excluded: names, cache: cache, cacheTTL: cacheTTL}
}

// List returns the discovered projects. It fails when the hosting
// platform is not configured or does not answer.
func (s *ProjectService) List(ctx context.Context) (*model.ProjectList, error) {
	if !s.hosting.Configured() {
		return nil, internal("VERCEL_TOKEN not configured", nil)
	}

	projects, err := s.projects(ctx)
	if err != nil {
		return nil, err
	}

	return &model.ProjectList{
		Projects: projects,
		Total:    len(projects),
		Excluded: len(s.excluded),
	}, nil
}

// Discover returns the projects for read aggregates, or nil when
// discovery fails.
func (s *ProjectService) Discover(ctx context.Context) []model.Project {
	if !s.hosting.Configured() {
		return nil
	}
	projects, err := s.projects(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("project discovery failed")
		return nil
	}
	return projects
}

func (s *ProjectService) projects(ctx context.Context) ([]model.Project, error) {
	var cached []model.Project
	if s.cache != nil {
		if hit, err := s.cache.GetJSON(ctx, projectCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	raw, err := s.hosting.ListProjects(ctx)
	if err != nil {
		return nil, newError(http.StatusInternalServerError, "Failed to fetch projects", err)
	}

	projects := make([]model.Project, 0, len(raw))
	for _, p := range raw {
		if s.isExcluded(p.Name) {
			continue
		}
		projects = append(projects, toProject(p))
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, projectCacheKey, projects, s.cacheTTL); err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("caching project list failed")
		}
	}
	return projects, nil
}

func (s *ProjectService) isExcluded(name string) bool {
	name = strings.ToLower(name)
	for _, ex := range s.excluded {
		if ex == name {
			return true
		}
	}
	return false
}

func toProject(p vercel.Project) model.Project {
	out := model.Project{
		ID:               p.ID,
		Name:             p.Name,
		HostingProjectID: p.ID,
		CIRepo:           p.GitHubRepo(),
		URL:              p.ProductionURL(),
	}
	if out.URL != "" {
		out.HealthCheckURL = out.URL + "/api/health"
	}
	return out
}
