package core

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/edvin/opsdash/internal/model"
)

// HealthService probes every project URL plus the configured extra
// targets.
type HealthService struct {
	projects *ProjectService
	prober   Prober
	extra    []model.HealthTarget
}

func NewHealthService(projects *ProjectService, prober Prober, extra []model.HealthTarget) *HealthService {
	return &HealthService{projects: projects, prober: prober, extra: extra}
}

// Targets returns the URLs to probe, project URLs first, without
// duplicates.
func (s *HealthService) Targets(ctx context.Context) []model.HealthTarget {
	seen := make(map[string]bool)
	var targets []model.HealthTarget
	add := func(t model.HealthTarget) {
		if t.URL == "" || seen[t.URL] {
			return
		}
		seen[t.URL] = true
		targets = append(targets, t)
	}

	for _, p := range s.projects.Discover(ctx) {
		add(model.HealthTarget{URL: p.URL, Name: p.Name})
	}
	for _, t := range s.extra {
		add(t)
	}
	return targets
}

// Check probes all targets concurrently. Results keep target order.
func (s *HealthService) Check(ctx context.Context) []model.HealthCheckResult {
	targets := s.Targets(ctx)
	results := make([]model.HealthCheckResult, len(targets))

	var g errgroup.Group
	for i, t := range targets {
		g.Go(func() error {
			results[i] = s.prober.Probe(ctx, t)
			return nil
		})
	}
	g.Wait()
	return results
}
