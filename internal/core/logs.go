package core

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/edvin/opsdash/internal/model"
)

const (
	maxLogEntries       = 50
	failedDeployLimit   = 10
	failedRunsPerRepoCI = 5
)

// LogService merges recent failures from the hosting and CI platforms.
type LogService struct {
	projects *ProjectService
	hosting  HostingClient
	ci       CIClient
}

func NewLogService(projects *ProjectService, hosting HostingClient, ci CIClient) *LogService {
	return &LogService{projects: projects, hosting: hosting, ci: ci}
}

// Recent returns at most 50 entries, newest first. A failing source
// contributes nothing.
func (s *LogService) Recent(ctx context.Context) []model.LogEntry {
	var (
		mu      sync.Mutex
		entries []model.LogEntry
		g       errgroup.Group
	)
	collect := func(batch []model.LogEntry) {
		mu.Lock()
		entries = append(entries, batch...)
		mu.Unlock()
	}

	g.Go(func() error {
		collect(s.hostingEntries(ctx))
		return nil
	})
	g.Go(func() error {
		var repos errgroup.Group
		for _, repo := range s.repos(ctx) {
			repos.Go(func() error {
				collect(s.ciEntries(ctx, repo))
				return nil
			})
		}
		repos.Wait()
		return nil
	})
	g.Wait()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if len(entries) > maxLogEntries {
		entries = entries[:maxLogEntries]
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	return entries
}

func (s *LogService) repos(ctx context.Context) []string {
	seen := make(map[string]bool)
	var repos []string
	for _, p := range s.projects.Discover(ctx) {
		if p.HasCI() && !seen[p.CIRepo] {
			seen[p.CIRepo] = true
			repos = append(repos, p.CIRepo)
		}
	}
	return repos
}

func (s *LogService) hostingEntries(ctx context.Context) []model.LogEntry {
	deployments := s.hosting.FailedDeployments(ctx, failedDeployLimit)
	out := make([]model.LogEntry, 0, len(deployments))
	for _, d := range deployments {
		msg := d.ErrorMessage
		if msg == "" {
			msg = "Deployment failed: " + d.Name
		}
		out = append(out, model.LogEntry{
			ID:        d.Identifier(),
			Timestamp: d.CreatedAt(),
			Level:     model.LogLevelError,
			Message:   msg,
			Service:   model.LogServiceHosting,
		})
	}
	return out
}

func (s *LogService) ciEntries(ctx context.Context, repo string) []model.LogEntry {
	runs := s.ci.FailedRuns(ctx, repo, failedRunsPerRepoCI)
	out := make([]model.LogEntry, 0, len(runs))
	for _, run := range runs {
		out = append(out, model.LogEntry{
			ID:        strconv.FormatInt(run.ID, 10),
			Timestamp: run.CreatedAt,
			Level:     model.LogLevelError,
			Message:   fmt.Sprintf("%s failed in %s", run.Name, repo),
			Service:   model.LogServiceCI,
		})
	}
	return out
}
