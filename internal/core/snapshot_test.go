package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/edvin/opsdash/internal/github"
	"github.com/edvin/opsdash/internal/model"
	"github.com/edvin/opsdash/internal/vercel"
)

func TestSnapshotService_Poll(t *testing.T) {
	hosting := &mockHosting{}
	hosting.On("ListProjects", mock.Anything).Return([]vercel.Project{
		vercelProject("prj_1", "web", "acme/web", "web.example.com"),
	}, nil)
	hosting.On("DeploymentStatus", mock.Anything, "prj_1").Return(model.StatusLive)
	hosting.On("FailedDeployments", mock.Anything, 10).Return([]vercel.Deployment{
		{UID: "dpl_1", Name: "web", Created: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC).UnixMilli()},
	})

	ci := &mockCI{}
	ci.On("RunStatus", mock.Anything, "acme/web").Return(model.StatusBuilding)
	ci.On("FailedRuns", mock.Anything, "acme/web", 5).Return([]github.WorkflowRun(nil))

	maint := &mockDB{}
	maint.On("Query", mock.Anything, mock.Anything, mock.Anything).Return(newEmptyMockRows(), nil)

	projects := NewProjectService(hosting, nil, nil, 0)
	prober := &stubProber{status: map[string]model.HealthStatus{"https://web.example.com": model.HealthHealthy}}
	svc := NewSnapshotService(
		NewStatusService(projects, hosting, ci, stubPinger{}),
		NewHealthService(projects, prober, nil),
		NewLogService(projects, hosting, ci),
		NewMaintenanceService(maint),
	)
	polled := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return polled }

	snap := svc.Poll(context.Background())

	assert.Equal(t, map[string]model.ProjectStatus{
		"prj_1": {Hosting: model.StatusLive, CI: model.StatusBuilding, Database: model.StatusLive},
	}, snap.Statuses)
	if assert.Len(t, snap.Health, 1) {
		assert.Equal(t, model.HealthHealthy, snap.Health[0].Status)
	}
	assert.Len(t, snap.Logs, 1)
	assert.Empty(t, snap.Maintenance)
	assert.Equal(t, polled, snap.PolledAt)
}
