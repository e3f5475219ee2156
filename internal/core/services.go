package core

import (
	"time"

	"github.com/edvin/opsdash/internal/model"
)

// Services bundles every dashboard service.
type Services struct {
	Project      *ProjectService
	Status       *StatusService
	Health       *HealthService
	Log          *LogService
	Deploy       *DeployService
	Workflow     *WorkflowService
	Push         *PushService
	Notification *NotificationService
	Maintenance  *MaintenanceService
	Stats        *StatsService
	Snapshot     *SnapshotService
}

// Deps are the collaborators the services are built from. DB and Store
// are nil when no database is configured; Cache may be nil.
type Deps struct {
	Hosting HostingClient
	CI      CIClient
	Pusher  Pusher
	Prober  Prober
	DB      DB
	Store   Pinger
	Cache   JSONCache
}

// Options are the service settings taken from configuration.
type Options struct {
	ExcludedProjects []string
	HealthTargets    []model.HealthTarget
	PushTopic        string
	ProjectCacheTTL  time.Duration
}

func NewServices(deps Deps, opts Options) *Services {
	project := NewProjectService(deps.Hosting, opts.ExcludedProjects, deps.Cache, opts.ProjectCacheTTL)
	push := NewPushService(deps.Pusher, deps.DB, opts.PushTopic)
	status := NewStatusService(project, deps.Hosting, deps.CI, deps.Store)
	health := NewHealthService(project, deps.Prober, opts.HealthTargets)
	logs := NewLogService(project, deps.Hosting, deps.CI)
	maintenance := NewMaintenanceService(deps.DB)

	return &Services{
		Project:      project,
		Status:       status,
		Health:       health,
		Log:          logs,
		Deploy:       NewDeployService(deps.Hosting),
		Workflow:     NewWorkflowService(deps.CI, deps.DB, push),
		Push:         push,
		Notification: NewNotificationService(deps.DB),
		Maintenance:  maintenance,
		Stats:        NewStatsService(deps.DB),
		Snapshot:     NewSnapshotService(status, health, logs, maintenance),
	}
}
