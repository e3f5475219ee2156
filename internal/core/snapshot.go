package core

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edvin/opsdash/internal/model"
)

// SnapshotService runs one poll of every read aggregate.
type SnapshotService struct {
	status      *StatusService
	health      *HealthService
	logs        *LogService
	maintenance *MaintenanceService
	now         func() time.Time
}

func NewSnapshotService(status *StatusService, health *HealthService, logs *LogService, maintenance *MaintenanceService) *SnapshotService {
	return &SnapshotService{status: status, health: health, logs: logs, maintenance: maintenance, now: time.Now}
}

// Poll gathers all aggregates concurrently.
func (s *SnapshotService) Poll(ctx context.Context) model.Snapshot {
	var (
		snap model.Snapshot
		g    errgroup.Group
	)
	g.Go(func() error {
		snap.Statuses = s.status.Statuses(ctx)
		return nil
	})
	g.Go(func() error {
		snap.Health = s.health.Check(ctx)
		return nil
	})
	g.Go(func() error {
		snap.Logs = s.logs.Recent(ctx)
		return nil
	})
	g.Go(func() error {
		snap.Maintenance = s.maintenance.List(ctx)
		return nil
	})
	g.Wait()

	snap.PolledAt = s.now().UTC()
	return snap
}
