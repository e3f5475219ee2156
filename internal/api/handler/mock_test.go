package handler

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/edvin/opsdash/internal/fcm"
	"github.com/edvin/opsdash/internal/github"
	"github.com/edvin/opsdash/internal/model"
	"github.com/edvin/opsdash/internal/vercel"
)

// handlerMockDB implements core.DB for handler tests.
type handlerMockDB struct {
	mock.Mock
}

func (m *handlerMockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *handlerMockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *handlerMockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

type handlerMockRow struct {
	scanFunc func(dest ...any) error
}

func (m *handlerMockRow) Scan(dest ...any) error {
	return m.scanFunc(dest...)
}

type handlerMockHosting struct {
	mock.Mock
	unconfigured bool
}

func (m *handlerMockHosting) Configured() bool { return !m.unconfigured }

func (m *handlerMockHosting) ListProjects(ctx context.Context) ([]vercel.Project, error) {
	args := m.Called(ctx)
	projects, _ := args.Get(0).([]vercel.Project)
	return projects, args.Error(1)
}

func (m *handlerMockHosting) LatestDeployment(ctx context.Context, projectID string) (*vercel.Deployment, error) {
	args := m.Called(ctx, projectID)
	d, _ := args.Get(0).(*vercel.Deployment)
	return d, args.Error(1)
}

func (m *handlerMockHosting) CreateDeployment(ctx context.Context, req vercel.CreateDeploymentRequest) (*vercel.Deployment, error) {
	args := m.Called(ctx, req)
	d, _ := args.Get(0).(*vercel.Deployment)
	return d, args.Error(1)
}

func (m *handlerMockHosting) DeploymentStatus(ctx context.Context, projectID string) model.Status {
	return m.Called(ctx, projectID).Get(0).(model.Status)
}

func (m *handlerMockHosting) FailedDeployments(ctx context.Context, limit int) []vercel.Deployment {
	d, _ := m.Called(ctx, limit).Get(0).([]vercel.Deployment)
	return d
}

type handlerMockCI struct {
	mock.Mock
	unconfigured bool
}

func (m *handlerMockCI) Configured() bool { return !m.unconfigured }

func (m *handlerMockCI) RunStatus(ctx context.Context, repo string) model.Status {
	return m.Called(ctx, repo).Get(0).(model.Status)
}

func (m *handlerMockCI) FailedRuns(ctx context.Context, repo string, limit int) []github.WorkflowRun {
	runs, _ := m.Called(ctx, repo, limit).Get(0).([]github.WorkflowRun)
	return runs
}

func (m *handlerMockCI) ListWorkflows(ctx context.Context, repo string) ([]github.Workflow, error) {
	args := m.Called(ctx, repo)
	w, _ := args.Get(0).([]github.Workflow)
	return w, args.Error(1)
}

func (m *handlerMockCI) DispatchWorkflow(ctx context.Context, repo, workflow string, req github.DispatchWorkflowRequest) error {
	return m.Called(ctx, repo, workflow, req).Error(0)
}

type handlerMockPusher struct {
	mock.Mock
	unconfigured bool
}

func (m *handlerMockPusher) Configured() bool { return !m.unconfigured }

func (m *handlerMockPusher) Send(ctx context.Context, msg fcm.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func (m *handlerMockPusher) Subscribe(ctx context.Context, token, topic string) error {
	return m.Called(ctx, token, topic).Error(0)
}
