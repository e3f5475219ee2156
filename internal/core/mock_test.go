package core

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/edvin/opsdash/internal/fcm"
	"github.com/edvin/opsdash/internal/github"
	"github.com/edvin/opsdash/internal/model"
	"github.com/edvin/opsdash/internal/vercel"
)

// ---------- Mock DB ----------

// mockDB implements the DB interface for testing.
type mockDB struct {
	mock.Mock
}

func (m *mockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// ---------- Mock Row ----------

// mockRow implements pgx.Row for testing.
type mockRow struct {
	scanFunc func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	return m.scanFunc(dest...)
}

func errRow(err error) *mockRow {
	return &mockRow{scanFunc: func(...any) error { return err }}
}

// ---------- Mock Rows ----------

// mockRows implements pgx.Rows for testing.
// It iterates through a list of scan functions, one per row.
type mockRows struct {
	callIndex int
	scanFuncs []func(dest ...any) error
	err       error
}

func newMockRows(scanFuncs ...func(dest ...any) error) *mockRows {
	return &mockRows{scanFuncs: scanFuncs}
}

// newEmptyMockRows returns a mockRows that yields zero rows.
func newEmptyMockRows() *mockRows {
	return &mockRows{}
}

func (m *mockRows) Next() bool {
	return m.callIndex < len(m.scanFuncs)
}

func (m *mockRows) Scan(dest ...any) error {
	if m.callIndex < len(m.scanFuncs) {
		fn := m.scanFuncs[m.callIndex]
		m.callIndex++
		return fn(dest...)
	}
	return nil
}

func (m *mockRows) Err() error                                   { return m.err }
func (m *mockRows) Close()                                       {}
func (m *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockRows) RawValues() [][]byte                          { return nil }
func (m *mockRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockRows) Conn() *pgx.Conn                              { return nil }

// ---------- Mock upstream clients ----------

type mockHosting struct {
	mock.Mock
	unconfigured bool
}

func (m *mockHosting) Configured() bool { return !m.unconfigured }

func (m *mockHosting) ListProjects(ctx context.Context) ([]vercel.Project, error) {
	args := m.Called(ctx)
	projects, _ := args.Get(0).([]vercel.Project)
	return projects, args.Error(1)
}

func (m *mockHosting) LatestDeployment(ctx context.Context, projectID string) (*vercel.Deployment, error) {
	args := m.Called(ctx, projectID)
	d, _ := args.Get(0).(*vercel.Deployment)
	return d, args.Error(1)
}

func (m *mockHosting) CreateDeployment(ctx context.Context, req vercel.CreateDeploymentRequest) (*vercel.Deployment, error) {
	args := m.Called(ctx, req)
	d, _ := args.Get(0).(*vercel.Deployment)
	return d, args.Error(1)
}

func (m *mockHosting) DeploymentStatus(ctx context.Context, projectID string) model.Status {
	return m.Called(ctx, projectID).Get(0).(model.Status)
}

func (m *mockHosting) FailedDeployments(ctx context.Context, limit int) []vercel.Deployment {
	d, _ := m.Called(ctx, limit).Get(0).([]vercel.Deployment)
	return d
}

type mockCI struct {
	mock.Mock
	unconfigured bool
}

func (m *mockCI) Configured() bool { return !m.unconfigured }

func (m *mockCI) RunStatus(ctx context.Context, repo string) model.Status {
	return m.Called(ctx, repo).Get(0).(model.Status)
}

func (m *mockCI) FailedRuns(ctx context.Context, repo string, limit int) []github.WorkflowRun {
	runs, _ := m.Called(ctx, repo, limit).Get(0).([]github.WorkflowRun)
	return runs
}

func (m *mockCI) ListWorkflows(ctx context.Context, repo string) ([]github.Workflow, error) {
	args := m.Called(ctx, repo)
	w, _ := args.Get(0).([]github.Workflow)
	return w, args.Error(1)
}

func (m *mockCI) DispatchWorkflow(ctx context.Context, repo, workflow string, req github.DispatchWorkflowRequest) error {
	return m.Called(ctx, repo, workflow, req).Error(0)
}

type mockPusher struct {
	mock.Mock
	unconfigured bool
}

func (m *mockPusher) Configured() bool { return !m.unconfigured }

func (m *mockPusher) Send(ctx context.Context, msg fcm.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func (m *mockPusher) Subscribe(ctx context.Context, token, topic string) error {
	return m.Called(ctx, token, topic).Error(0)
}

// stubProber answers from a fixed table keyed by URL.
type stubProber struct {
	mu     sync.Mutex
	status map[string]model.HealthStatus
	probed []string
}

func (p *stubProber) Probe(_ context.Context, t model.HealthTarget) model.HealthCheckResult {
	p.mu.Lock()
	p.probed = append(p.probed, t.URL)
	p.mu.Unlock()

	st, ok := p.status[t.URL]
	if !ok {
		st = model.HealthUnhealthy
	}
	return model.HealthCheckResult{URL: t.URL, Name: t.Name, Status: st, LastChecked: time.Now()}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// memCache is an in-memory JSONCache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	c.sets++
	return nil
}

// ---------- Fixtures ----------

func vercelProject(id, name, repo, alias string) vercel.Project {
	p := vercel.Project{ID: id, Name: name}
	if repo != "" {
		org, r, _ := strings.Cut(repo, "/")
		p.Link = &vercel.ProjectLink{Type: "github", Org: org, Repo: r}
	}
	if alias != "" {
		p.Targets = &vercel.ProjectTargets{Production: &vercel.ProductionTarget{Alias: []string{alias}}}
	}
	return p
}
