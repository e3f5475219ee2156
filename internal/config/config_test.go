package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_LISTEN_ADDR", "LOG_LEVEL", "CORS_ORIGINS", "COOKIE_SECURE",
		"VERCEL_TOKEN", "VERCEL_TEAM_ID", "VERCEL_API_URL", "GITHUB_TOKEN", "GITHUB_API_URL",
		"DATABASE_URL", "MIGRATE_ON_START", "FIREBASE_PROJECT_ID", "FIREBASE_ADMIN_CLIENT_EMAIL",
		"FIREBASE_ADMIN_PRIVATE_KEY", "PUSH_TOPIC", "ADMIN_PASSWORD", "ADMIN_PASSWORD_HASH",
		"EXCLUDED_PROJECTS", "REDIS_URL", "PROJECT_CACHE_TTL", "LIVE_POLL_INTERVAL", "DASHBOARD_CONFIG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "https://api.vercel.com", cfg.VercelAPIURL)
	assert.Equal(t, "https://api.github.com", cfg.GitHubAPIURL)
	assert.Equal(t, "devops-dashboard-users", cfg.PushTopic)
	assert.Equal(t, 60*time.Second, cfg.ProjectCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.LivePollInterval)
	assert.Empty(t, cfg.VercelToken)
	assert.Empty(t, cfg.ExcludedProjects)
	assert.False(t, cfg.PushConfigured())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_AllEnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_LISTEN_ADDR", ":9000")
	t.Setenv("VERCEL_TOKEN", "vt")
	t.Setenv("VERCEL_TEAM_ID", "team_1")
	t.Setenv("GITHUB_TOKEN", "gt")
	t.Setenv("DATABASE_URL", "postgres://localhost/ops")
	t.Setenv("FIREBASE_PROJECT_ID", "proj")
	t.Setenv("FIREBASE_ADMIN_CLIENT_EMAIL", "svc@proj.iam.gserviceaccount.com")
	t.Setenv("FIREBASE_ADMIN_PRIVATE_KEY", `line1\nline2`)
	t.Setenv("EXCLUDED_PROJECTS", " Legacy , old-site,,")
	t.Setenv("PROJECT_CACHE_TTL", "15")
	t.Setenv("LIVE_POLL_INTERVAL", "5s")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPListenAddr)
	assert.Equal(t, "vt", cfg.VercelToken)
	assert.Equal(t, "team_1", cfg.VercelTeamID)
	assert.Equal(t, "gt", cfg.GitHubToken)
	assert.Equal(t, "postgres://localhost/ops", cfg.DatabaseURL)
	assert.Equal(t, "line1\nline2", cfg.FirebasePrivateKey)
	assert.Equal(t, []string{"Legacy", "old-site"}, cfg.ExcludedProjects)
	assert.Equal(t, 15*time.Second, cfg.ProjectCacheTTL)
	assert.Equal(t, 5*time.Second, cfg.LivePollInterval)
	assert.True(t, cfg.CookieSecure)
	assert.True(t, cfg.PushConfigured())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("LIVE_POLL_INTERVAL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_PartialFirebase(t *testing.T) {
	cfg := &Config{HTTPListenAddr: ":8080", LivePollInterval: time.Second, FirebaseProjectID: "proj"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIREBASE_ADMIN_CLIENT_EMAIL, FIREBASE_ADMIN_PRIVATE_KEY")
}

func TestValidate_EmptyListenAddr(t *testing.T) {
	cfg := &Config{LivePollInterval: time.Second}
	assert.Error(t, cfg.Validate())
}

func TestLoad_ConfigFileOverlay(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
excluded_projects:
  - playground
health_targets:
  - url: https://status.example.com
    name: status page
`), 0o600))
	t.Setenv("DASHBOARD_CONFIG", path)
	t.Setenv("EXCLUDED_PROJECTS", "legacy")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"legacy", "playground"}, cfg.ExcludedProjects)
	require.Len(t, cfg.HealthTargets, 1)
	assert.Equal(t, "https://status.example.com", cfg.HealthTargets[0].URL)
	assert.Equal(t, "status page", cfg.HealthTargets[0].Name)
}

func TestParseFile_MissingTargetURL(t *testing.T) {
	_, err := ParseFile([]byte("health_targets:\n  - name: nothing\n"))
	assert.Error(t, err)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DASHBOARD_CONFIG", "/nonexistent/dashboard.yaml")

	_, err := Load()
	assert.Error(t, err)
}
