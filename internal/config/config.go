package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/edvin/opsdash/internal/model"
)

type Config struct {
	HTTPListenAddr string
	LogLevel       string
	CORSOrigins    []string
	CookieSecure   bool

	VercelToken  string
	VercelTeamID string
	VercelAPIURL string

	GitHubToken  string
	GitHubAPIURL string

	DatabaseURL    string
	MigrateOnStart bool

	FirebaseProjectID   string
	FirebaseClientEmail string
	FirebasePrivateKey  string
	FCMAPIURL           string
	FCMIIDURL           string
	PushTopic           string

	AdminPassword     string
	AdminPasswordHash string

	ExcludedProjects []string
	HealthTargets    []model.HealthTarget

	RedisURL         string
	ProjectCacheTTL  time.Duration
	LivePollInterval time.Duration

	// ConfigFile is the optional YAML overlay read by Load.
	ConfigFile string
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPListenAddr: getEnv("HTTP_LISTEN_ADDR", ":8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		CookieSecure:   getEnv("COOKIE_SECURE", "") == "true",

		VercelToken:  getEnv("VERCEL_TOKEN", ""),
		VercelTeamID: getEnv("VERCEL_TEAM_ID", ""),
		VercelAPIURL: getEnv("VERCEL_API_URL", "https://api.vercel.com"),

		GitHubToken:  getEnv("GITHUB_TOKEN", ""),
		GitHubAPIURL: getEnv("GITHUB_API_URL", "https://api.github.com"),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnv("MIGRATE_ON_START", "") == "true",

		FirebaseProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseClientEmail: getEnv("FIREBASE_ADMIN_CLIENT_EMAIL", ""),
		FirebasePrivateKey:  strings.ReplaceAll(getEnv("FIREBASE_ADMIN_PRIVATE_KEY", ""), `\n`, "\n"),
		FCMAPIURL:           getEnv("FCM_API_URL", "https://fcm.googleapis.com"),
		FCMIIDURL:           getEnv("FCM_IID_URL", "https://iid.googleapis.com"),
		PushTopic:           getEnv("PUSH_TOPIC", "devops-dashboard-users"),

		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		ExcludedProjects: splitList(getEnv("EXCLUDED_PROJECTS", "")),

		RedisURL:   getEnv("REDIS_URL", ""),
		ConfigFile: getEnv("DASHBOARD_CONFIG", ""),
	}

	var err error
	if cfg.ProjectCacheTTL, err = getDuration("PROJECT_CACHE_TTL", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.LivePollInterval, err = getDuration("LIVE_POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}

	if cfg.ConfigFile != "" {
		overlay, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		overlay.Apply(cfg)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTPListenAddr == "" {
		return fmt.Errorf("HTTP_LISTEN_ADDR must not be empty")
	}
	if c.LivePollInterval <= 0 {
		return fmt.Errorf("LIVE_POLL_INTERVAL must be positive")
	}
	if c.ProjectCacheTTL < 0 {
		return fmt.Errorf("PROJECT_CACHE_TTL must not be negative")
	}

	// Firebase credentials are all-or-nothing.
	var set, missing []string
	for name, v := range map[string]string{
		"FIREBASE_PROJECT_ID":         c.FirebaseProjectID,
		"FIREBASE_ADMIN_CLIENT_EMAIL": c.FirebaseClientEmail,
		"FIREBASE_ADMIN_PRIVATE_KEY":  c.FirebasePrivateKey,
	} {
		if v == "" {
			missing = append(missing, name)
		} else {
			set = append(set, name)
		}
	}
	if len(set) > 0 && len(missing) > 0 {
		return fmt.Errorf("incomplete firebase config, missing: %s", strings.Join(sortedCopy(missing), ", "))
	}
	return nil
}

// PushConfigured reports whether the push gateway credentials are present.
func (c *Config) PushConfigured() bool {
	return c.FirebaseProjectID != "" && c.FirebaseClientEmail != "" && c.FirebasePrivateKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return time.Duration(secs) * time.Second, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
