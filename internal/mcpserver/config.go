package mcpserver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultAPIURL = "http://127.0.0.1:8080"

// Config is the MCP server configuration loaded from mcp.yaml.
type Config struct {
	APIURL       string                    `yaml:"api_url"`
	Instructions string                    `yaml:"instructions"`
	Defaults     map[string]MethodDefaults `yaml:"defaults"`
	Overrides    map[string]ToolOverride   `yaml:"overrides"`
}

// MethodDefaults defines default MCP annotations for an HTTP method.
type MethodDefaults struct {
	ReadOnly    *bool `yaml:"readonly"`
	Destructive *bool `yaml:"destructive"`
	Idempotent  *bool `yaml:"idempotent"`
}

// ToolOverride allows per-tool customization.
type ToolOverride struct {
	Description string `yaml:"description"`
	Disabled    bool   `yaml:"disabled"`
	ReadOnly    *bool  `yaml:"readonly"`
	Destructive *bool  `yaml:"destructive"`
	Idempotent  *bool  `yaml:"idempotent"`
}

// LoadConfig reads and parses the mcp.yaml configuration file. A missing
// file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ParseConfig(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses mcp.yaml configuration from raw bytes.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse mcp config: %w", err)
	}

	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.Instructions == "" {
		cfg.Instructions = "DevOps dashboard: project status, health checks, error logs, redeploys, CI workflows, maintenance mode and push notifications."
	}
	if cfg.Defaults == nil {
		cfg.Defaults = map[string]MethodDefaults{
			"GET":  {ReadOnly: boolPtr(true), Destructive: boolPtr(false), Idempotent: boolPtr(true)},
			"POST": {ReadOnly: boolPtr(false), Destructive: boolPtr(true), Idempotent: boolPtr(false)},
		}
	}

	return &cfg, nil
}

func boolPtr(b bool) *bool { return &b }
