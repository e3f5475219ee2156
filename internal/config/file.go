package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/edvin/opsdash/internal/model"
)

// File is the optional YAML overlay pointed to by DASHBOARD_CONFIG.
type File struct {
	ExcludedProjects []string             `yaml:"excluded_projects"`
	HealthTargets    []model.HealthTarget `yaml:"health_targets"`
}

// LoadFile reads and parses a YAML overlay file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseFile(data)
}

// ParseFile parses a YAML overlay from raw bytes.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse dashboard config: %w", err)
	}
	for i, t := range f.HealthTargets {
		if strings.TrimSpace(t.URL) == "" {
			return nil, fmt.Errorf("health_targets[%d]: url is required", i)
		}
	}
	return &f, nil
}

// Apply merges the overlay into cfg. Excluded projects are appended to
// those from the environment.
func (f *File) Apply(cfg *Config) {
	cfg.ExcludedProjects = append(cfg.ExcludedProjects, f.ExcludedProjects...)
	cfg.HealthTargets = append(cfg.HealthTargets, f.HealthTargets...)
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
