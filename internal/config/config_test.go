package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eddiefleurent/commodity-review/internal/review"
)

const validYAML = `
environment:
  log_level: debug

review:
  weights:
    greeks: 30
    technical: 30
    time: 20
    news: 20
  max_workers: 4

skills:
  interpreter: python3
  dir: skills
  timeout: 45s

output:
  dir: reports
  terminal: true
  files: true
  color: true

dashboard:
  enabled: true
  addr: "127.0.0.1:9847"

storage:
  path: data/reviews.json
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Expected config to load successfully, got error: %v", err)
	}
	if cfg.Environment.LogLevel != "debug" {
		t.Errorf("Expected log_level debug, got %q", cfg.Environment.LogLevel)
	}
	if cfg.Review.MaxWorkers != 4 {
		t.Errorf("Expected max_workers 4, got %d", cfg.Review.MaxWorkers)
	}
	if cfg.Review.Weights != review.DefaultWeights {
		t.Errorf("Expected default weight values, got %+v", cfg.Review.Weights)
	}
	if cfg.SkillTimeout() != 45*time.Second {
		t.Errorf("Expected 45s skill timeout, got %v", cfg.SkillTimeout())
	}
	if !cfg.Dashboard.Enabled || cfg.Dashboard.Addr != "127.0.0.1:9847" {
		t.Errorf("Expected dashboard enabled at 127.0.0.1:9847, got %+v", cfg.Dashboard)
	}
}

func TestLoad_InvalidPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Error("Expected error when loading nonexistent config file, got nil")
	}
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, validYAML+"\nbroker:\n  api_key: x\n"))
	if err == nil {
		t.Error("Expected unknown top-level field to be rejected, got nil")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("REVIEW_STORAGE_PATH", "/tmp/reviews.json")
	yaml := `
storage:
  path: ${REVIEW_STORAGE_PATH}
skills:
  interpreter: python3
  dir: skills
`
	cfg, err := Load(writeConfig(t, yaml))
	if err != nil {
		t.Fatalf("Expected config to load, got error: %v", err)
	}
	if cfg.Storage.Path != "/tmp/reviews.json" {
		t.Errorf("Expected env-expanded storage path, got %q", cfg.Storage.Path)
	}
}

func TestValidate_Defaults(t *testing.T) {
	cfg := &Config{
		Skills:  SkillsConfig{Interpreter: "python3", Dir: "skills"},
		Storage: StorageConfig{Path: "data/reviews.json"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected minimal config to validate via defaults, got: %v", err)
	}
	if cfg.Environment.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %q", cfg.Environment.LogLevel)
	}
	if cfg.Review.Weights != review.DefaultWeights {
		t.Errorf("Expected default weights, got %+v", cfg.Review.Weights)
	}
	if cfg.Review.MaxWorkers != defaultMaxWorkers {
		t.Errorf("Expected default max workers, got %d", cfg.Review.MaxWorkers)
	}
	if cfg.Output.Dir != defaultOutputDir {
		t.Errorf("Expected default output dir, got %q", cfg.Output.Dir)
	}
	if cfg.SkillTimeout() != 60*time.Second {
		t.Errorf("Expected default 60s skill timeout, got %v", cfg.SkillTimeout())
	}
}

func TestValidate_Rejections(t *testing.T) {
	base := func() *Config {
		c := Default()
		return c
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Environment.LogLevel = "verbose" }},
		{"negative weight", func(c *Config) { c.Review.Weights.Greeks = -1 }},
		{"negative workers", func(c *Config) { c.Review.MaxWorkers = -2 }},
		{"missing interpreter", func(c *Config) { c.Skills.Interpreter = "" }},
		{"missing skills dir", func(c *Config) { c.Skills.Dir = "" }},
		{"bad timeout", func(c *Config) { c.Skills.Timeout = "soon" }},
		{"dashboard without addr", func(c *Config) { c.Dashboard.Enabled = true; c.Dashboard.Addr = "" }},
		{"missing storage path", func(c *Config) { c.Storage.Path = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error for %s, got nil", tc.name)
			}
		})
	}
}
