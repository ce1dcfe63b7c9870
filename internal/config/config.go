// Package config provides configuration management for the review tool.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/eddiefleurent/commodity-review/internal/review"
)

const (
	// defaultMaxWorkers bounds concurrent position analysis when
	// review.max_workers is unset
	defaultMaxWorkers = 8
	// defaultSkillTimeout is used when skills.timeout is unset
	defaultSkillTimeout = "60s"
	// defaultOutputDir is used when output.dir is unset
	defaultOutputDir = "output"
)

// Config represents the complete application configuration.
type Config struct {
	Environment EnvironmentConfig `yaml:"environment"`
	Review      ReviewConfig      `yaml:"review"`
	Skills      SkillsConfig      `yaml:"skills"`
	Output      OutputConfig      `yaml:"output"`
	Dashboard   DashboardConfig   `yaml:"dashboard"`
	Storage     StorageConfig     `yaml:"storage"`
}

// EnvironmentConfig defines the environment settings.
type EnvironmentConfig struct {
	LogLevel string `yaml:"log_level"` // debug | info | warn | error
}

// ReviewConfig defines scoring weights and analysis concurrency.
type ReviewConfig struct {
	Weights    review.Weights `yaml:"weights"`
	MaxWorkers int            `yaml:"max_workers"`
}

// SkillsConfig defines how the market data skill scripts are invoked.
type SkillsConfig struct {
	Interpreter string `yaml:"interpreter"` // e.g. python3
	Dir         string `yaml:"dir"`
	Timeout     string `yaml:"timeout"` // duration string
}

// OutputConfig defines where and in which forms reports are written.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Terminal bool   `yaml:"terminal"`
	Files    bool   `yaml:"files"`
	Color    bool   `yaml:"color"`
}

// DashboardConfig defines the optional HTTP dashboard.
type DashboardConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"` // e.g. "127.0.0.1:9847"
}

// StorageConfig defines storage settings for review run history.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// Load reads and parses the configuration file from the specified path.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- configPath is a user-provided config file path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var config Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Default returns a configuration usable without a config file.
func Default() *Config {
	c := &Config{
		Environment: EnvironmentConfig{LogLevel: "info"},
		Review:      ReviewConfig{Weights: review.DefaultWeights},
		Skills:      SkillsConfig{Interpreter: "python3", Dir: "skills"},
		Output:      OutputConfig{Terminal: true, Files: true, Color: true},
		Storage:     StorageConfig{Path: "data/reviews.json"},
	}
	c.normalize()
	return c
}

// Validate checks that all configuration values are valid and consistent.
func (c *Config) Validate() error {
	c.normalize()

	switch c.Environment.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("environment.log_level must be one of debug, info, warn, error")
	}

	if err := c.Review.Weights.Validate(); err != nil {
		return fmt.Errorf("review.weights: %w", err)
	}
	if c.Review.MaxWorkers <= 0 {
		return fmt.Errorf("review.max_workers must be > 0")
	}

	if c.Skills.Interpreter == "" {
		return fmt.Errorf("skills.interpreter is required")
	}
	if c.Skills.Dir == "" {
		return fmt.Errorf("skills.dir is required")
	}
	if d, err := time.ParseDuration(c.Skills.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("skills.timeout must be a positive duration")
	}

	if c.Output.Files && c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required when output.files is enabled")
	}

	if c.Dashboard.Enabled && c.Dashboard.Addr == "" {
		return fmt.Errorf("dashboard.addr is required when dashboard.enabled")
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}

	return nil
}

// SkillTimeout returns the configured skill timeout duration.
func (c *Config) SkillTimeout() time.Duration {
	d, err := time.ParseDuration(c.Skills.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second // default
	}
	return d
}

// normalize fills defaults for fields the file may leave unset.
func (c *Config) normalize() {
	if c.Environment.LogLevel == "" {
		c.Environment.LogLevel = "info"
	}
	if c.Review.Weights == (review.Weights{}) {
		c.Review.Weights = review.DefaultWeights
	}
	if c.Review.MaxWorkers == 0 {
		c.Review.MaxWorkers = defaultMaxWorkers
	}
	if c.Skills.Timeout == "" {
		c.Skills.Timeout = defaultSkillTimeout
	}
	if c.Output.Dir == "" {
		c.Output.Dir = defaultOutputDir
	}
}
