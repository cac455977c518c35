// Package config loads the YAML engine configuration and assembles engine
// components from it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robotaxa/robotaxa/pkg/robotaxa/internalerr"
)

// Classifier modes.
const (
	ModeRules = "rules"
	ModeModel = "model"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config is the engine configuration document.
type Config struct {
	Taxonomy   TaxonomyConfig   `yaml:"taxonomy"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Model      ModelConfig      `yaml:"model"`
	Cluster    ClusterConfig    `yaml:"cluster"`
	Store      StoreConfig      `yaml:"store"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// TaxonomyConfig points at the taxonomy markdown document. An empty path
// uses the embedded default scheme.
type TaxonomyConfig struct {
	Path string `yaml:"path"`
}

// ClassifierConfig selects the classifier implementation.
type ClassifierConfig struct {
	Mode string `yaml:"mode"`
}

// ModelConfig configures the remote model endpoint. Values support ${VAR}
// environment expansion, so keys stay out of the file.
type ModelConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Name    string `yaml:"name"`
}

// ClusterConfig sets the partitioning parameters.
type ClusterConfig struct {
	K    int   `yaml:"k"`
	Seed int64 `yaml:"seed"`
}

// StoreConfig selects and locates the run store.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LoggingConfig sets the logger environment and level.
type LoggingConfig struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given: rule-based
// classification against the embedded taxonomy, k=5 seed=42 clustering, an
// in-memory store, console logging.
func Default() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads, expands and validates a configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.expandEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyDefaults fills unset fields with the documented defaults.
func (c *Config) ApplyDefaults() {
	if c.Classifier.Mode == "" {
		c.Classifier.Mode = ModeRules
	}
	if c.Cluster.K == 0 {
		c.Cluster.K = 5
	}
	if c.Cluster.Seed == 0 {
		c.Cluster.Seed = 42
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
}

// Validate rejects configurations the loader cannot assemble.
func (c Config) Validate() error {
	switch c.Classifier.Mode {
	case ModeRules, ModeModel:
	default:
		return fmt.Errorf("unknown classifier mode %q: %w", c.Classifier.Mode, internalerr.ErrInvalidConfig)
	}
	if c.Classifier.Mode == ModeModel {
		if c.Model.APIKey == "" {
			return fmt.Errorf("classifier mode %q requires model.api_key: %w", ModeModel, internalerr.ErrInvalidConfig)
		}
		if c.Model.Name == "" {
			return fmt.Errorf("classifier mode %q requires model.name: %w", ModeModel, internalerr.ErrInvalidConfig)
		}
	}
	if c.Cluster.K < 1 {
		return fmt.Errorf("cluster.k must be at least 1, got %d: %w", c.Cluster.K, internalerr.ErrInvalidConfig)
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store driver %q requires store.path: %w", DriverSQLite, internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown store driver %q: %w", c.Store.Driver, internalerr.ErrInvalidConfig)
	}
	return nil
}

// expandEnv substitutes ${VAR} references in the string fields that commonly
// carry secrets or host-specific paths.
func (c *Config) expandEnv() {
	c.Taxonomy.Path = os.ExpandEnv(c.Taxonomy.Path)
	c.Model.BaseURL = os.ExpandEnv(c.Model.BaseURL)
	c.Model.APIKey = os.ExpandEnv(c.Model.APIKey)
	c.Model.Name = os.ExpandEnv(c.Model.Name)
	c.Store.Path = os.ExpandEnv(c.Store.Path)
}
