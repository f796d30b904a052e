// Package config loads veracity configuration from TOML files with
// environment overlays. Finalization runs in three phases per section:
// defaults, environment overrides, then validation.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvVeracityEnv     = "VERACITY_ENV"
	EnvVeracityVersion = "VERACITY_VERSION"
)

// Config is the root configuration for veracity.
type Config struct {
	Store     StoreConfig     `toml:"store"`
	Documents DocumentsConfig `toml:"documents"`
	Evaluator EvaluatorConfig `toml:"evaluator"`
	Judge     JudgeConfig     `toml:"judge"`
	Render    RenderConfig    `toml:"render"`
	Version   string          `toml:"version"`
}

// Env returns the VERACITY_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvVeracityEnv); env != "" {
		return env
	}
	return "local"
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Store.Merge(&overlay.Store)
	c.Documents.Merge(&overlay.Documents)
	c.Evaluator.Merge(&overlay.Evaluator)
	c.Judge.Merge(&overlay.Judge)
	c.Render.Merge(&overlay.Render)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.Store.Finalize(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Documents.Finalize(); err != nil {
		return fmt.Errorf("documents: %w", err)
	}
	if err := c.Evaluator.Finalize(); err != nil {
		return fmt.Errorf("evaluator: %w", err)
	}
	if err := c.Judge.Finalize(); err != nil {
		return fmt.Errorf("judge: %w", err)
	}
	if err := c.Render.Finalize(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvVeracityVersion); v != "" {
		c.Version = v
	}
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvVeracityEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
