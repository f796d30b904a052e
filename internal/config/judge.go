package config

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

const (
	EnvJudgeBaseURL = "VERACITY_JUDGE_BASE_URL"
	EnvJudgeModel   = "VERACITY_JUDGE_MODEL"
	EnvJudgeTimeout = "VERACITY_JUDGE_TIMEOUT"
)

// JudgeConfig holds the semantic judge endpoint parameters.
type JudgeConfig struct {
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *JudgeConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *JudgeConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *JudgeConfig) Merge(overlay *JudgeConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *JudgeConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434"
	}
	if c.Model == "" {
		c.Model = "mistral"
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
}

func (c *JudgeConfig) loadEnv() {
	if v := os.Getenv(EnvJudgeBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvJudgeModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvJudgeTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *JudgeConfig) validate() error {
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
