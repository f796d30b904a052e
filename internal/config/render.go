package config

import (
	"fmt"
	"os"

	"github.com/veracitylab/veracity/internal/render"
)

const (
	EnvRenderStyle  = "VERACITY_RENDER_STYLE"
	EnvRenderFormat = "VERACITY_RENDER_FORMAT"
)

// RenderConfig sets the default output presentation. Per-invocation flags
// still override these.
type RenderConfig struct {
	Style  string `toml:"style"`
	Format string `toml:"format"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *RenderConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *RenderConfig) Merge(overlay *RenderConfig) {
	if overlay.Style != "" {
		c.Style = overlay.Style
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
}

func (c *RenderConfig) loadDefaults() {
	if c.Style == "" {
		c.Style = string(render.StyleText)
	}
	if c.Format == "" {
		c.Format = string(render.FormatJSON)
	}
}

func (c *RenderConfig) loadEnv() {
	if v := os.Getenv(EnvRenderStyle); v != "" {
		c.Style = v
	}
	if v := os.Getenv(EnvRenderFormat); v != "" {
		c.Format = v
	}
}

func (c *RenderConfig) validate() error {
	if _, err := render.ParseStyle(c.Style); err != nil {
		return fmt.Errorf("invalid style: %w", err)
	}
	if _, err := render.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	return nil
}
