package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/veracitylab/veracity/pkg/formatting"
)

const (
	EnvStorePath            = "VERACITY_STORE_PATH"
	EnvDocumentsMaxFileSize = "VERACITY_DOCUMENTS_MAX_FILE_SIZE"
)

// StoreConfig locates the requirement store file.
type StoreConfig struct {
	Path string `toml:"path"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *StoreConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *StoreConfig) Merge(overlay *StoreConfig) {
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}

func (c *StoreConfig) loadDefaults() {
	if c.Path == "" {
		c.Path = "requirements.yaml"
	}
}

func (c *StoreConfig) loadEnv() {
	if v := os.Getenv(EnvStorePath); v != "" {
		c.Path = v
	}
}

func (c *StoreConfig) validate() error {
	switch filepath.Ext(c.Path) {
	case ".yaml", ".yml", ".json":
		return nil
	}
	return fmt.Errorf("store path %q must end in .yaml, .yml, or .json", c.Path)
}

// DocumentsConfig bounds document loading.
type DocumentsConfig struct {
	MaxFileSize string `toml:"max_file_size"`
}

// MaxFileSizeBytes returns MaxFileSize in bytes.
func (c *DocumentsConfig) MaxFileSizeBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxFileSize)
	return n
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *DocumentsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *DocumentsConfig) Merge(overlay *DocumentsConfig) {
	if overlay.MaxFileSize != "" {
		c.MaxFileSize = overlay.MaxFileSize
	}
}

func (c *DocumentsConfig) loadDefaults() {
	if c.MaxFileSize == "" {
		c.MaxFileSize = "50MB"
	}
}

func (c *DocumentsConfig) loadEnv() {
	if v := os.Getenv(EnvDocumentsMaxFileSize); v != "" {
		c.MaxFileSize = v
	}
}

func (c *DocumentsConfig) validate() error {
	if _, err := formatting.ParseBytes(c.MaxFileSize); err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}
	return nil
}
