package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/veracitylab/veracity/internal/evaluation"
)

const (
	EnvEvaluatorPartialRatio = "VERACITY_EVALUATOR_PARTIAL_RATIO"
	EnvEvaluatorFullScore    = "VERACITY_EVALUATOR_FULL_SCORE"
	EnvEvaluatorPartialScore = "VERACITY_EVALUATOR_PARTIAL_SCORE"
	EnvEvaluatorWorkers      = "VERACITY_EVALUATOR_WORKERS"
	EnvEvaluatorSemantic     = "VERACITY_EVALUATOR_SEMANTIC"
)

// EvaluatorConfig tunes the evaluation algorithm. Threshold zero values
// mean "use the standard constant", so a partially specified [evaluator]
// table keeps the remaining defaults.
type EvaluatorConfig struct {
	PartialRatio float64 `toml:"partial_ratio"`
	FullScore    float64 `toml:"full_score"`
	PartialScore float64 `toml:"partial_score"`
	Workers      int     `toml:"workers"`
	Semantic     bool    `toml:"semantic"`
}

// Thresholds materializes the configured evaluation thresholds.
func (c *EvaluatorConfig) Thresholds() evaluation.Thresholds {
	return evaluation.Thresholds{
		PartialRatio: c.PartialRatio,
		FullScore:    c.FullScore,
		PartialScore: c.PartialScore,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EvaluatorConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EvaluatorConfig) Merge(overlay *EvaluatorConfig) {
	if overlay.PartialRatio != 0 {
		c.PartialRatio = overlay.PartialRatio
	}
	if overlay.FullScore != 0 {
		c.FullScore = overlay.FullScore
	}
	if overlay.PartialScore != 0 {
		c.PartialScore = overlay.PartialScore
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.Semantic {
		c.Semantic = true
	}
}

func (c *EvaluatorConfig) loadDefaults() {
	defaults := evaluation.DefaultThresholds()
	if c.PartialRatio == 0 {
		c.PartialRatio = defaults.PartialRatio
	}
	if c.FullScore == 0 {
		c.FullScore = defaults.FullScore
	}
	if c.PartialScore == 0 {
		c.PartialScore = defaults.PartialScore
	}
}

func (c *EvaluatorConfig) loadEnv() {
	if v := os.Getenv(EnvEvaluatorPartialRatio); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.PartialRatio = f
		}
	}
	if v := os.Getenv(EnvEvaluatorFullScore); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.FullScore = f
		}
	}
	if v := os.Getenv(EnvEvaluatorPartialScore); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.PartialScore = f
		}
	}
	if v := os.Getenv(EnvEvaluatorWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvEvaluatorSemantic); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Semantic = b
		}
	}
}

func (c *EvaluatorConfig) validate() error {
	for name, v := range map[string]float64{
		"partial_ratio": c.PartialRatio,
		"full_score":    c.FullScore,
		"partial_score": c.PartialScore,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %v", name, v)
		}
	}
	if c.PartialScore > c.FullScore {
		return fmt.Errorf("partial_score %v exceeds full_score %v", c.PartialScore, c.FullScore)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}
