package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/gridlife/internal/grid"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Grid given on the command line. Unused when PatternPath is set.
	Width    int
	Height   int
	RowTexts []string
	Rows     []grid.Row

	// Generations is the number of steps to run; 0 runs until interrupted.
	Generations int
	Interval    time.Duration

	PatternPath string
	PatternName string
	Verify      bool

	PublishURL   string
	PublishEvent string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// Bounded reports whether the run stops after a fixed number of generations.
func (c *Config) Bounded() bool {
	return c.Generations > 0
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PatternPath == "" {
		if err := grid.CheckDimensions(cfg.Width, cfg.Height); err != nil {
			return nil, err
		}
		if len(cfg.Rows) != cfg.Height {
			return nil, fmt.Errorf("%w: got %d rows for height %d", grid.ErrRowCount, len(cfg.Rows), cfg.Height)
		}
		if cfg.Verify {
			return nil, errors.New("-verify requires -pattern")
		}
	}
	if cfg.Generations < 0 {
		return nil, fmt.Errorf("generations must not be negative, got %d", cfg.Generations)
	}
	if cfg.Interval < 0 {
		return nil, fmt.Errorf("interval must not be negative, got %s", cfg.Interval)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}

	return &cfg, nil
}
