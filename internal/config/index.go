package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/lgbarn/pgn-tree-go/internal/errors"
)

// IndexConfig holds settings for building the offset index.
type IndexConfig struct {
	// DBPath is the bbolt file holding the index.
	DBPath string `mapstructure:"db"`

	// Jobs bounds how many archives are scanned at once.
	Jobs int `mapstructure:"jobs"`

	// Watch keeps running and re-indexes files when they change.
	Watch bool `mapstructure:"watch"`

	// Debounce is how long a file must stay quiet before it is re-indexed.
	Debounce time.Duration `mapstructure:"debounce"`

	// MetricsAddr serves Prometheus metrics when not empty.
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// NewIndexConfig creates an IndexConfig with default values.
func NewIndexConfig() *IndexConfig {
	return &IndexConfig{
		DBPath:   "pgn-tree.db",
		Jobs:     runtime.NumCPU(),
		Debounce: 500 * time.Millisecond,
	}
}

// Validate checks that the index configuration is usable.
func (i *IndexConfig) Validate() error {
	if i.DBPath == "" {
		return fmt.Errorf("index database path is empty: %w", errors.ErrInvalidConfig)
	}
	if i.Jobs < 1 {
		return fmt.Errorf("jobs %d < 1: %w", i.Jobs, errors.ErrInvalidConfig)
	}
	if i.Debounce < 0 {
		return fmt.Errorf("debounce %v is negative: %w", i.Debounce, errors.ErrInvalidConfig)
	}
	return nil
}
