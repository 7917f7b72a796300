// Package config provides configuration for pgn-tree. Each concern has its
// own struct with defaults from a New*Config constructor; Load layers a
// config file and PGNTREE_* environment variables over them.
package config

import (
	"fmt"

	"github.com/lgbarn/pgn-tree-go/internal/errors"
)

// Config holds all program configuration.
type Config struct {
	Export ExportConfig `mapstructure:"export"`
	Parse  ParseConfig  `mapstructure:"parse"`
	Index  IndexConfig  `mapstructure:"index"`
	Log    LogConfig    `mapstructure:"log"`
}

// ParseConfig holds settings for reading PGN.
type ParseConfig struct {
	// Strict stops at the first malformed token instead of recording it.
	Strict bool `mapstructure:"strict"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn or error.
	Level string `mapstructure:"level"`

	// Development switches to the human-readable console encoder.
	Development bool `mapstructure:"development"`
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Export: *NewExportConfig(),
		Index:  *NewIndexConfig(),
		Log:    LogConfig{Level: "info"},
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Export.Validate(); err != nil {
		return err
	}
	if err := c.Index.Validate(); err != nil {
		return err
	}
	if !logLevels[c.Log.Level] {
		return fmt.Errorf("log level %q: %w", c.Log.Level, errors.ErrInvalidConfig)
	}
	return nil
}
