package config

import (
	"fmt"

	"github.com/lgbarn/pgn-tree-go/internal/errors"
)

// DefaultColumns is the line width of exported movetext.
const DefaultColumns = 80

// ExportConfig holds settings for PGN export.
type ExportConfig struct {
	// Columns is the maximum line width; 0 means lines are never wrapped.
	Columns int `mapstructure:"columns"`

	// Headers controls whether header tags are written
	Headers bool `mapstructure:"headers"`

	// Comments controls whether comments and NAGs are written
	Comments bool `mapstructure:"comments"`

	// Variations controls whether side variations are written
	Variations bool `mapstructure:"variations"`
}

// NewExportConfig creates an ExportConfig that writes everything.
func NewExportConfig() *ExportConfig {
	return &ExportConfig{
		Columns:    DefaultColumns,
		Headers:    true,
		Comments:   true,
		Variations: true,
	}
}

// Validate checks that the export configuration is usable.
func (e *ExportConfig) Validate() error {
	if e.Columns < 0 {
		return fmt.Errorf("columns %d is negative: %w", e.Columns, errors.ErrInvalidConfig)
	}
	return nil
}
