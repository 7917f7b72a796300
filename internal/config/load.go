package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lgbarn/pgn-tree-go/internal/errors"
)

// EnvPrefix prefixes environment overrides, as in PGNTREE_EXPORT_COLUMNS.
const EnvPrefix = "PGNTREE"

// SetDefaults registers every key with its default so that environment
// variables and bound flags are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := NewConfig()
	v.SetDefault("export.columns", d.Export.Columns)
	v.SetDefault("export.headers", d.Export.Headers)
	v.SetDefault("export.comments", d.Export.Comments)
	v.SetDefault("export.variations", d.Export.Variations)
	v.SetDefault("parse.strict", d.Parse.Strict)
	v.SetDefault("index.db", d.Index.DBPath)
	v.SetDefault("index.jobs", d.Index.Jobs)
	v.SetDefault("index.watch", d.Index.Watch)
	v.SetDefault("index.debounce", d.Index.Debounce)
	v.SetDefault("index.metrics_addr", d.Index.MetricsAddr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
}

// Load builds a Config from defaults, the file at path (skipped when path is
// empty), the environment and whatever flags are bound to v.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	cfg := NewConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %v: %w", err, errors.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
