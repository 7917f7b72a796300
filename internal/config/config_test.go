package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	pgnerrors "github.com/lgbarn/pgn-tree-go/internal/errors"
)

// TestExportConfig_Defaults verifies ExportConfig writes everything by default
func TestExportConfig_Defaults(t *testing.T) {
	cfg := NewExportConfig()

	if cfg.Columns != 80 {
		t.Errorf("Columns = %d, want 80", cfg.Columns)
	}
	if !cfg.Headers {
		t.Error("Headers should be true by default")
	}
	if !cfg.Comments {
		t.Error("Comments should be true by default")
	}
	if !cfg.Variations {
		t.Error("Variations should be true by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"unbounded columns", func(c *Config) { c.Export.Columns = 0 }, false},
		{"negative columns", func(c *Config) { c.Export.Columns = -1 }, true},
		{"no jobs", func(c *Config) { c.Index.Jobs = 0 }, true},
		{"empty db path", func(c *Config) { c.Index.DBPath = "" }, true},
		{"negative debounce", func(c *Config) { c.Index.Debounce = -time.Second }, true},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, pgnerrors.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v; want ErrInvalidConfig", err)
			}
		})
	}
}

// TestConfigBuilder verifies the builder pattern works correctly
func TestConfigBuilder(t *testing.T) {
	cfg := NewConfigBuilder().
		WithColumns(120).
		KeepComments(false).
		KeepVariations(false).
		KeepHeaders(false).
		WithStrict(true).
		WithIndexDB("games.db").
		WithJobs(3).
		WithLogLevel("debug").
		Build()

	if cfg.Export.Columns != 120 {
		t.Errorf("Columns = %d, want 120", cfg.Export.Columns)
	}
	if cfg.Export.Comments || cfg.Export.Variations || cfg.Export.Headers {
		t.Errorf("Export = %+v; want everything off", cfg.Export)
	}
	if !cfg.Parse.Strict {
		t.Error("Parse.Strict should be true")
	}
	if cfg.Index.DBPath != "games.db" || cfg.Index.Jobs != 3 {
		t.Errorf("Index = %+v", cfg.Index)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatal(err)
	}
	want := NewConfig()
	if cfg.Export != want.Export || cfg.Index != want.Index || cfg.Log != want.Log {
		t.Errorf("Load() = %+v; want %+v", cfg, want)
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pgn-tree.yaml")
	yaml := `export:
  columns: 60
  comments: false
index:
  db: /tmp/games.db
  debounce: 2s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PGNTREE_EXPORT_COLUMNS", "100")
	t.Setenv("PGNTREE_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Export.Columns != 100 {
		t.Errorf("Columns = %d; want the environment's 100", cfg.Export.Columns)
	}
	if cfg.Export.Comments {
		t.Error("Comments should be false from the file")
	}
	if !cfg.Export.Variations {
		t.Error("Variations should keep its default")
	}
	if cfg.Index.DBPath != "/tmp/games.db" {
		t.Errorf("DBPath = %q", cfg.Index.DBPath)
	}
	if cfg.Index.Debounce != 2*time.Second {
		t.Errorf("Debounce = %v; want 2s", cfg.Index.Debounce)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q; want debug", cfg.Log.Level)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}

	t.Setenv("PGNTREE_INDEX_JOBS", "0")
	if _, err := Load(viper.New(), ""); !errors.Is(err, pgnerrors.ErrInvalidConfig) {
		t.Errorf("Load() with zero jobs error = %v; want ErrInvalidConfig", err)
	}
}
