package config

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithColumns sets the export line width.
func (b *ConfigBuilder) WithColumns(columns int) *ConfigBuilder {
	b.cfg.Export.Columns = columns
	return b
}

// KeepHeaders controls whether headers are exported.
func (b *ConfigBuilder) KeepHeaders(keep bool) *ConfigBuilder {
	b.cfg.Export.Headers = keep
	return b
}

// KeepComments controls whether comments are exported.
func (b *ConfigBuilder) KeepComments(keep bool) *ConfigBuilder {
	b.cfg.Export.Comments = keep
	return b
}

// KeepVariations controls whether variations are exported.
func (b *ConfigBuilder) KeepVariations(keep bool) *ConfigBuilder {
	b.cfg.Export.Variations = keep
	return b
}

// WithStrict enables fail-fast parsing.
func (b *ConfigBuilder) WithStrict(strict bool) *ConfigBuilder {
	b.cfg.Parse.Strict = strict
	return b
}

// WithIndexDB sets the index database path.
func (b *ConfigBuilder) WithIndexDB(path string) *ConfigBuilder {
	b.cfg.Index.DBPath = path
	return b
}

// WithJobs sets how many files are indexed concurrently.
func (b *ConfigBuilder) WithJobs(jobs int) *ConfigBuilder {
	b.cfg.Index.Jobs = jobs
	return b
}

// WithLogLevel sets the log level.
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.cfg.Log.Level = level
	return b
}
