package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lgbarn/pgn-tree-go/internal/archive"
	"github.com/lgbarn/pgn-tree-go/internal/config"
	"github.com/lgbarn/pgn-tree-go/internal/metrics"
	"github.com/lgbarn/pgn-tree-go/internal/parser"
)

// defaultConfigFile is read from the working directory when --config is
// not given.
const defaultConfigFile = "pgn-tree.yaml"

// app carries what every subcommand needs once the root command has run
// its setup.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Collector

	cfgFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	return (&app{v: viper.New()}).command()
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "pgn-tree",
		Short:         "Read, index and rewrite chess games in PGN",
		Long:          "pgn-tree parses PGN archives into game trees, re-exports them as normalized PGN or JSON, and keeps a byte-offset index for random access.",
		Version:       programVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./"+defaultConfigFile+" when present)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level with the console encoder")

	root.AddCommand(
		a.parseCmd(),
		a.scanCmd(),
		a.indexCmd(),
		a.showCmd(),
		a.infoCmd(),
	)
	return root
}

// setup binds the running command's flags into viper, loads the config
// and builds the logger. Each subcommand lists the config keys its flags
// override in its annotations.
func (a *app) setup(cmd *cobra.Command) error {
	for key, name := range cmd.Annotations {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	path := a.cfgFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	cfg, err := config.Load(a.v, path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		if a.logger, err = newLogger(cfg.Log, a.verbose); err != nil {
			return err
		}
	}
	if a.metrics == nil {
		a.metrics = metrics.NewCollector()
	}
	a.logger.Debug("configuration loaded", zap.String("file", path), zap.Any("config", cfg))
	return nil
}

func newLogger(c config.LogConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development || verbose {
		zc = zap.NewDevelopmentConfig()
	}
	level := c.Level
	if verbose {
		level = "debug"
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// parserOptions are the options every command reading name passes to the
// parser.
func (a *app) parserOptions(name string) []parser.Option {
	return []parser.Option{
		parser.WithLogger(a.logger.With(zap.String("file", name))),
		parser.WithMetrics(a.metrics),
		parser.WithFileName(name),
	}
}

// openInput opens path for reading, decompressing archives. "-" reads
// standard input.
func openInput(cmd *cobra.Command, path string) (io.Reader, func() error, error) {
	if path == "-" {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}
	f, err := archive.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
