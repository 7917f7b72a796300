package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgbarn/pgn-tree-go/internal/index"
)

func (a *app) indexCmd() *cobra.Command {
	var force, list bool
	cmd := &cobra.Command{
		Use:   "index [FILE...]",
		Short: "Record the byte offset and tag pairs of every game",
		Long: `Scan each FILE into the offset index so that show can seek straight to
a game. Files whose size and modification time are unchanged are skipped
unless --force is given. With --watch the command keeps running and
re-indexes files as they change.`,
		Annotations: map[string]string{
			"index.db":           "db",
			"index.jobs":         "jobs",
			"index.watch":        "watch",
			"index.debounce":     "debounce",
			"index.metrics_addr": "metrics-addr",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return a.runIndexList(cmd)
			}
			if len(args) == 0 {
				return fmt.Errorf("index needs at least one file")
			}
			return a.runIndex(cmd, args, force)
		},
	}

	f := cmd.Flags()
	f.String("db", "pgn-tree.db", "index database file")
	f.IntP("jobs", "j", 0, "files scanned at once (default: number of CPUs)")
	f.Bool("watch", false, "keep running and re-index files when they change")
	f.Duration("debounce", 500*time.Millisecond, "quiet period before a changed file is re-indexed")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	f.BoolVar(&force, "force", false, "re-index files even when unchanged")
	f.BoolVar(&list, "list", false, "list the indexed files and exit")
	return cmd
}

func (a *app) runIndex(cmd *cobra.Command, paths []string, force bool) error {
	cfg := a.cfg.Index
	store, err := index.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		shutdown := a.serveMetrics(cfg.MetricsAddr)
		defer shutdown()
	}

	ix := index.NewIndexer(store,
		index.WithLogger(a.logger),
		index.WithMetrics(a.metrics),
		index.WithForce(force),
	)
	infos, err := ix.IndexFiles(ctx, paths, cfg.Jobs)
	if err != nil {
		return err
	}
	if err := printFileInfos(cmd, infos); err != nil {
		return err
	}

	if !cfg.Watch {
		return nil
	}
	a.logger.Info("watching for changes", zap.Strings("files", paths), zap.Duration("debounce", cfg.Debounce))
	return ix.Watch(ctx, paths, cfg.Debounce)
}

func (a *app) runIndexList(cmd *cobra.Command) error {
	if _, err := os.Stat(a.cfg.Index.DBPath); err != nil {
		return err
	}
	store, err := index.Open(a.cfg.Index.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	infos, err := store.Files()
	if err != nil {
		return err
	}
	return printFileInfos(cmd, infos)
}

func printFileInfos(cmd *cobra.Command, infos []index.FileInfo) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d games\t%s\t%s\n",
			info.Path, info.Games, bytesize.New(float64(info.Bytes)), info.Compression)
	}
	return tw.Flush()
}

// serveMetrics starts the Prometheus endpoint in the background and returns
// a function that stops it.
func (a *app) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
