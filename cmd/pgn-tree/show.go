package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgbarn/pgn-tree-go/internal/archive"
	"github.com/lgbarn/pgn-tree-go/internal/errors"
	"github.com/lgbarn/pgn-tree-go/internal/game"
	"github.com/lgbarn/pgn-tree-go/internal/index"
	"github.com/lgbarn/pgn-tree-go/internal/output"
	"github.com/lgbarn/pgn-tree-go/internal/parser"
	"github.com/lgbarn/pgn-tree-go/internal/worker"
)

func (a *app) showCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show FILE N",
		Short: "Print the N-th game of FILE",
		Long: `Print game N (counting from 1) of FILE. The offset comes from the index
when FILE is indexed and unchanged, and from a header scan otherwise.
Compressed archives cannot be seeked and are read up to the game.`,
		Args: cobra.ExactArgs(2),
		Annotations: map[string]string{
			"index.db":       "db",
			"export.columns": "columns",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("game number %q: must be a positive integer", args[1])
			}
			if format != "pgn" && format != "json" {
				return errors.Wrapf(errors.ErrInvalidConfig, "unknown format %q", format)
			}
			g, err := a.loadGame(args[0], n)
			if err != nil {
				return err
			}
			gw := output.NewGameWriter(format, cmd.OutOrStdout(), &a.cfg.Export)
			if err := gw.WriteGame(g); err != nil {
				return err
			}
			return gw.Close()
		},
	}

	f := cmd.Flags()
	f.String("db", "pgn-tree.db", "index database file")
	f.Int("columns", 80, "wrap movetext at this width, 0 for no wrapping")
	f.StringVar(&format, "format", "pgn", "output format: pgn or json")
	return cmd
}

// loadGame returns game n of path.
func (a *app) loadGame(path string, n int) (*game.Game, error) {
	f, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	opts := a.parserOptions(path)
	src, ok := f.Seekable()
	if !ok {
		return readNth(parser.NewParser(f, opts...), path, n)
	}

	off, err := a.indexedOffset(f, n)
	if err != nil {
		a.logger.Debug("falling back to a scan", zap.String("file", path), zap.Error(err))
		if off, err = scanOffset(f, path, n); err != nil {
			return nil, err
		}
	}
	g, err := worker.ParseAt(src, off, opts...)
	if err != nil {
		return nil, &errors.GameError{Err: err, GameNum: n, Offset: off, File: path}
	}
	return g, nil
}

// indexedOffset looks game n up in the index. It fails when there is no
// index, the file is not in it or has changed since it was indexed.
func (a *app) indexedOffset(f *archive.File, n int) (int64, error) {
	db := a.cfg.Index.DBPath
	if _, err := os.Stat(db); err != nil {
		return 0, errors.Wrapf(errors.ErrIndexNotFound, "no index at %s", db)
	}
	store, err := index.Open(db)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	key := index.Key(f.Path)
	info, err := store.Info(key)
	if err != nil {
		return 0, err
	}
	if !info.Current(f.Size, f.ModTime) {
		return 0, errors.Wrapf(errors.ErrIndexNotFound, "%s changed since it was indexed", key)
	}
	e, err := store.Entry(key, n)
	if err != nil {
		return 0, err
	}
	return e.Offset, nil
}

// scanOffset finds the offset of game n with a header scan from the start
// of f. Games are counted the way the indexer counts them.
func scanOffset(f *archive.File, path string, n int) (int64, error) {
	s := parser.ScanHeaders(f)
	for i := 1; s.Next(); i++ {
		if i == n {
			return s.Offset(), nil
		}
	}
	if err := s.Err(); err != nil {
		return 0, errors.Wrapf(err, "scan %s", path)
	}
	return 0, fmt.Errorf("%s has fewer than %d games: %w", path, n, errors.ErrNoGame)
}

func readNth(p *parser.Parser, path string, n int) (*game.Game, error) {
	for i := 1; ; i++ {
		g, err := p.ReadGame()
		if err != nil {
			return nil, &errors.GameError{Err: err, GameNum: i, Offset: -1, File: path}
		}
		if g == nil {
			return nil, fmt.Errorf("%s has fewer than %d games: %w", path, n, errors.ErrNoGame)
		}
		if i == n {
			return g, nil
		}
	}
}
