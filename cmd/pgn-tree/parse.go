package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgbarn/pgn-tree-go/internal/archive"
	"github.com/lgbarn/pgn-tree-go/internal/errors"
	"github.com/lgbarn/pgn-tree-go/internal/game"
	"github.com/lgbarn/pgn-tree-go/internal/matching"
	"github.com/lgbarn/pgn-tree-go/internal/output"
	"github.com/lgbarn/pgn-tree-go/internal/parser"
	"github.com/lgbarn/pgn-tree-go/internal/worker"
)

type parseOptions struct {
	noHeaders    bool
	noComments   bool
	noVariations bool
	output       string
	format       string
	where        []string
	jobs         int
}

func (a *app) parseCmd() *cobra.Command {
	var opts parseOptions
	cmd := &cobra.Command{
		Use:   "parse [FILE...]",
		Short: "Parse games and write them out as normalized PGN or JSON",
		Long: `Parse every game in the given files (standard input when none or "-")
and write it back out. Malformed movetext is skipped and reported unless
--strict is set, in which case the first error stops the run.`,
		Annotations: map[string]string{
			"export.columns": "columns",
			"parse.strict":   "strict",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.Int("columns", 80, "wrap movetext at this width, 0 for no wrapping")
	f.Bool("strict", false, "stop at the first malformed token")
	f.BoolVar(&opts.noHeaders, "no-headers", false, "omit the tag pairs")
	f.BoolVar(&opts.noComments, "no-comments", false, "omit comments")
	f.BoolVar(&opts.noVariations, "no-variations", false, "omit side variations")
	f.StringVarP(&opts.output, "output", "o", "", "write to this file instead of standard output")
	f.StringVar(&opts.format, "format", "pgn", "output format: pgn or json")
	f.StringArrayVar(&opts.where, "where", nil, "only keep games matching a criterion such as White=Tal (repeatable)")
	f.IntVarP(&opts.jobs, "jobs", "j", 1, "parse uncompressed files with this many workers; every game must open with an Event tag")
	return cmd
}

func (a *app) runParse(cmd *cobra.Command, args []string, opts parseOptions) error {
	if opts.format != "pgn" && opts.format != "json" {
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown format %q", opts.format)
	}
	filter, err := matching.NewGameFilterFrom(opts.where)
	if err != nil {
		return err
	}

	exp := a.cfg.Export
	if opts.noHeaders {
		exp.Headers = false
	}
	if opts.noComments {
		exp.Comments = false
	}
	if opts.noVariations {
		exp.Variations = false
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		out, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	}
	gw := output.NewGameWriter(opts.format, w, &exp)

	if len(args) == 0 {
		args = []string{"-"}
	}
	var total, written, recovered int
	for _, path := range args {
		n, kept, errs, err := a.parseFile(cmd, path, filter, opts.jobs, gw)
		total += n
		written += kept
		recovered += errs
		if err != nil {
			return err
		}
	}
	if err := gw.Close(); err != nil {
		return err
	}

	a.logger.Info("parse complete",
		zap.Int("games", total),
		zap.Int("written", written),
		zap.Int("recovered_errors", recovered),
	)
	return nil
}

// parseFile streams the games of path into gw. It returns the number of
// games read, the number written and the number of recovered errors.
func (a *app) parseFile(cmd *cobra.Command, path string, filter *matching.GameFilter, jobs int, gw output.GameWriter) (n, kept, recovered int, err error) {
	r, closeFn, err := openInput(cmd, path)
	if err != nil {
		return 0, 0, 0, err
	}
	defer closeFn()

	if f, ok := r.(*archive.File); ok && jobs > 1 && !a.cfg.Parse.Strict {
		if src, ok := f.Seekable(); ok {
			return a.parseParallel(cmd.Context(), f, src, filter, jobs, gw)
		}
	}

	p := parser.NewParser(r, a.parserOptions(path)...)
	for {
		g, err := a.readGame(p)
		if err != nil {
			return n, kept, recovered, &errors.GameError{Err: err, GameNum: n + 1, Offset: -1, File: path}
		}
		if g == nil {
			return n, kept, recovered, nil
		}
		n++
		recovered += a.reportErrors(path, n, g)

		if !filter.Match(g) {
			continue
		}
		if err := gw.WriteGame(g); err != nil {
			return n, kept, recovered, err
		}
		kept++
	}
}

// parseParallel finds the game offsets of f with a scan and parses the
// games on jobs workers. Output keeps the order of the file.
func (a *app) parseParallel(ctx context.Context, f *archive.File, src io.ReaderAt, filter *matching.GameFilter, jobs int, gw output.GameWriter) (n, kept, recovered int, err error) {
	var offsets []int64
	s := parser.ScanOffsets(f)
	for s.Next() {
		offsets = append(offsets, s.Offset())
	}
	if err := s.Err(); err != nil {
		return 0, 0, 0, errors.Wrapf(err, "scan %s", f.Path)
	}

	var keep worker.Filter
	if filter.HasCriteria() {
		keep = matching.Keep(filter)
	}
	results, err := worker.LoadAll(ctx, src, offsets, jobs, keep, a.parserOptions(f.Path)...)
	if err != nil {
		var gerr *errors.GameError
		if errors.As(err, &gerr) {
			gerr.File = f.Path
		}
		return len(offsets), 0, 0, err
	}
	a.logger.Debug("parsed in parallel", zap.String("file", f.Path), zap.Int("offsets", len(offsets)), zap.Int("jobs", jobs))

	for _, res := range results {
		recovered += a.reportErrors(f.Path, res.Index+1, res.Game)
		if !res.Matched {
			continue
		}
		if err := gw.WriteGame(res.Game); err != nil {
			return len(offsets), kept, recovered, err
		}
		kept++
	}
	return len(offsets), kept, recovered, nil
}

// reportErrors logs the movetext errors the parser skipped in game n and
// returns how many there were.
func (a *app) reportErrors(path string, n int, g *game.Game) int {
	for _, e := range g.Errors {
		a.logger.Warn("skipped malformed movetext",
			zap.String("file", path),
			zap.Int("game", n),
			zap.Error(e),
		)
	}
	return len(g.Errors)
}

func (a *app) readGame(p *parser.Parser) (*game.Game, error) {
	if !a.cfg.Parse.Strict {
		return p.ReadGame()
	}
	b := game.NewStrictBuilder(game.WithLogger(a.logger))
	_, found, err := p.ReadGameWith(b)
	if err != nil || !found {
		return nil, err
	}
	return b.Game(), nil
}
