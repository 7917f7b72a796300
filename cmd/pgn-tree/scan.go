package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	"github.com/lgbarn/pgn-tree-go/internal/errors"
	"github.com/lgbarn/pgn-tree-go/internal/matching"
	"github.com/lgbarn/pgn-tree-go/internal/output"
	"github.com/lgbarn/pgn-tree-go/internal/parser"
)

func (a *app) scanCmd() *cobra.Command {
	var (
		asJSON bool
		where  []string
	)
	cmd := &cobra.Command{
		Use:   "scan FILE",
		Short: "List the byte offset and players of every game",
		Long: `Scan FILE without reading movetext and print one line per game:
the byte offset of its first tag pair, the players and the result.
Offsets in compressed archives refer to the decompressed stream.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := matching.NewGameFilterFrom(where)
			if err != nil {
				return err
			}
			if !filter.HeadersOnly() {
				return errors.Wrap(errors.ErrInvalidConfig, "scan filters on tag pairs only")
			}
			return a.runScan(cmd, args[0], filter.Tags, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per game")
	cmd.Flags().StringArrayVar(&where, "where", nil, "only list games matching a criterion such as Event~open (repeatable)")
	return cmd
}

func (a *app) runScan(cmd *cobra.Command, path string, tags *matching.TagMatcher, asJSON bool) error {
	r, closeFn, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer closeFn()

	w := bufio.NewWriter(cmd.OutOrStdout())
	s := parser.ScanHeaders(r)
	var n, listed int
	for s.Next() {
		n++
		h := s.Headers()
		if !tags.MatchHeaders(h) {
			continue
		}
		listed++
		if asJSON {
			err = output.WriteHeadersJSON(w, s.Offset(), h)
		} else {
			_, err = fmt.Fprintf(w, "%d\t%s - %s (%s)\n", s.Offset(),
				h.Value(chess.WhiteTag), h.Value(chess.BlackTag), h.Value(chess.ResultTag))
		}
		if err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	a.logger.Debug("scan complete", zap.String("file", path), zap.Int("games", n), zap.Int("listed", listed))
	return w.Flush()
}
