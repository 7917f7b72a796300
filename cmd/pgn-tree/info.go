package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	"github.com/lgbarn/pgn-tree-go/internal/errors"
	"github.com/lgbarn/pgn-tree-go/internal/game"
	"github.com/lgbarn/pgn-tree-go/internal/parser"
)

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Summarize the games of FILE",
		Long: `Print one line per game of FILE: its number, the players, the length of
the main line in plies, the number of skipped movetext errors and how the
final position ends the game, if it does.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInfo(cmd, args[0])
		},
	}
}

func (a *app) runInfo(cmd *cobra.Command, path string) error {
	r, closeFn, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer closeFn()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tgame\tplies\terrors\tstatus")

	p := parser.NewParser(r, a.parserOptions(path)...)
	for n := 1; ; n++ {
		g, err := p.ReadGame()
		if err != nil {
			return &errors.GameError{Err: err, GameNum: n, Offset: -1, File: path}
		}
		if g == nil {
			break
		}
		fmt.Fprintf(tw, "%d\t%s - %s\t%d\t%d\t%s\n", n,
			g.Headers.Value(chess.WhiteTag), g.Headers.Value(chess.BlackTag),
			len(g.MainLine()), len(g.Errors), terminalStatus(g))
	}
	return tw.Flush()
}

// terminalStatus names the rule that ends the game at the end of its main
// line, or "-" when play could continue.
func terminalStatus(g *game.Game) string {
	pos, err := g.End().Position()
	if err != nil {
		return "unknown"
	}
	switch {
	case pos.IsCheckmate():
		return "checkmate"
	case pos.IsStalemate():
		return "stalemate"
	case pos.IsRepetition():
		return "repetition"
	case pos.IsFiftyMoves():
		return "fifty-move"
	default:
		return "-"
	}
}
