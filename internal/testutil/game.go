// Package testutil provides shared test helpers: parsing fixtures into game
// trees, reading their main lines and writing PGN files to temporary
// directories.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lgbarn/pgn-tree-go/internal/game"
	"github.com/lgbarn/pgn-tree-go/internal/parser"
)

// SamplePGN holds three short games with distinct players, openings and
// results.
const SamplePGN = `[Event "Casual"]
[Site "London"]
[Date "1851.06.21"]
[Round "?"]
[White "Anderssen"]
[Black "Kieseritzky"]
[Result "1-0"]
[ECO "C33"]

1. e4 e5 2. f4 exf4 3. Bc4 Qh4+ 4. Kf1 b5 { the bishop is offered back } 1-0

[Event "Match"]
[Site "Reykjavik"]
[Date "1972.07.23"]
[Round "6"]
[White "Fischer"]
[Black "Spassky"]
[Result "1-0"]
[ECO "D59"]

1. c4 e6 2. Nf3 d5 3. d4 Nf6 ( 3... c5 ) 4. Nc3 Be7 1-0

[Event "Casual"]
[Site "Paris"]
[Date "1858.11.02"]
[Round "?"]
[White "Morphy"]
[Black "Duke Karl"]
[Result "1/2-1/2"]
[ECO "C41"]

1. e4 e5 2. Nf3 d6 3. d4 Bg4 1/2-1/2
`

// ParseGames parses every game in pgn.
func ParseGames(pgn string) ([]*game.Game, error) {
	return parser.NewParser(strings.NewReader(pgn)).ReadAll()
}

// MustParseGame parses a PGN string and returns the first game.
// It calls t.Fatal if parsing fails or no games are found.
func MustParseGame(t testing.TB, pgn string) *game.Game {
	t.Helper()
	return MustParseGames(t, pgn)[0]
}

// MustParseGames parses a PGN string and returns all games found.
// It calls t.Fatal if parsing fails or no games are found.
func MustParseGames(t testing.TB, pgn string) []*game.Game {
	t.Helper()
	games, err := ParseGames(pgn)
	if err != nil {
		t.Fatalf("parse test PGN: %v", err)
	}
	if len(games) == 0 {
		t.Fatalf("no games in test PGN:\n%s", pgn)
	}
	return games
}

// MainLineSAN returns the main line of g in SAN.
func MainLineSAN(g *game.Game) ([]string, error) {
	pos, err := g.Board()
	if err != nil {
		return nil, err
	}
	moves := g.MainLine()
	sans := make([]string, 0, len(moves))
	for _, m := range moves {
		sans = append(sans, pos.SAN(m))
		if err := pos.Push(m); err != nil {
			return nil, err
		}
	}
	return sans, nil
}

// WritePGN writes content to name inside a fresh temporary directory and
// returns the full path.
func WritePGN(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
