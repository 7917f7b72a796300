package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/pgn-tree-go/internal/config"
	"github.com/lgbarn/pgn-tree-go/internal/game"
	"github.com/lgbarn/pgn-tree-go/internal/parser"
)

func parseTestGame(t *testing.T, pgn string) *game.Game {
	t.Helper()
	g, err := parser.NewParser(strings.NewReader(pgn)).ReadGame()
	if err != nil {
		t.Fatalf("ReadGame: %v", err)
	}
	if g == nil {
		t.Fatal("no game parsed")
	}
	return g
}

func movetextOnly() *config.ExportConfig {
	cfg := config.NewExportConfig()
	cfg.Headers = false
	return cfg
}

func mustExport(t *testing.T, g *game.Game, cfg *config.ExportConfig) string {
	t.Helper()
	s, err := Export(g, cfg)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	return s
}

func TestExport_Movetext(t *testing.T) {
	tests := []struct {
		name   string
		pgn    string
		modify func(*config.ExportConfig)
		want   string
	}{
		{
			name: "variation",
			pgn:  "1. e4 e5 ( 1... c5 2. Nf3 ) 2. Nf3 *",
			want: "1. e4 e5 ( 1... c5 2. Nf3 ) 2. Nf3 *",
		},
		{
			name: "black move after variation",
			pgn:  "1. e4 ( 1. d4 d5 ) e5 *",
			want: "1. e4 ( 1. d4 d5 ) 1... e5 *",
		},
		{
			name:   "variations dropped",
			pgn:    "1. e4 ( 1. d4 d5 ) e5 *",
			modify: func(c *config.ExportConfig) { c.Variations = false },
			want:   "1. e4 e5 *",
		},
		{
			name: "comments and nags",
			pgn:  "1. e4 { best by test } e5 $1 *",
			want: "1. e4 { best by test } 1... e5 $1 *",
		},
		{
			name:   "comments dropped",
			pgn:    "1. e4 { best by test } e5 $1 *",
			modify: func(c *config.ExportConfig) { c.Comments = false },
			want:   "1. e4 e5 *",
		},
		{
			name: "starting comment",
			pgn:  "1. e4 ( { or } 1. d4 ) *",
			want: "1. e4 ( { or } 1. d4 ) *",
		},
		{
			name: "decided result",
			pgn:  "1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# 1-0",
			want: "1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# 1-0",
		},
		{
			name:   "wrapped",
			pgn:    "1. e4 e5 2. Nf3 Nc6 *",
			modify: func(c *config.ExportConfig) { c.Columns = 10 },
			want:   "1. e4 e5\n2. Nf3\nNc6 *",
		},
		{
			name:   "unbounded",
			pgn:    "1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 4. Ba4 Nf6 5. O-O Be7 6. Re1 b5 7. Bb3 d6 8. c3 O-O 9. h3 *",
			modify: func(c *config.ExportConfig) { c.Columns = 0 },
			want:   "1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 4. Ba4 Nf6 5. O-O Be7 6. Re1 b5 7. Bb3 d6 8. c3 O-O 9. h3 *",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := movetextOnly()
			if tt.modify != nil {
				tt.modify(cfg)
			}
			got := mustExport(t, parseTestGame(t, tt.pgn), cfg)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Export mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExport_DefaultWidth(t *testing.T) {
	g := parseTestGame(t, "1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 4. Ba4 Nf6 5. O-O Be7 6. Re1 b5 7. Bb3 d6 8. c3 O-O 9. h3 Nb8 10. d4 Nbd7 *")
	got := mustExport(t, g, movetextOnly())
	for _, line := range strings.Split(got, "\n") {
		if len(line) > config.DefaultColumns {
			t.Errorf("line %q is longer than %d", line, config.DefaultColumns)
		}
	}
	if !strings.Contains(got, "\n") {
		t.Errorf("Export = %q; want more than one line", got)
	}
}

func TestExport_Headers(t *testing.T) {
	g := parseTestGame(t, "[Event \"Casual\"]\n[Opening \"King's Pawn\"]\n\n1. e4 *\n")

	want := strings.Join([]string{
		`[Event "Casual"]`,
		`[Site "?"]`,
		`[Date "????.??.??"]`,
		`[Round "?"]`,
		`[White "?"]`,
		`[Black "?"]`,
		`[Result "*"]`,
		`[Opening "King's Pawn"]`,
		``,
		`1. e4 *`,
	}, "\n")

	got, err := String(g)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("String mismatch (-want +got):\n%s", diff)
	}

	if got := mustExport(t, g, movetextOnly()); got != "1. e4 *" {
		t.Errorf("Export without headers = %q", got)
	}
}

func TestExport_EmptyGame(t *testing.T) {
	if got := mustExport(t, game.NewWithoutRoster(), nil); got != "*" {
		t.Errorf("Export = %q; want *", got)
	}
}

func TestExport_StripsClosingBrace(t *testing.T) {
	g := parseTestGame(t, "1. e4 *")
	g.Variations[0].Comment = "close} brace"

	got := mustExport(t, g, movetextOnly())
	if want := "1. e4 { close brace } *"; got != want {
		t.Errorf("Export = %q; want %q", got, want)
	}
	if reparsed := parseTestGame(t, got); reparsed.Variations[0].Comment != "close brace" {
		t.Errorf("reparsed comment = %q", reparsed.Variations[0].Comment)
	}
}

func TestExport_RoundTrip(t *testing.T) {
	pgn := `[Event "Round trip"]
[White "A"]
[Black "B"]
[Result "1/2-1/2"]

{ Opening remark } 1. e4 e5 ( 1... c5 { Sicilian } 2. Nf3 ( 2. c3 ) d6 ) 2. Nf3 $1
Nc6 3. Bb5 a6 { Morphy } 4. Ba4 Nf6 5. O-O Be7 1/2-1/2
`
	first := mustExport(t, parseTestGame(t, pgn), nil)
	second := mustExport(t, parseTestGame(t, first), nil)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("export is not stable (-first +second):\n%s", diff)
	}
	if !strings.HasPrefix(first, `[Event "Round trip"]`) {
		t.Errorf("export lost headers:\n%s", first)
	}
}

func TestExport_AfterPromotion(t *testing.T) {
	g := parseTestGame(t, "1. e4 ( 1. d4 ) *")
	if err := g.PromoteToMain(g.Variations[1].Move); err != nil {
		t.Fatal(err)
	}
	if got := mustExport(t, g, movetextOnly()); got != "1. d4 ( 1. e4 ) *" {
		t.Errorf("Export = %q", got)
	}
}

func TestExport_Subgame(t *testing.T) {
	g := parseTestGame(t, "1. e4 e5 2. Nf3 *")

	e := NewStringExporter(nil)
	if _, err := g.Variations[0].AcceptSubgame(e); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		`[Event "?"]`,
		`[Site "?"]`,
		`[Date "????.??.??"]`,
		`[Round "?"]`,
		`[White "?"]`,
		`[Black "?"]`,
		`[Result "*"]`,
		`[FEN "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"]`,
		`[SetUp "1"]`,
		``,
		`1... e5 2. Nf3 *`,
	}, "\n")
	if diff := cmp.Diff(want, e.String()); diff != "" {
		t.Errorf("subgame mismatch (-want +got):\n%s", diff)
	}
}

func TestFileExporter(t *testing.T) {
	var buf bytes.Buffer
	e := NewFileExporter(&buf, movetextOnly())

	for _, pgn := range []string{"1. e4 ( 1. d4 ) e5 *", "1. d4 d5 1-0"} {
		if _, err := parseTestGame(t, pgn).Accept(e); err != nil {
			t.Fatal(err)
		}
	}
	if e.Err() != nil {
		t.Fatal(e.Err())
	}

	want := "1. e4 ( 1. d4 ) 1... e5 *\n\n1. d4 d5 1-0\n\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("FileExporter mismatch (-want +got):\n%s", diff)
	}
	if e.Result() != nil {
		t.Errorf("Result() = %v; want nil", e.Result())
	}
}

var errDiskFull = errors.New("disk full")

type failingWriter struct{ writes int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errDiskFull
}

func TestFileExporter_WriteError(t *testing.T) {
	w := &failingWriter{}
	e := NewFileExporter(w, nil)
	if _, err := parseTestGame(t, "1. e4 e5 *").Accept(e); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(e.Err(), errDiskFull) {
		t.Errorf("Err() = %v; want %v", e.Err(), errDiskFull)
	}
	if w.writes != 1 {
		t.Errorf("writes = %d; want 1 before giving up", w.writes)
	}
}
