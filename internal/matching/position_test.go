package matching

import (
	"testing"

	pgnerrors "github.com/lgbarn/pgn-tree-go/internal/errors"
	"github.com/lgbarn/pgn-tree-go/internal/testutil"
)

// After 1. e4 e5 2. Nf3, reached only by the Morphy game.
const petrovFEN = "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"

// After 1. c4 e6 2. Nf3 d5 3. d4 c5, the side line of the Fischer game.
const tarraschFEN = "rnbqkbnr/pp3ppp/4p3/2pp4/2PP4/5N2/PP2PPPP/RNBQKB1R w KQkq - 0 4"

func TestPositionMatcher_ExactFEN(t *testing.T) {
	pm := NewPositionMatcher()
	if err := pm.AddFEN(petrovFEN, "petrov"); err != nil {
		t.Fatal(err)
	}

	want := []bool{false, false, true}
	for i, g := range sampleGames(t) {
		if got := pm.Match(g); got != want[i] {
			t.Errorf("game %d Match = %v; want %v", i+1, got, want[i])
		}
	}
	if p := pm.MatchGame(sampleGames(t)[2]); p == nil || p.Label != "petrov" {
		t.Errorf("MatchGame = %+v; want the petrov pattern", p)
	}
}

func TestPositionMatcher_StartingPosition(t *testing.T) {
	pm := NewPositionMatcher()
	if err := pm.AddFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", ""); err != nil {
		t.Fatal(err)
	}
	if !pm.Match(testutil.MustParseGame(t, "[Event \"Empty\"]\n\n*")) {
		t.Error("the starting position should match a game without moves")
	}
}

func TestPositionMatcher_Variations(t *testing.T) {
	fischer := sampleGames(t)[1]

	pm := NewPositionMatcher()
	if err := pm.AddFEN(tarraschFEN, ""); err != nil {
		t.Fatal(err)
	}
	if pm.Match(fischer) {
		t.Error("side-line position matched with Variations off")
	}
	pm.Variations = true
	if !pm.Match(fischer) {
		t.Error("side-line position not found with Variations on")
	}
}

func TestPositionMatcher_Pattern(t *testing.T) {
	pm := NewPositionMatcher()
	// A white bishop on c4.
	if err := pm.AddPattern("*/*/*/*/??B*/*/*/*", "", false); err != nil {
		t.Fatal(err)
	}

	want := []bool{true, false, false}
	for i, g := range sampleGames(t) {
		if got := pm.Match(g); got != want[i] {
			t.Errorf("game %d Match = %v; want %v", i+1, got, want[i])
		}
	}
}

func TestPositionMatcher_BadInput(t *testing.T) {
	pm := NewPositionMatcher()
	if err := pm.AddFEN("not a fen", ""); err == nil {
		t.Error("AddFEN accepted garbage")
	}
	testutil.AssertErrorIs(t, pm.AddPattern("8/8/8", "", false), pgnerrors.ErrInvalidConfig)
	if pm.PatternCount() != 0 {
		t.Errorf("PatternCount = %d; want 0", pm.PatternCount())
	}
}

func TestMatchRank(t *testing.T) {
	tests := []struct {
		rank, pattern string
		want          bool
	}{
		{"rnbqkbnr", "rnbqkbnr", true},
		{"________", "8", true},
		{"____P___", "4P3", true},
		{"____P___", "4p3", false},
		{"____P___", "*P*", true},
		{"____P___", "????A???", true},
		{"____P___", "????a???", false},
		{"r___k__r", "a*a", true},
		{"r___k__r", "!3!2!", true},
		{"r___k__r", "!3!2_", false},
		{"r___k__r", "?", false},
		{"", "*", true},
	}
	for _, tt := range tests {
		if got := matchRank(tt.rank, tt.pattern); got != tt.want {
			t.Errorf("matchRank(%q, %q) = %v; want %v", tt.rank, tt.pattern, got, tt.want)
		}
	}
}

func TestInvertPattern(t *testing.T) {
	if got := invertPattern("8/8/8/8/2B5/8/8/K7"); got != "k7/8/8/2b5/8/8/8/8" {
		t.Errorf("invertPattern = %q", got)
	}

	pm := NewPositionMatcher()
	if err := pm.AddPattern("*/*/*/*/??B*/*/*/*", "", true); err != nil {
		t.Fatal(err)
	}
	if pm.PatternCount() != 2 {
		t.Errorf("PatternCount = %d; want 2", pm.PatternCount())
	}
}
