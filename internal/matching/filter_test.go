package matching

import (
	"strings"
	"testing"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	pgnerrors "github.com/lgbarn/pgn-tree-go/internal/errors"
	"github.com/lgbarn/pgn-tree-go/internal/game"
	"github.com/lgbarn/pgn-tree-go/internal/testutil"
)

func selected(m GameMatcher, games []*game.Game) []string {
	var whites []string
	for _, g := range games {
		if m.Match(g) {
			whites = append(whites, g.Headers.Value(chess.WhiteTag))
		}
	}
	return whites
}

func TestGameFilter_From(t *testing.T) {
	gf, err := NewGameFilterFrom([]string{"Event=Casual", "FEN " + petrovFEN})
	if err != nil {
		t.Fatal(err)
	}
	if gf.HeadersOnly() {
		t.Error("a position criterion needs the movetext")
	}
	testutil.AssertEqual(t, selected(gf, sampleGames(t)), []string{"Morphy"})
}

func TestGameFilter_LoadCriteria(t *testing.T) {
	criteria := `# players from the nineteenth century
Date < 1900

Pattern */*/*/*/??B*/*/*/*
`
	gf := NewGameFilter()
	if err := gf.LoadCriteria(strings.NewReader(criteria)); err != nil {
		t.Fatal(err)
	}
	if !gf.HasCriteria() {
		t.Fatal("HasCriteria = false")
	}
	testutil.AssertEqual(t, selected(gf, sampleGames(t)), []string{"Anderssen"})
}

func TestGameFilter_LoadCriteriaError(t *testing.T) {
	err := NewGameFilter().LoadCriteria(strings.NewReader("White=Tal\nWhite\n"))
	testutil.AssertErrorIs(t, err, pgnerrors.ErrInvalidConfig)
	if err == nil || !strings.HasPrefix(err.Error(), "line 2:") {
		t.Errorf("error = %v; want it to name line 2", err)
	}
}

func TestGameFilter_Empty(t *testing.T) {
	gf := NewGameFilter()
	if gf.HasCriteria() || !gf.HeadersOnly() {
		t.Error("empty filter should have no criteria and need only headers")
	}
	if got := selected(gf, sampleGames(t)); len(got) != 3 {
		t.Errorf("empty filter selected %v", got)
	}
}

func TestCompositeMatcher(t *testing.T) {
	games := sampleGames(t)

	casual := NewTagMatcher()
	_ = casual.ParseCriterion("Event=Casual")
	won := NewTagMatcher()
	_ = won.ParseCriterion("Result=1-0")

	and := NewCompositeMatcher(MatchAll, casual, won)
	testutil.AssertEqual(t, selected(and, games), []string{"Anderssen"})

	or := NewCompositeMatcher(MatchAny, casual)
	or.Add(won)
	testutil.AssertEqual(t, selected(or, games), []string{"Anderssen", "Fischer", "Morphy"})
	if or.Len() != 2 {
		t.Errorf("Len = %d; want 2", or.Len())
	}

	if got := selected(NewCompositeMatcher(MatchAll), games); len(got) != 3 {
		t.Errorf("empty AND selected %v; want all", got)
	}
	if got := selected(NewCompositeMatcher(MatchAny), games); len(got) != 0 {
		t.Errorf("empty OR selected %v; want none", got)
	}
}

func TestKeep(t *testing.T) {
	if Keep(nil) != nil {
		t.Error("Keep(nil) should be nil")
	}
	won := NewTagMatcher()
	_ = won.ParseCriterion("Result=1-0")
	if keep := Keep(won); !keep(sampleGames(t)[0]) {
		t.Error("Keep should delegate to Match")
	}
}
