package matching

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/lgbarn/pgn-tree-go/internal/game"
)

// GameFilter combines tag and position matching. A game must satisfy both
// kinds of criteria when both are present.
type GameFilter struct {
	Tags      *TagMatcher
	Positions *PositionMatcher
}

var _ GameMatcher = (*GameFilter)(nil)

// NewGameFilter creates a filter without criteria.
func NewGameFilter() *GameFilter {
	return &GameFilter{
		Tags:      NewTagMatcher(),
		Positions: NewPositionMatcher(),
	}
}

// NewGameFilterFrom builds a filter from --where style expressions.
func NewGameFilterFrom(exprs []string) (*GameFilter, error) {
	gf := NewGameFilter()
	for _, expr := range exprs {
		if err := gf.AddCriterion(expr); err != nil {
			return nil, err
		}
	}
	return gf, nil
}

// AddCriterion adds one expression. `FEN <fen>` looks for an exact
// position, `Pattern <ranks>` for a wildcard placement; anything else is a
// tag criterion.
func (gf *GameFilter) AddCriterion(expr string) error {
	expr = strings.TrimSpace(expr)
	if rest, ok := strings.CutPrefix(expr, "FEN "); ok {
		return gf.Positions.AddFEN(strings.Trim(strings.TrimSpace(rest), `"`), "")
	}
	if rest, ok := strings.CutPrefix(expr, "Pattern "); ok {
		return gf.Positions.AddPattern(strings.Trim(strings.TrimSpace(rest), `"`), "", false)
	}
	return gf.Tags.ParseCriterion(expr)
}

// LoadCriteria reads one criterion per line. Blank lines and # comments are
// skipped.
func (gf *GameFilter) LoadCriteria(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := gf.AddCriterion(line); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

// HasCriteria returns true if any filter criteria are set.
func (gf *GameFilter) HasCriteria() bool {
	return gf.Tags.CriteriaCount() > 0 || gf.Positions.PatternCount() > 0
}

// HeadersOnly reports whether the filter can be decided from headers, so
// that a header scan is enough.
func (gf *GameFilter) HeadersOnly() bool {
	return gf.Positions.PatternCount() == 0
}

// Match implements GameMatcher.
func (gf *GameFilter) Match(g *game.Game) bool {
	if gf.Tags.CriteriaCount() > 0 && !gf.Tags.Match(g) {
		return false
	}
	return gf.Positions.PatternCount() == 0 || gf.Positions.Match(g)
}

// Name implements GameMatcher.
func (gf *GameFilter) Name() string {
	return "GameFilter(" + gf.Tags.Name() + ", " + gf.Positions.Name() + ")"
}
