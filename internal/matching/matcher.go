package matching

import (
	"strings"

	"github.com/lgbarn/pgn-tree-go/internal/game"
)

// GameMatcher decides whether a game is selected.
type GameMatcher interface {
	// Match returns true if the game matches the matcher's criteria.
	Match(g *game.Game) bool

	// Name returns a descriptive name for this matcher.
	Name() string
}

// MatchMode specifies how multiple matchers are combined.
type MatchMode int

const (
	// MatchAll requires all matchers to match (AND logic).
	MatchAll MatchMode = iota

	// MatchAny requires at least one matcher to match (OR logic).
	MatchAny
)

// CompositeMatcher combines matchers with AND or OR logic. An empty AND
// composite matches every game; an empty OR composite matches none.
type CompositeMatcher struct {
	matchers []GameMatcher
	mode     MatchMode
}

// NewCompositeMatcher creates a new CompositeMatcher with the given mode and matchers.
func NewCompositeMatcher(mode MatchMode, matchers ...GameMatcher) *CompositeMatcher {
	return &CompositeMatcher{matchers: matchers, mode: mode}
}

// Match implements GameMatcher.
func (c *CompositeMatcher) Match(g *game.Game) bool {
	want := c.mode == MatchAny
	for _, m := range c.matchers {
		if m.Match(g) == want {
			return want
		}
	}
	return !want
}

// Name implements GameMatcher.
func (c *CompositeMatcher) Name() string {
	names := make([]string, len(c.matchers))
	for i, m := range c.matchers {
		names[i] = m.Name()
	}
	mode := "AND"
	if c.mode == MatchAny {
		mode = "OR"
	}
	return "CompositeMatcher(" + mode + ": " + strings.Join(names, ", ") + ")"
}

// Add adds a matcher to the composite.
func (c *CompositeMatcher) Add(m GameMatcher) {
	c.matchers = append(c.matchers, m)
}

// Len returns the number of matchers combined.
func (c *CompositeMatcher) Len() int {
	return len(c.matchers)
}

// Keep adapts a matcher to the func(*game.Game) bool shape the worker pool
// filters with. A nil matcher keeps everything.
func Keep(m GameMatcher) func(*game.Game) bool {
	if m == nil {
		return nil
	}
	return m.Match
}
