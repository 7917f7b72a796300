package matching

import (
	"fmt"
	"strings"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	"github.com/lgbarn/pgn-tree-go/internal/engine"
	"github.com/lgbarn/pgn-tree-go/internal/errors"
	"github.com/lgbarn/pgn-tree-go/internal/game"
)

// FENPattern is a board to look for. Exact patterns compare piece
// placement and side to move. Wildcard patterns work rank by rank on the
// placement alone:
//   - ? matches any square (empty or occupied)
//   - ! matches any non-empty square
//   - * matches zero or more of anything
//   - A matches any white piece
//   - a matches any black piece
//   - _ matches empty square
type FENPattern struct {
	Pattern string
	Label   string
	IsExact bool
	ranks   []string
}

// PositionMatcher selects games reaching one of its positions.
type PositionMatcher struct {
	patterns []*FENPattern
	exact    map[string]*FENPattern

	// Variations extends the search from the main line to every node.
	Variations bool
}

var _ GameMatcher = (*PositionMatcher)(nil)

// NewPositionMatcher creates a new position matcher.
func NewPositionMatcher() *PositionMatcher {
	return &PositionMatcher{exact: make(map[string]*FENPattern)}
}

// AddFEN adds an exact position. The FEN is normalized through the engine
// so equivalent spellings match.
func (pm *PositionMatcher) AddFEN(fen, label string) error {
	pos, err := engine.NewPositionFromFEN(fen)
	if err != nil {
		return fmt.Errorf("position %q: %w", fen, err)
	}
	p := &FENPattern{Pattern: pos.FEN(), Label: label, IsExact: true}
	pm.patterns = append(pm.patterns, p)
	pm.exact[exactKey(p.Pattern)] = p
	return nil
}

// AddPattern adds a wildcard placement, and its colour-inverted mirror
// when includeInvert is set.
func (pm *PositionMatcher) AddPattern(pattern, label string, includeInvert bool) error {
	ranks := strings.Split(pattern, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("pattern %q: want 8 ranks: %w", pattern, errors.ErrInvalidConfig)
	}
	pm.patterns = append(pm.patterns, &FENPattern{Pattern: pattern, Label: label, ranks: ranks})
	if includeInvert {
		inverted := invertPattern(pattern)
		pm.patterns = append(pm.patterns, &FENPattern{
			Pattern: inverted,
			Label:   label,
			ranks:   strings.Split(inverted, "/"),
		})
	}
	return nil
}

// Match implements GameMatcher.
func (pm *PositionMatcher) Match(g *game.Game) bool {
	return pm.MatchGame(g) != nil
}

// Name implements GameMatcher.
func (pm *PositionMatcher) Name() string {
	return fmt.Sprintf("PositionMatcher(%d patterns)", len(pm.patterns))
}

// MatchGame returns the first pattern reached by g, starting position
// included, or nil.
func (pm *PositionMatcher) MatchGame(g *game.Game) *FENPattern {
	if len(pm.patterns) == 0 {
		return nil
	}
	pos, err := g.Board()
	if err != nil {
		return nil
	}
	return pm.search(&g.Node, pos)
}

// search checks pos, the position at n, then the nodes below n.
func (pm *PositionMatcher) search(n *game.Node, pos chess.Position) *FENPattern {
	if match := pm.matchPosition(pos.FEN()); match != nil {
		return match
	}
	children := n.Variations
	if !pm.Variations && len(children) > 1 {
		children = children[:1]
	}
	for _, child := range children {
		if err := pos.Push(child.Move); err != nil {
			continue
		}
		match := pm.search(child, pos)
		_, _ = pos.Pop()
		if match != nil {
			return match
		}
	}
	return nil
}

// matchPosition checks a FEN against the exact positions, then the
// wildcard patterns.
func (pm *PositionMatcher) matchPosition(fen string) *FENPattern {
	if p, ok := pm.exact[exactKey(fen)]; ok {
		return p
	}
	var ranks [8]string
	placement, _, _ := strings.Cut(fen, " ")
	for i, r := range strings.SplitN(placement, "/", 8) {
		ranks[i] = expandRank(r)
	}
	for _, p := range pm.patterns {
		if !p.IsExact && matchRanks(ranks, p.ranks) {
			return p
		}
	}
	return nil
}

// exactKey keeps the placement and side to move of a FEN.
func exactKey(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return fen
	}
	return fields[0] + " " + fields[1]
}

// expandRank turns a FEN rank like "r3k2r" into one character per square,
// with _ for empty squares.
func expandRank(rank string) string {
	var sb strings.Builder
	for i := 0; i < len(rank); i++ {
		c := rank[i]
		if c >= '1' && c <= '8' {
			sb.WriteString(strings.Repeat("_", int(c-'0')))
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func matchRanks(board [8]string, pattern []string) bool {
	for i, p := range pattern {
		if i >= 8 || !matchRank(board[i], p) {
			return false
		}
	}
	return true
}

// matchRank matches one expanded board rank against a pattern rank.
func matchRank(rank, pattern string) bool {
	if pattern == "" {
		return rank == ""
	}
	c := pattern[0]
	switch c {
	case '*':
		for i := 0; i <= len(rank); i++ {
			if matchRank(rank[i:], pattern[1:]) {
				return true
			}
		}
		return false
	case '1', '2', '3', '4', '5', '6', '7', '8':
		n := int(c - '0')
		if len(rank) < n || strings.Trim(rank[:n], "_") != "" {
			return false
		}
		return matchRank(rank[n:], pattern[1:])
	}

	if rank == "" {
		return false
	}
	sq := rank[0]
	var ok bool
	switch c {
	case '?':
		ok = true
	case '!':
		ok = sq != '_'
	case 'A':
		ok = sq >= 'A' && sq <= 'Z'
	case 'a':
		ok = sq >= 'a' && sq <= 'z'
	default:
		ok = sq == c
	}
	return ok && matchRank(rank[1:], pattern[1:])
}

// invertPattern swaps colours and mirrors the ranks.
func invertPattern(pattern string) string {
	swapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		case r >= 'a' && r <= 'z':
			return r - ('a' - 'A')
		}
		return r
	}, pattern)

	ranks := strings.Split(swapped, "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	return strings.Join(ranks, "/")
}

// PatternCount returns the number of patterns.
func (pm *PositionMatcher) PatternCount() int {
	return len(pm.patterns)
}
