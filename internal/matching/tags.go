// Package matching selects games by their headers and by the positions
// their main lines reach.
package matching

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	"github.com/lgbarn/pgn-tree-go/internal/errors"
	"github.com/lgbarn/pgn-tree-go/internal/game"
)

// PlayerTag is a pseudo tag matching either White or Black.
const PlayerTag = "Player"

// TagOperator represents comparison operators for tag matching.
type TagOperator int

const (
	OpEqual TagOperator = iota
	OpNotEqual
	OpLessThan
	OpLessOrEqual
	OpGreaterThan
	OpGreaterOrEqual
	OpContains // case-insensitive substring
	OpRegex
	OpSoundex
)

// operators in the order ParseCriterion tries them; longer spellings first.
var operators = []struct {
	text string
	op   TagOperator
}{
	{"=~", OpRegex},
	{"<=", OpLessOrEqual},
	{">=", OpGreaterOrEqual},
	{"!=", OpNotEqual},
	{"<>", OpNotEqual},
	{"<", OpLessThan},
	{">", OpGreaterThan},
	{"=", OpEqual},
	{"~", OpContains},
	{"%", OpSoundex},
}

func (op TagOperator) String() string {
	for _, o := range operators {
		if o.op == op {
			return o.text
		}
	}
	return "?"
}

// TagCriterion represents a single tag matching criterion.
type TagCriterion struct {
	TagName  string
	Value    string
	Operator TagOperator

	regex   *regexp.Regexp // OpRegex
	soundex string         // OpSoundex
	lower   string         // OpContains
}

// TagMatcher selects games whose headers satisfy its criteria.
type TagMatcher struct {
	criteria []*TagCriterion
	matchAll bool // true = AND all criteria, false = OR
}

var _ GameMatcher = (*TagMatcher)(nil)

// NewTagMatcher creates a matcher requiring every criterion.
func NewTagMatcher() *TagMatcher {
	return &TagMatcher{matchAll: true}
}

// SetMatchAll sets whether all criteria must match (AND) or any (OR).
func (tm *TagMatcher) SetMatchAll(all bool) {
	tm.matchAll = all
}

// AddCriterion adds a tag matching criterion.
func (tm *TagMatcher) AddCriterion(tagName, value string, op TagOperator) error {
	c := &TagCriterion{TagName: tagName, Value: value, Operator: op}
	switch op {
	case OpRegex:
		re, err := regexp.Compile(value)
		if err != nil {
			return fmt.Errorf("criterion %s: %v: %w", tagName, err, errors.ErrInvalidConfig)
		}
		c.regex = re
	case OpSoundex:
		c.soundex = Soundex(value)
	case OpContains:
		c.lower = strings.ToLower(value)
	}
	tm.criteria = append(tm.criteria, c)
	return nil
}

// ParseCriterion parses expressions such as `White=Fischer`,
// `Date >= "1970.01.01"` or `Event~open`. Blank lines and lines starting
// with # are ignored.
func (tm *TagMatcher) ParseCriterion(expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" || strings.HasPrefix(expr, "#") {
		return nil
	}

	end := strings.IndexAny(expr, " \t<>=!~%")
	if end <= 0 {
		return fmt.Errorf("criterion %q: no operator: %w", expr, errors.ErrInvalidConfig)
	}
	name := expr[:end]
	rest := strings.TrimSpace(expr[end:])

	for _, o := range operators {
		if strings.HasPrefix(rest, o.text) {
			value := strings.TrimSpace(rest[len(o.text):])
			if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
				value = value[1 : len(value)-1]
			}
			return tm.AddCriterion(name, value, o.op)
		}
	}
	return fmt.Errorf("criterion %q: unknown operator: %w", expr, errors.ErrInvalidConfig)
}

// Match implements GameMatcher.
func (tm *TagMatcher) Match(g *game.Game) bool {
	return tm.MatchHeaders(g.Headers)
}

// Name implements GameMatcher.
func (tm *TagMatcher) Name() string {
	parts := make([]string, len(tm.criteria))
	for i, c := range tm.criteria {
		parts[i] = c.TagName + c.Operator.String() + c.Value
	}
	join := " AND "
	if !tm.matchAll {
		join = " OR "
	}
	return "TagMatcher(" + strings.Join(parts, join) + ")"
}

// MatchHeaders checks headers alone, which is all a header scan provides.
// A matcher without criteria matches everything.
func (tm *TagMatcher) MatchHeaders(h *chess.Headers) bool {
	if len(tm.criteria) == 0 {
		return true
	}
	for _, c := range tm.criteria {
		if matchCriterion(h, c) != tm.matchAll {
			return !tm.matchAll
		}
	}
	return tm.matchAll
}

// matchCriterion checks a single criterion. Only != matches a missing tag.
func matchCriterion(h *chess.Headers, c *TagCriterion) bool {
	if c.TagName == PlayerTag {
		return matchValue(h.Value(chess.WhiteTag), c) || matchValue(h.Value(chess.BlackTag), c)
	}
	value, ok := h.Get(c.TagName)
	if !ok {
		return c.Operator == OpNotEqual
	}
	return matchValue(value, c)
}

// matchValue compares a tag value against a criterion.
func matchValue(value string, c *TagCriterion) bool {
	switch c.Operator {
	case OpEqual:
		return strings.EqualFold(value, c.Value)
	case OpNotEqual:
		return !strings.EqualFold(value, c.Value)
	case OpContains:
		return strings.Contains(strings.ToLower(value), c.lower)
	case OpRegex:
		return c.regex.MatchString(value)
	case OpSoundex:
		return Soundex(value) == c.soundex
	}

	cmp := compareValues(value, c.Value)
	switch c.Operator {
	case OpLessThan:
		return cmp < 0
	case OpLessOrEqual:
		return cmp <= 0
	case OpGreaterThan:
		return cmp > 0
	case OpGreaterOrEqual:
		return cmp >= 0
	}
	return false
}

// compareValues orders dates (YYYY.MM.DD) by date and numbers such as
// Elo ratings numerically, falling back to case-insensitive text order.
func compareValues(a, b string) int {
	if da, db := parseDate(a), parseDate(b); da > 0 && db > 0 {
		return da - db
	}
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// parseDate encodes a PGN date as YYYYMMDD. Unknown month or day fields
// ("??") count as 1. It returns 0 when there is no usable year.
func parseDate(s string) int {
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return 0
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 100 || year > 3000 {
		return 0
	}

	field := func(i, hi int) int {
		if i >= len(parts) {
			return 1
		}
		v, err := strconv.Atoi(parts[i])
		if err != nil || v < 1 || v > hi {
			return 1
		}
		return v
	}
	return year*10000 + field(1, 12)*100 + field(2, 31)
}

// CriteriaCount returns the number of criteria.
func (tm *TagMatcher) CriteriaCount() int {
	return len(tm.criteria)
}
