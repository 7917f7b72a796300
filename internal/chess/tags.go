package chess

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/lgbarn/pgn-tree-go/internal/errors"
)

// Tag names the game tree and reader treat specially.
const (
	EventTag   = "Event"
	SiteTag    = "Site"
	DateTag    = "Date"
	RoundTag   = "Round"
	WhiteTag   = "White"
	BlackTag   = "Black"
	ResultTag  = "Result"
	FENTag     = "FEN"
	SetupTag   = "SetUp"
	VariantTag = "Variant"
)

// SevenTagRoster contains the seven required PGN tags in order.
var SevenTagRoster = []string{
	EventTag,
	SiteTag,
	DateTag,
	RoundTag,
	WhiteTag,
	BlackTag,
	ResultTag,
}

// rosterDefaults holds the value of each roster tag in a fresh game.
var rosterDefaults = map[string]string{
	EventTag:  "?",
	SiteTag:   "?",
	DateTag:   "????.??.??",
	RoundTag:  "?",
	WhiteTag:  "?",
	BlackTag:  "?",
	ResultTag: "*",
}

var tagNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// IsSevenTagRosterTag returns true if the tag is one of the seven required tags.
func IsSevenTagRosterTag(tag string) bool {
	_, ok := rosterDefaults[tag]
	return ok
}

// Headers is the ordered tag map of a game. Iteration yields the roster
// tags present, in roster order, followed by all other tags sorted by name.
type Headers struct {
	values map[string]string
}

// NewHeaders returns an empty header map.
func NewHeaders() *Headers {
	return &Headers{values: make(map[string]string)}
}

// NewDefaultHeaders returns a header map holding the roster defaults.
func NewDefaultHeaders() *Headers {
	h := NewHeaders()
	for k, v := range rosterDefaults {
		h.values[k] = v
	}
	return h
}

// Set stores a tag. Names outside the roster must match [A-Za-z0-9_]+ and
// no value may contain a line break.
func (h *Headers) Set(name, value string) error {
	if !IsSevenTagRosterTag(name) && !tagNameRegex.MatchString(name) {
		return fmt.Errorf("tag name %q: %w", name, errors.ErrInvalidHeader)
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("tag %s: value contains a line break: %w", name, errors.ErrInvalidHeader)
	}
	h.values[name] = value
	return nil
}

// Get returns a tag value and whether it is present.
func (h *Headers) Get(name string) (string, bool) {
	v, ok := h.values[name]
	return v, ok
}

// Value returns a tag value, or the empty string if it is not present.
func (h *Headers) Value(name string) string {
	return h.values[name]
}

// Has reports whether the tag is present.
func (h *Headers) Has(name string) bool {
	_, ok := h.values[name]
	return ok
}

// Delete removes a tag. Deleting a missing tag is a no-op.
func (h *Headers) Delete(name string) {
	delete(h.values, name)
}

// Len returns the number of tags.
func (h *Headers) Len() int {
	return len(h.values)
}

// Keys returns the tag names in iteration order.
func (h *Headers) Keys() []string {
	keys := make([]string, 0, len(h.values))
	for _, name := range SevenTagRoster {
		if _, ok := h.values[name]; ok {
			keys = append(keys, name)
		}
	}
	start := len(keys)
	for name := range h.values {
		if !IsSevenTagRosterTag(name) {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys[start:])
	return keys
}

// Map returns a copy of the tags as a plain map.
func (h *Headers) Map() map[string]string {
	m := make(map[string]string, len(h.values))
	for k, v := range h.values {
		m[k] = v
	}
	return m
}

// Copy returns an independent copy.
func (h *Headers) Copy() *Headers {
	return &Headers{values: h.Map()}
}

// Equal reports whether both maps hold the same tags.
func (h *Headers) Equal(other *Headers) bool {
	if h == nil || other == nil {
		return h == other
	}
	if len(h.values) != len(other.values) {
		return false
	}
	for k, v := range h.values {
		if ov, ok := other.values[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
