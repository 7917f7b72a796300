// Package errors provides sentinel errors and error types for pgn-tree.
// Errors that cross package boundaries wrap one of the sentinels so callers
// can inspect them with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
var (
	// ErrInvalidMove indicates move text that is not SAN, or is ambiguous.
	ErrInvalidMove = errors.New("invalid move")

	// ErrIllegalMove indicates a move that violates chess rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrUnsupportedVariant indicates a Variant header no position can play.
	ErrUnsupportedVariant = errors.New("unsupported variant")

	// ErrEmptyMoveStack indicates an undo with no move left to take back.
	ErrEmptyMoveStack = errors.New("no move to undo")

	// ErrInvalidNAG indicates a $ not followed by a usable number.
	ErrInvalidNAG = errors.New("invalid NAG")

	// ErrVariationNotFound indicates a lookup of a child that does not exist.
	ErrVariationNotFound = errors.New("variation not found")

	// ErrInvalidHeader indicates a bad tag name or a value with a line break.
	ErrInvalidHeader = errors.New("invalid header")

	// ErrNoGame indicates input that holds no game where one was required.
	ErrNoGame = errors.New("no game found")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrIndexNotFound indicates a file or game missing from the offset index.
	ErrIndexNotFound = errors.New("index entry not found")
)

// GameError wraps errors with the position of a game in its archive.
type GameError struct {
	Err     error  // The underlying error
	GameNum int    // 1-based game number in the file
	Offset  int64  // Byte offset of the game, -1 if unknown
	File    string // Source file name (if known)
}

// Error returns a formatted error message including all available context.
func (e *GameError) Error() string {
	var parts []string
	if e.File != "" {
		parts = append(parts, e.File)
	}
	parts = append(parts, fmt.Sprintf("game %d", e.GameNum))
	if e.Offset >= 0 {
		parts = append(parts, fmt.Sprintf("offset %d", e.Offset))
	}

	context := strings.Join(parts, ", ")
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	return context
}

// Unwrap returns the underlying error.
func (e *GameError) Unwrap() error {
	return e.Err
}

// ParseError represents a recoverable problem in PGN movetext.
type ParseError struct {
	Err    error  // The underlying error
	File   string // Source file name
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
	Token  string // Offending token text
}

// Error returns a formatted error message with location and context.
func (e *ParseError) Error() string {
	var parts []string

	if e.File != "" || e.Line > 0 {
		loc := e.File
		if e.Line > 0 {
			if loc != "" {
				loc += ":"
			}
			loc += fmt.Sprintf("%d", e.Line)
			if e.Column > 0 {
				loc += fmt.Sprintf(":%d", e.Column)
			}
		}
		parts = append(parts, loc)
	}
	if e.Token != "" {
		parts = append(parts, fmt.Sprintf("%q", e.Token))
	}

	if e.Err != nil {
		if len(parts) > 0 {
			return fmt.Sprintf("%s: %v", strings.Join(parts, ": "), e.Err)
		}
		return e.Err.Error()
	}
	if len(parts) > 0 {
		return strings.Join(parts, ": ")
	}
	return "parse error"
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
