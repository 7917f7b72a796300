package output

import (
	"encoding/json"
	"io"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	"github.com/lgbarn/pgn-tree-go/internal/config"
	"github.com/lgbarn/pgn-tree-go/internal/game"
)

// GameWriter is the interface for writing games to output.
// Different implementations handle different output formats (PGN, JSON, etc.).
type GameWriter interface {
	// WriteGame writes a single game to the output.
	WriteGame(g *game.Game) error

	// Flush flushes any buffered data to the underlying writer.
	Flush() error

	// Close closes the writer and releases any resources.
	// For batch writers (like JSON), this also writes any pending output.
	Close() error
}

// NewGameWriter returns the writer for format, "pgn" or "json". Unknown
// formats fall back to PGN.
func NewGameWriter(format string, w io.Writer, cfg *config.ExportConfig) GameWriter {
	if format == "json" {
		return NewJSONWriterSingle(w, cfg)
	}
	return NewPGNWriter(w, cfg)
}

// PGNWriter writes games in PGN format.
type PGNWriter struct {
	w   io.Writer
	cfg *config.ExportConfig
}

// NewPGNWriter creates a new PGN writer.
func NewPGNWriter(w io.Writer, cfg *config.ExportConfig) *PGNWriter {
	return &PGNWriter{w: w, cfg: cfg}
}

// WriteGame writes a game in PGN format followed by a blank line.
func (pw *PGNWriter) WriteGame(g *game.Game) error {
	e := NewFileExporter(pw.w, pw.cfg)
	if _, err := g.Accept(e); err != nil {
		return err
	}
	return e.Err()
}

// Flush is a no-op; games are written immediately.
func (pw *PGNWriter) Flush() error {
	return nil
}

// Close closes the PGN writer.
func (pw *PGNWriter) Close() error {
	return nil
}

// JSONWriter writes games in JSON format.
// It buffers games and writes them as a JSON array on Close or Flush.
type JSONWriter struct {
	w      io.Writer
	cfg    *config.ExportConfig
	games  []*JSONGame
	single bool // one JSON object per line instead of a batched array
}

// NewJSONWriter creates a new JSON writer.
// By default, it batches games and writes them as an array on Close().
func NewJSONWriter(w io.Writer, cfg *config.ExportConfig) *JSONWriter {
	return &JSONWriter{w: w, cfg: cfg}
}

// NewJSONWriterSingle creates a JSON writer that writes each game
// immediately as one line.
func NewJSONWriterSingle(w io.Writer, cfg *config.ExportConfig) *JSONWriter {
	return &JSONWriter{w: w, cfg: cfg, single: true}
}

// WriteGame converts g and writes it, or buffers it in batch mode.
func (jw *JSONWriter) WriteGame(g *game.Game) error {
	jg, err := GameToJSON(g, jw.cfg)
	if err != nil {
		return err
	}
	if jw.single {
		return json.NewEncoder(jw.w).Encode(jg)
	}
	jw.games = append(jw.games, jg)
	return nil
}

// Flush writes all buffered games as a JSON array.
func (jw *JSONWriter) Flush() error {
	if jw.single || len(jw.games) == 0 {
		return nil
	}

	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	err := enc.Encode(&JSONOutput{Games: jw.games})
	jw.games = jw.games[:0]
	return err
}

// Close flushes and closes the JSON writer.
func (jw *JSONWriter) Close() error {
	return jw.Flush()
}

// WriteHeadersJSON writes one header scan entry as a JSON line.
func WriteHeadersJSON(w io.Writer, offset int64, headers *chess.Headers) error {
	return json.NewEncoder(w).Encode(JSONHeaders{Offset: offset, Tags: headers.Map()})
}
