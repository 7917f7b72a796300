// Package output writes game trees as PGN text and JSON.
package output

import (
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	"github.com/lgbarn/pgn-tree-go/internal/config"
	"github.com/lgbarn/pgn-tree-go/internal/game"
)

// lineWriter is the Visitor shared by the exporters. It packs tokens into
// lines of at most cfg.Columns characters and hands every finished line to
// emit. Header lines and long comments are never split.
type lineWriter struct {
	game.BaseVisitor

	cfg  config.ExportConfig
	emit func(line string)

	current         string
	foundHeaders    bool
	forceMoveNumber bool
	depth           int
}

func newLineWriter(cfg *config.ExportConfig, emit func(string)) lineWriter {
	if cfg == nil {
		cfg = config.NewExportConfig()
	}
	return lineWriter{cfg: *cfg, emit: emit, forceMoveNumber: true}
}

func (w *lineWriter) flush() {
	if w.current != "" {
		w.emit(rstrip(w.current))
	}
	w.current = ""
}

// writeToken appends tok, which carries its own trailing space, starting a
// new line first when it would not fit.
func (w *lineWriter) writeToken(tok string) {
	if w.cfg.Columns > 0 && w.cfg.Columns-len(w.current) < len(tok) {
		w.flush()
	}
	w.current += tok
}

func (w *lineWriter) writeLine(line string) {
	w.flush()
	w.emit(rstrip(line))
}

func rstrip(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// shown reports whether tokens at the current depth are written.
func (w *lineWriter) shown() bool {
	return w.cfg.Variations || w.depth == 0
}

func (w *lineWriter) BeginGame() {
	w.forceMoveNumber = true
	w.depth = 0
}

func (w *lineWriter) BeginHeaders() {
	w.foundHeaders = false
}

func (w *lineWriter) VisitHeader(name, value string) {
	if w.cfg.Headers {
		w.foundHeaders = true
		w.writeLine("[" + name + ` "` + value + `"]`)
	}
}

func (w *lineWriter) EndHeaders() {
	if w.foundHeaders {
		w.writeLine("")
	}
}

func (w *lineWriter) BeginVariation() {
	w.depth++
	if w.cfg.Variations {
		w.writeToken("( ")
		w.forceMoveNumber = true
	}
}

func (w *lineWriter) EndVariation() {
	w.depth--
	if w.cfg.Variations {
		w.writeToken(") ")
		w.forceMoveNumber = true
	}
}

// VisitComment writes { comment }. Closing braces inside the text are
// dropped so the output stays parseable.
func (w *lineWriter) VisitComment(comment string) {
	if w.cfg.Comments && w.shown() {
		w.writeToken("{ " + strings.TrimSpace(strings.ReplaceAll(comment, "}", "")) + " } ")
		w.forceMoveNumber = true
	}
}

func (w *lineWriter) VisitNAG(nag int) {
	if w.cfg.Comments && w.shown() {
		w.writeToken("$" + strconv.Itoa(nag) + " ")
	}
}

// VisitMove writes the move number before every White move and before a
// Black move that follows a comment or a variation boundary.
func (w *lineWriter) VisitMove(pos chess.Position, m chess.Move) {
	if !w.shown() {
		return
	}
	switch {
	case pos.Turn() == chess.White:
		w.writeToken(strconv.FormatUint(uint64(pos.FullmoveNumber()), 10) + ". ")
	case w.forceMoveNumber:
		w.writeToken(strconv.FormatUint(uint64(pos.FullmoveNumber()), 10) + "... ")
	}
	w.writeToken(pos.SAN(m) + " ")
	w.forceMoveNumber = false
}

func (w *lineWriter) VisitResult(result string) {
	w.writeToken(result + " ")
}

func (w *lineWriter) EndGame() {
	w.writeLine("")
}

// StringExporter renders a game as a string without a trailing newline.
type StringExporter struct {
	lineWriter
	lines []string
}

var _ game.Visitor = (*StringExporter)(nil)

// NewStringExporter returns an exporter using cfg, or the defaults when cfg
// is nil.
func NewStringExporter(cfg *config.ExportConfig) *StringExporter {
	e := &StringExporter{}
	e.lineWriter = newLineWriter(cfg, func(line string) {
		e.lines = append(e.lines, line)
	})
	return e
}

// String returns the text written so far.
func (e *StringExporter) String() string {
	lines := e.lines
	if e.current != "" {
		lines = append(lines[:len(lines):len(lines)], rstrip(e.current))
	}
	return rstrip(strings.Join(lines, "\n"))
}

// Result returns String().
func (e *StringExporter) Result() any {
	return e.String()
}

// FileExporter writes games to an io.Writer, each followed by a blank line.
// The first write error is kept and returned by Err; later output is
// discarded.
type FileExporter struct {
	lineWriter
	w   io.Writer
	err error
}

var _ game.Visitor = (*FileExporter)(nil)

// NewFileExporter returns an exporter writing to w.
func NewFileExporter(w io.Writer, cfg *config.ExportConfig) *FileExporter {
	e := &FileExporter{w: w}
	e.lineWriter = newLineWriter(cfg, e.write)
	return e
}

func (e *FileExporter) write(line string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, line+"\n")
}

// Err returns the first write error.
func (e *FileExporter) Err() error {
	return e.err
}

// Result returns nil; the output went to the writer.
func (e *FileExporter) Result() any {
	return nil
}

// Export renders g with cfg.
func Export(g *game.Game, cfg *config.ExportConfig) (string, error) {
	e := NewStringExporter(cfg)
	if _, err := g.Accept(e); err != nil {
		return "", err
	}
	return e.String(), nil
}

// String renders g with the default settings.
func String(g *game.Game) (string, error) {
	return Export(g, nil)
}
