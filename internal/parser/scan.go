package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	"github.com/lgbarn/pgn-tree-go/internal/errors"
)

// lineReader reads lines while tracking the byte offset each one starts at.
type lineReader struct {
	r     *bufio.Reader
	start int64
	pos   int64
	err   error
}

// newLineReader counts offsets from the current position of r when it can
// seek, and from zero otherwise.
func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{r: bufio.NewReader(r)}
	if s, ok := r.(io.Seeker); ok {
		if off, err := s.Seek(0, io.SeekCurrent); err == nil {
			lr.start = off
			lr.pos = off
		}
	}
	return lr
}

func (lr *lineReader) next() (line string, start int64, ok bool) {
	if lr.err != nil {
		return "", 0, false
	}
	raw, err := lr.r.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			lr.err = errors.Wrapf(err, "offset %d", lr.pos)
		} else {
			lr.err = io.EOF
		}
		if raw == "" {
			return "", 0, false
		}
	}
	start = lr.pos
	lr.pos += int64(len(raw))
	return strings.TrimRight(raw, "\r\n"), start, true
}

func (lr *lineReader) failure() error {
	if lr.err == io.EOF {
		return nil
	}
	return lr.err
}

// inComment tracks whether a brace comment is still open after line.
func inComment(open bool, line string) bool {
	if (!open && strings.Contains(line, "{")) || (open && strings.Contains(line, "}")) {
		return strings.LastIndex(line, "{") > strings.LastIndex(line, "}")
	}
	return open
}

// HeaderScanner finds each game's offset and headers without reading its
// movetext into a tree. Header-like lines inside comments are not mistaken
// for a new game.
type HeaderScanner struct {
	lines     *lineReader
	inComment bool
	offset    int64
	headers   *chess.Headers
}

// ScanHeaders returns a scanner over r.
func ScanHeaders(r io.Reader) *HeaderScanner {
	return &HeaderScanner{lines: newLineReader(r)}
}

// Next advances to the next game and reports whether there was one.
func (s *HeaderScanner) Next() bool {
	var headers *chess.Headers
	var start int64
	for {
		line, pos, ok := s.lines.next()
		if !ok {
			break
		}
		if strings.HasPrefix(line, "%") {
			continue
		}
		if !s.inComment && strings.HasPrefix(line, "[") {
			if m := tagRegex.FindStringSubmatch(line); m != nil {
				if headers == nil {
					headers = chess.NewDefaultHeaders()
					start = pos
				}
				_ = headers.Set(m[1], m[2])
				continue
			}
		}
		s.inComment = inComment(s.inComment, line)
		if headers != nil {
			s.offset, s.headers = start, headers
			return true
		}
	}
	if headers != nil {
		s.offset, s.headers = start, headers
		return true
	}
	s.headers = nil
	return false
}

// Offset returns the byte offset of the current game's first header line.
func (s *HeaderScanner) Offset() int64 {
	return s.offset
}

// Headers returns the current game's headers, roster defaults included.
func (s *HeaderScanner) Headers() *chess.Headers {
	return s.headers
}

// BytesRead returns the number of bytes consumed so far.
func (s *HeaderScanner) BytesRead() int64 {
	return s.lines.pos - s.lines.start
}

// Err returns the first read error, if any.
func (s *HeaderScanner) Err() error {
	return s.lines.failure()
}

// OffsetScanner finds the offset of every game that begins with an Event
// header. It is cheaper than HeaderScanner when headers are not needed.
type OffsetScanner struct {
	lines     *lineReader
	inComment bool
	offset    int64
}

// ScanOffsets returns a scanner over r.
func ScanOffsets(r io.Reader) *OffsetScanner {
	return &OffsetScanner{lines: newLineReader(r)}
}

// Next advances to the next game and reports whether there was one.
func (s *OffsetScanner) Next() bool {
	for {
		line, pos, ok := s.lines.next()
		if !ok {
			return false
		}
		if !s.inComment && strings.HasPrefix(line, `[Event "`) {
			s.offset = pos
			return true
		}
		s.inComment = inComment(s.inComment, line)
	}
}

// Offset returns the byte offset of the current game.
func (s *OffsetScanner) Offset() int64 {
	return s.offset
}

// BytesRead returns the number of bytes consumed so far.
func (s *OffsetScanner) BytesRead() int64 {
	return s.lines.pos - s.lines.start
}

// Err returns the first read error, if any.
func (s *OffsetScanner) Err() error {
	return s.lines.failure()
}
