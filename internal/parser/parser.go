package parser

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	"github.com/lgbarn/pgn-tree-go/internal/errors"
	"github.com/lgbarn/pgn-tree-go/internal/game"
	"github.com/lgbarn/pgn-tree-go/internal/metrics"
)

// tagRegex matches a whole header line.
var tagRegex = regexp.MustCompile(`^\[([A-Za-z0-9_]+)\s+"(.*)"\]\s*$`)

// Parser reads games one at a time from PGN text.
type Parser struct {
	reader  *bufio.Reader
	logger  *zap.Logger
	factory game.PositionFactory
	metrics *metrics.Collector
	file    string
	lineNum int
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPositionFactory sets how starting positions are built from the
// Variant and FEN headers.
func WithPositionFactory(f game.PositionFactory) Option {
	return func(p *Parser) {
		if f != nil {
			p.factory = f
		}
	}
}

// WithMetrics counts games, moves and errors on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Parser) {
		p.metrics = c
	}
}

// WithFileName names the input in error messages.
func WithFileName(name string) Option {
	return func(p *Parser) {
		p.file = name
	}
}

// NewParser returns a parser reading from r.
func NewParser(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		logger:  zap.NewNop(),
		factory: game.DefaultPositionFactory,
	}
	if br, ok := r.(*bufio.Reader); ok {
		p.reader = br
	} else {
		p.reader = bufio.NewReader(r)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LineNumber returns the number of lines read so far.
func (p *Parser) LineNumber() int {
	return p.lineNum
}

// ReadGame reads the next game into a tree. It returns nil, nil once the
// input holds no further game. Malformed movetext does not fail the call;
// it is recorded in the game's Errors.
func (p *Parser) ReadGame() (*game.Game, error) {
	b := game.NewBuilder(game.WithLogger(p.logger), game.WithPositionFactory(p.factory))
	_, found, err := p.ReadGameWith(b)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return b.Game(), nil
}

// ReadAll reads games until the input is exhausted.
func (p *Parser) ReadAll() ([]*game.Game, error) {
	var games []*game.Game
	for {
		g, err := p.ReadGame()
		if err != nil {
			return games, err
		}
		if g == nil {
			return games, nil
		}
		games = append(games, g)
	}
}

// ReadGameWith drives v through the next game and returns v.Result().
// found is false when the input held no further game. Parsing stops with
// an error when v.HandleError returns one or reading fails.
func (p *Parser) ReadGameWith(v game.Visitor) (result any, found bool, err error) {
	headers := chess.NewHeaders()

	line, ok, err := p.readLine()
	for err == nil && ok && (isBlank(line) || isEscape(line)) {
		line, ok, err = p.readLine()
	}
	if err != nil {
		return nil, false, err
	}

	for ok {
		if isEscape(line) {
			if line, ok, err = p.readLine(); err != nil {
				return nil, found, err
			}
			continue
		}
		m := tagRegex.FindStringSubmatch(line)
		if m == nil {
			break
		}
		if !found {
			found = true
			v.BeginGame()
			v.BeginHeaders()
		}
		// Bad tags are reported by the visitor; only FEN and Variant
		// matter here.
		_ = headers.Set(m[1], m[2])
		v.VisitHeader(m[1], m[2])
		if line, ok, err = p.readLine(); err != nil {
			return nil, found, err
		}
	}
	if found {
		v.EndHeaders()
	}
	if ok && isBlank(line) {
		if line, ok, err = p.readLine(); err != nil {
			return nil, found, err
		}
	}

	pos, err := p.factory(headers.Value(chess.VariantTag), headers.Value(chess.FENTag))
	if err != nil {
		p.logger.Debug("falling back to the standard start", zap.Error(err), zap.Int("line", p.lineNum))
		if herr := v.HandleError(fmt.Errorf("starting position: %w", err)); herr != nil {
			return nil, found, herr
		}
		if pos, err = game.DefaultPositionFactory("", ""); err != nil {
			return nil, found, err
		}
	}
	stack := []chess.Position{pos}

	// resumed is set while line holds the text after a closing brace. Such
	// a remainder is never an escape line nor the blank that ends a game.
	resumed := false
	offset := 0
	for ok {
		if !resumed {
			offset = 0
			if isEscape(line) {
				if line, ok, err = p.readLine(); err != nil {
					return nil, found, err
				}
				continue
			}
			if found && isBlank(line) {
				return p.endGame(v), true, nil
			}
		}
		resumed = false

		rest, restOffset, more, err := p.readMovetext(v, &stack, line, offset, &found)
		if err != nil {
			return nil, found, err
		}
		if more {
			line, offset = rest, restOffset
			resumed = true
			continue
		}
		if line, ok, err = p.readLine(); err != nil {
			return nil, found, err
		}
	}

	if !found {
		return nil, false, nil
	}
	return p.endGame(v), true, nil
}

// readMovetext feeds the tokens of one line to v. offset is the column of
// line within its physical line. When a brace comment closes partway
// through a line, more is set and rest holds the text after the brace.
func (p *Parser) readMovetext(v game.Visitor, stack *[]chess.Position, line string, offset int, found *bool) (rest string, restOffset int, more bool, err error) {
	lex := NewLexer(line)
	for {
		tok := lex.Next()
		if tok.Type == EOLToken {
			return "", 0, false, nil
		}
		tok.Col += offset
		if !*found {
			*found = true
			v.BeginGame()
		}

		switch tok.Type {
		case LineComment:
			return "", 0, false, nil
		case CommentOpen:
			comment, rest, restCol, sameLine, err := p.readComment(tok.Text)
			if err != nil {
				return "", 0, false, err
			}
			v.VisitComment(comment)
			if isBlank(rest) {
				return "", 0, false, nil
			}
			if sameLine {
				restCol += tok.Col
			}
			return rest, restCol, true, nil
		case NAGToken, Annotation:
			v.VisitNAG(tok.Value)
		case BadNAG:
			if err := p.handle(v, errors.ErrInvalidNAG, tok); err != nil {
				return "", 0, false, err
			}
		case RAVStart:
			top := (*stack)[len(*stack)-1]
			if len(top.Moves()) == 0 {
				continue
			}
			v.BeginVariation()
			prev := top.Copy()
			if _, err := prev.Pop(); err != nil {
				return "", 0, false, err
			}
			*stack = append(*stack, prev)
		case RAVEnd:
			if len(*stack) > 1 {
				v.EndVariation()
				*stack = (*stack)[:len(*stack)-1]
			}
		case MoveNumber:
		case ResultToken:
			if len(*stack) == 1 {
				v.VisitResult(tok.Text)
				continue
			}
			// Inside a variation a result is just another bad move.
			if err := p.playMove(v, (*stack)[len(*stack)-1], tok); err != nil {
				return "", 0, false, err
			}
		default:
			if err := p.playMove(v, (*stack)[len(*stack)-1], tok); err != nil {
				return "", 0, false, err
			}
		}
	}
}

// playMove resolves tok in pos, reports it to v and plays it. Tokens that
// do not resolve are passed to v.HandleError and dropped.
func (p *Parser) playMove(v game.Visitor, pos chess.Position, tok Token) error {
	m, err := pos.ParseSAN(tok.Text)
	if err != nil {
		return p.handle(v, err, tok)
	}
	v.VisitMove(pos, m)
	if err := pos.Push(m); err != nil {
		return p.handle(v, err, tok)
	}
	p.metrics.MoveParsed()
	return nil
}

func (p *Parser) handle(v game.Visitor, err error, tok Token) error {
	p.metrics.ParseError(errorKind(err))
	return v.HandleError(&errors.ParseError{
		Err:    err,
		File:   p.file,
		Line:   p.lineNum,
		Column: tok.Col,
		Token:  tok.Text,
	})
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, errors.ErrInvalidNAG):
		return "invalid_nag"
	case errors.Is(err, errors.ErrIllegalMove):
		return "illegal_move"
	default:
		return "invalid_move"
	}
}

// readComment collects a brace comment that starts with first and may run
// over several lines. It returns the trimmed comment and the text after the
// closing brace. restCol is where rest starts in the closing line, or in
// first when sameLine is set.
func (p *Parser) readComment(first string) (comment, rest string, restCol int, sameLine bool, err error) {
	var lines []string
	line := first
	sameLine = true
	for !strings.Contains(line, "}") {
		lines = append(lines, strings.TrimRightFunc(line, unicode.IsSpace))
		next, ok, err := p.readLine()
		if err != nil {
			return "", "", 0, false, err
		}
		if !ok {
			return strings.TrimSpace(strings.Join(lines, "\n")), "", 0, false, nil
		}
		line = next
		sameLine = false
	}
	end := strings.IndexByte(line, '}')
	lines = append(lines, line[:end])
	return strings.TrimSpace(strings.Join(lines, "\n")), line[end+1:], end + 1, sameLine, nil
}

func (p *Parser) endGame(v game.Visitor) any {
	v.EndGame()
	p.metrics.GameParsed()
	return v.Result()
}

// readLine returns the next line without its line ending. ok is false at
// the end of the input.
func (p *Parser) readLine() (line string, ok bool, err error) {
	line, err = p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, errors.Wrapf(err, "line %d", p.lineNum+1)
	}
	if line == "" && err == io.EOF {
		return "", false, nil
	}
	p.lineNum++
	return strings.TrimRight(line, "\r\n"), true, nil
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// isEscape reports lines the reader ignores outside comments: '%' escapes
// and whole-line ';' comments.
func isEscape(line string) bool {
	return strings.HasPrefix(line, "%") || strings.HasPrefix(line, ";")
}
