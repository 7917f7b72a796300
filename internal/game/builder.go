package game

import (
	"strings"

	"go.uber.org/zap"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
)

// Builder is the Visitor that turns parser events into a game tree. It
// records recoverable errors on the game instead of stopping.
type Builder struct {
	game   *Game
	logger *zap.Logger

	// stack holds the node the next move attaches to, one entry per open
	// variation.
	stack []*Node

	startingComment string
	inVariation     bool
}

var _ Visitor = (*Builder)(nil)

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger logs recovered errors at debug level.
func WithLogger(logger *zap.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithPositionFactory sets the factory of the games the builder creates.
func WithPositionFactory(f PositionFactory) BuilderOption {
	return func(b *Builder) {
		b.game.SetPositionFactory(f)
	}
}

// NewBuilder returns a builder holding a fresh game with default headers.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		game:   New(),
		logger: zap.NewNop(),
	}
	b.stack = []*Node{&b.game.Node}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) top() *Node {
	return b.stack[len(b.stack)-1]
}

func (b *Builder) BeginGame() {}
func (b *Builder) BeginHeaders() {}
func (b *Builder) EndHeaders() {}
func (b *Builder) EndGame() {}

// VisitHeader stores the header. A bad name or value is recorded as an error.
func (b *Builder) VisitHeader(name, value string) {
	if err := b.game.Headers.Set(name, value); err != nil {
		_ = b.HandleError(err)
	}
}

// VisitMove attaches the move below the current node along with any comment
// seen before it.
func (b *Builder) VisitMove(_ chess.Position, m chess.Move) {
	node := b.top().AddVariation(m)
	node.StartingComment = b.startingComment
	b.startingComment = ""
	b.stack[len(b.stack)-1] = node
	b.inVariation = true
}

func (b *Builder) VisitNAG(nag int) {
	b.top().AddNAG(nag)
}

// VisitComment appends to the current node's comment once the variation has
// a move, or when nothing at all has been played yet. Otherwise the comment
// waits to become the starting comment of the next move.
func (b *Builder) VisitComment(comment string) {
	top := b.top()
	if b.inVariation || (top.parent == nil && top.IsEnd()) {
		top.Comment = joinComment(top.Comment, comment)
		return
	}
	b.startingComment = joinComment(b.startingComment, comment)
}

func joinComment(existing, comment string) string {
	return strings.TrimSpace(existing + "\n" + comment)
}

// BeginVariation makes the next move a sibling of the current one.
func (b *Builder) BeginVariation() {
	parent := b.top().parent
	if parent == nil {
		parent = b.top()
	}
	b.stack = append(b.stack, parent)
	b.inVariation = false
}

func (b *Builder) EndVariation() {
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

// VisitResult fills the Result header unless it already holds a decided
// result.
func (b *Builder) VisitResult(result string) {
	if current, ok := b.game.Headers.Get(chess.ResultTag); !ok || current == "*" {
		if err := b.game.Headers.Set(chess.ResultTag, result); err != nil {
			_ = b.HandleError(err)
		}
	}
}

// HandleError records the error on the game and lets parsing go on.
func (b *Builder) HandleError(err error) error {
	b.logger.Debug("recovered PGN error", zap.Error(err))
	b.game.Errors = append(b.game.Errors, err)
	return nil
}

// Result returns the *Game built so far.
func (b *Builder) Result() any {
	return b.game
}

// Game returns the game built so far.
func (b *Builder) Game() *Game {
	return b.game
}

// StrictBuilder builds a tree but stops at the first recoverable error.
type StrictBuilder struct {
	*Builder
}

var _ Visitor = (*StrictBuilder)(nil)

// NewStrictBuilder returns a fail-fast builder.
func NewStrictBuilder(opts ...BuilderOption) *StrictBuilder {
	return &StrictBuilder{Builder: NewBuilder(opts...)}
}

// HandleError returns the error unchanged so parsing aborts.
func (b *StrictBuilder) HandleError(err error) error {
	b.logger.Debug("PGN error", zap.Error(err))
	return err
}
