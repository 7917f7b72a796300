package game

import (
	"fmt"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	"github.com/lgbarn/pgn-tree-go/internal/engine"
)

// PositionFactory builds the starting position of a game from its Variant
// and FEN headers. An empty fen means the variant's usual start.
type PositionFactory func(variant, fen string) (chess.Position, error)

// DefaultPositionFactory plays standard chess and Chess960.
var DefaultPositionFactory PositionFactory = engine.NewPositionForVariant

// Game is the root of a game tree together with its headers and the errors
// recovered while it was parsed.
type Game struct {
	Node

	Headers *chess.Headers
	Errors  []error

	factory PositionFactory
}

// New returns an empty game with the seven tag roster filled with defaults.
func New() *Game {
	return newGame(chess.NewDefaultHeaders())
}

// NewWithoutRoster returns an empty game with no headers at all.
func NewWithoutRoster() *Game {
	return newGame(chess.NewHeaders())
}

func newGame(headers *chess.Headers) *Game {
	g := &Game{Headers: headers}
	g.Node.game = g
	return g
}

// FromPosition creates a game whose main line replays the move history of
// pos. The position itself is left untouched.
func FromPosition(pos chess.Position) (*Game, error) {
	start := pos.Copy()
	moves := start.Moves()
	for range moves {
		if _, err := start.Pop(); err != nil {
			return nil, err
		}
	}

	g := New()
	g.Setup(start)
	node := &g.Node
	for _, m := range moves {
		node = node.AddVariation(m)
	}
	if err := g.Headers.Set(chess.ResultTag, pos.Result()); err != nil {
		return nil, err
	}
	return g, nil
}

// SetPositionFactory replaces the factory used to build the starting
// position. nil restores the default.
func (g *Game) SetPositionFactory(f PositionFactory) {
	g.factory = f
}

// Board returns the starting position described by the FEN and Variant
// headers.
func (g *Game) Board() (chess.Position, error) {
	factory := g.factory
	if factory == nil {
		factory = DefaultPositionFactory
	}
	pos, err := factory(g.Headers.Value(chess.VariantTag), g.Headers.Value(chess.FENTag))
	if err != nil {
		return nil, fmt.Errorf("starting position: %w", err)
	}
	return pos, nil
}

// Setup makes pos the starting position: the FEN and SetUp headers are set,
// or removed when pos is the standard start.
func (g *Game) Setup(pos chess.Position) {
	fen := pos.FEN()
	if fen == engine.InitialFEN {
		g.Headers.Delete(chess.SetupTag)
		g.Headers.Delete(chess.FENTag)
		return
	}
	// Neither value can hold a line break, so Set cannot fail.
	_ = g.Headers.Set(chess.SetupTag, "1")
	_ = g.Headers.Set(chess.FENTag, fen)
}

// Accept walks the whole game, headers included, and returns the visitor's
// result.
func (g *Game) Accept(v Visitor) (any, error) {
	v.BeginGame()
	v.BeginHeaders()
	for _, name := range g.Headers.Keys() {
		v.VisitHeader(name, g.Headers.Value(name))
	}
	v.EndHeaders()

	if g.Comment != "" {
		v.VisitComment(g.Comment)
	}

	if err := g.Node.acceptFromStart(v); err != nil {
		return nil, err
	}

	v.VisitResult(g.result())
	v.EndGame()
	return v.Result(), nil
}

func (g *Game) result() string {
	if r, ok := g.Headers.Get(chess.ResultTag); ok {
		return r
	}
	return "*"
}

// Accept walks the movetext below this node in PGN order and returns the
// visitor's result. No header or game events are sent.
func (n *Node) Accept(v Visitor) (any, error) {
	if err := n.acceptFromStart(v); err != nil {
		return nil, err
	}
	return v.Result(), nil
}

// AcceptSubgame walks the tree below this node as a game of its own: the
// owning game's headers are sent with FEN and SetUp describing this node's
// position.
func (n *Node) AcceptSubgame(v Visitor) (any, error) {
	v.BeginGame()

	pos, err := n.Position()
	if err != nil {
		if err := v.HandleError(err); err != nil {
			return nil, err
		}
		pos = nil
	}

	setup := NewWithoutRoster()
	if pos != nil {
		setup.Setup(pos)
	}

	v.BeginHeaders()
	result := "*"
	if g := n.Game(); g != nil {
		for _, name := range g.Headers.Keys() {
			if name == chess.FENTag || name == chess.SetupTag {
				continue
			}
			v.VisitHeader(name, g.Headers.Value(name))
		}
		result = g.result()
	}
	for _, name := range setup.Headers.Keys() {
		v.VisitHeader(name, setup.Headers.Value(name))
	}
	v.EndHeaders()

	if pos != nil {
		if err := n.accept(v, pos); err != nil {
			return nil, err
		}
	}

	v.VisitResult(result)
	v.EndGame()
	return v.Result(), nil
}

func (n *Node) acceptFromStart(v Visitor) error {
	pos, err := n.Position()
	if err != nil {
		return v.HandleError(err)
	}
	return n.accept(v, pos)
}

// accept sends the main-line move first, then each side variation in full,
// then continues down the main line. pos is the position at n and is
// restored before returning.
func (n *Node) accept(v Visitor, pos chess.Position) error {
	if len(n.Variations) == 0 {
		return nil
	}

	main := n.Variations[0]
	v.VisitMove(pos, main.Move)
	visitAnnotations(v, main)

	for _, side := range n.Variations[1:] {
		v.BeginVariation()
		if side.StartingComment != "" {
			v.VisitComment(side.StartingComment)
		}
		v.VisitMove(pos, side.Move)
		visitAnnotations(v, side)
		if err := side.acceptAfter(v, pos); err != nil {
			return err
		}
		v.EndVariation()
	}

	return main.acceptAfter(v, pos)
}

// acceptAfter plays n's move on pos, walks below n and takes the move back.
// A move the position rejects is reported to the visitor and its subtree is
// skipped.
func (n *Node) acceptAfter(v Visitor, pos chess.Position) error {
	if err := pos.Push(n.Move); err != nil {
		return v.HandleError(err)
	}
	err := n.accept(v, pos)
	if _, popErr := pos.Pop(); err == nil {
		err = popErr
	}
	return err
}

func visitAnnotations(v Visitor, n *Node) {
	for _, nag := range n.NAGs() {
		v.VisitNAG(nag)
	}
	if n.Comment != "" {
		v.VisitComment(n.Comment)
	}
}
