package game

import (
	"github.com/lgbarn/pgn-tree-go/internal/chess"
)

// Visitor receives the events of a game in PGN order. Both the parser and
// Accept drive visitors, so a visitor can build a tree, export text or
// collect statistics without caring where the events come from.
//
// Events arrive in this order: BeginGame, BeginHeaders, VisitHeader...,
// EndHeaders, then movetext events (VisitMove, VisitNAG, VisitComment,
// properly nested BeginVariation/EndVariation), then VisitResult and
// EndGame. Result is called last to collect the visitor's product.
type Visitor interface {
	BeginGame()
	BeginHeaders()
	VisitHeader(name, value string)
	EndHeaders()

	// VisitMove is called with the position before the move. Visitors must
	// leave the position as they found it.
	VisitMove(pos chess.Position, m chess.Move)
	VisitComment(comment string)
	VisitNAG(nag int)
	BeginVariation()
	EndVariation()

	VisitResult(result string)
	EndGame()

	// HandleError is called for recoverable problems such as an unknown
	// move. Returning nil continues; returning an error aborts the walk
	// or parse with that error.
	HandleError(err error) error

	Result() any
}

// BaseVisitor implements every Visitor method as a no-op. Embed it and
// override the events you need.
type BaseVisitor struct{}

var _ Visitor = BaseVisitor{}

func (BaseVisitor) BeginGame() {}
func (BaseVisitor) BeginHeaders() {}
func (BaseVisitor) VisitHeader(name, value string) {}
func (BaseVisitor) EndHeaders() {}
func (BaseVisitor) VisitMove(_ chess.Position, _ chess.Move) {}
func (BaseVisitor) VisitComment(comment string) {}
func (BaseVisitor) VisitNAG(nag int) {}
func (BaseVisitor) BeginVariation() {}
func (BaseVisitor) EndVariation() {}
func (BaseVisitor) VisitResult(result string) {}
func (BaseVisitor) EndGame() {}

// HandleError returns the error, stopping at the first problem.
func (BaseVisitor) HandleError(err error) error { return err }

// Result returns nil.
func (BaseVisitor) Result() any { return nil }
