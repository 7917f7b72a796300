package game

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	"github.com/lgbarn/pgn-tree-go/internal/engine"
	pgnerrors "github.com/lgbarn/pgn-tree-go/internal/errors"
)

// feeder drives a visitor the way the parser does, keeping a stack of
// positions so VisitMove receives the right one.
type feeder struct {
	t     *testing.T
	v     Visitor
	stack []chess.Position
}

func newFeeder(t *testing.T, v Visitor) *feeder {
	return &feeder{t: t, v: v, stack: []chess.Position{engine.NewPosition()}}
}

func (f *feeder) moves(sans ...string) {
	f.t.Helper()
	for _, san := range sans {
		pos := f.stack[len(f.stack)-1]
		m, err := pos.ParseSAN(san)
		if err != nil {
			f.t.Fatalf("ParseSAN(%q): %v", san, err)
		}
		f.v.VisitMove(pos, m)
		if err := pos.Push(m); err != nil {
			f.t.Fatal(err)
		}
	}
}

func (f *feeder) begin() {
	f.t.Helper()
	pos := f.stack[len(f.stack)-1].Copy()
	if _, err := pos.Pop(); err != nil {
		f.t.Fatal(err)
	}
	f.stack = append(f.stack, pos)
	f.v.BeginVariation()
}

func (f *feeder) end() {
	f.stack = f.stack[:len(f.stack)-1]
	f.v.EndVariation()
}

func TestBuilder_Sicilian(t *testing.T) {
	b := NewBuilder()
	f := newFeeder(t, b)

	b.BeginGame()
	b.BeginHeaders()
	b.VisitHeader("White", "Kasparov")
	b.EndHeaders()
	b.VisitComment("Intro")
	f.moves("e4")
	b.VisitComment("good")
	f.moves("e5")
	f.begin()
	b.VisitComment("Sicilian")
	f.moves("c5")
	b.VisitNAG(chess.NAGGoodMove)
	f.moves("Nf3")
	f.end()
	f.moves("Nf3")
	b.VisitResult("*")
	b.EndGame()

	g := b.Result().(*Game)

	if got := g.Headers.Value(chess.WhiteTag); got != "Kasparov" {
		t.Errorf("White = %q; want Kasparov", got)
	}
	if g.Comment != "Intro" {
		t.Errorf("game comment = %q; want Intro", g.Comment)
	}
	e4 := g.Variations[0]
	if e4.Comment != "good" {
		t.Errorf("e4 comment = %q; want good", e4.Comment)
	}
	if diff := cmp.Diff([]string{"e5", "c5"}, sans(t, e4.Variations)); diff != "" {
		t.Fatalf("e4 variations mismatch (-want +got):\n%s", diff)
	}
	c5 := e4.Variations[1]
	if c5.StartingComment != "Sicilian" || c5.Comment != "" {
		t.Errorf("c5 starting comment %q, comment %q; want Sicilian and empty", c5.StartingComment, c5.Comment)
	}
	if diff := cmp.Diff([]int{chess.NAGGoodMove}, c5.NAGs()); diff != "" {
		t.Errorf("c5 NAGs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Nf3"}, sans(t, c5.Variations)); diff != "" {
		t.Errorf("c5 continuation mismatch (-want +got):\n%s", diff)
	}

	var main []string
	for node := &g.Node; !node.IsEnd(); {
		node = node.Variations[0]
		s, _ := node.SAN()
		main = append(main, s)
	}
	if diff := cmp.Diff([]string{"e4", "e5", "Nf3"}, main); diff != "" {
		t.Errorf("main line mismatch (-want +got):\n%s", diff)
	}
	if len(g.Errors) != 0 {
		t.Errorf("Errors = %v; want none", g.Errors)
	}
}

func TestBuilder_CommentRouting(t *testing.T) {
	t.Run("comments before any move join on the root", func(t *testing.T) {
		b := NewBuilder()
		b.VisitComment("  first ")
		b.VisitComment("second")
		if got := b.Game().Comment; got != "first\nsecond" {
			t.Errorf("game comment = %q", got)
		}
	})

	t.Run("comments after a move join on that move", func(t *testing.T) {
		b := NewBuilder()
		f := newFeeder(t, b)
		f.moves("d4")
		b.VisitComment("a")
		b.VisitComment("b")
		if got := b.Game().Variations[0].Comment; got != "a\nb" {
			t.Errorf("d4 comment = %q", got)
		}
	})

	t.Run("comment opening a variation waits for its move", func(t *testing.T) {
		b := NewBuilder()
		f := newFeeder(t, b)
		f.moves("d4")
		f.begin()
		b.VisitComment("or")
		b.VisitComment("instead")
		f.moves("e4")
		b.VisitComment("after")
		f.end()

		root := b.Game()
		if root.Variations[0].Comment != "" {
			t.Errorf("main move picked up %q", root.Variations[0].Comment)
		}
		side := root.Variations[1]
		if side.StartingComment != "or\ninstead" || side.Comment != "after" {
			t.Errorf("side starting comment %q, comment %q", side.StartingComment, side.Comment)
		}
	})
}

func TestBuilder_VisitResult(t *testing.T) {
	b := NewBuilder()
	b.VisitResult("1-0")
	b.VisitResult("0-1")
	if got := b.Game().Headers.Value(chess.ResultTag); got != "1-0" {
		t.Errorf("Result = %q; want 1-0", got)
	}

	b = NewBuilder()
	b.VisitHeader(chess.ResultTag, "1/2-1/2")
	b.VisitResult("*")
	if got := b.Game().Headers.Value(chess.ResultTag); got != "1/2-1/2" {
		t.Errorf("Result = %q; want 1/2-1/2", got)
	}
}

func TestBuilder_HandleError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b := NewBuilder(WithLogger(zap.New(core)))

	b.VisitHeader("Bad Key", "x")
	if err := b.HandleError(pgnerrors.ErrInvalidMove); err != nil {
		t.Errorf("HandleError() = %v; want nil", err)
	}

	errs := b.Game().Errors
	if len(errs) != 2 {
		t.Fatalf("Errors = %v; want 2 entries", errs)
	}
	if !errors.Is(errs[0], pgnerrors.ErrInvalidHeader) {
		t.Errorf("Errors[0] = %v; want ErrInvalidHeader", errs[0])
	}
	if !errors.Is(errs[1], pgnerrors.ErrInvalidMove) {
		t.Errorf("Errors[1] = %v; want ErrInvalidMove", errs[1])
	}
	if got := logs.Len(); got != 2 {
		t.Errorf("logged %d entries; want 2", got)
	}
}

func TestStrictBuilder(t *testing.T) {
	b := NewStrictBuilder()
	var v Visitor = b
	if err := v.HandleError(pgnerrors.ErrIllegalMove); !errors.Is(err, pgnerrors.ErrIllegalMove) {
		t.Errorf("HandleError() = %v; want ErrIllegalMove", err)
	}
	if len(b.Game().Errors) != 0 {
		t.Errorf("strict builder recorded %v", b.Game().Errors)
	}
}

func TestBuilder_PositionFactory(t *testing.T) {
	const fen = "4k3/8/8/8/8/8/8/R3K3 w - - 0 1"
	b := NewBuilder(WithPositionFactory(func(variant, _ string) (chess.Position, error) {
		return engine.NewPositionForVariant(variant, fen)
	}))
	pos, err := b.Game().Board()
	if err != nil {
		t.Fatal(err)
	}
	if pos.FEN() != fen {
		t.Errorf("Board().FEN() = %q; want %q", pos.FEN(), fen)
	}
}
