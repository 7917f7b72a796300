package game

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	pgnerrors "github.com/lgbarn/pgn-tree-go/internal/errors"
)

// move resolves SAN in the position after n.
func move(t *testing.T, n *Node, san string) chess.Move {
	t.Helper()
	pos, err := n.Position()
	if err != nil {
		t.Fatalf("Position(): %v", err)
	}
	m, err := pos.ParseSAN(san)
	if err != nil {
		t.Fatalf("ParseSAN(%q): %v", san, err)
	}
	return m
}

// line adds a chain of moves below n and returns the last node.
func line(t *testing.T, n *Node, sans ...string) *Node {
	t.Helper()
	for _, san := range sans {
		n = n.AddVariation(move(t, n, san))
	}
	return n
}

// sans renders the moves of the given children in SAN.
func sans(t *testing.T, nodes []*Node) []string {
	t.Helper()
	out := make([]string, len(nodes))
	for i, n := range nodes {
		s, err := n.SAN()
		if err != nil {
			t.Fatalf("SAN(): %v", err)
		}
		out[i] = s
	}
	return out
}

func TestNode_VariationOrdering(t *testing.T) {
	g := New()
	root := &g.Node
	e4 := move(t, root, "e4")
	d4 := move(t, root, "d4")
	c4 := move(t, root, "c4")
	root.AddVariation(e4)
	root.AddVariation(d4)
	root.AddVariation(c4)

	steps := []struct {
		name string
		op   func() error
		want []string
	}{
		{"promote to main", func() error { return root.PromoteToMain(c4) }, []string{"c4", "e4", "d4"}},
		{"promote", func() error { return root.Promote(d4) }, []string{"c4", "d4", "e4"}},
		{"promote at front", func() error { return root.Promote(c4) }, []string{"c4", "d4", "e4"}},
		{"demote", func() error { return root.Demote(c4) }, []string{"d4", "c4", "e4"}},
		{"demote at back", func() error { return root.Demote(e4) }, []string{"d4", "c4", "e4"}},
		{"remove", func() error { return root.RemoveVariation(c4) }, []string{"d4", "e4"}},
	}

	for _, step := range steps {
		if err := step.op(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if diff := cmp.Diff(step.want, sans(t, root.Variations)); diff != "" {
			t.Errorf("%s: variations mismatch (-want +got):\n%s", step.name, diff)
		}
	}
}

func TestNode_VariationNotFound(t *testing.T) {
	g := New()
	root := &g.Node
	line(t, root, "e4")
	missing := move(t, root, "d4")

	checks := map[string]error{
		"Variation":       func() error { _, err := root.Variation(missing); return err }(),
		"VariationAt":     func() error { _, err := root.VariationAt(3); return err }(),
		"VariationAt(-1)": func() error { _, err := root.VariationAt(-1); return err }(),
		"PromoteToMain":   root.PromoteToMain(missing),
		"Promote":         root.Promote(missing),
		"Demote":          root.Demote(missing),
		"RemoveVariation": root.RemoveVariation(missing),
	}
	for name, err := range checks {
		if !errors.Is(err, pgnerrors.ErrVariationNotFound) {
			t.Errorf("%s error = %v; want ErrVariationNotFound", name, err)
		}
	}

	if root.HasVariation(missing) {
		t.Error("HasVariation(d4) = true")
	}
	if !root.HasVariation(move(t, root, "e4")) {
		t.Error("HasVariation(e4) = false")
	}
	if v, err := root.VariationAt(0); err != nil || v != root.Variations[0] {
		t.Errorf("VariationAt(0) = %v, %v", v, err)
	}
}

func TestNode_AddMainVariation(t *testing.T) {
	g := New()
	root := &g.Node
	line(t, root, "e4")
	d4 := root.AddMainVariation(move(t, root, "d4"))

	if root.Variations[0] != d4 {
		t.Fatal("AddMainVariation did not put the node first")
	}
	if diff := cmp.Diff([]string{"d4", "e4"}, sans(t, root.Variations)); diff != "" {
		t.Errorf("variations mismatch (-want +got):\n%s", diff)
	}
}

func TestNode_AddLine(t *testing.T) {
	g := New()
	root := &g.Node

	pos, _ := root.Position()
	var moves []chess.Move
	for _, san := range []string{"e4", "e5", "Nf3"} {
		m, err := pos.ParseSAN(san)
		if err != nil {
			t.Fatal(err)
		}
		moves = append(moves, m)
		if err := pos.Push(m); err != nil {
			t.Fatal(err)
		}
	}

	last := root.AddLine(moves, "develops", "open game", chess.NAGGoodMove, chess.NAGGoodMove)
	if got := last.Comment; got != "develops" {
		t.Errorf("Comment = %q; want develops", got)
	}
	if diff := cmp.Diff([]int{chess.NAGGoodMove}, last.NAGs()); diff != "" {
		t.Errorf("NAGs mismatch (-want +got):\n%s", diff)
	}
	first := root.Variations[0]
	if first.StartingComment != "open game" {
		t.Errorf("first StartingComment = %q; want %q", first.StartingComment, "open game")
	}
	if first.Variations[0].StartingComment != "" {
		t.Error("starting comment copied past the first node")
	}
	if diff := cmp.Diff(moves, root.MainLine()); diff != "" {
		t.Errorf("MainLine mismatch (-want +got):\n%s", diff)
	}

	again := last.AddLine(nil, "again", "")
	if again != last || last.Comment != "develops again" {
		t.Errorf("empty AddLine comment = %q; want %q", last.Comment, "develops again")
	}
}

func TestNode_LineQueries(t *testing.T) {
	g := New()
	root := &g.Node
	e4 := line(t, root, "e4")
	e5 := line(t, e4, "e5")
	c5 := line(t, e4, "c5")
	nf3 := line(t, c5, "Nf3")

	tests := []struct {
		name     string
		node     *Node
		mainLine bool
		mainVar  bool
		starts   bool
	}{
		{"root", root, true, true, false},
		{"e4", e4, true, true, false},
		{"e5", e5, true, true, false},
		{"c5", c5, false, false, true},
		{"c5 Nf3", nf3, false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsMainLine(); got != tt.mainLine {
				t.Errorf("IsMainLine() = %v; want %v", got, tt.mainLine)
			}
			if got := tt.node.IsMainVariation(); got != tt.mainVar {
				t.Errorf("IsMainVariation() = %v; want %v", got, tt.mainVar)
			}
			if got := tt.node.StartsVariation(); got != tt.starts {
				t.Errorf("StartsVariation() = %v; want %v", got, tt.starts)
			}
		})
	}

	if nf3.Root() != root {
		t.Error("Root() did not reach the game root")
	}
	if nf3.Game() != g {
		t.Error("Game() did not return the owning game")
	}
	if root.End() != e5 || !e5.IsEnd() || e4.IsEnd() {
		t.Error("End()/IsEnd() disagree with the tree shape")
	}
}

func TestNode_PositionIsACopy(t *testing.T) {
	g := New()
	e4 := line(t, &g.Node, "e4")

	pos, err := e4.Position()
	if err != nil {
		t.Fatal(err)
	}
	want := pos.FEN()
	m, err := pos.ParseSAN("e5")
	if err != nil {
		t.Fatal(err)
	}
	if err := pos.Push(m); err != nil {
		t.Fatal(err)
	}

	again, err := e4.Position()
	if err != nil {
		t.Fatal(err)
	}
	if got := again.FEN(); got != want {
		t.Errorf("cached position changed: got %q; want %q", got, want)
	}
}

func TestNode_PositionOfIllegalMove(t *testing.T) {
	g := New()
	bad := g.AddVariation(chess.Move{
		Class: chess.PawnMove, FromCol: 'e', FromRank: '2', ToCol: 'e', ToRank: '5',
		PieceToMove: chess.Pawn, PromotedPiece: chess.Empty,
	})
	if _, err := bad.Position(); !errors.Is(err, pgnerrors.ErrIllegalMove) {
		t.Errorf("Position() error = %v; want ErrIllegalMove", err)
	}
}

func TestNode_SAN(t *testing.T) {
	g := New()
	e4 := line(t, &g.Node, "e4")
	nf6 := line(t, e4, "Nf6")

	if s, err := g.SAN(); err != nil || s != "" {
		t.Errorf("root SAN() = %q, %v; want empty", s, err)
	}
	if s, _ := nf6.SAN(); s != "Nf6" {
		t.Errorf("SAN() = %q; want Nf6", s)
	}
}

func TestNode_NAGs(t *testing.T) {
	n := &Node{}
	if nags := n.NAGs(); nags != nil {
		t.Errorf("NAGs of a bare node = %#v; want nil", nags)
	}
	n.AddNAG(14)
	n.AddNAG(1)
	n.AddNAG(14)
	if diff := cmp.Diff([]int{1, 14}, n.NAGs()); diff != "" {
		t.Errorf("NAGs mismatch (-want +got):\n%s", diff)
	}
	n.RemoveNAG(1)
	if n.HasNAG(1) || !n.HasNAG(14) {
		t.Errorf("after RemoveNAG(1): NAGs = %v", n.NAGs())
	}
	n.RemoveNAG(14)
	if nags := n.NAGs(); nags != nil {
		t.Errorf("NAGs after removing all = %#v; want nil", nags)
	}
}
