// Package game holds the PGN game tree: nodes with ordered variations, the
// visitor protocol that walks a tree in PGN order, and the Builder visitor
// that grows a tree from parser events.
package game

import (
	"fmt"
	"slices"
	"sort"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	"github.com/lgbarn/pgn-tree-go/internal/errors"
)

// Node is one position in a game tree, reached by playing Move from its
// parent. Variations[0] is the main line; the others are side variations
// in the order they were added.
type Node struct {
	parent *Node
	game   *Game // set on the root node only

	// Move leads from the parent to this node. Zero on the root.
	Move chess.Move

	// Comment follows the move.
	Comment string

	// StartingComment precedes the move. Only written for nodes that start
	// a side variation.
	StartingComment string

	Variations []*Node

	nags     map[int]struct{}
	position chess.Position
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Root follows parents up to the root of the tree.
func (n *Node) Root() *Node {
	node := n
	for node.parent != nil {
		node = node.parent
	}
	return node
}

// Game returns the game owning the tree, or nil for a detached tree.
func (n *Node) Game() *Game {
	return n.Root().game
}

// End follows the main line to its last node.
func (n *Node) End() *Node {
	node := n
	for len(node.Variations) > 0 {
		node = node.Variations[0]
	}
	return node
}

// IsEnd reports whether the node has no continuation.
func (n *Node) IsEnd() bool {
	return len(n.Variations) == 0
}

// StartsVariation reports whether the node begins a side variation. The
// root never does.
func (n *Node) StartsVariation() bool {
	if n.parent == nil || len(n.parent.Variations) == 0 {
		return false
	}
	return n.parent.Variations[0] != n
}

// IsMainLine reports whether every step from the root to this node follows
// the first variation.
func (n *Node) IsMainLine() bool {
	node := n
	for node.parent != nil {
		parent := node.parent
		if len(parent.Variations) == 0 || parent.Variations[0] != node {
			return false
		}
		node = parent
	}
	return true
}

// IsMainVariation reports whether the node is its parent's first
// variation. The root counts as main.
func (n *Node) IsMainVariation() bool {
	if n.parent == nil {
		return true
	}
	return len(n.parent.Variations) == 0 || n.parent.Variations[0] == n
}

// MainLine returns the moves of the main line following this node.
func (n *Node) MainLine() []chess.Move {
	var moves []chess.Move
	for node := n; len(node.Variations) > 0; {
		node = node.Variations[0]
		moves = append(moves, node.Move)
	}
	return moves
}

// Position returns the position after this node's move. The result is a
// copy the caller may modify freely.
func (n *Node) Position() (chess.Position, error) {
	return n.positionAt(true)
}

// positionAt replays moves from the root. Only the node asked for caches
// its position; ancestors are walked without filling their cache.
func (n *Node) positionAt(cache bool) (chess.Position, error) {
	if n.position != nil {
		return n.position.Copy(), nil
	}
	if n.parent == nil {
		return n.startPosition()
	}

	pos, err := n.parent.positionAt(false)
	if err != nil {
		return nil, err
	}
	if err := pos.Push(n.Move); err != nil {
		return nil, err
	}
	if !cache {
		return pos, nil
	}
	n.position = pos
	return pos.Copy(), nil
}

func (n *Node) startPosition() (chess.Position, error) {
	if n.game != nil {
		return n.game.Board()
	}
	return DefaultPositionFactory("", "")
}

// SAN returns the move leading to this node in SAN. The root has no move
// and returns "".
func (n *Node) SAN() (string, error) {
	if n.parent == nil {
		return "", nil
	}
	pos, err := n.parent.Position()
	if err != nil {
		return "", err
	}
	return pos.SAN(n.Move), nil
}

// NAGs returns the node's NAGs in ascending order, or nil when it has none.
func (n *Node) NAGs() []int {
	if len(n.nags) == 0 {
		return nil
	}
	nags := make([]int, 0, len(n.nags))
	for nag := range n.nags {
		nags = append(nags, nag)
	}
	sort.Ints(nags)
	return nags
}

// AddNAG adds a NAG. Adding one twice has no effect.
func (n *Node) AddNAG(nag int) {
	if n.nags == nil {
		n.nags = make(map[int]struct{})
	}
	n.nags[nag] = struct{}{}
}

// HasNAG reports whether the node carries the NAG.
func (n *Node) HasNAG(nag int) bool {
	_, ok := n.nags[nag]
	return ok
}

// RemoveNAG removes a NAG if present.
func (n *Node) RemoveNAG(nag int) {
	delete(n.nags, nag)
}

// Variation returns the child reached by the move.
func (n *Node) Variation(m chess.Move) (*Node, error) {
	if i := n.indexOf(m); i >= 0 {
		return n.Variations[i], nil
	}
	return nil, fmt.Errorf("move %s: %w", m.UCI(), errors.ErrVariationNotFound)
}

// VariationAt returns the child at the index. 0 is the main line.
func (n *Node) VariationAt(index int) (*Node, error) {
	if index < 0 || index >= len(n.Variations) {
		return nil, fmt.Errorf("index %d of %d: %w", index, len(n.Variations), errors.ErrVariationNotFound)
	}
	return n.Variations[index], nil
}

// HasVariation reports whether a child is reached by the move.
func (n *Node) HasVariation(m chess.Move) bool {
	return n.indexOf(m) >= 0
}

func (n *Node) indexOf(m chess.Move) int {
	return slices.IndexFunc(n.Variations, func(v *Node) bool { return v.Move == m })
}

// PromoteToMain moves the variation to the front, making it the main line.
func (n *Node) PromoteToMain(m chess.Move) error {
	i := n.indexOf(m)
	if i < 0 {
		return fmt.Errorf("promote %s: %w", m.UCI(), errors.ErrVariationNotFound)
	}
	v := n.Variations[i]
	copy(n.Variations[1:i+1], n.Variations[:i])
	n.Variations[0] = v
	return nil
}

// Promote swaps the variation with the one before it.
func (n *Node) Promote(m chess.Move) error {
	i := n.indexOf(m)
	if i < 0 {
		return fmt.Errorf("promote %s: %w", m.UCI(), errors.ErrVariationNotFound)
	}
	if i > 0 {
		n.Variations[i-1], n.Variations[i] = n.Variations[i], n.Variations[i-1]
	}
	return nil
}

// Demote swaps the variation with the one after it.
func (n *Node) Demote(m chess.Move) error {
	i := n.indexOf(m)
	if i < 0 {
		return fmt.Errorf("demote %s: %w", m.UCI(), errors.ErrVariationNotFound)
	}
	if i < len(n.Variations)-1 {
		n.Variations[i+1], n.Variations[i] = n.Variations[i], n.Variations[i+1]
	}
	return nil
}

// RemoveVariation detaches the variation and everything below it.
func (n *Node) RemoveVariation(m chess.Move) error {
	i := n.indexOf(m)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", m.UCI(), errors.ErrVariationNotFound)
	}
	n.Variations[i].parent = nil
	n.Variations = slices.Delete(n.Variations, i, i+1)
	return nil
}

// AddVariation appends a child for the move and returns it. The move is not
// checked against the position.
func (n *Node) AddVariation(m chess.Move) *Node {
	child := &Node{parent: n, Move: m}
	n.Variations = append(n.Variations, child)
	return child
}

// AddMainVariation adds a child for the move as the new main line.
func (n *Node) AddMainVariation(m chess.Move) *Node {
	child := n.AddVariation(m)
	copy(n.Variations[1:], n.Variations[:len(n.Variations)-1])
	n.Variations[0] = child
	return child
}

// AddLine appends a chain of children, one per move. The starting comment
// goes on the first new node; the comment and NAGs go on the last one,
// which is returned.
func (n *Node) AddLine(moves []chess.Move, comment, startingComment string, nags ...int) *Node {
	node := n
	for _, m := range moves {
		node = node.AddVariation(m)
		node.StartingComment = startingComment
		startingComment = ""
	}

	if node.Comment != "" && comment != "" {
		node.Comment += " " + comment
	} else if comment != "" {
		node.Comment = comment
	}
	for _, nag := range nags {
		node.AddNAG(nag)
	}
	return node
}
