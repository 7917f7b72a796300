package chess

// Move is a fully resolved move. Moves are plain values and compare with ==,
// which is how tree nodes look up their variations. The zero Move is the
// "no move" stored at the root of a game tree.
type Move struct {
	Class MoveClass

	FromCol  Col
	FromRank Rank
	ToCol    Col
	ToRank   Rank

	// The piece being moved, uncoloured.
	PieceToMove Piece

	// The piece promoted to, Empty if not a promotion.
	PromotedPiece Piece
}

// NullMoveValue is the move that passes the turn without moving a piece.
var NullMoveValue = Move{Class: NullMove, PromotedPiece: Empty}

// IsZero reports whether m is the zero "no move" value.
func (m Move) IsZero() bool {
	return m == Move{}
}

// IsNull returns true if this is a null move.
func (m Move) IsNull() bool {
	return m.Class == NullMove
}

// IsPromotion returns true if this move is a pawn promotion.
func (m Move) IsPromotion() bool {
	return m.Class == PawnMoveWithPromotion
}

// IsCastle returns true if this move is a castling move.
func (m Move) IsCastle() bool {
	return m.Class == KingsideCastle || m.Class == QueensideCastle
}

// UCI returns the move in long algebraic form, e.g. "e2e4", "e7e8q" or
// "0000" for the null move. Castling is written as the king's two-square
// step.
func (m Move) UCI() string {
	if m.IsNull() {
		return "0000"
	}
	if m.IsZero() {
		return ""
	}
	buf := []byte{byte(m.FromCol), byte(m.FromRank), byte(m.ToCol), byte(m.ToRank)}
	if m.IsPromotion() {
		buf = append(buf, m.PromotedPiece.Letter()+('a'-'A'))
	}
	return string(buf)
}

// String implements fmt.Stringer.
func (m Move) String() string {
	return m.UCI()
}
