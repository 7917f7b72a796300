package chess

import (
	"testing"
)

func TestNewBoard(t *testing.T) {
	b := NewBoard()

	if b.ToMove != White {
		t.Errorf("ToMove = %v; want White", b.ToMove)
	}
	if b.MoveNumber != 1 {
		t.Errorf("MoveNumber = %d; want 1", b.MoveNumber)
	}
	for col := Col('a'); col <= 'h'; col++ {
		for rank := Rank('1'); rank <= '8'; rank++ {
			if got := b.Get(col, rank); got != Empty {
				t.Errorf("Get(%c, %c) = %v; want Empty", col, rank, got)
			}
		}
	}
	if got := b.Get('i', '1'); got != Off {
		t.Errorf("Get(i, 1) = %v; want Off", got)
	}
	if got := b.Get('a', '9'); got != Off {
		t.Errorf("Get(a, 9) = %v; want Off", got)
	}
}

func TestSetupInitialPosition(t *testing.T) {
	b := NewBoard()
	b.SetupInitialPosition()

	tests := []struct {
		name  string
		col   Col
		rank  Rank
		piece Piece
	}{
		{"white rook a1", 'a', '1', W(Rook)},
		{"white queen d1", 'd', '1', W(Queen)},
		{"white king e1", 'e', '1', W(King)},
		{"white pawn e2", 'e', '2', W(Pawn)},
		{"black pawn e7", 'e', '7', B(Pawn)},
		{"black knight g8", 'g', '8', B(Knight)},
		{"black king e8", 'e', '8', B(King)},
		{"empty e4", 'e', '4', Empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Get(tt.col, tt.rank); got != tt.piece {
				t.Errorf("Get(%c, %c) = %v; want %v", tt.col, tt.rank, got, tt.piece)
			}
		})
	}

	if col, rank := b.King(White); col != 'e' || rank != '1' {
		t.Errorf("King(White) = %c%c; want e1", col, rank)
	}
	if col, rank := b.King(Black); col != 'e' || rank != '8' {
		t.Errorf("King(Black) = %c%c; want e8", col, rank)
	}
	if got := b.CastleRook(White, true); got != 'h' {
		t.Errorf("CastleRook(White, kingside) = %c; want h", got)
	}
	if got := b.CastleRook(Black, false); got != 'a' {
		t.Errorf("CastleRook(Black, queenside) = %c; want a", got)
	}
}

func TestClearCastling(t *testing.T) {
	b := NewBoard()
	b.SetupInitialPosition()
	b.ClearCastling(White)

	if b.WKingCastle != 0 || b.WQueenCastle != 0 {
		t.Errorf("white rights = %c/%c; want none", b.WKingCastle, b.WQueenCastle)
	}
	if b.BKingCastle != 'h' || b.BQueenCastle != 'a' {
		t.Errorf("black rights = %c/%c; want h/a", b.BKingCastle, b.BQueenCastle)
	}
}

func TestBoardCopy(t *testing.T) {
	original := NewBoard()
	original.SetupInitialPosition()
	original.ToMove = Black
	original.MoveNumber = 5

	copied := original.Copy()
	copied.Set('e', '4', W(Pawn))
	copied.ToMove = White

	if got := original.Get('e', '4'); got != Empty {
		t.Errorf("original Get(e, 4) = %v after copy modification; want Empty", got)
	}
	if original.ToMove != Black {
		t.Errorf("original ToMove = %v after copy modification; want Black", original.ToMove)
	}
	if copied.MoveNumber != 5 {
		t.Errorf("copied MoveNumber = %d; want 5", copied.MoveNumber)
	}
}

func TestBoardSaveRestoreState(t *testing.T) {
	b := NewBoard()
	b.SetupInitialPosition()
	saved := b.SaveState()

	b.Set('e', '4', W(Pawn))
	b.Set('e', '2', Empty)
	b.ToMove = Black
	b.EnPassant = true
	b.EPCol, b.EPRank = 'e', '3'
	b.WKingCastle = 0
	b.HalfmoveClock = 7

	b.RestoreState(saved)

	if got := b.Get('e', '4'); got != Empty {
		t.Errorf("Get(e, 4) after restore = %v; want Empty", got)
	}
	if got := b.Get('e', '2'); got != W(Pawn) {
		t.Errorf("Get(e, 2) after restore = %v; want white pawn", got)
	}
	if b.ToMove != White || b.EnPassant || b.HalfmoveClock != 0 {
		t.Errorf("restore left ToMove=%v EnPassant=%v HalfmoveClock=%d", b.ToMove, b.EnPassant, b.HalfmoveClock)
	}
	if b.WKingCastle != 'h' {
		t.Errorf("WKingCastle after restore = %c; want h", b.WKingCastle)
	}
}

func TestColouredPieces(t *testing.T) {
	for _, p := range []Piece{Pawn, Knight, Bishop, Rook, Queen, King} {
		for _, c := range []Colour{White, Black} {
			cp := MakeColouredPiece(c, p)
			if ExtractPiece(cp) != p || ExtractColour(cp) != c {
				t.Errorf("round trip of %v %v gave %v %v", c, p, ExtractColour(cp), ExtractPiece(cp))
			}
		}
	}
}
