package chess

// Board is a mailbox board holding everything needed to continue play from
// a position.
type Board struct {
	// board[col][rank] where col and rank are 0-11 (with hedge).
	Squares [Hedge + BoardSize + Hedge][Hedge + BoardSize + Hedge]Piece

	ToMove Colour

	// Fullmove number, starting at 1 and incremented after Black moves.
	MoveNumber uint

	// Rook starting columns for the four castling options, 0 when the right
	// is gone. Columns other than a and h come from Chess960 FENs.
	WKingCastle  Col
	WQueenCastle Col
	BKingCastle  Col
	BQueenCastle Col

	WKingCol  Col
	WKingRank Rank
	BKingCol  Col
	BKingRank Rank

	// Is en passant capture possible? If so then EPRank and EPCol have
	// the square on which this can be made.
	EnPassant bool
	EPRank    Rank
	EPCol     Col

	// Half moves since the last pawn move or capture.
	HalfmoveClock uint
}

// NewBoard creates a new empty board.
func NewBoard() *Board {
	b := &Board{
		ToMove:     White,
		MoveNumber: 1,
	}
	for col := 0; col < Hedge+BoardSize+Hedge; col++ {
		for rank := 0; rank < Hedge+BoardSize+Hedge; rank++ {
			if col >= Hedge && col < Hedge+BoardSize &&
				rank >= Hedge && rank < Hedge+BoardSize {
				b.Squares[col][rank] = Empty
			} else {
				b.Squares[col][rank] = Off
			}
		}
	}
	return b
}

// SetupInitialPosition sets up the standard chess starting position.
func (b *Board) SetupInitialPosition() {
	for col := Hedge; col < Hedge+BoardSize; col++ {
		for rank := Hedge; rank < Hedge+BoardSize; rank++ {
			b.Squares[col][rank] = Empty
		}
	}

	backRank := []Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 0; col < BoardSize; col++ {
		b.Squares[col+Hedge][Hedge] = W(backRank[col])
		b.Squares[col+Hedge][Hedge+1] = W(Pawn)
		b.Squares[col+Hedge][Hedge+6] = B(Pawn)
		b.Squares[col+Hedge][Hedge+7] = B(backRank[col])
	}

	b.WKingCol, b.WKingRank = 'e', '1'
	b.BKingCol, b.BKingRank = 'e', '8'

	b.WKingCastle, b.WQueenCastle = 'h', 'a'
	b.BKingCastle, b.BQueenCastle = 'h', 'a'

	b.ToMove = White
	b.MoveNumber = 1
	b.EnPassant = false
	b.HalfmoveClock = 0
}

// Get returns the piece at the given coordinates (using char coords 'a'-'h', '1'-'8').
func (b *Board) Get(col Col, rank Rank) Piece {
	c := ColConvert(col)
	r := RankConvert(rank)
	if c == 0 || r == 0 {
		return Off
	}
	return b.Squares[c][r]
}

// Set places a piece at the given coordinates.
func (b *Board) Set(col Col, rank Rank, piece Piece) {
	c := ColConvert(col)
	r := RankConvert(rank)
	if c != 0 && r != 0 {
		b.Squares[c][r] = piece
	}
}

// King returns the square of the king of the given colour, or zeros when
// that king is not on the board.
func (b *Board) King(colour Colour) (Col, Rank) {
	if colour == White {
		return b.WKingCol, b.WKingRank
	}
	return b.BKingCol, b.BKingRank
}

// SetKing records where the king of the given colour stands.
func (b *Board) SetKing(colour Colour, col Col, rank Rank) {
	if colour == White {
		b.WKingCol, b.WKingRank = col, rank
	} else {
		b.BKingCol, b.BKingRank = col, rank
	}
}

// CastleRook returns the rook column for the given castling option, or 0
// when the right has been lost.
func (b *Board) CastleRook(colour Colour, kingside bool) Col {
	switch {
	case colour == White && kingside:
		return b.WKingCastle
	case colour == White:
		return b.WQueenCastle
	case kingside:
		return b.BKingCastle
	default:
		return b.BQueenCastle
	}
}

// ClearCastling removes both castling rights of the given colour.
func (b *Board) ClearCastling(colour Colour) {
	if colour == White {
		b.WKingCastle, b.WQueenCastle = 0, 0
	} else {
		b.BKingCastle, b.BQueenCastle = 0, 0
	}
}

// Copy creates a deep copy of the board.
func (b *Board) Copy() *Board {
	newBoard := &Board{}
	*newBoard = *b
	return newBoard
}

// BoardState is a snapshot of a board. Positions take one before each
// move so that the move can be undone.
type BoardState Board

// SaveState captures the current board state for later restoration.
func (b *Board) SaveState() BoardState {
	return BoardState(*b)
}

// RestoreState restores the board to a previously saved state.
func (b *Board) RestoreState(s BoardState) {
	*b = Board(s)
}
