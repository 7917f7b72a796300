package chess

// Position is a chess position that can play moves forward and back.
// The game tree and PGN reader only ever talk to positions through this
// interface; internal/engine provides the implementation used by default.
type Position interface {
	// Push plays a move. Illegal moves are rejected with an error.
	Push(m Move) error
	// Pop undoes the last pushed move and returns it.
	Pop() (Move, error)
	// Copy returns an independent copy including the move history.
	Copy() Position

	Turn() Colour
	FullmoveNumber() uint
	// Moves returns the moves pushed so far, oldest first.
	Moves() []Move

	// ParseSAN resolves a SAN token such as "Nbd7", "exd8=Q+" or "O-O"
	// against the position.
	ParseSAN(san string) (Move, error)
	// SAN renders a legal move of this position in SAN with check suffix.
	SAN(m Move) string

	FEN() string
	// Result returns "1-0", "0-1", "1/2-1/2" or "*".
	Result() string

	IsCheck() bool
	IsCheckmate() bool
	IsStalemate() bool
	IsRepetition() bool
	IsFiftyMoves() bool
}
