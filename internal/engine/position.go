package engine

import (
	"fmt"
	"strings"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	"github.com/lgbarn/pgn-tree-go/internal/errors"
)

// undo remembers a played move and the board as it was before it.
type undo struct {
	move  chess.Move
	state chess.BoardState
}

// Position is the default chess.Position. The board is mutated in place;
// each Push saves a snapshot so Pop can restore it exactly.
type Position struct {
	board *chess.Board
	stack []undo
}

var _ chess.Position = (*Position)(nil)

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	return &Position{board: NewInitialBoard()}
}

// NewPositionFromFEN returns the position described by a FEN string.
func NewPositionFromFEN(fen string) (*Position, error) {
	board, err := NewBoardFromFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Position{board: board}, nil
}

// NewPositionForVariant builds the starting position of a game from its
// Variant and FEN headers. Standard chess and Chess960 are supported; an
// empty fen means the standard starting position.
func NewPositionForVariant(variant, fen string) (chess.Position, error) {
	if !IsSupportedVariant(variant) {
		return nil, fmt.Errorf("%q: %w", variant, errors.ErrUnsupportedVariant)
	}
	if fen == "" {
		return NewPosition(), nil
	}
	return NewPositionFromFEN(fen)
}

// IsSupportedVariant reports whether a Variant header names standard chess
// or Chess960.
func IsSupportedVariant(variant string) bool {
	switch strings.ToLower(strings.TrimSpace(variant)) {
	case "", "standard", "chess", "normal", "from position", "from_position",
		"chess960", "chess 960", "960", "fischerandom", "fischerrandom", "fischer random":
		return true
	}
	return false
}

// Board returns a copy of the underlying board.
func (p *Position) Board() *chess.Board {
	return p.board.Copy()
}

// Push plays a legal move, or a null move.
func (p *Position) Push(m chess.Move) error {
	if !m.IsNull() && !p.isLegal(m) {
		return fmt.Errorf("%s in %s: %w", m.UCI(), p.FEN(), errors.ErrIllegalMove)
	}
	p.push(m)
	return nil
}

func (p *Position) push(m chess.Move) {
	p.stack = append(p.stack, undo{move: m, state: p.board.SaveState()})
	ApplyMove(p.board, m)
}

func (p *Position) isLegal(m chess.Move) bool {
	for _, legal := range LegalMoves(p.board) {
		if legal == m {
			return true
		}
	}
	return false
}

// Pop undoes the last move.
func (p *Position) Pop() (chess.Move, error) {
	if len(p.stack) == 0 {
		return chess.Move{}, errors.ErrEmptyMoveStack
	}
	last := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.board.RestoreState(last.state)
	return last.move, nil
}

// Copy returns an independent copy, history included.
func (p *Position) Copy() chess.Position {
	return &Position{
		board: p.board.Copy(),
		stack: append([]undo(nil), p.stack...),
	}
}

func (p *Position) Turn() chess.Colour {
	return p.board.ToMove
}

func (p *Position) FullmoveNumber() uint {
	return p.board.MoveNumber
}

func (p *Position) Moves() []chess.Move {
	moves := make([]chess.Move, len(p.stack))
	for i, u := range p.stack {
		moves[i] = u.move
	}
	return moves
}

// LegalMoves returns the legal moves of the side to move.
func (p *Position) LegalMoves() []chess.Move {
	return LegalMoves(p.board)
}

// ParseSAN resolves a SAN token against the legal moves of the position.
// Errors leave the token out; callers attach it along with its location.
func (p *Position) ParseSAN(san string) (chess.Move, error) {
	if strings.Contains(san, "@") {
		return chess.Move{}, fmt.Errorf("drop in standard chess: %w", errors.ErrIllegalMove)
	}
	decoded := DecodeMove(san)
	switch decoded.Class {
	case chess.UnknownMove:
		return chess.Move{}, errors.ErrInvalidMove
	case chess.NullMove:
		return chess.NullMoveValue, nil
	}

	var found []chess.Move
	for _, m := range LegalMoves(p.board) {
		if matchesDecoded(m, decoded) {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 0:
		return chess.Move{}, fmt.Errorf("not legal in %s: %w", p.FEN(), errors.ErrIllegalMove)
	case 1:
		return found[0], nil
	default:
		return chess.Move{}, fmt.Errorf("ambiguous in %s: %w", p.FEN(), errors.ErrInvalidMove)
	}
}

// SAN renders a move of this position in SAN, including the check or mate
// suffix.
func (p *Position) SAN(m chess.Move) string {
	san := p.sanWithoutSuffix(m)
	if m.IsNull() || m.IsZero() {
		return san
	}
	after := p.board.Copy()
	if !ApplyMove(after, m) {
		return san
	}
	if IsInCheck(after, after.ToMove) {
		if HasLegalMoves(after) {
			return san + "+"
		}
		return san + "#"
	}
	return san
}

func (p *Position) sanWithoutSuffix(m chess.Move) string {
	switch {
	case m.IsNull():
		return chess.NullMoveString
	case m.Class == chess.KingsideCastle:
		return "O-O"
	case m.Class == chess.QueensideCastle:
		return "O-O-O"
	case m.IsZero():
		return ""
	}

	var sb strings.Builder
	capture := p.board.Get(m.ToCol, m.ToRank) != chess.Empty || m.Class == chess.EnPassantPawnMove

	if m.PieceToMove == chess.Pawn {
		if capture {
			sb.WriteByte(byte(m.FromCol))
		}
	} else {
		sb.WriteByte(m.PieceToMove.Letter())
		sb.WriteString(p.disambiguation(m))
	}
	if capture {
		sb.WriteByte('x')
	}
	sb.WriteByte(byte(m.ToCol))
	sb.WriteByte(byte(m.ToRank))
	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte(m.PromotedPiece.Letter())
	}
	return sb.String()
}

// disambiguation returns the file, rank or square needed to tell m apart
// from other legal moves of the same piece type to the same square.
func (p *Position) disambiguation(m chess.Move) string {
	var rivals []chess.Move
	for _, other := range LegalMoves(p.board) {
		if other != m && !other.IsCastle() && other.PieceToMove == m.PieceToMove &&
			other.ToCol == m.ToCol && other.ToRank == m.ToRank {
			rivals = append(rivals, other)
		}
	}
	if len(rivals) == 0 {
		return ""
	}

	sameCol, sameRank := false, false
	for _, r := range rivals {
		if r.FromCol == m.FromCol {
			sameCol = true
		}
		if r.FromRank == m.FromRank {
			sameRank = true
		}
	}
	switch {
	case !sameCol:
		return string(rune(m.FromCol))
	case !sameRank:
		return string(rune(m.FromRank))
	default:
		return string([]byte{byte(m.FromCol), byte(m.FromRank)})
	}
}

func (p *Position) FEN() string {
	return BoardToFEN(p.board)
}

// Result returns the game result forced by the position: checkmate,
// stalemate, insufficient material, the seventy-five move rule and
// fivefold repetition end the game. Anything else is "*".
func (p *Position) Result() string {
	if IsCheckmate(p.board) {
		if p.board.ToMove == chess.White {
			return "0-1"
		}
		return "1-0"
	}
	if IsStalemate(p.board) || HasInsufficientMaterial(p.board) ||
		p.board.HalfmoveClock >= 150 || p.repetitions() >= 5 {
		return "1/2-1/2"
	}
	return "*"
}

func (p *Position) IsCheck() bool {
	return IsInCheck(p.board, p.board.ToMove)
}

func (p *Position) IsCheckmate() bool {
	return IsCheckmate(p.board)
}

func (p *Position) IsStalemate() bool {
	return IsStalemate(p.board)
}

// IsRepetition reports whether the current position has occurred at least
// three times.
func (p *Position) IsRepetition() bool {
	return p.repetitions() >= 3
}

// IsFiftyMoves reports whether fifty moves have passed without a pawn move
// or capture while the game can still go on.
func (p *Position) IsFiftyMoves() bool {
	return p.board.HalfmoveClock >= 100 && HasLegalMoves(p.board)
}

// repetitions counts how often the current position occurs in the history,
// itself included.
func (p *Position) repetitions() int {
	key := positionKey(p.board)
	count := 1
	scratch := chess.NewBoard()
	for i := len(p.stack) - 1; i >= 0; i-- {
		scratch.RestoreState(p.stack[i].state)
		if positionKey(scratch) == key {
			count++
		}
	}
	return count
}
