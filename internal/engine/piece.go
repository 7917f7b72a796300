package engine

import "github.com/lgbarn/pgn-tree-go/internal/chess"

// applyPieceMove applies a piece (non-pawn) move.
func applyPieceMove(board *chess.Board, move chess.Move) bool {
	colour := board.ToMove
	piece := board.Get(move.FromCol, move.FromRank)
	if piece != chess.MakeColouredPiece(colour, move.PieceToMove) {
		return false
	}
	captured := board.Get(move.ToCol, move.ToRank)

	board.Set(move.FromCol, move.FromRank, chess.Empty)
	board.Set(move.ToCol, move.ToRank, piece)

	switch move.PieceToMove {
	case chess.King:
		board.SetKing(colour, move.ToCol, move.ToRank)
		board.ClearCastling(colour)
	case chess.Rook:
		updateCastlingRightsForRook(board, colour, move.FromCol, move.FromRank)
	}
	noteCapture(board, captured, move.ToCol, move.ToRank)

	board.EnPassant = false
	if captured != chess.Empty {
		board.HalfmoveClock = 0
	} else {
		board.HalfmoveClock++
	}
	finishMove(board)
	return true
}

// pieceMoves generates the pseudo-legal moves of a knight, bishop, rook,
// queen or king on the given square. Castling is generated separately.
func pieceMoves(board *chess.Board, col chess.Col, rank chess.Rank, pieceType chess.Piece, colour chess.Colour) []chess.Move {
	var (
		dirs    [][2]int
		sliding bool
	)
	switch pieceType {
	case chess.Knight:
		dirs = knightOffsets
	case chess.King:
		dirs = kingOffsets
	case chess.Bishop:
		dirs, sliding = diagonalDirs, true
	case chess.Rook:
		dirs, sliding = straightDirs, true
	case chess.Queen:
		dirs, sliding = queenDirections, true
	default:
		return nil
	}

	var moves []chess.Move
	for _, dir := range dirs {
		toCol, toRank, ok := step(col, rank, dir)
		for ok {
			target := board.Get(toCol, toRank)
			if target != chess.Empty && !isEnemy(target, colour) {
				break
			}
			moves = append(moves, chess.Move{
				Class:         chess.PieceMove,
				FromCol:       col,
				FromRank:      rank,
				ToCol:         toCol,
				ToRank:        toRank,
				PieceToMove:   pieceType,
				PromotedPiece: chess.Empty,
			})
			if target != chess.Empty || !sliding {
				break
			}
			toCol, toRank, ok = step(toCol, toRank, dir)
		}
	}
	return moves
}
