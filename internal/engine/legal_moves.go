package engine

import "github.com/lgbarn/pgn-tree-go/internal/chess"

// PseudoLegalMoves generates the moves of the side to move that follow the
// piece movement rules, without checking whether the mover's king is left
// in check.
func PseudoLegalMoves(board *chess.Board) []chess.Move {
	colour := board.ToMove
	var moves []chess.Move
	for col := chess.Col('a'); col <= 'h'; col++ {
		for rank := chess.Rank('1'); rank <= '8'; rank++ {
			piece := board.Get(col, rank)
			if piece == chess.Empty || piece == chess.Off || chess.ExtractColour(piece) != colour {
				continue
			}
			pieceType := chess.ExtractPiece(piece)
			if pieceType == chess.Pawn {
				moves = append(moves, pawnMoves(board, col, rank, colour)...)
			} else {
				moves = append(moves, pieceMoves(board, col, rank, pieceType, colour)...)
			}
		}
	}
	return append(moves, castleMoves(board)...)
}

// LegalMoves generates every legal move of the side to move.
func LegalMoves(board *chess.Board) []chess.Move {
	pseudo := PseudoLegalMoves(board)
	legal := pseudo[:0]
	for _, m := range pseudo {
		if tryMove(board, m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func HasLegalMoves(board *chess.Board) bool {
	for _, m := range PseudoLegalMoves(board) {
		if tryMove(board, m) {
			return true
		}
	}
	return false
}

// tryMove makes a move on a copied board and checks if it leaves the king in check.
func tryMove(board *chess.Board, m chess.Move) bool {
	testBoard := board.Copy()
	if !ApplyMove(testBoard, m) {
		return false
	}
	return !IsInCheck(testBoard, board.ToMove)
}
