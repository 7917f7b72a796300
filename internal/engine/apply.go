package engine

import "github.com/lgbarn/pgn-tree-go/internal/chess"

// ApplyMove plays a resolved move on the board without checking legality.
// It returns false when the move does not fit the board at all.
func ApplyMove(board *chess.Board, move chess.Move) bool {
	switch move.Class {
	case chess.NullMove:
		applyNullMove(board)
		return true
	case chess.KingsideCastle, chess.QueensideCastle:
		return applyCastle(board, move)
	case chess.PawnMove, chess.PawnMoveWithPromotion, chess.EnPassantPawnMove:
		return applyPawnMove(board, move)
	case chess.PieceMove:
		return applyPieceMove(board, move)
	}
	return false
}

func applyNullMove(board *chess.Board) {
	board.EnPassant = false
	board.HalfmoveClock++
	finishMove(board)
}

// finishMove hands the turn over once the pieces have moved.
func finishMove(board *chess.Board) {
	if board.ToMove == chess.Black {
		board.MoveNumber++
	}
	board.ToMove = board.ToMove.Opposite()
}

// updateCastlingRightsForRook removes castling rights when a rook moves or is captured.
func updateCastlingRightsForRook(board *chess.Board, colour chess.Colour, col chess.Col, rank chess.Rank) {
	if rank != chess.HomeRank(colour) {
		return
	}
	if colour == chess.White {
		if col == board.WKingCastle {
			board.WKingCastle = 0
		}
		if col == board.WQueenCastle {
			board.WQueenCastle = 0
		}
	} else {
		if col == board.BKingCastle {
			board.BKingCastle = 0
		}
		if col == board.BQueenCastle {
			board.BQueenCastle = 0
		}
	}
}

// noteCapture updates castling rights when a rook is taken on its home square.
func noteCapture(board *chess.Board, captured chess.Piece, col chess.Col, rank chess.Rank) {
	if captured == chess.Empty || captured == chess.Off {
		return
	}
	if chess.ExtractPiece(captured) == chess.Rook {
		updateCastlingRightsForRook(board, chess.ExtractColour(captured), col, rank)
	}
}
