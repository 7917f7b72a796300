package engine

import "github.com/lgbarn/pgn-tree-go/internal/chess"

// castleTargets returns the destination files of king and rook.
func castleTargets(kingside bool) (kingTo, rookTo chess.Col) {
	if kingside {
		return 'g', 'f'
	}
	return 'c', 'd'
}

// applyCastle applies a castling move. The king and rook are lifted before
// either is placed so Chess960 set-ups where they swap squares work.
func applyCastle(board *chess.Board, move chess.Move) bool {
	colour := board.ToMove
	kingside := move.Class == chess.KingsideCastle
	rank := chess.HomeRank(colour)
	kingFromCol, _ := board.King(colour)
	rookFromCol := board.CastleRook(colour, kingside)
	if rookFromCol == 0 {
		return false
	}
	kingToCol, rookToCol := castleTargets(kingside)

	king := board.Get(kingFromCol, rank)
	rook := board.Get(rookFromCol, rank)
	board.Set(kingFromCol, rank, chess.Empty)
	board.Set(rookFromCol, rank, chess.Empty)
	board.Set(kingToCol, rank, king)
	board.Set(rookToCol, rank, rook)

	board.SetKing(colour, kingToCol, rank)
	board.ClearCastling(colour)

	board.EnPassant = false
	board.HalfmoveClock++
	finishMove(board)
	return true
}

// castleMoves generates the castling moves available to the side to move.
func castleMoves(board *chess.Board) []chess.Move {
	colour := board.ToMove
	rank := chess.HomeRank(colour)
	kingCol, kingRank := board.King(colour)
	if kingRank != rank || board.Get(kingCol, rank) != chess.MakeColouredPiece(colour, chess.King) {
		return nil
	}
	if IsInCheck(board, colour) {
		return nil
	}

	var moves []chess.Move
	for _, kingside := range []bool{true, false} {
		rookCol := board.CastleRook(colour, kingside)
		if rookCol == 0 || board.Get(rookCol, rank) != chess.MakeColouredPiece(colour, chess.Rook) {
			continue
		}
		kingTo, rookTo := castleTargets(kingside)
		if !castlePathClear(board, rank, kingCol, rookCol, kingTo, rookTo) {
			continue
		}
		if !castlePathSafe(board, colour, rank, kingCol, kingTo) {
			continue
		}
		class := chess.QueensideCastle
		if kingside {
			class = chess.KingsideCastle
		}
		moves = append(moves, chess.Move{
			Class:         class,
			FromCol:       kingCol,
			FromRank:      rank,
			ToCol:         kingTo,
			ToRank:        rank,
			PieceToMove:   chess.King,
			PromotedPiece: chess.Empty,
		})
	}
	return moves
}

// castlePathClear checks that every square spanned by the king and rook
// journeys is empty apart from the two castling pieces themselves.
func castlePathClear(board *chess.Board, rank chess.Rank, kingCol, rookCol, kingTo, rookTo chess.Col) bool {
	lo, hi := kingCol, kingCol
	for _, c := range []chess.Col{rookCol, kingTo, rookTo} {
		lo, hi = min(lo, c), max(hi, c)
	}
	for c := lo; c <= hi; c++ {
		if c == kingCol || c == rookCol {
			continue
		}
		if board.Get(c, rank) != chess.Empty {
			return false
		}
	}
	return true
}

// castlePathSafe checks that no square the king crosses is attacked.
func castlePathSafe(board *chess.Board, colour chess.Colour, rank chess.Rank, kingCol, kingTo chess.Col) bool {
	lo, hi := min(kingCol, kingTo), max(kingCol, kingTo)
	for c := lo; c <= hi; c++ {
		if isSquareAttacked(board, c, rank, colour.Opposite()) {
			return false
		}
	}
	return true
}
