package engine

import "github.com/lgbarn/pgn-tree-go/internal/chess"

var promotionPieces = []chess.Piece{chess.Queen, chess.Rook, chess.Bishop, chess.Knight}

// applyPawnMove applies a pawn move.
func applyPawnMove(board *chess.Board, move chess.Move) bool {
	colour := board.ToMove
	pawn := board.Get(move.FromCol, move.FromRank)
	if pawn != chess.MakeColouredPiece(colour, chess.Pawn) {
		return false
	}

	if move.Class == chess.EnPassantPawnMove {
		capturedRank := chess.Rank(int(move.ToRank) - chess.ColourOffset(colour))
		board.Set(move.ToCol, capturedRank, chess.Empty)
	}
	noteCapture(board, board.Get(move.ToCol, move.ToRank), move.ToCol, move.ToRank)

	board.Set(move.FromCol, move.FromRank, chess.Empty)
	if move.Class == chess.PawnMoveWithPromotion {
		board.Set(move.ToCol, move.ToRank, chess.MakeColouredPiece(colour, move.PromotedPiece))
	} else {
		board.Set(move.ToCol, move.ToRank, pawn)
	}

	// The en passant square is only recorded when an enemy pawn could use it,
	// so FENs and repetition keys match for otherwise equal positions.
	board.EnPassant = false
	if absRankDiff(move.FromRank, move.ToRank) == 2 {
		enemy := chess.MakeColouredPiece(colour.Opposite(), chess.Pawn)
		if board.Get(move.ToCol-1, move.ToRank) == enemy || board.Get(move.ToCol+1, move.ToRank) == enemy {
			board.EnPassant = true
			board.EPCol = move.ToCol
			board.EPRank = chess.Rank(int(move.FromRank) + chess.ColourOffset(colour))
		}
	}

	board.HalfmoveClock = 0
	finishMove(board)
	return true
}

func absRankDiff(a, b chess.Rank) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// pawnMoves generates the pseudo-legal moves of the pawn on the given square.
func pawnMoves(board *chess.Board, col chess.Col, rank chess.Rank, colour chess.Colour) []chess.Move {
	var moves []chess.Move
	dir := chess.ColourOffset(colour)
	lastRank := chess.HomeRank(colour.Opposite())

	add := func(toCol chess.Col, toRank chess.Rank, class chess.MoveClass) {
		m := chess.Move{
			Class:         class,
			FromCol:       col,
			FromRank:      rank,
			ToCol:         toCol,
			ToRank:        toRank,
			PieceToMove:   chess.Pawn,
			PromotedPiece: chess.Empty,
		}
		if toRank != lastRank {
			moves = append(moves, m)
			return
		}
		m.Class = chess.PawnMoveWithPromotion
		for _, p := range promotionPieces {
			m.PromotedPiece = p
			moves = append(moves, m)
		}
	}

	if toCol, toRank, ok := step(col, rank, [2]int{0, dir}); ok && board.Get(toCol, toRank) == chess.Empty {
		add(toCol, toRank, chess.PawnMove)
		startRank := chess.Rank(int(chess.HomeRank(colour)) + dir)
		if rank == startRank {
			if c2, r2, ok := step(toCol, toRank, [2]int{0, dir}); ok && board.Get(c2, r2) == chess.Empty {
				add(c2, r2, chess.PawnMove)
			}
		}
	}

	for _, dc := range []int{-1, 1} {
		toCol, toRank, ok := step(col, rank, [2]int{dc, dir})
		if !ok {
			continue
		}
		if isEnemy(board.Get(toCol, toRank), colour) {
			add(toCol, toRank, chess.PawnMove)
		} else if board.EnPassant && toCol == board.EPCol && toRank == board.EPRank {
			add(toCol, toRank, chess.EnPassantPawnMove)
		}
	}
	return moves
}

// isEnemy reports whether a square holds a piece of the opposing colour.
func isEnemy(piece chess.Piece, colour chess.Colour) bool {
	return piece != chess.Empty && piece != chess.Off && chess.ExtractColour(piece) != colour
}
