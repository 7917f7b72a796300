package engine

import "github.com/lgbarn/pgn-tree-go/internal/chess"

// minorMaterial is what a side has besides its king when it has at most
// minor pieces.
type minorMaterial struct {
	knights      int
	lightBishops int
	darkBishops  int
}

func (m minorMaterial) count() int {
	return m.knights + m.lightBishops + m.darkBishops
}

// HasInsufficientMaterial reports whether neither side can ever mate:
// bare kings, a single minor piece against a bare king, or one bishop
// each on squares of the same colour.
func HasInsufficientMaterial(board *chess.Board) bool {
	var sides [2]minorMaterial
	for rank := chess.Rank(chess.FirstRank); rank <= chess.Rank(chess.LastRank); rank++ {
		for col := chess.Col(chess.FirstCol); col <= chess.Col(chess.LastCol); col++ {
			piece := board.Get(col, rank)
			if piece == chess.Empty || piece == chess.Off {
				continue
			}
			side := &sides[0]
			if chess.ExtractColour(piece) == chess.Black {
				side = &sides[1]
			}
			switch chess.ExtractPiece(piece) {
			case chess.King:
			case chess.Knight:
				side.knights++
			case chess.Bishop:
				if isLightSquare(col, rank) {
					side.lightBishops++
				} else {
					side.darkBishops++
				}
			default:
				return false
			}
		}
	}

	w, b := sides[0], sides[1]
	switch {
	case w.count()+b.count() <= 1:
		return true
	case w.count() == 1 && b.count() == 1 && w.knights == 0 && b.knights == 0:
		return w.lightBishops == b.lightBishops
	default:
		return false
	}
}

func isLightSquare(col chess.Col, rank chess.Rank) bool {
	return (int(col-chess.FirstCol)+int(rank-chess.FirstRank))%2 == 1
}
