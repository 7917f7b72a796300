package engine

import "github.com/lgbarn/pgn-tree-go/internal/chess"

// isCol returns true if c is a valid column (file) character.
func isCol(c byte) bool {
	return c >= chess.FirstCol && c <= chess.LastCol
}

// isRank returns true if c is a valid rank character.
func isRank(c byte) bool {
	return c >= chess.FirstRank && c <= chess.LastRank
}

// isPiece returns the piece named by a SAN piece letter. Lower case b is a
// file, never a bishop, so only the upper case letter counts here.
func isPiece(c byte) chess.Piece {
	switch c {
	case 'K':
		return chess.King
	case 'Q':
		return chess.Queen
	case 'R':
		return chess.Rook
	case 'N':
		return chess.Knight
	case 'B':
		return chess.Bishop
	}
	return chess.Empty
}

// isPromotionPiece accepts the promotion letters of either case.
func isPromotionPiece(c byte) chess.Piece {
	switch c {
	case 'q', 'r', 'n', 'b', 'k':
		return isPiece(c - ('a' - 'A'))
	}
	return isPiece(c)
}

// isCapture returns true if c is a capture or separator character.
func isCapture(c byte) bool {
	return c == 'x' || c == 'X' || c == ':' || c == '-'
}

// isCastlingChar returns true if c is a castling character.
func isCastlingChar(c byte) bool {
	return c == 'O' || c == '0' || c == 'o'
}

// isCheck returns true if c is a check indicator.
func isCheck(c byte) bool {
	return c == '+' || c == '#'
}

// DecodeMove reads the shape of a SAN token without looking at a board.
// Squares the text leaves out stay zero. The result has Class UnknownMove
// when the text is not a move.
func DecodeMove(moveString string) chess.Move {
	var move chess.Move
	move.PromotedPiece = chess.Empty
	ok := true

	var col chess.Col
	var rank chess.Rank
	pos := 0

	currentChar := func() byte {
		if pos >= len(moveString) {
			return 0
		}
		return moveString[pos]
	}
	advance := func() {
		if pos < len(moveString) {
			pos++
		}
	}
	// readTarget reads the mandatory destination square.
	readTarget := func() {
		if !isCol(currentChar()) {
			ok = false
			return
		}
		move.ToCol = chess.Col(currentChar())
		advance()
		if !isRank(currentChar()) {
			ok = false
			return
		}
		move.ToRank = chess.Rank(currentChar())
		advance()
	}

	switch {
	case moveString == chess.NullMoveString || moveString == "Z0" || moveString == "0000":
		return chess.NullMoveValue

	case isCol(currentChar()):
		move.Class = chess.PawnMove
		move.PieceToMove = chess.Pawn
		col = chess.Col(currentChar())
		advance()

		if isRank(currentChar()) {
			// e4, e2e4, e2-e4
			rank = chess.Rank(currentChar())
			advance()
			if isCapture(currentChar()) {
				advance()
			}
			if isCol(currentChar()) {
				move.FromCol, move.FromRank = col, rank
				readTarget()
			} else {
				move.ToCol, move.ToRank = col, rank
			}
		} else {
			// exd5, ed5
			if isCapture(currentChar()) {
				advance()
			}
			move.FromCol = col
			readTarget()
			if ok && move.FromCol != move.ToCol+1 && move.FromCol+1 != move.ToCol {
				ok = false
			}
		}

		if ok {
			if currentChar() == '=' {
				advance()
			}
			if piece := isPromotionPiece(currentChar()); piece != chess.Empty && piece != chess.King {
				move.Class = chess.PawnMoveWithPromotion
				move.PromotedPiece = piece
				advance()
			} else if piece == chess.King {
				ok = false
			}
		}

	case isPiece(currentChar()) != chess.Empty:
		move.Class = chess.PieceMove
		move.PieceToMove = isPiece(currentChar())
		advance()

		switch {
		case isRank(currentChar()):
			// R1e1, R1xe3
			move.FromRank = chess.Rank(currentChar())
			advance()
			if isCapture(currentChar()) {
				advance()
			}
			readTarget()
		case isCapture(currentChar()):
			// Rxe1
			advance()
			readTarget()
		case isCol(currentChar()):
			col = chess.Col(currentChar())
			advance()
			if isCapture(currentChar()) {
				// Raxe1
				advance()
				move.FromCol = col
				readTarget()
				break
			}
			if isRank(currentChar()) {
				rank = chess.Rank(currentChar())
				advance()
				if isCapture(currentChar()) {
					advance()
				}
				if isCol(currentChar()) {
					// Re1d1, Re1xd1
					move.FromCol, move.FromRank = col, rank
					readTarget()
				} else {
					move.ToCol, move.ToRank = col, rank
				}
			} else {
				// Rae1
				move.FromCol = col
				readTarget()
			}
		default:
			ok = false
		}

	case isCastlingChar(currentChar()):
		advance()
		if currentChar() == '-' {
			advance()
		}
		if !isCastlingChar(currentChar()) {
			ok = false
			break
		}
		advance()
		move.Class = chess.KingsideCastle
		if currentChar() == '-' {
			advance()
			if !isCastlingChar(currentChar()) {
				ok = false
				break
			}
		}
		if isCastlingChar(currentChar()) {
			move.Class = chess.QueensideCastle
			advance()
		}
		move.PieceToMove = chess.King

	default:
		ok = false
	}

	if ok {
		for isCheck(currentChar()) {
			advance()
		}
		rest := moveString[pos:]
		switch {
		case rest == "":
		case (rest == "ep" || rest == "e.p.") && move.Class == chess.PawnMove:
			move.Class = chess.EnPassantPawnMove
		default:
			ok = false
		}
	}

	if !ok {
		return chess.Move{Class: chess.UnknownMove, PromotedPiece: chess.Empty}
	}
	return move
}

// matchesDecoded reports whether a legal move fits the shape read by
// DecodeMove.
func matchesDecoded(m, d chess.Move) bool {
	switch d.Class {
	case chess.KingsideCastle, chess.QueensideCastle:
		return m.Class == d.Class
	case chess.NullMove, chess.UnknownMove:
		return false
	}
	// e2e4 style text names both squares, so any piece may stand there.
	fullySpecified := d.PieceToMove == chess.Pawn && d.FromCol != 0 && d.FromRank != 0
	if !fullySpecified && (m.IsCastle() || m.PieceToMove != d.PieceToMove) {
		return false
	}
	if m.ToCol != d.ToCol || m.ToRank != d.ToRank {
		return false
	}
	if d.FromCol != 0 && m.FromCol != d.FromCol {
		return false
	}
	if d.FromRank != 0 && m.FromRank != d.FromRank {
		return false
	}
	if d.Class == chess.EnPassantPawnMove && m.Class != chess.EnPassantPawnMove {
		return false
	}
	return m.PromotedPiece == d.PromotedPiece
}
