// Package engine implements chess.Position on the mailbox board: FEN
// reading and writing, legal move generation, SAN parsing and rendering,
// and end-of-game detection.
package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
	"github.com/lgbarn/pgn-tree-go/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ColouredPieceToFENLetter returns the FEN letter for a coloured piece.
func ColouredPieceToFENLetter(colouredPiece chess.Piece) byte {
	letter := chess.ExtractPiece(colouredPiece).Letter()
	if chess.ExtractColour(colouredPiece) == chess.Black {
		letter = byte(unicode.ToLower(rune(letter)))
	}
	return letter
}

// NewBoardFromFEN creates a board from a FEN string. Missing trailing fields
// take their starting-position defaults.
func NewBoardFromFEN(fen string) (*chess.Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 1 || len(parts) > 6 {
		return nil, fmt.Errorf("%q has %d fields: %w", fen, len(parts), errors.ErrInvalidFEN)
	}

	board := chess.NewBoard()

	if err := parsePiecePositions(board, parts[0]); err != nil {
		return nil, err
	}
	if err := parseSideToMove(board, parts); err != nil {
		return nil, err
	}
	if err := parseCastlingRights(board, parts); err != nil {
		return nil, err
	}
	if err := parseEnPassant(board, parts); err != nil {
		return nil, err
	}
	if err := parseClocks(board, parts); err != nil {
		return nil, err
	}

	return board, nil
}

// parsePiecePositions parses the piece placement field of a FEN string.
func parsePiecePositions(board *chess.Board, positions string) error {
	ranks := strings.Split(positions, "/")
	if len(ranks) != chess.BoardSize {
		return fmt.Errorf("expected 8 ranks, got %d: %w", len(ranks), errors.ErrInvalidFEN)
	}

	for i, row := range ranks {
		rank := chess.Rank(chess.LastRank - i)
		col := chess.Col('a')
		for _, c := range row {
			switch {
			case c >= '1' && c <= '8':
				col += chess.Col(c - '0')
			default:
				piece := chess.PieceFromLetter(byte(c))
				if piece == chess.Empty || c > unicode.MaxASCII {
					return fmt.Errorf("invalid piece character %q: %w", c, errors.ErrInvalidFEN)
				}
				if col > 'h' {
					return fmt.Errorf("rank %c overflows: %w", rank, errors.ErrInvalidFEN)
				}

				colour := chess.White
				if unicode.IsLower(c) {
					colour = chess.Black
				}
				board.Set(col, rank, chess.MakeColouredPiece(colour, piece))
				if piece == chess.King {
					board.SetKing(colour, col, rank)
				}
				col++
			}
		}
		if col != 'h'+1 {
			return fmt.Errorf("rank %c has %d squares: %w", rank, int(col-'a'), errors.ErrInvalidFEN)
		}
	}
	return nil
}

// parseSideToMove parses the side to move field.
func parseSideToMove(board *chess.Board, parts []string) error {
	if len(parts) < 2 {
		return nil
	}
	switch parts[1] {
	case "w":
		board.ToMove = chess.White
	case "b":
		board.ToMove = chess.Black
	default:
		return fmt.Errorf("invalid side to move: %s: %w", parts[1], errors.ErrInvalidFEN)
	}
	return nil
}

// parseCastlingRights parses the castling availability field, accepting
// both KQkq and Shredder-style rook files.
func parseCastlingRights(board *chess.Board, parts []string) error {
	board.WKingCastle = 0
	board.WQueenCastle = 0
	board.BKingCastle = 0
	board.BQueenCastle = 0

	if len(parts) < 3 {
		// A bare placement gets the rights its rooks and kings allow.
		for _, colour := range []chess.Colour{chess.White, chess.Black} {
			home := chess.HomeRank(colour)
			if board.Get('e', home) != chess.MakeColouredPiece(colour, chess.King) {
				continue
			}
			rook := chess.MakeColouredPiece(colour, chess.Rook)
			if board.Get('h', home) == rook {
				setCastleRook(board, colour, true, 'h')
			}
			if board.Get('a', home) == rook {
				setCastleRook(board, colour, false, 'a')
			}
		}
		return nil
	}
	if parts[2] == "-" {
		return nil
	}

	for _, c := range parts[2] {
		switch {
		case c == 'K':
			board.WKingCastle = outermostRook(board, chess.White, true)
		case c == 'Q':
			board.WQueenCastle = outermostRook(board, chess.White, false)
		case c == 'k':
			board.BKingCastle = outermostRook(board, chess.Black, true)
		case c == 'q':
			board.BQueenCastle = outermostRook(board, chess.Black, false)
		case c >= 'A' && c <= 'H':
			col := chess.Col(unicode.ToLower(c))
			setCastleRook(board, chess.White, col > board.WKingCol, col)
		case c >= 'a' && c <= 'h':
			col := chess.Col(c)
			setCastleRook(board, chess.Black, col > board.BKingCol, col)
		default:
			return fmt.Errorf("invalid castling field %q: %w", parts[2], errors.ErrInvalidFEN)
		}
	}
	return nil
}

// outermostRook finds the rook furthest from the king on the given side,
// which is what K and Q mean in a Chess960 FEN. Standard positions always
// resolve to h and a.
func outermostRook(board *chess.Board, colour chess.Colour, kingside bool) chess.Col {
	home := chess.HomeRank(colour)
	rook := chess.MakeColouredPiece(colour, chess.Rook)
	kingCol, _ := board.King(colour)
	if kingside {
		for col := chess.Col('h'); col > kingCol; col-- {
			if board.Get(col, home) == rook {
				return col
			}
		}
		return 'h'
	}
	for col := chess.Col('a'); col < kingCol; col++ {
		if board.Get(col, home) == rook {
			return col
		}
	}
	return 'a'
}

func setCastleRook(board *chess.Board, colour chess.Colour, kingside bool, col chess.Col) {
	switch {
	case colour == chess.White && kingside:
		board.WKingCastle = col
	case colour == chess.White:
		board.WQueenCastle = col
	case kingside:
		board.BKingCastle = col
	default:
		board.BQueenCastle = col
	}
}

// parseEnPassant parses the en passant target square field.
func parseEnPassant(board *chess.Board, parts []string) error {
	board.EnPassant = false
	if len(parts) < 4 || parts[3] == "-" {
		return nil
	}
	sq := parts[3]
	if len(sq) != 2 || !chess.OnBoard(chess.Col(sq[0]), chess.Rank(sq[1])) || (sq[1] != '3' && sq[1] != '6') {
		return fmt.Errorf("invalid en passant square %q: %w", sq, errors.ErrInvalidFEN)
	}
	board.EnPassant = true
	board.EPCol = chess.Col(sq[0])
	board.EPRank = chess.Rank(sq[1])
	return nil
}

// parseClocks parses the halfmove clock and fullmove number fields.
func parseClocks(board *chess.Board, parts []string) error {
	if len(parts) >= 5 {
		n, err := strconv.ParseUint(parts[4], 10, 32)
		if err != nil {
			return fmt.Errorf("halfmove clock %q: %w", parts[4], errors.ErrInvalidFEN)
		}
		board.HalfmoveClock = uint(n)
	}
	if len(parts) >= 6 {
		n, err := strconv.ParseUint(parts[5], 10, 32)
		if err != nil || n == 0 {
			return fmt.Errorf("fullmove number %q: %w", parts[5], errors.ErrInvalidFEN)
		}
		board.MoveNumber = uint(n)
	}
	return nil
}

// BoardToFEN converts a board to a FEN string.
func BoardToFEN(board *chess.Board) string {
	var sb strings.Builder

	writePlacement(&sb, board)
	fmt.Fprintf(&sb, " %d %d", board.HalfmoveClock, board.MoveNumber)

	return sb.String()
}

// positionKey is the part of the FEN that identifies a position for
// repetition counting.
func positionKey(board *chess.Board) string {
	var sb strings.Builder
	writePlacement(&sb, board)
	return sb.String()
}

func writePlacement(sb *strings.Builder, board *chess.Board) {
	writePiecePositions(sb, board)
	sb.WriteByte(' ')
	writeSideToMove(sb, board)
	sb.WriteByte(' ')
	writeCastlingRights(sb, board)
	sb.WriteByte(' ')
	writeEnPassant(sb, board)
}

// writePiecePositions writes the piece placement to the builder.
func writePiecePositions(sb *strings.Builder, board *chess.Board) {
	for rank := chess.Rank('8'); rank >= '1'; rank-- {
		emptyCount := 0
		for col := chess.Col('a'); col <= 'h'; col++ {
			piece := board.Get(col, rank)
			if piece == chess.Empty {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte(byte('0' + emptyCount))
				emptyCount = 0
			}
			sb.WriteByte(ColouredPieceToFENLetter(piece))
		}
		if emptyCount > 0 {
			sb.WriteByte(byte('0' + emptyCount))
		}
		if rank > '1' {
			sb.WriteByte('/')
		}
	}
}

// writeSideToMove writes the side to move to the builder.
func writeSideToMove(sb *strings.Builder, board *chess.Board) {
	if board.ToMove == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
}

// writeCastlingRights writes KQkq, or the rook file when the castling rook
// is not the outermost one on its side.
func writeCastlingRights(sb *strings.Builder, board *chess.Board) {
	n := sb.Len()
	rights := []struct {
		colour   chess.Colour
		kingside bool
		letter   byte
	}{
		{chess.White, true, 'K'},
		{chess.White, false, 'Q'},
		{chess.Black, true, 'k'},
		{chess.Black, false, 'q'},
	}
	for _, r := range rights {
		col := board.CastleRook(r.colour, r.kingside)
		if col == 0 {
			continue
		}
		if col == outermostRook(board, r.colour, r.kingside) {
			sb.WriteByte(r.letter)
			continue
		}
		if r.colour == chess.White {
			sb.WriteByte(byte(unicode.ToUpper(rune(col))))
		} else {
			sb.WriteByte(byte(col))
		}
	}
	if sb.Len() == n {
		sb.WriteByte('-')
	}
}

// writeEnPassant writes the en passant target square to the builder.
func writeEnPassant(sb *strings.Builder, board *chess.Board) {
	if board.EnPassant {
		sb.WriteByte(byte(board.EPCol))
		sb.WriteByte(byte(board.EPRank))
	} else {
		sb.WriteByte('-')
	}
}

// NewInitialBoard creates a board with the standard starting position.
func NewInitialBoard() *chess.Board {
	board := chess.NewBoard()
	board.SetupInitialPosition()
	return board
}
