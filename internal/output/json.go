package output

import (
	"github.com/lgbarn/pgn-tree-go/internal/chess"
	"github.com/lgbarn/pgn-tree-go/internal/config"
	"github.com/lgbarn/pgn-tree-go/internal/game"
)

// JSONGame represents a game in JSON format.
type JSONGame struct {
	Tags       map[string]string `json:"tags"`
	Comment    string            `json:"comment,omitempty"`
	Moves      []JSONMove        `json:"moves,omitempty"`
	Result     string            `json:"result"`
	PlyCount   int               `json:"plyCount"`
	InitialFEN string            `json:"initialFEN,omitempty"`
	FinalFEN   string            `json:"finalFEN,omitempty"`
	Errors     []string          `json:"errors,omitempty"`
}

// JSONMove represents a move in JSON format. Variations holds the
// alternatives to this move, each a line starting in the same position.
type JSONMove struct {
	MoveNumber      int          `json:"moveNumber,omitempty"`
	Color           string       `json:"color"` // "white" or "black"
	SAN             string       `json:"san"`
	UCI             string       `json:"uci,omitempty"`
	From            string       `json:"from,omitempty"`
	To              string       `json:"to,omitempty"`
	Piece           string       `json:"piece,omitempty"`
	Promotion       string       `json:"promotion,omitempty"`
	NAGs            []int        `json:"nags,omitempty"`
	StartingComment string       `json:"startingComment,omitempty"`
	Comment         string       `json:"comment,omitempty"`
	Variations      [][]JSONMove `json:"variations,omitempty"`
}

// JSONHeaders is one entry of a header scan.
type JSONHeaders struct {
	Offset int64             `json:"offset"`
	Tags   map[string]string `json:"tags"`
}

// JSONOutput holds multiple games for array output.
type JSONOutput struct {
	Games []*JSONGame `json:"games"`
}

// GameToJSON converts a game tree. Comments, NAGs and variations follow the
// same switches as PGN export.
func GameToJSON(g *game.Game, cfg *config.ExportConfig) (*JSONGame, error) {
	if cfg == nil {
		cfg = config.NewExportConfig()
	}
	jg := &JSONGame{
		Tags:       g.Headers.Map(),
		Result:     g.Headers.Value(chess.ResultTag),
		PlyCount:   len(g.MainLine()),
		InitialFEN: g.Headers.Value(chess.FENTag),
	}
	if jg.Result == "" {
		jg.Result = "*"
	}
	if cfg.Comments {
		jg.Comment = g.Comment
	}
	for _, err := range g.Errors {
		jg.Errors = append(jg.Errors, err.Error())
	}

	pos, err := g.Board()
	if err != nil {
		return nil, err
	}
	if !g.IsEnd() {
		if jg.Moves, err = convertLine(g.Variations[0], pos, cfg); err != nil {
			return nil, err
		}
	}
	jg.FinalFEN = pos.FEN()
	return jg, nil
}

// convertLine converts first and the main line below it, playing the moves
// on pos, which must be the position before first.
func convertLine(first *game.Node, pos chess.Position, cfg *config.ExportConfig) ([]JSONMove, error) {
	moves := make([]JSONMove, 0, 80) // Preallocate for typical game length
	for n := first; ; n = n.Variations[0] {
		jm := convertMove(n, pos, cfg)

		if parent := n.Parent(); cfg.Variations && parent.Variations[0] == n {
			for _, side := range parent.Variations[1:] {
				line, err := convertLine(side, pos.Copy(), cfg)
				if err != nil {
					return nil, err
				}
				jm.Variations = append(jm.Variations, line)
			}
		}

		if err := pos.Push(n.Move); err != nil {
			return nil, err
		}
		moves = append(moves, jm)
		if n.IsEnd() {
			return moves, nil
		}
	}
}

// convertMove converts the move of n, played from pos.
func convertMove(n *game.Node, pos chess.Position, cfg *config.ExportConfig) JSONMove {
	m := n.Move
	jm := JSONMove{
		SAN:   pos.SAN(m),
		Color: colorName(pos.Turn()),
		Piece: pieceTypeName(m.PieceToMove),
	}
	if pos.Turn() == chess.White {
		jm.MoveNumber = int(pos.FullmoveNumber())
	}
	if !m.IsNull() {
		jm.UCI = m.UCI()
	}
	if m.FromCol != 0 && m.FromRank != 0 {
		jm.From = string([]byte{byte(m.FromCol), byte(m.FromRank)})
	}
	if m.ToCol != 0 && m.ToRank != 0 {
		jm.To = string([]byte{byte(m.ToCol), byte(m.ToRank)})
	}
	if m.IsPromotion() {
		jm.Promotion = pieceTypeName(m.PromotedPiece)
	}
	if cfg.Comments {
		jm.NAGs = n.NAGs()
		jm.StartingComment = n.StartingComment
		jm.Comment = n.Comment
	}
	return jm
}

// colorName returns "white" or "black".
func colorName(c chess.Colour) string {
	if c == chess.White {
		return "white"
	}
	return "black"
}

// pieceTypeName returns the piece type as a string.
func pieceTypeName(p chess.Piece) string {
	switch p {
	case chess.Pawn:
		return "pawn"
	case chess.Knight:
		return "knight"
	case chess.Bishop:
		return "bishop"
	case chess.Rook:
		return "rook"
	case chess.Queen:
		return "queen"
	case chess.King:
		return "king"
	default:
		return ""
	}
}
