package engine

import (
	"testing"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
)

var benchFENs = map[string]string{
	"Initial":   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"Midgame":   "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4",
	"Endgame":   "8/5k2/8/8/8/8/5K2/4R3 w - - 0 1",
	"Complex":   "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"EnPassant": "rnbqkbnr/pppp1ppp/8/4pP2/8/8/PPPPP1PP/RNBQKBNR w KQkq e6 0 3",
	"Castling":  "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1",
}

func BenchmarkNewBoardFromFEN(b *testing.B) {
	for name, fen := range benchFENs {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				NewBoardFromFEN(fen)
			}
		})
	}
}

func BenchmarkBoardToFEN(b *testing.B) {
	for name, fen := range benchFENs {
		b.Run(name, func(b *testing.B) {
			board, _ := NewBoardFromFEN(fen)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				BoardToFEN(board)
			}
		})
	}
}

func BenchmarkParseSAN(b *testing.B) {
	cases := []struct {
		name string
		fen  string
		san  string
	}{
		{"PawnMove", benchFENs["Initial"], "e4"},
		{"PieceMove", benchFENs["Initial"], "Nf3"},
		{"KingsideCastle", benchFENs["Castling"], "O-O"},
		{"QueensideCastle", benchFENs["Castling"], "O-O-O"},
		{"EnPassant", benchFENs["EnPassant"], "fxe6"},
		{"Promotion", "8/P7/8/8/8/8/8/4K2k w - - 0 1", "a8=Q"},
	}

	for _, tt := range cases {
		b.Run(tt.name, func(b *testing.B) {
			p, _ := NewPositionFromFEN(tt.fen)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				p.ParseSAN(tt.san)
			}
		})
	}
}

func BenchmarkGameReplay_ItalianOpening(b *testing.B) {
	sans := []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := NewPosition()
		for _, san := range sans {
			m, err := p.ParseSAN(san)
			if err != nil {
				b.Fatal(err)
			}
			p.Push(m)
		}
	}
}

func BenchmarkIsInCheck(b *testing.B) {
	checkFEN := "rnb1kbnr/pppp1ppp/8/4p3/7q/5P2/PPPPP1PP/RNBQKBNR w KQkq - 1 3"

	b.Run("NoCheck", func(b *testing.B) {
		board, _ := NewBoardFromFEN(benchFENs["Initial"])
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			IsInCheck(board, chess.White)
		}
	})

	b.Run("InCheck", func(b *testing.B) {
		board, _ := NewBoardFromFEN(checkFEN)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			IsInCheck(board, chess.White)
		}
	})
}

func BenchmarkLegalMoves(b *testing.B) {
	for _, name := range []string{"Initial", "Midgame", "Complex"} {
		b.Run(name, func(b *testing.B) {
			board, _ := NewBoardFromFEN(benchFENs[name])
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				LegalMoves(board)
			}
		})
	}
}

func BenchmarkBoardCopy(b *testing.B) {
	board, _ := NewBoardFromFEN(benchFENs["Midgame"])
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		board.Copy()
	}
}
