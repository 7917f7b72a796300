// Package parser reads PGN text. The Parser drives a game.Visitor from a
// stream of games; the scanners index game offsets and headers without
// building trees.
package parser

// TokenType represents the type of a movetext token.
type TokenType int

const (
	// EOLToken marks the end of the line; nothing else follows.
	EOLToken TokenType = iota

	// CommentOpen is a '{'. Text holds the rest of the line after it.
	CommentOpen
	// LineComment is a ';'. The rest of the line is ignored.
	LineComment
	RAVStart
	RAVEnd

	// NAGToken is $n with Value n.
	NAGToken
	// BadNAG is a '$' without digits.
	BadNAG
	// Annotation is one of ! ? !! ?? !? ?! with Value set to its NAG.
	Annotation

	// ResultToken is 1-0, 0-1, 1/2-1/2 or *.
	ResultToken
	// MoveNumber is digits with optional dots. It carries no meaning.
	MoveNumber

	// CastleToken is castling with Text normalized to O-O or O-O-O.
	CastleToken
	NullMoveToken
	MoveToken
	// DropToken is a piece drop such as P@e4.
	DropToken
	// UnknownToken is any other word with letters or digits in it.
	UnknownToken
)

var tokenTypeNames = [...]string{
	EOLToken:      "EOL",
	CommentOpen:   "COMMENT_OPEN",
	LineComment:   "LINE_COMMENT",
	RAVStart:      "RAV_START",
	RAVEnd:        "RAV_END",
	NAGToken:      "NAG",
	BadNAG:        "BAD_NAG",
	Annotation:    "ANNOTATION",
	ResultToken:   "RESULT",
	MoveNumber:    "MOVE_NUMBER",
	CastleToken:   "CASTLE",
	NullMoveToken: "NULL_MOVE",
	MoveToken:     "MOVE",
	DropToken:     "DROP",
	UnknownToken:  "UNKNOWN",
}

// String returns the string representation of a token type.
func (t TokenType) String() string {
	if int(t) >= 0 && int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "UNKNOWN_TYPE"
}

// IsMove reports whether the token is resolved against a position.
func (t TokenType) IsMove() bool {
	switch t {
	case CastleToken, NullMoveToken, MoveToken, DropToken, UnknownToken:
		return true
	}
	return false
}

// Token is one movetext token.
type Token struct {
	Type TokenType

	// Text is the token as written, except that castling is normalized and
	// CommentOpen carries the remainder of the line.
	Text string

	// Value holds the NAG of NAGToken and Annotation tokens.
	Value int

	// Col is the 1-based column the token starts at.
	Col int
}
