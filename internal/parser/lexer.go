package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lgbarn/pgn-tree-go/internal/chess"
)

// charClass groups the bytes the lexer dispatches on.
type charClass uint8

const (
	wordChar charClass = iota
	spaceChar
	delimChar
	digitChar
	annotateChar
)

// Character classification table
var chTab [256]charClass

func init() {
	for _, c := range []byte{' ', '\t', '\r', '\n', '\f', '\v'} {
		chTab[c] = spaceChar
	}
	for _, c := range []byte{'{', '}', ';', '(', ')', '$', '*'} {
		chTab[c] = delimChar
	}
	chTab['!'] = annotateChar
	chTab['?'] = annotateChar
	for c := byte('0'); c <= '9'; c++ {
		chTab[c] = digitChar
	}
}

var (
	castleRegex     = regexp.MustCompile(`^(?:O-O(?:-O)?|0-0(?:-0)?)[+#]*$`)
	dropRegex       = regexp.MustCompile(`^[PNBRQK]?@[a-h][1-8][+#]*$`)
	sanRegex        = regexp.MustCompile(`^[NBKRQ]?[a-h]?[1-8]?[\-x]?[a-h][1-8](?:=?[nbrqkNBRQK])?[+#]*$`)
	moveNumberRegex = regexp.MustCompile(`^[0-9]+\.*`)
)

// Lexer splits one line of movetext into tokens. A '{' or ';' consumes the
// rest of the line; the parser handles what follows a brace comment.
type Lexer struct {
	line string
	pos  int
}

// NewLexer returns a lexer over a single line.
func NewLexer(line string) *Lexer {
	return &Lexer{line: line}
}

// Rest returns the text not yet consumed.
func (l *Lexer) Rest() string {
	return l.line[l.pos:]
}

// Tokenize returns every token of the line, without the final EOLToken.
func Tokenize(line string) []Token {
	var tokens []Token
	l := NewLexer(line)
	for {
		tok := l.Next()
		if tok.Type == EOLToken {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token. Punctuation that means nothing in movetext,
// such as a stray '}', is skipped. A run of '!' and '?' is read two
// characters at a time, so "!!!" is "!!" followed by "!".
func (l *Lexer) Next() Token {
	for {
		l.skip(spaceChar)
		if l.pos >= len(l.line) {
			return Token{Type: EOLToken, Col: l.pos + 1}
		}

		start := l.pos
		col := start + 1
		switch c := l.line[start]; {
		case c == '{':
			l.pos = len(l.line)
			return Token{Type: CommentOpen, Text: l.line[start+1:], Col: col}
		case c == ';':
			l.pos = len(l.line)
			return Token{Type: LineComment, Text: l.line[start+1:], Col: col}
		case c == '(':
			l.pos++
			return Token{Type: RAVStart, Text: "(", Col: col}
		case c == ')':
			l.pos++
			return Token{Type: RAVEnd, Text: ")", Col: col}
		case c == '*':
			l.pos++
			return Token{Type: ResultToken, Text: "*", Col: col}
		case c == '}':
			l.pos++
			continue
		case c == '$':
			return l.nag(start)
		case chTab[c] == annotateChar:
			l.pos++
			if l.pos < len(l.line) && chTab[l.line[l.pos]] == annotateChar {
				l.pos++
			}
			text := l.line[start:l.pos]
			if nag, ok := chess.AnnotationToNAG(text); ok {
				return Token{Type: Annotation, Text: text, Value: nag, Col: col}
			}
			continue
		}

		if tok, ok := l.word(start); ok {
			return tok
		}
	}
}

// nag reads $n. A '$' without digits, or with a number too large to hold,
// is returned as BadNAG.
func (l *Lexer) nag(start int) Token {
	l.pos++
	l.skip(digitChar)
	text := l.line[start:l.pos]
	n, err := strconv.Atoi(text[1:])
	if err != nil {
		return Token{Type: BadNAG, Text: text, Col: start + 1}
	}
	return Token{Type: NAGToken, Text: text, Value: n, Col: start + 1}
}

// word classifies the run of word characters at start. It reports false
// when the run is punctuation that should be skipped.
func (l *Lexer) word(start int) (Token, bool) {
	end := start
	for end < len(l.line) {
		cls := chTab[l.line[end]]
		if cls != wordChar && cls != digitChar {
			break
		}
		end++
	}
	w := l.line[start:end]
	tok := Token{Text: w, Col: start + 1}
	l.pos = end

	switch {
	case w == "1-0" || w == "0-1" || w == "1/2-1/2":
		tok.Type = ResultToken
	case castleRegex.MatchString(w):
		tok.Type = CastleToken
		tok.Text = strings.ReplaceAll(w, "0", "O")
	case chTab[w[0]] == digitChar:
		// Only the number is consumed so "1.e4" yields the move too.
		num := moveNumberRegex.FindString(w)
		l.pos = start + len(num)
		tok.Type = MoveNumber
		tok.Text = num
	case w == chess.NullMoveString || w == "Z0":
		tok.Type = NullMoveToken
	case dropRegex.MatchString(w):
		tok.Type = DropToken
	case sanRegex.MatchString(w):
		tok.Type = MoveToken
	case hasAlnum(w):
		tok.Type = UnknownToken
	default:
		return Token{}, false
	}
	return tok, true
}

func (l *Lexer) skip(cls charClass) {
	for l.pos < len(l.line) && chTab[l.line[l.pos]] == cls {
		l.pos++
	}
}

func hasAlnum(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if chTab[c] == digitChar || (c|0x20 >= 'a' && c|0x20 <= 'z') {
			return true
		}
	}
	return false
}
