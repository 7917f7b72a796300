package matching

import (
	"strings"
	"unicode"
)

// soundexCodes groups consonants that sound alike. W joins B, F, P and V,
// and the sibilant group takes in Z. Letters not listed code as 0.
var soundexCodes = [26]byte{
	'B' - 'A': '1', 'F' - 'A': '1', 'P' - 'A': '1', 'V' - 'A': '1', 'W' - 'A': '1',
	'C' - 'A': '2', 'G' - 'A': '2', 'J' - 'A': '2', 'K' - 'A': '2', 'Q' - 'A': '2',
	'S' - 'A': '2', 'X' - 'A': '2', 'Z' - 'A': '2',
	'D' - 'A': '3', 'T' - 'A': '3',
	'L' - 'A': '4',
	'M' - 'A': '5', 'N' - 'A': '5',
	'R' - 'A': '6',
}

func soundexCode(c byte) byte {
	if c < 'A' || c > 'Z' || soundexCodes[c-'A'] == 0 {
		return '0'
	}
	return soundexCodes[c-'A']
}

// Soundex returns a six character phonetic code for a name, or "" when
// the name has no ASCII letters.
func Soundex(name string) string {
	letters := strings.Map(func(r rune) rune {
		r = unicode.ToUpper(r)
		if r >= 'A' && r <= 'Z' {
			return r
		}
		return -1
	}, name)
	if letters == "" {
		return ""
	}

	code := []byte{letters[0]}
	last := soundexCode(letters[0])
	for i := 1; i < len(letters) && len(code) < 6; i++ {
		c := soundexCode(letters[i])
		if c != '0' && c != last {
			code = append(code, c)
		}
		if c != '0' {
			last = c
		}
	}
	for len(code) < 6 {
		code = append(code, '0')
	}
	return string(code)
}

// SoundexMatch checks if two names match via soundex.
func SoundexMatch(a, b string) bool {
	return Soundex(a) == Soundex(b)
}
