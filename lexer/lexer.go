// Package lexer splits expression text into tokens.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/prosuite/evaluation/errz"
	"github.com/prosuite/evaluation/token"
)

// Single-character operators and punctuation.
const operators = "!#$%&()*+,-./:;<=>?@[]^{|}~"

// Characters that may follow the given first character to form a
// two-character operator.
var twoCharOperators = map[byte]string{
	'!': "=",
	'&': "&",
	'+': "+",
	'-': "-",
	'<': "=<>",
	'=': "=>",
	'>': "=>",
	'?': "?",
	'|': "|",
}

// Scan returns the token starting at byte offset index in text. At or past
// the end of text it returns an END token, no matter how often it is
// called.
func Scan(text string, index int) (token.Token, error) {
	if index >= len(text) {
		return token.Token{Type: token.END, Start: len(text), End: len(text)}, nil
	}
	c, size := utf8.DecodeRuneInString(text[index:])
	switch {
	case unicode.IsSpace(c):
		end := scanWhile(text, index, unicode.IsSpace)
		return token.Token{Type: token.WHITE, Start: index, End: end}, nil
	case unicode.IsLetter(c) || c == '_':
		end := scanWhile(text, index, isNameChar)
		return token.Token{Type: token.NAME, Literal: text[index:end], Start: index, End: end}, nil
	case c == '\'':
		return scanSQLString(text, index)
	case c == '"':
		return scanString(text, index)
	case c >= '0' && c <= '9':
		return scanNumber(text, index)
	}
	if next, ok := twoCharOperators[byte(c)]; ok && c < utf8.RuneSelf {
		end := index + 1
		if end < len(text) && strings.IndexByte(next, text[end]) >= 0 {
			end++
		}
		return token.Token{Type: token.OTHER, Literal: text[index:end], Start: index, End: end}, nil
	}
	if c < utf8.RuneSelf && strings.IndexByte(operators, byte(c)) >= 0 {
		return token.Token{Type: token.OTHER, Literal: text[index : index+size], Start: index, End: index + size}, nil
	}
	if c > ' ' && c < 127 {
		return token.Token{}, errz.SyntaxErrorf(index, "Invalid input character: '%c'", c)
	}
	return token.Token{}, errz.SyntaxErrorf(index, "Invalid input character: U+%04X", c)
}

func isNameChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func scanWhile(text string, index int, pred func(rune) bool) int {
	for index < len(text) {
		c, size := utf8.DecodeRuneInString(text[index:])
		if !pred(c) {
			break
		}
		index += size
	}
	return index
}

func scanDigits(text string, index int) int {
	for index < len(text) && isDigit(text[index]) {
		index++
	}
	return index
}

func scanNumber(text string, anchor int) (token.Token, error) {
	index := scanDigits(text, anchor)
	if index < len(text) && text[index] == '.' {
		index = scanDigits(text, index+1)
	}
	if index < len(text) && (text[index] == 'e' || text[index] == 'E') {
		index++
		if index < len(text) && (text[index] == '-' || text[index] == '+') {
			index++
		}
		index = scanDigits(text, index)
	}
	if index < len(text) {
		if c, _ := utf8.DecodeRuneInString(text[index:]); unicode.IsLetter(c) || c == '_' {
			return token.Token{}, errz.NewSyntaxError(anchor, "Unterminated numeric token")
		}
	}
	literal := text[anchor:index]
	number, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return token.Token{}, errz.NewSyntaxError(anchor, "Invalid number")
	}
	return token.Token{Type: token.NUMBER, Literal: literal, Number: number, Start: anchor, End: index}, nil
}

func scanSQLString(text string, anchor int) (token.Token, error) {
	var sb strings.Builder
	index := anchor + 1
	for index < len(text) {
		c := text[index]
		index++
		if c != '\'' {
			sb.WriteByte(c)
			continue
		}
		if index < len(text) && text[index] == '\'' {
			sb.WriteByte('\'')
			index++
			continue
		}
		return token.Token{Type: token.STRING, Literal: sb.String(), Start: anchor, End: index}, nil
	}
	return token.Token{}, errz.NewSyntaxError(anchor, "Unterminated string")
}

func scanString(text string, anchor int) (token.Token, error) {
	var sb strings.Builder
	index := anchor + 1
	for index < len(text) {
		c := text[index]
		index++
		if c < ' ' {
			return token.Token{}, errz.NewSyntaxError(index-1, "Control character in string")
		}
		if c == '"' {
			return token.Token{Type: token.STRING, Literal: sb.String(), Start: anchor, End: index}, nil
		}
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if index >= len(text) {
			break
		}
		c = text[index]
		index++
		switch c {
		case '"', '\'', '\\', '/':
			sb.WriteByte(c)
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			return token.Token{}, errz.NewSyntaxError(index, `\u#### is not yet implemented`)
		default:
			return token.Token{}, errz.SyntaxErrorf(index, `Invalid escape '\%c' in string`, c)
		}
	}
	return token.Token{}, errz.NewSyntaxError(anchor, "Unterminated string")
}
