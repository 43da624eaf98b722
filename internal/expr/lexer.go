package expr

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokName
	tokOp
	tokSemi
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

var twoCharOps = map[string]bool{
	"**": true,
	"//": true,
	"==": true,
	"!=": true,
	"<=": true,
	">=": true,
}

const oneCharOps = "+-*/%()<>=,"

// lex splits program text into tokens. Anything outside the grammar, such as
// attribute access or string literals, is rejected here.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			return nil, errorf(ErrSyntax, i, "invalid UTF-8 encoding")
		case unicode.IsSpace(r):
			i += size
		case r == ';':
			toks = append(toks, token{kind: tokSemi, text: ";", pos: i})
			i++
		case isDigit(r) || (r == '.' && i+1 < len(src) && isDigit(rune(src[i+1]))):
			end, err := scanNumber(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:end], pos: i})
			i = end
		case isNameStart(r):
			start := i
			i += size
			for i < len(src) {
				next, nextSize := utf8.DecodeRuneInString(src[i:])
				if !isNameStart(next) && !unicode.IsDigit(next) {
					break
				}
				i += nextSize
			}
			toks = append(toks, token{kind: tokName, text: src[start:i], pos: start})
		default:
			if i+2 <= len(src) && twoCharOps[src[i:i+2]] {
				toks = append(toks, token{kind: tokOp, text: src[i : i+2], pos: i})
				i += 2
				continue
			}
			if r < utf8.RuneSelf && strings.IndexByte(oneCharOps, byte(r)) >= 0 {
				toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
				i++
				continue
			}
			return nil, errorf(ErrSyntax, i, "unexpected character %q", r)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

func scanNumber(src string, start int) (int, error) {
	i := start
	for i < len(src) && isDigit(rune(src[i])) {
		i++
	}
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && isDigit(rune(src[i])) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j >= len(src) || !isDigit(rune(src[j])) {
			return 0, errorf(ErrSyntax, i, "malformed exponent in number literal")
		}
		for j < len(src) && isDigit(rune(src[j])) {
			j++
		}
		i = j
	}
	if i < len(src) {
		if r, _ := utf8.DecodeRuneInString(src[i:]); isNameStart(r) || r == '.' {
			return 0, errorf(ErrSyntax, i, "invalid number literal %q", src[start:i+1])
		}
	}
	return i, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
