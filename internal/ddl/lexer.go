package ddl

import (
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokWord        tokenKind = iota // bare identifier, keyword or number
	tokQuotedIdent                  // `name` or "name"
	tokString                       // 'text'
	tokLParen
	tokRParen
	tokComma
	tokDot
	tokOther
)

type token struct {
	kind tokenKind
	// text is the raw source slice; value is text without surrounding quotes.
	text  string
	value string
	pos   int
	end   int
	// unterminated marks a quoted token that ran to end of statement.
	unterminated bool
}

// lex splits a single statement into tokens. Whitespace separates tokens
// and is not returned.
func lex(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '`' || r == '"' || r == '\'':
			tok := lexQuoted(s, i, byte(r))
			toks = append(toks, tok)
			i = tok.end
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", value: "(", pos: i, end: i + 1})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", value: ")", pos: i, end: i + 1})
			i++
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ",", value: ",", pos: i, end: i + 1})
			i++
		case r == '.':
			toks = append(toks, token{kind: tokDot, text: ".", value: ".", pos: i, end: i + 1})
			i++
		case isWordRune(r):
			start := i
			for i < len(s) {
				r, size = utf8.DecodeRuneInString(s[i:])
				if !isWordRune(r) {
					break
				}
				i += size
			}
			toks = append(toks, token{kind: tokWord, text: s[start:i], value: s[start:i], pos: start, end: i})
		default:
			toks = append(toks, token{kind: tokOther, text: s[i : i+size], value: s[i : i+size], pos: i, end: i + size})
			i += size
		}
	}
	return toks
}

// lexQuoted reads a quoted token starting at i. Only the opening character
// closes it; a doubled quote ends the token and starts the next one, which
// matches how statements are split.
func lexQuoted(s string, i int, quote byte) token {
	kind := tokQuotedIdent
	if quote == '\'' {
		kind = tokString
	}
	for j := i + 1; j < len(s); j++ {
		if s[j] == quote {
			return token{kind: kind, text: s[i : j+1], value: s[i+1 : j], pos: i, end: j + 1}
		}
	}
	return token{kind: kind, text: s[i:], value: s[i+1:], pos: i, end: len(s), unterminated: true}
}

func isWordRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
