package preprocessor

import "strings"

// Statement is one ';'-terminated piece of a script, trimmed, without its terminator.
type Statement struct {
	// Index is the zero-based position among the non-empty statements of the script.
	Index int

	Text string

	// OpenQuote is the quote character still open at end of input, or 0.
	// Only the final statement of a script can have one.
	OpenQuote byte
}

// SplitStatements cuts s at every ';' outside a quoted region.
// A trailing statement without ';' is still returned. Empty statements are dropped.
func SplitStatements(s string) []Statement {
	var (
		stmts []Statement
		quote byte
		start int
	)

	emit := func(end int, open byte) {
		text := strings.TrimSpace(s[start:end])
		if text == "" {
			return
		}
		stmts = append(stmts, Statement{Index: len(stmts), Text: text, OpenQuote: open})
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case isQuote(ch):
			quote = ch
		case ch == ';':
			emit(i, 0)
			start = i + 1
		}
	}
	emit(len(s), quote)

	return stmts
}
