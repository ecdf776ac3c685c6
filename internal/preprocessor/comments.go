package preprocessor

import (
	"strings"
)

// CommentStripper removes SQL comments while preserving quoted text.
type CommentStripper interface {
	// Strip returns sql without comments. complete is false when a block
	// comment is still open at end of input; the open comment is dropped.
	Strip(sql string) (stripped string, complete bool)
}

// commentStripper implements CommentStripper using a state machine.
type commentStripper struct{}

// NewCommentStripper creates a new CommentStripper instance.
func NewCommentStripper() CommentStripper {
	return &commentStripper{}
}

type parserState int

const (
	stateNormal parserState = iota
	stateLineComment
	stateBlockComment
	stateQuoted
)

// Strip removes SQL comments.
// Handles:
// - Line comments: -- to end of line (the newline is kept)
// - Block comments: /* */, not nested, replaced by one space
// - Quoted regions: '...', "..." and `...`; one quote character is active
//   at a time and only the same character closes it
func (c *commentStripper) Strip(sql string) (string, bool) {
	if len(sql) == 0 {
		return "", true
	}

	var result strings.Builder
	result.Grow(len(sql))

	state := stateNormal
	var quote byte

	i := 0
	for i < len(sql) {
		ch := sql[i]
		var next byte
		if i+1 < len(sql) {
			next = sql[i+1]
		}

		switch state {
		case stateNormal:
			switch {
			case ch == '-' && next == '-':
				state = stateLineComment
				i += 2
			case ch == '/' && next == '*':
				state = stateBlockComment
				result.WriteByte(' ')
				i += 2
			case isQuote(ch):
				state = stateQuoted
				quote = ch
				result.WriteByte(ch)
				i++
			default:
				result.WriteByte(ch)
				i++
			}

		case stateLineComment:
			if ch == '\n' || ch == '\r' {
				state = stateNormal
				continue
			}
			i++

		case stateBlockComment:
			if ch == '*' && next == '/' {
				state = stateNormal
				i += 2
				continue
			}
			i++

		case stateQuoted:
			result.WriteByte(ch)
			if ch == quote {
				state = stateNormal
				quote = 0
			}
			i++
		}
	}

	return result.String(), state != stateBlockComment
}

func isQuote(ch byte) bool {
	return ch == '\'' || ch == '"' || ch == '`'
}
