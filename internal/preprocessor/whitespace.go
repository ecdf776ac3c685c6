package preprocessor

import (
	"strings"
	"unicode"
)

// CollapseWhitespace replaces every run of whitespace, newlines included,
// with a single space. Leading and trailing runs become one space too.
func CollapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastWasSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteByte(' ')
				lastWasSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}

	return b.String()
}
