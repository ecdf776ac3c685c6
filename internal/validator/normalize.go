package validator

import (
	"regexp"
	"strings"
)

var (
	spaceBeforeOpen  = regexp.MustCompile(`\s+\(`)
	spaceAfterOpen   = regexp.MustCompile(`\(\s+`)
	spaceBeforeClose = regexp.MustCompile(`\s+\)`)
	spaceAroundComma = regexp.MustCompile(`\s*,\s*`)
)

// NormalizeType lowercases a column type and normalizes its spacing so that
// "VARCHAR (255)" and "varchar(255)" compare equal. It knows nothing about
// type semantics: "INT" and "INT(11)" stay different.
func NormalizeType(typ string) string {
	s := strings.Join(strings.Fields(strings.ToLower(typ)), " ")
	s = spaceBeforeOpen.ReplaceAllString(s, "(")
	s = spaceAfterOpen.ReplaceAllString(s, "(")
	s = spaceBeforeClose.ReplaceAllString(s, ")")
	return spaceAroundComma.ReplaceAllString(s, ",")
}

// TypesMatch compares two type strings after NormalizeType.
func TypesMatch(expected, actual string) bool {
	return NormalizeType(expected) == NormalizeType(actual)
}
