package preprocessor

import (
	"testing"
)

func TestCommentStripper_Strip_LineComments(t *testing.T) {
	stripper := NewCommentStripper()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple line comment",
			input:    "USE shop; -- comment",
			expected: "USE shop; ",
		},
		{
			name:     "Line comment at start",
			input:    "-- comment\nUSE shop;",
			expected: "\nUSE shop;",
		},
		{
			name:     "Multiple line comments",
			input:    "-- first\nUSE shop; -- second\n-- third",
			expected: "\nUSE shop; \n",
		},
		{
			name:     "Line comment only",
			input:    "-- just a comment",
			expected: "",
		},
		{
			name:     "Windows line ending kept",
			input:    "USE a; -- c\r\nUSE b;",
			expected: "USE a; \r\nUSE b;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, complete := stripper.Strip(tt.input)
			if result != tt.expected {
				t.Errorf("Strip() = %q, expected %q", result, tt.expected)
			}
			if !complete {
				t.Errorf("Strip() reported unterminated comment")
			}
		})
	}
}

func TestCommentStripper_Strip_BlockComments(t *testing.T) {
	stripper := NewCommentStripper()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple block comment",
			input:    "USE /* comment */ shop;",
			expected: "USE   shop;",
		},
		{
			name:     "Block comment between tokens",
			input:    "id INT/* c */NOT NULL",
			expected: "id INT NOT NULL",
		},
		{
			name:     "Multi-line block comment",
			input:    "USE /* line1\nline2\nline3 */shop;",
			expected: "USE  shop;",
		},
		{
			name:     "Not nested",
			input:    "/* a /* b */ USE shop;",
			expected: "  USE shop;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := stripper.Strip(tt.input)
			if result != tt.expected {
				t.Errorf("Strip() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestCommentStripper_Strip_UnterminatedBlock(t *testing.T) {
	result, complete := NewCommentStripper().Strip("USE shop; /* never closed")
	if complete {
		t.Error("Strip() should report the open block comment")
	}
	if result != "USE shop;  " {
		t.Errorf("Strip() = %q", result)
	}
}

func TestCommentStripper_Strip_QuotedRegions(t *testing.T) {
	stripper := NewCommentStripper()

	tests := []struct {
		name  string
		input string
	}{
		{"Line comment syntax in string", "SELECT '--not comment';"},
		{"Block comment syntax in string", "SELECT '/* not comment */';"},
		{"Doubled quote", "SELECT 'it''s -- not a comment';"},
		{"Double quoted", `SELECT "-- kept";`},
		{"Backtick identifier", "CREATE TABLE `a--b` (id INT);"},
		{"Other quote inside", `SELECT '"--' , "'/*";`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := stripper.Strip(tt.input)
			if result != tt.input {
				t.Errorf("Strip() = %q, expected unchanged %q", result, tt.input)
			}
		})
	}
}

func TestCommentStripper_Strip_Empty(t *testing.T) {
	result, complete := NewCommentStripper().Strip("")
	if result != "" || !complete {
		t.Errorf("Strip(\"\") = %q, %v", result, complete)
	}
}
