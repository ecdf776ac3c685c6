package preprocessor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(stmts []Statement) []string {
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.Text
	}
	return out
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two statements", "USE a; CREATE TABLE t (id INT);", []string{"USE a", "CREATE TABLE t (id INT)"}},
		{"trailing without terminator", "USE a; USE b", []string{"USE a", "USE b"}},
		{"empty statements dropped", ";; USE a ;;", []string{"USE a"}},
		{"semicolon in single quotes", "INSERT INTO t VALUES ('a;b'); USE x;", []string{"INSERT INTO t VALUES ('a;b')", "USE x"}},
		{"semicolon in double quotes", `SELECT "x;y"; USE x`, []string{`SELECT "x;y"`, "USE x"}},
		{"semicolon in backticks", "CREATE TABLE `a;b` (id INT);", []string{"CREATE TABLE `a;b` (id INT)"}},
		{"other quote does not close", `SELECT '";'; USE x`, []string{`SELECT '";'`, "USE x"}},
		{"doubled quote", "SELECT 'it''s;'; USE x", []string{"SELECT 'it''s;'", "USE x"}},
		{"default with semicolon", "CREATE TABLE t (c VARCHAR(5) DEFAULT ';'); USE z;", []string{"CREATE TABLE t (c VARCHAR(5) DEFAULT ';')", "USE z"}},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitStatements(tt.input)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, texts(got))
			for i, s := range got {
				assert.Equal(t, i, s.Index)
			}
		})
	}
}

func TestSplitStatements_OpenQuote(t *testing.T) {
	got := SplitStatements("USE a; SELECT 'never closed; USE b;")
	require.Len(t, got, 2)
	assert.Equal(t, byte(0), got[0].OpenQuote)
	assert.Equal(t, byte('\''), got[1].OpenQuote)
	assert.Equal(t, "SELECT 'never closed; USE b;", got[1].Text)
}

func FuzzSplitStatements(f *testing.F) {
	f.Add("USE a; CREATE TABLE t (id INT);")
	f.Add("SELECT 'a;b'; `x;`")
	f.Add(`"unterminated; ;`)

	f.Fuzz(func(t *testing.T, input string) {
		stmts := SplitStatements(input)
		for i, s := range stmts {
			if s.Text == "" {
				t.Fatalf("statement %d is empty", i)
			}
			if s.Text != strings.TrimSpace(s.Text) {
				t.Fatalf("statement %d not trimmed: %q", i, s.Text)
			}
			if s.OpenQuote != 0 && i != len(stmts)-1 {
				t.Fatalf("open quote on non-final statement %d", i)
			}
		}
	})
}
