package ddl

import (
	"fmt"
	"strings"

	"github.com/vvka-141/ddlcheck/internal/preprocessor"
	"github.com/vvka-141/ddlcheck/internal/schema"
)

// tableConstraintKeywords start clauses that define keys or checks, not columns.
// PRIMARY and FOREIGN only count when followed by KEY.
var tableConstraintKeywords = map[string]bool{
	"CONSTRAINT": true,
	"UNIQUE":     true,
	"INDEX":      true,
	"KEY":        true,
	"FULLTEXT":   true,
	"SPATIAL":    true,
	"CHECK":      true,
}

// columnAttributeKeywords end a full column type.
var columnAttributeKeywords = map[string]bool{
	"NOT": true, "NULL": true, "DEFAULT": true, "AUTO_INCREMENT": true,
	"PRIMARY": true, "UNIQUE": true, "KEY": true, "COMMENT": true,
	"REFERENCES": true, "CHECK": true, "CONSTRAINT": true, "GENERATED": true,
	"AS": true, "COLLATE": true, "CHARACTER": true, "CHARSET": true,
	"ON": true, "INVISIBLE": true, "VISIBLE": true, "STORAGE": true,
	"COLUMN_FORMAT": true, "SRID": true, "ENGINE_ATTRIBUTE": true,
	"SECONDARY_ENGINE_ATTRIBUTE": true,
}

// parser carries the state of one extraction run.
type parser struct {
	opts    options
	tree    *schema.Tree
	current string
	diags   []Diagnostic
}

func newParser(opts options) *parser {
	return &parser{opts: opts, tree: schema.New()}
}

func (p *parser) report(kind DiagnosticKind, stmt int, text, format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{
		Kind:      kind,
		Statement: stmt,
		Snippet:   snippet(text),
		Message:   fmt.Sprintf(format, args...),
	})
}

// statement classifies and applies one statement. Unknown statements are ignored.
func (p *parser) statement(st preprocessor.Statement) {
	num := st.Index + 1
	c := &cursor{toks: lex(st.Text)}

	switch {
	case c.isKeyword(0, "USE"):
		c.next()
		p.use(num, st.Text, c)
	case c.isKeyword(0, "CREATE") && c.isKeyword(1, "TABLE"):
		c.next()
		c.next()
		p.createTable(num, st.Text, c)
	default:
		return
	}

	if st.OpenQuote != 0 {
		p.report(DiagUnterminatedQuote, num, st.Text, "statement ends inside %c-quoted text", st.OpenQuote)
	}
}

func (p *parser) use(num int, text string, c *cursor) {
	name, ok := c.identifier()
	if !ok {
		p.report(DiagMalformedUse, num, text, "cannot read database name")
		return
	}
	p.current = name
	p.tree.Database(name)
}

func (p *parser) createTable(num int, text string, c *cursor) {
	if c.isKeyword(0, "IF") {
		if !c.isKeyword(1, "NOT") || !c.isKeyword(2, "EXISTS") {
			p.report(DiagMalformedCreateTable, num, text, "expected IF NOT EXISTS")
			return
		}
		c.next()
		c.next()
		c.next()
	}

	table, ok := c.identifier()
	if !ok {
		p.report(DiagMalformedCreateTable, num, text, "cannot read table name")
		return
	}

	db := p.current
	if c.peekKind(0) == tokDot {
		c.next()
		qualified, ok := c.identifier()
		if !ok {
			p.report(DiagMalformedCreateTable, num, text, "cannot read table name after %q.", table)
			return
		}
		// An explicit db.table names its database, so it is kept even
		// before any USE. Only unqualified names depend on USE.
		db, table = table, qualified
	}

	if db == "" {
		p.report(DiagNoDatabase, num, text, "table %q appears before any USE statement; dropped", table)
		return
	}

	if c.peekKind(0) != tokLParen {
		p.report(DiagMissingColumnBody, num, text, "table %q has no column definitions", table)
		return
	}
	open := c.pos
	closeAt := matchParen(c.toks, open)
	if closeAt < 0 {
		p.report(DiagUnbalancedParens, num, text, "column definitions of %q are not closed", table)
		return
	}

	columns := p.tree.Database(db).Table(table)
	for _, clause := range splitClauses(c.toks[open+1 : closeAt]) {
		p.column(num, text, table, columns, clause)
	}
}

// column records one column clause. Table constraints are skipped silently.
func (p *parser) column(num int, text, table string, columns *schema.ColumnMap, clause []token) {
	clauseText := text[clause[0].pos:clause[len(clause)-1].end]
	if isTableConstraint(clause) {
		return
	}

	nameTok := clause[0]
	if (nameTok.kind != tokWord && nameTok.kind != tokQuotedIdent) || nameTok.unterminated || nameTok.value == "" {
		p.report(DiagMalformedColumn, num, clauseText, "cannot read column name in table %q", table)
		return
	}
	if len(clause) < 2 || clause[1].kind != tokWord {
		p.report(DiagMalformedColumn, num, clauseText, "column %q in table %q has no type", nameTok.value, table)
		return
	}

	typ, ok := p.columnType(text, clause[1:])
	if !ok {
		p.report(DiagMalformedColumn, num, clauseText, "type of column %q in table %q is not closed", nameTok.value, table)
		return
	}

	if _, exists := columns.Get(nameTok.value); exists {
		p.report(DiagDuplicateColumn, num, clauseText, "column %q declared again in table %q; last declaration kept", nameTok.value, table)
	}
	columns.Set(nameTok.value, typ)
}

// columnType reads the type word plus an immediately following parameter
// group. With full types enabled, trailing modifier words such as UNSIGNED
// are kept up to the first column attribute keyword.
func (p *parser) columnType(text string, toks []token) (string, bool) {
	var b strings.Builder
	i := 0
	for i < len(toks) {
		if toks[i].kind != tokWord {
			break
		}
		if i > 0 && (!p.opts.fullTypes || columnAttributeKeywords[strings.ToUpper(toks[i].value)]) {
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(toks[i].text)
		i++

		if i < len(toks) && toks[i].kind == tokLParen {
			closeAt := matchParen(toks, i)
			if closeAt < 0 {
				return "", false
			}
			b.WriteString(text[toks[i].pos:toks[closeAt].end])
			i = closeAt + 1
		}

		if !p.opts.fullTypes {
			break
		}
	}
	return b.String(), true
}

func isTableConstraint(clause []token) bool {
	first := clause[0]
	if first.kind != tokWord {
		return false
	}
	kw := strings.ToUpper(first.value)
	if kw == "PRIMARY" || kw == "FOREIGN" {
		return len(clause) > 1 && clause[1].kind == tokWord && strings.EqualFold(clause[1].value, "KEY")
	}
	return tableConstraintKeywords[kw]
}

// matchParen returns the index of the ")" closing the "(" at open, or -1.
func matchParen(toks []token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitClauses cuts a column body at commas outside any parentheses.
func splitClauses(toks []token) [][]token {
	var (
		clauses [][]token
		start   int
		depth   int
	)
	for i, tok := range toks {
		switch tok.kind {
		case tokLParen:
			depth++
		case tokRParen:
			if depth > 0 {
				depth--
			}
		case tokComma:
			if depth == 0 {
				if i > start {
					clauses = append(clauses, toks[start:i])
				}
				start = i + 1
			}
		}
	}
	if start < len(toks) {
		clauses = append(clauses, toks[start:])
	}
	return clauses
}

// cursor walks the tokens of one statement.
type cursor struct {
	toks []token
	pos  int
}

func (c *cursor) next() {
	if c.pos < len(c.toks) {
		c.pos++
	}
}

func (c *cursor) peekKind(ahead int) tokenKind {
	if c.pos+ahead >= len(c.toks) {
		return -1
	}
	return c.toks[c.pos+ahead].kind
}

func (c *cursor) isKeyword(ahead int, kw string) bool {
	if c.peekKind(ahead) != tokWord {
		return false
	}
	return strings.EqualFold(c.toks[c.pos+ahead].value, kw)
}

// identifier consumes a bare word or a closed `quoted`/"quoted" name.
func (c *cursor) identifier() (string, bool) {
	if c.pos >= len(c.toks) {
		return "", false
	}
	tok := c.toks[c.pos]
	switch {
	case tok.kind == tokWord:
	case tok.kind == tokQuotedIdent && !tok.unterminated && tok.value != "":
	default:
		return "", false
	}
	c.pos++
	return tok.value, true
}
