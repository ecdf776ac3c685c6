package ddl

import "fmt"

// DiagnosticKind classifies a recoverable parse anomaly.
type DiagnosticKind int

const (
	DiagUnterminatedComment DiagnosticKind = iota // block comment open at end of script
	DiagUnterminatedQuote                         // statement ends inside a quoted region
	DiagMalformedUse                              // USE without a usable database name
	DiagNoDatabase                                // CREATE TABLE before any USE
	DiagMalformedCreateTable                      // CREATE TABLE without a usable table name
	DiagMissingColumnBody                         // CREATE TABLE without "("
	DiagUnbalancedParens                          // column body has no matching ")"
	DiagMalformedColumn                           // column clause without name or type
	DiagDuplicateColumn                           // column declared twice in one table
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagUnterminatedComment:
		return "unterminated-comment"
	case DiagUnterminatedQuote:
		return "unterminated-quote"
	case DiagMalformedUse:
		return "malformed-use"
	case DiagNoDatabase:
		return "no-database"
	case DiagMalformedCreateTable:
		return "malformed-create-table"
	case DiagMissingColumnBody:
		return "missing-column-body"
	case DiagUnbalancedParens:
		return "unbalanced-parens"
	case DiagMalformedColumn:
		return "malformed-column"
	case DiagDuplicateColumn:
		return "duplicate-column"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// maxSnippetLength bounds the statement text carried by a Diagnostic.
const maxSnippetLength = 100

// Diagnostic describes a statement or clause that was skipped or only partly understood.
type Diagnostic struct {
	Kind DiagnosticKind

	// Statement is the 1-based statement number, 0 for script-level anomalies.
	Statement int

	// Snippet is the offending statement or clause, shortened to 100 characters.
	Snippet string

	Message string
}

func (d Diagnostic) String() string {
	if d.Statement == 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	if d.Snippet == "" {
		return fmt.Sprintf("statement %d: %s: %s", d.Statement, d.Kind, d.Message)
	}
	return fmt.Sprintf("statement %d: %s: %s [%s]", d.Statement, d.Kind, d.Message, d.Snippet)
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) <= maxSnippetLength {
		return s
	}
	return string(r[:maxSnippetLength]) + "..."
}
