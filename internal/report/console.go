package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vvka-141/ddlcheck/internal/tui"
	"github.com/vvka-141/ddlcheck/internal/validator"
)

// WriteConsole prints a short styled summary. With color false the
// output carries no escape sequences.
func WriteConsole(w io.Writer, summary *validator.Summary, reportPath string, color bool) error {
	style := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	counts := summary.Counts()

	headline := style(tui.SuccessStyle, tui.SymbolCheck+" Schema matches "+summary.Target)
	if summary.HasDiscrepancies() {
		headline = style(tui.ErrorStyle, tui.SymbolCross+" Schema differs on "+summary.Target)
	}
	b.WriteString(headline)
	b.WriteString("\n")

	for _, s := range validator.Statuses {
		n := counts[s]
		if n == 0 {
			continue
		}
		line := fmt.Sprintf("  %s %-18s %d", tui.SymbolBullet, s, n)
		switch s {
		case validator.Match:
			line = style(tui.SuccessStyle, line)
		case validator.Mismatch:
			line = style(tui.WarningStyle, line)
		default:
			line = style(tui.ErrorStyle, line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if reportPath != "" {
		b.WriteString(style(tui.HelpStyle.UnsetMarginTop(), fmt.Sprintf("  %s report: %s", tui.SymbolArrowRight, reportPath)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
