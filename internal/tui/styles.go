package tui

import "github.com/charmbracelet/lipgloss"

// ANSI 256 palette shared by the wizards, the progress display and the
// console summary.
var (
	ColorPrimary   = lipgloss.Color("39")
	ColorSecondary = lipgloss.Color("245")
	ColorSuccess   = lipgloss.Color("34")
	ColorWarning   = lipgloss.Color("214")
	ColorError     = lipgloss.Color("196")
	ColorMuted     = lipgloss.Color("240")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func box(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
}

var (
	TitleStyle       = fg(ColorPrimary).Bold(true).MarginBottom(1)
	SubtitleStyle    = fg(ColorSecondary).MarginBottom(1)
	LabelStyle       = fg(ColorSecondary)
	DescriptionStyle = fg(ColorMuted).MarginLeft(4)
	HelpStyle        = fg(ColorMuted).MarginTop(1)

	// text inputs; the focused one gets the primary border
	BoxStyle        = box(ColorMuted)
	FocusedBoxStyle = box(ColorPrimary)

	SelectedStyle   = fg(ColorPrimary).Bold(true)
	UnselectedStyle = fg(ColorSecondary)

	SuccessStyle = fg(ColorSuccess)
	WarningStyle = fg(ColorWarning)
	ErrorStyle   = fg(ColorError)
	SpinnerStyle = fg(ColorPrimary)
)

const (
	SymbolSelected   = "●"
	SymbolUnselected = "○"
	SymbolCheck      = "✓"
	SymbolCross      = "✗"
	SymbolArrowRight = "→"
	SymbolBullet     = "•"
	SymbolSpinner    = "◐"
)
