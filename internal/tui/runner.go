package tui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// PromptContinue asks a Y/n question on stdin. Non-interactive runs answer yes.
func PromptContinue(message string) bool {
	if !IsInteractive() {
		return true
	}
	return promptContinue(os.Stdin, os.Stdout, message)
}

func promptContinue(in io.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s [Y/n]: ", message)

	response, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "", "y", "yes":
		return true
	}
	return false
}

// ProgressDisplay prints step markers for long running commands.
type ProgressDisplay struct {
	out   io.Writer
	color bool
}

// NewProgressDisplay writes to stderr, styled when stderr is a terminal.
func NewProgressDisplay() *ProgressDisplay {
	return &ProgressDisplay{out: os.Stderr, color: ColorEnabled(os.Stderr)}
}

func (p *ProgressDisplay) render(style func(string) string, symbol, message string) {
	line := symbol + " " + message
	if p.color {
		line = style(line)
	}
	fmt.Fprintln(p.out, line)
}

// Start announces a step.
func (p *ProgressDisplay) Start(message string) {
	p.render(func(s string) string { return SpinnerStyle.Render(s) }, SymbolSpinner, message)
}

// Success marks a step done.
func (p *ProgressDisplay) Success(message string) {
	p.render(func(s string) string { return SuccessStyle.Render(s) }, SymbolCheck, message)
}

// Error marks a step failed.
func (p *ProgressDisplay) Error(message string) {
	p.render(func(s string) string { return ErrorStyle.Render(s) }, SymbolCross, message)
}
