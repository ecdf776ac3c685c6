package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode is the interaction mode of a ddlcheck run.
type Mode int

const (
	// ModeNonInteractive covers CI, scripts and piped input.
	ModeNonInteractive Mode = iota
	// ModeInteractive means a person is at the terminal.
	ModeInteractive
)

// NonInteractiveEnv forces ModeNonInteractive when set to "1".
const NonInteractiveEnv = "DDLCHECK_NON_INTERACTIVE"

// DetectMode reports ModeInteractive only when both stdin and stdout are
// terminals and none of DDLCHECK_NON_INTERACTIVE=1, CI or NO_COLOR is set.
func DetectMode() Mode {
	if os.Getenv(NonInteractiveEnv) == "1" || os.Getenv("CI") != "" || os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive is shorthand for DetectMode() == ModeInteractive.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}

// ColorEnabled reports whether styled output should be written to f.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
