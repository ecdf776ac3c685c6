package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// InteractiveApprover asks on the console before an output file is replaced.
// Anything other than y or yes declines.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover creates a new InteractiveApprover on stdin/stderr.
func NewInteractiveApprover(verbose bool) ddlcheck.Approver {
	return &InteractiveApprover{
		verbose: verbose,
		input:   os.Stdin,
		output:  os.Stderr,
	}
}

// RequestApproval prompts y/N for path.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, path string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  WARNING: %s already exists\n", path)
	fmt.Fprint(a.output, "Overwrite it? [y/N]: ")

	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		input, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || input == "") {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		switch strings.ToLower(input) {
		case "y", "yes":
			fmt.Fprintln(a.output, "✓ Confirmed.")
			return true, nil
		}
		fmt.Fprintf(a.output, "✗ Keeping existing %s\n", path)
		return false, nil
	}
}

var _ ddlcheck.Approver = (*InteractiveApprover)(nil)
