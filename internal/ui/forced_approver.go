package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// ForcedApprover implements the Approver interface for --force runs.
// It prints a short countdown and then approves the overwrite.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) ddlcheck.Approver {
	return &ForcedApprover{
		verbose: verbose,
		output:  os.Stderr,
		sleepFn: time.Sleep,
	}
}

// RequestApproval counts down and approves unless ctx is cancelled first.
func (a *ForcedApprover) RequestApproval(ctx context.Context, path string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  %s already exists and will be overwritten\n", path)

	countdownSeconds := int(ddlcheck.DefaultForceApprovalCountdown.Seconds())
	for i := countdownSeconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.output)
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rOverwriting in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(time.Second)
		}
	}

	fmt.Fprintf(a.output, "\r✓ Overwriting %s                                        \n", path)
	return true, nil
}

var _ ddlcheck.Approver = (*ForcedApprover)(nil)
