package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// requireInput validates that exactly one input path argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func requireInput(example string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return fmt.Errorf(`missing required argument: <path>

Usage: %s

Example:
  %s %s`, cmd.UseLine(), cmd.CommandPath(), example)
		}
		if len(args) > 1 {
			return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
		}
		return nil
	}
}
