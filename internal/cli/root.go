package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/ddlcheck/internal/logging"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

var rootCmd = &cobra.Command{
	Use:   "ddlcheck",
	Short: "Check MySQL DDL scripts against a live server",
	Long: `ddlcheck reads USE and CREATE TABLE statements from SQL scripts, builds the
declared database → table → column structure, and compares it with what a
running MySQL server actually has. Differences are written to a markdown report.

  ddlcheck parse ./sql            # scripts → structure files
  ddlcheck check output/shop.json # structure file → validation report

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or structure file
  11 - Database connection failed
  12 - User denied overwrite approval
  13 - Discrepancies found (with --fail-on-mismatch)
  14 - SQL or structure file not found`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// a missing .env is fine
		_ = godotenv.Load()
	},
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text|json")
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", completeFixed("text", "json"))
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// newLogger builds the console logger from the persistent flags.
func newLogger(cmd *cobra.Command) (ddlcheck.Logger, error) {
	name, err := cmd.Flags().GetString("log-format")
	if err != nil {
		name = "text"
	}
	format, err := logging.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return logging.NewConsoleLoggerTo(os.Stderr, getVerboseFlag(cmd), format), nil
}
