package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vvka-141/ddlcheck/internal/config"
	"github.com/vvka-141/ddlcheck/internal/tui"
	"github.com/vvka-141/ddlcheck/internal/tui/wizards"
)

var configCmd = &cobra.Command{
	Use:   "config [path]",
	Short: "Interactively add a database alias to " + config.ConfigFileName,
	Long: `Launches an interactive wizard that adds a connection alias to the config file.

The wizard guides you through:
  1. Where the server runs and how to authenticate
  2. A connection test
  3. The alias name, whether to store the password, and the run timeout

Existing aliases are kept. path may be a directory or a config file
(.yaml, .yml or .toml); it defaults to ./` + config.ConfigFileName + `.

This command requires an interactive terminal. For non-interactive use,
edit the config file by hand or use environment variables.

Examples:
  ddlcheck config
  ddlcheck config ./deploy/ddlcheck.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	configPath := configFilePath(target)

	if !tui.IsInteractive() {
		return fmt.Errorf("config command requires an interactive terminal\n" +
			"For non-interactive use, edit " + config.ConfigFileName + " manually or use environment variables")
	}

	existing, err := config.LoadFile(configPath)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return err
	}
	if existing != nil {
		fmt.Fprintf(os.Stderr, "Found %s with %d alias(es)\n", configPath, len(existing.Databases))
	}

	connResult, err := wizards.RunConnectionWizard()
	if err != nil {
		return fmt.Errorf("connection wizard failed: %w", err)
	}
	if connResult.Cancelled {
		fmt.Fprintln(os.Stderr, "Cancelled.")
		return nil
	}

	cfgResult, err := wizards.RunConfigWizard(connResult.Config, existing)
	if err != nil {
		return fmt.Errorf("config wizard failed: %w", err)
	}
	if cfgResult.Cancelled {
		fmt.Fprintln(os.Stderr, "Cancelled.")
		return nil
	}

	if err := config.Save(configPath, &cfgResult.Config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n%s Alias %q saved to %s\n", tui.SymbolCheck, cfgResult.Alias, configPath)
	if !connResult.Tested {
		fmt.Fprintln(os.Stderr, "  The connection was not verified; run 'ddlcheck check' to try it.")
	}
	return nil
}

// configFilePath resolves a directory to the config file inside it. An
// existing ddlcheck.yml or ddlcheck.toml is preferred over a new yaml file.
func configFilePath(target string) string {
	info, err := os.Stat(target)
	if err != nil {
		if filepath.Ext(target) == "" {
			return filepath.Join(target, config.ConfigFileName)
		}
		return target
	}
	if !info.IsDir() {
		return target
	}
	for _, name := range config.ConfigFileNames {
		p := filepath.Join(target, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(target, config.ConfigFileName)
}
