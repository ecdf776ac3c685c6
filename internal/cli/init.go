package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vvka-141/ddlcheck/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init [target_path]",
	Short: "Create a ddlcheck project",
	Long: `Create a project directory with:
- ddlcheck.yaml with a "default" alias for a local server
- sql/schema.sql, a sample schema to edit
- .env.example for DDLCHECK_PASSWORD
- README with the parse and check commands

The target must be missing or empty; an existing ddlcheck.yaml or .env is kept.

Examples:
  ddlcheck init                  # Current directory
  ddlcheck init ./inventory      # New subdirectory`,
	Args: cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveFilterDirs
	},
	RunE: runInit,
}

var initTemplate string

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initTemplate, "template", "t", scaffold.DefaultTemplate, "Project template")
	_ = initCmd.RegisterFlagCompletionFunc("template", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		names, _ := scaffold.ListTemplates()
		return filterPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	projectName := filepath.Base(target)
	if projectName == "." || projectName == ".." || projectName == string(filepath.Separator) {
		projectName = "project"
		if cwd, err := os.Getwd(); err == nil {
			projectName = filepath.Base(cwd)
		}
	}

	if err := scaffold.NewScaffolder(logger).CreateProject(projectName, initTemplate, target); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	out := cmd.ErrOrStderr()
	if tree, err := scaffold.BuildFileTree(target); err == nil {
		fmt.Fprintf(out, "\n✓ Project %q created from template %q\n\n", projectName, initTemplate)
		fmt.Fprint(out, tree)
	} else {
		fmt.Fprintf(out, "\n✓ Project %q created in %s\n", projectName, target)
	}

	fmt.Fprintln(out, "\nNext steps:")
	if target != "." {
		fmt.Fprintf(out, "  cd %s\n", target)
	}
	fmt.Fprintln(out, "  cp .env.example .env   # set DDLCHECK_PASSWORD")
	fmt.Fprintln(out, "  ddlcheck parse sql/")
	fmt.Fprintln(out, "  ddlcheck check sql/")
	return nil
}
