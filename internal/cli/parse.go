package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/ddlcheck/internal/ddl"
	"github.com/vvka-141/ddlcheck/internal/files/filesystem"
	"github.com/vvka-141/ddlcheck/internal/structfile"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

var parseCmd = &cobra.Command{
	Use:   "parse <sql_file_or_dir>",
	Short: "Extract the declared structure from SQL scripts",
	Long: `Parse reads USE and CREATE TABLE statements and writes the declared
database → table → column structure as JSON or YAML.

A directory is scanned recursively for .sql files. Each script starts with no
current database and produces its own structure file named after the script,
unless --merge combines them into one file.

Statements that cannot be understood are skipped and reported as warnings;
they never fail the run.

Examples:
  # One structure file per script under ./output
  ddlcheck parse ./sql

  # A single YAML file for the whole directory
  ddlcheck parse ./sql --merge --format yaml --name release

  # Keep modifiers such as UNSIGNED in column types
  ddlcheck parse schema.sql --full-types`,
	Args:              requireInput("./sql"),
	ValidArgsFunction: completeSQLInputs,
	RunE:              runParse,
}

type parseFlagValues struct {
	outputDir string
	format    string
	merge     bool
	name      string
	fullTypes bool
	force     bool
}

var parseFlags parseFlagValues

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseFlags.outputDir, "output-dir", "o", ddlcheck.DefaultOutputDir,
		"Directory for structure files (default from config output_dir, then ./output)")
	parseCmd.Flags().StringVarP(&parseFlags.format, "format", "f", "json", "Structure file format: json|yaml")
	parseCmd.Flags().BoolVar(&parseFlags.merge, "merge", false,
		"Write one structure file for all scripts; later scripts win on conflicting columns")
	parseCmd.Flags().StringVar(&parseFlags.name, "name", "schema", "Base name of the merged file")
	parseCmd.Flags().BoolVar(&parseFlags.fullTypes, "full-types", false,
		"Keep type modifiers (UNSIGNED, ZEROFILL, CHARACTER SET ...) in column types")
	parseCmd.Flags().BoolVar(&parseFlags.force, "force", false,
		"Overwrite existing structure files without asking")

	_ = parseCmd.RegisterFlagCompletionFunc("format", completeFixed("json", "yaml"))
}

func runParse(cmd *cobra.Command, args []string) error {
	input := args[0]
	verbose := getVerboseFlag(cmd)
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	format, err := structfile.ParseFormat(parseFlags.format)
	if err != nil {
		return err
	}
	projectCfg, err := loadProjectConfig("")
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(cmd, projectCfg, parseFlags.outputDir)

	results, err := parseInput(input, parseFlags.fullTypes)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no %s files in %s: %w", ddlcheck.SQLFileExtension, input, ddlcheck.ErrInputUnavailable)
	}
	reportParseResults(logger, results)

	type output struct {
		result *ddl.Result
		path   string
	}
	var outputs []output
	if parseFlags.merge {
		merged := &ddl.Result{Tree: ddl.Merge(results)}
		outputs = append(outputs, output{merged, filepath.Join(outputDir, parseFlags.name+format.Extension())})
	} else {
		for _, r := range results {
			outputs = append(outputs, output{r, filepath.Join(outputDir, structureFileName(r, format))})
		}
	}

	ctx, cancel := runContext(time.Minute)
	defer cancel()
	approver := newApprover(parseFlags.force, verbose)
	store := structfile.NewStore(filesystem.NewOSFileSystem())

	for _, out := range outputs {
		if err := confirmOverwrite(ctx, approver, out.path); err != nil {
			return err
		}
		if err := store.Save(out.result.Tree, out.path, format.String()); err != nil {
			return err
		}
		st := out.result.Tree.Stats()
		logger.Info("Wrote %s (%d databases, %d tables, %d columns)", out.path, st.Databases, st.Tables, st.Columns)
		fmt.Fprintln(cmd.OutOrStdout(), out.path)
	}
	return nil
}

// parseInput parses a single script or every script under a directory.
func parseInput(input string, fullTypes bool) ([]*ddl.Result, error) {
	var opts []ddl.Option
	if fullTypes {
		opts = append(opts, ddl.WithFullTypes())
	}
	extractor := ddl.NewExtractor(filesystem.NewOSFileSystem(), opts...)

	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", input, ddlcheck.ErrInputUnavailable, err)
	}
	if info.IsDir() {
		return extractor.ParseDir(input)
	}
	res, err := extractor.ParseFile(input)
	if err != nil {
		return nil, err
	}
	return []*ddl.Result{res}, nil
}

// reportParseResults logs diagnostics as warnings and provenance in verbose mode.
func reportParseResults(logger ddlcheck.Logger, results []*ddl.Result) {
	for _, r := range results {
		name := "<input>"
		if r.Source != nil {
			name = r.Source.Path
			logger.Verbose("%s: %d statements, sha256 %s (normalized %s)",
				name, r.Statements, r.Source.ChecksumRaw, r.Source.Checksum)
		}
		for _, d := range r.Diagnostics {
			logger.Warn("%s: %s", name, d)
		}
	}
}

// structureFileName maps shop/orders.sql to shop_orders.json so scripts in
// different subdirectories do not collide.
func structureFileName(r *ddl.Result, format structfile.Format) string {
	rel := "schema" + ddlcheck.SQLFileExtension
	if r.Source != nil {
		rel = r.Source.RelativePath
	}
	base := strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
	return strings.ReplaceAll(base, "/", "_") + format.Extension()
}
