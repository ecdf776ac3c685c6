package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/ddlcheck/internal/db"
	"github.com/vvka-141/ddlcheck/internal/ddl"
	"github.com/vvka-141/ddlcheck/internal/files/filesystem"
	"github.com/vvka-141/ddlcheck/internal/report"
	"github.com/vvka-141/ddlcheck/internal/schema"
	"github.com/vvka-141/ddlcheck/internal/structfile"
	"github.com/vvka-141/ddlcheck/internal/tui"
	"github.com/vvka-141/ddlcheck/internal/validator"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

var checkCmd = &cobra.Command{
	Use:     "check <structure_file|sql_file|sql_dir>",
	Aliases: []string{"validate"},
	Short:   "Compare a declared structure with a live MySQL server",
	Long: `Check loads a structure file written by 'ddlcheck parse' (or parses SQL
directly), connects to MySQL and compares every declared database, table and
column with what the server reports. The outcome is written as a markdown
report and summarized on the console.

Only configuration problems and the initial connection fail the command. A
database or table that cannot be inspected is recorded in the report and the
run continues.

Password Authentication:
  Prefer $DDLCHECK_PASSWORD or $MYSQL_PWD, a connection string, or an alias
  in ddlcheck.yaml over --password, which is visible in the process list.

Examples:
  # Check a structure file against the default alias
  ddlcheck check output/shop.json

  # Parse and check in one step with explicit parameters
  MYSQL_PWD=secret ddlcheck check ./sql -H db.internal -u app

  # Fail a CI job when anything differs
  ddlcheck check output/shop.json --alias staging --fail-on-mismatch --force`,
	Args:              requireInput("output/shop.json"),
	ValidArgsFunction: completeStructureFiles,
	RunE:              runCheck,
}

type checkFlagValues struct {
	conn           connectionFlags
	fileType       string
	fullTypes      bool
	reportPath     string
	outputDir      string
	failOnMismatch bool
	force          bool
	timeout        time.Duration
}

var checkFlags checkFlagValues

func init() {
	rootCmd.AddCommand(checkCmd)

	addConnectionFlags(checkCmd, &checkFlags.conn)
	checkCmd.Flags().StringVarP(&checkFlags.fileType, "type", "t", "",
		"Structure file type json|yaml (default: from the extension)")
	checkCmd.Flags().BoolVar(&checkFlags.fullTypes, "full-types", false,
		"Keep type modifiers when the input is SQL")
	checkCmd.Flags().StringVarP(&checkFlags.reportPath, "report", "r", "",
		"Report file (default: <output-dir>/"+ddlcheck.DefaultReportFile+")")
	checkCmd.Flags().StringVarP(&checkFlags.outputDir, "output-dir", "o", ddlcheck.DefaultOutputDir,
		"Directory for the report (default from config output_dir, then ./output)")
	checkCmd.Flags().BoolVar(&checkFlags.failOnMismatch, "fail-on-mismatch", false,
		"Exit with code 13 when any column, table or database differs")
	checkCmd.Flags().BoolVar(&checkFlags.force, "force", false,
		"Overwrite an existing report without asking")
	checkCmd.Flags().DurationVar(&checkFlags.timeout, "timeout", ddlcheck.DefaultTimeout,
		"Upper bound for the whole run (default 5m)")

	_ = checkCmd.RegisterFlagCompletionFunc("type", completeFixed("json", "yaml"))
}

func runCheck(cmd *cobra.Command, args []string) error {
	input := args[0]
	verbose := getVerboseFlag(cmd)
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	projectCfg, err := loadProjectConfig(checkFlags.conn.configFile)
	if err != nil {
		return err
	}
	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, checkFlags.timeout)
	if err != nil {
		return err
	}

	tree, sources, err := loadTree(input, checkFlags.fileType, checkFlags.fullTypes, logger)
	if err != nil {
		return err
	}

	conn, err := resolveConnection(&checkFlags.conn, projectCfg, logger)
	if err != nil {
		return err
	}

	reportPath := checkFlags.reportPath
	if reportPath == "" {
		reportPath = filepath.Join(resolveOutputDir(cmd, projectCfg, checkFlags.outputDir), ddlcheck.DefaultReportFile)
	}

	ctx, cancel := runContext(timeout)
	defer cancel()

	// ask before connecting so a declined overwrite costs nothing
	if err := confirmOverwrite(ctx, newApprover(checkFlags.force, verbose), reportPath); err != nil {
		return err
	}

	progress := tui.NewProgressDisplay()
	progress.Start("Checking " + conn.Target())

	v := validator.New(connectorFactory(logger), logger)
	summary, err := v.Validate(ctx, conn, tree)
	if err != nil {
		progress.Error("Check failed")
		return err
	}
	progress.Success(fmt.Sprintf("Checked %d databases", len(summary.Databases)))

	if err := writeReport(reportPath, summary, sources); err != nil {
		return err
	}
	if err := report.WriteConsole(os.Stderr, summary, reportPath, tui.ColorEnabled(os.Stderr)); err != nil {
		return err
	}

	if checkFlags.failOnMismatch && summary.HasDiscrepancies() {
		return fmt.Errorf("%s differs from %s: %w", input, conn.Target(), ddlcheck.ErrDiscrepanciesFound)
	}
	return nil
}

// connectorFactory adapts db.NewConnector to the validator.
func connectorFactory(logger ddlcheck.Logger) validator.ConnectorFactory {
	return func(cfg *ddlcheck.ConnectionConfig) (ddlcheck.Connector, error) {
		return db.NewConnector(cfg, logger)
	}
}

// loadTree reads a structure file, or parses SQL when input is a .sql file
// or a directory. Parsed scripts are returned as report sources.
func loadTree(input, fileType string, fullTypes bool, logger ddlcheck.Logger) (*schema.Tree, []report.Source, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w: %w", input, ddlcheck.ErrInputUnavailable, err)
	}

	if !info.IsDir() && !strings.EqualFold(filepath.Ext(input), ddlcheck.SQLFileExtension) {
		tree, err := structfile.NewStore(filesystem.NewOSFileSystem()).Load(input, fileType)
		if err != nil {
			return nil, nil, err
		}
		return tree, nil, nil
	}

	results, err := parseInput(input, fullTypes)
	if err != nil {
		return nil, nil, err
	}
	if len(results) == 0 {
		return nil, nil, fmt.Errorf("no %s files in %s: %w", ddlcheck.SQLFileExtension, input, ddlcheck.ErrInputUnavailable)
	}
	reportParseResults(logger, results)

	var sources []report.Source
	for _, r := range results {
		if r.Source != nil {
			sources = append(sources, report.Source{Path: r.Source.Path, Checksum: r.Source.ChecksumRaw})
		}
	}
	return ddl.Merge(results), sources, nil
}

func writeReport(path string, summary *validator.Summary, sources []report.Source) error {
	var buf bytes.Buffer
	if err := report.WriteMarkdown(&buf, summary, report.Options{Sources: sources}); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := filesystem.NewOSFileSystem().WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
