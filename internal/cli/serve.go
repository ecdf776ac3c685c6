package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vvka-141/ddlcheck/internal/files/filesystem"
	"github.com/vvka-141/ddlcheck/internal/httpapi"
	"github.com/vvka-141/ddlcheck/internal/schema"
	"github.com/vvka-141/ddlcheck/internal/validator"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve parse and check over HTTP",
	Long: `Serve exposes parsing and checking as HTTP endpoints:

  GET  /health        liveness and server time
  POST /parse/{file}  parse <sql-dir>/{file}.sql into <output-dir>/{file}.json
  GET  /check/{file}  check <output-dir>/{file} (.json, .yaml or .yml) and
                      write <output-dir>/` + ddlcheck.DefaultReportFile + `

Connection parameters are resolved once at startup and used for every check.

Examples:
  ddlcheck serve --addr :5000 --sql-dir ./sql --alias staging`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

type serveFlagValues struct {
	conn      connectionFlags
	addr      string
	sqlDir    string
	outputDir string
	fullTypes bool
}

var serveFlags serveFlagValues

func init() {
	rootCmd.AddCommand(serveCmd)

	addConnectionFlags(serveCmd, &serveFlags.conn)
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", ":5000", "Listen address")
	serveCmd.Flags().StringVar(&serveFlags.sqlDir, "sql-dir", "sql", "Directory of SQL scripts for /parse")
	serveCmd.Flags().StringVarP(&serveFlags.outputDir, "output-dir", "o", ddlcheck.DefaultOutputDir,
		"Directory for structure files and reports (default from config output_dir, then ./output)")
	serveCmd.Flags().BoolVar(&serveFlags.fullTypes, "full-types", false, "Keep type modifiers in parsed column types")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	projectCfg, err := loadProjectConfig(serveFlags.conn.configFile)
	if err != nil {
		return err
	}
	conn, err := resolveConnection(&serveFlags.conn, projectCfg, logger)
	if err != nil {
		return err
	}
	timeout, err := projectCfg.TimeoutDuration()
	if err != nil {
		return err
	}

	v := validator.New(connectorFactory(logger), logger)
	check := func(ctx context.Context, tree *schema.Tree) (*validator.Summary, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return v.Validate(ctx, conn, tree)
	}

	server := httpapi.New(httpapi.Config{
		SQLDir:    serveFlags.sqlDir,
		OutputDir: resolveOutputDir(cmd, projectCfg, serveFlags.outputDir),
		FullTypes: serveFlags.fullTypes,
	}, filesystem.NewOSFileSystem(), check, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Checking against %s", conn.Target())
	return server.ListenAndServe(ctx, serveFlags.addr)
}
