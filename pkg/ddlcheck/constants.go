package ddlcheck

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Run completed successfully
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid configuration or interchange format
	ExitConnectionError  = 11 // Failed to connect to database
	ExitApprovalDenied   = 12 // User denied overwrite of an output file
	ExitDiscrepancies    = 13 // Validation found missing or mismatched structure
	ExitInputUnavailable = 14 // SQL or structure file missing
)

const (
	// DefaultHost is used when an alias or flag set leaves the host empty.
	DefaultHost = "localhost"

	// DefaultPort is the standard MySQL port.
	DefaultPort = 3306

	// DefaultUsername is used when no username is configured.
	DefaultUsername = "root"

	// DefaultCharset is the connection character set.
	DefaultCharset = "utf8mb4"

	// DefaultAlias is the configuration alias used when none is given.
	DefaultAlias = "default"

	// DefaultReportFile is the report name written into the output directory.
	DefaultReportFile = "database_validation.md"

	// DefaultOutputDir receives structure files and reports.
	DefaultOutputDir = "output"

	// DefaultTimeout bounds a whole validation run.
	DefaultTimeout = 5 * time.Minute

	// DefaultConnectTimeout bounds a single dial attempt.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultForceApprovalCountdown is the countdown duration before a forced overwrite proceeds.
	DefaultForceApprovalCountdown = 3 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// SQLFileExtension selects script files during directory scans.
	SQLFileExtension = ".sql"
)
