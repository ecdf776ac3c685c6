package ddlcheck

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes of a parse/validate run.
// Callers distinguish them with errors.Is().
//
// Example usage:
//
//	tree, err := structfile.Load(path, "")
//	if errors.Is(err, ddlcheck.ErrInputUnavailable) {
//	    // file missing or unreadable
//	}
var (
	// ErrInputUnavailable indicates a SQL source or structure file is missing or unreadable.
	ErrInputUnavailable = errors.New("input unavailable")

	// ErrConfigurationInvalid indicates missing or malformed connection parameters,
	// an unknown alias, or an unsupported interchange format.
	ErrConfigurationInvalid = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the initial database connection could not be established.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrValidationAborted indicates a database or table branch could not be checked.
	// It is recorded in the results and never returned from a whole run.
	ErrValidationAborted = errors.New("validation aborted")

	// ErrDiscrepanciesFound indicates validation completed but reported non-matching entries.
	ErrDiscrepanciesFound = errors.New("schema discrepancies found")

	// ErrApprovalDenied indicates the user refused to overwrite an existing output file.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// ErrUnsupportedFormat indicates an interchange file extension or type that is
// neither JSON nor YAML. It matches ErrConfigurationInvalid under errors.Is.
var ErrUnsupportedFormat = fmt.Errorf("unsupported structure file format: %w", ErrConfigurationInvalid)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrConfigurationInvalid):
		return ExitConfigError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrDiscrepanciesFound):
		return ExitDiscrepancies
	case errors.Is(err, ErrInputUnavailable):
		return ExitInputUnavailable
	}

	errStr := err.Error()

	// cobra reports usage problems as plain errors
	for _, pattern := range usageErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"missing required argument",
}
