package ddlcheck

import (
	"context"
	"database/sql"
	"time"
)

// Logger receives printf-style messages. Verbose output is dropped unless
// the implementation was created in verbose mode. Implementations must be
// safe for concurrent use.
type Logger interface {
	Verbose(format string, args ...interface{})
	Info(format string, args ...interface{})
	// Warn reports recoverable anomalies, e.g. a skipped DDL statement.
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Connector opens a pool to the server configured for one auth method.
// The caller closes the returned *sql.DB.
type Connector interface {
	Connect(ctx context.Context) (*sql.DB, error)
}

// Approver decides whether an existing output file may be replaced.
type Approver interface {
	RequestApproval(ctx context.Context, path string) (bool, error)
}

// ErrorClassifier separates transient connection errors from fatal ones.
type ErrorClassifier interface {
	IsTransient(err error) bool
}

// BackoffStrategy yields the wait before retry attempt n (zero-based).
// MaxAttempts of 0 disables retries; -1 retries until the context ends.
type BackoffStrategy interface {
	NextDelay(attempt int) time.Duration
	MaxAttempts() int
}
