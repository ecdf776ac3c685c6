package logging

import "github.com/vvka-141/ddlcheck/pkg/ddlcheck"

// NullLogger is a no-op logger that discards all log messages.
// Safe for concurrent use by multiple goroutines.
type NullLogger struct{}

// NewNullLogger creates a new NullLogger.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(format string, args ...interface{}) {}
func (l *NullLogger) Info(format string, args ...interface{})    {}
func (l *NullLogger) Warn(format string, args ...interface{})    {}
func (l *NullLogger) Error(format string, args ...interface{})   {}

// OrNull returns l, or a NullLogger when l is nil.
func OrNull(l ddlcheck.Logger) ddlcheck.Logger {
	if l == nil {
		return NewNullLogger()
	}
	return l
}

var _ ddlcheck.Logger = (*NullLogger)(nil)
