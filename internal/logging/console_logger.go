package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// Format selects how ConsoleLogger renders entries.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts "text" (or empty) and "json".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("log format %q (supported: text, json): %w", s, ddlcheck.ErrConfigurationInvalid)
}

// ConsoleLogger writes log messages through logrus.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	log *logrus.Logger
}

// NewConsoleLogger creates a text logger on stderr.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewConsoleLoggerTo(os.Stderr, verbose, FormatText)
}

// NewConsoleLoggerTo creates a logger writing to w in the given format.
func NewConsoleLoggerTo(w io.Writer, verbose bool, format Format) *ConsoleLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	if format == FormatJSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(plainFormatter{})
	}
	return &ConsoleLogger{log: l}
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	l.log.Debug(render(format, args))
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.log.Info(render(format, args))
}

// Warn logs recoverable anomalies.
func (l *ConsoleLogger) Warn(format string, args ...interface{}) {
	l.log.Warn(render(format, args))
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.log.Error(render(format, args))
}

// render leaves a format without args untouched so stray % signs survive.
func render(format string, args []interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// plainFormatter prints one line per entry with a level tag.
type plainFormatter struct{}

func (plainFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	switch e.Level {
	case logrus.DebugLevel, logrus.TraceLevel:
		b.WriteString("[VERBOSE] ")
	case logrus.WarnLevel:
		b.WriteString("[WARN] ")
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		b.WriteString("[ERROR] ")
	}
	b.WriteString(e.Message)
	b.WriteByte('\n')
	return b.Bytes(), nil
}

var _ ddlcheck.Logger = (*ConsoleLogger)(nil)
