// Package logging provides concrete implementations of the ddlcheck.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: logrus-backed, writes to stderr in plain or JSON form
//   - NullLogger: discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
