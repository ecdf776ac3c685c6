// Package validator reconciles a declared schema tree against a live MySQL server.
//
// A run holds exactly one connection. Configuration and connection failures
// are returned as errors; failures inside one database or table branch are
// recorded on that branch with ValidationAborted and traversal continues.
package validator
