// Package scanner discovers SQL scripts in a directory tree.
//
// Files are selected by the .sql extension (case-insensitive) and returned
// in lexical path order with their content and checksums. Every script is
// parsed on its own; merging trees is left to the caller.
package scanner
