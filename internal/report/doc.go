// Package report renders validation summaries.
//
// Markdown output is the document written next to structure files. The
// console summary is a short styled block for terminals.
package report
