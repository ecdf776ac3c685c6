// Package ddl extracts the intended schema from MySQL DDL scripts.
//
// Only two statement kinds are understood:
//
//	USE <db>
//	CREATE TABLE [IF NOT EXISTS] [<db>.]<name> ( <columns and constraints> )
//
// Everything else is ignored. Parsing never fails on malformed SQL: bad
// statements and column clauses are skipped and reported as Diagnostics,
// and the tree holds whatever could be recovered.
//
// Each Parse call carries its own parser state, so independent scripts
// can be parsed concurrently.
package ddl
