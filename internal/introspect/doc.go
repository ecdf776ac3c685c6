// Package introspect reads live MySQL structure over one dedicated connection.
//
// Only introspection statements are issued: SHOW DATABASES, USE, SHOW TABLES
// and DESCRIBE. Nothing here creates, alters or writes.
//
// USE changes session state, so an Inspector must own its *sql.Conn for the
// whole run. Pooled handles would hand the next query to another session.
package introspect
