// Package schema holds the intended structure extracted from DDL:
// databases → tables → columns → declared type strings.
//
// All three containers keep insertion order so reports and structure
// files are deterministic. They serialize to plain nested JSON/YAML
// mappings ({db: {table: {column: type}}}) and back without loss.
package schema
