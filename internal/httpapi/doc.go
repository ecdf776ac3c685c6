// Package httpapi exposes parsing and validation over HTTP.
//
// Routes:
//
//	GET  /health         liveness with a timestamp
//	POST /parse/{file}   parse <sql-dir>/<file>.sql into <output-dir>/<file>.json
//	GET  /check/{file}   validate <output-dir>/<file> (json or yaml) and write the report
//
// File names are plain names inside the configured directories; separators
// and ".." are rejected with 400 before anything touches the filesystem.
package httpapi
