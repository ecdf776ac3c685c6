// Package checksum fingerprints SQL scripts for report provenance.
//
//   - Raw checksum: hash of the exact file content
//   - Normalized checksum: hash after removing comments, collapsing
//     whitespace and lowercasing, so reformatting a script keeps its identity
//
// Comment removal uses the same quote rules as the extractor, so text inside
// quoted literals and identifiers is never treated as a comment.
package checksum
