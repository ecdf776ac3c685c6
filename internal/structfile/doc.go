// Package structfile saves and loads schema trees as structure files.
//
// Two formats are supported: JSON (.json) and YAML (.yaml, .yml). The format
// comes from an explicit type or, when none is given, from the extension.
// Loaded documents are checked against an embedded JSON Schema before they
// are decoded, so shape errors name the offending path.
package structfile
