package structfile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// Format is a structure file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extension returns the canonical file extension, dot included.
func (f Format) Extension() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// ParseFormat maps an explicit type name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%q (supported: json, yaml): %w", name, ddlcheck.ErrUnsupportedFormat)
	}
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, fmt.Errorf("%s has no extension (supported: .json, .yaml, .yml): %w", path, ddlcheck.ErrUnsupportedFormat)
	}
	return ParseFormat(ext)
}

// resolveFormat prefers the explicit type over the extension.
func resolveFormat(path, explicit string) (Format, error) {
	if explicit != "" {
		return ParseFormat(explicit)
	}
	return FormatFromPath(path)
}
