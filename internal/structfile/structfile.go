package structfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/ddlcheck/internal/files/filesystem"
	"github.com/vvka-141/ddlcheck/internal/schema"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

//go:embed structure.schema.json
var structureSchema string

var (
	compileOnce    sync.Once
	compiledSchema *gojsonschema.Schema
	compileErr     error
)

func documentSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(structureSchema))
	})
	return compiledSchema, compileErr
}

// Store reads and writes structure files through a filesystem provider.
type Store struct {
	fs filesystem.FileSystemProvider
}

// NewStore creates a Store. Panics if fsProvider is nil.
func NewStore(fsProvider filesystem.FileSystemProvider) *Store {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Store{fs: fsProvider}
}

// Encode renders tree in the given format.
func Encode(tree *schema.Tree, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(tree); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%s: %w", format, ddlcheck.ErrUnsupportedFormat)
	}
	return buf.Bytes(), nil
}

// Decode parses data in the given format after checking its shape.
func Decode(data []byte, format Format) (*schema.Tree, error) {
	tree := schema.New()
	switch format {
	case FormatJSON:
		if err := checkShape(gojsonschema.NewBytesLoader(data)); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, tree); err != nil {
			return nil, fmt.Errorf("decode json: %w: %w", ddlcheck.ErrConfigurationInvalid, err)
		}
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("decode yaml: %w: %w", ddlcheck.ErrConfigurationInvalid, err)
		}
		if node.Kind == 0 {
			return tree, nil
		}
		if err := checkShape(gojsonschema.NewGoLoader(nodeValue(&node))); err != nil {
			return nil, err
		}
		if err := node.Decode(tree); err != nil {
			return nil, fmt.Errorf("decode yaml: %w: %w", ddlcheck.ErrConfigurationInvalid, err)
		}
	default:
		return nil, fmt.Errorf("%s: %w", format, ddlcheck.ErrUnsupportedFormat)
	}
	return tree, nil
}

func checkShape(doc gojsonschema.JSONLoader) error {
	s, err := documentSchema()
	if err != nil {
		return fmt.Errorf("structure schema: %w", err)
	}
	result, err := s.Validate(doc)
	if err != nil {
		return fmt.Errorf("content is not a valid document: %w: %w", ddlcheck.ErrConfigurationInvalid, err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("unexpected structure (%s): %w", strings.Join(msgs, "; "), ddlcheck.ErrConfigurationInvalid)
}

// nodeValue converts a YAML node to JSON-compatible values with string keys.
func nodeValue(n *yaml.Node) any {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return nodeValue(n.Content[0])
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = nodeValue(n.Content[i+1])
		}
		return m
	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			s = append(s, nodeValue(c))
		}
		return s
	case yaml.AliasNode:
		if n.Alias != nil {
			return nodeValue(n.Alias)
		}
		return nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return n.Value
		}
		return v
	}
}

// Save writes tree to path. fileType selects the format; when empty the
// extension decides.
func (s *Store) Save(tree *schema.Tree, path, fileType string) error {
	format, err := resolveFormat(path, fileType)
	if err != nil {
		return err
	}
	data, err := Encode(tree, format)
	if err != nil {
		return err
	}
	if err := s.fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Load reads a tree from path. fileType selects the format; when empty the
// extension decides. A missing or unreadable file is
// ddlcheck.ErrInputUnavailable; an unsupported format or mismatching content
// is ddlcheck.ErrConfigurationInvalid.
func (s *Store) Load(path, fileType string) (*schema.Tree, error) {
	format, err := resolveFormat(path, fileType)
	if err != nil {
		return nil, err
	}
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", path, ddlcheck.ErrInputUnavailable, err)
	}
	tree, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return tree, nil
}
