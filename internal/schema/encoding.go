package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON writes the tree as a nested object keeping insertion order.
func (s *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for db, tables := range s.All() {
		if err := writeMember(&buf, i, db, tables); err != nil {
			return nil, err
		}
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes the tables as an object keeping insertion order.
func (t *TableMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for table, cols := range t.All() {
		if err := writeMember(&buf, i, table, cols); err != nil {
			return nil, err
		}
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes the columns as an object keeping insertion order.
func (c *ColumnMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for col, typ := range c.All() {
		if err := writeMember(&buf, i, col, typ); err != nil {
			return nil, err
		}
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, i int, key string, value any) error {
	if i > 0 {
		buf.WriteByte(',')
	}
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// UnmarshalJSON reads a nested object, keeping the document's key order.
func (s *Tree) UnmarshalJSON(data []byte) error {
	*s = Tree{databases: make(map[string]*TableMap)}
	return walkObject(data, func(db string, raw json.RawMessage) error {
		if err := s.Database(db).UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("database %q: %w", db, err)
		}
		return nil
	})
}

// UnmarshalJSON reads a table object, keeping the document's key order.
func (t *TableMap) UnmarshalJSON(data []byte) error {
	*t = TableMap{tables: make(map[string]*ColumnMap)}
	return walkObject(data, func(table string, raw json.RawMessage) error {
		if err := t.Table(table).UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("table %q: %w", table, err)
		}
		return nil
	})
}

// UnmarshalJSON reads a column object whose values must be strings.
func (c *ColumnMap) UnmarshalJSON(data []byte) error {
	*c = ColumnMap{types: make(map[string]string)}
	return walkObject(data, func(col string, raw json.RawMessage) error {
		var typ string
		if err := json.Unmarshal(raw, &typ); err != nil {
			return fmt.Errorf("column %q: type must be a string", col)
		}
		c.Set(col, typ)
		return nil
	})
}

// walkObject calls fn for each member of a JSON object in document order.
// A JSON null is treated as an empty object.
func walkObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

// MarshalYAML emits an ordered mapping node.
func (s *Tree) MarshalYAML() (interface{}, error) {
	node := mappingNode()
	for db, tables := range s.All() {
		child, err := tables.MarshalYAML()
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, scalarNode(db), child.(*yaml.Node))
	}
	return node, nil
}

// MarshalYAML emits an ordered mapping node.
func (t *TableMap) MarshalYAML() (interface{}, error) {
	node := mappingNode()
	for table, cols := range t.All() {
		child, err := cols.MarshalYAML()
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, scalarNode(table), child.(*yaml.Node))
	}
	return node, nil
}

// MarshalYAML emits an ordered mapping of quoted type strings.
func (c *ColumnMap) MarshalYAML() (interface{}, error) {
	node := mappingNode()
	for col, typ := range c.All() {
		v := scalarNode(typ)
		v.Style = yaml.DoubleQuotedStyle
		node.Content = append(node.Content, scalarNode(col), v)
	}
	return node, nil
}

// UnmarshalYAML reads a nested mapping in document order.
func (s *Tree) UnmarshalYAML(value *yaml.Node) error {
	*s = Tree{databases: make(map[string]*TableMap)}
	return walkMapping(value, func(db string, child *yaml.Node) error {
		if err := s.Database(db).UnmarshalYAML(child); err != nil {
			return fmt.Errorf("database %q: %w", db, err)
		}
		return nil
	})
}

// UnmarshalYAML reads a table mapping in document order.
func (t *TableMap) UnmarshalYAML(value *yaml.Node) error {
	*t = TableMap{tables: make(map[string]*ColumnMap)}
	return walkMapping(value, func(table string, child *yaml.Node) error {
		if err := t.Table(table).UnmarshalYAML(child); err != nil {
			return fmt.Errorf("table %q: %w", table, err)
		}
		return nil
	})
}

// UnmarshalYAML reads a column mapping whose values must be scalars.
func (c *ColumnMap) UnmarshalYAML(value *yaml.Node) error {
	*c = ColumnMap{types: make(map[string]string)}
	return walkMapping(value, func(col string, child *yaml.Node) error {
		if child.Kind != yaml.ScalarNode {
			return fmt.Errorf("column %q: type must be a string (line %d)", col, child.Line)
		}
		c.Set(col, child.Value)
		return nil
	})
}

func walkMapping(value *yaml.Node, fn func(key string, child *yaml.Node) error) error {
	if value.Kind == yaml.DocumentNode && len(value.Content) == 1 {
		value = value.Content[0]
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at line %d", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i]
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("expected scalar key at line %d", key.Line)
		}
		if err := fn(key.Value, value.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
