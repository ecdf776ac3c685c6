package schema

import (
	"iter"
	"slices"
)

// ColumnMap maps column names to declared type strings in declaration order.
type ColumnMap struct {
	names []string
	types map[string]string
}

// NewColumnMap returns an empty ColumnMap.
func NewColumnMap() *ColumnMap {
	return &ColumnMap{types: make(map[string]string)}
}

// Set records a column. Redeclaring a column replaces its type but keeps
// its original position.
func (c *ColumnMap) Set(name, typ string) {
	if c.types == nil {
		c.types = make(map[string]string)
	}
	if _, ok := c.types[name]; !ok {
		c.names = append(c.names, name)
	}
	c.types[name] = typ
}

// Get returns the declared type of a column.
func (c *ColumnMap) Get(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	t, ok := c.types[name]
	return t, ok
}

// Len returns the number of columns.
func (c *ColumnMap) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Names returns column names in declaration order.
func (c *ColumnMap) Names() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.names)
}

// All iterates columns in declaration order.
func (c *ColumnMap) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if c == nil {
			return
		}
		for _, name := range c.names {
			if !yield(name, c.types[name]) {
				return
			}
		}
	}
}

// TableMap maps table names to their columns in declaration order.
type TableMap struct {
	names  []string
	tables map[string]*ColumnMap
}

// NewTableMap returns an empty TableMap.
func NewTableMap() *TableMap {
	return &TableMap{tables: make(map[string]*ColumnMap)}
}

// Table returns the named table, creating it empty if absent.
func (t *TableMap) Table(name string) *ColumnMap {
	if t.tables == nil {
		t.tables = make(map[string]*ColumnMap)
	}
	if cols, ok := t.tables[name]; ok {
		return cols
	}
	cols := NewColumnMap()
	t.names = append(t.names, name)
	t.tables[name] = cols
	return cols
}

// Get returns the named table without creating it.
func (t *TableMap) Get(name string) (*ColumnMap, bool) {
	if t == nil {
		return nil, false
	}
	cols, ok := t.tables[name]
	return cols, ok
}

// Len returns the number of tables.
func (t *TableMap) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Names returns table names in declaration order.
func (t *TableMap) Names() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.names)
}

// All iterates tables in declaration order.
func (t *TableMap) All() iter.Seq2[string, *ColumnMap] {
	return func(yield func(string, *ColumnMap) bool) {
		if t == nil {
			return
		}
		for _, name := range t.names {
			if !yield(name, t.tables[name]) {
				return
			}
		}
	}
}

// Tree maps database names to their tables in the order databases were first seen.
type Tree struct {
	names     []string
	databases map[string]*TableMap
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{databases: make(map[string]*TableMap)}
}

// Database returns the named database, creating it empty if absent.
func (s *Tree) Database(name string) *TableMap {
	if s.databases == nil {
		s.databases = make(map[string]*TableMap)
	}
	if tables, ok := s.databases[name]; ok {
		return tables
	}
	tables := NewTableMap()
	s.names = append(s.names, name)
	s.databases[name] = tables
	return tables
}

// Get returns the named database without creating it.
func (s *Tree) Get(name string) (*TableMap, bool) {
	if s == nil {
		return nil, false
	}
	tables, ok := s.databases[name]
	return tables, ok
}

// Len returns the number of databases.
func (s *Tree) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns database names in first-seen order.
func (s *Tree) Names() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.names)
}

// All iterates databases in first-seen order.
func (s *Tree) All() iter.Seq2[string, *TableMap] {
	return func(yield func(string, *TableMap) bool) {
		if s == nil {
			return
		}
		for _, name := range s.names {
			if !yield(name, s.databases[name]) {
				return
			}
		}
	}
}

// Merge copies every database, table and column of other into s.
// Entries already present in s keep their position; column types from
// other win.
func (s *Tree) Merge(other *Tree) {
	for db, tables := range other.All() {
		dst := s.Database(db)
		for table, cols := range tables.All() {
			dstCols := dst.Table(table)
			for col, typ := range cols.All() {
				dstCols.Set(col, typ)
			}
		}
	}
}

// Equal reports whether both trees hold the same databases, tables,
// columns and type strings. Order is not compared.
func (s *Tree) Equal(other *Tree) bool {
	if s.Len() != other.Len() {
		return false
	}
	for db, tables := range s.All() {
		otherTables, ok := other.Get(db)
		if !ok || tables.Len() != otherTables.Len() {
			return false
		}
		for table, cols := range tables.All() {
			otherCols, ok := otherTables.Get(table)
			if !ok || cols.Len() != otherCols.Len() {
				return false
			}
			for col, typ := range cols.All() {
				if otherTyp, ok := otherCols.Get(col); !ok || otherTyp != typ {
					return false
				}
			}
		}
	}
	return true
}

// Stats counts the entries of a tree.
type Stats struct {
	Databases int
	Tables    int
	Columns   int
}

// Stats returns entry counts for the whole tree.
func (s *Tree) Stats() Stats {
	var st Stats
	for _, tables := range s.All() {
		st.Databases++
		for _, cols := range tables.All() {
			st.Tables++
			st.Columns += cols.Len()
		}
	}
	return st
}
