package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Querier is the subset of *sql.Conn the Inspector needs.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Column is one row of DESCRIBE output.
type Column struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default sql.NullString
	Extra   string
}

// Inspector runs structure queries on a single session.
type Inspector struct {
	q Querier
}

// New returns an Inspector bound to q. Panics if q is nil.
func New(q Querier) *Inspector {
	if q == nil {
		panic("querier cannot be nil")
	}
	return &Inspector{q: q}
}

// ListDatabases returns the server's database names in server order.
func (i *Inspector) ListDatabases(ctx context.Context) ([]string, error) {
	names, err := i.names(ctx, queryDatabases)
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	return names, nil
}

// UseDatabase makes name the active database of the session.
func (i *Inspector) UseDatabase(ctx context.Context, name string) error {
	if _, err := i.q.ExecContext(ctx, fmt.Sprintf(queryUse, QuoteIdentifier(name))); err != nil {
		return fmt.Errorf("use database %s: %w", name, err)
	}
	return nil
}

// ListTables returns the table names of the active database.
func (i *Inspector) ListTables(ctx context.Context) ([]string, error) {
	names, err := i.names(ctx, queryTables)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}

// DescribeTable returns the column definitions of table in the active database.
func (i *Inspector) DescribeTable(ctx context.Context, table string) ([]Column, error) {
	rows, err := i.q.QueryContext(ctx, fmt.Sprintf(queryDescribe, QuoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("describe table %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.Field, &c.Type, &c.Null, &c.Key, &c.Default, &c.Extra); err != nil {
			return nil, fmt.Errorf("describe table %s: %w", table, err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("describe table %s: %w", table, err)
	}
	return cols, nil
}

// ColumnTypes describes table and returns its column types keyed by name.
func (i *Inspector) ColumnTypes(ctx context.Context, table string) (map[string]string, error) {
	cols, err := i.DescribeTable(ctx, table)
	if err != nil {
		return nil, err
	}
	types := make(map[string]string, len(cols))
	for _, c := range cols {
		types[c.Field] = c.Type
	}
	return types, nil
}

func (i *Inspector) names(ctx context.Context, query string) ([]string, error) {
	rows, err := i.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// QuoteIdentifier wraps name in backticks, doubling embedded backticks.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

var _ Querier = (*sql.Conn)(nil)
