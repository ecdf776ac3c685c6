package validator

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/ddlcheck/internal/introspect"
	"github.com/vvka-141/ddlcheck/internal/logging"
	"github.com/vvka-141/ddlcheck/internal/schema"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// ConnectorFactory builds a connector for resolved parameters.
type ConnectorFactory func(*ddlcheck.ConnectionConfig) (ddlcheck.Connector, error)

// Validator compares declared trees against a live server.
// Not safe for concurrent Validate calls on the same instance.
type Validator struct {
	connectorFactory ConnectorFactory
	logger           ddlcheck.Logger
	now              func() time.Time
}

// New creates a Validator. Panics if connectorFactory is nil.
func New(connectorFactory ConnectorFactory, logger ddlcheck.Logger) *Validator {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	return &Validator{
		connectorFactory: connectorFactory,
		logger:           logging.OrNull(logger),
		now:              time.Now,
	}
}

// Validate connects with config and reconciles tree against the server.
//
// Invalid configuration is rejected before any network I/O with
// ddlcheck.ErrConfigurationInvalid. Failure to connect returns
// ddlcheck.ErrConnectionFailed and no summary. The connection, and the
// connector when it implements io.Closer, are released on every path.
func (v *Validator) Validate(ctx context.Context, config *ddlcheck.ConnectionConfig, tree *schema.Tree) (*Summary, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ddlcheck.ErrConfigurationInvalid, err)
	}

	connector, err := v.connectorFactory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	v.logger.Verbose("Connecting to %s as %s", config.Target(), config.Username)
	handle, err := connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	// Connectors owning a dialer are closed after the handle.
	if c, ok := connector.(io.Closer); ok {
		defer c.Close()
	}
	defer handle.Close()

	// USE is session state, so every query must run on the same connection.
	conn, err := handle.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire connection: %w", ddlcheck.ErrConnectionFailed, err)
	}
	defer conn.Close()

	summary := v.Run(ctx, introspect.New(conn), tree)
	summary.Target = config.Target()
	summary.Principal = config.Username
	return summary, nil
}

// Run traverses tree using insp. It never fails; branch errors are recorded.
func (v *Validator) Run(ctx context.Context, insp *introspect.Inspector, tree *schema.Tree) *Summary {
	summary := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: v.now(),
	}
	v.logger.Verbose("Validation run %s: %d database(s)", summary.RunID, tree.Len())

	for name, tables := range tree.All() {
		summary.Databases = append(summary.Databases, v.database(ctx, insp, name, tables))
	}

	summary.FinishedAt = v.now()
	return summary
}

func (v *Validator) database(ctx context.Context, insp *introspect.Inspector, name string, tables *schema.TableMap) DatabaseResult {
	result := DatabaseResult{Name: name, Status: Match}

	live, err := insp.ListDatabases(ctx)
	if err != nil {
		return v.abortDatabase(result, err)
	}
	if !slices.Contains(live, name) {
		v.logger.Verbose("Database %s does not exist", name)
		result.Status = DatabaseMissing
		for table, cols := range tables.All() {
			result.Tables = append(result.Tables, missingTable(table, cols, DatabaseMissing))
		}
		return result
	}

	if err := insp.UseDatabase(ctx, name); err != nil {
		return v.abortDatabase(result, err)
	}
	liveTables, err := insp.ListTables(ctx)
	if err != nil {
		return v.abortDatabase(result, err)
	}

	for table, cols := range tables.All() {
		tr := v.table(ctx, insp, name, table, cols, liveTables)
		result.Status = rollup(result.Status, tr.Status)
		result.Tables = append(result.Tables, tr)
	}
	return result
}

func (v *Validator) abortDatabase(result DatabaseResult, err error) DatabaseResult {
	v.logger.Warn("Checking database %s failed: %v", result.Name, err)
	result.Status = ValidationAborted
	result.Err = fmt.Errorf("%w: %w", ddlcheck.ErrValidationAborted, err)
	return result
}

func (v *Validator) table(ctx context.Context, insp *introspect.Inspector, db, name string, cols *schema.ColumnMap, liveTables []string) TableResult {
	if !slices.Contains(liveTables, name) {
		v.logger.Verbose("Table %s.%s does not exist", db, name)
		return missingTable(name, cols, TableMissing)
	}

	actual, err := insp.ColumnTypes(ctx, name)
	if err != nil {
		v.logger.Warn("Checking table %s.%s failed: %v", db, name, err)
		return TableResult{
			Name:   name,
			Status: ValidationAborted,
			Err:    fmt.Errorf("%w: %w", ddlcheck.ErrValidationAborted, err),
		}
	}

	result := TableResult{Name: name, Status: Match}
	for col, expected := range cols.All() {
		cr := compareColumn(col, expected, actual)
		result.Status = rollup(result.Status, cr.Status)
		result.Columns = append(result.Columns, cr)
	}
	return result
}

func compareColumn(name, expected string, actual map[string]string) ColumnResult {
	live, ok := actual[name]
	switch {
	case !ok:
		return ColumnResult{Name: name, Expected: expected, Status: ColumnMissing}
	case TypesMatch(expected, live):
		return ColumnResult{Name: name, Expected: expected, Actual: live, Status: Match}
	default:
		return ColumnResult{Name: name, Expected: expected, Actual: live, Status: Mismatch}
	}
}

func missingTable(name string, cols *schema.ColumnMap, status Status) TableResult {
	result := TableResult{Name: name, Status: status}
	for col, expected := range cols.All() {
		result.Columns = append(result.Columns, ColumnResult{Name: col, Expected: expected, Status: status})
	}
	return result
}
