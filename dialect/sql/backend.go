// Package sql implements the backend abstraction on top of the standard
// database/sql interface for the SQLite, MySQL and PostgreSQL dialects.
package sql

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/text/cases"

	"github.com/mageshb/persistent"
	"github.com/mageshb/persistent/dialect"
	"github.com/mageshb/persistent/value"
)

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn implements the dialect.Backend operations given an ExecQuerier.
// Both Driver and Tx embed it, so the four primitive operations behave
// identically inside and outside a transaction scope.
type Conn struct {
	ExecQuerier
	cfg   *dialectConfig
	codec *Codec
}

// Query implements the dialect.Query operation: it binds args through
// the codec in positional order, executes the statement and returns a
// cursor decoding each result cell.
func (c Conn) Query(ctx context.Context, query string, args []value.Value) (dialect.Cursor, error) {
	rows, err := c.QueryContext(ctx, c.cfg.rebind(query), c.codec.EncodeAll(args)...)
	if err != nil {
		return nil, persistent.NewStatementError(query, err)
	}
	return newCursor(rows, c.codec), nil
}

// Exec implements the dialect.Exec operation, discarding any result rows.
func (c Conn) Exec(ctx context.Context, query string, args []value.Value) error {
	if _, err := c.ExecContext(ctx, c.cfg.rebind(query), c.codec.EncodeAll(args)...); err != nil {
		return persistent.NewStatementError(query, err)
	}
	return nil
}

// Insert implements the dialect.Insert operation. It synthesizes the
// canonical parameterized INSERT over columns, executes it and returns
// the generated identifier. The arity precondition is checked before
// any round trip.
func (c Conn) Insert(ctx context.Context, table string, columns []string, values []value.Value) (int64, error) {
	if len(columns) != len(values) {
		return 0, persistent.NewValidationError(table,
			fmt.Errorf("insert arity mismatch: %d columns, %d values", len(columns), len(values)))
	}
	query := c.cfg.insertSQL(table, columns)
	if !c.cfg.returning {
		return c.insertLastID(ctx, table, query, values)
	}
	rows, err := c.QueryContext(ctx, c.cfg.rebind(query), c.codec.EncodeAll(values)...)
	if err != nil {
		return 0, persistent.NewStatementError(query, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, persistent.NewStatementError(query, err)
		}
		return 0, persistent.NewNoIdentifierError(table)
	}
	var native any
	if err := rows.Scan(&native); err != nil {
		return 0, persistent.NewStatementError(query, err)
	}
	id := c.codec.Decode(native)
	if id.Type() != value.TypeInt64 {
		return 0, persistent.NewNoIdentifierError(table)
	}
	return id.Int64(), nil
}

// insertLastID is the identifier path for dialects without RETURNING.
func (c Conn) insertLastID(ctx context.Context, table, query string, values []value.Value) (int64, error) {
	res, err := c.ExecContext(ctx, query, c.codec.EncodeAll(values)...)
	if err != nil {
		return 0, persistent.NewStatementError(query, err)
	}
	id, err := res.LastInsertId()
	if err != nil || id <= 0 {
		return 0, persistent.NewNoIdentifierError(table)
	}
	return id, nil
}

// TableExists implements the dialect.TableExists operation by listing
// the backend's table names and comparing case-insensitively, matching
// typical backend identifier folding.
func (c Conn) TableExists(ctx context.Context, name string) (bool, error) {
	rows, err := c.QueryContext(ctx, c.cfg.listTables)
	if err != nil {
		return false, persistent.NewConnectionError(err)
	}
	defer rows.Close()
	folder := cases.Fold()
	want := folder.String(name)
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			return false, persistent.NewConnectionError(err)
		}
		if folder.String(table) == want {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, persistent.NewConnectionError(err)
	}
	return false, nil
}

// ColumnType implements dialect.ColumnTyper.
func (c Conn) ColumnType(t value.Type) string { return c.cfg.columnTypes[t] }

// IDColumn implements dialect.ColumnTyper. It returns the dialect's
// auto-incrementing unique identifier declaration.
func (c Conn) IDColumn() string { return c.cfg.idColumn }

// Driver is a dialect.Driver implementation for SQL based databases.
type Driver struct {
	Conn
	dialect string
}

// NewDriver creates a new Driver for the given dialect over db.
func NewDriver(dialectName string, db *sql.DB) (*Driver, error) {
	cfg, ok := configFor(dialectName)
	if !ok {
		return nil, persistent.NewConnectionError(fmt.Errorf("unsupported dialect %q", dialectName))
	}
	return &Driver{
		Conn:    Conn{ExecQuerier: db, cfg: cfg, codec: &Codec{}},
		dialect: dialectName,
	}, nil
}

// Open opens a database handle for the given dialect and connection
// string, and returns a Driver over it. The connection string is opaque
// to this layer and passed through to the registered driver.
func Open(dialectName, source string) (*Driver, error) {
	cfg, ok := configFor(dialectName)
	if !ok {
		return nil, persistent.NewConnectionError(fmt.Errorf("unsupported dialect %q", dialectName))
	}
	db, err := sql.Open(cfg.driverName, source)
	if err != nil {
		return nil, persistent.NewConnectionError(err)
	}
	return &Driver{
		Conn:    Conn{ExecQuerier: db, cfg: cfg, codec: &Codec{}},
		dialect: dialectName,
	}, nil
}

// OpenDB wraps an existing database/sql.DB with a Driver.
func OpenDB(dialectName string, db *sql.DB) (*Driver, error) {
	return NewDriver(dialectName, db)
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB { return d.ExecQuerier.(*sql.DB) }

// Dialect implements the dialect.Dialect method.
func (d *Driver) Dialect() string { return d.cfg.name }

// Codec returns the codec used by the driver, for installing decode
// fallback hooks and reading fallback counts.
func (d *Driver) Codec() *Codec { return d.codec }

// Close closes the underlying database handle.
func (d *Driver) Close() error { return d.DB().Close() }

// rowsCursor adapts sql.Rows to the dialect.Cursor interface, decoding
// every cell through the codec using the declared column types.
type rowsCursor struct {
	rows    *sql.Rows
	codec   *Codec
	dbTypes []string
	current []value.Value
	err     error
}

func newCursor(rows *sql.Rows, codec *Codec) *rowsCursor {
	cur := &rowsCursor{rows: rows, codec: codec}
	if types, err := rows.ColumnTypes(); err == nil {
		cur.dbTypes = make([]string, len(types))
		for i, t := range types {
			cur.dbTypes[i] = t.DatabaseTypeName()
		}
	}
	return cur
}

// Next advances the cursor, decoding the next row.
func (c *rowsCursor) Next() bool {
	if c.err != nil {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		return false
	}
	cols, err := c.rows.Columns()
	if err != nil {
		c.err = err
		return false
	}
	native := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range native {
		dest[i] = &native[i]
	}
	if err := c.rows.Scan(dest...); err != nil {
		c.err = err
		return false
	}
	c.current = make([]value.Value, len(native))
	for i, n := range native {
		dbType := ""
		if i < len(c.dbTypes) {
			dbType = c.dbTypes[i]
		}
		c.current[i] = c.codec.DecodeColumn(n, dbType)
	}
	return true
}

// Row returns the current decoded row.
func (c *rowsCursor) Row() []value.Value { return c.current }

// Err returns the error encountered during iteration, if any.
func (c *rowsCursor) Err() error { return c.err }

// Close releases the underlying rows.
func (c *rowsCursor) Close() error { return c.rows.Close() }

var (
	_ dialect.Driver      = (*Driver)(nil)
	_ dialect.Cursor      = (*rowsCursor)(nil)
	_ dialect.ColumnTyper = Conn{}
)
