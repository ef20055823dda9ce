// Package dialect defines the backend abstraction of the persistence
// layer: the closed set of four primitive operations every relational
// backend implements, the transaction surface, and the row cursor.
//
// Concrete backends live in sub-packages; dialect/sql implements the
// interfaces on top of database/sql for SQLite, MySQL and PostgreSQL.
package dialect

import (
	"context"

	"github.com/mageshb/persistent/value"
)

// Dialect name constants. Each supported database product is identified
// by one of these strings.
const (
	// SQLite is the sqlite dialect.
	SQLite = "sqlite"
	// MySQL is the mysql dialect.
	MySQL = "mysql"
	// Postgres is the postgres dialect.
	Postgres = "postgres"
)

// Backend is the closed set of primitive operations a relational backend
// supplies. Entity operations are composed from these four alone.
//
// A Backend is bound to one underlying connection; operations on it are
// blocking round trips and must not be issued concurrently from more
// than one goroutine. Callers needing concurrency use one Backend per
// concurrent task.
type Backend interface {
	// Query prepares the statement, binds params positionally through the
	// value codec, executes it and returns a cursor over the result rows.
	Query(ctx context.Context, query string, args []value.Value) (Cursor, error)

	// Exec runs the statement discarding any result rows. Used for
	// DDL and DML without a returned row set.
	Exec(ctx context.Context, query string, args []value.Value) error

	// Insert builds a parameterized INSERT over columns bound to values,
	// requests the generated identifier from the backend and returns it.
	// The column and value counts must agree; the mismatch is reported
	// before any network round trip.
	Insert(ctx context.Context, table string, columns []string, values []value.Value) (int64, error)

	// TableExists reports whether a table with the given name exists.
	// The comparison is case-insensitive.
	TableExists(ctx context.Context, name string) (bool, error)
}

// Driver is a Backend that owns a database handle and can open
// transaction scopes over it.
type Driver interface {
	Backend
	// Tx begins a transaction and returns its scope.
	Tx(ctx context.Context) (Tx, error)
	// Dialect returns the dialect name of the driver.
	Dialect() string
	// Close closes the underlying database handle.
	Close() error
}

// Tx is a Backend bound to one open transaction. A Tx is single-use:
// after Commit or Rollback returns, the scope is terminal and further
// calls report that state.
type Tx interface {
	Backend
	Commit() error
	Rollback() error
}

// Cursor is a one-directional, pull-based sequence of decoded rows.
// It is bound to the statement and connection that produced it and must
// be closed before the owning scope ends. A Cursor is not restartable.
type Cursor interface {
	// Next advances to the next row, decoding its cells. It returns
	// false when the rows are exhausted or an error occurred; consult
	// Err after Next returns false.
	Next() bool
	// Row returns the current row. The slice is only valid until the
	// next call to Next.
	Row() []value.Value
	// Err returns the error, if any, encountered during iteration.
	Err() error
	// Close releases the resources held by the cursor.
	Close() error
}

// ColumnTyper is implemented by backends that can supply column type
// descriptors for table creation: a SQL type per value kind and the
// dialect's auto-incrementing unique identifier declaration.
type ColumnTyper interface {
	// ColumnType returns the SQL column type used to store values of
	// the given kind.
	ColumnType(t value.Type) string
	// IDColumn returns the column type descriptor of the generated
	// identifier column, e.g. "INTEGER PRIMARY KEY AUTOINCREMENT".
	IDColumn() string
}
