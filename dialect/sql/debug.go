package sql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mageshb/persistent/dialect"
	"github.com/mageshb/persistent/value"
)

// DebugDriver wraps a Driver with structured debug logging of every
// operation it forwards.
type DebugDriver struct {
	*Driver
	log func(context.Context, ...any)
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLog sets a custom log function.
func DebugWithLog(logFunc func(context.Context, ...any)) DebugOption {
	return func(d *DebugDriver) {
		d.log = logFunc
	}
}

// NewDebugDriver wraps a Driver with debug logging.
//
// Example:
//
//	drv, _ := sql.Open(dialect.SQLite, "file:app.db")
//	dbg := sql.NewDebugDriver(drv)
func NewDebugDriver(drv *Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log: func(_ context.Context, v ...any) {
			slog.Info(fmt.Sprint(v...))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query executes a query and logs it.
func (d *DebugDriver) Query(ctx context.Context, query string, args []value.Value) (dialect.Cursor, error) {
	d.log(ctx, fmt.Sprintf("query: %s args: %v", query, args))
	return d.Driver.Query(ctx, query, args)
}

// Exec executes a statement and logs it.
func (d *DebugDriver) Exec(ctx context.Context, query string, args []value.Value) error {
	d.log(ctx, fmt.Sprintf("exec: %s args: %v", query, args))
	return d.Driver.Exec(ctx, query, args)
}

// Insert executes an insert and logs it.
func (d *DebugDriver) Insert(ctx context.Context, table string, columns []string, values []value.Value) (int64, error) {
	d.log(ctx, fmt.Sprintf("insert: table=%s columns=%v values=%v", table, columns, values))
	return d.Driver.Insert(ctx, table, columns, values)
}

// TableExists checks table existence and logs it.
func (d *DebugDriver) TableExists(ctx context.Context, name string) (bool, error) {
	d.log(ctx, fmt.Sprintf("table exists: %s", name))
	return d.Driver.TableExists(ctx, name)
}

// Tx starts a transaction with debug logging. The scope identifier is
// included in every log line so operations can be correlated.
func (d *DebugDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	stx := tx.(*Tx)
	d.log(ctx, fmt.Sprintf("tx %s: begin", stx.ID()))
	return &DebugTx{tx: stx, log: d.log}, nil
}

// DebugTx wraps a transaction scope with debug logging.
type DebugTx struct {
	tx  *Tx
	log func(context.Context, ...any)
}

// Query executes a query within the scope and logs it.
func (t *DebugTx) Query(ctx context.Context, query string, args []value.Value) (dialect.Cursor, error) {
	t.log(ctx, fmt.Sprintf("tx %s: query: %s args: %v", t.tx.ID(), query, args))
	return t.tx.Query(ctx, query, args)
}

// Exec executes a statement within the scope and logs it.
func (t *DebugTx) Exec(ctx context.Context, query string, args []value.Value) error {
	t.log(ctx, fmt.Sprintf("tx %s: exec: %s args: %v", t.tx.ID(), query, args))
	return t.tx.Exec(ctx, query, args)
}

// Insert executes an insert within the scope and logs it.
func (t *DebugTx) Insert(ctx context.Context, table string, columns []string, values []value.Value) (int64, error) {
	t.log(ctx, fmt.Sprintf("tx %s: insert: table=%s columns=%v", t.tx.ID(), table, columns))
	return t.tx.Insert(ctx, table, columns, values)
}

// TableExists checks table existence within the scope and logs it.
func (t *DebugTx) TableExists(ctx context.Context, name string) (bool, error) {
	t.log(ctx, fmt.Sprintf("tx %s: table exists: %s", t.tx.ID(), name))
	return t.tx.TableExists(ctx, name)
}

// Commit commits the scope and logs it.
func (t *DebugTx) Commit() error {
	t.log(context.Background(), fmt.Sprintf("tx %s: commit", t.tx.ID()))
	return t.tx.Commit()
}

// Rollback rolls the scope back and logs it.
func (t *DebugTx) Rollback() error {
	t.log(context.Background(), fmt.Sprintf("tx %s: rollback", t.tx.ID()))
	return t.tx.Rollback()
}

var (
	_ dialect.Driver = (*DebugDriver)(nil)
	_ dialect.Tx     = (*DebugTx)(nil)
)
