package sql

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/mageshb/persistent"
	"github.com/mageshb/persistent/dialect"
)

// Tx is a dialect.Tx bound to one open transaction on one connection.
// It is single-use: once Commit or Rollback returns, the scope is
// terminal and further commit or rollback attempts report ErrTxDone.
type Tx struct {
	Conn
	tx   *sql.Tx
	id   uuid.UUID
	done atomic.Bool
}

// Tx begins a transaction and returns its scope. The scope owns one
// connection from the driver's pool until it reaches a terminal state.
func (d *Driver) Tx(ctx context.Context) (dialect.Tx, error) {
	return d.BeginTx(ctx, nil)
}

// BeginTx begins a transaction with the given options.
func (d *Driver) BeginTx(ctx context.Context, opts *sql.TxOptions) (dialect.Tx, error) {
	tx, err := d.DB().BeginTx(ctx, opts)
	if err != nil {
		return nil, persistent.NewConnectionError(err)
	}
	return &Tx{
		Conn: Conn{ExecQuerier: tx, cfg: d.cfg, codec: d.codec},
		tx:   tx,
		id:   uuid.New(),
	}, nil
}

// ID returns the scope identifier, used to correlate debug logs.
func (t *Tx) ID() string { return t.id.String() }

// Commit commits the transaction and moves the scope to its terminal
// state.
func (t *Tx) Commit() error {
	if !t.done.CompareAndSwap(false, true) {
		return persistent.ErrTxDone
	}
	return t.tx.Commit()
}

// Rollback rolls the transaction back and moves the scope to its
// terminal state.
func (t *Tx) Rollback() error {
	if !t.done.CompareAndSwap(false, true) {
		return persistent.ErrTxDone
	}
	return t.tx.Rollback()
}

var _ dialect.Tx = (*Tx)(nil)

// WithDriver opens a driver for the given dialect and connection
// string, yields it to fn, and guarantees the underlying handle is
// closed on every exit path. A close failure is joined onto fn's error
// rather than replacing it.
func WithDriver(dialectName, source string, fn func(drv *Driver) error) (err error) {
	drv, err := Open(dialectName, source)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, drv.Close())
	}()
	return fn(drv)
}
