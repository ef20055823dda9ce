package persistent

import (
	"context"
	"fmt"

	"github.com/mageshb/persistent/dialect"
)

// WithTx runs fn inside a transaction scope on drv. The scope commits
// when fn returns nil and rolls back when fn returns an error or panics.
// The scope is single-use and owns one connection for its lifetime.
//
// Rollback is best-effort: if it fails, its error is chained onto the
// original failure rather than replacing it, so the cause reported to
// the caller is always the one fn returned.
func WithTx(ctx context.Context, drv dialect.Driver, fn func(tx dialect.Tx) error) error {
	tx, err := drv.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: rolling back transaction: %v", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("persistent: committing transaction: %w", err)
	}
	return nil
}
