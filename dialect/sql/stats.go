package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mageshb/persistent/dialect"
	"github.com/mageshb/persistent/value"
)

// OperationStats holds backend operation statistics.
type OperationStats struct {
	// TotalQueries is the total number of row queries executed.
	TotalQueries atomic.Int64
	// TotalExecs is the total number of statements executed.
	TotalExecs atomic.Int64
	// TotalInserts is the total number of inserts executed.
	TotalInserts atomic.Int64
	// TotalDuration is the total time spent in backend operations.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowOperations is the count of operations exceeding the slow threshold.
	SlowOperations atomic.Int64
	// Errors is the count of failed operations.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *OperationStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:   s.TotalQueries.Load(),
		TotalExecs:     s.TotalExecs.Load(),
		TotalInserts:   s.TotalInserts.Load(),
		TotalDuration:  time.Duration(s.TotalDuration.Load()),
		SlowOperations: s.SlowOperations.Load(),
		Errors:         s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *OperationStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalInserts.Store(0)
	s.TotalDuration.Store(0)
	s.SlowOperations.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of operation statistics.
type StatsSnapshot struct {
	TotalQueries   int64
	TotalExecs     int64
	TotalInserts   int64
	TotalDuration  time.Duration
	SlowOperations int64
	Errors         int64
}

// AvgDuration returns the average operation duration.
func (s StatsSnapshot) AvgDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs + s.TotalInserts
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d inserts=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalInserts, s.TotalDuration,
		s.AvgDuration(), s.SlowOperations, s.Errors,
	)
}

// SlowHook is a function called when a slow operation is detected.
type SlowHook func(ctx context.Context, op, detail string, duration time.Duration)

// StatsDriver wraps a Driver with operation statistics collection.
type StatsDriver struct {
	*Driver
	stats         *OperationStats
	slowThreshold time.Duration
	slowHook      SlowHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow operation detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowHook sets a callback function for slow operations.
func WithSlowHook(hook SlowHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowLog logs slow operations to the default logger. This is a
// convenience wrapper around WithSlowHook.
func WithSlowLog() StatsOption {
	return WithSlowHook(func(_ context.Context, op, detail string, duration time.Duration) {
		slog.Warn("slow backend operation", "op", op, "duration", duration, "detail", detail)
	})
}

// NewStatsDriver wraps a Driver with statistics collection.
//
// Example:
//
//	drv, _ := sql.Open(dialect.Postgres, dsn)
//	sd := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowLog(),
//	)
func NewStatsDriver(drv *Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:        drv,
		stats:         &OperationStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns the underlying OperationStats for reading statistics.
func (d *StatsDriver) Stats() *OperationStats { return d.stats }

// Query executes a query and records statistics.
func (d *StatsDriver) Query(ctx context.Context, query string, args []value.Value) (dialect.Cursor, error) {
	start := time.Now()
	cur, err := d.Driver.Query(ctx, query, args)
	d.record(ctx, "query", query, start, err, &d.stats.TotalQueries)
	return cur, err
}

// Exec executes a statement and records statistics.
func (d *StatsDriver) Exec(ctx context.Context, query string, args []value.Value) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args)
	d.record(ctx, "exec", query, start, err, &d.stats.TotalExecs)
	return err
}

// Insert executes an insert and records statistics.
func (d *StatsDriver) Insert(ctx context.Context, table string, columns []string, values []value.Value) (int64, error) {
	start := time.Now()
	id, err := d.Driver.Insert(ctx, table, columns, values)
	d.record(ctx, "insert", table, start, err, &d.stats.TotalInserts)
	return id, err
}

func (d *StatsDriver) record(ctx context.Context, op, detail string, start time.Time, err error, counter *atomic.Int64) {
	duration := time.Since(start)
	counter.Add(1)
	d.stats.TotalDuration.Add(int64(duration))
	if err != nil {
		d.stats.Errors.Add(1)
	}

	d.mu.RLock()
	threshold := d.slowThreshold
	hook := d.slowHook
	d.mu.RUnlock()

	if duration > threshold {
		d.stats.SlowOperations.Add(1)
		if hook != nil {
			hook(ctx, op, detail, duration)
		}
	}
}

// Tx starts a transaction that also records statistics.
func (d *StatsDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsTx{Tx: tx, driver: d}, nil
}

// StatsTx wraps a transaction scope with statistics collection.
type StatsTx struct {
	dialect.Tx
	driver *StatsDriver
}

// Query executes a query within the scope and records statistics.
func (t *StatsTx) Query(ctx context.Context, query string, args []value.Value) (dialect.Cursor, error) {
	start := time.Now()
	cur, err := t.Tx.Query(ctx, query, args)
	t.driver.record(ctx, "query", query, start, err, &t.driver.stats.TotalQueries)
	return cur, err
}

// Exec executes a statement within the scope and records statistics.
func (t *StatsTx) Exec(ctx context.Context, query string, args []value.Value) error {
	start := time.Now()
	err := t.Tx.Exec(ctx, query, args)
	t.driver.record(ctx, "exec", query, start, err, &t.driver.stats.TotalExecs)
	return err
}

// Insert executes an insert within the scope and records statistics.
func (t *StatsTx) Insert(ctx context.Context, table string, columns []string, values []value.Value) (int64, error) {
	start := time.Now()
	id, err := t.Tx.Insert(ctx, table, columns, values)
	t.driver.record(ctx, "insert", table, start, err, &t.driver.stats.TotalInserts)
	return id, err
}

var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Tx     = (*StatsTx)(nil)
)
