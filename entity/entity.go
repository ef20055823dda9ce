// Package entity derives entity-bound operations from schema
// definitions. Derivation is a pure, deterministic transform performed
// once per entity, ahead of any connection use: the same definition
// always yields operations with identical generated SQL text and column
// ordering. The resulting bundle closes over the entity's schema but is
// otherwise stateless and reusable across any number of connections and
// transaction scopes.
package entity

import (
	"context"
	"fmt"
	"strings"

	"github.com/mageshb/persistent"
	"github.com/mageshb/persistent/dialect"
	"github.com/mageshb/persistent/schema"
	"github.com/mageshb/persistent/value"
)

// Operations is the bundle of entity-bound operations derived from one
// definition. Every operation takes the backend explicitly; a bundle
// never holds a connection.
type Operations struct {
	def       schema.Definition
	table     string
	columns   []string
	insertSQL string
}

// Derive validates the definition and synthesizes its operation bundle.
// The insert statement text is assembled once here and reused on every
// call, so schema problems surface before any I/O occurs.
func Derive(def schema.Definition) (*Operations, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	table := def.Table()
	columns := def.Columns()
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteByte('(')
	b.WriteString(strings.Join(columns, ","))
	b.WriteString(") VALUES(")
	for i := range columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('?')
	}
	b.WriteString(") RETURNING id")
	return &Operations{
		def:       def,
		table:     table,
		columns:   columns,
		insertSQL: b.String(),
	}, nil
}

// Definition returns the definition the bundle was derived from.
func (o *Operations) Definition() schema.Definition { return o.def }

// Table returns the derived table name.
func (o *Operations) Table() string { return o.table }

// Columns returns the column list in definition order.
func (o *Operations) Columns() []string { return o.columns }

// InsertSQL returns the canonical insert statement text synthesized at
// derivation time. Dialects without RETURNING substitute their own
// identifier strategy at execution time; the canonical text is what
// determinism and compatibility are measured against.
func (o *Operations) InsertSQL() string { return o.insertSQL }

// Insert inserts one entity row with the given field values, in
// definition order, and returns the generated identifier. A value count
// that disagrees with the column count fails before any round trip.
func (o *Operations) Insert(ctx context.Context, b dialect.Backend, values []value.Value) (int64, error) {
	if len(values) != len(o.columns) {
		return 0, persistent.NewValidationError(o.def.Name,
			fmt.Errorf("insert arity mismatch: %d columns, %d values", len(o.columns), len(values)))
	}
	return b.Insert(ctx, o.table, o.columns, values)
}

// Exists reports whether the entity's table exists on the backend.
func (o *Operations) Exists(ctx context.Context, b dialect.Backend) (bool, error) {
	return b.TableExists(ctx, o.table)
}

// Query passes a raw query through to the backend.
func (o *Operations) Query(ctx context.Context, b dialect.Backend, query string, args []value.Value) (dialect.Cursor, error) {
	return b.Query(ctx, query, args)
}

// Exec passes a raw statement through to the backend.
func (o *Operations) Exec(ctx context.Context, b dialect.Backend, query string, args []value.Value) error {
	return b.Exec(ctx, query, args)
}

// EnsureTable creates the entity's table when it does not exist. The
// identifier column and the per-field column types come from the
// backend's configuration, not from the definition.
func (o *Operations) EnsureTable(ctx context.Context, b dialect.Backend) error {
	typer, ok := b.(dialect.ColumnTyper)
	if !ok {
		return persistent.NewValidationError(o.def.Name,
			fmt.Errorf("backend %T does not supply column types", b))
	}
	exists, err := o.Exists(ctx, b)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return b.Exec(ctx, o.CreateSQL(typer), nil)
}

// CreateSQL synthesizes the CREATE TABLE statement for the entity using
// the given column type descriptors.
func (o *Operations) CreateSQL(typer dialect.ColumnTyper) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(o.table)
	b.WriteByte('(')
	b.WriteString(schema.IDColumn)
	b.WriteByte(' ')
	b.WriteString(typer.IDColumn())
	for _, f := range o.def.Fields {
		b.WriteString(", ")
		b.WriteString(f.Name)
		b.WriteByte(' ')
		b.WriteString(typer.ColumnType(f.Type))
	}
	b.WriteByte(')')
	return b.String()
}
