package sql

import (
	"strconv"
	"strings"

	"github.com/mageshb/persistent/dialect"
	"github.com/mageshb/persistent/value"
)

// dialectConfig carries the database-product specifics of a backend:
// driver registration, placeholder style, identifier return strategy,
// catalog listing and column type descriptors. The generator and the
// backend operations are written against this record, never against a
// concrete product.
type dialectConfig struct {
	// name is the dialect constant.
	name string
	// driverName is the name the database/sql driver registers under.
	driverName string
	// returning reports whether the dialect supports the RETURNING
	// clause on INSERT. Without it the generated identifier comes from
	// the driver's LastInsertId.
	returning bool
	// numberedPlaceholders rewrites ? placeholders to $1..$n form.
	numberedPlaceholders bool
	// listTables is the statement returning all table names, one per row.
	listTables string
	// idColumn is the auto-incrementing unique identifier declaration.
	idColumn string
	// columnTypes maps value kinds to SQL column types.
	columnTypes map[value.Type]string
}

var dialects = map[string]*dialectConfig{
	dialect.SQLite: {
		name:       dialect.SQLite,
		driverName: "sqlite",
		returning:  true,
		listTables: "SELECT name FROM sqlite_master WHERE type = 'table'",
		idColumn:   "INTEGER PRIMARY KEY AUTOINCREMENT",
		columnTypes: map[value.Type]string{
			value.TypeText:      "TEXT",
			value.TypeBytes:     "BLOB",
			value.TypeInt64:     "INTEGER",
			value.TypeFloat64:   "REAL",
			value.TypeBool:      "BOOLEAN",
			value.TypeDate:      "DATE",
			value.TypeTimeOfDay: "TIME",
			value.TypeTimestamp: "DATETIME",
		},
	},
	dialect.MySQL: {
		name:       dialect.MySQL,
		driverName: "mysql",
		returning:  false,
		listTables: "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE()",
		idColumn:   "BIGINT AUTO_INCREMENT PRIMARY KEY",
		columnTypes: map[value.Type]string{
			value.TypeText:      "TEXT",
			value.TypeBytes:     "BLOB",
			value.TypeInt64:     "BIGINT",
			value.TypeFloat64:   "DOUBLE",
			value.TypeBool:      "BOOLEAN",
			value.TypeDate:      "DATE",
			value.TypeTimeOfDay: "TIME",
			value.TypeTimestamp: "DATETIME",
		},
	},
	dialect.Postgres: {
		name:                 dialect.Postgres,
		driverName:           "postgres",
		returning:            true,
		numberedPlaceholders: true,
		listTables:           "SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = current_schema()",
		idColumn:             "BIGSERIAL PRIMARY KEY",
		columnTypes: map[value.Type]string{
			value.TypeText:      "TEXT",
			value.TypeBytes:     "BYTEA",
			value.TypeInt64:     "BIGINT",
			value.TypeFloat64:   "DOUBLE PRECISION",
			value.TypeBool:      "BOOLEAN",
			value.TypeDate:      "DATE",
			value.TypeTimeOfDay: "TIME",
			value.TypeTimestamp: "TIMESTAMPTZ",
		},
	},
}

// configFor resolves the dialect configuration, tolerating registration
// suffixes the way telemetry-wrapped driver names carry them.
func configFor(name string) (*dialectConfig, bool) {
	if cfg, ok := dialects[name]; ok {
		return cfg, true
	}
	for prefix, cfg := range dialects {
		if strings.HasPrefix(name, prefix) {
			return cfg, true
		}
	}
	return nil, false
}

// rebind rewrites canonical ? placeholders into the dialect's native
// form. Question marks inside single-quoted literals are left alone.
func (cfg *dialectConfig) rebind(query string) string {
	if !cfg.numberedPlaceholders {
		return query
	}
	var (
		b      strings.Builder
		n      int
		quoted bool
	)
	b.Grow(len(query) + 8)
	for i := 0; i < len(query); i++ {
		switch ch := query[i]; {
		case ch == '\'':
			quoted = !quoted
			b.WriteByte(ch)
		case ch == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// insertSQL synthesizes the canonical parameterized INSERT for the
// dialect. The canonical shape is
//
//	INSERT INTO <table>(<c1>,<c2>,...) VALUES(?,?,...) RETURNING id
//
// with the RETURNING clause dropped for dialects that do not support it.
func (cfg *dialectConfig) insertSQL(table string, columns []string) string {
	return buildInsertSQL(table, columns, cfg.returning)
}

// buildInsertSQL assembles the canonical INSERT shape. The text is
// deterministic in the table name and column order.
func buildInsertSQL(table string, columns []string, returning bool) string {
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
	b.WriteByte(')')
	if returning {
		b.WriteString(" RETURNING id")
	}
	return b.String()
}
