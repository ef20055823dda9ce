// Package persistent maps abstractly-described data entities onto
// relational database operations through a pluggable backend interface.
//
// The core pieces are:
//
//   - value: the backend-neutral tagged Value type carried across the
//     backend boundary.
//   - schema: entity definitions (entity name plus ordered field
//     descriptors) produced by an external schema source.
//   - dialect: the Backend interface, the closed set of four primitive
//     operations (Query, Exec, Insert, TableExists) every relational
//     backend implements, together with Driver and Tx.
//   - dialect/sql: the database/sql-backed implementation, including the
//     value codec, per-dialect configuration, and transaction support
//     for SQLite, MySQL and PostgreSQL.
//   - entity: derivation of entity-bound operations from a definition,
//     performed once ahead of any connection use.
//   - bindgen: optional Go source generation of per-entity constants.
//
// # Opening a backend
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// # Deriving entity operations
//
//	users, err := entity.Derive(schema.New("User",
//	    schema.Field{Name: "name", Type: value.TypeText},
//	))
//
// # Running a transaction scope
//
//	err = persistent.WithTx(ctx, drv, func(tx dialect.Tx) error {
//	    _, err := users.Insert(ctx, tx, []value.Value{value.Text("alice")})
//	    return err
//	})
//
// The scope commits when the function returns nil and rolls back
// otherwise; rollback failures are chained onto the original error.
package persistent
