// Package schema describes entities to the persistence layer. A
// Definition is the already-parsed form of an entity: its name and an
// ordered list of field descriptors. Definitions arrive from an
// external schema source, are validated once ahead of any connection
// use, and are immutable thereafter.
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/mageshb/persistent"
	"github.com/mageshb/persistent/value"
)

// IDColumn is the name of the generated identifier column every entity
// table carries. Field names must not collide with it.
const IDColumn = "id"

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores).
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidIdentifier reports whether s can be used as a table or column name.
func ValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// A Field describes one persisted field: its column name and the kind
// of value stored in it. The kind selects the SQL column type.
type Field struct {
	Name string
	Type value.Type
}

// A Definition describes one entity. Field order is significant only
// for generated column lists, not for semantics.
type Definition struct {
	// Name is the entity name, e.g. "User". The table name is derived
	// from it.
	Name string
	// Fields are the persisted fields, excluding the generated
	// identifier column.
	Fields []Field
}

// New returns a Definition for the given entity name and fields.
func New(name string, fields ...Field) Definition {
	return Definition{Name: name, Fields: fields}
}

// Table returns the table name the entity maps to: the snake_case
// plural of the entity name, e.g. "UserProfile" becomes "user_profiles".
func (d Definition) Table() string {
	return inflect.Pluralize(inflect.Underscore(d.Name))
}

// Columns returns the column names of the entity's fields in definition
// order. The generated identifier column is not included.
func (d Definition) Columns() []string {
	cols := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		cols[i] = f.Name
	}
	return cols
}

// Validate checks the definition ahead of any I/O: the entity and field
// names must be valid SQL identifiers, field names must be unique within
// the entity (comparison is case-insensitive, matching backend folding),
// must not collide with the generated identifier column, and every field
// type must belong to the closed value type set.
func (d Definition) Validate() error {
	if d.Name == "" || !ValidIdentifier(d.Table()) {
		return persistent.NewValidationError(d.Name, fmt.Errorf("invalid entity name %q", d.Name))
	}
	if len(d.Fields) == 0 {
		return persistent.NewValidationError(d.Name, fmt.Errorf("entity has no fields"))
	}
	seen := make(map[string]struct{}, len(d.Fields))
	for _, f := range d.Fields {
		if !ValidIdentifier(f.Name) {
			return persistent.NewValidationError(d.Name, fmt.Errorf("invalid field name %q", f.Name))
		}
		folded := strings.ToLower(f.Name)
		if folded == IDColumn {
			return persistent.NewValidationError(d.Name, fmt.Errorf("field %q collides with the identifier column", f.Name))
		}
		if _, ok := seen[folded]; ok {
			return persistent.NewValidationError(d.Name, fmt.Errorf("duplicate field name %q", f.Name))
		}
		seen[folded] = struct{}{}
		if !f.Type.Valid() || f.Type == value.TypeNull {
			return persistent.NewValidationError(d.Name, fmt.Errorf("field %q has invalid type %s", f.Name, f.Type))
		}
	}
	return nil
}
