// Package bindgen emits Go source binding entities to their generated
// SQL: per-entity table name, column list and canonical insert
// statement constants. It is an optional build-time companion to the
// construction-time derivation in package entity; both are driven by
// the same definitions and produce the same SQL text.
package bindgen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/mageshb/persistent/entity"
	"github.com/mageshb/persistent/schema"
)

// Generate renders one Go source file for the given package name
// containing the bindings of every definition, formatted with goimports.
func Generate(pkg string, defs ...schema.Definition) ([]byte, error) {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by bindgen. DO NOT EDIT.")
	for _, def := range defs {
		ops, err := entity.Derive(def)
		if err != nil {
			return nil, err
		}
		name := def.Name
		f.Commentf("%s bindings.", name)
		f.Const().Defs(
			jen.Commentf("%sTable is the table the %s entity maps to.", name, name),
			jen.Id(name+"Table").Op("=").Lit(ops.Table()),
			jen.Commentf("%sInsertSQL is the canonical insert statement for %s.", name, name),
			jen.Id(name+"InsertSQL").Op("=").Lit(ops.InsertSQL()),
		)
		f.Commentf("%sColumns are the columns of %s in definition order.", name, name)
		f.Var().Id(name + "Columns").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
			for _, col := range ops.Columns() {
				g.Lit(col)
			}
		})
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("bindgen: render: %w", err)
	}
	src, err := imports.Process(pkg+".go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("bindgen: format: %w", err)
	}
	return src, nil
}
