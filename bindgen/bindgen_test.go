package bindgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mageshb/persistent"
	"github.com/mageshb/persistent/schema"
	"github.com/mageshb/persistent/value"
)

// TestGenerate tests the rendered bindings for a pair of entities.
func TestGenerate(t *testing.T) {
	src, err := Generate("bindings",
		schema.New("User",
			schema.Field{Name: "name", Type: value.TypeText},
			schema.Field{Name: "age", Type: value.TypeInt64},
		),
		schema.New("Pet",
			schema.Field{Name: "name", Type: value.TypeText},
		),
	)
	require.NoError(t, err)

	got := string(src)
	assert.Contains(t, got, "// Code generated by bindgen. DO NOT EDIT.")
	assert.Contains(t, got, "package bindings")
	assert.Contains(t, got, `UserTable = "users"`)
	assert.Contains(t, got, `UserInsertSQL = "INSERT INTO users(name,age) VALUES(?,?) RETURNING id"`)
	assert.Contains(t, got, `UserColumns = []string{"name", "age"}`)
	assert.Contains(t, got, `PetTable = "pets"`)
	assert.Contains(t, got, `PetInsertSQL = "INSERT INTO pets(name) VALUES(?) RETURNING id"`)
}

// TestGenerateDeterministic tests that repeated generation yields
// byte-identical output.
func TestGenerateDeterministic(t *testing.T) {
	def := schema.New("User", schema.Field{Name: "name", Type: value.TypeText})
	a, err := Generate("bindings", def)
	require.NoError(t, err)
	b, err := Generate("bindings", def)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestGenerateInvalid tests that an invalid definition aborts
// generation.
func TestGenerateInvalid(t *testing.T) {
	_, err := Generate("bindings", schema.New("User"))
	assert.True(t, persistent.IsValidationError(err))
}
