package persistent_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mageshb/persistent"
)

func TestStatementError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := persistent.NewStatementError("SELECT 1", errors.New("syntax error"))
		assert.Equal(t, "persistent: statement failed: syntax error", err.Error())
		assert.Equal(t, "SELECT 1", err.Query)
	})

	t.Run("Unwrap", func(t *testing.T) {
		cause := errors.New("syntax error")
		err := persistent.NewStatementError("SELECT 1", cause)
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("IsStatementError", func(t *testing.T) {
		err := persistent.NewStatementError("SELECT 1", errors.New("boom"))
		assert.True(t, persistent.IsStatementError(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, persistent.IsStatementError(wrapped))

		assert.False(t, persistent.IsStatementError(errors.New("other")))
		assert.False(t, persistent.IsStatementError(nil))
	})
}

func TestNoIdentifierError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := persistent.NewNoIdentifierError("users")
		assert.Equal(t, `persistent: insert into "users" returned no generated identifier`, err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := persistent.NewNoIdentifierError("users")
		assert.True(t, errors.Is(err, persistent.ErrNoIdentifier))
	})

	t.Run("IsNoIdentifier", func(t *testing.T) {
		err := persistent.NewNoIdentifierError("users")
		assert.True(t, persistent.IsNoIdentifier(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, persistent.IsNoIdentifier(wrapped))

		assert.True(t, persistent.IsNoIdentifier(persistent.ErrNoIdentifier))
		assert.False(t, persistent.IsNoIdentifier(errors.New("other")))
		assert.False(t, persistent.IsNoIdentifier(nil))
	})
}

func TestConnectionError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := persistent.NewConnectionError(errors.New("refused"))
		assert.Equal(t, "persistent: connection: refused", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		cause := errors.New("refused")
		err := persistent.NewConnectionError(cause)
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("IsConnectionError", func(t *testing.T) {
		err := persistent.NewConnectionError(errors.New("refused"))
		assert.True(t, persistent.IsConnectionError(err))
		assert.False(t, persistent.IsConnectionError(errors.New("other")))
		assert.False(t, persistent.IsConnectionError(nil))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := persistent.NewValidationError("User", errors.New("entity has no fields"))
		assert.Equal(t, `persistent: validation failed for "User": entity has no fields`, err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		cause := errors.New("entity has no fields")
		err := persistent.NewValidationError("User", cause)
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("IsValidationError", func(t *testing.T) {
		err := persistent.NewValidationError("User", errors.New("boom"))
		assert.True(t, persistent.IsValidationError(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, persistent.IsValidationError(wrapped))

		assert.False(t, persistent.IsValidationError(errors.New("other")))
		assert.False(t, persistent.IsValidationError(nil))
	})
}

func TestErrorTaxonomyDisjoint(t *testing.T) {
	stmt := persistent.NewStatementError("SELECT 1", errors.New("boom"))
	assert.False(t, persistent.IsConnectionError(stmt))
	assert.False(t, persistent.IsValidationError(stmt))
	assert.False(t, persistent.IsNoIdentifier(stmt))

	conn := persistent.NewConnectionError(errors.New("refused"))
	assert.False(t, persistent.IsStatementError(conn))
}
