package cyto_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/cyto"
)

func TestSchemaError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := cyto.NewSchemaError("nodes", "no_data", "unknown field", nil)
		assert.Equal(t, "cyto: element schema error in group nodes on field no_data: unknown field", err.Error())
	})

	t.Run("ErrorWithCause", func(t *testing.T) {
		cause := errors.New("boom")
		err := cyto.NewSchemaError("", "position", "expected object", cause)
		assert.Equal(t, "cyto: element schema error on field position: expected object: boom", err.Error())
		assert.Equal(t, cause, errors.Unwrap(err))
	})

	t.Run("Is", func(t *testing.T) {
		err := cyto.NewSchemaError("edges", "weight", "expected string", nil)
		assert.True(t, errors.Is(err, cyto.ErrInvalidElement))
	})

	t.Run("IsSchemaError", func(t *testing.T) {
		err := cyto.NewSchemaError("nodes", "selected", "expected bool", nil)
		assert.True(t, cyto.IsSchemaError(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, cyto.IsSchemaError(wrapped))

		// Sentinel error
		assert.True(t, cyto.IsSchemaError(cyto.ErrInvalidElement))

		// Non-matching error
		assert.False(t, cyto.IsSchemaError(errors.New("other error")))
		assert.False(t, cyto.IsSchemaError(nil))
	})
}

func TestPatternError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := cyto.NewPatternError("label", "(", errors.New("missing closing )"))
		assert.Equal(t, `cyto: bad filter pattern "(" for field label: missing closing )`, err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := cyto.NewPatternError("id", "[", errors.New("missing closing ]"))
		assert.True(t, errors.Is(err, cyto.ErrBadPattern))
	})

	t.Run("IsBadPattern", func(t *testing.T) {
		err := cyto.NewPatternError("classes", "*", errors.New("missing argument"))
		assert.True(t, cyto.IsBadPattern(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, cyto.IsBadPattern(wrapped))

		// Sentinel error
		assert.True(t, cyto.IsBadPattern(cyto.ErrBadPattern))

		// Non-matching error
		assert.False(t, cyto.IsBadPattern(errors.New("other error")))
		assert.False(t, cyto.IsBadPattern(nil))
	})
}
