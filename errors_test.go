package veloxdoc_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/veloxdoc"
	ql "github.com/syssam/veloxdoc/querylanguage"
	"github.com/syssam/veloxdoc/translate"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := veloxdoc.NewNotFoundError("user")
		assert.Equal(t, "veloxdoc: user not found", err.Error())
		assert.Equal(t, "user", err.Label())
	})

	t.Run("Is", func(t *testing.T) {
		err := veloxdoc.NewNotFoundError("order")
		assert.True(t, errors.Is(err, veloxdoc.ErrNotFound))
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := veloxdoc.NewNotFoundError("order")
		assert.True(t, veloxdoc.IsNotFound(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, veloxdoc.IsNotFound(wrapped))

		// Sentinel error
		assert.True(t, veloxdoc.IsNotFound(veloxdoc.ErrNotFound))

		// Non-matching error
		assert.False(t, veloxdoc.IsNotFound(errors.New("other error")))
		assert.False(t, veloxdoc.IsNotFound(nil))
	})
}

func TestNotSingularError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := veloxdoc.NewNotSingularError("user")
		assert.Equal(t, "veloxdoc: user not singular", err.Error())
		assert.Equal(t, -1, err.Count())
	})

	t.Run("ErrorWithCount", func(t *testing.T) {
		err := veloxdoc.NewNotSingularErrorWithCount("user", 3)
		assert.Equal(t, "veloxdoc: user not singular (3 results)", err.Error())
		assert.Equal(t, 3, err.Count())
	})

	t.Run("Is", func(t *testing.T) {
		err := veloxdoc.NewNotSingularError("order")
		assert.True(t, errors.Is(err, veloxdoc.ErrNotSingular))
	})

	t.Run("IsNotSingular", func(t *testing.T) {
		err := veloxdoc.NewNotSingularError("order")
		assert.True(t, veloxdoc.IsNotSingular(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, veloxdoc.IsNotSingular(wrapped))

		// Sentinel error
		assert.True(t, veloxdoc.IsNotSingular(veloxdoc.ErrNotSingular))

		// Non-matching error
		assert.False(t, veloxdoc.IsNotSingular(errors.New("other error")))
		assert.False(t, veloxdoc.IsNotSingular(nil))
	})
}

func TestIsUntranslatable(t *testing.T) {
	_, err := translate.Predicate(userModel, ql.FieldContains("name", "bo"))
	assert.True(t, veloxdoc.IsUntranslatable(err))
	assert.True(t, errors.Is(err, veloxdoc.ErrUntranslatable))

	// Wrapped error
	wrapped := fmt.Errorf("compile: %w", err)
	assert.True(t, veloxdoc.IsUntranslatable(wrapped))

	var te *veloxdoc.TranslateError
	assert.True(t, errors.As(err, &te))
	assert.Contains(t, te.Error(), "no store translation")

	assert.False(t, veloxdoc.IsUntranslatable(errors.New("other error")))
	assert.False(t, veloxdoc.IsUntranslatable(nil))
}

func TestIsConfigError(t *testing.T) {
	err := translate.Configf("page size must be positive, got %d", 0)
	assert.True(t, veloxdoc.IsConfigError(err))
	assert.Equal(t, "veloxdoc: page size must be positive, got 0", err.Error())

	// Wrapped error
	wrapped := fmt.Errorf("compile: %w", err)
	assert.True(t, veloxdoc.IsConfigError(wrapped))

	assert.False(t, veloxdoc.IsConfigError(errors.New("other error")))
	assert.False(t, veloxdoc.IsConfigError(nil))
}

func BenchmarkErrors(b *testing.B) {
	b.Run("NewNotFoundError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = veloxdoc.NewNotFoundError("user")
		}
	})

	b.Run("IsNotFound", func(b *testing.B) {
		err := veloxdoc.NewNotFoundError("user")
		for i := 0; i < b.N; i++ {
			_ = veloxdoc.IsNotFound(err)
		}
	})
}
