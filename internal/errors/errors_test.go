package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("wraps error with context", func(t *testing.T) {
		err := Wrap(ErrNotFound, "loading audit entry")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "loading audit entry: not found", err.Error())
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "context"))
	})

	t.Run("nested wraps preserve the sentinel", func(t *testing.T) {
		err := Wrap(Wrap(ErrUnavailable, "breaker open"), "invoke")
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.NotErrorIs(t, err, ErrUpstream)
	})
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrUpstream)
	assert.True(t, Is(err, ErrUpstream))
	assert.False(t, Is(err, ErrUnavailable))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrConflict, ErrInvalidInput, ErrUnavailable, ErrUpstream, ErrInternal}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b)
		}
	}
}
