package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunDecryptEntry(t *testing.T) {
	t.Run("invalid entry id", func(t *testing.T) {
		err := RunDecryptEntry(context.Background(), "not-a-uuid", "user-1")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid entry id")
	})
}
