package commands

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCreateMasterKey(t *testing.T) {
	t.Run("plaintext mode succeeds without kms", func(t *testing.T) {
		require.NoError(t, RunCreateMasterKey(1, "", ""))
	})

	t.Run("zero version defaults to one", func(t *testing.T) {
		require.NoError(t, RunCreateMasterKey(0, "", ""))
	})

	t.Run("kms flags must be set together", func(t *testing.T) {
		err := RunCreateMasterKey(1, "localsecrets", "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "--kms-provider and --kms-key-uri must be set together")

		err = RunCreateMasterKey(1, "", "base64key://")
		require.Error(t, err)
	})
}
