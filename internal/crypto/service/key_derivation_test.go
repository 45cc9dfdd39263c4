package service

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/promptguard/internal/crypto/domain"
)

// devKeyBase64 returns a deterministic 32-byte base64 key for the version,
// reusing the dev chain derivation so tests stay stable.
func devKeyBase64(t *testing.T, version uint) string {
	t.Helper()
	chain := cryptoDomain.NewDevMasterKeyChain(version)
	defer chain.Close()
	key, ok := chain.Get(version)
	require.True(t, ok)
	out := make([]byte, 32)
	copy(out, key.Key)
	return base64.StdEncoding.EncodeToString(out)
}

func TestDeriveUserKey(t *testing.T) {
	masterKeyBytes := make([]byte, 32)
	_, err := rand.Read(masterKeyBytes)
	require.NoError(t, err)
	masterKey := &cryptoDomain.MasterKey{Version: 1, Key: masterKeyBytes}

	t.Run("deterministic", func(t *testing.T) {
		first, err := DeriveUserKey(masterKey, "user-1", 1)
		require.NoError(t, err)
		second, err := DeriveUserKey(masterKey, "user-1", 1)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, first, DerivedKeySize)
	})

	t.Run("different users yield different keys", func(t *testing.T) {
		a, err := DeriveUserKey(masterKey, "user-1", 1)
		require.NoError(t, err)
		b, err := DeriveUserKey(masterKey, "user-2", 1)
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})

	t.Run("different versions yield different keys", func(t *testing.T) {
		a, err := DeriveUserKey(masterKey, "user-1", 1)
		require.NoError(t, err)
		b, err := DeriveUserKey(masterKey, "user-1", 2)
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})

	t.Run("invalid master key size", func(t *testing.T) {
		short := &cryptoDomain.MasterKey{Version: 1, Key: make([]byte, 16)}
		_, err := DeriveUserKey(short, "user-1", 1)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})
}

func TestAESGCM(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		aead, err := NewAESGCM(key)
		require.NoError(t, err)

		ciphertext, nonce, err := aead.Encrypt([]byte("plaintext"), nil)
		require.NoError(t, err)
		assert.Len(t, nonce, cryptoDomain.NonceSize)

		plaintext, err := aead.Decrypt(ciphertext, nonce, nil)
		require.NoError(t, err)
		assert.Equal(t, []byte("plaintext"), plaintext)
	})

	t.Run("invalid key size", func(t *testing.T) {
		_, err := NewAESGCM(make([]byte, 16))
		assert.Error(t, err)
	})

	t.Run("aad mismatch fails", func(t *testing.T) {
		aead, err := NewAESGCM(key)
		require.NoError(t, err)

		ciphertext, nonce, err := aead.Encrypt([]byte("plaintext"), []byte("user-1"))
		require.NoError(t, err)

		_, err = aead.Decrypt(ciphertext, nonce, []byte("user-2"))
		assert.Error(t, err)
	})
}
