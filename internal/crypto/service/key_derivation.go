package service

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/promptguard/internal/crypto/domain"
)

// DerivedKeySize is the length of a derived per-user key in bytes (AES-256).
const DerivedKeySize = 32

// DeriveUserKey derives a per-user 32-byte symmetric key from a master key
// using HKDF-SHA256.
//
// The info string binds the derived key to both the user ID and the master key
// version, so a payload encrypted for one user can never be decrypted with
// another user's derived key, and keys derived under different versions are
// independent.
//
// Determinism is required: the same (masterKey, userID, version) inputs always
// yield the same key, across process restarts, because decryption recomputes
// the key on demand — derived keys are never persisted.
//
// Parameters:
//   - masterKey: The root secret for the given version (32 bytes)
//   - userID: The user the key is bound to
//   - version: The master key version, mixed into the derivation context
//
// Returns:
//   - A 32-byte derived key
//   - ErrInvalidKeySize if the master key is not 32 bytes
func DeriveUserKey(masterKey *cryptoDomain.MasterKey, userID string, version uint) ([]byte, error) {
	if len(masterKey.Key) != 32 {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	info := fmt.Appendf(nil, "promptguard:user-key:%s:v%d", userID, version)

	reader := hkdf.New(sha256.New, masterKey.Key, nil, info)
	key := make([]byte, DerivedKeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive user key: %w", err)
	}

	return key, nil
}
