// Package service provides cryptographic services for the confidential audit trail.
// Implements AES-256-GCM authenticated encryption under HKDF-derived per-user keys.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/promptguard/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// MessageCipher encrypts and decrypts original inquiry messages under per-user
// derived keys. Every payload carries the master key version it was encrypted
// with, so rotated-out current versions never break decryption of history.
type MessageCipher interface {
	// Encrypt encrypts plaintext for the user under the chain's current master
	// key version.
	Encrypt(plaintext []byte, userID string) (cryptoDomain.EncryptedPayload, error)

	// EncryptWithVersion encrypts plaintext for the user under an explicit
	// master key version.
	EncryptWithVersion(plaintext []byte, userID string, version uint) (cryptoDomain.EncryptedPayload, error)

	// Decrypt decrypts a payload using the key version the payload itself
	// carries. Fails closed on tag mismatch or an unresolvable version.
	Decrypt(payload cryptoDomain.EncryptedPayload, userID string) ([]byte, error)
}

// KMSService opens gocloud.dev secrets keepers for unwrapping master keys.
type KMSService interface {
	// OpenKeeper opens a secrets keeper for the configured KMS provider.
	// Returns an error if the KMS key URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}

// KMSKeeper is the subset of *secrets.Keeper the application uses.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
