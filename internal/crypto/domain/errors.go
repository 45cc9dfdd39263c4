package domain

import (
	"github.com/allisson/promptguard/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrKeyUnavailable indicates the master key for a requested version cannot
	// be resolved. Encryption and decryption fail closed on this error; in a
	// production configuration there is no fallback to a synthesized key.
	ErrKeyUnavailable = errors.Wrap(errors.ErrInternal, "master key unavailable")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// All keys (master keys and derived user keys) must be exactly 32 bytes
	// (256 bits) for AES-256-GCM.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates a decryption operation failed.
	//
	// This error can occur due to:
	//   - Wrong user ID (derived key mismatch)
	//   - Ciphertext or tag has been tampered with (authentication failure)
	//   - Invalid nonce provided
	//
	// For security reasons, the specific cause is not disclosed to prevent
	// information leakage that could aid attackers.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrInvalidPayloadFormat indicates a serialized EncryptedPayload could not
	// be parsed. Treated the same as a tag failure: the payload is rejected.
	ErrInvalidPayloadFormat = errors.Wrap(errors.ErrInvalidInput, "invalid payload format")

	// Master key chain loading errors.

	// ErrMasterKeysNotSet indicates MASTER_KEYS is not configured.
	ErrMasterKeysNotSet = errors.New("MASTER_KEYS environment variable not set")

	// ErrCurrentVersionNotSet indicates CURRENT_MASTER_KEY_VERSION is not configured.
	ErrCurrentVersionNotSet = errors.New("CURRENT_MASTER_KEY_VERSION environment variable not set")

	// ErrInvalidMasterKeysFormat indicates a malformed MASTER_KEYS entry.
	ErrInvalidMasterKeysFormat = errors.New("invalid MASTER_KEYS format")

	// ErrInvalidMasterKeyBase64 indicates a master key is not valid base64.
	ErrInvalidMasterKeyBase64 = errors.New("invalid master key base64")

	// ErrCurrentVersionNotFound indicates the configured current version has no key.
	ErrCurrentVersionNotFound = errors.New("current master key version not found")
)
