package service

import (
	"fmt"

	cryptoDomain "github.com/allisson/promptguard/internal/crypto/domain"
)

// messageCipher implements MessageCipher on top of the master key chain,
// HKDF user-key derivation, and AES-256-GCM.
type messageCipher struct {
	chain *cryptoDomain.MasterKeyChain
}

// NewMessageCipher creates a MessageCipher backed by the provided master key chain.
func NewMessageCipher(chain *cryptoDomain.MasterKeyChain) MessageCipher {
	return &messageCipher{chain: chain}
}

// Encrypt encrypts plaintext for the user under the chain's current master key version.
func (m *messageCipher) Encrypt(plaintext []byte, userID string) (cryptoDomain.EncryptedPayload, error) {
	return m.EncryptWithVersion(plaintext, userID, m.chain.CurrentVersion())
}

// EncryptWithVersion encrypts plaintext for the user under an explicit master
// key version.
//
// A fresh per-user key is derived for every call and zeroed before returning;
// derived keys are never persisted or cached. The nonce is random per call so
// encrypting the same plaintext twice yields different ciphertexts.
//
// Returns ErrKeyUnavailable when the requested version has no master key —
// there is no fallback, the operation fails closed.
func (m *messageCipher) EncryptWithVersion(
	plaintext []byte,
	userID string,
	version uint,
) (cryptoDomain.EncryptedPayload, error) {
	masterKey, found := m.chain.Get(version)
	if !found {
		return cryptoDomain.EncryptedPayload{}, fmt.Errorf(
			"%w: version %d", cryptoDomain.ErrKeyUnavailable, version,
		)
	}

	userKey, err := DeriveUserKey(masterKey, userID, version)
	if err != nil {
		return cryptoDomain.EncryptedPayload{}, err
	}
	defer cryptoDomain.Zero(userKey)

	aead, err := NewAESGCM(userKey)
	if err != nil {
		return cryptoDomain.EncryptedPayload{}, err
	}

	sealed, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return cryptoDomain.EncryptedPayload{}, err
	}

	// cipher.AEAD appends the 16-byte tag to the ciphertext; the payload
	// carries the two parts separately.
	tagStart := len(sealed) - cryptoDomain.AuthTagSize
	return cryptoDomain.EncryptedPayload{
		KeyVersion: version,
		Nonce:      nonce,
		Ciphertext: sealed[:tagStart],
		AuthTag:    sealed[tagStart:],
	}, nil
}

// Decrypt decrypts a payload using the key version the payload itself carries.
//
// The per-user key is rederived from (masterKey[payload.KeyVersion], userID,
// payload.KeyVersion) — never from the chain's current version. This is what
// makes rotation safe: old payloads remain decryptable as long as their
// version's master key stays loaded.
//
// Returns ErrKeyUnavailable when the payload's version has no master key, and
// ErrDecryptionFailed on tag mismatch (wrong user, tampered ciphertext). The
// specific cause is not disclosed.
func (m *messageCipher) Decrypt(payload cryptoDomain.EncryptedPayload, userID string) ([]byte, error) {
	masterKey, found := m.chain.Get(payload.KeyVersion)
	if !found {
		return nil, fmt.Errorf("%w: version %d", cryptoDomain.ErrKeyUnavailable, payload.KeyVersion)
	}

	userKey, err := DeriveUserKey(masterKey, userID, payload.KeyVersion)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(userKey)

	aead, err := NewAESGCM(userKey)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(payload.Ciphertext)+len(payload.AuthTag))
	sealed = append(sealed, payload.Ciphertext...)
	sealed = append(sealed, payload.AuthTag...)

	plaintext, err := aead.Decrypt(sealed, payload.Nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return plaintext, nil
}
