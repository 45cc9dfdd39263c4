package domain

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// NonceSize is the AES-GCM nonce length in bytes.
const NonceSize = 12

// AuthTagSize is the AES-GCM authentication tag length in bytes.
const AuthTagSize = 16

// EncryptedPayload represents the authenticated encryption of an original
// (pre-redaction) message under a per-user derived key.
//
// The payload is self-describing: it carries the master key version used at
// encryption time, so payloads encrypted under different rotated versions can
// coexist in storage indefinitely and each can still be decrypted.
//
// It serializes to and from the format: "v<version>:<nonce>:<ciphertext>:<tag>"
// with all binary fields base64-encoded.
//
// Fields:
//   - KeyVersion: Master key version the per-user key was derived from
//   - Nonce: 12-byte random nonce, unique per encryption call
//   - Ciphertext: Encrypted message bytes (tag excluded)
//   - AuthTag: 16-byte authentication tag
type EncryptedPayload struct {
	KeyVersion uint
	Nonce      []byte
	Ciphertext []byte
	AuthTag    []byte
}

// NewEncryptedPayload parses an EncryptedPayload from its string representation.
//
// The input must be in the format "v<version>:<nonce-b64>:<ciphertext-b64>:<tag-b64>".
// Any structural problem (wrong part count, missing version prefix, bad base64,
// wrong nonce or tag length) returns ErrInvalidPayloadFormat — malformed
// payloads fail closed, the same as a tag mismatch would.
func NewEncryptedPayload(content string) (EncryptedPayload, error) {
	parts := strings.Split(content, ":")
	if len(parts) != 4 {
		return EncryptedPayload{}, fmt.Errorf(
			"%w: expected 'v<version>:nonce:ciphertext:tag', got %d parts",
			ErrInvalidPayloadFormat,
			len(parts),
		)
	}

	versionStr, ok := strings.CutPrefix(parts[0], "v")
	if !ok {
		return EncryptedPayload{}, fmt.Errorf("%w: missing version prefix", ErrInvalidPayloadFormat)
	}
	version, err := strconv.ParseUint(versionStr, 10, 0)
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("%w: %v", ErrInvalidPayloadFormat, err)
	}

	nonce, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("%w: nonce: %v", ErrInvalidPayloadFormat, err)
	}
	if len(nonce) != NonceSize {
		return EncryptedPayload{}, fmt.Errorf(
			"%w: nonce must be %d bytes, got %d", ErrInvalidPayloadFormat, NonceSize, len(nonce),
		)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("%w: ciphertext: %v", ErrInvalidPayloadFormat, err)
	}

	tag, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("%w: auth tag: %v", ErrInvalidPayloadFormat, err)
	}
	if len(tag) != AuthTagSize {
		return EncryptedPayload{}, fmt.Errorf(
			"%w: auth tag must be %d bytes, got %d", ErrInvalidPayloadFormat, AuthTagSize, len(tag),
		)
	}

	return EncryptedPayload{
		KeyVersion: uint(version),
		Nonce:      nonce,
		Ciphertext: ciphertext,
		AuthTag:    tag,
	}, nil
}

// String serializes the EncryptedPayload to its string representation.
//
// Round-trips with NewEncryptedPayload:
//
//	serialized := payload.String()
//	parsed, _ := NewEncryptedPayload(serialized)
//	// parsed equals payload
func (p EncryptedPayload) String() string {
	return fmt.Sprintf(
		"v%d:%s:%s:%s",
		p.KeyVersion,
		base64.StdEncoding.EncodeToString(p.Nonce),
		base64.StdEncoding.EncodeToString(p.Ciphertext),
		base64.StdEncoding.EncodeToString(p.AuthTag),
	)
}
