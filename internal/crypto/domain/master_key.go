package domain

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// MasterKey represents a versioned root secret used to derive per-user
// encryption keys for the audit trail.
//
// Master keys are never embedded in audit entries; only their version number
// travels with each encrypted payload so decryption can resolve the same root
// secret later. Rotating to a new version must keep old versions loaded,
// otherwise history encrypted under them becomes permanently unreadable.
//
// Fields:
//   - Version: Monotonically assigned version number (1, 2, ...)
//   - Key: The raw 32-byte master key material
type MasterKey struct {
	Version uint
	Key     []byte
}

// MasterKeyChain manages versioned master keys with one designated as current.
//
// New payloads are encrypted under the current version; payloads carry the
// version they were encrypted with, so any retained version can still decrypt
// its history. This is what makes rotation safe: decryption always resolves
// the payload's own version, never the caller's current one.
//
// Thread safety: the chain uses sync.Map internally for concurrent access.
type MasterKeyChain struct {
	currentVersion uint
	keys           sync.Map
}

// CurrentVersion returns the version used to encrypt new payloads.
func (m *MasterKeyChain) CurrentVersion() uint {
	return m.currentVersion
}

// Get retrieves a master key from the chain by its version.
//
// Used during decryption to resolve the root secret a payload was encrypted
// under (which may differ from the current version after rotation).
func (m *MasterKeyChain) Get(version uint) (*MasterKey, bool) {
	if masterKey, ok := m.keys.Load(version); ok {
		return masterKey.(*MasterKey), ok
	}

	return nil, false
}

// Close securely clears all master keys from memory and resets the chain.
//
// Should be called during application shutdown or configuration reload to
// remove sensitive key material from memory.
func (m *MasterKeyChain) Close() {
	m.keys.Range(func(key, value any) bool {
		if mk, ok := value.(*MasterKey); ok {
			Zero(mk.Key)
		}
		return true
	})
	m.currentVersion = 0
	m.keys.Clear()
}

// KMSDecrypter decrypts KMS-wrapped master key material. Implemented by
// gocloud.dev secrets keepers; abstracted here so the domain does not depend
// on the KMS transport.
type KMSDecrypter interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// LoadMasterKeyChainFromEnv loads master keys from environment variables.
//
// Configuration:
//   - MASTER_KEYS: Comma-separated list of entries in format "version:base64key"
//   - CURRENT_MASTER_KEY_VERSION: Version used to encrypt new payloads
//
// Format example:
//
//	MASTER_KEYS="1:YWJjZGVmZ2hpamtsbW5vcHFyc3R1dnd4eXoxMjM0NTY3OA==,2:MTIzNDU2Nzg5MGFiY2RlZmdoaWprbG1ub3BxcnN0dXZ3eA=="
//	CURRENT_MASTER_KEY_VERSION="2"
//
// When decrypter is non-nil, each base64 entry is treated as KMS-wrapped
// ciphertext and unwrapped before use. Each unwrapped key must be exactly
// 32 bytes.
//
// Returns:
//   - A fully initialized MasterKeyChain ready for use
//   - ErrMasterKeysNotSet if MASTER_KEYS is not configured
//   - ErrCurrentVersionNotSet if CURRENT_MASTER_KEY_VERSION is not configured
//   - ErrInvalidMasterKeysFormat / ErrInvalidMasterKeyBase64 / ErrInvalidKeySize
//     if any entry is malformed
//   - ErrCurrentVersionNotFound if the current version is not in the chain
func LoadMasterKeyChainFromEnv(ctx context.Context, decrypter KMSDecrypter) (*MasterKeyChain, error) {
	raw := os.Getenv("MASTER_KEYS")
	if raw == "" {
		return nil, ErrMasterKeysNotSet
	}

	current := os.Getenv("CURRENT_MASTER_KEY_VERSION")
	if current == "" {
		return nil, ErrCurrentVersionNotSet
	}

	currentVersion, err := strconv.ParseUint(current, 10, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: CURRENT_MASTER_KEY_VERSION=%s", ErrInvalidMasterKeysFormat, current)
	}

	mkc := &MasterKeyChain{currentVersion: uint(currentVersion)}

	for part := range strings.SplitSeq(raw, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 {
			mkc.Close()
			return nil, fmt.Errorf("%w: %q", ErrInvalidMasterKeysFormat, part)
		}
		version, err := strconv.ParseUint(p[0], 10, 0)
		if err != nil {
			mkc.Close()
			return nil, fmt.Errorf("%w: version %q", ErrInvalidMasterKeysFormat, p[0])
		}
		key, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			mkc.Close()
			return nil, fmt.Errorf("%w for version %d: %v", ErrInvalidMasterKeyBase64, version, err)
		}
		if decrypter != nil {
			unwrapped, err := decrypter.Decrypt(ctx, key)
			Zero(key)
			if err != nil {
				mkc.Close()
				return nil, fmt.Errorf("failed to unwrap master key version %d: %w", version, err)
			}
			key = unwrapped
		}
		if len(key) != 32 {
			Zero(key)
			mkc.Close()
			return nil, fmt.Errorf(
				"%w: master key version %d must be 32 bytes, got %d",
				ErrInvalidKeySize,
				version,
				len(key),
			)
		}
		stored := make([]byte, 32)
		copy(stored, key)
		mkc.keys.Store(uint(version), &MasterKey{Version: uint(version), Key: stored})
		Zero(key)
	}

	if _, ok := mkc.Get(uint(currentVersion)); !ok {
		mkc.Close()
		return nil, fmt.Errorf("%w: CURRENT_MASTER_KEY_VERSION=%d", ErrCurrentVersionNotFound, currentVersion)
	}

	return mkc, nil
}

// NewDevMasterKeyChain synthesizes a deterministic chain for non-production
// use, holding versions 1 through currentVersion. Each key is derived from its
// version number alone, so restarts produce the same keys and dev audit
// history stays decryptable across simulated rotations.
//
// Callers must gate this on an explicit non-production configuration flag and
// log a security warning; production startup without real keys fails instead.
func NewDevMasterKeyChain(currentVersion uint) *MasterKeyChain {
	mkc := &MasterKeyChain{currentVersion: currentVersion}
	for version := uint(1); version <= currentVersion; version++ {
		sum := sha256.Sum256(fmt.Appendf(nil, "promptguard-dev-master-key-v%d", version))
		mkc.keys.Store(version, &MasterKey{Version: version, Key: sum[:]})
	}
	return mkc
}
