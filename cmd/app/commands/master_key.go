package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/allisson/promptguard/internal/crypto/domain"
	cryptoService "github.com/allisson/promptguard/internal/crypto/service"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key
// for the confidential audit trail. Key material is zeroed from memory after
// encoding.
//
// When kmsProvider and kmsKeyURI are set, the key is wrapped with KMS before
// output and MASTER_KEYS carries the wrapped ciphertext. Without KMS the raw
// base64 key is printed, which is only acceptable for local development.
//
// Output format:
//   - MASTER_KEYS="<version>:<base64-key-or-ciphertext>"
//   - CURRENT_MASTER_KEY_VERSION="<version>"
func RunCreateMasterKey(version uint, kmsProvider, kmsKeyURI string) error {
	ctx := context.Background()

	if version == 0 {
		version = 1
	}

	// Generate a cryptographically secure 32-byte master key
	masterKey := make([]byte, 32)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	output := masterKey

	if kmsProvider != "" || kmsKeyURI != "" {
		if kmsProvider == "" || kmsKeyURI == "" {
			return fmt.Errorf(
				"--kms-provider and --kms-key-uri must be set together\n\nFor local development, use:\n  --kms-provider=localsecrets --kms-key-uri=\"base64key://<32-byte-base64-key>\"\n\nFor production, use cloud KMS providers:\n  --kms-provider=gcpkms --kms-key-uri=\"gcpkms://projects/.../cryptoKeys/...\"\n  --kms-provider=awskms --kms-key-uri=\"awskms:///alias/...\"\n  --kms-provider=azurekeyvault --kms-key-uri=\"azurekeyvault://...\"",
			)
		}

		kmsService := cryptoService.NewKMSService()
		keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			return fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				fmt.Printf("Warning: failed to close KMS keeper: %v\n", closeErr)
			}
		}()

		ciphertext, err := keeper.Encrypt(ctx, masterKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt master key with KMS: %w", err)
		}
		output = ciphertext

		fmt.Println("# Master Key Configuration (KMS Mode)")
		fmt.Printf("# KMS Provider: %s\n", kmsProvider)
	} else {
		fmt.Println("# Master Key Configuration (Plaintext Mode)")
		fmt.Println("# WARNING: unwrapped key material, local development only")
	}

	encodedKey := base64.StdEncoding.EncodeToString(output)

	fmt.Println("# Copy these environment variables to your .env file or secrets manager")
	fmt.Println()
	if kmsProvider != "" {
		fmt.Printf("KMS_PROVIDER=\"%s\"\n", kmsProvider)
		fmt.Printf("KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	}
	fmt.Printf("MASTER_KEYS=\"%d:%s\"\n", version, encodedKey)
	fmt.Printf("CURRENT_MASTER_KEY_VERSION=\"%d\"\n", version)
	fmt.Println()
	fmt.Println("# For key rotation, keep the old entries and append the new version:")
	fmt.Printf("# MASTER_KEYS=\"%d:%s,%d:<new-base64-key>\"\n", version, encodedKey, version+1)
	fmt.Printf("# CURRENT_MASTER_KEY_VERSION=\"%d\"\n", version+1)

	return nil
}
