package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/allisson/promptguard/internal/app"
	"github.com/allisson/promptguard/internal/config"
)

// RunDecryptEntry decrypts the original message of a stored audit entry.
// The user ID must match the one the entry was recorded for; a mismatch
// derives a different key and decryption fails closed.
func RunDecryptEntry(ctx context.Context, entryID, userID string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	id, err := uuid.Parse(entryID)
	if err != nil {
		return fmt.Errorf("invalid entry id %q: %w", entryID, err)
	}

	auditUseCase, err := container.AuditUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize audit use case: %w", err)
	}

	original, err := auditUseCase.Decrypt(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to decrypt audit entry: %w", err)
	}

	fmt.Printf("Entry ID: %s\n", id)
	fmt.Printf("User ID:  %s\n", userID)
	fmt.Println("Original message:")
	fmt.Println(original)

	return nil
}
