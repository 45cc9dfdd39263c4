// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/promptguard/internal/validation"
)

// DecryptAuditEntryRequest contains the parameters for decrypting an audit
// entry's original message. The entry id comes from the URL parameter; the
// body names the user the entry is expected to belong to.
type DecryptAuditEntryRequest struct {
	UserID string `json:"user_id"`
}

// Validate checks if the decrypt audit entry request is valid.
func (r *DecryptAuditEntryRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID,
			validation.Required,
			customValidation.UserID,
		),
	)
}
