// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/promptguard/internal/validation"
)

// ProcessInquiryRequest contains the parameters for processing a user inquiry.
type ProcessInquiryRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// Validate checks if the process inquiry request is valid.
func (r *ProcessInquiryRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID,
			validation.Required,
			customValidation.UserID,
		),
		validation.Field(&r.Message,
			validation.Required,
			validation.Length(1, 32768),
		),
	)
}
