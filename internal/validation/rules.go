// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/promptguard/internal/errors"
)

var (
	// userIDRegex restricts user identifiers to a safe, URL-embeddable shape.
	userIDRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]{1,128}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// UserID validates that a user identifier contains only letters, digits,
// dots, underscores, or hyphens and fits within 128 characters. User ids are
// embedded in URLs and in key-derivation info strings, so the shape is kept
// deliberately narrow.
var UserID = validation.NewStringRuleWithError(
	func(s string) bool {
		return userIDRegex.MatchString(s)
	},
	validation.NewError(
		"validation_user_id_format",
		"must contain only letters, digits, dots, underscores, or hyphens (max 128)",
	),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
