// Package domain defines the core types for inquiry mediation: PII
// classification, sanitization results, circuit breaker state, and the
// outcome of a processed inquiry.
package domain

// PIIClass identifies a class of personally identifiable information the
// sanitizer detects. Closed set: adding a class means adding a pattern and
// placeholder to the sanitizer, no other component changes.
type PIIClass string

const (
	// PIIClassEmail matches email addresses.
	PIIClassEmail PIIClass = "EMAIL"
	// PIIClassCreditCard matches card-like runs of 13-19 digits.
	PIIClassCreditCard PIIClass = "CREDIT_CARD"
	// PIIClassSSN matches SSN-like digit sequences.
	PIIClassSSN PIIClass = "SSN"
)

// Placeholder returns the fixed replacement text for this class,
// e.g. "<REDACTED: EMAIL>".
func (c PIIClass) Placeholder() string {
	return "<REDACTED: " + string(c) + ">"
}

// RedactionItem reports how many matches of one PII class were redacted.
type RedactionItem struct {
	Type  PIIClass `json:"type"`
	Count int      `json:"count"`
}

// SanitizeResult is the outcome of a sanitization pass. Immutable, derived
// purely from the input text.
//
// Items holds one entry per PII class with at least one match, ordered by the
// scan order in which the class was first seen (EMAIL, CREDIT_CARD, SSN) —
// not alphabetically.
type SanitizeResult struct {
	RedactedText string
	Items        []RedactionItem
}
