// Package service implements the inquiry pipeline services: PII
// sanitization, the mock AI backend client, and the circuit-breaker-guarded
// resilient invoker.
package service

import (
	"regexp"

	inquiryDomain "github.com/allisson/promptguard/internal/inquiry/domain"
)

// PII patterns, one per class.
//
// CREDIT_CARD accepts 13-19 digits with optional single space/hyphen
// separators between digits; SSN accepts the dashed form or a bare 9-digit
// run. Both are bounded so they never match inside longer digit runs. No
// checksum validation (e.g. Luhn) is performed: any digit run of the right
// shape is redacted, favoring false positives over missed PII.
var (
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	creditCardPattern = regexp.MustCompile(`\b\d(?:[ \-]?\d){12,18}\b`)
	ssnPattern        = regexp.MustCompile(`\b(?:\d{3}-\d{2}-\d{4}|\d{9})\b`)
)

// piiScan pairs a PII class with its pattern. Scan order is fixed and part of
// the observable behavior: EMAIL first, then CREDIT_CARD, then SSN. Each
// scan's replacement output feeds the next scan's input, so a digit run inside
// an already-redacted span is never re-matched and overlapping candidates are
// resolved by the earlier scan.
type piiScan struct {
	class   inquiryDomain.PIIClass
	pattern *regexp.Regexp
}

var piiScans = []piiScan{
	{inquiryDomain.PIIClassEmail, emailPattern},
	{inquiryDomain.PIIClassCreditCard, creditCardPattern},
	{inquiryDomain.PIIClassSSN, ssnPattern},
}

// Sanitizer redacts PII from inquiry text before it is sent downstream or
// displayed. Stateless and safe for concurrent use.
type Sanitizer struct{}

// NewSanitizer creates a new Sanitizer.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// Sanitize redacts all PII-shaped substrings from text and reports per-class
// match counts.
//
// Pure and total: it never fails, and text with no PII is returned unchanged
// with an empty item list (exact identity, including empty and whitespace-only
// input). Duplicate values are counted per occurrence, not per unique value.
func (s *Sanitizer) Sanitize(text string) inquiryDomain.SanitizeResult {
	result := inquiryDomain.SanitizeResult{RedactedText: text}

	for _, scan := range piiScans {
		matches := scan.pattern.FindAllStringIndex(result.RedactedText, -1)
		if len(matches) == 0 {
			continue
		}

		result.Items = append(result.Items, inquiryDomain.RedactionItem{
			Type:  scan.class,
			Count: len(matches),
		})
		result.RedactedText = scan.pattern.ReplaceAllLiteralString(
			result.RedactedText,
			scan.class.Placeholder(),
		)
	}

	return result
}
