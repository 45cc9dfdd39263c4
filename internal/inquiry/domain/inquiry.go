package domain

// InquiryResult is the outcome of one processed inquiry.
//
// The reply, when present, was produced from the redacted message only — the
// original never leaves the pipeline except inside the encrypted audit entry.
type InquiryResult struct {
	// Reply is the downstream AI response. Empty when the call failed or was
	// rejected by the breaker.
	Reply string
	// RedactedMessage is the sanitized text that was sent downstream.
	RedactedMessage string
	// Redactions lists the PII classes redacted from the original message.
	Redactions []RedactionItem
	// Success reports whether the downstream call produced a reply.
	Success bool
}
