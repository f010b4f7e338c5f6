package errors

import (
	"strings"
	"unicode"
)

// ValidateModelID validates a model identifier used in store keys and URL
// paths. It rejects identifiers that could be used for path traversal or
// injection when a backend maps them onto file names or database keys.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path traversal sequences (.., //, backslash)
//   - Maximum length of 128 characters
func ValidateModelID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "model ID cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "model ID too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "model ID contains control characters")
		}
	}

	for _, pattern := range []string{"..", "//", "\\", "\x00"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "model ID contains invalid sequence %q", pattern)
		}
	}

	return nil
}

// ValidateNodeID validates a diagram node identifier arriving from the
// outside (API requests, recorded moves). Node IDs are opaque strings
// minted by the layout server, but they must be non-empty, printable, and
// of sensible length.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node ID cannot be empty")
	}
	if len(id) > 512 {
		return New(ErrCodeInvalidInput, "node ID too long (max 512 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node ID contains control characters")
		}
	}
	return nil
}
