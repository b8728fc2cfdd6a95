// Package normalize canonicalizes scam identifiers so that differently
// formatted reports of the same phone number, email address, or business
// name group together. All normalizers are pure, total, and idempotent.
package normalize

import (
	"fmt"
	"strings"

	"github.com/beaware-fyi/beaware-api/internal/domain"
)

// Phone strips all non-digit characters. A leading US country code on an
// 11-digit number is dropped, so "+1 (214) 555-0100" and "214-555-0100"
// both normalize to "2145550100".
func Phone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	return digits
}

// Email lowercases and trims surrounding whitespace.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Business lowercases, collapses internal whitespace runs to a single
// space, and trims.
func Business(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// Identifier dispatches on scam type. It returns ErrBadRequest for an
// unknown type or when the raw value normalizes to nothing.
func Identifier(scamType, raw string) (string, error) {
	var norm string
	switch scamType {
	case domain.ScamTypePhone:
		norm = Phone(raw)
	case domain.ScamTypeEmail:
		norm = Email(raw)
	case domain.ScamTypeBusiness:
		norm = Business(raw)
	default:
		return "", fmt.Errorf("unknown scam type %q: %w", scamType, domain.ErrBadRequest)
	}
	if norm == "" {
		return "", fmt.Errorf("empty identifier for scam type %q: %w", scamType, domain.ErrBadRequest)
	}
	return norm, nil
}
