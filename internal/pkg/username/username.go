// Package username derives and allocates BeAware usernames: the anonymous,
// unique handles shown publicly on reports instead of real names.
package username

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beaware-fyi/beaware-api/internal/domain"
)

const (
	MinLength = 3
	MaxLength = 20

	// MaxAttempts bounds suffix probing: the base candidate plus suffixes
	// 1..99 are tried before the allocation is declared exhausted.
	MaxAttempts = 100

	baseMaxLength = 15
)

var validRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// Valid reports whether s is a well-formed BeAware username:
// 3-20 characters, letters, digits, and underscores only.
func Valid(s string) bool {
	return validRe.MatchString(s)
}

// sanitize lowercases s, replaces every character outside [a-z0-9] with an
// underscore, and truncates to baseMaxLength.
func sanitize(s string) string {
	lower := strings.ToLower(s)
	var b strings.Builder
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := b.String()
	if len(out) > baseMaxLength {
		out = out[:baseMaxLength]
	}
	return out
}

// BaseCandidate derives the deterministic starting candidate for a user.
// The display name is preferred; when it yields fewer than MinLength usable
// characters the local part of the email is used instead. If both sources
// come up short the allocation is rejected rather than producing a handle
// that violates the 3-20 character constraint.
func BaseCandidate(displayName, email string) (string, error) {
	base := sanitize(displayName)
	if len(base) < MinLength {
		local, _, _ := strings.Cut(email, "@")
		base = sanitize(local)
	}
	if len(base) < MinLength {
		return "", fmt.Errorf("cannot derive a username of at least %d characters from display name or email: %w", MinLength, domain.ErrBadRequest)
	}
	return base, nil
}

// Result is a successful allocation.
type Result struct {
	Username string
	Attempts int // number of taken candidates probed before success
}

// Allocate probes base, base1, base2, ... against the taken callback until
// a free candidate is found, and returns ErrAllocationExhausted once
// MaxAttempts consecutive candidates are all taken. Given an unchanged
// namespace the outcome is deterministic, so re-runs are idempotent.
func Allocate(ctx context.Context, base string, taken func(ctx context.Context, candidate string) (bool, error)) (Result, error) {
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = base + strconv.Itoa(attempt)
		}
		inUse, err := taken(ctx, candidate)
		if err != nil {
			return Result{}, err
		}
		if !inUse {
			return Result{Username: candidate, Attempts: attempt}, nil
		}
	}
	return Result{}, fmt.Errorf("no free candidate for base %q after %d attempts: %w", base, MaxAttempts, domain.ErrAllocationExhausted)
}
