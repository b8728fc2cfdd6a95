package normalize

import (
	"errors"
	"testing"

	"github.com/beaware-fyi/beaware-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhone(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"formatted", "(214) 555-0100", "2145550100"},
		{"dashed", "214-555-0100", "2145550100"},
		{"country code dropped", "+1 (214) 555-0100", "2145550100"},
		{"bare eleven digits", "12145550100", "2145550100"},
		{"eleven digits not starting with 1", "22145550100", "22145550100"},
		{"ten digits kept", "2145550100", "2145550100"},
		{"letters stripped", "214-CALL-NOW", "214"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Phone(tc.in))
		})
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "scam@example.com", Email("  Scam@Example.COM "))
	assert.Equal(t, "", Email("   "))
}

func TestBusiness(t *testing.T) {
	assert.Equal(t, "acme roofing llc", Business("  ACME   Roofing\tLLC "))
	assert.Equal(t, "", Business(" \t "))
}

func TestIdentifier_Idempotent(t *testing.T) {
	cases := []struct {
		scamType, raw string
	}{
		{domain.ScamTypePhone, "+1 (214) 555-0100"},
		{domain.ScamTypeEmail, " Phisher@Mail.COM "},
		{domain.ScamTypeBusiness, "  Totally  LEGIT  Movers "},
	}
	for _, tc := range cases {
		once, err := Identifier(tc.scamType, tc.raw)
		require.NoError(t, err)
		twice, err := Identifier(tc.scamType, once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "normalize must be idempotent for %s", tc.scamType)
	}
}

func TestIdentifier_UnknownType(t *testing.T) {
	_, err := Identifier("crypto", "whatever")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestIdentifier_EmptyAfterNormalization(t *testing.T) {
	_, err := Identifier(domain.ScamTypePhone, "no digits here")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}
