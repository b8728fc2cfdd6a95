package username

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/beaware-fyi/beaware-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	assert.True(t, Valid("john_smith"))
	assert.True(t, Valid("abc"))
	assert.True(t, Valid("A1_"))
	assert.False(t, Valid("ab"))                    // too short
	assert.False(t, Valid("this_name_is_far_too_long_x")) // too long
	assert.False(t, Valid("john smith"))            // space
	assert.False(t, Valid("john-smith"))            // dash
	assert.False(t, Valid(""))
}

func TestBaseCandidate_FromDisplayName(t *testing.T) {
	base, err := BaseCandidate("John Smith", "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "john_smith", base)
}

func TestBaseCandidate_TruncatesToFifteen(t *testing.T) {
	base, err := BaseCandidate("Bartholomew Montgomery", "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bartholomew_mon", base)
	assert.Len(t, base, 15)
}

func TestBaseCandidate_FallsBackToEmailLocalPart(t *testing.T) {
	base, err := BaseCandidate("!!", "Jane.Doe@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", base)
}

func TestBaseCandidate_EmptyDisplayName(t *testing.T) {
	base, err := BaseCandidate("", "scout@example.com")
	require.NoError(t, err)
	assert.Equal(t, "scout", base)
}

func TestBaseCandidate_BothSourcesTooShort(t *testing.T) {
	_, err := BaseCandidate("", "a@b.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func takenSet(names ...string) func(context.Context, string) (bool, error) {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(_ context.Context, candidate string) (bool, error) {
		_, ok := set[candidate]
		return ok, nil
	}
}

func TestAllocate_FreeBase(t *testing.T) {
	res, err := Allocate(context.Background(), "john", takenSet())
	require.NoError(t, err)
	assert.Equal(t, "john", res.Username)
	assert.Equal(t, 0, res.Attempts)
}

func TestAllocate_SuffixProbing(t *testing.T) {
	res, err := Allocate(context.Background(), "john", takenSet("john", "john1", "john2"))
	require.NoError(t, err)
	assert.Equal(t, "john3", res.Username)
	assert.Equal(t, 3, res.Attempts)
}

func TestAllocate_Deterministic(t *testing.T) {
	snapshot := takenSet("ada", "ada1")
	first, err := Allocate(context.Background(), "ada", snapshot)
	require.NoError(t, err)
	second, err := Allocate(context.Background(), "ada", snapshot)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAllocate_NeverReturnsTakenCandidate(t *testing.T) {
	names := []string{"bob", "bob1", "bob2", "bob5", "bob7"}
	res, err := Allocate(context.Background(), "bob", takenSet(names...))
	require.NoError(t, err)
	for _, n := range names {
		assert.NotEqual(t, n, res.Username)
	}
	assert.Equal(t, "bob3", res.Username)
}

func TestAllocate_ExhaustedAtExactlyOneHundred(t *testing.T) {
	// base, base1 .. base99 all taken: 100 candidates, all rejected.
	names := make([]string, 0, MaxAttempts)
	names = append(names, "eve")
	for i := 1; i < MaxAttempts; i++ {
		names = append(names, "eve"+strconv.Itoa(i))
	}
	_, err := Allocate(context.Background(), "eve", takenSet(names...))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAllocationExhausted))
}

func TestAllocate_SucceedsOnLastCandidate(t *testing.T) {
	// base .. base98 taken, base99 free.
	names := []string{"eve"}
	for i := 1; i < MaxAttempts-1; i++ {
		names = append(names, "eve"+strconv.Itoa(i))
	}
	res, err := Allocate(context.Background(), "eve", takenSet(names...))
	require.NoError(t, err)
	assert.Equal(t, "eve99", res.Username)
	assert.Equal(t, MaxAttempts-1, res.Attempts)
}

func TestAllocate_PropagatesLookupError(t *testing.T) {
	storeErr := errors.New("dynamo down")
	_, err := Allocate(context.Background(), "john", func(context.Context, string) (bool, error) {
		return false, storeErr
	})
	require.Error(t, err)
	assert.Equal(t, storeErr, err)
}
