package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	require.True(t, VerifyPassword(hash, "s3cret-pass"))
	require.False(t, VerifyPassword(hash, "wrong-pass"))
}

func TestVerifyPasswordFailsClosed(t *testing.T) {
	// A malformed digest must read as a mismatch, never a panic or a match.
	require.False(t, VerifyPassword("not-a-bcrypt-digest", "anything"))
	require.False(t, VerifyPassword("", ""))
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	a, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
