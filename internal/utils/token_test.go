package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec("test-secret", 15, 7)
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	codec := newTestCodec()

	for _, kind := range []TokenKind{KindAccess, KindRefresh} {
		raw, exp, err := codec.Issue("alice@example.com", "USER", kind)
		require.NoError(t, err)
		require.NotEmpty(t, raw)
		require.True(t, exp.After(time.Now()))

		subject, role, err := codec.Verify(raw, kind)
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", subject)
		require.Equal(t, "USER", role)
	}
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	codec := newTestCodec()

	refresh, _, err := codec.Issue("alice@example.com", "USER", KindRefresh)
	require.NoError(t, err)

	_, _, err = codec.Verify(refresh, KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)

	access, _, err := codec.Issue("alice@example.com", "USER", KindAccess)
	require.NoError(t, err)

	_, _, err = codec.Verify(access, KindRefresh)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	// Negative TTLs produce tokens that are already expired.
	codec := NewTokenCodec("test-secret", -1, -1)

	raw, _, err := codec.Issue("alice@example.com", "USER", KindAccess)
	require.NoError(t, err)

	_, _, err = codec.Verify(raw, KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForgedSignature(t *testing.T) {
	codec := newTestCodec()
	other := NewTokenCodec("another-secret", 15, 7)

	raw, _, err := other.Issue("alice@example.com", "USER", KindAccess)
	require.NoError(t, err)

	_, _, err = codec.Verify(raw, KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	codec := newTestCodec()

	raw, _, err := codec.Issue("alice@example.com", "USER", KindAccess)
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, _, err = codec.Verify(tampered, KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	codec := newTestCodec()

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, _, err := codec.Verify(raw, KindAccess)
		require.ErrorIs(t, err, ErrInvalidToken, "input %q", raw)
	}
}
