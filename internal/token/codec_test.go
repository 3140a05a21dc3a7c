package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/session-service/internal/domain"
)

func testUser() domain.User {
	return domain.User{
		ID:       "1",
		Username: "user",
		Email:    "user@example.com",
		Name:     "Admin User",
		Roles:    []string{"user", "admin"},
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	codec := NewCodec("unit-test-secret")

	signed, expiresAt, err := codec.Encode(testUser(), 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, strings.Split(signed, "."), 3)

	claims, err := codec.Decode(signed)
	require.NoError(t, err)
	require.Equal(t, testUser(), claims.User())
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	require.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestEncode_ExpiryIsIssuedAtPlusTTL(t *testing.T) {
	codec := NewCodec("unit-test-secret")

	signed, _, err := codec.Encode(testUser(), 24*time.Hour)
	require.NoError(t, err)

	claims, err := codec.Decode(signed)
	require.NoError(t, err)
	require.Equal(t, int64(86400), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())
}

func TestDecode_Malformed(t *testing.T) {
	codec := NewCodec("unit-test-secret")

	signed, _, err := codec.Encode(testUser(), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "two segments", token: "aaaa.bbbb"},
		{name: "four segments", token: signed + ".extra"},
		{name: "tampered signature", token: signed[:len(signed)-2] + "xx"},
		{name: "undecodable payload", token: "eyJhbGciOiJIUzI1NiJ9.%%%.sig"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.Decode(tc.token)
			require.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestDecode_WrongSecret(t *testing.T) {
	signed, _, err := NewCodec("secret-a").Encode(testUser(), time.Hour)
	require.NoError(t, err)

	_, err = NewCodec("secret-b").Decode(signed)
	require.ErrorIs(t, err, ErrMalformedToken)
}

func TestDecode_ExpiredTokenStillDecodes(t *testing.T) {
	codec := NewCodec("unit-test-secret")

	signed, _, err := codec.Encode(testUser(), -time.Hour)
	require.NoError(t, err)

	claims, err := codec.Decode(signed)
	require.NoError(t, err)
	require.True(t, claims.Expired(time.Now()))
	require.Equal(t, "user", claims.Username)
}

func TestClaims_Expired_BoundaryInSeconds(t *testing.T) {
	codec := NewCodec("unit-test-secret")

	signed, expiresAt, err := codec.Encode(testUser(), time.Hour)
	require.NoError(t, err)

	claims, err := codec.Decode(signed)
	require.NoError(t, err)
	require.False(t, claims.Expired(expiresAt.Add(-time.Second)))
	require.True(t, claims.Expired(expiresAt.Add(time.Second)))
}
