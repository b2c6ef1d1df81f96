package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, expires, err := NewSessionToken("reception", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	username, err := ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "reception", username)
}

func TestSessionTokensAreUnique(t *testing.T) {
	SetJWTSecret("test-secret")

	a, _, err := NewSessionToken("reception", time.Hour)
	require.NoError(t, err)
	b, _, err := NewSessionToken("reception", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestParseSessionTokenRejects(t *testing.T) {
	SetJWTSecret("test-secret")

	expired, _, err := NewSessionToken("reception", -time.Minute)
	require.NoError(t, err)
	_, err = ParseSessionToken(expired)
	assert.Error(t, err)

	signed, _, err := NewSessionToken("reception", time.Hour)
	require.NoError(t, err)
	SetJWTSecret("other-secret")
	_, err = ParseSessionToken(signed)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "reception"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseSessionToken(unsigned)
	assert.Error(t, err)

	_, err = ParseSessionToken("garbage")
	assert.Error(t, err)
}
