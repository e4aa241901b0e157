package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret        = "test-secret"
	testRefreshSecret = "test-refresh-secret"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "satoshi", testSecret, 15)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "satoshi", claims.Username)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "satoshi", testSecret, 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(42, "satoshi", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(42, "token-id-1", testRefreshSecret, 7)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, testRefreshSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "token-id-1", claims.TokenID)
}

func TestTokenTypeMismatch(t *testing.T) {
	// An access token validated as a refresh token carries no TokenID.
	access, err := GenerateAccessToken(42, "satoshi", testSecret, 15)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(access, testSecret)
	require.NoError(t, err)
	assert.Empty(t, claims.TokenID)
}

func TestValidateGarbage(t *testing.T) {
	_, err := ValidateAccessToken("not.a.jwt", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ValidateRefreshToken("", testRefreshSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGetExpiryTime(t *testing.T) {
	expiry := GetExpiryTime(7)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiry, time.Minute)
}
