package services

import (
	"context"
	"testing"

	"blocklend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.auth.Register(ctx, &RegisterInput{
		Username: "satoshi",
		Email:    "Satoshi@Example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "satoshi", result.User.Username)
	assert.Equal(t, "satoshi@example.com", result.User.Email)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "S", result.User.AvatarInitials)

	// Registration creates the stats row the lifecycle engine depends on.
	stats, err := env.statsS.GetByUserID(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalBorrowed)
	assert.Zero(t, stats.ActiveLoans)

	// Duplicate username and email are both conflicts.
	_, err = env.auth.Register(ctx, &RegisterInput{
		Username: "satoshi", Email: "other@example.com", Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	_, err = env.auth.Register(ctx, &RegisterInput{
		Username: "nakamoto", Email: "satoshi@example.com", Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	// Short passwords are rejected before hashing.
	_, err = env.auth.Register(ctx, &RegisterInput{
		Username: "short", Email: "short@example.com", Password: "abc",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, &RegisterInput{
		Username: "satoshi", Email: "satoshi@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	result, err := env.auth.Login(ctx, &LoginInput{
		Email: "satoshi@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "satoshi", result.User.Username)

	_, err = env.auth.Login(ctx, &LoginInput{
		Email: "satoshi@example.com", Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Unknown email yields the same error as a bad password.
	_, err = env.auth.Login(ctx, &LoginInput{
		Email: "nobody@example.com", Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestConnectWallet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.auth.ConnectWallet(ctx, &ConnectWalletInput{
		WalletAddress: "0xDEADBEEF1234567890",
	})
	require.NoError(t, err)
	require.NotNil(t, first.User.WalletAddress)
	assert.Equal(t, "0xDEADBEEF1234567890", *first.User.WalletAddress)
	assert.NotEmpty(t, first.AccessToken)

	// Wallet accounts get a stats row like any other registration.
	_, err = env.statsS.GetByUserID(ctx, first.User.ID)
	require.NoError(t, err)

	// Reconnecting the same wallet logs into the same account.
	second, err := env.auth.ConnectWallet(ctx, &ConnectWalletInput{
		WalletAddress: "0xDEADBEEF1234567890",
	})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	_, err = env.auth.ConnectWallet(ctx, &ConnectWalletInput{WalletAddress: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRefreshTokenRotation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(ctx, &RegisterInput{
		Username: "satoshi", Email: "satoshi@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	refreshed, err := env.auth.RefreshToken(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// The old token was revoked by the rotation.
	_, err = env.auth.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	// The new token still works.
	_, err = env.auth.RefreshToken(ctx, refreshed.RefreshToken)
	require.NoError(t, err)

	_, err = env.auth.RefreshToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(ctx, &RegisterInput{
		Username: "satoshi", Email: "satoshi@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, registered.RefreshToken))

	_, err = env.auth.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(ctx, &RegisterInput{
		Username: "satoshi", Email: "satoshi@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	session2, err := env.auth.Login(ctx, &LoginInput{
		Email: "satoshi@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	require.NoError(t, env.auth.LogoutAll(ctx, registered.User.ID))

	_, err = env.auth.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
	_, err = env.auth.RefreshToken(ctx, session2.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
}

func TestValidateAccessToken(t *testing.T) {
	env := newTestEnv(t)

	registered, err := env.auth.Register(context.Background(), &RegisterInput{
		Username: "satoshi", Email: "satoshi@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	claims, err := env.auth.ValidateAccessToken(registered.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, "satoshi", claims.Username)

	_, err = env.auth.ValidateAccessToken("garbage")
	assert.Error(t, err)
}
