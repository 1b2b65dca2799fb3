package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kashvi-shop/config"
	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
)

func testIssuer() *auth.Issuer {
	return auth.NewIssuer(config.AuthConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
	})
}

func TestIssuePair_RoundTrip(t *testing.T) {
	iss := testIssuer()
	pair, err := iss.IssuePair("65a1f0c2e4b0a1b2c3d4e5f6", "buyer@example.com")
	require.NoError(t, err)

	access, err := iss.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e5f6", access.UserID)
	assert.Equal(t, "buyer@example.com", access.Email)
	assert.Equal(t, config.DefaultAccessTokenTTL, access.ExpiresAt.Sub(access.IssuedAt.Time))

	refresh, err := iss.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultRefreshTokenTTL, refresh.ExpiresAt.Sub(refresh.IssuedAt.Time))
}

func TestSecretsAreNotInterchangeable(t *testing.T) {
	iss := testIssuer()
	pair, err := iss.IssuePair("u1", "a@b.co")
	require.NoError(t, err)

	_, err = iss.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = iss.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	iss := testIssuer().WithClock(func() time.Time { return issuedAt })
	pair, err := iss.IssuePair("u1", "a@b.co")
	require.NoError(t, err)

	later := iss.WithClock(func() time.Time { return issuedAt.Add(8 * 24 * time.Hour) })
	_, err = later.ParseRefresh(pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)

	_, err = later.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestRejectsOtherAlgorithms(t *testing.T) {
	claims := auth.Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = testIssuer().ParseAccess(unsigned)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("secret123", config.DefaultBcryptCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, auth.CheckPassword(hash, "secret123"))
	assert.False(t, auth.CheckPassword(hash, "secret124"))
}

func TestPrincipalContext(t *testing.T) {
	_, ok := auth.PrincipalFrom(context.Background())
	assert.False(t, ok)

	ctx := auth.WithPrincipal(context.Background(), auth.Principal{UserID: "u1", Roles: []string{"admin"}})
	p, ok := auth.PrincipalFrom(ctx)
	require.True(t, ok)
	assert.True(t, p.HasRole("admin"))
	assert.False(t, p.HasRole("user"))
}
