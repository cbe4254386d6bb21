package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/jrsteele09/squadhub/token"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-backend-key"))
	require.NoError(t, err)
	return raw
}

func TestInspect(t *testing.T) {
	token.NowTimeFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() { token.NowTimeFunc = time.Now })

	t.Run("access token", func(t *testing.T) {
		raw := signed(t, jwt.MapClaims{
			"token_type": "access",
			"user_id":    42,
			"jti":        "abc123",
			"iat":        fixedNow.Add(-time.Minute).Unix(),
			"exp":        fixedNow.Add(5 * time.Minute).Unix(),
		})

		claims, err := token.Inspect(raw)
		require.NoError(t, err)
		require.Equal(t, "access", claims.TokenType)
		require.Equal(t, int64(42), claims.UserID)
		require.Equal(t, "abc123", claims.JTI)
		require.False(t, claims.Expired())
		require.Equal(t, 5*time.Minute, claims.TTL())
	})

	t.Run("expired", func(t *testing.T) {
		raw := signed(t, jwt.MapClaims{"user_id": "7", "exp": fixedNow.Add(-time.Second).Unix()})

		claims, err := token.Inspect(raw)
		require.NoError(t, err)
		require.Equal(t, int64(7), claims.UserID)
		require.True(t, claims.Expired())
		require.Zero(t, claims.TTL())
	})

	t.Run("no exp", func(t *testing.T) {
		claims, err := token.Inspect(signed(t, jwt.MapClaims{"jti": "x"}))
		require.NoError(t, err)
		require.False(t, claims.Expired())
		require.True(t, claims.ExpiresAt.IsZero())
	})

	t.Run("opaque token", func(t *testing.T) {
		_, err := token.Inspect("opaque-token")
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := token.Inspect("  ")
		require.ErrorIs(t, err, apperrors.ErrNoSession)
	})
}
