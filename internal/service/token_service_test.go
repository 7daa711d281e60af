package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/service"
)

const testSecret = "test-session-secret"

func TestTokenService_RoundTrip(t *testing.T) {
	svc := service.NewTokenService(testSecret)
	expiry := time.Now().Add(time.Hour)

	tokenString, err := svc.GenerateToken("sess-123", expiry)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "sess-123", claims.SessionID)
	assert.Equal(t, "line-profile-viewer", claims.Issuer)
	assert.WithinDuration(t, expiry, claims.ExpiresAt.Time, time.Second)
}

func TestTokenService_GenerateToken_EmptySessionID(t *testing.T) {
	_, err := service.NewTokenService(testSecret).GenerateToken("", time.Now().Add(time.Hour))
	assert.Error(t, err)
}

func TestTokenService_ValidateToken(t *testing.T) {
	svc := service.NewTokenService(testSecret)

	t.Run("WrongSecret", func(t *testing.T) {
		tokenString, err := service.NewTokenService("other-secret").GenerateToken("sess-123", time.Now().Add(time.Hour))
		require.NoError(t, err)

		_, err = svc.ValidateToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		tokenString, err := svc.GenerateToken("sess-123", time.Now().Add(-time.Minute))
		require.NoError(t, err)

		_, err = svc.ValidateToken(tokenString)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("WrongAlgorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS512, service.SessionClaims{
			SessionID: "sess-123",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "line-profile-viewer",
				Audience:  jwt.ClaimStrings{"line-profile-viewer-web"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		tokenString, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.ValidateToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("MissingSessionID", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, service.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "line-profile-viewer",
				Audience:  jwt.ClaimStrings{"line-profile-viewer-web"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		tokenString, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.ValidateToken(tokenString)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing sid")
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-jwt")
		assert.Error(t, err)
	})
}
