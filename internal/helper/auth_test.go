package helper

import (
	"testing"
	"time"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := SetupAuth("secret", time.Hour)

	token, err := auth.GenerateToken("buyer@example.com")
	require.NoError(t, err)

	identity, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", identity.Email)
	assert.InDelta(t, identity.Iat+time.Hour.Seconds(), identity.Expiry, 1)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := SetupAuth("secret", time.Hour).GenerateToken("buyer@example.com")
	require.NoError(t, err)

	_, err = SetupAuth("other", time.Hour).VerifyToken(token)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyTokenExpired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Email: "buyer@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
	})
	raw, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = SetupAuth("secret", time.Hour).VerifyToken(raw)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyTokenRejectsMissingExpiry(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{Email: "buyer@example.com"})
	raw, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = SetupAuth("secret", time.Hour).VerifyToken(raw)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyTokenRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, accessClaims{
		Email: "buyer@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = SetupAuth("secret", time.Hour).VerifyToken(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestEmptyTokenIsUnauthenticated(t *testing.T) {
	_, err := SetupAuth("secret", 0).VerifyToken("  ")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestGenerateTokenRequiresEmail(t *testing.T) {
	_, err := SetupAuth("secret", 0).GenerateToken("")
	assert.Error(t, err)
}
