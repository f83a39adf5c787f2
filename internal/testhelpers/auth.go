package testhelpers

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/middleware"
)

// MintAccessToken signs a short-lived bearer token the service's auth
// middleware will accept.
func (h *TestHelper) MintAccessToken(userID uuid.UUID) string {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"iss": middleware.TokenIssuer,
		"sub": userID.String(),
		"iat": now,
		"exp": now + 15*60,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(h.PrivateKey)
	require.NoError(h.T, err, "Failed to sign test access token")
	return signed
}

// MintExpiredAccessToken signs a token whose exp is already in the past,
// for exercising the middleware's expiry path.
func (h *TestHelper) MintExpiredAccessToken(userID uuid.UUID) string {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"iss": middleware.TokenIssuer,
		"sub": userID.String(),
		"iat": now - 3600,
		"exp": now - 1800,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(h.PrivateKey)
	require.NoError(h.T, err, "Failed to sign expired test token")
	return signed
}
