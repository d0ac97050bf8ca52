package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("session: invalid token")

// Claims wraps the session id in a signed token so the cookie cannot be forged
// or altered without the server secret.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// SignToken returns an HS256 token for sessionID that expires at expiresAt.
func SignToken(sessionID string, secretKey []byte, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies tokenString and returns the session id it carries.
// Tampered, expired and foreign-algorithm tokens are rejected.
func ParseToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	if !token.Valid || claims.SessionID == "" {
		return "", errInvalidToken
	}

	return claims.SessionID, nil
}
