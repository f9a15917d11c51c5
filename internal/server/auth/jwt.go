// Package auth implements the credential primitives of the server:
// signed session tokens and password hashing.
package auth

import (
	"time"

	"github.com/dkarpov/tasktrack/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken issues an HS256-signed token whose subject is the given user
// identifier and whose expiry is validityDuration from now.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken validates the signature and expiry of tokenString and
// returns its subject. Malformed, forged and expired tokens all collapse to
// common.ErrorInvalidToken; callers never learn which check failed.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", common.ErrorInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrorInvalidToken
	}

	return claims.Subject, nil
}
