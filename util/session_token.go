package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// SessionClaims are carried in the signed session cookie.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// NewSessionToken signs a session token for username that expires after ttl.
// Each token gets a random jti so two logins never share a token.
func NewSessionToken(username string, ttl time.Duration) (string, time.Time, error) {
	issued := time.Now().UTC()
	expires := issued.Add(ttl)
	claims := SessionClaims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	}}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(GetJWTSecretByte())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expires, nil
}

// ParseSessionToken verifies the signature and expiry and returns the username.
func ParseSessionToken(tokenString string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return GetJWTSecretByte(), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Subject, nil
}
