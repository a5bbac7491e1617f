// Package security provides JWT token utilities
package security

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateSysopToken creates a JWT for an authenticated sysop session.
func GenerateSysopToken(jwtSecret string) (string, error) {
	claims := jwt.MapClaims{
		"role": "sysop",
		"type": "sysop_auth",
		"exp":  time.Now().UTC().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().UTC().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// TokenExpiry reads the exp claim from a token WITHOUT verifying its
// signature. Customer session tokens are opaque to the gateway (the commerce
// backend signs them), but when the exp claim is readable a locally-expired
// token can be discarded without a doomed validation round trip.
func TokenExpiry(tokenString string) (time.Time, bool) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return time.Time{}, false
	}

	switch exp := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(exp), 0), true
	case json.Number:
		if v, err := exp.Int64(); err == nil {
			return time.Unix(v, 0), true
		}
	}
	return time.Time{}, false
}
