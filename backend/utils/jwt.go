package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid session token")

// GenerateSessionToken mints the signed token that identifies the portal's
// session against the backend.
func GenerateSessionToken(userID uint, secret string, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     issuedAt.Unix(),
		"exp":     expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken verifies the signature and returns the token's identity
// and validity window. Expiry is left to the caller so it can apply its own
// clock.
func ParseSessionToken(tokenString, secret string) (userID uint, issuedAt, expiresAt time.Time, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return 0, time.Time{}, time.Time{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, time.Time{}, time.Time{}, ErrInvalidToken
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, time.Time{}, time.Time{}, ErrInvalidToken
	}
	iat, ok := claims["iat"].(float64)
	if !ok {
		return 0, time.Time{}, time.Time{}, ErrInvalidToken
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return 0, time.Time{}, time.Time{}, ErrInvalidToken
	}

	return uint(userIDFloat), time.Unix(int64(iat), 0), time.Unix(int64(exp), 0), nil
}
