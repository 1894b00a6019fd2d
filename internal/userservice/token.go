package userservice

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken means the token is missing, malformed, expired, or its
	// signature does not verify.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrMissingIdentity means the token verifies but carries no usable
	// subject claim.
	ErrMissingIdentity = errors.New("token carries no identity")
)

func signToken(userID int, secret []byte, ttl time.Duration) (string, time.Time, error) {
	expiry := time.Now().Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiry, nil
}

// verifyToken checks the signature and expiry of a bearer token and resolves
// it to the user id in its subject claim.
func verifyToken(tokenString string, secret []byte) (int, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, ErrMissingIdentity
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil || id < 1 {
		return 0, ErrMissingIdentity
	}

	return id, nil
}
