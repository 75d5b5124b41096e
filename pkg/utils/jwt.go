package utils

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/maheshrc27/threads-gateway/internal/transfer"
)

const (
	StateIssuer = "threads-gateway"
	StateTTL    = 10 * time.Minute
)

var ErrInvalidState = errors.New("invalid oauth state")

// GenerateState signs a short-lived OAuth state token carrying a random nonce.
func GenerateState(secretKey string, ttl time.Duration) (string, error) {
	if secretKey == "" {
		return "", errors.New("secret key is empty")
	}
	nonce, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate state nonce: %w", err)
	}

	now := time.Now()
	claims := transfer.StateClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    StateIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}
	return signed, nil
}

func ValidateState(secretKey, state string) (*transfer.StateClaims, error) {
	if secretKey == "" || state == "" {
		return nil, ErrInvalidState
	}
	token, err := jwt.ParseWithClaims(state, &transfer.StateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(StateIssuer), jwt.WithExpirationRequired())
	if err != nil {
		slog.Debug("oauth state rejected", "error", err)
		return nil, ErrInvalidState
	}

	if claims, ok := token.Claims.(*transfer.StateClaims); ok && token.Valid && claims.Nonce != "" {
		return claims, nil
	}
	return nil, ErrInvalidState
}
