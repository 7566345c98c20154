package jwtmw

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// EnvKeyJWTSecret はJWT署名鍵を保持する環境変数名です。
	EnvKeyJWTSecret = "JWT_SECRET"
	// DefaultExpiration はアクセストークンのデフォルト有効期間です。
	DefaultExpiration = 24 * time.Hour
)

// Generator defines the interface for JWT token generation.
type Generator interface {
	// GenerateToken creates a signed JWT token for the given user.
	GenerateToken(userID string, email string) (string, error)
}

// generator implements the Generator interface.
type generator struct {
	secret     []byte
	expiration time.Duration
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// NewGeneratorFromEnv builds a generator from JWT_SECRET with the default expiration.
func NewGeneratorFromEnv() *generator {
	return NewGenerator(os.Getenv(EnvKeyJWTSecret), DefaultExpiration)
}

// GenerateToken creates a signed JWT token with standard claims.
// The subject is the user's opaque public id.
func (g *generator) GenerateToken(userID string, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"exp":   now.Add(g.expiration).Unix(),
		"iat":   now.Unix(),
		"email": email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
