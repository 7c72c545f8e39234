package services

import (
	"fmt"
	"time"

	"socialnet/internal/models"

	"github.com/dgrijalva/jwt-go"
)

// Claims are the verified identity claims embedded in a session token.
type Claims struct {
	UserID string
	Email  string
}

// TokenService issues and verifies signed bearer tokens. The signing
// secret is fixed at construction; rotating it invalidates every
// outstanding token, which is the only revocation mechanism besides
// expiry.
type TokenService struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret:   []byte(secret),
		tokenTTL: 20 * 24 * time.Hour, // tokens valid for 20 days
	}
}

// Issue produces a signed token binding the user id and email.
func (s *TokenService) Issue(userID, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify parses and validates a token, returning its claims. Any
// structural, signature or expiry failure surfaces as an auth error.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, models.NewAuthError("invalid or expired token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, models.NewAuthError("invalid or expired token", nil)
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" {
		return nil, models.NewAuthError("invalid or expired token", nil)
	}
	return &Claims{UserID: sub, Email: email}, nil
}
