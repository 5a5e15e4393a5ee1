package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	AdminToken TokenType = "admin"

	issuer = "route-booking"
)

// Claims represents the JWT claims structure
type Claims struct {
	SessionID uuid.UUID `json:"sid"`
	Role      string    `json:"role"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// Service issues and verifies admin bearer tokens
type Service struct {
	secret string
	expiry time.Duration
	now    func() time.Time
}

// NewService creates a new JWT service
func NewService(secret string, expiry time.Duration) *Service {
	return &Service{
		secret: secret,
		expiry: expiry,
		now:    time.Now,
	}
}

// Expiry returns the lifetime of issued tokens
func (s *Service) Expiry() time.Duration {
	return s.expiry
}

// GenerateAdminToken generates a new admin token and returns it with its expiry
func (s *Service) GenerateAdminToken() (string, time.Time, error) {
	now := s.now()
	sessionID := uuid.New()
	expiresAt := now.Add(s.expiry)
	claims := Claims{
		SessionID: sessionID,
		Role:      "admin",
		TokenType: AdminToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   "admin",
			ID:        sessionID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign admin token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateAdminToken validates and parses an admin token
func (s *Service) ValidateAdminToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.TokenType != AdminToken {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", AdminToken, claims.TokenType)
	}

	return claims, nil
}
