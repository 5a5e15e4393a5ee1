package services

import (
	"fmt"
	"strings"

	"github.com/smarttransit/route-booking/internal/models"
	"github.com/smarttransit/route-booking/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthService checks the shared admin password and issues bearer tokens
type AdminAuthService struct {
	passwordHash []byte
	jwtService   *jwt.Service
}

// NewAdminAuthService hashes the configured admin password so it is never
// compared in plain text.
func NewAdminAuthService(password string, bcryptCost int, jwtService *jwt.Service) (*AdminAuthService, error) {
	if password == "" {
		return nil, fmt.Errorf("admin password is required")
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &AdminAuthService{
		passwordHash: hash,
		jwtService:   jwtService,
	}, nil
}

// Login checks the password and returns a bearer token for admin endpoints
func (s *AdminAuthService) Login(password string) (*models.AdminLoginResponse, error) {
	if !s.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.jwtService.GenerateAdminToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate admin token: %w", err)
	}

	return &models.AdminLoginResponse{
		Success:   true,
		Token:     token,
		ExpiresIn: int64(s.jwtService.Expiry().Seconds()),
		Message:   "Admin login successful",
	}, nil
}

// CheckPassword reports whether password is the admin password
func (s *AdminAuthService) CheckPassword(password string) bool {
	password = strings.TrimSpace(password)
	if password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
}

// Authorize accepts a valid bearer token or, for older clients, the password
func (s *AdminAuthService) Authorize(token, password string) error {
	if token != "" {
		if _, err := s.jwtService.ValidateAdminToken(token); err == nil {
			return nil
		}
	}
	if s.CheckPassword(password) {
		return nil
	}
	return ErrInvalidCredentials
}
