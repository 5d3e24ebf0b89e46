package services

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/security"
)

// AuthService validates the admin password and issues admin JWTs.
type AuthService struct {
	passwordHash string
	jwtSecret    string
	tokenTTL     time.Duration
	logger       *logging.ChanneledLogger
}

// NewAuthService creates a new auth service. passwordHash is the bcrypt hash
// of the admin password.
func NewAuthService(passwordHash, jwtSecret string, tokenTTL time.Duration, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
		logger:       logger,
	}
}

// Login verifies the admin password and returns a signed token.
func (s *AuthService) Login(password string) (string, error) {
	if s.passwordHash == "" {
		return "", fmt.Errorf("admin authentication is not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		s.logger.Auth().Warn("Admin login rejected", "reason", "password mismatch")
		return "", fmt.Errorf("invalid credentials")
	}

	token, err := security.GenerateAdminToken("admin", s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate admin token: %w", err)
	}
	s.logger.Auth().Info("Admin login succeeded", "tokenTTL", s.tokenTTL)
	return token, nil
}

// ValidateToken checks a presented admin token and returns its role claim.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	claims, err := security.ValidateJWT(tokenString, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("invalid admin token: %w", err)
	}
	role, _ := claims["role"].(string)
	if role == "" {
		return "", fmt.Errorf("admin token carries no role")
	}
	return role, nil
}
