package services

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/security"
	"github.com/Izzycode820/huzilerz-go/pkg/config"
)

// AuthResult is returned by sysop authentication.
type AuthResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SysopService guards the operator surface: password check, short-lived JWT.
type SysopService struct {
	logger *logging.ChanneledLogger
}

func NewSysopService(logger *logging.ChanneledLogger) *SysopService {
	return &SysopService{logger: logger}
}

// Authenticate checks the operator password and issues a session token.
// SYSOP_PASSWORD may hold a bcrypt hash or, for development, the plain value.
func (s *SysopService) Authenticate(password string) AuthResult {
	configured := config.SysopPassword
	if configured == "" {
		return AuthResult{Success: false, Error: "sysop access not configured"}
	}

	if !passwordMatches(configured, password) {
		s.logger.Auth().Warn("Sysop authentication failed")
		return AuthResult{Success: false, Error: "invalid credentials"}
	}

	token, err := security.GenerateSysopToken(config.JWTSecret)
	if err != nil {
		s.logger.Auth().Error("Sysop token generation failed", "error", err)
		return AuthResult{Success: false, Error: "token generation failed"}
	}

	s.logger.Auth().Info("Sysop authenticated")
	return AuthResult{Success: true, Token: token}
}

// ValidateToken checks a sysop JWT.
func (s *SysopService) ValidateToken(token string) bool {
	claims, err := security.ValidateJWT(token, config.JWTSecret)
	if err != nil {
		return false
	}
	return claims["type"] == "sysop_auth"
}

func passwordMatches(configured, candidate string) bool {
	if strings.HasPrefix(configured, "$2a$") || strings.HasPrefix(configured, "$2b$") || strings.HasPrefix(configured, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(candidate)) == 1
}
