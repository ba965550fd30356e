package services

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/kendall-kelly/instalacoes-api/config"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the admin login does not match
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrLoginDisabled is returned when no admin account is configured
var ErrLoginDisabled = errors.New("admin login is not configured")

// AuthService checks the single configured admin account
type AuthService struct {
	user  string
	pass  string
	token string
}

// NewAuthService creates an auth service from the admin settings of cfg
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		user:  cfg.AdminUser,
		pass:  cfg.AdminPass,
		token: cfg.AuthToken,
	}
}

// Login returns the shared API token when username and password match the
// admin account. ADMIN_PASS may hold a bcrypt hash or the plain password.
func (s *AuthService) Login(username, password string) (string, error) {
	if s.user == "" || s.pass == "" || s.token == "" {
		return "", ErrLoginDisabled
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.user)) == 1
	passOK := s.checkPassword(password)
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}
	return s.token, nil
}

func (s *AuthService) checkPassword(password string) bool {
	if isBcryptHash(s.pass) {
		return bcrypt.CompareHashAndPassword([]byte(s.pass), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.pass)) == 1
}

func isBcryptHash(v string) bool {
	return len(v) == 60 && (strings.HasPrefix(v, "$2a$") || strings.HasPrefix(v, "$2b$") || strings.HasPrefix(v, "$2y$"))
}
