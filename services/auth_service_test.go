package services

import (
	"errors"
	"testing"

	"github.com/kendall-kelly/instalacoes-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoginPlainPassword(t *testing.T) {
	svc := NewAuthService(&config.Config{AdminUser: "admin", AdminPass: "s3nha", AuthToken: "token-abc"})

	token, err := svc.Login("admin", "s3nha")
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)

	tests := []struct {
		name string
		user string
		pass string
	}{
		{"wrong password", "admin", "errada"},
		{"wrong user", "root", "s3nha"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(tt.user, tt.pass)
			assert.True(t, errors.Is(err, ErrInvalidCredentials))
		})
	}
}

func TestLoginBcryptPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3nha"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAuthService(&config.Config{AdminUser: "admin", AdminPass: string(hash), AuthToken: "token-abc"})

	token, err := svc.Login("admin", "s3nha")
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)

	_, err = svc.Login("admin", string(hash))
	assert.True(t, errors.Is(err, ErrInvalidCredentials), "the hash itself is not a valid password")
}

func TestLoginDisabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"no user", config.Config{AdminPass: "x", AuthToken: "t"}},
		{"no password", config.Config{AdminUser: "admin", AuthToken: "t"}},
		{"no token", config.Config{AdminUser: "admin", AdminPass: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAuthService(&tt.cfg).Login("admin", "x")
			assert.True(t, errors.Is(err, ErrLoginDisabled))
		})
	}
}
