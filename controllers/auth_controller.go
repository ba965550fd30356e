package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/instalacoes-api/config"
	"github.com/kendall-kelly/instalacoes-api/middleware"
	"github.com/kendall-kelly/instalacoes-api/services"
)

// LoginRequest represents the request body for the admin login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login - exchanges the admin credentials for
// the API token expected by the write endpoints
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	cfg := config.GetConfig()
	if cfg == nil {
		respondError(c, http.StatusServiceUnavailable, "LOGIN_DISABLED", "Login is not configured")
		return
	}

	token, err := services.NewAuthService(cfg).Login(req.Username, req.Password)
	switch {
	case errors.Is(err, services.ErrLoginDisabled):
		middleware.RequestLogger(c).Warn("Login attempted but ADMIN_USER, ADMIN_PASS or AUTH_TOKEN is not set")
		respondError(c, http.StatusServiceUnavailable, "LOGIN_DISABLED", "Login is not configured")
		return
	case err != nil:
		middleware.RequestLogger(c).WithField("username", req.Username).Warn("Failed login attempt")
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Credenciais inválidas")
		return
	}

	respondData(c, http.StatusOK, gin.H{"token": token})
}
