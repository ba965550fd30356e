package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/instalacoes-api/config"
)

// RequireToken rejects requests whose Authorization header is not
// "Bearer <AUTH_TOKEN>". With no token configured every request is rejected.
func RequireToken(cfg *config.Config) gin.HandlerFunc {
	expected := []byte(cfg.AuthToken)

	return func(c *gin.Context) {
		token, err := GetBearerToken(c)
		valid := err == nil && len(expected) > 0 && subtle.ConstantTimeCompare([]byte(token), expected) == 1

		if !valid {
			RequestLogger(c).WithField("path", c.FullPath()).Warn("Rejected write request without a valid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Token inválido ou ausente",
				},
			})
			return
		}

		c.Next()
	}
}

// GetBearerToken extracts the token from an "Authorization: Bearer <token>" header
func GetBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", &AuthError{Code: "MISSING_TOKEN", Message: "Authorization header not found"}
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", &AuthError{Code: "INVALID_AUTH_HEADER", Message: "Authorization header must be 'Bearer <token>'"}
	}
	return strings.TrimSpace(token), nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
