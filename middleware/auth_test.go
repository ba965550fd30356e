package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/instalacoes-api/config"
	"github.com/stretchr/testify/assert"
)

func TestGetBearerToken(t *testing.T) {
	tests := []struct {
		name          string
		authHeader    string
		expectedToken string
		expectedCode  string
	}{
		{"valid bearer token", "Bearer abc123", "abc123", ""},
		{"lower-case scheme", "bearer abc123", "abc123", ""},
		{"missing header", "", "", "MISSING_TOKEN"},
		{"wrong scheme", "Basic abc123", "", "INVALID_AUTH_HEADER"},
		{"no token", "Bearer ", "", "INVALID_AUTH_HEADER"},
		{"no separator", "Bearerabc123", "", "INVALID_AUTH_HEADER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				c.Request.Header.Set("Authorization", tt.authHeader)
			}

			token, err := GetBearerToken(c)
			if tt.expectedCode != "" {
				authErr, ok := err.(*AuthError)
				if assert.True(t, ok, "expected *AuthError, got %T", err) {
					assert.Equal(t, tt.expectedCode, authErr.Code)
				}
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedToken, token)
		})
	}
}

func TestRequireToken(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		authHeader string
		wantStatus int
	}{
		{"matching token", "s3cret", "Bearer s3cret", http.StatusOK},
		{"wrong token", "s3cret", "Bearer other", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"no token configured", "", "Bearer ", http.StatusUnauthorized},
		{"no token configured, any header", "", "Bearer anything", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/api/cidades", RequireToken(&config.Config{AuthToken: tt.configured}), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/cidades", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), `"code":"INVALID_TOKEN"`)
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}
