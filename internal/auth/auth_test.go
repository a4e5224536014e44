package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPassword("s3cret", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.GenerateToken(42)
	require.NoError(t, err)

	claims, err := issuer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	// Every token carries the project_manager role.
	assert.Equal(t, RoleProjectManager, claims.Role)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a").GenerateToken(1)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b").ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := NewTokenIssuer("test-secret")

	router := gin.New()
	router.GET("/protected", Middleware(issuer), func(c *gin.Context) {
		claims := ClaimsFrom(c)
		require.NotNil(t, claims)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "just-a-token", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	t.Run("valid token", func(t *testing.T) {
		token, err := issuer.GenerateToken(7)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":7`)
	})
}
