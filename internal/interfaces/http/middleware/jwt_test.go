package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/ticketing/internal/infrastructure/auth"
	"github.com/erp/ticketing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter(cfg JWTConfig) *gin.Engine {
	r := gin.New()
	r.Use(JWTAuth(cfg))
	r.GET("/tickets", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		c.JSON(http.StatusOK, gin.H{"user": GetJWTUserID(c), "tenant": GetJWTTenantID(c), "email": claims.Email})
	})
	return r
}

func issue(t *testing.T, svc *auth.JWTService) (*auth.TokenPair, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Email:    "jane@example.com",
		Roles:    []string{"Customer"},
	}
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair, input
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	pair, input := issue(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/tickets", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	rec := httptest.NewRecorder()
	protectedRouter(JWTConfig{JWTService: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), input.UserID.String())
	assert.Contains(t, rec.Body.String(), input.TenantID.String())
	assert.Contains(t, rec.Body.String(), "jane@example.com")
}

func TestJWTAuth_Rejections(t *testing.T) {
	svc := newTestJWTService()
	pair, _ := issue(t, svc)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"basic scheme", "Basic abc", dto.ErrCodeUnauthorized},
		{"empty bearer", "Bearer ", dto.ErrCodeUnauthorized},
		{"garbage token", "Bearer not-a-jwt", dto.ErrCodeTokenInvalid},
		{"refresh token used as access", "Bearer " + pair.RefreshToken, dto.ErrCodeTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tickets", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			rec := httptest.NewRecorder()
			protectedRouter(JWTConfig{JWTService: svc}).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	svc := newTestJWTService()
	pair, _ := issue(t, svc)
	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	blacklist := auth.NewInMemoryTokenBlacklist()
	require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/tickets", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	rec := httptest.NewRecorder()
	protectedRouter(JWTConfig{JWTService: svc, Blacklist: blacklist}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, decodeError(t, rec).Code)
}

func TestOptionalJWTAuth(t *testing.T) {
	svc := newTestJWTService()
	pair, input := issue(t, svc)

	r := gin.New()
	r.Use(OptionalJWTAuth(svc))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetJWTUserID(c)) })

	t.Run("anonymous passes through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("invalid token is ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(AuthHeaderKey, "Bearer nope")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("valid token populates claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, input.UserID.String(), rec.Body.String())
	})
}
