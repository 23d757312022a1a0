package middleware

import (
	"net/http"

	"github.com/erp/ticketing/internal/infrastructure/logger"
	"github.com/erp/ticketing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tenant context keys
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantConfig configures Tenant
type TenantConfig struct {
	// Default is used when neither the token nor the header names a tenant
	Default uuid.UUID
	Logger  *zap.Logger
}

// Tenant resolves the tenant of a request.
// Order: JWT tenant_id claim, then the X-Tenant-ID header, then the configured default.
// A token's tenant always wins over the header.
func Tenant(cfg TenantConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		raw, source := GetJWTTenantID(c), "jwt"
		if raw == "" {
			raw, source = c.GetHeader(TenantHeaderKey), "header"
		}

		tenantID := cfg.Default
		if raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeBadRequest, "Invalid tenant ID format", GetRequestID(c)))
				return
			}
			tenantID = parsed
		} else {
			source = "default"
		}

		if tenantID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Tenant identification required", GetRequestID(c)))
			return
		}

		c.Set(TenantIDKey, tenantID)
		ctx := logger.WithTenantID(c.Request.Context(), tenantID.String())
		c.Request = c.Request.WithContext(ctx)

		log.Debug("Tenant resolved", zap.String("tenant_id", tenantID.String()), zap.String("source", source))
		c.Next()
	}
}

// GetTenantID returns the tenant resolved by Tenant, or uuid.Nil
func GetTenantID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(TenantIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
