package middleware

import (
	"context"
	"strings"

	"github.com/erp/ticketing/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Profiling attaches pyroscope labels (method, route, controller, tenant) to the
// samples taken while the handler runs. Place it after Tenant.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || strings.HasPrefix(route, "/swagger") || route == "/health" {
			c.Next()
			return
		}

		labels := map[string]string{
			"method":     c.Request.Method,
			"route":      route,
			"controller": controllerFromRoute(route),
		}
		if tenantID := GetTenantID(c); tenantID != uuid.Nil {
			labels["tenant_id"] = tenantID.String()
		}

		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// controllerFromRoute returns the first resource segment: /api/v1/ticket-automations/:id -> ticket-automations
func controllerFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) || strings.HasPrefix(part, ":") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
