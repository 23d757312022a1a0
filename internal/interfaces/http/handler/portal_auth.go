package handler

import (
	"context"
	"net/http"

	portalapp "github.com/erp/ticketing/internal/application/portal"
	"github.com/erp/ticketing/internal/infrastructure/auth"
	"github.com/erp/ticketing/internal/interfaces/http/dto"
	"github.com/erp/ticketing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PortalService is the customer website account flow
type PortalService interface {
	Register(ctx context.Context, tenantID uuid.UUID, req portalapp.RegisterRequest) *portalapp.PortalResponse
	Login(ctx context.Context, tenantID uuid.UUID, req portalapp.LoginRequest) *portalapp.PortalResponse
	Refresh(ctx context.Context, req portalapp.RefreshRequest) *portalapp.PortalResponse
	Logout(ctx context.Context, claims *auth.Claims) *portalapp.PortalResponse
}

var _ PortalService = (*portalapp.PortalService)(nil)

// PortalAuthHandler handles the customer portal's sign-up and session endpoints.
// The body always carries the portal status payload so the website can show its message.
type PortalAuthHandler struct {
	BaseHandler
	portal PortalService
}

// NewPortalAuthHandler creates a PortalAuthHandler
func NewPortalAuthHandler(portal PortalService) *PortalAuthHandler {
	return &PortalAuthHandler{portal: portal}
}

// respond maps the portal status to HTTP: exists is 409, error uses failStatus
func (h *PortalAuthHandler) respond(c *gin.Context, resp *portalapp.PortalResponse, okStatus, failStatus int) {
	status := okStatus
	switch resp.Status {
	case portalapp.StatusExists:
		status = http.StatusConflict
	case portalapp.StatusError:
		status = failStatus
	}
	c.JSON(status, dto.Response{Success: resp.IsSuccess(), Data: resp})
}

// Register godoc
// @ID           registerPortalUser
// @Summary      Register a website customer
// @Description  Creates the website user, its Customer and optionally a billing address linked to it.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body portalapp.RegisterRequest true "Sign-up form"
// @Success      201 {object} APIResponse[portalapp.PortalResponse]
// @Failure      400 {object} APIResponse[portalapp.PortalResponse]
// @Failure      409 {object} APIResponse[portalapp.PortalResponse]
// @Router       /auth/register [post]
func (h *PortalAuthHandler) Register(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant identification required")
		return
	}

	var req portalapp.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	h.respond(c, h.portal.Register(c.Request.Context(), tenantID, req), http.StatusCreated, http.StatusBadRequest)
}

// Login godoc
// @ID           loginPortalUser
// @Summary      Log a website customer in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body portalapp.LoginRequest true "Credentials"
// @Success      200 {object} APIResponse[portalapp.PortalResponse]
// @Failure      401 {object} APIResponse[portalapp.PortalResponse]
// @Failure      429 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *PortalAuthHandler) Login(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant identification required")
		return
	}

	var req portalapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	h.respond(c, h.portal.Login(c.Request.Context(), tenantID, req), http.StatusOK, http.StatusUnauthorized)
}

// Refresh godoc
// @ID           refreshPortalSession
// @Summary      Refresh a portal session
// @Description  Exchanges a refresh token for a new pair. Each refresh token works once.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body portalapp.RefreshRequest true "Refresh token"
// @Success      200 {object} APIResponse[portalapp.PortalResponse]
// @Failure      401 {object} APIResponse[portalapp.PortalResponse]
// @Router       /auth/refresh [post]
func (h *PortalAuthHandler) Refresh(c *gin.Context) {
	var req portalapp.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	h.respond(c, h.portal.Refresh(c.Request.Context(), req), http.StatusOK, http.StatusUnauthorized)
}

// Logout godoc
// @ID           logoutPortalUser
// @Summary      Log out
// @Description  Revokes the current access token.
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[portalapp.PortalResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *PortalAuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	h.respond(c, h.portal.Logout(c.Request.Context(), claims), http.StatusOK, http.StatusOK)
}
