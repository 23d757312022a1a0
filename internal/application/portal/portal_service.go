// Package portal implements website registration and login for customers.
package portal

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/ticketing/internal/domain/portal"
	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/erp/ticketing/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PortalService registers website customers and opens their sessions.
// Failures are reported through the response status, never as errors.
type PortalService struct {
	users      portal.UserRepository
	store      portal.RegistrationStore
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewPortalService creates a new PortalService
func NewPortalService(
	users portal.UserRepository,
	store portal.RegistrationStore,
	jwtService *auth.JWTService,
	logger *zap.Logger,
) *PortalService {
	return &PortalService{
		users:      users,
		store:      store,
		jwtService: jwtService,
		logger:     logger,
	}
}

// SetTokenBlacklist enables logout by token revocation
func (s *PortalService) SetTokenBlacklist(blacklist auth.TokenBlacklist) {
	s.blacklist = blacklist
}

// Register creates the website user, its customer and address in one transaction
func (s *PortalService) Register(ctx context.Context, tenantID uuid.UUID, req RegisterRequest) *PortalResponse {
	exists, err := s.users.ExistsByEmail(ctx, tenantID, req.Email)
	if err != nil {
		s.logger.Error("Customer registration failed", zap.String("email", req.Email), zap.Error(err))
		return errorResponse(MsgRegistrationFailed + err.Error())
	}
	if exists {
		return existsResponse()
	}

	user, customer, address, err := buildRegistration(tenantID, req)
	if err != nil {
		s.logger.Warn("Customer registration rejected", zap.String("email", req.Email), zap.Error(err))
		return errorResponse(MsgRegistrationFailed + err.Error())
	}

	if err := s.store.CreateRegistration(ctx, user, customer, address); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return existsResponse()
		}
		s.logger.Error("Customer registration failed", zap.String("email", req.Email), zap.Error(err))
		return errorResponse(MsgRegistrationFailed + err.Error())
	}

	s.logger.Info("Customer registered",
		zap.String("email", user.Email),
		zap.String("customer", customer.CustomerName),
		zap.String("customer_type", string(customer.CustomerType)),
	)
	return &PortalResponse{
		Status:   StatusSuccess,
		Message:  MsgRegistrationSuccess,
		Email:    user.Email,
		Customer: customer.CustomerName,
	}
}

func buildRegistration(tenantID uuid.UUID, req RegisterRequest) (*portal.User, *portal.Customer, *portal.Address, error) {
	user, err := portal.NewWebsiteUser(tenantID, req.Email, req.Password, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		return nil, nil, nil, err
	}
	user.AssignRole(portal.RoleCustomer)

	customer, err := portal.NewRegisteredCustomer(tenantID, req.CompanyName, req.FirstName, req.LastName, user.Email, req.Phone)
	if err != nil {
		return nil, nil, nil, err
	}

	// the address block of the form is optional as a whole
	if strings.TrimSpace(req.AddressLine1+req.AddressLine2+req.City+req.PostalCode+req.Country) == "" {
		return user, customer, nil, nil
	}
	address, err := portal.NewCustomerAddress(tenantID, customer, user, portal.AddressInput{
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Phone:        req.Phone,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return user, customer, address, nil
}

func existsResponse() *PortalResponse {
	return &PortalResponse{Status: StatusExists, Message: MsgUserExists, Redirect: RedirectLogin}
}

// Login authenticates a website user and issues a session
func (s *PortalService) Login(ctx context.Context, tenantID uuid.UUID, req LoginRequest) *PortalResponse {
	user, err := s.users.FindByEmail(ctx, tenantID, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Customer login failed: unknown email", zap.String("email", req.Email))
		} else {
			s.logger.Error("Customer login failed", zap.String("email", req.Email), zap.Error(err))
		}
		return errorResponse(MsgLoginFailed)
	}
	if !user.Enabled || !user.CheckPassword(req.Password) {
		s.logger.Warn("Customer login failed: bad credentials or disabled user", zap.String("email", req.Email))
		return errorResponse(MsgLoginFailed)
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
		Roles:    user.Roles,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return errorResponse(MsgLoginFailed)
	}

	s.logger.Info("Customer logged in", zap.String("email", user.Email), zap.String("user_id", user.ID.String()))
	return &PortalResponse{
		Status:   StatusSuccess,
		Message:  MsgLoginSuccess,
		Redirect: RedirectAfterLogin,
		Email:    user.Email,
		Session:  toSession(pair),
	}
}

// Refresh exchanges a refresh token for a new session, re-reading the user's roles
func (s *PortalService) Refresh(ctx context.Context, req RefreshRequest) *PortalResponse {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token rejected", zap.Error(err))
		return errorResponse(MsgSessionRefreshFailed)
	}
	// a refresh token is single use: consume it before anything else
	if !s.claim(ctx, claims) {
		return errorResponse(MsgSessionRefreshFailed)
	}

	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return errorResponse(MsgSessionRefreshFailed)
	}
	user, err := s.users.FindByEmail(ctx, tenantID, claims.Email)
	if err != nil || !user.Enabled {
		s.logger.Warn("Refresh for unknown or disabled user", zap.String("email", claims.Email))
		return errorResponse(MsgSessionRefreshFailed)
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, user.Roles)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return errorResponse(MsgSessionRefreshFailed)
	}

	return &PortalResponse{
		Status:  StatusSuccess,
		Message: MsgLoginSuccess,
		Email:   user.Email,
		Session: toSession(pair),
	}
}

// Logout revokes the access token of the current session
func (s *PortalService) Logout(ctx context.Context, claims *auth.Claims) *PortalResponse {
	if claims != nil {
		s.revoke(ctx, claims)
	}
	return &PortalResponse{Status: StatusSuccess, Message: MsgLogoutSuccess, Redirect: RedirectLogin}
}

func (s *PortalService) revoke(ctx context.Context, claims *auth.Claims) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("jti", claims.ID), zap.Error(err))
	}
}

// claim revokes the token's jti and reports whether this call was the one that did.
// Unlike the access-token check it fails closed.
func (s *PortalService) claim(ctx context.Context, claims *auth.Claims) bool {
	if s.blacklist == nil {
		return true
	}
	claimed, err := s.blacklist.RevokeIfAbsent(ctx, claims.ID, claims.GetRemainingTTL())
	if err != nil {
		s.logger.Error("Failed to consume refresh token", zap.String("jti", claims.ID), zap.Error(err))
		return false
	}
	if !claimed {
		s.logger.Warn("Refresh token reused", zap.String("jti", claims.ID))
	}
	return claimed
}

func toSession(pair *auth.TokenPair) *Session {
	return &Session{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}
