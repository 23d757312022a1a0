package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	portalapp "github.com/erp/ticketing/internal/application/portal"
	ticketapp "github.com/erp/ticketing/internal/application/ticket"
	"github.com/erp/ticketing/internal/infrastructure/auth"
	"github.com/erp/ticketing/internal/infrastructure/config"
	"github.com/erp/ticketing/internal/interfaces/http/dto"
	"github.com/erp/ticketing/internal/interfaces/http/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTickets records the tenant of the last call and answers with empty results
type stubTickets struct {
	lastTenant uuid.UUID
}

func (s *stubTickets) Create(_ context.Context, tenantID uuid.UUID, _ ticketapp.CreateTicketAutomationRequest) (*ticketapp.TicketAutomationResponse, error) {
	s.lastTenant = tenantID
	return &ticketapp.TicketAutomationResponse{TenantID: tenantID, Name: "Acme-1"}, nil
}

func (s *stubTickets) GetByID(_ context.Context, tenantID, id uuid.UUID) (*ticketapp.TicketAutomationResponse, error) {
	s.lastTenant = tenantID
	return &ticketapp.TicketAutomationResponse{ID: id, TenantID: tenantID}, nil
}

func (s *stubTickets) GetByName(_ context.Context, tenantID uuid.UUID, name string) (*ticketapp.TicketAutomationResponse, error) {
	s.lastTenant = tenantID
	return &ticketapp.TicketAutomationResponse{Name: name}, nil
}

func (s *stubTickets) List(_ context.Context, tenantID uuid.UUID, _ ticketapp.TicketListFilter) ([]ticketapp.TicketAutomationListItemResponse, int64, error) {
	s.lastTenant = tenantID
	return []ticketapp.TicketAutomationListItemResponse{}, 0, nil
}

func (s *stubTickets) Update(_ context.Context, tenantID, id uuid.UUID, _ ticketapp.UpdateTicketAutomationRequest) (*ticketapp.TicketAutomationResponse, error) {
	return &ticketapp.TicketAutomationResponse{ID: id, TenantID: tenantID}, nil
}

func (s *stubTickets) RefreshQuotations(_ context.Context, tenantID, id uuid.UUID) (*ticketapp.TicketAutomationResponse, error) {
	return &ticketapp.TicketAutomationResponse{ID: id, TenantID: tenantID}, nil
}

func (s *stubTickets) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (s *stubTickets) Submit(_ context.Context, tenantID, id uuid.UUID) (*ticketapp.SubmitTicketAutomationResponse, error) {
	return &ticketapp.SubmitTicketAutomationResponse{Ticket: ticketapp.TicketAutomationResponse{ID: id, TenantID: tenantID}}, nil
}

func (s *stubTickets) ListDraftQuotations(_ context.Context, tenantID uuid.UUID, _ string) ([]ticketapp.QuotationSummaryResponse, error) {
	s.lastTenant = tenantID
	return []ticketapp.QuotationSummaryResponse{}, nil
}

type stubPortal struct{}

func (stubPortal) Register(context.Context, uuid.UUID, portalapp.RegisterRequest) *portalapp.PortalResponse {
	return &portalapp.PortalResponse{Status: portalapp.StatusSuccess}
}

func (stubPortal) Login(context.Context, uuid.UUID, portalapp.LoginRequest) *portalapp.PortalResponse {
	return &portalapp.PortalResponse{Status: portalapp.StatusError, Message: portalapp.MsgLoginFailed}
}

func (stubPortal) Refresh(context.Context, portalapp.RefreshRequest) *portalapp.PortalResponse {
	return &portalapp.PortalResponse{Status: portalapp.StatusError}
}

func (stubPortal) Logout(context.Context, *auth.Claims) *portalapp.PortalResponse {
	return &portalapp.PortalResponse{Status: portalapp.StatusSuccess, Message: portalapp.MsgLogoutSuccess}
}

func testConfig(jwtEnabled bool) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "ticketing", DefaultTenant: config.DefaultTenantID},
		JWT: config.JWTConfig{
			Enabled:                jwtEnabled,
			Secret:                 "test-secret-key-at-least-32-chars",
			RefreshSecret:          "test-refresh-secret-key-32-chars",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "erp-ticketing-test",
		},
		HTTP: config.HTTPConfig{
			MaxBodySize:      1 << 20,
			CORSAllowOrigins: []string{"*"},
			AuthRateLimit:    2,
			AuthRateWindow:   time.Minute,
		},
		Swagger: config.SwaggerConfig{Enabled: false},
	}
}

func newTestEngine(cfg *config.Config, tickets *stubTickets) (*auth.JWTService, http.Handler) {
	jwt := auth.NewJWTService(cfg.JWT)
	engine := NewEngine(Dependencies{
		Config:     cfg,
		JWT:        jwt,
		Blacklist:  auth.NewInMemoryTokenBlacklist(),
		Tickets:    tickets,
		Quotations: tickets,
		Portal:     stubPortal{},
		Version:    "test",
	})
	return jwt, engine
}

func request(h http.Handler, method, path, token string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewEngine_TicketRoutesRequireToken(t *testing.T) {
	tickets := &stubTickets{}
	jwt, engine := newTestEngine(testConfig(true), tickets)

	w := request(engine, http.MethodGet, "/api/v1/ticket-automations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	tokenTenant := uuid.New()
	pair, err := jwt.GenerateTokenPair(auth.GenerateTokenInput{TenantID: tokenTenant, UserID: uuid.New(), Email: "jane@example.com"})
	require.NoError(t, err)

	// the header cannot move a token holder to another tenant
	w = request(engine, http.MethodGet, "/api/v1/ticket-automations", pair.AccessToken,
		map[string]string{middleware.TenantHeaderKey: uuid.NewString()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tokenTenant, tickets.lastTenant)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
}

func TestNewEngine_OpenWhenJWTDisabled(t *testing.T) {
	tickets := &stubTickets{}
	_, engine := newTestEngine(testConfig(false), tickets)

	w := request(engine, http.MethodGet, "/api/v1/quotations?customer=Acme", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uuid.MustParse(config.DefaultTenantID), tickets.lastTenant)

	headerTenant := uuid.New()
	w = request(engine, http.MethodGet, "/api/v1/ticket-automations/by-name/Acme-1", "",
		map[string]string{middleware.TenantHeaderKey: headerTenant.String()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, headerTenant, tickets.lastTenant)
}

func TestNewEngine_AuthRoutes(t *testing.T) {
	_, engine := newTestEngine(testConfig(true), &stubTickets{})

	// login is public but rate limited
	assert.Equal(t, http.StatusBadRequest, request(engine, http.MethodPost, "/api/v1/auth/login", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, request(engine, http.MethodPost, "/api/v1/auth/login", "", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, request(engine, http.MethodPost, "/api/v1/auth/login", "", nil).Code)

	// logout needs a token; another tenant header gets a fresh rate limit budget
	w := request(engine, http.MethodPost, "/api/v1/auth/logout", "", map[string]string{middleware.TenantHeaderKey: uuid.NewString()})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNewEngine_SystemRoutes(t *testing.T) {
	_, engine := newTestEngine(testConfig(true), &stubTickets{})

	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, request(engine, http.MethodGet, "/swagger/index.html", "", nil).Code)
}

func TestNewEngine_PrintWithoutRenderer(t *testing.T) {
	_, engine := newTestEngine(testConfig(false), &stubTickets{})

	w := request(engine, http.MethodGet, "/api/v1/ticket-automations/"+uuid.NewString()+"/print", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
