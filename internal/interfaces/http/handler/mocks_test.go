package handler

import (
	"context"

	portalapp "github.com/erp/ticketing/internal/application/portal"
	ticketapp "github.com/erp/ticketing/internal/application/ticket"
	"github.com/erp/ticketing/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) Create(ctx context.Context, tenantID uuid.UUID, req ticketapp.CreateTicketAutomationRequest) (*ticketapp.TicketAutomationResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketapp.TicketAutomationResponse), args.Error(1)
}

func (m *MockTicketService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ticketapp.TicketAutomationResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketapp.TicketAutomationResponse), args.Error(1)
}

func (m *MockTicketService) GetByName(ctx context.Context, tenantID uuid.UUID, name string) (*ticketapp.TicketAutomationResponse, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketapp.TicketAutomationResponse), args.Error(1)
}

func (m *MockTicketService) List(ctx context.Context, tenantID uuid.UUID, filter ticketapp.TicketListFilter) ([]ticketapp.TicketAutomationListItemResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]ticketapp.TicketAutomationListItemResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockTicketService) Update(ctx context.Context, tenantID, id uuid.UUID, req ticketapp.UpdateTicketAutomationRequest) (*ticketapp.TicketAutomationResponse, error) {
	args := m.Called(ctx, tenantID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketapp.TicketAutomationResponse), args.Error(1)
}

func (m *MockTicketService) RefreshQuotations(ctx context.Context, tenantID, id uuid.UUID) (*ticketapp.TicketAutomationResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketapp.TicketAutomationResponse), args.Error(1)
}

func (m *MockTicketService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockTicketService) Submit(ctx context.Context, tenantID, id uuid.UUID) (*ticketapp.SubmitTicketAutomationResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketapp.SubmitTicketAutomationResponse), args.Error(1)
}

func (m *MockTicketService) ListDraftQuotations(ctx context.Context, tenantID uuid.UUID, customer string) ([]ticketapp.QuotationSummaryResponse, error) {
	args := m.Called(ctx, tenantID, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ticketapp.QuotationSummaryResponse), args.Error(1)
}

type MockTicketPrinter struct {
	mock.Mock
}

func (m *MockTicketPrinter) Print(ctx context.Context, tenantID, id uuid.UUID, format string) (*ticketapp.PrintResult, error) {
	args := m.Called(ctx, tenantID, id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticketapp.PrintResult), args.Error(1)
}

func (m *MockTicketPrinter) Archive(ctx context.Context, tenantID, id uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID, id)
	return args.String(0), args.Error(1)
}

type MockPortalService struct {
	mock.Mock
}

func (m *MockPortalService) Register(ctx context.Context, tenantID uuid.UUID, req portalapp.RegisterRequest) *portalapp.PortalResponse {
	return m.Called(ctx, tenantID, req).Get(0).(*portalapp.PortalResponse)
}

func (m *MockPortalService) Login(ctx context.Context, tenantID uuid.UUID, req portalapp.LoginRequest) *portalapp.PortalResponse {
	return m.Called(ctx, tenantID, req).Get(0).(*portalapp.PortalResponse)
}

func (m *MockPortalService) Refresh(ctx context.Context, req portalapp.RefreshRequest) *portalapp.PortalResponse {
	return m.Called(ctx, req).Get(0).(*portalapp.PortalResponse)
}

func (m *MockPortalService) Logout(ctx context.Context, claims *auth.Claims) *portalapp.PortalResponse {
	return m.Called(ctx, claims).Get(0).(*portalapp.PortalResponse)
}
