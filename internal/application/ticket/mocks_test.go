package ticket

import (
	"context"
	"sync"
	"time"

	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockTicketRepository is a mock implementation of TicketAutomationRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ticket.TicketAutomation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.TicketAutomation), args.Error(1)
}

func (m *MockTicketRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*ticket.TicketAutomation, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.TicketAutomation), args.Error(1)
}

func (m *MockTicketRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ticket.TicketAutomation, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]ticket.TicketAutomation), args.Error(1)
}

func (m *MockTicketRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) CountByCustomer(ctx context.Context, tenantID uuid.UUID, customer string) (int64, error) {
	args := m.Called(ctx, tenantID, customer)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, tenantID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketRepository) Save(ctx context.Context, t *ticket.TicketAutomation) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTicketRepository) SaveWithLock(ctx context.Context, t *ticket.TicketAutomation) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTicketRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockGateway is a mock implementation of sales.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListQuotations(ctx context.Context, tenantID uuid.UUID, filter sales.QuotationFilter) ([]sales.QuotationSummary, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.QuotationSummary), args.Error(1)
}

func (m *MockGateway) GetQuotation(ctx context.Context, tenantID uuid.UUID, name string) (*sales.Quotation, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Quotation), args.Error(1)
}

func (m *MockGateway) SubmitQuotation(ctx context.Context, tenantID uuid.UUID, name string) error {
	args := m.Called(ctx, tenantID, name)
	return args.Error(0)
}

func (m *MockGateway) CreateSalesOrder(ctx context.Context, tenantID uuid.UUID, order *sales.SalesOrder) (string, error) {
	args := m.Called(ctx, tenantID, order)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) DefaultAccount(ctx context.Context, tenantID uuid.UUID, modeOfPayment, company string) (string, error) {
	args := m.Called(ctx, tenantID, modeOfPayment, company)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CreatePaymentEntry(ctx context.Context, tenantID uuid.UUID, entry *sales.PaymentEntry) (string, error) {
	args := m.Called(ctx, tenantID, entry)
	return args.String(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return nil
}

// blockingLister answers each call once its release channel is closed
type blockingLister struct {
	mu      sync.Mutex
	answers map[string][]sales.QuotationSummary
	release map[string]chan struct{}
	started chan string
}

func newBlockingLister() *blockingLister {
	return &blockingLister{
		answers: make(map[string][]sales.QuotationSummary),
		release: make(map[string]chan struct{}),
		started: make(chan string, 8),
	}
}

func (l *blockingLister) answer(customer string, list []sales.QuotationSummary) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.answers[customer] = list
	l.release[customer] = make(chan struct{})
}

func (l *blockingLister) unblock(customer string) {
	l.mu.Lock()
	ch := l.release[customer]
	l.mu.Unlock()
	close(ch)
}

func (l *blockingLister) ListQuotations(ctx context.Context, _ uuid.UUID, filter sales.QuotationFilter) ([]sales.QuotationSummary, error) {
	l.mu.Lock()
	ch := l.release[filter.PartyName]
	list := l.answers[filter.PartyName]
	l.mu.Unlock()

	l.started <- filter.PartyName
	select {
	case <-ch:
		return list, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

var (
	testTenantID = uuid.MustParse("0b4e8a4e-2f7b-4a3c-9a51-7d0f1c2e3b4a")
	testToday    = time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
)

// cust01Quotations is the draft quotation list of customer CUST-01
func cust01Quotations() []sales.QuotationSummary {
	return []sales.QuotationSummary{
		{Name: "QTN-0001", GrandTotal: decimal.NewFromInt(100), Status: "Draft", TransactionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "QTN-0002", GrandTotal: decimal.RequireFromString("250.50"), Status: "Draft", TransactionDate: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
}

func draftTicket(customer string) *ticket.TicketAutomation {
	t, err := ticket.NewTicketAutomation(testTenantID, customer, "Acme Ltd", "Cash", "INV-77")
	if err != nil {
		panic(err)
	}
	return t
}

// namedTicket is a saved draft of CUST-01 with both quotations in its table
func namedTicket() *ticket.TicketAutomation {
	t := draftTicket("CUST-01")
	if err := t.AssignName("CUST-01-Ticket-#01"); err != nil {
		panic(err)
	}
	if err := t.ReplaceQuotations(ticket.RowsFromSummaries(cust01Quotations())); err != nil {
		panic(err)
	}
	t.CalculateTotalAmount()
	t.ClearDomainEvents()
	return t
}

func draftQuotation(name string, qty, rate int64) *sales.Quotation {
	return &sales.Quotation{
		Name:      name,
		PartyName: "CUST-01",
		Company:   "Acme Ltd",
		Status:    "Draft",
		DocStatus: sales.DocStatusDraft,
		Items: []sales.QuotationItem{{
			ItemCode: "ITEM-" + name,
			ItemName: "Item " + name,
			Qty:      decimal.NewFromInt(qty),
			Rate:     decimal.NewFromInt(rate),
			UOM:      "Nos",
		}},
	}
}
