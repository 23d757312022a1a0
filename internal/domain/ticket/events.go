package ticket

import (
	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeTicketAutomation = "TicketAutomation"

// Event type constants
const (
	EventTypeTicketAutomationCreated   = "TicketAutomationCreated"
	EventTypeQuotationsRefreshed       = "TicketQuotationsRefreshed"
	EventTypeTicketAutomationSubmitted = "TicketAutomationSubmitted"
	EventTypeSalesCycleCompleted       = "SalesCycleCompleted"
)

// TicketAutomationCreatedEvent is raised when a ticket is named and first saved
type TicketAutomationCreatedEvent struct {
	shared.BaseDomainEvent
	TicketID uuid.UUID `json:"ticket_id"`
	Name     string    `json:"name"`
	Customer string    `json:"customer"`
}

// NewTicketAutomationCreatedEvent creates a new TicketAutomationCreatedEvent
func NewTicketAutomationCreatedEvent(t *TicketAutomation) *TicketAutomationCreatedEvent {
	return &TicketAutomationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTicketAutomationCreated, AggregateTypeTicketAutomation, t.ID, t.TenantID),
		TicketID:        t.ID,
		Name:            t.Name,
		Customer:        t.Customer,
	}
}

// QuotationsRefreshedEvent is raised when the quotation table is rewritten
type QuotationsRefreshedEvent struct {
	shared.BaseDomainEvent
	TicketID uuid.UUID `json:"ticket_id"`
	Customer string    `json:"customer"`
	Rows     int       `json:"rows"`
}

// NewQuotationsRefreshedEvent creates a new QuotationsRefreshedEvent
func NewQuotationsRefreshedEvent(t *TicketAutomation) *QuotationsRefreshedEvent {
	return &QuotationsRefreshedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationsRefreshed, AggregateTypeTicketAutomation, t.ID, t.TenantID),
		TicketID:        t.ID,
		Customer:        t.Customer,
		Rows:            len(t.CustomerQuotations),
	}
}

// TicketAutomationSubmittedEvent is raised when a ticket is submitted, before its sales cycle runs
type TicketAutomationSubmittedEvent struct {
	shared.BaseDomainEvent
	TicketID    uuid.UUID       `json:"ticket_id"`
	Name        string          `json:"name"`
	Customer    string          `json:"customer"`
	Company     string          `json:"company"`
	Quotations  []string        `json:"quotations"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewTicketAutomationSubmittedEvent creates a new TicketAutomationSubmittedEvent
func NewTicketAutomationSubmittedEvent(t *TicketAutomation) *TicketAutomationSubmittedEvent {
	return &TicketAutomationSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTicketAutomationSubmitted, AggregateTypeTicketAutomation, t.ID, t.TenantID),
		TicketID:        t.ID,
		Name:            t.Name,
		Customer:        t.Customer,
		Company:         t.Company,
		Quotations:      t.QuotationNames(),
		TotalAmount:     t.TotalAmount,
	}
}

// SalesCycleCompletedEvent is raised once the sales order and payment entry exist
type SalesCycleCompletedEvent struct {
	shared.BaseDomainEvent
	TicketID     uuid.UUID       `json:"ticket_id"`
	Name         string          `json:"name"`
	Customer     string          `json:"customer"`
	SalesOrder   string          `json:"sales_order"`
	PaymentEntry string          `json:"payment_entry"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// NewSalesCycleCompletedEvent creates a new SalesCycleCompletedEvent
func NewSalesCycleCompletedEvent(t *TicketAutomation) *SalesCycleCompletedEvent {
	return &SalesCycleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesCycleCompleted, AggregateTypeTicketAutomation, t.ID, t.TenantID),
		TicketID:        t.ID,
		Name:            t.Name,
		Customer:        t.Customer,
		SalesOrder:      t.SalesOrder,
		PaymentEntry:    t.PaymentEntry,
		TotalAmount:     t.TotalAmount,
	}
}
