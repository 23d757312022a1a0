package models

import (
	"time"

	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TicketAutomationModel is the persistence model for the TicketAutomation aggregate root.
type TicketAutomationModel struct {
	TenantAggregateModel
	Name               string                    `gorm:"type:varchar(140);not null;index"`
	Customer           string                    `gorm:"type:varchar(140);index"`
	Company            string                    `gorm:"type:varchar(140)"`
	ModeOfPayment      string                    `gorm:"type:varchar(140)"`
	InvoiceReferenceNo string                    `gorm:"type:varchar(140)"`
	TotalAmount        decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	Status             ticket.Status             `gorm:"type:varchar(20);not null;default:'draft';index"`
	SalesOrder         string                    `gorm:"type:varchar(140)"`
	PaymentEntry       string                    `gorm:"type:varchar(140)"`
	SubmittedAt        *time.Time                `gorm:"type:timestamp"`
	Quotations         []TicketQuotationRowModel `gorm:"foreignKey:TicketID;references:ID"`
}

// TableName returns the table name for GORM
func (TicketAutomationModel) TableName() string {
	return "ticket_automations"
}

// ToDomain converts the persistence model to a domain TicketAutomation.
func (m *TicketAutomationModel) ToDomain() *ticket.TicketAutomation {
	t := &ticket.TicketAutomation{
		Name:               m.Name,
		Customer:           m.Customer,
		Company:            m.Company,
		ModeOfPayment:      m.ModeOfPayment,
		InvoiceReferenceNo: m.InvoiceReferenceNo,
		TotalAmount:        m.TotalAmount,
		Status:             m.Status,
		SalesOrder:         m.SalesOrder,
		PaymentEntry:       m.PaymentEntry,
		SubmittedAt:        m.SubmittedAt,
		CustomerQuotations: make([]ticket.QuotationRow, len(m.Quotations)),
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	for i, row := range m.Quotations {
		t.CustomerQuotations[i] = row.ToDomain()
	}
	return t
}

// FromDomain populates the persistence model from a domain TicketAutomation.
func (m *TicketAutomationModel) FromDomain(t *ticket.TicketAutomation) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.Name = t.Name
	m.Customer = t.Customer
	m.Company = t.Company
	m.ModeOfPayment = t.ModeOfPayment
	m.InvoiceReferenceNo = t.InvoiceReferenceNo
	m.TotalAmount = t.TotalAmount
	m.Status = t.Status
	m.SalesOrder = t.SalesOrder
	m.PaymentEntry = t.PaymentEntry
	m.SubmittedAt = t.SubmittedAt
	m.Quotations = make([]TicketQuotationRowModel, len(t.CustomerQuotations))
	for i, row := range t.CustomerQuotations {
		m.Quotations[i] = TicketQuotationRowModelFromDomain(t.ID, row)
	}
}

// TicketAutomationModelFromDomain creates a new persistence model from a domain TicketAutomation.
func TicketAutomationModelFromDomain(t *ticket.TicketAutomation) *TicketAutomationModel {
	m := &TicketAutomationModel{}
	m.FromDomain(t)
	return m
}

// TicketQuotationRowModel is one row of the customer_quotations child table.
type TicketQuotationRowModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TicketID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Idx         int             `gorm:"not null"`
	Quotation   string          `gorm:"type:varchar(140)"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status      string          `gorm:"type:varchar(40)"`
	Date        *time.Time      `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (TicketQuotationRowModel) TableName() string {
	return "ticket_quotation_rows"
}

// ToDomain converts the row to a domain QuotationRow
func (m *TicketQuotationRowModel) ToDomain() ticket.QuotationRow {
	row := ticket.QuotationRow{
		Idx:         m.Idx,
		Quotation:   m.Quotation,
		TotalAmount: m.TotalAmount,
		Status:      m.Status,
	}
	if m.Date != nil {
		row.Date = *m.Date
	}
	return row
}

// TicketQuotationRowModelFromDomain builds a row model with a fresh ID
func TicketQuotationRowModelFromDomain(ticketID uuid.UUID, row ticket.QuotationRow) TicketQuotationRowModel {
	m := TicketQuotationRowModel{
		ID:          uuid.New(),
		TicketID:    ticketID,
		Idx:         row.Idx,
		Quotation:   row.Quotation,
		TotalAmount: row.TotalAmount,
		Status:      row.Status,
	}
	if !row.Date.IsZero() {
		d := row.Date
		m.Date = &d
	}
	return m
}
