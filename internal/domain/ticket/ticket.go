package ticket

import (
	"strings"
	"time"

	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field names of the Ticket Automation doctype, as exposed on the wire
const (
	FieldCustomer           = "customer"
	FieldCustomerQuotations = "customer_quotations"
	FieldTotalAmount        = "total_amount"
)

// Status represents the lifecycle state of a ticket automation document
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	return s == StatusDraft || s == StatusSubmitted
}

func (s Status) String() string {
	return string(s)
}

// TicketAutomation groups a customer's draft quotations and drives their sales cycle on submit
type TicketAutomation struct {
	shared.TenantAggregateRoot
	Name               string
	Customer           string
	Company            string
	ModeOfPayment      string
	InvoiceReferenceNo string
	TotalAmount        decimal.Decimal
	CustomerQuotations []QuotationRow
	Status             Status
	SalesOrder         string
	PaymentEntry       string
	SubmittedAt        *time.Time
}

// NewTicketAutomation creates a draft document. Customer may be empty.
func NewTicketAutomation(tenantID uuid.UUID, customer, company, modeOfPayment, invoiceReferenceNo string) (*TicketAutomation, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}

	t := &TicketAutomation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Customer:            strings.TrimSpace(customer),
		Status:              StatusDraft,
		TotalAmount:         decimal.Zero,
		CustomerQuotations:  make([]QuotationRow, 0),
	}
	if err := t.SetDetails(company, modeOfPayment, invoiceReferenceNo); err != nil {
		return nil, err
	}
	return t, nil
}

// IsDraft reports whether the document can still be edited
func (t *TicketAutomation) IsDraft() bool {
	return t.Status == StatusDraft
}

// AssignName sets the document name once; the first assignment marks the document as created.
func (t *TicketAutomation) AssignName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Ticket name cannot be empty")
	}
	if t.Name != "" {
		return shared.NewDomainError("NAME_ALREADY_SET", "Ticket name is already assigned")
	}
	t.Name = name
	t.AddDomainEvent(NewTicketAutomationCreatedEvent(t))
	return nil
}

// SetCustomer changes the customer and reports whether the value changed.
// The quotation table is not touched here; the form controller repopulates it.
func (t *TicketAutomation) SetCustomer(customer string) (bool, error) {
	if err := t.ensureDraft(); err != nil {
		return false, err
	}
	customer = strings.TrimSpace(customer)
	if customer == t.Customer {
		return false, nil
	}
	t.Customer = customer
	t.Touch()
	return true, nil
}

// SetDetails updates the company, mode of payment and invoice reference used on submit
func (t *TicketAutomation) SetDetails(company, modeOfPayment, invoiceReferenceNo string) error {
	if err := t.ensureDraft(); err != nil {
		return err
	}
	if len(invoiceReferenceNo) > 140 {
		return shared.NewDomainError("INVALID_REFERENCE_NO", "Invoice reference number cannot exceed 140 characters")
	}
	t.Company = strings.TrimSpace(company)
	t.ModeOfPayment = strings.TrimSpace(modeOfPayment)
	t.InvoiceReferenceNo = strings.TrimSpace(invoiceReferenceNo)
	t.Touch()
	return nil
}

// ReplaceQuotations discards every row and appends rows in the given order
func (t *TicketAutomation) ReplaceQuotations(rows []QuotationRow) error {
	if err := t.ensureDraft(); err != nil {
		return err
	}
	t.CustomerQuotations = make([]QuotationRow, 0, len(rows))
	for _, row := range rows {
		row.Idx = len(t.CustomerQuotations) + 1
		t.CustomerQuotations = append(t.CustomerQuotations, row)
	}
	t.Touch()
	t.AddDomainEvent(NewQuotationsRefreshedEvent(t))
	return nil
}

// CalculateTotalAmount sets TotalAmount to the sum of the rows' amounts and returns it
func (t *TicketAutomation) CalculateTotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, row := range t.CustomerQuotations {
		total = total.Add(row.TotalAmount)
	}
	t.TotalAmount = total
	return total
}

// QuotationNames returns the quotation names of the rows in table order
func (t *TicketAutomation) QuotationNames() []string {
	names := make([]string, 0, len(t.CustomerQuotations))
	for _, row := range t.CustomerQuotations {
		if row.Quotation != "" {
			names = append(names, row.Quotation)
		}
	}
	return names
}

// Submit freezes the document. The total is recomputed first.
func (t *TicketAutomation) Submit(now time.Time) error {
	if !t.IsDraft() {
		return shared.NewDomainError("ALREADY_SUBMITTED", "Ticket automation is already submitted")
	}
	if t.Name == "" {
		return shared.NewDomainError("INVALID_STATE", "Ticket automation must be saved before submitting")
	}
	if t.Customer == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Customer is required to submit a ticket automation")
	}

	t.CalculateTotalAmount()
	t.Status = StatusSubmitted
	t.SubmittedAt = &now
	t.UpdatedAt = now
	t.AddDomainEvent(NewTicketAutomationSubmittedEvent(t))
	return nil
}

// RecordSalesCycle stores the documents produced by the sales cycle of a submitted ticket
func (t *TicketAutomation) RecordSalesCycle(salesOrder, paymentEntry string) error {
	if t.Status != StatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Sales cycle can only be recorded on a submitted ticket")
	}
	t.SalesOrder = salesOrder
	t.PaymentEntry = paymentEntry
	t.Touch()
	if salesOrder != "" && paymentEntry != "" {
		t.AddDomainEvent(NewSalesCycleCompletedEvent(t))
	}
	return nil
}

func (t *TicketAutomation) ensureDraft() error {
	if !t.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Submitted ticket automation cannot be modified")
	}
	return nil
}
