package sales

import (
	"fmt"
	"time"

	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Quotation statuses used by the ticket automation
const (
	QuotationStatusDraft = "draft"
	QuotationStatusOpen  = "Open"
)

// QuotationListFields are the fields requested when listing quotations for a customer
var QuotationListFields = []string{"name", "grand_total", "status", "transaction_date"}

// QuotationItem is a line of a quotation
type QuotationItem struct {
	ItemCode    string
	ItemName    string
	Description string
	Qty         decimal.Decimal
	Rate        decimal.Decimal
	UOM         string
}

// Amount returns qty * rate
func (i QuotationItem) Amount() decimal.Decimal {
	return i.Qty.Mul(i.Rate)
}

// Quotation is a sales quote addressed to a party (customer)
type Quotation struct {
	Name            string
	PartyName       string
	Company         string
	Status          string
	DocStatus       DocStatus
	GrandTotal      decimal.Decimal
	TransactionDate time.Time
	Items           []QuotationItem
}

// IsSubmitted reports whether the quotation was already submitted
func (q *Quotation) IsSubmitted() bool {
	return q.DocStatus == DocStatusSubmitted
}

// Submit moves a draft quotation to submitted
func (q *Quotation) Submit() error {
	switch q.DocStatus {
	case DocStatusSubmitted:
		return shared.NewDomainError("ALREADY_SUBMITTED", fmt.Sprintf("Quotation %s is already submitted", q.Name))
	case DocStatusCancelled:
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cancelled Quotation %s cannot be submitted", q.Name))
	}
	q.DocStatus = DocStatusSubmitted
	q.Status = QuotationStatusOpen
	return nil
}

// RecalculateGrandTotal sums the item amounts into GrandTotal
func (q *Quotation) RecalculateGrandTotal() {
	total := decimal.Zero
	for _, item := range q.Items {
		total = total.Add(item.Amount())
	}
	q.GrandTotal = total
}

// QuotationSummary is one record of a quotation list query
type QuotationSummary struct {
	Name            string
	GrandTotal      decimal.Decimal
	Status          string
	TransactionDate time.Time
}

// QuotationFilter selects quotations for a party in a given status
type QuotationFilter struct {
	PartyName string
	Status    string
}

// DraftQuotationsFor returns the filter used when a ticket's customer changes
func DraftQuotationsFor(customer string) QuotationFilter {
	return QuotationFilter{PartyName: customer, Status: QuotationStatusDraft}
}
