package sales

import (
	"fmt"
	"time"

	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReferenceLeadDays is the gap between posting date and reference/due date of an automated payment
const ReferenceLeadDays = 8

const (
	PaymentTypeReceive = "Receive"
	PartyTypeCustomer  = "Customer"
)

// PaymentReference allocates part of a payment to a document
type PaymentReference struct {
	ReferenceDoctype string
	ReferenceName    string
	DueDate          time.Time
	AllocatedAmount  decimal.Decimal
}

// PaymentEntry records money received from a party
type PaymentEntry struct {
	Name           string
	PaymentType    string
	Company        string
	PartyType      string
	Party          string
	PostingDate    time.Time
	ModeOfPayment  string
	PaidTo         string
	PaidAmount     decimal.Decimal
	ReceivedAmount decimal.Decimal
	ReferenceNo    string
	ReferenceDate  time.Time
	DocStatus      DocStatus
	References     []PaymentReference
}

// ReceiptParams holds the inputs of a customer receipt against a sales order
type ReceiptParams struct {
	Company       string
	Customer      string
	ModeOfPayment string
	PaidTo        string
	Amount        decimal.Decimal
	ReferenceNo   string
	SalesOrder    string
	Today         time.Time
}

// NewReceiptAgainstSalesOrder builds a "Receive" payment entry fully allocated to one sales order
func NewReceiptAgainstSalesOrder(p ReceiptParams) (*PaymentEntry, error) {
	if p.SalesOrder == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Sales Order reference is required")
	}
	if p.PaidTo == "" {
		return nil, ErrPaymentAccountMissing(p.ModeOfPayment, p.Company)
	}
	if p.Amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}

	day := DateOnly(p.Today)
	due := day.AddDate(0, 0, ReferenceLeadDays)
	return &PaymentEntry{
		PaymentType:    PaymentTypeReceive,
		Company:        p.Company,
		PartyType:      PartyTypeCustomer,
		Party:          p.Customer,
		PostingDate:    day,
		ModeOfPayment:  p.ModeOfPayment,
		PaidTo:         p.PaidTo,
		PaidAmount:     p.Amount,
		ReceivedAmount: p.Amount,
		ReferenceNo:    p.ReferenceNo,
		ReferenceDate:  due,
		DocStatus:      DocStatusDraft,
		References: []PaymentReference{{
			ReferenceDoctype: DoctypeSalesOrder,
			ReferenceName:    p.SalesOrder,
			DueDate:          due,
			AllocatedAmount:  p.Amount,
		}},
	}, nil
}

// Submit moves a draft payment entry to submitted
func (e *PaymentEntry) Submit() error {
	if e.DocStatus != DocStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft Payment Entries can be submitted")
	}
	e.DocStatus = DocStatusSubmitted
	return nil
}

// ErrPaymentAccountMissing is returned when a mode of payment has no default account for the company
func ErrPaymentAccountMissing(modeOfPayment, company string) *shared.DomainError {
	return shared.NewDomainError("PAYMENT_ACCOUNT_MISSING",
		fmt.Sprintf("No default account found for Mode of Payment '%s' in company '%s'.", modeOfPayment, company))
}
