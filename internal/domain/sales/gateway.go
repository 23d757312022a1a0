package sales

import (
	"context"

	"github.com/google/uuid"
)

// QuotationLister runs the quotation list query
type QuotationLister interface {
	// ListQuotations returns the quotations matching the filter in backend order
	ListQuotations(ctx context.Context, tenantID uuid.UUID, filter QuotationFilter) ([]QuotationSummary, error)
}

// Gateway is the port to the sales backend that owns quotations, orders and payments.
// Implementations return shared.ErrNotFound for missing documents.
type Gateway interface {
	QuotationLister

	GetQuotation(ctx context.Context, tenantID uuid.UUID, name string) (*Quotation, error)
	SubmitQuotation(ctx context.Context, tenantID uuid.UUID, name string) error

	// CreateSalesOrder inserts and submits the order, returning its name
	CreateSalesOrder(ctx context.Context, tenantID uuid.UUID, order *SalesOrder) (string, error)

	// DefaultAccount returns the default account of a mode of payment for a company,
	// or an empty string when none is configured
	DefaultAccount(ctx context.Context, tenantID uuid.UUID, modeOfPayment, company string) (string, error)

	// CreatePaymentEntry inserts and submits the entry, returning its name
	CreatePaymentEntry(ctx context.Context, tenantID uuid.UUID, entry *PaymentEntry) (string, error)
}
