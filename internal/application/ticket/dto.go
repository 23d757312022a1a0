package ticket

import (
	"encoding/json"
	"time"

	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationRowInput is a hand-entered row. total_amount may be a number or a numeric string;
// anything else counts as 0.
type QuotationRowInput struct {
	Quotation   string          `json:"quotation" binding:"required,max=140"`
	TotalAmount json.RawMessage `json:"total_amount" swaggertype:"number"`
	Status      string          `json:"status" binding:"max=140"`
	Date        string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// CreateTicketAutomationRequest creates a draft ticket
type CreateTicketAutomationRequest struct {
	Customer           string              `json:"customer" binding:"max=140"`
	Company            string              `json:"company" binding:"max=140"`
	ModeOfPayment      string              `json:"mode_of_payment" binding:"max=140"`
	InvoiceReferenceNo string              `json:"invoice_reference_no" binding:"max=140"`
	CustomerQuotations []QuotationRowInput `json:"customer_quotations" binding:"omitempty,dive"`
}

// UpdateTicketAutomationRequest changes a draft. Omitted fields are left as they are;
// customer_quotations, when present, replaces the rows after any customer change.
type UpdateTicketAutomationRequest struct {
	Customer           *string             `json:"customer" binding:"omitempty,max=140"`
	Company            *string             `json:"company" binding:"omitempty,max=140"`
	ModeOfPayment      *string             `json:"mode_of_payment" binding:"omitempty,max=140"`
	InvoiceReferenceNo *string             `json:"invoice_reference_no" binding:"omitempty,max=140"`
	CustomerQuotations []QuotationRowInput `json:"customer_quotations" binding:"omitempty,dive"`
}

// TicketListFilter represents filter options for the ticket list
type TicketListFilter struct {
	Search   string `form:"search"`
	Customer string `form:"customer"`
	Company  string `form:"company"`
	Status   string `form:"status" binding:"omitempty,oneof=draft submitted"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// QuotationRowResponse is one row of customer_quotations
type QuotationRowResponse struct {
	Idx         int             `json:"idx"`
	Quotation   string          `json:"quotation"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	Date        string          `json:"date,omitempty"`
}

// TicketAutomationResponse represents a ticket in API responses
type TicketAutomationResponse struct {
	ID                 uuid.UUID              `json:"id"`
	TenantID           uuid.UUID              `json:"tenant_id"`
	Name               string                 `json:"name"`
	Customer           string                 `json:"customer"`
	Company            string                 `json:"company"`
	ModeOfPayment      string                 `json:"mode_of_payment"`
	InvoiceReferenceNo string                 `json:"invoice_reference_no"`
	TotalAmount        decimal.Decimal        `json:"total_amount"`
	CustomerQuotations []QuotationRowResponse `json:"customer_quotations"`
	Status             string                 `json:"status"`
	SalesOrder         string                 `json:"sales_order,omitempty"`
	PaymentEntry       string                 `json:"payment_entry,omitempty"`
	SubmittedAt        *time.Time             `json:"submitted_at,omitempty"`
	Version            int                    `json:"version"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// TicketAutomationListItemResponse is the list view of a ticket
type TicketAutomationListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Customer    string          `json:"customer"`
	Company     string          `json:"company"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	RowCount    int             `json:"row_count"`
	Status      string          `json:"status"`
	SalesOrder  string          `json:"sales_order,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SubmitTicketAutomationResponse carries the submitted ticket and the sales cycle notices
type SubmitTicketAutomationResponse struct {
	Ticket     TicketAutomationResponse `json:"ticket"`
	SalesCycle *SalesCycleResult        `json:"sales_cycle"`
}

// QuotationSummaryResponse is one record of the draft quotation lookup
type QuotationSummaryResponse struct {
	Name            string          `json:"name"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	Status          string          `json:"status"`
	TransactionDate string          `json:"transaction_date,omitempty"`
}

// PrintResult is a rendered print format
type PrintResult struct {
	FileName    string
	ContentType string
	Content     []byte
	// ArchiveURL is a presigned link to the archived PDF of a submitted ticket
	ArchiveURL string
}

// ToRows converts inputs to domain rows, coercing amounts with ParseAmount
func ToRows(inputs []QuotationRowInput) []ticket.QuotationRow {
	rows := make([]ticket.QuotationRow, len(inputs))
	for i, in := range inputs {
		var date time.Time
		if in.Date != "" {
			date, _ = time.Parse(sales.DateLayout, in.Date)
		}
		rows[i] = ticket.NewQuotationRow(in.Quotation, in.TotalAmount, in.Status, date)
	}
	return rows
}

// ToTicketAutomationResponse converts the domain document
func ToTicketAutomationResponse(t *ticket.TicketAutomation) TicketAutomationResponse {
	rows := make([]QuotationRowResponse, len(t.CustomerQuotations))
	for i, row := range t.CustomerQuotations {
		rows[i] = QuotationRowResponse{
			Idx:         row.Idx,
			Quotation:   row.Quotation,
			TotalAmount: row.TotalAmount,
			Status:      row.Status,
			Date:        formatDate(row.Date),
		}
	}
	return TicketAutomationResponse{
		ID:                 t.ID,
		TenantID:           t.TenantID,
		Name:               t.Name,
		Customer:           t.Customer,
		Company:            t.Company,
		ModeOfPayment:      t.ModeOfPayment,
		InvoiceReferenceNo: t.InvoiceReferenceNo,
		TotalAmount:        t.TotalAmount,
		CustomerQuotations: rows,
		Status:             t.Status.String(),
		SalesOrder:         t.SalesOrder,
		PaymentEntry:       t.PaymentEntry,
		SubmittedAt:        t.SubmittedAt,
		Version:            t.Version,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

// ToTicketAutomationListItemResponses converts a page of documents
func ToTicketAutomationListItemResponses(list []ticket.TicketAutomation) []TicketAutomationListItemResponse {
	items := make([]TicketAutomationListItemResponse, len(list))
	for i := range list {
		t := &list[i]
		items[i] = TicketAutomationListItemResponse{
			ID:          t.ID,
			Name:        t.Name,
			Customer:    t.Customer,
			Company:     t.Company,
			TotalAmount: t.TotalAmount,
			RowCount:    len(t.CustomerQuotations),
			Status:      t.Status.String(),
			SalesOrder:  t.SalesOrder,
			UpdatedAt:   t.UpdatedAt,
		}
	}
	return items
}

// ToQuotationSummaryResponses converts a list query response
func ToQuotationSummaryResponses(list []sales.QuotationSummary) []QuotationSummaryResponse {
	out := make([]QuotationSummaryResponse, len(list))
	for i, q := range list {
		out[i] = QuotationSummaryResponse{
			Name:            q.Name,
			GrandTotal:      q.GrandTotal,
			Status:          q.Status,
			TransactionDate: formatDate(q.TransactionDate),
		}
	}
	return out
}

// toDomainFilter applies list defaults
func (f TicketListFilter) toDomainFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter.Search = f.Search
	if f.Customer != "" {
		filter.Filters["customer"] = f.Customer
	}
	if f.Company != "" {
		filter.Filters["company"] = f.Company
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	return filter
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(sales.DateLayout)
}
