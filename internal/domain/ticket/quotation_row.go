package ticket

import (
	"time"

	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// QuotationRow is one line of the customer_quotations child table
type QuotationRow struct {
	Idx         int
	Quotation   string
	TotalAmount decimal.Decimal
	Status      string
	Date        time.Time
}

// AmountPlaces is the scale of stored amounts, DECIMAL(18, 4)
const AmountPlaces = 4

// NewQuotationRow builds a row; totalAmount is coerced with ParseAmount and rounded to
// AmountPlaces so the ticket total is the sum of the amounts as stored.
func NewQuotationRow(quotation string, totalAmount any, status string, date time.Time) QuotationRow {
	return QuotationRow{
		Quotation:   quotation,
		TotalAmount: ParseAmount(totalAmount).Round(AmountPlaces),
		Status:      status,
		Date:        date,
	}
}

// RowFromSummary copies a listed quotation into a row:
// name -> quotation, grand_total -> total_amount, status -> status, transaction_date -> date.
func RowFromSummary(s sales.QuotationSummary) QuotationRow {
	return NewQuotationRow(s.Name, s.GrandTotal, s.Status, s.TransactionDate)
}

// RowsFromSummaries maps a list response in order
func RowsFromSummaries(list []sales.QuotationSummary) []QuotationRow {
	rows := make([]QuotationRow, len(list))
	for i, s := range list {
		rows[i] = RowFromSummary(s)
	}
	return rows
}
