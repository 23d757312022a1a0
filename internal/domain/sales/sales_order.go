package sales

import (
	"time"

	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DeliveryLeadDays is the gap between order date and delivery date of an automated order
const DeliveryLeadDays = 7

// SalesOrderItem is a line copied from a quotation item
type SalesOrderItem struct {
	ItemCode    string
	ItemName    string
	Description string
	Qty         decimal.Decimal
	Rate        decimal.Decimal
	UOM         string
	// PrevDocName is the quotation the line came from
	PrevDocName string
}

// SalesOrder combines the items of one or more quotations
type SalesOrder struct {
	Name            string
	Customer        string
	Company         string
	TransactionDate time.Time
	DeliveryDate    time.Time
	DocStatus       DocStatus
	Items           []SalesOrderItem
}

// NewSalesOrderFromQuotations builds one order out of the items of every quotation, in order.
func NewSalesOrderFromQuotations(customer, company string, today time.Time, quotations []*Quotation) (*SalesOrder, error) {
	if customer == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required to create a Sales Order")
	}

	items := make([]SalesOrderItem, 0)
	for _, q := range quotations {
		for _, qi := range q.Items {
			items = append(items, SalesOrderItem{
				ItemCode:    qi.ItemCode,
				ItemName:    qi.ItemName,
				Description: qi.Description,
				Qty:         qi.Qty,
				Rate:        qi.Rate,
				UOM:         qi.UOM,
				PrevDocName: q.Name,
			})
		}
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Sales Order must have at least one item")
	}

	day := DateOnly(today)
	return &SalesOrder{
		Customer:        customer,
		Company:         company,
		TransactionDate: day,
		DeliveryDate:    day.AddDate(0, 0, DeliveryLeadDays),
		DocStatus:       DocStatusDraft,
		Items:           items,
	}, nil
}

// GrandTotal sums qty * rate over all lines
func (o *SalesOrder) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Qty.Mul(item.Rate))
	}
	return total
}

// Submit moves a draft order to submitted
func (o *SalesOrder) Submit() error {
	if o.DocStatus != DocStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft Sales Orders can be submitted")
	}
	if o.DeliveryDate.IsZero() {
		o.DeliveryDate = DateOnly(o.TransactionDate).AddDate(0, 0, DeliveryLeadDays)
	}
	o.DocStatus = DocStatusSubmitted
	return nil
}
