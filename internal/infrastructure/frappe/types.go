package frappe

import (
	"encoding/json"
	"time"

	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/shopspring/decimal"
)

// envelope is the response shape of /api/resource ("data") and /api/method ("message")
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message json.RawMessage `json:"message"`
}

type quotationListItem struct {
	Name            string          `json:"name"`
	GrandTotal      json.RawMessage `json:"grand_total"`
	Status          string          `json:"status"`
	TransactionDate string          `json:"transaction_date"`
}

func (q quotationListItem) toSummary() sales.QuotationSummary {
	return sales.QuotationSummary{
		Name:            q.Name,
		GrandTotal:      ticket.ParseAmount(q.GrandTotal),
		Status:          q.Status,
		TransactionDate: parseDate(q.TransactionDate),
	}
}

type quotationDoc struct {
	Name            string          `json:"name"`
	PartyName       string          `json:"party_name"`
	Company         string          `json:"company"`
	Status          string          `json:"status"`
	DocStatus       int             `json:"docstatus"`
	GrandTotal      json.RawMessage `json:"grand_total"`
	TransactionDate string          `json:"transaction_date"`
	Items           []itemDoc       `json:"items"`
}

type itemDoc struct {
	ItemCode    string          `json:"item_code"`
	ItemName    string          `json:"item_name"`
	Description string          `json:"description"`
	Qty         json.RawMessage `json:"qty"`
	Rate        json.RawMessage `json:"rate"`
	UOM         string          `json:"uom"`
}

func (d quotationDoc) toDomain() *sales.Quotation {
	q := &sales.Quotation{
		Name:            d.Name,
		PartyName:       d.PartyName,
		Company:         d.Company,
		Status:          d.Status,
		DocStatus:       sales.DocStatus(d.DocStatus),
		GrandTotal:      ticket.ParseAmount(d.GrandTotal),
		TransactionDate: parseDate(d.TransactionDate),
		Items:           make([]sales.QuotationItem, len(d.Items)),
	}
	for i, item := range d.Items {
		q.Items[i] = sales.QuotationItem{
			ItemCode:    item.ItemCode,
			ItemName:    item.ItemName,
			Description: item.Description,
			Qty:         ticket.ParseAmount(item.Qty),
			Rate:        ticket.ParseAmount(item.Rate),
			UOM:         item.UOM,
		}
	}
	return q
}

type salesOrderDoc struct {
	Doctype         string              `json:"doctype"`
	Customer        string              `json:"customer"`
	Company         string              `json:"company,omitempty"`
	TransactionDate string              `json:"transaction_date"`
	DeliveryDate    string              `json:"delivery_date"`
	Items           []salesOrderItemDoc `json:"items"`
}

type salesOrderItemDoc struct {
	ItemCode       string      `json:"item_code"`
	ItemName       string      `json:"item_name,omitempty"`
	Description    string      `json:"description,omitempty"`
	Qty            json.Number `json:"qty"`
	Rate           json.Number `json:"rate"`
	UOM            string      `json:"uom,omitempty"`
	DeliveryDate   string      `json:"delivery_date"`
	PrevDocDocname string      `json:"prevdoc_docname,omitempty"`
}

func newSalesOrderDoc(o *sales.SalesOrder) salesOrderDoc {
	doc := salesOrderDoc{
		Doctype:         sales.DoctypeSalesOrder,
		Customer:        o.Customer,
		Company:         o.Company,
		TransactionDate: formatDate(o.TransactionDate),
		DeliveryDate:    formatDate(o.DeliveryDate),
		Items:           make([]salesOrderItemDoc, len(o.Items)),
	}
	for i, item := range o.Items {
		doc.Items[i] = salesOrderItemDoc{
			ItemCode:       item.ItemCode,
			ItemName:       item.ItemName,
			Description:    item.Description,
			Qty:            number(item.Qty),
			Rate:           number(item.Rate),
			UOM:            item.UOM,
			DeliveryDate:   doc.DeliveryDate,
			PrevDocDocname: item.PrevDocName,
		}
	}
	return doc
}

type paymentEntryDoc struct {
	Doctype        string                `json:"doctype"`
	PaymentType    string                `json:"payment_type"`
	Company        string                `json:"company,omitempty"`
	PartyType      string                `json:"party_type"`
	Party          string                `json:"party"`
	PostingDate    string                `json:"posting_date"`
	ModeOfPayment  string                `json:"mode_of_payment,omitempty"`
	PaidTo         string                `json:"paid_to"`
	PaidAmount     json.Number           `json:"paid_amount"`
	ReceivedAmount json.Number           `json:"received_amount"`
	ReferenceNo    string                `json:"reference_no,omitempty"`
	ReferenceDate  string                `json:"reference_date"`
	References     []paymentReferenceDoc `json:"references"`
}

type paymentReferenceDoc struct {
	ReferenceDoctype string      `json:"reference_doctype"`
	ReferenceName    string      `json:"reference_name"`
	DueDate          string      `json:"due_date"`
	AllocatedAmount  json.Number `json:"allocated_amount"`
}

func newPaymentEntryDoc(e *sales.PaymentEntry) paymentEntryDoc {
	doc := paymentEntryDoc{
		Doctype:        sales.DoctypePaymentEntry,
		PaymentType:    e.PaymentType,
		Company:        e.Company,
		PartyType:      e.PartyType,
		Party:          e.Party,
		PostingDate:    formatDate(e.PostingDate),
		ModeOfPayment:  e.ModeOfPayment,
		PaidTo:         e.PaidTo,
		PaidAmount:     number(e.PaidAmount),
		ReceivedAmount: number(e.ReceivedAmount),
		ReferenceNo:    e.ReferenceNo,
		ReferenceDate:  formatDate(e.ReferenceDate),
		References:     make([]paymentReferenceDoc, len(e.References)),
	}
	for i, ref := range e.References {
		doc.References[i] = paymentReferenceDoc{
			ReferenceDoctype: ref.ReferenceDoctype,
			ReferenceName:    ref.ReferenceName,
			DueDate:          formatDate(ref.DueDate),
			AllocatedAmount:  number(ref.AllocatedAmount),
		}
	}
	return doc
}

// namedDoc reads the name and docstatus of any returned document
type namedDoc struct {
	Name      string `json:"name"`
	DocStatus int    `json:"docstatus"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(sales.DateLayout)
}

// parseDate accepts "2006-01-02" and datetime strings; anything else yields the zero time
func parseDate(s string) time.Time {
	if len(s) >= len(sales.DateLayout) {
		if t, err := time.Parse(sales.DateLayout, s[:len(sales.DateLayout)]); err == nil {
			return t
		}
	}
	return time.Time{}
}
