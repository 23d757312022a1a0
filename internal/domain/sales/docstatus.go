package sales

import "time"

// DocStatus is the submission state shared by all submittable documents
type DocStatus int

const (
	DocStatusDraft     DocStatus = 0
	DocStatusSubmitted DocStatus = 1
	DocStatusCancelled DocStatus = 2
)

// IsValid checks if the value is a known docstatus
func (s DocStatus) IsValid() bool {
	return s >= DocStatusDraft && s <= DocStatusCancelled
}

func (s DocStatus) String() string {
	switch s {
	case DocStatusDraft:
		return "Draft"
	case DocStatusSubmitted:
		return "Submitted"
	case DocStatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// Doctype names as the sales backend knows them
const (
	DoctypeQuotation    = "Quotation"
	DoctypeSalesOrder   = "Sales Order"
	DoctypePaymentEntry = "Payment Entry"
	DoctypeCustomer     = "Customer"
)

// DateOnly drops the clock part, keeping the calendar day in t's location
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateLayout is the wire format of document dates
const DateLayout = "2006-01-02"
