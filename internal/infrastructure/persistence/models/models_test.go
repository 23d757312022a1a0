package models

import (
	"testing"
	"time"

	"github.com/erp/ticketing/internal/domain/portal"
	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketAutomationModel_RoundTrip(t *testing.T) {
	tenantID := uuid.New()
	doc, err := ticket.NewTicketAutomation(tenantID, "CUST-01", "Acme Ltd", "Cash", "INV-1")
	require.NoError(t, err)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, doc.ReplaceQuotations([]ticket.QuotationRow{
		ticket.NewQuotationRow("Q1", "100.5", "Draft", day),
		ticket.NewQuotationRow("Q2", 250, "Draft", time.Time{}),
	}))
	doc.CalculateTotalAmount()

	m := TicketAutomationModelFromDomain(doc)
	require.Len(t, m.Quotations, 2)
	assert.Equal(t, doc.ID, m.Quotations[0].TicketID)
	assert.Nil(t, m.Quotations[1].Date)

	back := m.ToDomain()
	assert.Equal(t, doc.ID, back.ID)
	assert.Equal(t, tenantID, back.TenantID)
	assert.Equal(t, doc.Version, back.Version)
	assert.Equal(t, "CUST-01", back.Customer)
	assert.True(t, back.TotalAmount.Equal(decimal.RequireFromString("350.5")))
	require.Len(t, back.CustomerQuotations, 2)
	assert.Equal(t, 1, back.CustomerQuotations[0].Idx)
	assert.Equal(t, day, back.CustomerQuotations[0].Date)
	assert.True(t, back.CustomerQuotations[1].Date.IsZero())
	assert.Empty(t, back.GetDomainEvents())
}

func TestQuotationModel_FromDomain(t *testing.T) {
	q := &sales.Quotation{
		Name:      "SAL-QTN-0001",
		PartyName: "CUST-01",
		Status:    "Draft",
		Items: []sales.QuotationItem{
			{ItemCode: "WIDGET", Qty: decimal.NewFromInt(2), Rate: decimal.NewFromInt(50)},
		},
	}
	m := QuotationModelFromDomain(uuid.New(), q, time.Now())
	require.Len(t, m.Items, 1)
	assert.Equal(t, m.ID, m.Items[0].QuotationID)
	assert.True(t, m.Items[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "SAL-QTN-0001", m.ToSummary().Name)
	assert.Equal(t, "WIDGET", m.ToDomain().Items[0].ItemCode)
}

func TestPaymentEntryModel_RoundTrip(t *testing.T) {
	entry, err := sales.NewReceiptAgainstSalesOrder(sales.ReceiptParams{
		Company: "Acme Ltd", Customer: "CUST-01", ModeOfPayment: "Cash", PaidTo: "Cash - A",
		Amount: decimal.NewFromInt(10), ReferenceNo: "INV-1", SalesOrder: "SAL-ORD-2024-00001",
		Today: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	entry.Name = "ACC-PAY-2024-00001"

	back := PaymentEntryModelFromDomain(uuid.New(), entry, time.Now()).ToDomain()
	assert.Equal(t, entry.Name, back.Name)
	require.Len(t, back.References, 1)
	assert.Equal(t, "SAL-ORD-2024-00001", back.References[0].ReferenceName)
}

func TestUserModel_Roles(t *testing.T) {
	m := &UserModel{Email: "a@b.co", Roles: "Customer, ,Website"}
	u := m.ToDomain()
	assert.Equal(t, []string{"Customer", "Website"}, u.Roles)
	assert.Equal(t, "Customer,Website", UserModelFromDomain(u).Roles)
}

func TestAddressModel_Links(t *testing.T) {
	a := &portal.Address{
		TenantID: uuid.New(), AddressLine1: "1 Main St", City: "Springfield",
		Links: []portal.AddressLink{{LinkDoctype: "Customer", LinkName: "Acme"}},
	}
	a.ID = uuid.New()
	m := AddressModelFromDomain(a)
	require.Len(t, m.Links, 1)
	assert.Equal(t, a.ID, m.Links[0].AddressID)
	assert.Equal(t, "Acme", m.ToDomain().Links[0].LinkName)
}
