package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedQuotation(t *testing.T, g *GormLedgerGateway, tenantID uuid.UUID, party, status string, rate int64) string {
	t.Helper()
	name, err := g.CreateQuotation(context.Background(), tenantID, &sales.Quotation{
		PartyName:       party,
		Company:         "Vellap",
		Status:          status,
		TransactionDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Items: []sales.QuotationItem{
			{ItemCode: "SKU-1", ItemName: "Widget", Qty: decimal.NewFromInt(2), Rate: decimal.NewFromInt(rate), UOM: "Nos"},
		},
	})
	require.NoError(t, err)
	return name
}

func TestGormLedgerGateway_ListQuotations(t *testing.T) {
	ctx := context.Background()
	g := NewGormLedgerGateway(newSQLiteDB(t))
	tenantID := uuid.New()

	first := seedQuotation(t, g, tenantID, "CUST-01", "Draft", 50)
	seedQuotation(t, g, tenantID, "CUST-01", "Open", 10)
	seedQuotation(t, g, tenantID, "CUST-02", "Draft", 10)
	seedQuotation(t, g, uuid.New(), "CUST-01", "Draft", 10)

	assert.Equal(t, "SAL-QTN-00001", first)

	list, err := g.ListQuotations(ctx, tenantID, sales.DraftQuotationsFor("CUST-01"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first, list[0].Name)
	assert.Equal(t, "Draft", list[0].Status)
	assert.True(t, list[0].GrandTotal.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "2025-03-01", list[0].TransactionDate.Format(sales.DateLayout))

	all, err := g.ListQuotations(ctx, tenantID, sales.QuotationFilter{PartyName: "CUST-01"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := g.ListQuotations(ctx, tenantID, sales.DraftQuotationsFor("CUST-99"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormLedgerGateway_SubmitQuotation(t *testing.T) {
	ctx := context.Background()
	g := NewGormLedgerGateway(newSQLiteDB(t))
	tenantID := uuid.New()
	name := seedQuotation(t, g, tenantID, "CUST-01", "Draft", 50)

	require.NoError(t, g.SubmitQuotation(ctx, tenantID, name))

	q, err := g.GetQuotation(ctx, tenantID, name)
	require.NoError(t, err)
	assert.True(t, q.IsSubmitted())
	assert.Equal(t, sales.QuotationStatusOpen, q.Status)
	require.Len(t, q.Items, 1)
	assert.Equal(t, "SKU-1", q.Items[0].ItemCode)

	err = g.SubmitQuotation(ctx, tenantID, name)
	require.Error(t, err)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "ALREADY_SUBMITTED", de.Code)

	assert.ErrorIs(t, g.SubmitQuotation(ctx, tenantID, "SAL-QTN-99999"), shared.ErrNotFound)
}

func TestGormLedgerGateway_SalesOrderAndPayment(t *testing.T) {
	ctx := context.Background()
	g := NewGormLedgerGateway(newSQLiteDB(t))
	tenantID := uuid.New()
	name := seedQuotation(t, g, tenantID, "CUST-01", "Draft", 50)
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	q, err := g.GetQuotation(ctx, tenantID, name)
	require.NoError(t, err)
	order, err := sales.NewSalesOrderFromQuotations("CUST-01", "Vellap", today, []*sales.Quotation{q})
	require.NoError(t, err)

	soName, err := g.CreateSalesOrder(ctx, tenantID, order)
	require.NoError(t, err)
	assert.Equal(t, "SAL-ORD-2025-00001", soName)

	stored, err := g.GetSalesOrder(ctx, tenantID, soName)
	require.NoError(t, err)
	assert.Equal(t, sales.DocStatusSubmitted, stored.DocStatus)
	assert.Equal(t, "2025-03-17", stored.DeliveryDate.Format(sales.DateLayout))
	require.Len(t, stored.Items, 1)
	assert.Equal(t, name, stored.Items[0].PrevDocName)

	account, err := g.DefaultAccount(ctx, tenantID, "Cash", "Vellap")
	require.NoError(t, err)
	assert.Empty(t, account)

	require.NoError(t, g.SetDefaultAccount(ctx, tenantID, "Cash", "Vellap", "Cash - V"))
	require.NoError(t, g.SetDefaultAccount(ctx, tenantID, "Cash", "Vellap", "Petty Cash - V"))
	account, err = g.DefaultAccount(ctx, tenantID, "Cash", "Vellap")
	require.NoError(t, err)
	assert.Equal(t, "Petty Cash - V", account)

	entry, err := sales.NewReceiptAgainstSalesOrder(sales.ReceiptParams{
		Company:       "Vellap",
		Customer:      "CUST-01",
		ModeOfPayment: "Cash",
		PaidTo:        account,
		Amount:        decimal.NewFromInt(100),
		SalesOrder:    soName,
		Today:         today,
	})
	require.NoError(t, err)

	peName, err := g.CreatePaymentEntry(ctx, tenantID, entry)
	require.NoError(t, err)
	assert.Equal(t, "ACC-PAY-2025-00001", peName)

	second, err := sales.NewSalesOrderFromQuotations("CUST-01", "Vellap", today, []*sales.Quotation{q})
	require.NoError(t, err)
	soName2, err := g.CreateSalesOrder(ctx, tenantID, second)
	require.NoError(t, err)
	assert.Equal(t, "SAL-ORD-2025-00002", soName2)

	pe, err := g.GetPaymentEntry(ctx, tenantID, peName)
	require.NoError(t, err)
	assert.Equal(t, sales.DocStatusSubmitted, pe.DocStatus)
	require.Len(t, pe.References, 1)
	assert.Equal(t, soName, pe.References[0].ReferenceName)
	assert.True(t, pe.PaidAmount.Equal(decimal.NewFromInt(100)))
}
