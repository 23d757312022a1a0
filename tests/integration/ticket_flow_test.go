package integration

import (
	"net/http"
	"os"
	"testing"
	"time"

	ticketapp "github.com/erp/ticketing/internal/application/ticket"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/erp/ticketing/internal/interfaces/http/handler"
	"github.com/erp/ticketing/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

func TestTicketFlow_CreateSubmitPrint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	app := newTestApp(t, false)
	api := app.client()
	tenantID := api.TenantID

	q1 := app.seedQuotation(t, tenantID, "CUST-01", "Draft", 2, 100)
	q2 := app.seedQuotation(t, tenantID, "CUST-01", "Draft", 1, 50)
	app.seedQuotation(t, tenantID, "CUST-01", "Open", 1, 999)
	app.seedQuotation(t, tenantID, "CUST-02", "Draft", 1, 10)
	app.setDefaultAccount(t, tenantID)

	t.Run("draft quotation lookup", func(t *testing.T) {
		rec := api.Do(t, http.MethodGet, "/api/v1/quotations?customer=CUST-01", nil)
		list := testutil.RequireData[[]ticketapp.QuotationSummaryResponse](t, rec, http.StatusOK)
		require.Len(t, list, 2)
		assert.ElementsMatch(t, []string{q1, q2}, []string{list[0].Name, list[1].Name})
	})

	var created ticketapp.TicketAutomationResponse
	t.Run("create loads draft quotations", func(t *testing.T) {
		rec := api.Do(t, http.MethodPost, "/api/v1/ticket-automations", map[string]any{
			"customer":             "CUST-01",
			"invoice_reference_no": "INV-100",
		})
		created = testutil.RequireData[ticketapp.TicketAutomationResponse](t, rec, http.StatusCreated)

		assert.Equal(t, "CUST-01-Ticket-#01", created.Name)
		assert.Equal(t, "draft", created.Status)
		assert.Equal(t, "Vellap Ltd", created.Company)
		assert.Equal(t, "Cash", created.ModeOfPayment)
		require.Len(t, created.CustomerQuotations, 2)
		assert.True(t, created.TotalAmount.Equal(decimal.NewFromInt(250)), created.TotalAmount.String())
	})

	t.Run("second ticket gets the next name", func(t *testing.T) {
		rec := api.Do(t, http.MethodPost, "/api/v1/ticket-automations", map[string]any{"customer": "CUST-01"})
		second := testutil.RequireData[ticketapp.TicketAutomationResponse](t, rec, http.StatusCreated)
		assert.Equal(t, "CUST-01-Ticket-#02", second.Name)

		rec = api.Do(t, http.MethodDelete, "/api/v1/ticket-automations/"+second.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("lookup by name", func(t *testing.T) {
		rec := api.Do(t, http.MethodGet, "/api/v1/ticket-automations/by-name/CUST-01-Ticket-%2301", nil)
		got := testutil.RequireData[ticketapp.TicketAutomationResponse](t, rec, http.StatusOK)
		assert.Equal(t, created.ID, got.ID)
	})

	var submitted ticketapp.SubmitTicketAutomationResponse
	t.Run("submit runs the sales cycle", func(t *testing.T) {
		rec := api.Do(t, http.MethodPost, "/api/v1/ticket-automations/"+created.ID.String()+"/submit", nil)
		submitted = testutil.RequireData[ticketapp.SubmitTicketAutomationResponse](t, rec, http.StatusOK)

		require.NotNil(t, submitted.SalesCycle)
		assert.True(t, submitted.SalesCycle.Completed)
		assert.ElementsMatch(t, []string{q1, q2}, submitted.SalesCycle.SubmittedQuotations)
		assert.NotEmpty(t, submitted.SalesCycle.SalesOrder)
		assert.NotEmpty(t, submitted.SalesCycle.PaymentEntry)
		assert.Equal(t, ticketapp.MsgCycleStarting, submitted.SalesCycle.Messages[0])
		assert.Equal(t, ticketapp.MsgCycleCompleted, submitted.SalesCycle.Messages[len(submitted.SalesCycle.Messages)-1])

		assert.Equal(t, "submitted", submitted.Ticket.Status)
		assert.Equal(t, submitted.SalesCycle.SalesOrder, submitted.Ticket.SalesOrder)
		assert.NotNil(t, submitted.Ticket.SubmittedAt)
	})

	t.Run("ledger holds the cycle documents", func(t *testing.T) {
		assert.Equal(t, int64(2), submittedQuotations(t, app.DB, tenantID))
		assert.Equal(t, int64(1), app.DB.CountRows("sales_orders", "tenant_id = ? AND doc_status = 1", tenantID))
		assert.Equal(t, int64(2), app.DB.CountRows("sales_order_items si JOIN sales_orders so ON so.id = si.sales_order_id",
			"so.tenant_id = ?", tenantID))

		entry, err := app.Ledger.GetPaymentEntry(t.Context(), tenantID, submitted.SalesCycle.PaymentEntry)
		require.NoError(t, err)
		assert.True(t, entry.PaidAmount.Equal(decimal.NewFromInt(250)))
		assert.Equal(t, "Cash - VL", entry.PaidTo)
		assert.Equal(t, "INV-100", entry.ReferenceNo)
		require.Len(t, entry.References, 1)
		assert.Equal(t, submitted.SalesCycle.SalesOrder, entry.References[0].ReferenceName)
	})

	t.Run("completed cycle is published and archived", func(t *testing.T) {
		testutil.RequireEventually(t, func() bool {
			return eventsOfType(app.Events, tenantID, ticket.EventTypeSalesCycleCompleted) == 1
		}, 2*time.Second)
		assert.Equal(t, 1, eventsOfType(app.Events, tenantID, ticket.EventTypeTicketAutomationSubmitted))

		testutil.RequireEventually(t, func() bool {
			_, ok := app.Archive.Get("ticket-automations/" + tenantID.String() + "/CUST-01-Ticket-#01.pdf")
			return ok
		}, 2*time.Second)
	})

	t.Run("submitted ticket is read only", func(t *testing.T) {
		rec := api.Do(t, http.MethodPost, "/api/v1/ticket-automations/"+created.ID.String()+"/submit", nil)
		testutil.AssertErrorCode(t, rec, http.StatusUnprocessableEntity, "ERR_ALREADY_SUBMITTED")

		rec = api.Do(t, http.MethodPut, "/api/v1/ticket-automations/"+created.ID.String(), map[string]any{"company": "Other"})
		assert.GreaterOrEqual(t, rec.Code, http.StatusBadRequest)
		assert.Less(t, rec.Code, http.StatusInternalServerError)
	})

	t.Run("print html and archived pdf", func(t *testing.T) {
		rec := api.Do(t, http.MethodGet, "/api/v1/ticket-automations/"+created.ID.String()+"/print", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "CUST-01-Ticket-#01")

		rec = api.Do(t, http.MethodGet, "/api/v1/ticket-automations/"+created.ID.String()+"/print?format=pdf&download=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		assert.NotEmpty(t, rec.Header().Get(handler.ArchiveURLHeader))
	})
}

func TestTicketFlow_FailedCycleCanBeRetried(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	app := newTestApp(t, false)
	api := app.client()
	tenantID := api.TenantID

	app.seedQuotation(t, tenantID, "CUST-09", "Draft", 3, 40)

	rec := api.Do(t, http.MethodPost, "/api/v1/ticket-automations", map[string]any{"customer": "CUST-09"})
	created := testutil.RequireData[ticketapp.TicketAutomationResponse](t, rec, http.StatusCreated)
	path := "/api/v1/ticket-automations/" + created.ID.String()

	// No default account for Cash yet: the payment entry step fails
	rec = api.Do(t, http.MethodPost, path+"/submit", nil)
	testutil.AssertErrorCode(t, rec, http.StatusBadGateway, "ERR_SALES_CYCLE_FAILED")

	rec = api.Do(t, http.MethodGet, path, nil)
	afterFailure := testutil.RequireData[ticketapp.TicketAutomationResponse](t, rec, http.StatusOK)
	assert.Equal(t, "draft", afterFailure.Status)
	assert.Equal(t, int64(1), submittedQuotations(t, app.DB, tenantID))

	app.setDefaultAccount(t, tenantID)

	rec = api.Do(t, http.MethodPost, path+"/submit", nil)
	result := testutil.RequireData[ticketapp.SubmitTicketAutomationResponse](t, rec, http.StatusOK)
	assert.True(t, result.SalesCycle.Completed)
	assert.Len(t, result.SalesCycle.SubmittedQuotations, 1)
	assert.Equal(t, "submitted", result.Ticket.Status)
	assert.Equal(t, int64(1), app.DB.CountRows("payment_entries", "tenant_id = ?", tenantID))
}

func TestTicketFlow_NoDraftQuotationsStopsCycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	app := newTestApp(t, false)
	api := app.client()

	rec := api.Do(t, http.MethodPost, "/api/v1/ticket-automations", map[string]any{"customer": "CUST-EMPTY"})
	created := testutil.RequireData[ticketapp.TicketAutomationResponse](t, rec, http.StatusCreated)
	assert.Empty(t, created.CustomerQuotations)

	rec = api.Do(t, http.MethodPost, "/api/v1/ticket-automations/"+created.ID.String()+"/submit", nil)
	result := testutil.RequireData[ticketapp.SubmitTicketAutomationResponse](t, rec, http.StatusOK)
	assert.False(t, result.SalesCycle.Completed)
	assert.Contains(t, result.SalesCycle.Messages, ticketapp.MsgNoQuotations)
	assert.Empty(t, result.Ticket.SalesOrder)
	assert.Equal(t, int64(0), app.DB.CountRows("sales_orders", "tenant_id = ?", api.TenantID))
}

func TestTicketFlow_TenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	app := newTestApp(t, false)
	tenantA := app.client()
	tenantB := app.client()

	app.seedQuotation(t, tenantA.TenantID, "CUST-SHARED", "Draft", 1, 10)

	rec := tenantA.Do(t, http.MethodPost, "/api/v1/ticket-automations", map[string]any{"customer": "CUST-SHARED"})
	created := testutil.RequireData[ticketapp.TicketAutomationResponse](t, rec, http.StatusCreated)
	require.Len(t, created.CustomerQuotations, 1)

	rec = tenantB.Do(t, http.MethodGet, "/api/v1/ticket-automations/"+created.ID.String(), nil)
	testutil.AssertErrorCode(t, rec, http.StatusNotFound, "ERR_NOT_FOUND")

	rec = tenantB.Do(t, http.MethodGet, "/api/v1/quotations?customer=CUST-SHARED", nil)
	assert.Empty(t, testutil.RequireData[[]ticketapp.QuotationSummaryResponse](t, rec, http.StatusOK))

	// Same customer in tenant B starts its own name counter
	rec = tenantB.Do(t, http.MethodPost, "/api/v1/ticket-automations", map[string]any{"customer": "CUST-SHARED"})
	other := testutil.RequireData[ticketapp.TicketAutomationResponse](t, rec, http.StatusCreated)
	assert.Equal(t, created.Name, other.Name)
	assert.Empty(t, other.CustomerQuotations)
}
