package ticket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFormController_OnCustomerChange(t *testing.T) {
	ctx := context.Background()

	t.Run("loads draft quotations in list order", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("ListQuotations", mock.Anything, testTenantID, sales.QuotationFilter{PartyName: "CUST-01", Status: "draft"}).
			Return(cust01Quotations(), nil).Once()

		doc := draftTicket("CUST-01")
		c := NewFormController(doc, gw)

		outcome, err := c.OnCustomerChange(ctx)
		require.NoError(t, err)
		assert.Equal(t, FetchApplied, outcome)

		require.Len(t, doc.CustomerQuotations, 2)
		assert.Equal(t, 1, doc.CustomerQuotations[0].Idx)
		assert.Equal(t, "QTN-0001", doc.CustomerQuotations[0].Quotation)
		assert.True(t, decimal.NewFromInt(100).Equal(doc.CustomerQuotations[0].TotalAmount))
		assert.Equal(t, "Draft", doc.CustomerQuotations[0].Status)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), doc.CustomerQuotations[0].Date)
		assert.Equal(t, 2, doc.CustomerQuotations[1].Idx)
		assert.Equal(t, "QTN-0002", doc.CustomerQuotations[1].Quotation)

		total := c.OnValidate(ctx)
		assert.Equal(t, "350.5", total.String())
		assert.True(t, total.Equal(doc.TotalAmount))
		gw.AssertExpectations(t)
	})

	t.Run("empty customer is a no-op", func(t *testing.T) {
		gw := new(MockGateway)
		doc := draftTicket("")
		require.NoError(t, doc.ReplaceQuotations([]ticket.QuotationRow{ticket.NewQuotationRow("QTN-9", 5, "Draft", testToday)}))

		outcome, err := NewFormController(doc, gw).OnCustomerChange(ctx)
		require.NoError(t, err)
		assert.Equal(t, FetchSkipped, outcome)
		assert.Len(t, doc.CustomerQuotations, 1)
		gw.AssertNotCalled(t, "ListQuotations", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty response clears the table", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("ListQuotations", mock.Anything, testTenantID, mock.Anything).Return([]sales.QuotationSummary{}, nil)

		doc := namedTicket()
		c := NewFormController(doc, gw)

		outcome, err := c.OnCustomerChange(ctx)
		require.NoError(t, err)
		assert.Equal(t, FetchApplied, outcome)
		assert.Empty(t, doc.CustomerQuotations)
		assert.True(t, c.OnValidate(ctx).IsZero())
	})

	t.Run("failed query leaves rows untouched", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("ListQuotations", mock.Anything, testTenantID, mock.Anything).Return(nil, errors.New("connection refused"))

		doc := namedTicket()
		_, err := NewFormController(doc, gw).OnCustomerChange(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, []string{"QTN-0001", "QTN-0002"}, doc.QuotationNames())
	})

	t.Run("same response twice gives the same table", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("ListQuotations", mock.Anything, testTenantID, mock.Anything).Return(cust01Quotations(), nil).Twice()

		doc := draftTicket("CUST-01")
		c := NewFormController(doc, gw)

		_, err := c.OnCustomerChange(ctx)
		require.NoError(t, err)
		first := append([]ticket.QuotationRow(nil), doc.CustomerQuotations...)

		_, err = c.OnCustomerChange(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, doc.CustomerQuotations)
		assert.Equal(t, c.OnValidate(ctx), c.OnValidate(ctx))
	})

	t.Run("refresher is told about changed fields", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("ListQuotations", mock.Anything, testTenantID, mock.Anything).Return(cust01Quotations(), nil)

		var fields []string
		c := NewFormController(draftTicket("CUST-01"), gw, WithRefresher(func(field string) {
			fields = append(fields, field)
		}))

		_, err := c.OnCustomerChange(ctx)
		require.NoError(t, err)
		c.OnValidate(ctx)
		assert.Equal(t, []string{ticket.FieldCustomerQuotations, ticket.FieldTotalAmount}, fields)
	})
}

func TestFormController_StaleResponses(t *testing.T) {
	ctx := context.Background()

	t.Run("latest customer wins", func(t *testing.T) {
		lister := newBlockingLister()
		lister.answer("CUST-A", []sales.QuotationSummary{{Name: "QTN-A", GrandTotal: decimal.NewFromInt(1)}})
		lister.answer("CUST-B", []sales.QuotationSummary{{Name: "QTN-B", GrandTotal: decimal.NewFromInt(2)}})

		doc := draftTicket("")
		c := NewFormController(doc, lister)

		type res struct {
			outcome FetchOutcome
			err     error
		}
		first := make(chan res, 1)
		second := make(chan res, 1)

		go func() {
			o, err := c.ChangeCustomer(ctx, "CUST-A")
			first <- res{o, err}
		}()
		require.Equal(t, "CUST-A", <-lister.started)

		go func() {
			o, err := c.ChangeCustomer(ctx, "CUST-B")
			second <- res{o, err}
		}()
		require.Equal(t, "CUST-B", <-lister.started)

		lister.unblock("CUST-B")
		r := <-second
		require.NoError(t, r.err)
		assert.Equal(t, FetchApplied, r.outcome)

		lister.unblock("CUST-A")
		r = <-first
		assert.ErrorIs(t, r.err, ErrStaleResponse)
		assert.Equal(t, FetchStale, r.outcome)

		assert.Equal(t, "CUST-B", doc.Customer)
		assert.Equal(t, []string{"QTN-B"}, doc.QuotationNames())
	})

	t.Run("hand-entered rows drop a pending response", func(t *testing.T) {
		lister := newBlockingLister()
		lister.answer("CUST-01", cust01Quotations())

		doc := draftTicket("CUST-01")
		c := NewFormController(doc, lister)

		done := make(chan error, 1)
		go func() {
			_, err := c.OnCustomerChange(ctx)
			done <- err
		}()
		require.Equal(t, "CUST-01", <-lister.started)

		require.NoError(t, c.ReplaceRows([]ticket.QuotationRow{ticket.NewQuotationRow("QTN-MANUAL", "42.00", "Draft", testToday)}))
		lister.unblock("CUST-01")

		assert.ErrorIs(t, <-done, ErrStaleResponse)
		assert.Equal(t, []string{"QTN-MANUAL"}, doc.QuotationNames())
		assert.Equal(t, "42", c.OnValidate(ctx).String())
	})
}

func TestFormController_ClearingCustomerKeepsPendingLookup(t *testing.T) {
	ctx := context.Background()
	lister := newBlockingLister()
	lister.answer("CUST-01", cust01Quotations())

	doc := draftTicket("CUST-01")
	c := NewFormController(doc, lister)

	done := make(chan FetchOutcome, 1)
	go func() {
		outcome, _ := c.OnCustomerChange(ctx)
		done <- outcome
	}()
	require.Equal(t, "CUST-01", <-lister.started)

	outcome, err := c.ChangeCustomer(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, FetchSkipped, outcome)

	lister.unblock("CUST-01")
	assert.Equal(t, FetchApplied, <-done)
	assert.Equal(t, []string{"QTN-0001", "QTN-0002"}, doc.QuotationNames())
	assert.Empty(t, doc.Customer)
}

func TestFormController_ChangeCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("unchanged customer does not query", func(t *testing.T) {
		gw := new(MockGateway)
		doc := namedTicket()

		outcome, err := NewFormController(doc, gw).ChangeCustomer(ctx, " CUST-01 ")
		require.NoError(t, err)
		assert.Equal(t, FetchSkipped, outcome)
		gw.AssertNotCalled(t, "ListQuotations", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("submitted ticket rejects changes", func(t *testing.T) {
		gw := new(MockGateway)
		doc := namedTicket()
		require.NoError(t, doc.Submit(testToday))

		_, err := NewFormController(doc, gw).ChangeCustomer(ctx, "CUST-02")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Equal(t, "CUST-01", doc.Customer)
	})
}
