package ticket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func submittedTicket(t *testing.T) *ticket.TicketAutomation {
	t.Helper()
	doc := namedTicket()
	require.NoError(t, doc.Submit(testToday))
	return doc
}

func newTestCycle(gw sales.Gateway, opts ...SalesCycleOption) *SalesCycle {
	opts = append([]SalesCycleOption{WithClock(func() time.Time { return testToday })}, opts...)
	return NewSalesCycle(gw, zap.NewNop(), opts...)
}

func TestSalesCycle_Run_Completes(t *testing.T) {
	ctx := context.Background()
	doc := submittedTicket(t)

	gw := new(MockGateway)
	gw.On("GetQuotation", mock.Anything, testTenantID, "QTN-0001").Return(draftQuotation("QTN-0001", 1, 100), nil)
	gw.On("GetQuotation", mock.Anything, testTenantID, "QTN-0002").Return(draftQuotation("QTN-0002", 2, 125), nil)
	gw.On("SubmitQuotation", mock.Anything, testTenantID, "QTN-0001").Return(nil).Once()
	gw.On("SubmitQuotation", mock.Anything, testTenantID, "QTN-0002").Return(nil).Once()
	gw.On("CreateSalesOrder", mock.Anything, testTenantID, mock.MatchedBy(func(o *sales.SalesOrder) bool {
		return o.Customer == "CUST-01" &&
			o.Company == "Acme Ltd" &&
			len(o.Items) == 2 &&
			o.Items[0].PrevDocName == "QTN-0001" &&
			o.Items[1].PrevDocName == "QTN-0002" &&
			o.TransactionDate.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) &&
			o.DeliveryDate.Equal(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC))
	})).Return("SAL-ORD-2024-00001", nil)
	gw.On("DefaultAccount", mock.Anything, testTenantID, "Cash", "Acme Ltd").Return("Cash - AL", nil)
	gw.On("CreatePaymentEntry", mock.Anything, testTenantID, mock.MatchedBy(func(e *sales.PaymentEntry) bool {
		return e.PaymentType == sales.PaymentTypeReceive &&
			e.Party == "CUST-01" &&
			e.PaidTo == "Cash - AL" &&
			e.PaidAmount.String() == "350.5" &&
			e.ReferenceNo == "INV-77" &&
			e.ReferenceDate.Equal(time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)) &&
			len(e.References) == 1 &&
			e.References[0].ReferenceName == "SAL-ORD-2024-00001"
	})).Return("ACC-PAY-2024-00001", nil)

	result, err := newTestCycle(gw).Run(ctx, doc)
	require.NoError(t, err)

	assert.True(t, result.Completed)
	assert.Equal(t, []string{"QTN-0001", "QTN-0002"}, result.SubmittedQuotations)
	assert.Equal(t, "SAL-ORD-2024-00001", result.SalesOrder)
	assert.Equal(t, "ACC-PAY-2024-00001", result.PaymentEntry)
	assert.Equal(t, []string{
		MsgCycleStarting,
		"Quotation QTN-0001 submitted successfully.",
		"Quotation QTN-0002 submitted successfully.",
		"Sales Order SAL-ORD-2024-00001 created from 2 quotations.",
		"Payment Entry ACC-PAY-2024-00001 created and submitted.",
		MsgCycleCompleted,
	}, result.Messages)
	gw.AssertExpectations(t)
}

func TestSalesCycle_Run_SkipsSubmittedQuotations(t *testing.T) {
	ctx := context.Background()
	doc := submittedTicket(t)

	already := draftQuotation("QTN-0001", 1, 100)
	already.DocStatus = sales.DocStatusSubmitted

	gw := new(MockGateway)
	gw.On("GetQuotation", mock.Anything, testTenantID, "QTN-0001").Return(already, nil)
	gw.On("GetQuotation", mock.Anything, testTenantID, "QTN-0002").Return(draftQuotation("QTN-0002", 2, 125), nil)
	gw.On("SubmitQuotation", mock.Anything, testTenantID, "QTN-0002").Return(nil).Once()
	gw.On("CreateSalesOrder", mock.Anything, testTenantID, mock.Anything).Return("SAL-ORD-2024-00002", nil)
	gw.On("DefaultAccount", mock.Anything, testTenantID, "Cash", "Acme Ltd").Return("Cash - AL", nil)
	gw.On("CreatePaymentEntry", mock.Anything, testTenantID, mock.Anything).Return("ACC-PAY-2024-00002", nil)

	result, err := newTestCycle(gw).Run(ctx, doc)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, []string{"QTN-0001", "QTN-0002"}, result.SubmittedQuotations)
	gw.AssertNotCalled(t, "SubmitQuotation", mock.Anything, testTenantID, "QTN-0001")
}

func TestSalesCycle_Run_Stops(t *testing.T) {
	ctx := context.Background()

	t.Run("no quotations", func(t *testing.T) {
		doc := draftTicket("CUST-01")
		require.NoError(t, doc.AssignName("CUST-01-Ticket-#01"))
		require.NoError(t, doc.Submit(testToday))

		gw := new(MockGateway)
		result, err := newTestCycle(gw).Run(ctx, doc)
		require.NoError(t, err)
		assert.False(t, result.Completed)
		assert.Equal(t, []string{MsgCycleStarting, MsgNoQuotations}, result.Messages)
		gw.AssertNotCalled(t, "CreateSalesOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no sales order name", func(t *testing.T) {
		doc := submittedTicket(t)
		gw := new(MockGateway)
		gw.On("GetQuotation", mock.Anything, testTenantID, mock.Anything).Return(draftQuotation("QTN-X", 1, 1), nil)
		gw.On("SubmitQuotation", mock.Anything, testTenantID, mock.Anything).Return(nil)
		gw.On("CreateSalesOrder", mock.Anything, testTenantID, mock.Anything).Return("", nil)

		result, err := newTestCycle(gw).Run(ctx, doc)
		require.NoError(t, err)
		assert.False(t, result.Completed)
		assert.Equal(t, MsgNoSalesOrder, result.Messages[len(result.Messages)-1])
		gw.AssertNotCalled(t, "CreatePaymentEntry", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSalesCycle_Run_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("quotation submit fails", func(t *testing.T) {
		doc := submittedTicket(t)
		gw := new(MockGateway)
		gw.On("GetQuotation", mock.Anything, testTenantID, "QTN-0001").Return(draftQuotation("QTN-0001", 1, 100), nil)
		gw.On("GetQuotation", mock.Anything, testTenantID, "QTN-0002").Return(draftQuotation("QTN-0002", 2, 125), nil)
		gw.On("SubmitQuotation", mock.Anything, testTenantID, "QTN-0001").Return(nil)
		gw.On("SubmitQuotation", mock.Anything, testTenantID, "QTN-0002").Return(errors.New("Insufficient Permission"))

		result, err := newTestCycle(gw).Run(ctx, doc)
		require.Error(t, err)
		assert.Equal(t, "Failed to submit Quotation QTN-0002. Error: Insufficient Permission", err.Error())
		assert.ErrorIs(t, err, shared.NewDomainError("SALES_CYCLE_FAILED", ""))
		assert.Equal(t, []string{"QTN-0001"}, result.SubmittedQuotations)
		gw.AssertNotCalled(t, "CreateSalesOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing payment account", func(t *testing.T) {
		doc := submittedTicket(t)
		gw := new(MockGateway)
		gw.On("GetQuotation", mock.Anything, testTenantID, mock.Anything).Return(draftQuotation("QTN-X", 1, 1), nil)
		gw.On("SubmitQuotation", mock.Anything, testTenantID, mock.Anything).Return(nil)
		gw.On("CreateSalesOrder", mock.Anything, testTenantID, mock.Anything).Return("SAL-ORD-2024-00003", nil)
		gw.On("DefaultAccount", mock.Anything, testTenantID, "Cash", "Acme Ltd").Return("", nil)

		result, err := newTestCycle(gw).Run(ctx, doc)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.NewDomainError("SALES_CYCLE_FAILED", ""))
		assert.ErrorIs(t, err, shared.NewDomainError("PAYMENT_ACCOUNT_MISSING", ""))
		assert.Contains(t, err.Error(), "Failed to create/submit Payment Entry. Error: No default account found for Mode of Payment 'Cash' in company 'Acme Ltd'.")
		assert.Equal(t, "SAL-ORD-2024-00003", result.SalesOrder)
		assert.False(t, result.Completed)
	})
}

func TestSalesCycle_Run_SubmitGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("concurrent submit is rejected", func(t *testing.T) {
		doc := submittedTicket(t)
		gw := new(MockGateway)
		store := new(MockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, "ticket-submit:"+doc.ID.String(), time.Minute).Return(false, nil)

		_, err := newTestCycle(gw, WithSubmitGuard(store, time.Minute)).Run(ctx, doc)
		assert.ErrorIs(t, err, shared.NewDomainError("SUBMIT_IN_PROGRESS", ""))
		gw.AssertNotCalled(t, "GetQuotation", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed run releases the claim", func(t *testing.T) {
		doc := submittedTicket(t)
		key := "ticket-submit:" + doc.ID.String()

		gw := new(MockGateway)
		gw.On("GetQuotation", mock.Anything, testTenantID, mock.Anything).Return(nil, shared.ErrNotFound)

		store := new(MockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, key, DefaultSubmitGuardTTL).Return(true, nil)
		store.On("Release", mock.Anything, key).Return(nil).Once()

		_, err := newTestCycle(gw, WithSubmitGuard(store, 0)).Run(ctx, doc)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		store.AssertExpectations(t)
	})
}
