package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/erp/ticketing/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// User-facing notices emitted while the cycle runs
const (
	MsgCycleStarting      = "Starting automation of the sales cycle..."
	MsgNoQuotations       = "No valid Quotations found to submit. Stopping cycle."
	MsgNoSalesOrder       = "Sales Order could not be created/submitted. Stopping cycle."
	MsgCycleCompleted     = "Sales cycle automation completed successfully."
	DefaultSubmitGuardTTL = 10 * time.Minute
)

// SalesCycleResult is the outcome of one sales cycle run
type SalesCycleResult struct {
	SubmittedQuotations []string `json:"submitted_quotations"`
	SalesOrder          string   `json:"sales_order,omitempty"`
	PaymentEntry        string   `json:"payment_entry,omitempty"`
	Messages            []string `json:"messages"`
	Completed           bool     `json:"completed"`
}

func (r *SalesCycleResult) notify(msg string) {
	r.Messages = append(r.Messages, msg)
}

// SalesCycle submits a ticket's quotations, then creates and submits one sales order
// and a payment entry against it.
type SalesCycle struct {
	gateway  sales.Gateway
	guard    shared.IdempotencyStore
	guardTTL time.Duration
	now      func() time.Time
	backend  string
	metrics  *telemetry.TicketMetrics
	logger   *zap.Logger
}

// SalesCycleOption configures a SalesCycle
type SalesCycleOption func(*SalesCycle)

// WithClock replaces time.Now
func WithClock(now func() time.Time) SalesCycleOption {
	return func(c *SalesCycle) {
		c.now = now
	}
}

// WithSubmitGuard makes concurrent runs for the same ticket fail fast
func WithSubmitGuard(store shared.IdempotencyStore, ttl time.Duration) SalesCycleOption {
	return func(c *SalesCycle) {
		c.guard = store
		if ttl > 0 {
			c.guardTTL = ttl
		}
	}
}

// WithCycleMetrics records gateway latency and cycle outcomes under backend
func WithCycleMetrics(m *telemetry.TicketMetrics, backend string) SalesCycleOption {
	return func(c *SalesCycle) {
		c.metrics = m
		c.backend = backend
	}
}

// NewSalesCycle creates a sales cycle over gateway
func NewSalesCycle(gateway sales.Gateway, logger *zap.Logger, opts ...SalesCycleOption) *SalesCycle {
	c := &SalesCycle{
		gateway:  gateway,
		guardTTL: DefaultSubmitGuardTTL,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the cycle for a submitted ticket. A stop (nothing to submit) is not an error;
// the returned result has Completed=false and the stop message. A failing step returns a
// SALES_CYCLE_FAILED error together with the partial result.
func (c *SalesCycle) Run(ctx context.Context, t *ticket.TicketAutomation) (*SalesCycleResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ticket.sales_cycle",
		telemetry.WithAttribute("ticket.id", t.ID.String()),
		telemetry.WithAttribute("ticket.name", t.Name),
	)
	defer span.End()

	if c.guard != nil {
		key := submitGuardKey(t)
		claimed, err := c.guard.MarkProcessed(ctx, key, c.guardTTL)
		if err != nil {
			c.logger.Warn("Submit guard unavailable, running unguarded", zap.String("key", key), zap.Error(err))
		} else if !claimed {
			return nil, errSubmitInProgress(t)
		}
	}

	result, outcome, err := c.run(ctx, t)
	if err != nil {
		telemetry.RecordError(span, err)
		if c.guard != nil {
			if relErr := c.guard.Release(ctx, submitGuardKey(t)); relErr != nil {
				c.logger.Warn("Failed to release submit guard", zap.Error(relErr))
			}
		}
	}
	telemetry.SetAttributes(span, "cycle.outcome", outcome)
	c.metrics.RecordSalesCycle(ctx, t.TenantID.String(), outcome, t.TotalAmount)
	return result, err
}

// InProgress reports whether a submit holds the ticket's guard. An unreadable guard
// counts as free, the same way Run proceeds unguarded.
func (c *SalesCycle) InProgress(ctx context.Context, t *ticket.TicketAutomation) bool {
	if c.guard == nil {
		return false
	}
	held, err := c.guard.IsProcessed(ctx, submitGuardKey(t))
	if err != nil {
		c.logger.Warn("Submit guard unavailable", zap.String("key", submitGuardKey(t)), zap.Error(err))
		return false
	}
	return held
}

func (c *SalesCycle) run(ctx context.Context, t *ticket.TicketAutomation) (*SalesCycleResult, string, error) {
	result := &SalesCycleResult{
		SubmittedQuotations: make([]string, 0, len(t.CustomerQuotations)),
		Messages:            make([]string, 0, 6),
	}
	result.notify(MsgCycleStarting)
	today := c.now()

	quotations, err := c.submitQuotations(ctx, t, result)
	if err != nil {
		return result, telemetry.CycleFailed, err
	}
	if len(result.SubmittedQuotations) == 0 {
		result.notify(MsgNoQuotations)
		return result, telemetry.CycleStopped, nil
	}

	order, err := sales.NewSalesOrderFromQuotations(t.Customer, t.Company, today, quotations)
	if err != nil {
		return result, telemetry.CycleFailed, cycleError("Failed to create/submit Sales Order", err)
	}
	orderName, err := c.timed(ctx, "create_sales_order", func(ctx context.Context) (string, error) {
		return c.gateway.CreateSalesOrder(ctx, t.TenantID, order)
	})
	if err != nil {
		return result, telemetry.CycleFailed, cycleError("Failed to create/submit Sales Order", err)
	}
	if orderName == "" {
		result.notify(MsgNoSalesOrder)
		return result, telemetry.CycleStopped, nil
	}
	result.SalesOrder = orderName
	result.notify(fmt.Sprintf("Sales Order %s created from %d quotations.", orderName, len(result.SubmittedQuotations)))

	entryName, err := c.createPaymentEntry(ctx, t, orderName, today)
	if err != nil {
		return result, telemetry.CycleFailed, cycleError("Failed to create/submit Payment Entry", err)
	}
	result.PaymentEntry = entryName
	result.notify(fmt.Sprintf("Payment Entry %s created and submitted.", entryName))

	result.Completed = true
	result.notify(MsgCycleCompleted)
	c.logger.Info("Sales cycle completed",
		zap.String("ticket", t.Name),
		zap.String("sales_order", orderName),
		zap.String("payment_entry", entryName),
	)
	return result, telemetry.CycleCompleted, nil
}

// submitQuotations submits each row's quotation in table order. Already submitted ones are kept as is.
func (c *SalesCycle) submitQuotations(ctx context.Context, t *ticket.TicketAutomation, result *SalesCycleResult) ([]*sales.Quotation, error) {
	quotations := make([]*sales.Quotation, 0, len(t.CustomerQuotations))
	for _, name := range t.QuotationNames() {
		q, err := c.getQuotation(ctx, t, name)
		if err != nil {
			return nil, cycleError(fmt.Sprintf("Failed to submit Quotation %s", name), err)
		}

		if q.IsSubmitted() {
			result.SubmittedQuotations = append(result.SubmittedQuotations, name)
			quotations = append(quotations, q)
			continue
		}

		_, err = c.timed(ctx, "submit_quotation", func(ctx context.Context) (string, error) {
			return "", c.gateway.SubmitQuotation(ctx, t.TenantID, name)
		})
		if err != nil {
			return nil, cycleError(fmt.Sprintf("Failed to submit Quotation %s", name), err)
		}
		result.SubmittedQuotations = append(result.SubmittedQuotations, name)
		result.notify(fmt.Sprintf("Quotation %s submitted successfully.", name))
		quotations = append(quotations, q)
	}
	return quotations, nil
}

func (c *SalesCycle) getQuotation(ctx context.Context, t *ticket.TicketAutomation, name string) (*sales.Quotation, error) {
	var q *sales.Quotation
	_, err := c.timed(ctx, "get_quotation", func(ctx context.Context) (string, error) {
		var err error
		q, err = c.gateway.GetQuotation(ctx, t.TenantID, name)
		return "", err
	})
	return q, err
}

func (c *SalesCycle) createPaymentEntry(ctx context.Context, t *ticket.TicketAutomation, orderName string, today time.Time) (string, error) {
	account, err := c.timed(ctx, "default_account", func(ctx context.Context) (string, error) {
		return c.gateway.DefaultAccount(ctx, t.TenantID, t.ModeOfPayment, t.Company)
	})
	if err != nil {
		return "", err
	}

	entry, err := sales.NewReceiptAgainstSalesOrder(sales.ReceiptParams{
		Company:       t.Company,
		Customer:      t.Customer,
		ModeOfPayment: t.ModeOfPayment,
		PaidTo:        account,
		Amount:        t.TotalAmount,
		ReferenceNo:   t.InvoiceReferenceNo,
		SalesOrder:    orderName,
		Today:         today,
	})
	if err != nil {
		return "", err
	}
	return c.timed(ctx, "create_payment_entry", func(ctx context.Context) (string, error) {
		return c.gateway.CreatePaymentEntry(ctx, t.TenantID, entry)
	})
}

func (c *SalesCycle) timed(ctx context.Context, step string, fn func(context.Context) (string, error)) (string, error) {
	start := time.Now()
	out, err := fn(ctx)
	c.metrics.RecordGatewayCall(ctx, c.backend, step, time.Since(start), err)
	return out, err
}

func submitGuardKey(t *ticket.TicketAutomation) string {
	return "ticket-submit:" + t.ID.String()
}

func errSubmitInProgress(t *ticket.TicketAutomation) error {
	return shared.NewDomainError("SUBMIT_IN_PROGRESS",
		fmt.Sprintf("Ticket automation %s is already being submitted", t.Name))
}

// cycleError wraps a step failure as SALES_CYCLE_FAILED, keeping the cause's message
func cycleError(prefix string, cause error) error {
	return &CycleError{
		DomainError: shared.NewDomainError("SALES_CYCLE_FAILED", fmt.Sprintf("%s. Error: %s", prefix, cause.Error())),
		Cause:       cause,
	}
}

// CycleError is a failed sales cycle step. It matches SALES_CYCLE_FAILED and unwraps to the step's error.
type CycleError struct {
	*shared.DomainError
	Cause error
}

// Unwrap returns the failing step's error
func (e *CycleError) Unwrap() []error {
	return []error{e.DomainError, e.Cause}
}
