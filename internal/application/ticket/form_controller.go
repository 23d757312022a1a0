package ticket

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/erp/ticketing/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrStaleResponse reports a quotation list that arrived after a newer customer change
var ErrStaleResponse = errors.New("stale quotation response discarded")

// FetchOutcome describes what OnCustomerChange did
type FetchOutcome string

const (
	// FetchApplied means the rows were replaced with the list response
	FetchApplied FetchOutcome = telemetry.FetchApplied
	// FetchSkipped means the customer was empty and nothing was queried
	FetchSkipped FetchOutcome = telemetry.FetchSkipped
	// FetchStale means a newer change superseded this one and the response was dropped
	FetchStale FetchOutcome = telemetry.FetchStale
)

// FormController runs the Ticket Automation form events against one document.
// Events may be fired concurrently; the last customer change wins.
type FormController struct {
	doc     *ticket.TicketAutomation
	lister  sales.QuotationLister
	refresh FieldRefresher
	metrics *telemetry.TicketMetrics
	logger  *zap.Logger

	mu  sync.Mutex
	seq atomic.Uint64
}

// FormOption configures a FormController
type FormOption func(*FormController)

// WithRefresher sets the hook called after a field is recomputed
func WithRefresher(fn FieldRefresher) FormOption {
	return func(c *FormController) {
		c.refresh = fn
	}
}

// WithFormMetrics records quotation fetch outcomes
func WithFormMetrics(m *telemetry.TicketMetrics) FormOption {
	return func(c *FormController) {
		c.metrics = m
	}
}

// WithFormLogger sets the logger
func WithFormLogger(l *zap.Logger) FormOption {
	return func(c *FormController) {
		c.logger = l
	}
}

// NewFormController binds the form events of doc to a quotation source
func NewFormController(doc *ticket.TicketAutomation, lister sales.QuotationLister, opts ...FormOption) *FormController {
	c := &FormController{
		doc:     doc,
		lister:  lister,
		refresh: func(string) {},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Document returns the bound document
func (c *FormController) Document() *ticket.TicketAutomation {
	return c.doc
}

// OnLoad handles the form refresh event. It has no effect.
func (c *FormController) OnLoad(ctx context.Context) error {
	return nil
}

// OnCustomerChange reloads the customer's draft quotations into the rows.
// An empty customer is a no-op. A failed query leaves the rows untouched.
// A response overtaken by a later call is dropped and reported as FetchStale with ErrStaleResponse.
func (c *FormController) OnCustomerChange(ctx context.Context) (FetchOutcome, error) {
	c.mu.Lock()
	customer := c.doc.Customer
	tenantID := c.doc.TenantID
	if customer == "" {
		c.mu.Unlock()
		c.metrics.RecordQuotationFetch(ctx, telemetry.FetchSkipped)
		return FetchSkipped, nil
	}
	// an empty customer takes no token, so it leaves a pending lookup alone
	token := c.seq.Add(1)
	c.mu.Unlock()

	ctx, span := telemetry.StartSpan(ctx, "ticket.on_customer_change",
		telemetry.WithAttribute("ticket.customer", customer),
	)
	defer span.End()

	list, err := c.lister.ListQuotations(ctx, tenantID, sales.DraftQuotationsFor(customer))
	if err != nil {
		telemetry.RecordError(span, err)
		c.metrics.RecordQuotationFetch(ctx, telemetry.FetchFailed)
		c.logger.Warn("Quotation lookup failed", zap.String("customer", customer), zap.Error(err))
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.seq.Load() {
		c.metrics.RecordQuotationFetch(ctx, telemetry.FetchStale)
		c.logger.Debug("Discarding stale quotation response",
			zap.String("customer", customer),
			zap.Uint64("token", token),
		)
		return FetchStale, ErrStaleResponse
	}

	if err := c.doc.ReplaceQuotations(ticket.RowsFromSummaries(list)); err != nil {
		return "", err
	}
	telemetry.SetAttributes(span, "ticket.rows", len(list))
	c.metrics.RecordQuotationFetch(ctx, telemetry.FetchApplied)
	c.refresh(ticket.FieldCustomerQuotations)
	return FetchApplied, nil
}

// ChangeCustomer sets the customer and fires OnCustomerChange when the value changed
func (c *FormController) ChangeCustomer(ctx context.Context, customer string) (FetchOutcome, error) {
	c.mu.Lock()
	changed, err := c.doc.SetCustomer(customer)
	c.mu.Unlock()
	if err != nil {
		return "", err
	}
	if !changed {
		return FetchSkipped, nil
	}
	return c.OnCustomerChange(ctx)
}

// OnValidate recomputes total_amount from the rows. Running it twice gives the same total.
func (c *FormController) OnValidate(ctx context.Context) decimal.Decimal {
	c.mu.Lock()
	total := c.doc.CalculateTotalAmount()
	c.mu.Unlock()

	c.refresh(ticket.FieldTotalAmount)
	return total
}

// ReplaceRows sets explicit rows, as entered by hand on the form
func (c *FormController) ReplaceRows(rows []ticket.QuotationRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.doc.ReplaceQuotations(rows); err != nil {
		return err
	}
	// a pending customer-change response must not overwrite hand-entered rows
	c.seq.Add(1)
	c.refresh(ticket.FieldCustomerQuotations)
	return nil
}

// isStale reports whether err is a dropped customer-change response
func isStale(err error) bool {
	return errors.Is(err, ErrStaleResponse)
}

// requireDraft rejects changes to submitted tickets
func requireDraft(t *ticket.TicketAutomation) error {
	if !t.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Submitted ticket automation cannot be modified")
	}
	return nil
}
