package telemetry

import (
	"context"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Fetch outcomes recorded by RecordQuotationFetch
const (
	FetchApplied = "applied"
	FetchStale   = "stale"
	FetchFailed  = "error"
	FetchSkipped = "skipped"
)

// Sales cycle outcomes recorded by RecordSalesCycle
const (
	CycleCompleted = "completed"
	CycleStopped   = "stopped"
	CycleFailed    = "failed"
)

// TicketMetrics records ticket automation business metrics.
// A nil *TicketMetrics is valid and records nothing.
type TicketMetrics struct {
	ticketsCreated   *Counter
	quotationFetches *Counter
	salesCycles      *Counter
	settledAmount    *Counter
	gatewayLatency   *Histogram
}

// NewTicketMetrics registers the instruments on meter
func NewTicketMetrics(meter metric.Meter) (*TicketMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		tm  TicketMetrics
		err error
	)
	if tm.ticketsCreated, err = NewCounter(meter, "erp_ticket_created_total", "Ticket automations created", "{tickets}"); err != nil {
		return nil, err
	}
	if tm.quotationFetches, err = NewCounter(meter, "erp_ticket_quotation_fetch_total", "Draft quotation lookups by outcome", "{fetches}"); err != nil {
		return nil, err
	}
	if tm.salesCycles, err = NewCounter(meter, "erp_ticket_sales_cycle_total", "Submit pipelines by outcome", "{cycles}"); err != nil {
		return nil, err
	}
	if tm.settledAmount, err = NewCounter(meter, "erp_ticket_settled_amount_total", "Amount received through completed sales cycles in cents", "{cents}"); err != nil {
		return nil, err
	}
	if tm.gatewayLatency, err = NewHistogram(meter, "erp_ticket_gateway_duration_seconds", "Latency of ERP gateway calls", "s", DurationBuckets); err != nil {
		return nil, err
	}
	return &tm, nil
}

// RecordTicketCreated counts a new ticket
func (m *TicketMetrics) RecordTicketCreated(ctx context.Context, tenantID string) {
	if m == nil {
		return
	}
	m.ticketsCreated.Inc(ctx, AttrTenantID.String(tenantID))
}

// RecordQuotationFetch counts a customer-change lookup
func (m *TicketMetrics) RecordQuotationFetch(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.quotationFetches.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordSalesCycle counts a submit pipeline run; amount is only added for completed cycles
func (m *TicketMetrics) RecordSalesCycle(ctx context.Context, tenantID, outcome string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrTenantID.String(tenantID), AttrOutcome.String(outcome)}
	m.salesCycles.Inc(ctx, attrs...)
	if outcome == CycleCompleted {
		m.settledAmount.Add(ctx, amount.Shift(2).IntPart(), AttrTenantID.String(tenantID))
	}
}

// RecordGatewayCall records latency of one gateway step
func (m *TicketMetrics) RecordGatewayCall(ctx context.Context, backend, step string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.gatewayLatency.RecordDuration(ctx, d,
		AttrBackend.String(backend),
		AttrStep.String(step),
		AttrOutcome.String(outcome),
	)
}

// WithProfilingLabels runs fn with pyroscope labels attached to its samples
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	if len(labels) == 0 {
		fn(ctx)
		return
	}
	pairs := make([]string, 0, len(labels)*2)
	for k, v := range labels {
		if k == "" || v == "" {
			continue
		}
		pairs = append(pairs, k, v)
	}
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// OperationLabels builds labels for a named business operation
func OperationLabels(operation, tenantID string) map[string]string {
	return map[string]string{"operation": operation, "tenant_id": tenantID}
}
