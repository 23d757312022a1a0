// Package ticket implements the Ticket Automation use cases: the form events,
// the document lifecycle and the sales cycle run on submit.
package ticket

import (
	"context"
	"strings"
	"time"

	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/erp/ticketing/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxSubmitSaveAttempts = 3

// Defaults fill in company and mode of payment when a request leaves them empty
type Defaults struct {
	Company       string
	ModeOfPayment string
}

// TicketService handles ticket automation business operations
type TicketService struct {
	repo           ticket.TicketAutomationRepository
	gateway        sales.Gateway
	cycle          *SalesCycle
	eventPublisher shared.EventPublisher
	metrics        *telemetry.TicketMetrics
	defaults       Defaults
	now            func() time.Time
	logger         *zap.Logger
}

// NewTicketService creates a new TicketService
func NewTicketService(repo ticket.TicketAutomationRepository, gateway sales.Gateway, cycle *SalesCycle, logger *zap.Logger) *TicketService {
	return &TicketService{
		repo:    repo,
		gateway: gateway,
		cycle:   cycle,
		now:     time.Now,
		logger:  logger,
	}
}

// SetEventPublisher sets the publisher for ticket events
func (s *TicketService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the business metrics recorder
func (s *TicketService) SetMetrics(m *telemetry.TicketMetrics) {
	s.metrics = m
}

// SetDefaults sets the company and mode of payment used when a request omits them
func (s *TicketService) SetDefaults(d Defaults) {
	s.defaults = d
}

// SetClock replaces time.Now for submission timestamps
func (s *TicketService) SetClock(now func() time.Time) {
	s.now = now
}

// Create builds a draft, loads the customer's draft quotations, names and saves it
func (s *TicketService) Create(ctx context.Context, tenantID uuid.UUID, req CreateTicketAutomationRequest) (*TicketAutomationResponse, error) {
	t, err := ticket.NewTicketAutomation(tenantID, req.Customer,
		firstNonEmpty(req.Company, s.defaults.Company),
		firstNonEmpty(req.ModeOfPayment, s.defaults.ModeOfPayment),
		req.InvoiceReferenceNo,
	)
	if err != nil {
		return nil, err
	}

	form := s.form(t)
	if _, err := form.OnCustomerChange(ctx); err != nil && !isStale(err) {
		return nil, err
	}
	if len(req.CustomerQuotations) > 0 {
		if err := form.ReplaceRows(ToRows(req.CustomerQuotations)); err != nil {
			return nil, err
		}
	}
	form.OnValidate(ctx)

	name, err := s.nextName(ctx, t)
	if err != nil {
		return nil, err
	}
	if err := t.AssignName(name); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.metrics.RecordTicketCreated(ctx, tenantID.String())
	s.publish(ctx, t)

	response := ToTicketAutomationResponse(t)
	return &response, nil
}

// nextName applies the autoname rule, skipping names left taken by renamed or foreign rows
func (s *TicketService) nextName(ctx context.Context, t *ticket.TicketAutomation) (string, error) {
	count, err := s.repo.CountByCustomer(ctx, t.TenantID, t.Customer)
	if err != nil {
		return "", err
	}
	for {
		name := ticket.Autoname(t.Customer, count)
		exists, err := s.repo.ExistsByName(ctx, t.TenantID, name)
		if err != nil {
			return "", err
		}
		if !exists {
			return name, nil
		}
		count++
	}
}

// GetByID retrieves a ticket by ID
func (s *TicketService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TicketAutomationResponse, error) {
	t, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToTicketAutomationResponse(t)
	return &response, nil
}

// GetByName retrieves a ticket by its document name
func (s *TicketService) GetByName(ctx context.Context, tenantID uuid.UUID, name string) (*TicketAutomationResponse, error) {
	t, err := s.repo.FindByName(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	response := ToTicketAutomationResponse(t)
	return &response, nil
}

// List retrieves tickets with filtering and pagination
func (s *TicketService) List(ctx context.Context, tenantID uuid.UUID, filter TicketListFilter) ([]TicketAutomationListItemResponse, int64, error) {
	domainFilter := filter.toDomainFilter()

	list, err := s.repo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTicketAutomationListItemResponses(list), total, nil
}

// Update changes a draft. A new customer reloads the rows; explicit rows replace them.
func (s *TicketService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateTicketAutomationRequest) (*TicketAutomationResponse, error) {
	t, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditable(ctx, t); err != nil {
		return nil, err
	}

	if req.Company != nil || req.ModeOfPayment != nil || req.InvoiceReferenceNo != nil {
		if err := t.SetDetails(
			valueOr(req.Company, t.Company),
			valueOr(req.ModeOfPayment, t.ModeOfPayment),
			valueOr(req.InvoiceReferenceNo, t.InvoiceReferenceNo),
		); err != nil {
			return nil, err
		}
	}

	form := s.form(t)
	if req.Customer != nil {
		if _, err := form.ChangeCustomer(ctx, *req.Customer); err != nil && !isStale(err) {
			return nil, err
		}
	}
	if req.CustomerQuotations != nil {
		if err := form.ReplaceRows(ToRows(req.CustomerQuotations)); err != nil {
			return nil, err
		}
	}
	form.OnValidate(ctx)

	if err := s.repo.SaveWithLock(ctx, t); err != nil {
		return nil, err
	}
	s.publish(ctx, t)

	response := ToTicketAutomationResponse(t)
	return &response, nil
}

// RefreshQuotations reruns the customer change for the current customer and saves the result
func (s *TicketService) RefreshQuotations(ctx context.Context, tenantID, id uuid.UUID) (*TicketAutomationResponse, error) {
	t, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditable(ctx, t); err != nil {
		return nil, err
	}

	form := s.form(t)
	outcome, err := form.OnCustomerChange(ctx)
	if err != nil && !isStale(err) {
		return nil, err
	}
	form.OnValidate(ctx)

	if outcome == FetchApplied {
		if err := s.repo.SaveWithLock(ctx, t); err != nil {
			return nil, err
		}
		s.publish(ctx, t)
	}

	response := ToTicketAutomationResponse(t)
	return &response, nil
}

// Delete removes a draft
func (s *TicketService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	t, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.requireEditable(ctx, t); err != nil {
		return err
	}
	return s.repo.DeleteForTenant(ctx, tenantID, id)
}

// Submit validates and submits the ticket, then runs the sales cycle. The ticket is saved
// only when the cycle did not fail, so a failed run leaves it in draft for a retry.
func (s *TicketService) Submit(ctx context.Context, tenantID, id uuid.UUID) (*SubmitTicketAutomationResponse, error) {
	t, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	var (
		result *SalesCycleResult
		runErr error
	)
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("ticket_submit", tenantID.String()), func(ctx context.Context) {
		s.form(t).OnValidate(ctx)
		if runErr = t.Submit(s.now()); runErr != nil {
			return
		}
		result, runErr = s.cycle.Run(ctx, t)
	})
	if runErr != nil {
		return nil, runErr
	}

	if result.SalesOrder != "" {
		if err := t.RecordSalesCycle(result.SalesOrder, result.PaymentEntry); err != nil {
			return nil, err
		}
	}
	if err := s.saveSubmitted(ctx, t); err != nil {
		s.logger.Error("Submitted ticket could not be saved after its sales cycle",
			zap.String("ticket", t.Name),
			zap.String("sales_order", result.SalesOrder),
			zap.String("payment_entry", result.PaymentEntry),
			zap.Error(err),
		)
		return nil, err
	}
	s.publish(ctx, t)

	return &SubmitTicketAutomationResponse{
		Ticket:     ToTicketAutomationResponse(t),
		SalesCycle: result,
	}, nil
}

// saveSubmitted persists a ticket whose cycle already ran. The sales documents exist
// in the backend by now, so an edit that slipped in meanwhile is overwritten with the
// submitted state instead of dropping the cycle outcome.
func (s *TicketService) saveSubmitted(ctx context.Context, t *ticket.TicketAutomation) error {
	for attempt := 1; ; attempt++ {
		err := s.repo.SaveWithLock(ctx, t)
		if err == nil || attempt == maxSubmitSaveAttempts || !isConcurrentModification(err) {
			return err
		}
		current, findErr := s.repo.FindByIDForTenant(ctx, t.TenantID, t.ID)
		if findErr != nil {
			return findErr
		}
		s.logger.Warn("Ticket changed during its sales cycle, keeping the submitted state",
			zap.String("ticket", t.Name),
			zap.Int("version", t.Version),
			zap.Int("current_version", current.Version),
		)
		t.Version = current.Version
	}
}

// requireEditable rejects changes to submitted tickets and to drafts whose submit is running
func (s *TicketService) requireEditable(ctx context.Context, t *ticket.TicketAutomation) error {
	if err := requireDraft(t); err != nil {
		return err
	}
	if s.cycle != nil && s.cycle.InProgress(ctx, t) {
		return errSubmitInProgress(t)
	}
	return nil
}

// ListDraftQuotations runs the customer-change list query without touching any ticket
func (s *TicketService) ListDraftQuotations(ctx context.Context, tenantID uuid.UUID, customer string) ([]QuotationSummaryResponse, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Customer is required")
	}
	list, err := s.gateway.ListQuotations(ctx, tenantID, sales.DraftQuotationsFor(customer))
	if err != nil {
		return nil, err
	}
	return ToQuotationSummaryResponses(list), nil
}

func (s *TicketService) form(t *ticket.TicketAutomation) *FormController {
	return NewFormController(t, s.gateway, WithFormMetrics(s.metrics), WithFormLogger(s.logger))
}

// publish sends and clears the queued events. Publish failures are logged, the save stands.
func (s *TicketService) publish(ctx context.Context, t *ticket.TicketAutomation) {
	events := t.GetDomainEvents()
	t.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish ticket events", zap.String("ticket", t.Name), zap.Error(err))
	}
}

func isConcurrentModification(err error) bool {
	de, ok := shared.AsDomainError(err)
	return ok && de.Code == "CONCURRENT_MODIFICATION"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
