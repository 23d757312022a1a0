package ticket

import (
	"context"
	"fmt"

	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TicketArchiver archives the print of a submitted ticket
type TicketArchiver interface {
	Archive(ctx context.Context, tenantID, id uuid.UUID) (string, error)
}

// SalesCycleCompletedHandler archives the PDF print of a ticket once its sales cycle completed
type SalesCycleCompletedHandler struct {
	archiver TicketArchiver
	logger   *zap.Logger
}

// NewSalesCycleCompletedHandler creates a new handler for sales cycle completed events
func NewSalesCycleCompletedHandler(archiver TicketArchiver, logger *zap.Logger) *SalesCycleCompletedHandler {
	return &SalesCycleCompletedHandler{
		archiver: archiver,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SalesCycleCompletedHandler) EventTypes() []string {
	return []string{ticket.EventTypeSalesCycleCompleted}
}

// Handle processes a SalesCycleCompletedEvent
func (h *SalesCycleCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*ticket.SalesCycleCompletedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", ticket.EventTypeSalesCycleCompleted),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ticket.EventTypeSalesCycleCompleted, event.EventType())
	}

	url, err := h.archiver.Archive(ctx, event.TenantID(), completed.TicketID)
	if err != nil {
		h.logger.Error("failed to archive ticket print",
			zap.String("ticket", completed.Name),
			zap.String("sales_order", completed.SalesOrder),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("ticket print archived",
		zap.String("ticket", completed.Name),
		zap.String("sales_order", completed.SalesOrder),
		zap.String("payment_entry", completed.PaymentEntry),
		zap.Bool("has_link", url != ""),
	)
	return nil
}

// Ensure SalesCycleCompletedHandler implements shared.EventHandler
var _ shared.EventHandler = (*SalesCycleCompletedHandler)(nil)

var _ TicketArchiver = (*PrintService)(nil)
