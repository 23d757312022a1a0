package ticket

import (
	"context"

	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/google/uuid"
)

// TicketAutomationRepository persists ticket automation documents
type TicketAutomationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*TicketAutomation, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*TicketAutomation, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]TicketAutomation, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByCustomer counts the tickets of a customer, used for naming
	CountByCustomer(ctx context.Context, tenantID uuid.UUID, customer string) (int64, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)

	// Save inserts or updates the document and its rows
	Save(ctx context.Context, t *TicketAutomation) error
	// SaveWithLock updates the document only if its stored version matches (optimistic lock)
	SaveWithLock(ctx context.Context, t *TicketAutomation) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
