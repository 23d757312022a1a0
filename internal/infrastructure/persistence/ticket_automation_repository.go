package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/erp/ticketing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTicketAutomationRepository implements TicketAutomationRepository using GORM
type GormTicketAutomationRepository struct {
	db *gorm.DB
}

// NewGormTicketAutomationRepository creates a new GormTicketAutomationRepository
func NewGormTicketAutomationRepository(db *gorm.DB) *GormTicketAutomationRepository {
	return &GormTicketAutomationRepository{db: db}
}

func preloadRows(db *gorm.DB) *gorm.DB {
	return db.Order("idx ASC")
}

// FindByIDForTenant finds a ticket by ID within a tenant
func (r *GormTicketAutomationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ticket.TicketAutomation, error) {
	var model models.TicketAutomationModel
	if err := r.db.WithContext(ctx).
		Preload("Quotations", preloadRows).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a ticket by its document name within a tenant
func (r *GormTicketAutomationRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*ticket.TicketAutomation, error) {
	var model models.TicketAutomationModel
	if err := r.db.WithContext(ctx).
		Preload("Quotations", preloadRows).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all tickets of a tenant matching the filter
func (r *GormTicketAutomationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ticket.TicketAutomation, error) {
	var list []models.TicketAutomationModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TicketAutomationModel{}).Scopes(TenantScope(tenantID)),
		filter,
	)
	if err := query.Preload("Quotations", preloadRows).Find(&list).Error; err != nil {
		return nil, err
	}

	tickets := make([]ticket.TicketAutomation, len(list))
	for i := range list {
		tickets[i] = *list[i].ToDomain()
	}
	return tickets, nil
}

// CountForTenant counts the tickets of a tenant matching the filter
func (r *GormTicketAutomationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.TicketAutomationModel{}).Scopes(TenantScope(tenantID)),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCustomer counts the tickets already raised for a customer
func (r *GormTicketAutomationRepository) CountByCustomer(ctx context.Context, tenantID uuid.UUID, customer string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TicketAutomationModel{}).
		Where("tenant_id = ? AND customer = ?", tenantID, customer).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks if a ticket name is taken within a tenant
func (r *GormTicketAutomationRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TicketAutomationModel{}).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a ticket and rewrites its quotation rows
func (r *GormTicketAutomationRepository) Save(ctx context.Context, t *ticket.TicketAutomation) error {
	model := models.TicketAutomationModelFromDomain(t)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return replaceQuotationRows(tx, model)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormTicketAutomationRepository) SaveWithLock(ctx context.Context, t *ticket.TicketAutomation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current := t.Version
		updatedAt := time.Now()

		result := tx.Model(&models.TicketAutomationModel{}).
			Where("tenant_id = ? AND id = ? AND version = ?", t.TenantID, t.ID, current).
			Updates(map[string]interface{}{
				"customer":             t.Customer,
				"company":              t.Company,
				"mode_of_payment":      t.ModeOfPayment,
				"invoice_reference_no": t.InvoiceReferenceNo,
				"total_amount":         t.TotalAmount,
				"status":               t.Status,
				"sales_order":          t.SalesOrder,
				"payment_entry":        t.PaymentEntry,
				"submitted_at":         t.SubmittedAt,
				"version":              current + 1,
				"updated_at":           updatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The ticket has been modified by another user")
		}

		model := models.TicketAutomationModelFromDomain(t)
		if err := replaceQuotationRows(tx, model); err != nil {
			return err
		}

		t.Version = current + 1
		t.UpdatedAt = updatedAt
		return nil
	})
}

// DeleteForTenant deletes a ticket and its rows within a tenant
func (r *GormTicketAutomationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.TicketAutomationModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Delete(&models.TicketQuotationRowModel{}, "ticket_id = ?", id).Error
	})
}

// replaceQuotationRows deletes the stored rows of a ticket and inserts the model's rows in order
func replaceQuotationRows(tx *gorm.DB, model *models.TicketAutomationModel) error {
	if err := tx.Delete(&models.TicketQuotationRowModel{}, "ticket_id = ?", model.ID).Error; err != nil {
		return err
	}
	if len(model.Quotations) == 0 {
		return nil
	}
	return tx.Create(&model.Quotations).Error
}

func (r *GormTicketAutomationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, TicketSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormTicketAutomationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(customer) LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer":
			query = query.Where("customer = ?", value)
		case "company":
			query = query.Where("company = ?", value)
		}
	}
	return query
}

// Ensure GormTicketAutomationRepository implements TicketAutomationRepository
var _ ticket.TicketAutomationRepository = (*GormTicketAutomationRepository)(nil)
