package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/erp/ticketing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Naming series prefixes of the local ledger. Orders and payments append the posting year.
const (
	QuotationSeries    = "SAL-QTN-"
	SalesOrderSeries   = "SAL-ORD-"
	PaymentEntrySeries = "ACC-PAY-"
	seriesDigits       = 5
)

// GormLedgerGateway is the local sales backend: quotations, orders and payments stored
// in this service's own database. It implements sales.Gateway.
type GormLedgerGateway struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormLedgerGateway creates a new GormLedgerGateway
func NewGormLedgerGateway(db *gorm.DB) *GormLedgerGateway {
	return &GormLedgerGateway{db: db, now: time.Now}
}

// ListQuotations lists a party's quotations, newest first. The status match ignores case.
func (g *GormLedgerGateway) ListQuotations(ctx context.Context, tenantID uuid.UUID, filter sales.QuotationFilter) ([]sales.QuotationSummary, error) {
	query := g.db.WithContext(ctx).Model(&models.QuotationModel{}).
		Scopes(TenantScope(tenantID)).
		Where("party_name = ?", filter.PartyName)
	if filter.Status != "" {
		query = query.Where("LOWER(status) = LOWER(?)", filter.Status)
	}

	var list []models.QuotationModel
	if err := query.Order("created_at DESC").Order("name DESC").Find(&list).Error; err != nil {
		return nil, err
	}

	summaries := make([]sales.QuotationSummary, len(list))
	for i := range list {
		summaries[i] = list[i].ToSummary()
	}
	return summaries, nil
}

// GetQuotation loads a quotation with its items
func (g *GormLedgerGateway) GetQuotation(ctx context.Context, tenantID uuid.UUID, name string) (*sales.Quotation, error) {
	model, err := g.findQuotation(g.db.WithContext(ctx), tenantID, name)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// SubmitQuotation moves a draft quotation to submitted
func (g *GormLedgerGateway) SubmitQuotation(ctx context.Context, tenantID uuid.UUID, name string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := g.findQuotation(tx, tenantID, name)
		if err != nil {
			return err
		}
		q := model.ToDomain()
		if err := q.Submit(); err != nil {
			return err
		}
		return tx.Model(&models.QuotationModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]interface{}{
				"doc_status": q.DocStatus,
				"status":     q.Status,
				"updated_at": g.now(),
			}).Error
	})
}

// CreateQuotation inserts a quotation, naming it from the SAL-QTN- series when it has no name
func (g *GormLedgerGateway) CreateQuotation(ctx context.Context, tenantID uuid.UUID, q *sales.Quotation) (string, error) {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if q.Name == "" {
			name, err := nextSeriesName(tx, tenantID, QuotationSeries)
			if err != nil {
				return err
			}
			q.Name = name
		}
		if q.Status == "" {
			q.Status = "Draft"
		}
		if q.GrandTotal.IsZero() {
			q.RecalculateGrandTotal()
		}
		return tx.Create(models.QuotationModelFromDomain(tenantID, q, g.now())).Error
	})
	if err != nil {
		return "", err
	}
	return q.Name, nil
}

// CreateSalesOrder names, submits and stores an order
func (g *GormLedgerGateway) CreateSalesOrder(ctx context.Context, tenantID uuid.UUID, order *sales.SalesOrder) (string, error) {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		name, err := nextSeriesName(tx, tenantID, yearSeries(SalesOrderSeries, order.TransactionDate))
		if err != nil {
			return err
		}
		order.Name = name
		if err := order.Submit(); err != nil {
			return err
		}
		return tx.Create(models.SalesOrderModelFromDomain(tenantID, order, g.now())).Error
	})
	if err != nil {
		return "", err
	}
	return order.Name, nil
}

// GetSalesOrder loads an order with its items
func (g *GormLedgerGateway) GetSalesOrder(ctx context.Context, tenantID uuid.UUID, name string) (*sales.SalesOrder, error) {
	var model models.SalesOrderModel
	if err := g.db.WithContext(ctx).
		Preload("Items", preloadRows).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// DefaultAccount returns the configured account, or "" when the mode of payment has none for the company
func (g *GormLedgerGateway) DefaultAccount(ctx context.Context, tenantID uuid.UUID, modeOfPayment, company string) (string, error) {
	var model models.ModeOfPaymentAccountModel
	err := g.db.WithContext(ctx).
		Where("tenant_id = ? AND mode_of_payment = ? AND company = ?", tenantID, modeOfPayment, company).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return model.DefaultAccount, nil
}

// SetDefaultAccount creates or replaces the default account of a mode of payment for a company
func (g *GormLedgerGateway) SetDefaultAccount(ctx context.Context, tenantID uuid.UUID, modeOfPayment, company, account string) error {
	model := &models.ModeOfPaymentAccountModel{
		TenantID:       tenantID,
		ModeOfPayment:  modeOfPayment,
		Company:        company,
		DefaultAccount: account,
	}
	now := g.now()
	model.ID = uuid.New()
	model.CreatedAt = now
	model.UpdatedAt = now

	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "mode_of_payment"}, {Name: "company"}},
		DoUpdates: clause.AssignmentColumns([]string{"default_account", "updated_at"}),
	}).Create(model).Error
}

// CreatePaymentEntry names, submits and stores a payment entry
func (g *GormLedgerGateway) CreatePaymentEntry(ctx context.Context, tenantID uuid.UUID, entry *sales.PaymentEntry) (string, error) {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		name, err := nextSeriesName(tx, tenantID, yearSeries(PaymentEntrySeries, entry.PostingDate))
		if err != nil {
			return err
		}
		entry.Name = name
		if err := entry.Submit(); err != nil {
			return err
		}
		return tx.Create(models.PaymentEntryModelFromDomain(tenantID, entry, g.now())).Error
	})
	if err != nil {
		return "", err
	}
	return entry.Name, nil
}

// GetPaymentEntry loads a payment entry with its references
func (g *GormLedgerGateway) GetPaymentEntry(ctx context.Context, tenantID uuid.UUID, name string) (*sales.PaymentEntry, error) {
	var model models.PaymentEntryModel
	if err := g.db.WithContext(ctx).
		Preload("References", preloadRows).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (g *GormLedgerGateway) findQuotation(db *gorm.DB, tenantID uuid.UUID, name string) (*models.QuotationModel, error) {
	var model models.QuotationModel
	if err := db.
		Preload("Items", preloadRows).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}

func yearSeries(prefix string, date time.Time) string {
	if date.IsZero() {
		date = time.Now()
	}
	return fmt.Sprintf("%s%d-", prefix, date.Year())
}

// nextSeriesName bumps the counter of a prefix and formats the next name, e.g. SAL-ORD-2025-00001
func nextSeriesName(tx *gorm.DB, tenantID uuid.UUID, prefix string) (string, error) {
	seed := &models.NamingSeriesModel{TenantID: tenantID, Prefix: prefix, LastValue: 1}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "prefix"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_value": gorm.Expr("naming_series.last_value + 1"),
		}),
	}).Create(seed).Error; err != nil {
		return "", err
	}

	var series models.NamingSeriesModel
	if err := tx.Where("tenant_id = ? AND prefix = ?", tenantID, prefix).First(&series).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%0*d", prefix, seriesDigits, series.LastValue), nil
}

// Ensure GormLedgerGateway implements sales.Gateway
var _ sales.Gateway = (*GormLedgerGateway)(nil)
