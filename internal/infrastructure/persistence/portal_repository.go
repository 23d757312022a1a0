package persistence

import (
	"context"
	"errors"

	"github.com/erp/ticketing/internal/domain/portal"
	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/erp/ticketing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements portal.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByEmail finds a portal user by email within a tenant
func (r *GormUserRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*portal.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, portal.NormalizeEmail(email)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks if an email is registered within a tenant
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	return emailTaken(r.db.WithContext(ctx), tenantID, email)
}

// GormRegistrationStore implements portal.RegistrationStore using GORM
type GormRegistrationStore struct {
	db *gorm.DB
}

// NewGormRegistrationStore creates a new GormRegistrationStore
func NewGormRegistrationStore(db *gorm.DB) *GormRegistrationStore {
	return &GormRegistrationStore{db: db}
}

// CreateRegistration inserts the user, its customer and the linked address in one transaction.
// A taken email yields shared.ErrAlreadyExists and nothing is written.
func (s *GormRegistrationStore) CreateRegistration(ctx context.Context, user *portal.User, customer *portal.Customer, address *portal.Address) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, user.TenantID, user.Email)
		if err != nil {
			return err
		}
		if taken {
			return shared.ErrAlreadyExists
		}

		if err := tx.Create(models.UserModelFromDomain(user)).Error; err != nil {
			return err
		}
		customer.UserID = user.ID
		if err := tx.Create(models.CustomerModelFromDomain(customer)).Error; err != nil {
			return err
		}
		if address == nil {
			return nil
		}
		return tx.Create(models.AddressModelFromDomain(address)).Error
	})
}

func emailTaken(db *gorm.DB, tenantID uuid.UUID, email string) (bool, error) {
	var count int64
	if err := db.Model(&models.UserModel{}).
		Where("tenant_id = ? AND email = ?", tenantID, portal.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var (
	_ portal.UserRepository    = (*GormUserRepository)(nil)
	_ portal.RegistrationStore = (*GormRegistrationStore)(nil)
)
