package portal

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository reads portal users
type UserRepository interface {
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
}

// RegistrationStore persists a user, its customer and address atomically
type RegistrationStore interface {
	CreateRegistration(ctx context.Context, user *User, customer *Customer, address *Address) error
}
