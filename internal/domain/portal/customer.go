package portal

import (
	"strings"

	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerType distinguishes companies from individuals
type CustomerType string

const (
	CustomerTypeCompany    CustomerType = "Company"
	CustomerTypeIndividual CustomerType = "Individual"
)

// Customer is the selling party record linked to a portal user
type Customer struct {
	shared.TenantAggregateRoot
	CustomerName string
	CustomerType CustomerType
	EmailID      string
	MobileNo     string
	UserID       uuid.UUID
}

// NewRegisteredCustomer names the customer after the company when given,
// otherwise after the person, and types it accordingly.
func NewRegisteredCustomer(tenantID uuid.UUID, companyName, firstName, lastName, email, mobileNo string) (*Customer, error) {
	companyName = strings.TrimSpace(companyName)
	name := companyName
	customerType := CustomerTypeCompany
	if name == "" {
		name = strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
		customerType = CustomerTypeIndividual
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if len(name) > 140 {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot exceed 140 characters")
	}

	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerName:        name,
		CustomerType:        customerType,
		EmailID:             NormalizeEmail(email),
		MobileNo:            strings.TrimSpace(mobileNo),
	}, nil
}
