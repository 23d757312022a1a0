package portal

import (
	"strings"

	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/google/uuid"
)

// AddressLink ties an address to another document
type AddressLink struct {
	LinkDoctype string
	LinkName    string
}

// Address is a postal address linked to a customer and its user
type Address struct {
	shared.BaseEntity
	TenantID     uuid.UUID
	AddressTitle string
	AddressLine1 string
	AddressLine2 string
	City         string
	Pincode      string
	Country      string
	Phone        string
	Links        []AddressLink
}

// AddressInput holds the postal fields of a registration
type AddressInput struct {
	AddressLine1 string
	AddressLine2 string
	City         string
	PostalCode   string
	Country      string
	Phone        string
}

// NewCustomerAddress creates the address of a newly registered customer, linked to the customer and the user
func NewCustomerAddress(tenantID uuid.UUID, customer *Customer, user *User, in AddressInput) (*Address, error) {
	if strings.TrimSpace(in.AddressLine1) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address line 1 is required")
	}
	if strings.TrimSpace(in.City) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "City is required")
	}

	return &Address{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     tenantID,
		AddressTitle: customer.CustomerName,
		AddressLine1: strings.TrimSpace(in.AddressLine1),
		AddressLine2: strings.TrimSpace(in.AddressLine2),
		City:         strings.TrimSpace(in.City),
		Pincode:      strings.TrimSpace(in.PostalCode),
		Country:      strings.TrimSpace(in.Country),
		Phone:        strings.TrimSpace(in.Phone),
		Links: []AddressLink{
			{LinkDoctype: "Customer", LinkName: customer.CustomerName},
			{LinkDoctype: "User", LinkName: user.Email},
		},
	}, nil
}
