package models

import (
	"strings"

	"github.com/erp/ticketing/internal/domain/portal"
	"github.com/google/uuid"
)

// UserModel is the persistence model for a portal website user.
type UserModel struct {
	TenantAggregateModel
	Email        string `gorm:"type:varchar(200);not null;index"`
	FirstName    string `gorm:"type:varchar(140);not null"`
	LastName     string `gorm:"type:varchar(140)"`
	MobileNo     string `gorm:"type:varchar(40)"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	UserType     string `gorm:"type:varchar(40);not null"`
	Enabled      bool   `gorm:"not null;default:true"`
	Roles        string `gorm:"type:varchar(500)"` // comma separated
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "portal_users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *portal.User {
	u := &portal.User{
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		MobileNo:     m.MobileNo,
		PasswordHash: m.PasswordHash,
		UserType:     m.UserType,
		Enabled:      m.Enabled,
		Roles:        make([]string, 0),
	}
	m.PopulateTenantAggregateRoot(&u.TenantAggregateRoot)
	for _, r := range strings.Split(m.Roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			u.Roles = append(u.Roles, r)
		}
	}
	return u
}

// UserModelFromDomain creates a persistence model from a domain User.
func UserModelFromDomain(u *portal.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		MobileNo:     u.MobileNo,
		PasswordHash: u.PasswordHash,
		UserType:     u.UserType,
		Enabled:      u.Enabled,
		Roles:        strings.Join(u.Roles, ","),
	}
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	return m
}

// CustomerModel is the persistence model for a registered customer.
type CustomerModel struct {
	TenantAggregateModel
	CustomerName string              `gorm:"type:varchar(140);not null;index"`
	CustomerType portal.CustomerType `gorm:"type:varchar(20);not null"`
	EmailID      string              `gorm:"type:varchar(200);index"`
	MobileNo     string              `gorm:"type:varchar(40)"`
	UserID       uuid.UUID           `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *portal.Customer {
	c := &portal.Customer{
		CustomerName: m.CustomerName,
		CustomerType: m.CustomerType,
		EmailID:      m.EmailID,
		MobileNo:     m.MobileNo,
		UserID:       m.UserID,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// CustomerModelFromDomain creates a persistence model from a domain Customer.
func CustomerModelFromDomain(c *portal.Customer) *CustomerModel {
	m := &CustomerModel{
		CustomerName: c.CustomerName,
		CustomerType: c.CustomerType,
		EmailID:      c.EmailID,
		MobileNo:     c.MobileNo,
		UserID:       c.UserID,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// AddressModel is the persistence model for a postal address.
type AddressModel struct {
	BaseModel
	TenantID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	AddressTitle string             `gorm:"type:varchar(140)"`
	AddressLine1 string             `gorm:"type:varchar(240);not null"`
	AddressLine2 string             `gorm:"type:varchar(240)"`
	City         string             `gorm:"type:varchar(140);not null"`
	Pincode      string             `gorm:"type:varchar(20)"`
	Country      string             `gorm:"type:varchar(140)"`
	Phone        string             `gorm:"type:varchar(40)"`
	Links        []AddressLinkModel `gorm:"foreignKey:AddressID;references:ID"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the persistence model to a domain Address.
func (m *AddressModel) ToDomain() *portal.Address {
	a := &portal.Address{
		BaseEntity:   m.BaseModel.ToDomain(),
		TenantID:     m.TenantID,
		AddressTitle: m.AddressTitle,
		AddressLine1: m.AddressLine1,
		AddressLine2: m.AddressLine2,
		City:         m.City,
		Pincode:      m.Pincode,
		Country:      m.Country,
		Phone:        m.Phone,
		Links:        make([]portal.AddressLink, len(m.Links)),
	}
	for i, l := range m.Links {
		a.Links[i] = portal.AddressLink{LinkDoctype: l.LinkDoctype, LinkName: l.LinkName}
	}
	return a
}

// AddressModelFromDomain creates a persistence model from a domain Address.
func AddressModelFromDomain(a *portal.Address) *AddressModel {
	m := &AddressModel{
		TenantID:     a.TenantID,
		AddressTitle: a.AddressTitle,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		Pincode:      a.Pincode,
		Country:      a.Country,
		Phone:        a.Phone,
		Links:        make([]AddressLinkModel, len(a.Links)),
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	for i, l := range a.Links {
		m.Links[i] = AddressLinkModel{
			ID:          uuid.New(),
			AddressID:   a.ID,
			LinkDoctype: l.LinkDoctype,
			LinkName:    l.LinkName,
		}
	}
	return m
}

// AddressLinkModel links an address to a customer or user by name.
type AddressLinkModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	AddressID   uuid.UUID `gorm:"type:uuid;not null;index"`
	LinkDoctype string    `gorm:"type:varchar(140);not null"`
	LinkName    string    `gorm:"type:varchar(200);not null;index"`
}

// TableName returns the table name for GORM
func (AddressLinkModel) TableName() string {
	return "address_links"
}
