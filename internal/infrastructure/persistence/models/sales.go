package models

import (
	"time"

	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationModel is a quotation of the local sales ledger.
type QuotationModel struct {
	BaseModel
	TenantID        uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_quotation_tenant_name,priority:1"`
	Name            string               `gorm:"type:varchar(140);not null;uniqueIndex:idx_quotation_tenant_name,priority:2"`
	PartyName       string               `gorm:"type:varchar(140);not null;index"`
	Company         string               `gorm:"type:varchar(140)"`
	Status          string               `gorm:"type:varchar(40);not null;default:'Draft'"`
	DocStatus       sales.DocStatus      `gorm:"not null;default:0"`
	GrandTotal      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	TransactionDate time.Time            `gorm:"type:date;not null"`
	Items           []QuotationItemModel `gorm:"foreignKey:QuotationID;references:ID"`
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// ToDomain converts the persistence model to a domain Quotation.
func (m *QuotationModel) ToDomain() *sales.Quotation {
	q := &sales.Quotation{
		Name:            m.Name,
		PartyName:       m.PartyName,
		Company:         m.Company,
		Status:          m.Status,
		DocStatus:       m.DocStatus,
		GrandTotal:      m.GrandTotal,
		TransactionDate: m.TransactionDate,
		Items:           make([]sales.QuotationItem, len(m.Items)),
	}
	for i, item := range m.Items {
		q.Items[i] = item.ToDomain()
	}
	return q
}

// ToSummary converts the model to the listed shape
func (m *QuotationModel) ToSummary() sales.QuotationSummary {
	return sales.QuotationSummary{
		Name:            m.Name,
		GrandTotal:      m.GrandTotal,
		Status:          m.Status,
		TransactionDate: m.TransactionDate,
	}
}

// QuotationModelFromDomain builds a ledger row for tenantID
func QuotationModelFromDomain(tenantID uuid.UUID, q *sales.Quotation, now time.Time) *QuotationModel {
	m := &QuotationModel{
		BaseModel:       newBaseModel(now),
		TenantID:        tenantID,
		Name:            q.Name,
		PartyName:       q.PartyName,
		Company:         q.Company,
		Status:          q.Status,
		DocStatus:       q.DocStatus,
		GrandTotal:      q.GrandTotal,
		TransactionDate: q.TransactionDate,
		Items:           make([]QuotationItemModel, len(q.Items)),
	}
	for i, item := range q.Items {
		m.Items[i] = QuotationItemModel{
			ID:          uuid.New(),
			QuotationID: m.ID,
			Idx:         i + 1,
			ItemCode:    item.ItemCode,
			ItemName:    item.ItemName,
			Description: item.Description,
			Qty:         item.Qty,
			Rate:        item.Rate,
			Amount:      item.Amount(),
			UOM:         item.UOM,
		}
	}
	return m
}

// QuotationItemModel is an item line of a ledger quotation.
type QuotationItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	QuotationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Idx         int             `gorm:"not null"`
	ItemCode    string          `gorm:"type:varchar(140);not null"`
	ItemName    string          `gorm:"type:varchar(140)"`
	Description string          `gorm:"type:text"`
	Qty         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UOM         string          `gorm:"type:varchar(40)"`
}

// TableName returns the table name for GORM
func (QuotationItemModel) TableName() string {
	return "quotation_items"
}

// ToDomain converts the item line
func (m *QuotationItemModel) ToDomain() sales.QuotationItem {
	return sales.QuotationItem{
		ItemCode:    m.ItemCode,
		ItemName:    m.ItemName,
		Description: m.Description,
		Qty:         m.Qty,
		Rate:        m.Rate,
		UOM:         m.UOM,
	}
}

// SalesOrderModel is a sales order of the local ledger.
type SalesOrderModel struct {
	BaseModel
	TenantID        uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_sales_order_tenant_name,priority:1"`
	Name            string                `gorm:"type:varchar(140);not null;uniqueIndex:idx_sales_order_tenant_name,priority:2"`
	Customer        string                `gorm:"type:varchar(140);not null;index"`
	Company         string                `gorm:"type:varchar(140)"`
	TransactionDate time.Time             `gorm:"type:date;not null"`
	DeliveryDate    time.Time             `gorm:"type:date;not null"`
	DocStatus       sales.DocStatus       `gorm:"not null;default:0"`
	GrandTotal      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Items           []SalesOrderItemModel `gorm:"foreignKey:SalesOrderID;references:ID"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts the persistence model to a domain SalesOrder.
func (m *SalesOrderModel) ToDomain() *sales.SalesOrder {
	o := &sales.SalesOrder{
		Name:            m.Name,
		Customer:        m.Customer,
		Company:         m.Company,
		TransactionDate: m.TransactionDate,
		DeliveryDate:    m.DeliveryDate,
		DocStatus:       m.DocStatus,
		Items:           make([]sales.SalesOrderItem, len(m.Items)),
	}
	for i, item := range m.Items {
		o.Items[i] = sales.SalesOrderItem{
			ItemCode:    item.ItemCode,
			ItemName:    item.ItemName,
			Description: item.Description,
			Qty:         item.Qty,
			Rate:        item.Rate,
			UOM:         item.UOM,
			PrevDocName: item.PrevDocName,
		}
	}
	return o
}

// SalesOrderModelFromDomain builds a ledger row for tenantID
func SalesOrderModelFromDomain(tenantID uuid.UUID, o *sales.SalesOrder, now time.Time) *SalesOrderModel {
	m := &SalesOrderModel{
		BaseModel:       newBaseModel(now),
		TenantID:        tenantID,
		Name:            o.Name,
		Customer:        o.Customer,
		Company:         o.Company,
		TransactionDate: o.TransactionDate,
		DeliveryDate:    o.DeliveryDate,
		DocStatus:       o.DocStatus,
		GrandTotal:      o.GrandTotal(),
		Items:           make([]SalesOrderItemModel, len(o.Items)),
	}
	for i, item := range o.Items {
		m.Items[i] = SalesOrderItemModel{
			ID:           uuid.New(),
			SalesOrderID: m.ID,
			Idx:          i + 1,
			ItemCode:     item.ItemCode,
			ItemName:     item.ItemName,
			Description:  item.Description,
			Qty:          item.Qty,
			Rate:         item.Rate,
			Amount:       item.Qty.Mul(item.Rate),
			UOM:          item.UOM,
			PrevDocName:  item.PrevDocName,
		}
	}
	return m
}

// SalesOrderItemModel is an item line of a ledger sales order.
type SalesOrderItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	SalesOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Idx          int             `gorm:"not null"`
	ItemCode     string          `gorm:"type:varchar(140);not null"`
	ItemName     string          `gorm:"type:varchar(140)"`
	Description  string          `gorm:"type:text"`
	Qty          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UOM          string          `gorm:"type:varchar(40)"`
	PrevDocName  string          `gorm:"type:varchar(140);index"`
}

// TableName returns the table name for GORM
func (SalesOrderItemModel) TableName() string {
	return "sales_order_items"
}

// PaymentEntryModel is a payment entry of the local ledger.
type PaymentEntryModel struct {
	BaseModel
	TenantID       uuid.UUID                    `gorm:"type:uuid;not null;uniqueIndex:idx_payment_entry_tenant_name,priority:1"`
	Name           string                       `gorm:"type:varchar(140);not null;uniqueIndex:idx_payment_entry_tenant_name,priority:2"`
	PaymentType    string                       `gorm:"type:varchar(20);not null"`
	Company        string                       `gorm:"type:varchar(140)"`
	PartyType      string                       `gorm:"type:varchar(40);not null"`
	Party          string                       `gorm:"type:varchar(140);not null;index"`
	PostingDate    time.Time                    `gorm:"type:date;not null"`
	ModeOfPayment  string                       `gorm:"type:varchar(140)"`
	PaidTo         string                       `gorm:"type:varchar(140);not null"`
	PaidAmount     decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	ReceivedAmount decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	ReferenceNo    string                       `gorm:"type:varchar(140)"`
	ReferenceDate  time.Time                    `gorm:"type:date"`
	DocStatus      sales.DocStatus              `gorm:"not null;default:0"`
	References     []PaymentEntryReferenceModel `gorm:"foreignKey:PaymentEntryID;references:ID"`
}

// TableName returns the table name for GORM
func (PaymentEntryModel) TableName() string {
	return "payment_entries"
}

// ToDomain converts the persistence model to a domain PaymentEntry.
func (m *PaymentEntryModel) ToDomain() *sales.PaymentEntry {
	e := &sales.PaymentEntry{
		Name:           m.Name,
		PaymentType:    m.PaymentType,
		Company:        m.Company,
		PartyType:      m.PartyType,
		Party:          m.Party,
		PostingDate:    m.PostingDate,
		ModeOfPayment:  m.ModeOfPayment,
		PaidTo:         m.PaidTo,
		PaidAmount:     m.PaidAmount,
		ReceivedAmount: m.ReceivedAmount,
		ReferenceNo:    m.ReferenceNo,
		ReferenceDate:  m.ReferenceDate,
		DocStatus:      m.DocStatus,
		References:     make([]sales.PaymentReference, len(m.References)),
	}
	for i, ref := range m.References {
		e.References[i] = sales.PaymentReference{
			ReferenceDoctype: ref.ReferenceDoctype,
			ReferenceName:    ref.ReferenceName,
			DueDate:          ref.DueDate,
			AllocatedAmount:  ref.AllocatedAmount,
		}
	}
	return e
}

// PaymentEntryModelFromDomain builds a ledger row for tenantID
func PaymentEntryModelFromDomain(tenantID uuid.UUID, e *sales.PaymentEntry, now time.Time) *PaymentEntryModel {
	m := &PaymentEntryModel{
		BaseModel:      newBaseModel(now),
		TenantID:       tenantID,
		Name:           e.Name,
		PaymentType:    e.PaymentType,
		Company:        e.Company,
		PartyType:      e.PartyType,
		Party:          e.Party,
		PostingDate:    e.PostingDate,
		ModeOfPayment:  e.ModeOfPayment,
		PaidTo:         e.PaidTo,
		PaidAmount:     e.PaidAmount,
		ReceivedAmount: e.ReceivedAmount,
		ReferenceNo:    e.ReferenceNo,
		ReferenceDate:  e.ReferenceDate,
		DocStatus:      e.DocStatus,
		References:     make([]PaymentEntryReferenceModel, len(e.References)),
	}
	for i, ref := range e.References {
		m.References[i] = PaymentEntryReferenceModel{
			ID:               uuid.New(),
			PaymentEntryID:   m.ID,
			Idx:              i + 1,
			ReferenceDoctype: ref.ReferenceDoctype,
			ReferenceName:    ref.ReferenceName,
			DueDate:          ref.DueDate,
			AllocatedAmount:  ref.AllocatedAmount,
		}
	}
	return m
}

// PaymentEntryReferenceModel links a payment entry to the document it settles.
type PaymentEntryReferenceModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	PaymentEntryID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Idx              int             `gorm:"not null"`
	ReferenceDoctype string          `gorm:"type:varchar(140);not null"`
	ReferenceName    string          `gorm:"type:varchar(140);not null;index"`
	DueDate          time.Time       `gorm:"type:date"`
	AllocatedAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PaymentEntryReferenceModel) TableName() string {
	return "payment_entry_references"
}

// ModeOfPaymentAccountModel maps a mode of payment to its default account per company.
type ModeOfPaymentAccountModel struct {
	BaseModel
	TenantID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mop_account,priority:1"`
	ModeOfPayment  string    `gorm:"type:varchar(140);not null;uniqueIndex:idx_mop_account,priority:2"`
	Company        string    `gorm:"type:varchar(140);not null;uniqueIndex:idx_mop_account,priority:3"`
	DefaultAccount string    `gorm:"type:varchar(140);not null"`
}

// TableName returns the table name for GORM
func (ModeOfPaymentAccountModel) TableName() string {
	return "mode_of_payment_accounts"
}

// NamingSeriesModel holds the last number issued for a name prefix.
type NamingSeriesModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Prefix    string    `gorm:"type:varchar(140);primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (NamingSeriesModel) TableName() string {
	return "naming_series"
}
