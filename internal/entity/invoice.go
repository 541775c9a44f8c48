package entity

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

type Invoice struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index:idx_invoices_owner_number,unique"`
	Owner   User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`

	Number     string    `gorm:"type:varchar(50);index:idx_invoices_owner_number,unique;not null"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Customer   Customer  `gorm:"constraint:OnDelete:RESTRICT"`

	Status   InvoiceStatus `gorm:"type:varchar(20);default:'draft';not null"`
	IssuedAt time.Time
	DueAt    time.Time

	Subtotal float64 `gorm:"type:decimal(12,2);not null"`
	TaxRate  float64 `gorm:"type:decimal(5,2);default:0"`
	Total    float64 `gorm:"type:decimal(12,2);not null"`

	Items []InvoiceItem `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type InvoiceItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index"`

	Description string  `gorm:"type:varchar(500);not null"`
	Quantity    float64 `gorm:"type:decimal(10,2);not null"`
	UnitPrice   float64 `gorm:"type:decimal(12,2);not null"`
	Amount      float64 `gorm:"type:decimal(12,2);not null"`
}
