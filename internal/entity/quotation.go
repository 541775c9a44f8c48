package entity

import (
	"time"

	"github.com/google/uuid"
)

type QuotationStatus string

const (
	QuotationDraft    QuotationStatus = "draft"
	QuotationSent     QuotationStatus = "sent"
	QuotationAccepted QuotationStatus = "accepted"
	QuotationDeclined QuotationStatus = "declined"
)

type Quotation struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index:idx_quotations_owner_number,unique"`
	Owner   User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`

	Number     string    `gorm:"type:varchar(50);index:idx_quotations_owner_number,unique;not null"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Customer   Customer  `gorm:"constraint:OnDelete:RESTRICT"`

	Status    QuotationStatus `gorm:"type:varchar(20);default:'draft';not null"`
	IssuedAt  time.Time
	ValidThru time.Time

	Subtotal float64 `gorm:"type:decimal(12,2);not null"`
	TaxRate  float64 `gorm:"type:decimal(5,2);default:0"`
	Total    float64 `gorm:"type:decimal(12,2);not null"`

	// Set once the quotation has been converted, so it cannot convert twice.
	InvoiceID *uuid.UUID `gorm:"type:uuid"`

	Items []QuotationItem `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type QuotationItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	QuotationID uuid.UUID `gorm:"type:uuid;not null;index"`

	Description string  `gorm:"type:varchar(500);not null"`
	Quantity    float64 `gorm:"type:decimal(10,2);not null"`
	UnitPrice   float64 `gorm:"type:decimal(12,2);not null"`
	Amount      float64 `gorm:"type:decimal(12,2);not null"`
}
