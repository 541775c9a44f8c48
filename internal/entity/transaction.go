package entity

import (
	"time"

	"github.com/google/uuid"
)

type TransactionKind string

const (
	TransactionIncome  TransactionKind = "income"
	TransactionExpense TransactionKind = "expense"
)

type Transaction struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Owner   User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`

	Kind     TransactionKind `gorm:"type:varchar(10);not null;index"`
	Category string          `gorm:"type:varchar(100);not null"`
	Amount   float64         `gorm:"type:decimal(12,2);not null"`
	Note     *string         `gorm:"type:text"`

	// Invoice that produced this record, when it came from a paid invoice.
	InvoiceID *uuid.UUID `gorm:"type:uuid;index"`

	OccurredAt time.Time `gorm:"index"`
	CreatedAt  time.Time
}
