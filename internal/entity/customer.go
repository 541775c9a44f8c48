package entity

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Owner   User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`

	Name    string  `gorm:"type:varchar(255);not null"`
	Email   *string `gorm:"type:varchar(255)"`
	Phone   *string `gorm:"type:varchar(30)"`
	Address *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
