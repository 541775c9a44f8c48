package entity

import (
	"time"

	"github.com/google/uuid"
)

// CodePurpose scopes a one-time code to a single flow. A code issued for one
// purpose must never validate for another.
type CodePurpose string

const (
	PurposeLoginRecovery     CodePurpose = "login_recovery"
	PurposeEmailVerification CodePurpose = "email_verification"
	PurposePasswordReset     CodePurpose = "password_reset"
)

type OneTimeCode struct {
	ID      uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Email   string      `gorm:"type:varchar(255);index:idx_codes_email_purpose;not null"`
	Code    string      `gorm:"type:varchar(12);not null"`
	Purpose CodePurpose `gorm:"type:varchar(30);index:idx_codes_email_purpose;not null"`

	ExpiresAt time.Time
	UsedAt    *time.Time

	CreatedAt time.Time
}

func (c *OneTimeCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

func (c *OneTimeCode) Consumed() bool {
	return c.UsedAt != nil
}
