package repository

import (
	"context"
	"errors"
	"time"

	"ledgerlite/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OneTimeCodeStore is the single shared mutable resource of the auth core.
// Both mutating operations are atomic conditional writes: CreateIfNoRecent
// refuses issuance inside the cooldown window without a separate read, and
// Consume succeeds for at most one caller per code.
type OneTimeCodeStore interface {
	// CreateIfNoRecent persists the code unless another code for the same
	// (email, purpose) was created within the cooldown. Returns false with no
	// new record when the cooldown refuses the insert.
	CreateIfNoRecent(ctx context.Context, code *entity.OneTimeCode, cooldown time.Duration) (bool, error)

	// FindLatestActive returns the newest unconsumed code for (email, purpose),
	// or nil when none exists. Expiry is judged by the caller.
	FindLatestActive(ctx context.Context, email string, purpose entity.CodePurpose) (*entity.OneTimeCode, error)

	// Consume marks the code used. Returns false when it was already consumed.
	Consume(ctx context.Context, code *entity.OneTimeCode) (bool, error)
}

type oneTimeCodeRepository struct {
	db *gorm.DB
}

func NewOneTimeCodeRepository(db *gorm.DB) OneTimeCodeStore {
	return &oneTimeCodeRepository{db: db}
}

func (r *oneTimeCodeRepository) CreateIfNoRecent(
	ctx context.Context,
	code *entity.OneTimeCode,
	cooldown time.Duration,
) (bool, error) {
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}
	threshold := code.CreatedAt.Add(-cooldown)

	// Single statement so two concurrent sends cannot both pass a separate
	// cooldown check before either row lands.
	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO one_time_codes (id, email, code, purpose, expires_at, created_at)
		SELECT ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM one_time_codes
			WHERE email = ? AND purpose = ? AND created_at > ?
		)`,
		code.ID, code.Email, code.Code, code.Purpose, code.ExpiresAt, code.CreatedAt,
		code.Email, code.Purpose, threshold,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *oneTimeCodeRepository) FindLatestActive(
	ctx context.Context,
	email string,
	purpose entity.CodePurpose,
) (*entity.OneTimeCode, error) {
	var code entity.OneTimeCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND purpose = ? AND used_at IS NULL", email, purpose).
		Order("created_at DESC").
		First(&code).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *oneTimeCodeRepository) Consume(ctx context.Context, code *entity.OneTimeCode) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entity.OneTimeCode{}).
		Where("id = ? AND used_at IS NULL", code.ID).
		Update("used_at", &now)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
