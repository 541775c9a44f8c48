package repository

import (
	"context"
	"errors"

	"ledgerlite/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuotationRepository interface {
	Create(ctx context.Context, quotation *entity.Quotation) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Quotation, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, status entity.QuotationStatus, limit, offset int) ([]entity.Quotation, error)
	UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, from, to entity.QuotationStatus) (bool, error)
	MarkConverted(ctx context.Context, ownerID, id, invoiceID uuid.UUID) (bool, error)
	NextNumber(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type quotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, quotation *entity.Quotation) error {
	err := r.db.WithContext(ctx).Create(quotation).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (r *quotationRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&quotation).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *quotationRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	status entity.QuotationStatus,
	limit, offset int,
) ([]entity.Quotation, error) {
	var quotations []entity.Quotation
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

func (r *quotationRepository) UpdateStatus(
	ctx context.Context,
	ownerID, id uuid.UUID,
	from, to entity.QuotationStatus,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Quotation{}).
		Where("id = ? AND owner_id = ? AND status = ?", id, ownerID, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkConverted records the produced invoice; the invoice_id IS NULL guard
// keeps an accepted quotation from converting twice.
func (r *quotationRepository) MarkConverted(ctx context.Context, ownerID, id, invoiceID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Quotation{}).
		Where("id = ? AND owner_id = ? AND status = ? AND invoice_id IS NULL",
			id, ownerID, entity.QuotationAccepted).
		Update("invoice_id", invoiceID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *quotationRepository) NextNumber(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).
		Model(&entity.Quotation{}).
		Select("COALESCE(MAX(CAST(SPLIT_PART(number, '-', 2) AS INTEGER)), 0) + 1").
		Where("owner_id = ?", ownerID).
		Scan(&next).Error
	return next, err
}
