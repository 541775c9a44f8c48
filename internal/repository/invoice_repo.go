package repository

import (
	"context"
	"errors"

	"ledgerlite/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Invoice, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, status entity.InvoiceStatus, limit, offset int) ([]entity.Invoice, error)
	UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, from, to entity.InvoiceStatus) (bool, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
	// NextNumber returns the sequence one past the highest number ever issued
	// for the owner. Deleting an invoice never lowers it.
	NextNumber(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	err := r.db.WithContext(ctx).Create(invoice).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (r *invoiceRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&invoice).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	status entity.InvoiceStatus,
	limit, offset int,
) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
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
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// UpdateStatus transitions only from the expected current status, so two
// concurrent transitions cannot both apply.
func (r *invoiceRepository) UpdateStatus(
	ctx context.Context,
	ownerID, id uuid.UUID,
	from, to entity.InvoiceStatus,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Invoice{}).
		Where("id = ? AND owner_id = ? AND status = ?", id, ownerID, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *invoiceRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND status = ?", id, ownerID, entity.InvoiceDraft).
		Delete(&entity.Invoice{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// NextNumber reads the maximum numeric suffix rather than the row count, so
// deleted drafts leave no reusable gap below the highest issued number.
func (r *invoiceRepository) NextNumber(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).
		Model(&entity.Invoice{}).
		Select("COALESCE(MAX(CAST(SPLIT_PART(number, '-', 2) AS INTEGER)), 0) + 1").
		Where("owner_id = ?", ownerID).
		Scan(&next).Error
	return next, err
}
