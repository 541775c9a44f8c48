package repository

import (
	"context"

	"ledgerlite/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionTotals struct {
	Income  float64
	Expense float64
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, kind entity.TransactionKind, limit, offset int) ([]entity.Transaction, error)
	TotalsByOwner(ctx context.Context, ownerID uuid.UUID) (TransactionTotals, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	kind entity.TransactionKind,
	limit, offset int,
) ([]entity.Transaction, error) {
	var transactions []entity.Transaction
	query := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("occurred_at DESC")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *transactionRepository) TotalsByOwner(ctx context.Context, ownerID uuid.UUID) (TransactionTotals, error) {
	var rows []struct {
		Kind  entity.TransactionKind
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Transaction{}).
		Select("kind, COALESCE(SUM(amount), 0) AS total").
		Where("owner_id = ?", ownerID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return TransactionTotals{}, err
	}

	var totals TransactionTotals
	for _, row := range rows {
		switch row.Kind {
		case entity.TransactionIncome:
			totals.Income = row.Total
		case entity.TransactionExpense:
			totals.Expense = row.Total
		}
	}
	return totals, nil
}
